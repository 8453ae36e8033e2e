package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/packagingcountry/stockroom/api/v1"
	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/services"
	"github.com/packagingcountry/stockroom/internal/store"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

type Handler struct {
	store        *store.Store
	inventorySrv *services.InventoryService
	salesSrv     *services.SalesService
	dashboardSrv *services.DashboardService
	reportSrv    *services.ReportService
	collections  map[models.Collection]collectionEndpoint
}

func New(
	st *store.Store,
	inventorySrv *services.InventoryService,
	salesSrv *services.SalesService,
	dashboardSrv *services.DashboardService,
	reportSrv *services.ReportService,
) *Handler {
	return &Handler{
		store:        st,
		inventorySrv: inventorySrv,
		salesSrv:     salesSrv,
		dashboardSrv: dashboardSrv,
		reportSrv:    reportSrv,
		collections:  newCollectionEndpoints(st),
	}
}

// RegisterHandlers mounts the API on router. Every route but /health sits
// behind the readiness gate.
func RegisterHandlers(router gin.IRouter, h *Handler) {
	router.GET("/health", h.GetHealth)

	data := router.Group("", h.RequireReady())

	data.GET("/collections", h.ListCollections)
	data.GET("/collections/:collection", h.GetRecords)
	data.POST("/collections/:collection", h.CreateRecord)
	data.GET("/collections/:collection/:key", h.GetRecord)
	data.PUT("/collections/:collection/:key", h.PutRecord)
	data.DELETE("/collections/:collection/:key", h.DeleteRecord)

	data.GET("/inventory/levels", h.GetStockLevels)
	data.GET("/inventory/low-stock", h.GetLowStock)
	data.POST("/inventory/:productId/stock-in", h.StockIn)
	data.POST("/inventory/:productId/stock-out", h.StockOut)

	data.GET("/sales", h.GetSales)
	data.POST("/sales/checkout", h.Checkout)

	data.GET("/dashboard", h.GetDashboard)
	data.GET("/reports/inventory.xlsx", h.GetInventoryReport)
}

// RequireReady answers 503 while the store is not Ready. After a failed
// open the open error is reported on every request.
func (h *Handler) RequireReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.store.Status()
		if status.State == models.StoreStateReady {
			c.Next()
			return
		}

		resp := v1.ErrorResponse{
			Error: "store is not ready",
			State: string(status.State),
		}
		if status.Error != nil {
			resp.Error = status.Error.Error()
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp)
	}
}

// statusFor maps service and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case srvErrors.IsInvalidArgumentError(err):
		return http.StatusBadRequest
	case srvErrors.IsUnknownCollectionError(err), srvErrors.IsResourceNotFoundError(err):
		return http.StatusNotFound
	case srvErrors.IsConstraintViolationError(err), srvErrors.IsInsufficientStockError(err):
		return http.StatusConflict
	case srvErrors.IsStoreNotReadyError(err), srvErrors.IsOpenFailedError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status matching err. Internal errors are
// logged and hidden from the client.
func writeError(c *gin.Context, logger string, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.S().Named(logger).Errorw(msg, "error", err, "path", c.FullPath())
		c.JSON(status, v1.ErrorResponse{Error: msg})
		return
	}
	c.JSON(status, v1.NewErrorResponse(err))
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/packagingcountry/stockroom/api/v1"
	"github.com/packagingcountry/stockroom/internal/models"
)

// GetStockLevels returns every product with its quantity
// (GET /inventory/levels)
func (h *Handler) GetStockLevels(c *gin.Context) {
	opts, err := productFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.NewErrorResponse(err))
		return
	}

	levels, err := h.inventorySrv.List(c.Request.Context(), opts...)
	if err != nil {
		writeError(c, "inventory_handler", "failed to list stock levels", err)
		return
	}
	c.JSON(http.StatusOK, levels)
}

// GetLowStock returns the products at or below their reorder level
// (GET /inventory/low-stock)
func (h *Handler) GetLowStock(c *gin.Context) {
	levels, err := h.inventorySrv.LowStock(c.Request.Context())
	if err != nil {
		writeError(c, "inventory_handler", "failed to list low stock", err)
		return
	}
	c.JSON(http.StatusOK, levels)
}

// StockIn adds units to a product's stock
// (POST /inventory/:productId/stock-in)
func (h *Handler) StockIn(c *gin.Context) {
	h.adjustStock(c, h.inventorySrv.StockIn)
}

// StockOut removes units from a product's stock
// (POST /inventory/:productId/stock-out)
func (h *Handler) StockOut(c *gin.Context) {
	h.adjustStock(c, h.inventorySrv.StockOut)
}

func (h *Handler) adjustStock(c *gin.Context, adjust func(context.Context, int64, int) (models.InventoryItem, error)) {
	productID, err := parseKey(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.NewErrorResponse(err))
		return
	}

	var req v1.StockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	item, err := adjust(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		writeError(c, "inventory_handler", "failed to adjust stock", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

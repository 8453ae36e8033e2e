package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/packagingcountry/stockroom/api/v1"
	"github.com/packagingcountry/stockroom/internal/models"
)

// GetHealth reports the store state. It answers 503 until the store is
// ready.
// (GET /health)
func (h *Handler) GetHealth(c *gin.Context) {
	status := h.store.Status()
	if status.State != models.StoreStateReady {
		c.JSON(http.StatusServiceUnavailable, v1.NewHealthResponseFromModel(status, 0))
		return
	}

	info, err := h.store.Schema(c.Request.Context())
	if err != nil {
		writeError(c, "health_handler", "failed to read schema", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewHealthResponseFromModel(status, info.Version))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/packagingcountry/stockroom/api/v1"
)

// GetSales lists sales, optionally within [from, to)
// (GET /sales)
func (h *Handler) GetSales(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.NewErrorResponse(err))
		return
	}

	sales, err := h.salesSrv.List(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, "sales_handler", "failed to list sales", err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// Checkout sells a cart
// (POST /sales/checkout)
func (h *Handler) Checkout(c *gin.Context) {
	var req v1.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	cart, err := req.ToCart()
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.NewErrorResponse(err))
		return
	}

	sale, err := h.salesSrv.Checkout(c.Request.Context(), cart)
	if err != nil {
		writeError(c, "sales_handler", "checkout failed", err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

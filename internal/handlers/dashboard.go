package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetDashboard returns the dashboard summary
// (GET /dashboard)
func (h *Handler) GetDashboard(c *gin.Context) {
	summary, err := h.dashboardSrv.Summary(c.Request.Context())
	if err != nil {
		writeError(c, "dashboard_handler", "failed to compute dashboard", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetInventoryReport returns the stock and sales workbook
// (GET /reports/inventory.xlsx)
func (h *Handler) GetInventoryReport(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reportSrv.Export(c.Request.Context(), &buf); err != nil {
		writeError(c, "report_handler", "failed to generate report", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

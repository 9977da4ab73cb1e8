package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// reportHandler handles HTTP requests for aggregate reports.
type reportHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportHandler(reportingService portssvc.ReportingSvcFacade) *reportHandler {
	return &reportHandler{reportingService: reportingService}
}

// registerReportRoutes sets up the reporting routes.
func registerReportRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportHandler(reportingService)

	rg.GET("/branches/:branchID/reports/daily", h.getDailyReport)
	rg.GET("/branches/:branchID/reports/product-sales", h.getProductSalesReport)
}

func (h *reportHandler) getDailyReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	branchID := c.Param("branchID")

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	resp, err := h.reportingService.GetDailyReport(c.Request.Context(), branchID, date)
	if err != nil {
		respondError(c, logger, err, "Failed to build daily report")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *reportHandler) getProductSalesReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	branchID := c.Param("branchID")

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to date must not precede from date"})
		return
	}

	resp, err := h.reportingService.GetProductSalesReport(c.Request.Context(), branchID, from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to build product sales report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": resp})
}

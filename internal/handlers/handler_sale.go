package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// saleHandler handles HTTP requests related to sales.
type saleHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newSaleHandler(ledgerService portssvc.LedgerSvcFacade) *saleHandler {
	return &saleHandler{ledgerService: ledgerService}
}

// registerSaleRoutes sets up the sale routes.
func registerSaleRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newSaleHandler(ledgerService)

	sales := rg.Group("/sales")
	sales.POST("", h.createSale)
	sales.GET("/:saleID", h.getSale)
	sales.PATCH("/:saleID/status", h.updateSaleStatus)
	sales.DELETE("/:saleID", h.voidSale)

	rg.GET("/branches/:branchID/sales", h.listSales)
}

func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.ledgerService.CreateSale(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create sale")
		return
	}

	c.JSON(http.StatusCreated, dto.ToSaleResponse(sale))
}

func (h *saleHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("saleID")

	sale, err := h.ledgerService.GetSale(c.Request.Context(), saleID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve sale")
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) updateSaleStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("saleID")

	var req dto.UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateSaleStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sale, err := h.ledgerService.UpdateSaleStatus(c.Request.Context(), saleID, req.Status, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update sale status")
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) voidSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("saleID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.ledgerService.VoidSale(c.Request.Context(), saleID, actor); err != nil {
		respondError(c, logger, err, "Failed to void sale")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sale voided"})
}

func (h *saleHandler) listSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	branchID := c.Param("branchID")

	params := dto.ListSalesParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.SaleStatus(statusStr)
		if status != domain.SaleCompleted && status != domain.SaleOnLoan {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status parameter"})
			return
		}
		params.Status = &status
	}

	resp, err := h.ledgerService.ListSales(c.Request.Context(), branchID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list sales")
		return
	}

	c.JSON(http.StatusOK, resp)
}

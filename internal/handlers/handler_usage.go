package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// usageHandler handles HTTP requests related to material usage records.
type usageHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newUsageHandler(ledgerService portssvc.LedgerSvcFacade) *usageHandler {
	return &usageHandler{ledgerService: ledgerService}
}

// registerUsageRoutes sets up the material usage routes.
func registerUsageRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newUsageHandler(ledgerService)

	usages := rg.Group("/usages")
	usages.POST("", h.createUsage)
	usages.PUT("/:usageID", h.updateUsage)
	usages.DELETE("/:usageID", h.deleteUsage)

	rg.GET("/branches/:branchID/usages", h.listUsages)
}

func (h *usageHandler) createUsage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createUsage", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	usage, err := h.ledgerService.RecordMaterialUsage(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to record material usage")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUsageResponse(usage))
}

func (h *usageHandler) updateUsage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	usageID := c.Param("usageID")

	var req dto.UpdateUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateUsage", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	usage, err := h.ledgerService.UpdateMaterialUsage(c.Request.Context(), usageID, req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update material usage")
		return
	}

	c.JSON(http.StatusOK, dto.ToUsageResponse(usage))
}

func (h *usageHandler) deleteUsage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	usageID := c.Param("usageID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.ledgerService.DeleteMaterialUsage(c.Request.Context(), usageID, actor); err != nil {
		respondError(c, logger, err, "Failed to delete material usage")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material usage deleted"})
}

func (h *usageHandler) listUsages(c *gin.Context) {
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

	usages, err := h.ledgerService.ListMaterialUsages(c.Request.Context(), branchID, date)
	if err != nil {
		respondError(c, logger, err, "Failed to list material usages")
		return
	}

	c.JSON(http.StatusOK, gin.H{"usages": dto.ToUsageResponses(usages)})
}

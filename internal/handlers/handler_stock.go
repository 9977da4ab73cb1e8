package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// stockHandler handles HTTP requests for the stock read side.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(stockService portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: stockService}
}

// registerStockRoutes sets up the read-only stock routes.
func registerStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	h := newStockHandler(stockService)

	rg.GET("/branches/:branchID/stock", h.listLevels)
	rg.GET("/branches/:branchID/stock/:itemKind/:itemID", h.getLevel)
}

func (h *stockHandler) listLevels(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	branchID := c.Param("branchID")

	var query dto.ListStockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid kind parameter"})
		return
	}
	var kind *domain.ItemKind
	if query.Kind != "" {
		k := domain.ItemKind(query.Kind)
		kind = &k
	}

	levels, err := h.stockService.ListLevelsByBranch(c.Request.Context(), branchID, kind)
	if err != nil {
		respondError(c, logger, err, "Failed to list stock levels")
		return
	}

	c.JSON(http.StatusOK, gin.H{"levels": dto.ToStockLevelResponses(levels)})
}

func (h *stockHandler) getLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind := domain.ItemKind(c.Param("itemKind"))
	if kind != domain.ItemKindProduct && kind != domain.ItemKindRawMaterial {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item kind"})
		return
	}

	key := domain.StockKey{
		BranchID: c.Param("branchID"),
		ItemID:   c.Param("itemID"),
		ItemKind: kind,
	}
	level, err := h.stockService.GetLevel(c.Request.Context(), key)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve stock level")
		return
	}

	c.JSON(http.StatusOK, dto.ToStockLevelResponse(level))
}

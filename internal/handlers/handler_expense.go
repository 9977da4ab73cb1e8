package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newExpenseHandler(ledgerService portssvc.LedgerSvcFacade) *expenseHandler {
	return &expenseHandler{ledgerService: ledgerService}
}

// registerExpenseRoutes sets up the expense routes.
func registerExpenseRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newExpenseHandler(ledgerService)

	expenses := rg.Group("/expenses")
	expenses.POST("", h.createExpense)
	expenses.GET("/:expenseID", h.getExpense)
	expenses.PUT("/:expenseID", h.updateExpense)
	expenses.DELETE("/:expenseID", h.deleteExpense)

	rg.GET("/branches/:branchID/expenses", h.listExpenses)
}

func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.ledgerService.CreateExpense(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create expense")
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	expense, err := h.ledgerService.GetExpense(c.Request.Context(), expenseID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.ledgerService.UpdateExpense(c.Request.Context(), expenseID, req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.ledgerService.DeleteExpense(c.Request.Context(), expenseID, actor); err != nil {
		respondError(c, logger, err, "Failed to delete expense")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	branchID := c.Param("branchID")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	resp, err := h.ledgerService.ListExpenses(c.Request.Context(), branchID, limit, nextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}

	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// auditHandler handles HTTP requests for the audit trail read side.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: auditService}
}

// registerAuditRoutes sets up the audit trail routes. Clearing the trail is
// restricted to super admins.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audit := rg.Group("/audit-logs")
	audit.GET("", h.listEntries)
	audit.GET("/export", h.exportEntries)
	audit.DELETE("", middleware.RequireRoles(domain.RoleSuperAdmin), h.clearEntries)
}

func parseAuditParams(c *gin.Context) (dto.ListAuditParams, error) {
	params := dto.ListAuditParams{
		TableName: c.Query("table"),
		Action:    c.Query("action"),
	}
	if params.Action != "" {
		switch domain.AuditAction(params.Action) {
		case domain.AuditCreate, domain.AuditUpdate, domain.AuditDelete:
		default:
			return params, fmt.Errorf("invalid action parameter")
		}
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return params, fmt.Errorf("invalid from date, expected YYYY-MM-DD")
		}
		params.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return params, fmt.Errorf("invalid to date, expected YYYY-MM-DD")
		}
		// Inclusive upper bound: push to the end of the day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		params.To = &end
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return params, fmt.Errorf("invalid limit parameter")
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}
	return params, nil
}

func (h *auditHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params, err := parseAuditParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.auditService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list audit entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *auditHandler) exportEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params, err := parseAuditParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	csvBytes, err := h.auditService.ExportEntriesCSV(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to export audit entries")
		return
	}

	filename := "audit-logs-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", csvBytes)
}

func (h *auditHandler) clearEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	removed, err := h.auditService.ClearEntries(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to clear audit entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// exportPageSize bounds each repository fetch while exporting.
const exportPageSize = 500

// auditService is the read/admin side of the audit trail. Entries are
// appended only by the ledger service inside its unit of work.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new audit read service.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func filterFromParams(params dto.ListAuditParams) portsrepo.AuditFilter {
	return portsrepo.AuditFilter{
		TableName: params.TableName,
		Action:    domain.AuditAction(params.Action),
		From:      params.From,
		To:        params.To,
	}
}

// ListEntries retrieves a paginated, newest-first list of audit entries.
func (s *auditService) ListEntries(ctx context.Context, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, nextToken, err := s.auditRepo.ListEntries(ctx, filterFromParams(params), params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list audit entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve audit entries: %w", err)
	}

	return &dto.ListAuditResponse{
		Entries:   dto.ToAuditEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// ExportEntriesCSV renders all entries matching the filter as CSV. The
// pagination token loop drains the trail page by page so the repository
// query stays bounded.
func (s *auditService) ExportEntriesCSV(ctx context.Context, params dto.ListAuditParams) ([]byte, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{"audit_id", "table_name", "action", "record_id", "actor_user_id", "actor_role", "description", "old_data", "new_data", "created_at"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	filter := filterFromParams(params)
	token := params.NextToken
	for {
		entries, nextToken, err := s.auditRepo.ListEntries(ctx, filter, exportPageSize, token)
		if err != nil {
			logger.Error("Failed to fetch audit entries for export", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to retrieve audit entries: %w", err)
		}
		for _, e := range entries {
			record := []string{
				e.AuditID,
				e.TableName,
				string(e.Action),
				e.RecordID,
				e.ActorUserID,
				string(e.ActorRole),
				e.Description,
				string(e.OldData),
				string(e.NewData),
				e.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		if nextToken == nil {
			break
		}
		token = nextToken
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	logger.Info("Audit trail exported", slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// ClearEntries bulk-deletes the audit trail.
func (s *auditService) ClearEntries(ctx context.Context) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	removed, err := s.auditRepo.ClearEntries(ctx)
	if err != nil {
		logger.Error("Failed to clear audit entries", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to clear audit entries: %w", err)
	}

	logger.Info("Audit trail cleared", slog.Int64("removed", removed))
	return removed, nil
}

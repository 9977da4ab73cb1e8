package services

import (
	"context"

	"github.com/gochicken/gochicken_backend/internal/dto"
)

// AuditSvcFacade is the thin read/admin surface over the audit trail.
// Writing entries is not exposed here; entries are appended exclusively by
// ledger operations inside their unit of work.
type AuditSvcFacade interface {
	ListEntries(ctx context.Context, params dto.ListAuditParams) (*dto.ListAuditResponse, error)

	// ExportEntriesCSV streams the filtered entries as CSV rows.
	ExportEntriesCSV(ctx context.Context, params dto.ListAuditParams) ([]byte, error)

	// ClearEntries bulk-deletes the trail (administrative operation) and
	// returns the number of removed entries.
	ClearEntries(ctx context.Context) (int64, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditSink appends immutable change records. The append participates in the
// caller's transaction: if the audit write fails, the business mutation rolls
// back with it. Auditing is not best-effort.
type AuditSink interface {
	AppendInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error
}

// AuditFilter narrows audit listing. Zero values mean "no filter".
type AuditFilter struct {
	TableName string
	Action    domain.AuditAction
	From      *time.Time
	To        *time.Time
}

// AuditReader defines the thin query side of the audit trail.
type AuditReader interface {
	// ListEntries retrieves a paginated, newest-first list of entries
	// matching the filter using token-based pagination.
	ListEntries(ctx context.Context, filter AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error)
}

// AuditAdmin defines administrative maintenance of the trail. Individual
// entries are never deleted; only a bulk clear exists.
type AuditAdmin interface {
	// ClearEntries removes all audit entries and returns how many were removed.
	ClearEntries(ctx context.Context) (int64, error)
}

// AuditRepositoryFacade combines all audit repository interfaces.
type AuditRepositoryFacade interface {
	AuditSink
	AuditReader
	AuditAdmin
}

package repositories

import (
	"context"
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// UsageReader defines read operations for material usage records.
type UsageReader interface {
	// FindUsageByID retrieves a usage record by its unique identifier.
	FindUsageByID(ctx context.Context, usageID string) (*domain.MaterialUsageRecord, error)

	// ListUsagesByDate retrieves all usage records of one branch on one day.
	ListUsagesByDate(ctx context.Context, branchID string, date time.Time) ([]domain.MaterialUsageRecord, error)
}

// UsageWriter defines write operations for material usage records, all
// inside the caller's transaction.
type UsageWriter interface {
	CreateUsageInTx(ctx context.Context, tx pgx.Tx, usage domain.MaterialUsageRecord) error
	UpdateUsageInTx(ctx context.Context, tx pgx.Tx, usage domain.MaterialUsageRecord) error
	DeleteUsageInTx(ctx context.Context, tx pgx.Tx, usageID string) error
}

// UsageRepositoryFacade combines all usage repository interfaces.
type UsageRepositoryFacade interface {
	UsageReader
	UsageWriter
}

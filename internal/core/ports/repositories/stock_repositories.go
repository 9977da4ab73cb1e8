package repositories

import (
	"context"
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// StockReader defines read operations for stock levels.
type StockReader interface {
	// FindLevel retrieves the stock level for one (branch, item, kind) key.
	FindLevel(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error)

	// ListLevelsByBranch retrieves all stock levels of a branch, optionally
	// filtered to one item kind.
	ListLevelsByBranch(ctx context.Context, branchID string, kind *domain.ItemKind) ([]domain.StockLevel, error)
}

// StockWriter defines the locking adjust path. Both methods require the
// caller's active transaction: the row locks taken by FindLevelsForUpdate
// are held until that transaction commits or aborts, serializing concurrent
// adjustments to the same (branch, item) pair.
type StockWriter interface {
	// FindLevelsForUpdate locks the level rows for the given keys with
	// SELECT ... FOR UPDATE and returns their current state. Fails with
	// apperrors.ErrNotFound when any key has no level row.
	FindLevelsForUpdate(ctx context.Context, tx pgx.Tx, keys []domain.StockKey) (map[domain.StockKey]domain.StockLevel, error)

	// ApplyAdjustmentsInTx applies quantity += delta per key inside the
	// caller's transaction. Callers must have locked the rows and verified
	// the non-negativity floor against the locked snapshot first.
	ApplyAdjustmentsInTx(ctx context.Context, tx pgx.Tx, adjustments map[domain.StockKey]decimal.Decimal, updatedBy string, now time.Time) error
}

// StockRepositoryFacade combines all stock repository interfaces.
type StockRepositoryFacade interface {
	StockReader
	StockWriter
}

package services

import (
	"context"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
)

// StockSvcFacade is the read-only stock surface. Quantities are mutated only
// through ledger operations, never through this interface.
type StockSvcFacade interface {
	GetLevel(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error)
	ListLevelsByBranch(ctx context.Context, branchID string, kind *domain.ItemKind) ([]domain.StockLevel, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// stockService exposes read access to stock levels. All writes go through
// the ledger service.
type stockService struct {
	stockRepo portsrepo.StockRepositoryFacade
}

// NewStockService creates a new stock read service.
func NewStockService(stockRepo portsrepo.StockRepositoryFacade) portssvc.StockSvcFacade {
	return &stockService{stockRepo: stockRepo}
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

func (s *stockService) GetLevel(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	level, err := s.stockRepo.FindLevel(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find stock level", slog.String("error", err.Error()), slog.String("branch_id", key.BranchID), slog.String("item_id", key.ItemID))
		}
		return nil, fmt.Errorf("failed to find stock level for item %s: %w", key.ItemID, err)
	}
	return level, nil
}

func (s *stockService) ListLevelsByBranch(ctx context.Context, branchID string, kind *domain.ItemKind) ([]domain.StockLevel, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	levels, err := s.stockRepo.ListLevelsByBranch(ctx, branchID, kind)
	if err != nil {
		logger.Error("Failed to list stock levels", slog.String("error", err.Error()), slog.String("branch_id", branchID))
		return nil, fmt.Errorf("failed to retrieve stock levels: %w", err)
	}
	return levels, nil
}

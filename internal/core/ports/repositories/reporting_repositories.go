package repositories

import (
	"context"
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
)

// ReportingRepository is the aggregate read model. It never mutates state.
type ReportingRepository interface {
	// GetDailyBranchSummary aggregates revenue, expense totals and sale
	// counts for one branch on one day.
	GetDailyBranchSummary(ctx context.Context, branchID string, date time.Time) (*domain.DailyBranchSummary, error)

	// GetProductSales aggregates per-product quantities and revenue for a
	// branch over a date range.
	GetProductSales(ctx context.Context, branchID string, from, to time.Time) ([]domain.ProductSalesAggregate, error)
}

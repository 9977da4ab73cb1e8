package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// newPgxReportingRepository creates a new repository for aggregate reports.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetDailyBranchSummary aggregates revenue, expense totals and sale counts
// for one branch on one calendar day.
func (r *PgxReportingRepository) GetDailyBranchSummary(ctx context.Context, branchID string, date time.Time) (*domain.DailyBranchSummary, error) {
	query := `
		SELECT
			COALESCE((SELECT COUNT(*) FROM sale_transactions WHERE branch_id = $1 AND occurred_at::date = $2::date), 0),
			COALESCE((SELECT SUM(total_amount) FROM sale_transactions WHERE branch_id = $1 AND occurred_at::date = $2::date), 0),
			COALESCE((SELECT SUM(total_amount) FROM expenses WHERE branch_id = $1 AND date::date = $2::date), 0);
	`
	var saleCount int64
	var revenue, expenseTotal decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, branchID, date).Scan(&saleCount, &revenue, &expenseTotal); err != nil {
		return nil, fmt.Errorf("failed to aggregate daily summary for branch %s: %w", branchID, err)
	}

	return &domain.DailyBranchSummary{
		BranchID:     branchID,
		Date:         date,
		SaleCount:    saleCount,
		Revenue:      revenue,
		ExpenseTotal: expenseTotal,
		NetIncome:    revenue.Sub(expenseTotal),
	}, nil
}

// GetProductSales aggregates per-product quantities and revenue for a branch
// over a date range (inclusive).
func (r *PgxReportingRepository) GetProductSales(ctx context.Context, branchID string, from, to time.Time) ([]domain.ProductSalesAggregate, error) {
	query := `
		SELECT li.product_id, p.name, COALESCE(SUM(li.quantity), 0), COALESCE(SUM(li.subtotal), 0)
		FROM sale_line_items li
		JOIN sale_transactions st ON st.sale_id = li.sale_id
		JOIN products p ON p.product_id = li.product_id
		WHERE st.branch_id = $1 AND st.occurred_at::date BETWEEN $2::date AND $3::date
		GROUP BY li.product_id, p.name
		ORDER BY SUM(li.subtotal) DESC;
	`
	rows, err := r.pool.Query(ctx, query, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product sales for branch %s: %w", branchID, err)
	}
	defer rows.Close()

	aggs := []domain.ProductSalesAggregate{}
	for rows.Next() {
		var a domain.ProductSalesAggregate
		if err := rows.Scan(&a.ProductID, &a.ProductName, &a.QuantitySold, &a.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan product sales row: %w", err)
		}
		aggs = append(aggs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product sales rows: %w", err)
	}
	return aggs, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	"github.com/gochicken/gochicken_backend/internal/models"
	"github.com/gochicken/gochicken_backend/internal/utils/pagination"
)

type PgxSaleRepository struct {
	pool *pgxpool.Pool
}

// newPgxSaleRepository creates a new repository for sale data.
func newPgxSaleRepository(pool *pgxpool.Pool) portsrepo.SaleRepositoryFacade {
	return &PgxSaleRepository{pool: pool}
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

func toModelSale(d domain.SaleTransaction) models.SaleTransaction {
	return models.SaleTransaction{
		SaleID:          d.SaleID,
		TransactionCode: d.TransactionCode,
		BranchID:        d.BranchID,
		CustomerName:    d.CustomerName,
		PaymentMethod:   d.PaymentMethod,
		Status:          string(d.Status),
		Origin:          string(d.Origin),
		TotalAmount:     d.TotalAmount,
		OccurredAt:      d.OccurredAt,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainSale(m models.SaleTransaction) domain.SaleTransaction {
	return domain.SaleTransaction{
		SaleID:          m.SaleID,
		TransactionCode: m.TransactionCode,
		BranchID:        m.BranchID,
		CustomerName:    m.CustomerName,
		PaymentMethod:   m.PaymentMethod,
		Status:          domain.SaleStatus(m.Status),
		Origin:          domain.SaleOrigin(m.Origin),
		TotalAmount:     m.TotalAmount,
		OccurredAt:      m.OccurredAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const saleColumns = `sale_id, transaction_code, branch_id, customer_name, payment_method, status, origin, total_amount, occurred_at, created_at, created_by, last_updated_at, last_updated_by`

func scanSale(row pgx.Row) (models.SaleTransaction, error) {
	var m models.SaleTransaction
	err := row.Scan(
		&m.SaleID,
		&m.TransactionCode,
		&m.BranchID,
		&m.CustomerName,
		&m.PaymentMethod,
		&m.Status,
		&m.Origin,
		&m.TotalAmount,
		&m.OccurredAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateSaleInTx inserts the sale header and its line items within a transaction.
func (r *PgxSaleRepository) CreateSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.SaleTransaction, lines []domain.SaleLineItem) error {
	m := toModelSale(sale)

	headerQuery := `
		INSERT INTO sale_transactions (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, headerQuery,
		m.SaleID,
		m.TransactionCode,
		m.BranchID,
		m.CustomerName,
		m.PaymentMethod,
		m.Status,
		m.Origin,
		m.TotalAmount,
		m.OccurredAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction code %s already exists", apperrors.ErrDuplicate, m.TransactionCode)
		}
		return fmt.Errorf("failed to save sale %s: %w", m.SaleID, err)
	}

	lineQuery := `
		INSERT INTO sale_line_items (line_item_id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery, line.LineItemID, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to save sale line item %s: %w", lines[i].LineItemID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close sale line item batch: %w", err)
	}
	return batchErr
}

// FindSaleByID retrieves a sale header by its ID.
func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.SaleTransaction, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sale_transactions
		WHERE sale_id = $1;
	`
	m, err := scanSale(r.pool.QueryRow(ctx, query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID %s: %w", saleID, err)
	}
	sale := toDomainSale(m)
	return &sale, nil
}

// FindLineItemsBySaleID retrieves all line items of one sale.
func (r *PgxSaleRepository) FindLineItemsBySaleID(ctx context.Context, saleID string) ([]domain.SaleLineItem, error) {
	query := `
		SELECT line_item_id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_line_items
		WHERE sale_id = $1
		ORDER BY line_item_id;
	`
	rows, err := r.pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for sale %s: %w", saleID, err)
	}
	defer rows.Close()

	lines := []domain.SaleLineItem{}
	for rows.Next() {
		var m models.SaleLineItem
		if err := rows.Scan(&m.LineItemID, &m.SaleID, &m.ProductID, &m.Quantity, &m.UnitPrice, &m.Subtotal); err != nil {
			return nil, fmt.Errorf("failed to scan sale line item row: %w", err)
		}
		lines = append(lines, domain.SaleLineItem{
			LineItemID: m.LineItemID,
			SaleID:     m.SaleID,
			ProductID:  m.ProductID,
			Quantity:   m.Quantity,
			UnitPrice:  m.UnitPrice,
			Subtotal:   m.Subtotal,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale line item rows: %w", err)
	}
	return lines, nil
}

// ListSalesByBranch retrieves a paginated list of sales for a branch, newest
// first, using token-based pagination on (occurred_at, sale_id).
func (r *PgxSaleRepository) ListSalesByBranch(ctx context.Context, branchID string, status *domain.SaleStatus, limit int, nextToken *string) ([]domain.SaleTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	args := []any{branchID, statusArg, limit + 1}
	query := `
		SELECT ` + saleColumns + `
		FROM sale_transactions
		WHERE branch_id = $1 AND ($2::text IS NULL OR status = $2)
	`
	if nextToken != nil {
		occurredAt, saleID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (occurred_at, sale_id) < ($4, $5)`
		args = append(args, occurredAt, saleID)
	}
	query += `
		ORDER BY occurred_at DESC, sale_id DESC
		LIMIT $3;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query sales for branch %s: %w", branchID, err)
	}
	defer rows.Close()

	sales := []domain.SaleTransaction{}
	for rows.Next() {
		m, err := scanSale(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan sale row: %w", err)
		}
		sales = append(sales, toDomainSale(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating sale rows: %w", err)
	}

	var token *string
	if len(sales) > limit {
		sales = sales[:limit]
		last := sales[len(sales)-1]
		t := pagination.EncodeToken(last.OccurredAt, last.SaleID)
		token = &t
	}
	return sales, token, nil
}

// CountSalesByCodePrefix counts sales whose transaction code starts with the
// given prefix. Runs inside the caller's transaction so the count stays
// consistent with the pending insert.
func (r *PgxSaleRepository) CountSalesByCodePrefix(ctx context.Context, tx pgx.Tx, prefix string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM sale_transactions
		WHERE transaction_code = $1 OR transaction_code LIKE $1 || '-%';
	`
	var count int64
	if err := tx.QueryRow(ctx, query, prefix).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sales by code prefix: %w", err)
	}
	return count, nil
}

// UpdateSaleStatusInTx updates only the payment status of a sale.
func (r *PgxSaleRepository) UpdateSaleStatusInTx(ctx context.Context, tx pgx.Tx, saleID string, status domain.SaleStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE sale_transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE sale_id = $1;
	`
	ct, err := tx.Exec(ctx, query, saleID, string(status), now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status for sale %s: %w", saleID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, saleID)
	}
	return nil
}

// DeleteSaleInTx removes the line items and the sale header.
func (r *PgxSaleRepository) DeleteSaleInTx(ctx context.Context, tx pgx.Tx, saleID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM sale_line_items WHERE sale_id = $1;`, saleID); err != nil {
		return fmt.Errorf("failed to delete line items for sale %s: %w", saleID, err)
	}
	ct, err := tx.Exec(ctx, `DELETE FROM sale_transactions WHERE sale_id = $1;`, saleID)
	if err != nil {
		return fmt.Errorf("failed to delete sale %s: %w", saleID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: sale %s", apperrors.ErrNotFound, saleID)
	}
	return nil
}

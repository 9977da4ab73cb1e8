package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	"github.com/gochicken/gochicken_backend/internal/models"
	"github.com/gochicken/gochicken_backend/internal/utils/pagination"
)

type PgxExpenseRepository struct {
	pool *pgxpool.Pool
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{pool: pool}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func toModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:              d.ExpenseID,
		BranchID:               d.BranchID,
		ExpenseTypeID:          d.ExpenseTypeID,
		Date:                   d.Date,
		TotalAmount:            d.TotalAmount,
		Description:            d.Description,
		DailyInstallmentAmount: d.DailyInstallmentAmount,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:              m.ExpenseID,
		BranchID:               m.BranchID,
		ExpenseTypeID:          m.ExpenseTypeID,
		Date:                   m.Date,
		TotalAmount:            m.TotalAmount,
		Description:            m.Description,
		DailyInstallmentAmount: m.DailyInstallmentAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const expenseColumns = `expense_id, branch_id, expense_type_id, date, total_amount, description, daily_installment_amount, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.BranchID,
		&m.ExpenseTypeID,
		&m.Date,
		&m.TotalAmount,
		&m.Description,
		&m.DailyInstallmentAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertLineItemsInTx batches the line item inserts for one expense.
func (r *PgxExpenseRepository) insertLineItemsInTx(ctx context.Context, tx pgx.Tx, lines []domain.ExpenseLineItem) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO expense_line_items (line_item_id, expense_id, raw_material_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.LineItemID, line.ExpenseID, line.RawMaterialID, line.Quantity, line.UnitPrice, line.Subtotal)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to save expense line item %s: %w", lines[i].LineItemID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close expense line item batch: %w", err)
	}
	return batchErr
}

// CreateExpenseInTx inserts the expense header and its line items.
func (r *PgxExpenseRepository) CreateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, lines []domain.ExpenseLineItem) error {
	m := toModelExpense(expense)

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.BranchID,
		m.ExpenseTypeID,
		m.Date,
		m.TotalAmount,
		m.Description,
		m.DailyInstallmentAmount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense %s: %w", m.ExpenseID, err)
	}

	return r.insertLineItemsInTx(ctx, tx, lines)
}

// UpdateExpenseInTx updates the header fields and replaces the full line
// item set (delete-then-recreate).
func (r *PgxExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, lines []domain.ExpenseLineItem) error {
	m := toModelExpense(expense)

	query := `
		UPDATE expenses
		SET expense_type_id = $2, date = $3, total_amount = $4, description = $5, daily_installment_amount = $6, last_updated_at = $7, last_updated_by = $8
		WHERE expense_id = $1;
	`
	ct, err := tx.Exec(ctx, query,
		m.ExpenseID,
		m.ExpenseTypeID,
		m.Date,
		m.TotalAmount,
		m.Description,
		m.DailyInstallmentAmount,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", m.ExpenseID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, m.ExpenseID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM expense_line_items WHERE expense_id = $1;`, m.ExpenseID); err != nil {
		return fmt.Errorf("failed to delete old line items for expense %s: %w", m.ExpenseID, err)
	}
	return r.insertLineItemsInTx(ctx, tx, lines)
}

// DeleteExpenseInTx removes the line items and the expense header.
func (r *PgxExpenseRepository) DeleteExpenseInTx(ctx context.Context, tx pgx.Tx, expenseID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM expense_line_items WHERE expense_id = $1;`, expenseID); err != nil {
		return fmt.Errorf("failed to delete line items for expense %s: %w", expenseID, err)
	}
	ct, err := tx.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return nil
}

// FindExpenseByID retrieves an expense header by its ID.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE expense_id = $1;
	`
	m, err := scanExpense(r.pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	expense := toDomainExpense(m)
	return &expense, nil
}

// FindLineItemsByExpenseID retrieves all line items of one expense.
func (r *PgxExpenseRepository) FindLineItemsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseLineItem, error) {
	query := `
		SELECT line_item_id, expense_id, raw_material_id, quantity, unit_price, subtotal
		FROM expense_line_items
		WHERE expense_id = $1
		ORDER BY line_item_id;
	`
	rows, err := r.pool.Query(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for expense %s: %w", expenseID, err)
	}
	defer rows.Close()

	lines := []domain.ExpenseLineItem{}
	for rows.Next() {
		var m models.ExpenseLineItem
		if err := rows.Scan(&m.LineItemID, &m.ExpenseID, &m.RawMaterialID, &m.Quantity, &m.UnitPrice, &m.Subtotal); err != nil {
			return nil, fmt.Errorf("failed to scan expense line item row: %w", err)
		}
		lines = append(lines, domain.ExpenseLineItem{
			LineItemID:    m.LineItemID,
			ExpenseID:     m.ExpenseID,
			RawMaterialID: m.RawMaterialID,
			Quantity:      m.Quantity,
			UnitPrice:     m.UnitPrice,
			Subtotal:      m.Subtotal,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense line item rows: %w", err)
	}
	return lines, nil
}

// ListExpensesByBranch retrieves a paginated list of expenses for a branch,
// newest first, using token-based pagination on (date, expense_id).
func (r *PgxExpenseRepository) ListExpensesByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{branchID, limit + 1}
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE branch_id = $1
	`
	if nextToken != nil {
		date, expenseID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (date, expense_id) < ($3, $4)`
		args = append(args, date, expenseID)
	}
	query += `
		ORDER BY date DESC, expense_id DESC
		LIMIT $2;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query expenses for branch %s: %w", branchID, err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, toDomainExpense(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	var token *string
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[len(expenses)-1]
		t := pagination.EncodeToken(last.Date, last.ExpenseID)
		token = &t
	}
	return expenses, token, nil
}

package repositories

import (
	"context"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense header by its unique identifier.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// FindLineItemsByExpenseID retrieves all line items of one expense.
	FindLineItemsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseLineItem, error)

	// ListExpensesByBranch retrieves a paginated list of expenses for a
	// branch using token-based pagination.
	ListExpensesByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Expense, *string, error)
}

// ExpenseWriter defines write operations for expense data, all inside the
// caller's transaction. Line items are always replaced wholesale
// (delete-then-recreate), never diffed.
type ExpenseWriter interface {
	// CreateExpenseInTx inserts the expense header and its line items.
	CreateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, lines []domain.ExpenseLineItem) error

	// UpdateExpenseInTx updates the header fields and replaces the full
	// line item set.
	UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, lines []domain.ExpenseLineItem) error

	// DeleteExpenseInTx removes the line items and the expense header.
	DeleteExpenseInTx(ctx context.Context, tx pgx.Tx, expenseID string) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

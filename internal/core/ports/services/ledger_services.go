package services

import (
	"context"
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/gochicken/gochicken_backend/internal/dto"
)

// SaleLedgerSvc covers the sale-side ledger use cases. Every mutation runs
// in one atomic unit of work: stock adjustments, the business record and the
// audit entry commit together or not at all.
type SaleLedgerSvc interface {
	// CreateSale records a sale, decrementing product stock per line item.
	CreateSale(ctx context.Context, req dto.CreateSaleRequest, actor domain.Actor) (*domain.SaleTransaction, error)

	// VoidSale reverses a sale's stock effect and removes it. Sales with
	// origin MOBILE_POS are immutable and fail with apperrors.ErrForbidden.
	VoidSale(ctx context.Context, saleID string, actor domain.Actor) error

	// UpdateSaleStatus switches between OnLoan and Completed without
	// touching stock.
	UpdateSaleStatus(ctx context.Context, saleID string, status domain.SaleStatus, actor domain.Actor) (*domain.SaleTransaction, error)

	// GetSale retrieves a sale with its line items.
	GetSale(ctx context.Context, saleID string) (*domain.SaleTransaction, error)

	// ListSales retrieves a paginated list of a branch's sales.
	ListSales(ctx context.Context, branchID string, params dto.ListSalesParams) (*dto.ListSalesResponse, error)
}

// UsageLedgerSvc covers the material-usage ledger use cases.
type UsageLedgerSvc interface {
	RecordMaterialUsage(ctx context.Context, req dto.CreateUsageRequest, actor domain.Actor) (*domain.MaterialUsageRecord, error)
	UpdateMaterialUsage(ctx context.Context, usageID string, req dto.UpdateUsageRequest, actor domain.Actor) (*domain.MaterialUsageRecord, error)
	DeleteMaterialUsage(ctx context.Context, usageID string, actor domain.Actor) error
	ListMaterialUsages(ctx context.Context, branchID string, date time.Time) ([]domain.MaterialUsageRecord, error)
}

// ExpenseLedgerSvc covers the expense ledger use cases. Only expenses whose
// type resolves to the raw-material purchase type touch stock.
type ExpenseLedgerSvc interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actor domain.Actor) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, actor domain.Actor) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string, actor domain.Actor) error
	GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, branchID string, limit int, nextToken *string) (*dto.ListExpensesResponse, error)
}

// LedgerSvcFacade combines the ledger use cases. One service implements all
// three: they share the unit-of-work plumbing and the stock/audit rules.
type LedgerSvcFacade interface {
	SaleLedgerSvc
	UsageLedgerSvc
	ExpenseLedgerSvc
}

package repositories

import (
	"context"
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SaleReader defines read operations for sale data.
type SaleReader interface {
	// FindSaleByID retrieves a sale header by its unique identifier.
	FindSaleByID(ctx context.Context, saleID string) (*domain.SaleTransaction, error)

	// FindLineItemsBySaleID retrieves all line items of one sale.
	FindLineItemsBySaleID(ctx context.Context, saleID string) ([]domain.SaleLineItem, error)

	// ListSalesByBranch retrieves a paginated list of sales for a branch
	// using token-based pagination, optionally filtered by status.
	ListSalesByBranch(ctx context.Context, branchID string, status *domain.SaleStatus, limit int, nextToken *string) ([]domain.SaleTransaction, *string, error)

	// CountSalesByCodePrefix counts, inside the caller's transaction, sales
	// whose transaction code starts with the given prefix. Used to pick a
	// disambiguating suffix when two sales land in the same minute.
	CountSalesByCodePrefix(ctx context.Context, tx pgx.Tx, prefix string) (int64, error)
}

// SaleWriter defines write operations for sale data. All methods operate
// inside the caller's transaction so the sale write, its stock adjustments
// and the audit entry commit or roll back together.
type SaleWriter interface {
	// CreateSaleInTx inserts the sale header and its line items.
	// Returns apperrors.ErrDuplicate when the transaction code is taken.
	CreateSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.SaleTransaction, lines []domain.SaleLineItem) error

	// UpdateSaleStatusInTx updates only the payment status.
	UpdateSaleStatusInTx(ctx context.Context, tx pgx.Tx, saleID string, status domain.SaleStatus, updatedBy string, now time.Time) error

	// DeleteSaleInTx removes the line items and the sale header.
	DeleteSaleInTx(ctx context.Context, tx pgx.Tx, saleID string) error
}

// SaleRepositoryFacade combines all sale repository interfaces.
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
}

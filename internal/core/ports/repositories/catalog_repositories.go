package repositories

import (
	"context"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
)

// ProductReader looks up sellable products. The ledger resolves unit prices
// here; caller-supplied prices are ignored.
type ProductReader interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
}

// RawMaterialReader looks up raw materials.
type RawMaterialReader interface {
	FindRawMaterialByID(ctx context.Context, rawMaterialID string) (*domain.RawMaterial, error)
	FindRawMaterialsByIDs(ctx context.Context, rawMaterialIDs []string) (map[string]domain.RawMaterial, error)
}

// ExpenseTypeReader looks up expense types. The resolved name decides whether
// an expense carries a stock effect.
type ExpenseTypeReader interface {
	FindExpenseTypeByID(ctx context.Context, expenseTypeID string) (*domain.ExpenseType, error)
}

// BranchReader looks up branches.
type BranchReader interface {
	FindBranchByID(ctx context.Context, branchID string) (*domain.Branch, error)
	ListBranches(ctx context.Context) ([]domain.Branch, error)
}

// CatalogRepositoryFacade combines the catalog lookup interfaces.
type CatalogRepositoryFacade interface {
	ProductReader
	RawMaterialReader
	ExpenseTypeReader
	BranchReader
}

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
)

type PgxCatalogRepository struct {
	pool *pgxpool.Pool
}

// newPgxCatalogRepository creates a new repository for catalog lookups.
func newPgxCatalogRepository(pool *pgxpool.Pool) portsrepo.CatalogRepositoryFacade {
	return &PgxCatalogRepository{pool: pool}
}

var _ portsrepo.CatalogRepositoryFacade = (*PgxCatalogRepository)(nil)

func toDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID: m.ProductID,
		Name:      m.Name,
		UnitPrice: m.UnitPrice,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainRawMaterial(m models.RawMaterial) domain.RawMaterial {
	return domain.RawMaterial{
		RawMaterialID: m.RawMaterialID,
		Name:          m.Name,
		Unit:          m.Unit,
		UnitPrice:     m.UnitPrice,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainBranch(m models.Branch) domain.Branch {
	return domain.Branch{
		BranchID: m.BranchID,
		Name:     m.Name,
		Address:  m.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const productColumns = `product_id, name, unit_price, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(&m.ProductID, &m.Name, &m.UnitPrice, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

// FindProductByID retrieves a product by its ID.
func (r *PgxCatalogRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	m, err := scanProduct(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}
	product := toDomainProduct(m)
	return &product, nil
}

// FindProductsByIDs retrieves multiple products by their IDs. Missing IDs are
// simply absent from the map; the caller decides whether that is an error.
func (r *PgxCatalogRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		productsMap[m.ProductID] = toDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return productsMap, nil
}

const rawMaterialColumns = `raw_material_id, name, unit, unit_price, created_at, created_by, last_updated_at, last_updated_by`

func scanRawMaterial(row pgx.Row) (models.RawMaterial, error) {
	var m models.RawMaterial
	err := row.Scan(&m.RawMaterialID, &m.Name, &m.Unit, &m.UnitPrice, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

// FindRawMaterialByID retrieves a raw material by its ID.
func (r *PgxCatalogRepository) FindRawMaterialByID(ctx context.Context, rawMaterialID string) (*domain.RawMaterial, error) {
	query := `SELECT ` + rawMaterialColumns + ` FROM raw_materials WHERE raw_material_id = $1;`
	m, err := scanRawMaterial(r.pool.QueryRow(ctx, query, rawMaterialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find raw material by ID %s: %w", rawMaterialID, err)
	}
	material := toDomainRawMaterial(m)
	return &material, nil
}

// FindRawMaterialsByIDs retrieves multiple raw materials by their IDs.
func (r *PgxCatalogRepository) FindRawMaterialsByIDs(ctx context.Context, rawMaterialIDs []string) (map[string]domain.RawMaterial, error) {
	if len(rawMaterialIDs) == 0 {
		return map[string]domain.RawMaterial{}, nil
	}

	query := `SELECT ` + rawMaterialColumns + ` FROM raw_materials WHERE raw_material_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, rawMaterialIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw materials by IDs: %w", err)
	}
	defer rows.Close()

	materialsMap := make(map[string]domain.RawMaterial)
	for rows.Next() {
		m, err := scanRawMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raw material row: %w", err)
		}
		materialsMap[m.RawMaterialID] = toDomainRawMaterial(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating raw material rows: %w", err)
	}
	return materialsMap, nil
}

// FindExpenseTypeByID retrieves an expense type by its ID.
func (r *PgxCatalogRepository) FindExpenseTypeByID(ctx context.Context, expenseTypeID string) (*domain.ExpenseType, error) {
	query := `
		SELECT expense_type_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM expense_types
		WHERE expense_type_id = $1;
	`
	var m models.ExpenseType
	err := r.pool.QueryRow(ctx, query, expenseTypeID).Scan(
		&m.ExpenseTypeID,
		&m.Name,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense type by ID %s: %w", expenseTypeID, err)
	}
	return &domain.ExpenseType{
		ExpenseTypeID: m.ExpenseTypeID,
		Name:          m.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}, nil
}

const branchColumns = `branch_id, name, address, created_at, created_by, last_updated_at, last_updated_by`

func scanBranch(row pgx.Row) (models.Branch, error) {
	var m models.Branch
	err := row.Scan(&m.BranchID, &m.Name, &m.Address, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

// FindBranchByID retrieves a branch by its ID.
func (r *PgxCatalogRepository) FindBranchByID(ctx context.Context, branchID string) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE branch_id = $1;`
	m, err := scanBranch(r.pool.QueryRow(ctx, query, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find branch by ID %s: %w", branchID, err)
	}
	branch := toDomainBranch(m)
	return &branch, nil
}

// ListBranches retrieves all branches ordered by name.
func (r *PgxCatalogRepository) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches ORDER BY name;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	defer rows.Close()

	branches := []domain.Branch{}
	for rows.Next() {
		m, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branch row: %w", err)
		}
		branches = append(branches, toDomainBranch(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating branch rows: %w", err)
	}
	return branches, nil
}

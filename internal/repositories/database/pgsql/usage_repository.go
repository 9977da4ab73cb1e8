package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	"github.com/gochicken/gochicken_backend/internal/models"
)

type PgxUsageRepository struct {
	pool *pgxpool.Pool
}

// newPgxUsageRepository creates a new repository for material usage records.
func newPgxUsageRepository(pool *pgxpool.Pool) portsrepo.UsageRepositoryFacade {
	return &PgxUsageRepository{pool: pool}
}

var _ portsrepo.UsageRepositoryFacade = (*PgxUsageRepository)(nil)

func toDomainUsage(m models.MaterialUsage) domain.MaterialUsageRecord {
	return domain.MaterialUsageRecord{
		UsageID:       m.UsageID,
		BranchID:      m.BranchID,
		Date:          m.Date,
		RawMaterialID: m.RawMaterialID,
		QuantityUsed:  m.QuantityUsed,
		Note:          m.Note,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const usageColumns = `usage_id, branch_id, date, raw_material_id, quantity_used, note, created_at, created_by, last_updated_at, last_updated_by`

func scanUsage(row pgx.Row) (models.MaterialUsage, error) {
	var m models.MaterialUsage
	err := row.Scan(
		&m.UsageID,
		&m.BranchID,
		&m.Date,
		&m.RawMaterialID,
		&m.QuantityUsed,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateUsageInTx inserts a usage record within a transaction.
func (r *PgxUsageRepository) CreateUsageInTx(ctx context.Context, tx pgx.Tx, usage domain.MaterialUsageRecord) error {
	query := `
		INSERT INTO material_usages (` + usageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		usage.UsageID,
		usage.BranchID,
		usage.Date,
		usage.RawMaterialID,
		usage.QuantityUsed,
		usage.Note,
		usage.CreatedAt,
		usage.CreatedBy,
		usage.LastUpdatedAt,
		usage.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save usage record %s: %w", usage.UsageID, err)
	}
	return nil
}

// UpdateUsageInTx updates the quantity and note of a usage record.
func (r *PgxUsageRepository) UpdateUsageInTx(ctx context.Context, tx pgx.Tx, usage domain.MaterialUsageRecord) error {
	query := `
		UPDATE material_usages
		SET quantity_used = $2, note = $3, last_updated_at = $4, last_updated_by = $5
		WHERE usage_id = $1;
	`
	ct, err := tx.Exec(ctx, query, usage.UsageID, usage.QuantityUsed, usage.Note, usage.LastUpdatedAt, usage.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update usage record %s: %w", usage.UsageID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: usage record %s", apperrors.ErrNotFound, usage.UsageID)
	}
	return nil
}

// DeleteUsageInTx removes a usage record.
func (r *PgxUsageRepository) DeleteUsageInTx(ctx context.Context, tx pgx.Tx, usageID string) error {
	ct, err := tx.Exec(ctx, `DELETE FROM material_usages WHERE usage_id = $1;`, usageID)
	if err != nil {
		return fmt.Errorf("failed to delete usage record %s: %w", usageID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: usage record %s", apperrors.ErrNotFound, usageID)
	}
	return nil
}

// FindUsageByID retrieves a usage record by its ID.
func (r *PgxUsageRepository) FindUsageByID(ctx context.Context, usageID string) (*domain.MaterialUsageRecord, error) {
	query := `
		SELECT ` + usageColumns + `
		FROM material_usages
		WHERE usage_id = $1;
	`
	m, err := scanUsage(r.pool.QueryRow(ctx, query, usageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find usage record by ID %s: %w", usageID, err)
	}
	usage := toDomainUsage(m)
	return &usage, nil
}

// ListUsagesByDate retrieves all usage records of one branch on one calendar day.
func (r *PgxUsageRepository) ListUsagesByDate(ctx context.Context, branchID string, date time.Time) ([]domain.MaterialUsageRecord, error) {
	query := `
		SELECT ` + usageColumns + `
		FROM material_usages
		WHERE branch_id = $1 AND date::date = $2::date
		ORDER BY created_at, usage_id;
	`
	rows, err := r.pool.Query(ctx, query, branchID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage records for branch %s: %w", branchID, err)
	}
	defer rows.Close()

	usages := []domain.MaterialUsageRecord{}
	for rows.Next() {
		m, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage record row: %w", err)
		}
		usages = append(usages, toDomainUsage(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage record rows: %w", err)
	}
	return usages, nil
}

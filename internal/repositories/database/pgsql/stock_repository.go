package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	"github.com/gochicken/gochicken_backend/internal/models"
)

type PgxStockRepository struct {
	pool *pgxpool.Pool
}

// newPgxStockRepository creates a new repository for stock level data.
func newPgxStockRepository(pool *pgxpool.Pool) portsrepo.StockRepositoryFacade {
	return &PgxStockRepository{pool: pool}
}

var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

func toDomainStockLevel(m models.StockLevel) domain.StockLevel {
	return domain.StockLevel{
		StockLevelID: m.StockLevelID,
		BranchID:     m.BranchID,
		ItemID:       m.ItemID,
		ItemKind:     domain.ItemKind(m.ItemKind),
		Quantity:     m.Quantity,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanStockLevel(row pgx.Row) (models.StockLevel, error) {
	var m models.StockLevel
	err := row.Scan(
		&m.StockLevelID,
		&m.BranchID,
		&m.ItemID,
		&m.ItemKind,
		&m.Quantity,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const stockLevelColumns = `stock_level_id, branch_id, item_id, item_kind, quantity, created_at, created_by, last_updated_at, last_updated_by`

// FindLevel retrieves the stock level for one (branch, item, kind) key.
func (r *PgxStockRepository) FindLevel(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE branch_id = $1 AND item_id = $2 AND item_kind = $3;
	`
	m, err := scanStockLevel(r.pool.QueryRow(ctx, query, key.BranchID, key.ItemID, string(key.ItemKind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stock level for item %s: %w", key.ItemID, err)
	}
	level := toDomainStockLevel(m)
	return &level, nil
}

// ListLevelsByBranch retrieves all stock levels of a branch, optionally
// filtered to one item kind.
func (r *PgxStockRepository) ListLevelsByBranch(ctx context.Context, branchID string, kind *domain.ItemKind) ([]domain.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE branch_id = $1 AND ($2::text IS NULL OR item_kind = $2)
		ORDER BY item_kind, item_id;
	`
	var kindArg *string
	if kind != nil {
		k := string(*kind)
		kindArg = &k
	}

	rows, err := r.pool.Query(ctx, query, branchID, kindArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels for branch %s: %w", branchID, err)
	}
	defer rows.Close()

	levels := []domain.StockLevel{}
	for rows.Next() {
		m, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock level row: %w", err)
		}
		levels = append(levels, toDomainStockLevel(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock level rows: %w", err)
	}
	return levels, nil
}

// FindLevelsForUpdate retrieves the level rows for the given keys and locks
// them with FOR UPDATE. Rows are locked in (branch, kind, item) order so two
// operations touching the same keys always lock in the same sequence.
// Must be called within a transaction.
func (r *PgxStockRepository) FindLevelsForUpdate(ctx context.Context, tx pgx.Tx, keys []domain.StockKey) (map[domain.StockKey]domain.StockLevel, error) {
	if len(keys) == 0 {
		return map[domain.StockKey]domain.StockLevel{}, nil
	}

	branchIDs := make([]string, len(keys))
	itemIDs := make([]string, len(keys))
	itemKinds := make([]string, len(keys))
	for i, key := range keys {
		branchIDs[i] = key.BranchID
		itemIDs[i] = key.ItemID
		itemKinds[i] = string(key.ItemKind)
	}

	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels
		WHERE (branch_id, item_id, item_kind) IN (
			SELECT * FROM unnest($1::text[], $2::text[], $3::text[])
		)
		ORDER BY branch_id, item_kind, item_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, branchIDs, itemIDs, itemKinds)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels for update: %w", err)
	}
	defer rows.Close()

	levelsMap := make(map[domain.StockKey]domain.StockLevel)
	for rows.Next() {
		m, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked stock level row: %w", err)
		}
		level := toDomainStockLevel(m)
		levelsMap[level.Key()] = level
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked stock level rows: %w", err)
	}

	// Check if all requested levels were found and locked
	if len(levelsMap) != len(keys) {
		missing := []string{}
		for _, key := range keys {
			if _, found := levelsMap[key]; !found {
				missing = append(missing, key.ItemID)
			}
		}
		slog.WarnContext(ctx, "Some stock levels requested for update lock were not found", "missing_items", missing)
		return nil, fmt.Errorf("%w: could not find or lock stock levels for items: %v", apperrors.ErrNotFound, missing)
	}

	return levelsMap, nil
}

// ApplyAdjustmentsInTx applies quantity += delta per key within a transaction.
// Callers must hold the row locks taken by FindLevelsForUpdate.
func (r *PgxStockRepository) ApplyAdjustmentsInTx(ctx context.Context, tx pgx.Tx, adjustments map[domain.StockKey]decimal.Decimal, updatedBy string, now time.Time) error {
	if len(adjustments) == 0 {
		return nil
	}

	query := `
		UPDATE stock_levels
		SET quantity = quantity + $4, last_updated_at = $5, last_updated_by = $6
		WHERE branch_id = $1 AND item_id = $2 AND item_kind = $3;
	`

	batch := &pgx.Batch{}
	keys := make([]domain.StockKey, 0, len(adjustments))
	for key, delta := range adjustments {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, key.BranchID, key.ItemID, string(key.ItemKind), delta, now, updatedBy)
		keys = append(keys, key)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to adjust stock for item %s: %w", keys[i].ItemID, err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: stock level for item %s not found during adjustment", apperrors.ErrNotFound, keys[i].ItemID)
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close stock adjustment batch: %w", err)
	}
	return batchErr
}

package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
)

// ledgerService implements the sale, usage and expense ledger use cases.
// Every mutation follows the same shape: validate, begin a transaction, lock
// the affected stock rows, check the non-negativity floor, adjust, write the
// business record, append one audit entry, commit.
type ledgerService struct {
	txManager   portsrepo.TransactionManager
	stockRepo   portsrepo.StockRepositoryFacade
	saleRepo    portsrepo.SaleRepositoryFacade
	expenseRepo portsrepo.ExpenseRepositoryFacade
	usageRepo   portsrepo.UsageRepositoryFacade
	auditRepo   portsrepo.AuditRepositoryFacade
	catalogRepo portsrepo.CatalogRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	stockRepo portsrepo.StockRepositoryFacade,
	saleRepo portsrepo.SaleRepositoryFacade,
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	usageRepo portsrepo.UsageRepositoryFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
	catalogRepo portsrepo.CatalogRepositoryFacade,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		txManager:   txManager,
		stockRepo:   stockRepo,
		saleRepo:    saleRepo,
		expenseRepo: expenseRepo,
		usageRepo:   usageRepo,
		auditRepo:   auditRepo,
		catalogRepo: catalogRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// adjustStockInTx locks the level rows for all keys with a non-zero delta,
// verifies that no quantity would drop below zero, applies the adjustments
// and returns the before/after movements for the audit snapshot. The row
// locks are held until the caller's transaction ends, so the floor check and
// the update are atomic with respect to concurrent operations on the same
// keys. itemNames is used for error messages and audit readability only.
func (s *ledgerService) adjustStockInTx(ctx context.Context, tx pgx.Tx, adjustments map[domain.StockKey]decimal.Decimal, itemNames map[domain.StockKey]string, updatedBy string, now time.Time) ([]domain.StockMovement, error) {
	keys := make([]domain.StockKey, 0, len(adjustments))
	for key, delta := range adjustments {
		if delta.IsZero() {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// Stable ordering keeps audit snapshots deterministic and matches the
	// lock order used by the repository.
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.BranchID != b.BranchID {
			return a.BranchID < b.BranchID
		}
		if a.ItemKind != b.ItemKind {
			return a.ItemKind < b.ItemKind
		}
		return a.ItemID < b.ItemID
	})

	levels, err := s.stockRepo.FindLevelsForUpdate(ctx, tx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock levels: %w", err)
	}

	movements := make([]domain.StockMovement, 0, len(keys))
	applied := make(map[domain.StockKey]decimal.Decimal, len(keys))
	for _, key := range keys {
		level, found := levels[key]
		if !found {
			return nil, fmt.Errorf("%w: no stock level for item %s at branch %s", apperrors.ErrNotFound, key.ItemID, key.BranchID)
		}
		delta := adjustments[key]
		after := level.Quantity.Add(delta)
		if after.IsNegative() {
			name := itemNames[key]
			if name == "" {
				name = key.ItemID
			}
			return nil, fmt.Errorf("%w: %s has %s on hand, operation requires %s", apperrors.ErrInsufficientStock, name, level.Quantity.String(), delta.Neg().String())
		}
		applied[key] = delta
		movements = append(movements, domain.StockMovement{
			BranchID: key.BranchID,
			ItemID:   key.ItemID,
			ItemKind: key.ItemKind,
			ItemName: itemNames[key],
			Delta:    delta,
			Before:   level.Quantity,
			After:    after,
		})
	}

	if err := s.stockRepo.ApplyAdjustmentsInTx(ctx, tx, applied, updatedBy, now); err != nil {
		return nil, fmt.Errorf("failed to apply stock adjustments: %w", err)
	}
	return movements, nil
}

// appendAuditInTx assembles and appends the single audit entry of a ledger
// mutation. It runs inside the caller's transaction: if it fails, the whole
// mutation rolls back.
func (s *ledgerService) appendAuditInTx(ctx context.Context, tx pgx.Tx, tableName string, action domain.AuditAction, recordID string, oldData, newData any, actor domain.Actor, description string, now time.Time) error {
	entry, err := domain.NewAuditEntry(uuid.NewString(), tableName, action, recordID, oldData, newData, actor, description, now)
	if err != nil {
		return fmt.Errorf("failed to build audit entry: %w", err)
	}
	if err := s.auditRepo.AppendInTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func newAuditFields(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

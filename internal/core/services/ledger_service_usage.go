package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// RecordMaterialUsage records daily consumption of a raw material and
// decrements its stock in the same transaction.
// Implements portssvc.UsageLedgerSvc
func (s *ledgerService) RecordMaterialUsage(ctx context.Context, req dto.CreateUsageRequest, actor domain.Actor) (*domain.MaterialUsageRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.QuantityUsed.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity used must be positive", apperrors.ErrValidation)
	}

	material, err := s.catalogRepo.FindRawMaterialByID(ctx, req.RawMaterialID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve raw material %s: %w", req.RawMaterialID, err)
	}

	now := time.Now().UTC()
	usage := domain.MaterialUsageRecord{
		UsageID:       uuid.NewString(),
		BranchID:      req.BranchID,
		Date:          req.Date,
		RawMaterialID: req.RawMaterialID,
		QuantityUsed:  req.QuantityUsed,
		Note:          req.Note,
		AuditFields:   newAuditFields(actor.UserID, now),
	}

	key := domain.StockKey{BranchID: req.BranchID, ItemID: req.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
	adjustments := map[domain.StockKey]decimal.Decimal{key: req.QuantityUsed.Neg()}
	itemNames := map[domain.StockKey]string{key: material.Name}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	movements, err := s.adjustStockInTx(ctx, tx, adjustments, itemNames, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.usageRepo.CreateUsageInTx(ctx, tx, usage); err != nil {
		logger.Error("Failed to save usage record", slog.String("error", err.Error()), slog.String("usage_id", usage.UsageID))
		return nil, fmt.Errorf("failed to save usage record: %w", err)
	}

	snapshot := domain.UsageSnapshot{Usage: usage}
	if len(movements) > 0 {
		snapshot.StockMovement = &movements[0]
	}
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableMaterialUsages, domain.AuditCreate, usage.UsageID, nil, snapshot, actor, "material usage recorded for "+material.Name, now); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit usage: %w", err)
	}

	logger.Info("Material usage recorded", slog.String("usage_id", usage.UsageID), slog.String("raw_material_id", req.RawMaterialID), slog.String("branch_id", req.BranchID))
	return &usage, nil
}

// UpdateMaterialUsage changes the consumed quantity of a record. The old
// quantity is reversed and the new one applied as a single net adjustment
// against the locked level, so the floor holds even when the edit raises
// consumption.
// Implements portssvc.UsageLedgerSvc
func (s *ledgerService) UpdateMaterialUsage(ctx context.Context, usageID string, req dto.UpdateUsageRequest, actor domain.Actor) (*domain.MaterialUsageRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.QuantityUsed.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity used must be positive", apperrors.ErrValidation)
	}

	usage, err := s.usageRepo.FindUsageByID(ctx, usageID)
	if err != nil {
		return nil, fmt.Errorf("failed to find usage record %s: %w", usageID, err)
	}

	material, err := s.catalogRepo.FindRawMaterialByID(ctx, usage.RawMaterialID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve raw material %s: %w", usage.RawMaterialID, err)
	}

	oldSnapshot := domain.UsageSnapshot{Usage: *usage}
	now := time.Now().UTC()

	// Undo the old decrement, apply the new one. Net delta keeps the two
	// steps atomic under the same row lock.
	netDelta := usage.QuantityUsed.Sub(req.QuantityUsed)
	key := domain.StockKey{BranchID: usage.BranchID, ItemID: usage.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
	adjustments := map[domain.StockKey]decimal.Decimal{key: netDelta}
	itemNames := map[domain.StockKey]string{key: material.Name}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	movements, err := s.adjustStockInTx(ctx, tx, adjustments, itemNames, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	usage.QuantityUsed = req.QuantityUsed
	usage.Note = req.Note
	usage.LastUpdatedAt = now
	usage.LastUpdatedBy = actor.UserID

	if err := s.usageRepo.UpdateUsageInTx(ctx, tx, *usage); err != nil {
		logger.Error("Failed to update usage record", slog.String("error", err.Error()), slog.String("usage_id", usageID))
		return nil, fmt.Errorf("failed to update usage record: %w", err)
	}

	newSnapshot := domain.UsageSnapshot{Usage: *usage}
	if len(movements) > 0 {
		newSnapshot.StockMovement = &movements[0]
	}
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableMaterialUsages, domain.AuditUpdate, usageID, oldSnapshot, newSnapshot, actor, "material usage updated for "+material.Name, now); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit usage update: %w", err)
	}

	logger.Info("Material usage updated", slog.String("usage_id", usageID))
	return usage, nil
}

// DeleteMaterialUsage removes a usage record and returns its quantity to
// stock.
// Implements portssvc.UsageLedgerSvc
func (s *ledgerService) DeleteMaterialUsage(ctx context.Context, usageID string, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	usage, err := s.usageRepo.FindUsageByID(ctx, usageID)
	if err != nil {
		return fmt.Errorf("failed to find usage record %s: %w", usageID, err)
	}

	material, err := s.catalogRepo.FindRawMaterialByID(ctx, usage.RawMaterialID)
	if err != nil {
		return fmt.Errorf("failed to resolve raw material %s: %w", usage.RawMaterialID, err)
	}

	now := time.Now().UTC()
	key := domain.StockKey{BranchID: usage.BranchID, ItemID: usage.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
	adjustments := map[domain.StockKey]decimal.Decimal{key: usage.QuantityUsed}
	itemNames := map[domain.StockKey]string{key: material.Name}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	movements, err := s.adjustStockInTx(ctx, tx, adjustments, itemNames, actor.UserID, now)
	if err != nil {
		return err
	}

	if err := s.usageRepo.DeleteUsageInTx(ctx, tx, usageID); err != nil {
		logger.Error("Failed to delete usage record", slog.String("error", err.Error()), slog.String("usage_id", usageID))
		return fmt.Errorf("failed to delete usage record: %w", err)
	}

	oldSnapshot := domain.UsageSnapshot{Usage: *usage}
	if len(movements) > 0 {
		oldSnapshot.StockMovement = &movements[0]
	}
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableMaterialUsages, domain.AuditDelete, usageID, oldSnapshot, nil, actor, "material usage deleted for "+material.Name, now); err != nil {
		return err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit usage deletion: %w", err)
	}

	logger.Info("Material usage deleted", slog.String("usage_id", usageID))
	return nil
}

// ListMaterialUsages retrieves all usage records of one branch on one day.
// Implements portssvc.UsageLedgerSvc
func (s *ledgerService) ListMaterialUsages(ctx context.Context, branchID string, date time.Time) ([]domain.MaterialUsageRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	usages, err := s.usageRepo.ListUsagesByDate(ctx, branchID, date)
	if err != nil {
		logger.Error("Failed to list usage records", slog.String("error", err.Error()), slog.String("branch_id", branchID))
		return nil, fmt.Errorf("failed to retrieve usage records: %w", err)
	}
	return usages, nil
}

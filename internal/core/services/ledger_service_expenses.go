package services

import (
	"context"
	"errors"
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

// buildExpenseLines validates and converts requested items into domain line
// items, resolving material names for audit movements along the way.
func (s *ledgerService) buildExpenseLines(ctx context.Context, expenseID, branchID string, items []dto.ExpenseItemRequest) ([]domain.ExpenseLineItem, map[string]domain.RawMaterial, error) {
	if len(items) == 0 {
		return nil, nil, nil
	}

	materialIDs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("%w: quantity must be positive for raw material %s", apperrors.ErrValidation, item.RawMaterialID)
		}
		materialIDs = append(materialIDs, item.RawMaterialID)
	}

	materials, err := s.catalogRepo.FindRawMaterialsByIDs(ctx, uniqueStrings(materialIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch raw materials: %w", err)
	}

	lines := make([]domain.ExpenseLineItem, len(items))
	for i, item := range items {
		if _, found := materials[item.RawMaterialID]; !found {
			return nil, nil, fmt.Errorf("%w: raw material %s", apperrors.ErrNotFound, item.RawMaterialID)
		}
		lines[i] = domain.ExpenseLineItem{
			LineItemID:    uuid.NewString(),
			ExpenseID:     expenseID,
			RawMaterialID: item.RawMaterialID,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Subtotal:      item.UnitPrice.Mul(item.Quantity),
		}
	}
	return lines, materials, nil
}

// accumulateLineAdjustments folds expense line quantities into the
// adjustment map, signed by direction (+1 restock, -1 reversal).
func accumulateLineAdjustments(adjustments map[domain.StockKey]decimal.Decimal, itemNames map[domain.StockKey]string, branchID string, lines []domain.ExpenseLineItem, materials map[string]domain.RawMaterial, sign int64) {
	factor := decimal.NewFromInt(sign)
	for _, line := range lines {
		key := domain.StockKey{BranchID: branchID, ItemID: line.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
		adjustments[key] = adjustments[key].Add(line.Quantity.Mul(factor))
		if m, found := materials[line.RawMaterialID]; found {
			itemNames[key] = m.Name
		}
	}
}

// CreateExpense records an expense. When the expense type resolves to the
// raw-material purchase type, the line items restock raw-material levels in
// the same transaction; all other types have no stock effect.
// Implements portssvc.ExpenseLedgerSvc
func (s *ledgerService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, actor domain.Actor) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expenseType, err := s.catalogRepo.FindExpenseTypeByID(ctx, req.ExpenseTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve expense type %s: %w", req.ExpenseTypeID, err)
	}
	if _, err := s.catalogRepo.FindBranchByID(ctx, req.BranchID); err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", req.BranchID, err)
	}

	restock := domain.IsRawMaterialPurchase(expenseType.Name)
	if restock && len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: a raw material purchase needs at least one item", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	expenseID := uuid.NewString()

	var lines []domain.ExpenseLineItem
	var materials map[string]domain.RawMaterial
	if restock {
		lines, materials, err = s.buildExpenseLines(ctx, expenseID, req.BranchID, req.Items)
		if err != nil {
			return nil, err
		}
	}

	expense := domain.Expense{
		ExpenseID:              expenseID,
		BranchID:               req.BranchID,
		ExpenseTypeID:          req.ExpenseTypeID,
		Date:                   req.Date,
		TotalAmount:            req.TotalAmount,
		Description:            req.Description,
		DailyInstallmentAmount: req.DailyInstallmentAmount,
		LineItems:              lines,
		AuditFields:            newAuditFields(actor.UserID, now),
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	var movements []domain.StockMovement
	if restock {
		adjustments := make(map[domain.StockKey]decimal.Decimal)
		itemNames := make(map[domain.StockKey]string)
		accumulateLineAdjustments(adjustments, itemNames, req.BranchID, lines, materials, 1)
		movements, err = s.adjustStockInTx(ctx, tx, adjustments, itemNames, actor.UserID, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.expenseRepo.CreateExpenseInTx(ctx, tx, expense, lines); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	snapshot := domain.ExpenseSnapshot{Expense: expense, ExpenseTypeName: expenseType.Name, StockMovements: movements}
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableExpenses, domain.AuditCreate, expenseID, nil, snapshot, actor, "expense recorded: "+expenseType.Name, now); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	logger.Info("Expense created successfully", slog.String("expense_id", expenseID), slog.String("expense_type", expenseType.Name), slog.String("branch_id", req.BranchID))
	return &expense, nil
}

// UpdateExpense edits an expense. The line item set replaces the old one
// wholesale; stock effects of the old set are reversed and the new set's
// applied as one net adjustment, so an edit that shrinks a purchase whose
// stock was already consumed fails the floor check and rolls back.
// Implements portssvc.ExpenseLedgerSvc
func (s *ledgerService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, actor domain.Actor) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	oldLines, err := s.expenseRepo.FindLineItemsByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch line items for expense %s: %w", expenseID, err)
	}
	existing.LineItems = oldLines

	oldType, err := s.catalogRepo.FindExpenseTypeByID(ctx, existing.ExpenseTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve expense type %s: %w", existing.ExpenseTypeID, err)
	}
	newType := oldType
	if req.ExpenseTypeID != existing.ExpenseTypeID {
		newType, err = s.catalogRepo.FindExpenseTypeByID(ctx, req.ExpenseTypeID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve expense type %s: %w", req.ExpenseTypeID, err)
		}
	}

	oldRestock := domain.IsRawMaterialPurchase(oldType.Name)
	newRestock := domain.IsRawMaterialPurchase(newType.Name)
	if newRestock && len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: a raw material purchase needs at least one item", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	oldSnapshot := domain.ExpenseSnapshot{Expense: *existing, ExpenseTypeName: oldType.Name}

	var newLines []domain.ExpenseLineItem
	var newMaterials map[string]domain.RawMaterial
	if newRestock {
		newLines, newMaterials, err = s.buildExpenseLines(ctx, expenseID, existing.BranchID, req.Items)
		if err != nil {
			return nil, err
		}
	}

	adjustments := make(map[domain.StockKey]decimal.Decimal)
	itemNames := make(map[domain.StockKey]string)
	if oldRestock {
		oldMaterialIDs := make([]string, 0, len(oldLines))
		for _, line := range oldLines {
			oldMaterialIDs = append(oldMaterialIDs, line.RawMaterialID)
		}
		oldMaterials, err := s.catalogRepo.FindRawMaterialsByIDs(ctx, uniqueStrings(oldMaterialIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch raw materials: %w", err)
		}
		accumulateLineAdjustments(adjustments, itemNames, existing.BranchID, oldLines, oldMaterials, -1)
	}
	if newRestock {
		accumulateLineAdjustments(adjustments, itemNames, existing.BranchID, newLines, newMaterials, 1)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	movements, err := s.adjustStockInTx(ctx, tx, adjustments, itemNames, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.ExpenseTypeID = req.ExpenseTypeID
	updated.Date = req.Date
	updated.TotalAmount = req.TotalAmount
	updated.Description = req.Description
	updated.DailyInstallmentAmount = req.DailyInstallmentAmount
	updated.LineItems = newLines
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.UserID

	if err := s.expenseRepo.UpdateExpenseInTx(ctx, tx, updated, newLines); err != nil {
		logger.Error("Failed to update expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	newSnapshot := domain.ExpenseSnapshot{Expense: updated, ExpenseTypeName: newType.Name, StockMovements: movements}
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableExpenses, domain.AuditUpdate, expenseID, oldSnapshot, newSnapshot, actor, "expense updated: "+newType.Name, now); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit expense update: %w", err)
	}

	logger.Info("Expense updated successfully", slog.String("expense_id", expenseID))
	return &updated, nil
}

// DeleteExpense removes an expense. For raw-material purchases the restocked
// quantities are subtracted back out; if the stock has been consumed in the
// meantime the floor check fails and nothing is deleted.
// Implements portssvc.ExpenseLedgerSvc
func (s *ledgerService) DeleteExpense(ctx context.Context, expenseID string, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	lines, err := s.expenseRepo.FindLineItemsByExpenseID(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("failed to fetch line items for expense %s: %w", expenseID, err)
	}
	expense.LineItems = lines

	expenseType, err := s.catalogRepo.FindExpenseTypeByID(ctx, expense.ExpenseTypeID)
	if err != nil {
		return fmt.Errorf("failed to resolve expense type %s: %w", expense.ExpenseTypeID, err)
	}
	restock := domain.IsRawMaterialPurchase(expenseType.Name)

	now := time.Now().UTC()
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	var movements []domain.StockMovement
	if restock && len(lines) > 0 {
		materialIDs := make([]string, 0, len(lines))
		for _, line := range lines {
			materialIDs = append(materialIDs, line.RawMaterialID)
		}
		materials, err := s.catalogRepo.FindRawMaterialsByIDs(ctx, uniqueStrings(materialIDs))
		if err != nil {
			return fmt.Errorf("failed to fetch raw materials: %w", err)
		}
		adjustments := make(map[domain.StockKey]decimal.Decimal)
		itemNames := make(map[domain.StockKey]string)
		accumulateLineAdjustments(adjustments, itemNames, expense.BranchID, lines, materials, -1)
		movements, err = s.adjustStockInTx(ctx, tx, adjustments, itemNames, actor.UserID, now)
		if err != nil {
			return err
		}
	}

	if err := s.expenseRepo.DeleteExpenseInTx(ctx, tx, expenseID); err != nil {
		logger.Error("Failed to delete expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	oldSnapshot := domain.ExpenseSnapshot{Expense: *expense, ExpenseTypeName: expenseType.Name, StockMovements: movements}
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableExpenses, domain.AuditDelete, expenseID, oldSnapshot, nil, actor, "expense deleted: "+expenseType.Name, now); err != nil {
		return err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit expense deletion: %w", err)
	}

	logger.Info("Expense deleted successfully", slog.String("expense_id", expenseID))
	return nil
}

// GetExpense retrieves an expense with its line items.
// Implements portssvc.ExpenseLedgerSvc
func (s *ledgerService) GetExpense(ctx context.Context, expenseID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find expense by ID", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}

	lines, err := s.expenseRepo.FindLineItemsByExpenseID(ctx, expenseID)
	if err != nil {
		logger.Error("Failed to fetch line items for expense", slog.String("error", err.Error()), slog.String("expense_id", expenseID))
		return nil, fmt.Errorf("failed to retrieve line items for expense %s: %w", expenseID, apperrors.ErrInternal)
	}
	expense.LineItems = lines
	return expense, nil
}

// ListExpenses retrieves a paginated list of a branch's expenses.
// Implements portssvc.ExpenseLedgerSvc
func (s *ledgerService) ListExpenses(ctx context.Context, branchID string, limit int, nextToken *string) (*dto.ListExpensesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expenses, next, err := s.expenseRepo.ListExpensesByBranch(ctx, branchID, limit, nextToken)
	if err != nil {
		logger.Error("Failed to list expenses from repository", slog.String("error", err.Error()), slog.String("branch_id", branchID))
		return nil, fmt.Errorf("failed to retrieve expenses: %w", err)
	}

	return &dto.ListExpensesResponse{
		Expenses:  dto.ToExpenseResponses(expenses),
		NextToken: next,
	}, nil
}

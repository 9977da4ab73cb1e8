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

// CreateSale records a sale and decrements product stock per line item, all
// in one transaction. Unit prices and the total are resolved server-side
// from the product catalog; any amounts sent by the caller are ignored.
// Implements portssvc.SaleLedgerSvc
func (s *ledgerService) CreateSale(ctx context.Context, req dto.CreateSaleRequest, actor domain.Actor) (*domain.SaleTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	productIDs := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", apperrors.ErrValidation, item.ProductID)
		}
		productIDs = append(productIDs, item.ProductID)
	}

	if _, err := s.catalogRepo.FindBranchByID(ctx, req.BranchID); err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", req.BranchID, err)
	}

	products, err := s.catalogRepo.FindProductsByIDs(ctx, uniqueStrings(productIDs))
	if err != nil {
		logger.Error("Failed to fetch products for sale creation", slog.String("error", err.Error()), slog.String("branch_id", req.BranchID))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	now := time.Now().UTC()
	saleID := uuid.NewString()

	lines := make([]domain.SaleLineItem, len(req.Items))
	adjustments := make(map[domain.StockKey]decimal.Decimal)
	itemNames := make(map[domain.StockKey]string)
	total := decimal.Zero
	for i, item := range req.Items {
		product, found := products[item.ProductID]
		if !found {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, item.ProductID)
		}
		subtotal := product.UnitPrice.Mul(item.Quantity)
		lines[i] = domain.SaleLineItem{
			LineItemID: uuid.NewString(),
			SaleID:     saleID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  product.UnitPrice,
			Subtotal:   subtotal,
		}
		total = total.Add(subtotal)

		key := domain.StockKey{BranchID: req.BranchID, ItemID: item.ProductID, ItemKind: domain.ItemKindProduct}
		adjustments[key] = adjustments[key].Sub(item.Quantity)
		itemNames[key] = product.Name
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	// Codes carry minute resolution; a second sale in the same minute gets a
	// numeric suffix so the unique index holds.
	code := domain.FormatTransactionCode(now)
	count, err := s.saleRepo.CountSalesByCodePrefix(ctx, tx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check transaction code: %w", err)
	}
	if count > 0 {
		code = fmt.Sprintf("%s-%d", code, count+1)
	}

	movements, err := s.adjustStockInTx(ctx, tx, adjustments, itemNames, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	sale := domain.SaleTransaction{
		SaleID:          saleID,
		TransactionCode: code,
		BranchID:        req.BranchID,
		CustomerName:    req.CustomerName,
		PaymentMethod:   req.PaymentMethod,
		Status:          req.Status,
		Origin:          req.Origin,
		TotalAmount:     total,
		OccurredAt:      now,
		LineItems:       lines,
		AuditFields:     newAuditFields(actor.UserID, now),
	}

	if err := s.saleRepo.CreateSaleInTx(ctx, tx, sale, lines); err != nil {
		logger.Error("Failed to save sale", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	snapshot := domain.SaleSnapshot{Sale: sale, StockMovements: movements}
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableSales, domain.AuditCreate, saleID, nil, snapshot, actor, "sale "+code+" created", now); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	logger.Info("Sale created successfully", slog.String("sale_id", saleID), slog.String("transaction_code", code), slog.String("branch_id", req.BranchID))
	return &sale, nil
}

// VoidSale reverses a sale's stock decrements and removes the sale and its
// line items. Mobile-originated sales are immutable and cannot be voided.
// Voiding is idempotent at the ledger level: once the sale is gone a second
// void finds nothing and changes nothing.
// Implements portssvc.SaleLedgerSvc
func (s *ledgerService) VoidSale(ctx context.Context, saleID string, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	if sale.Origin == domain.OriginMobilePOS {
		return fmt.Errorf("%w: sales from the mobile point of sale cannot be voided", apperrors.ErrForbidden)
	}

	lines, err := s.saleRepo.FindLineItemsBySaleID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("failed to fetch line items for sale %s: %w", saleID, err)
	}
	sale.LineItems = lines

	productIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := s.catalogRepo.FindProductsByIDs(ctx, uniqueStrings(productIDs))
	if err != nil {
		logger.Warn("Failed to resolve product names for void", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		products = map[string]domain.Product{}
	}

	adjustments := make(map[domain.StockKey]decimal.Decimal)
	itemNames := make(map[domain.StockKey]string)
	for _, line := range lines {
		key := domain.StockKey{BranchID: sale.BranchID, ItemID: line.ProductID, ItemKind: domain.ItemKindProduct}
		adjustments[key] = adjustments[key].Add(line.Quantity)
		if p, found := products[line.ProductID]; found {
			itemNames[key] = p.Name
		}
	}

	now := time.Now().UTC()
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	movements, err := s.adjustStockInTx(ctx, tx, adjustments, itemNames, actor.UserID, now)
	if err != nil {
		return err
	}

	if err := s.saleRepo.DeleteSaleInTx(ctx, tx, saleID); err != nil {
		logger.Error("Failed to delete sale", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	snapshot := domain.SaleSnapshot{Sale: *sale, StockMovements: movements}
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableSales, domain.AuditDelete, saleID, snapshot, nil, actor, "sale "+sale.TransactionCode+" voided", now); err != nil {
		return err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit void: %w", err)
	}

	logger.Info("Sale voided successfully", slog.String("sale_id", saleID), slog.String("transaction_code", sale.TransactionCode))
	return nil
}

// UpdateSaleStatus switches a sale between OnLoan and Completed. Status
// changes never touch stock, only the header and the audit trail.
// Implements portssvc.SaleLedgerSvc
func (s *ledgerService) UpdateSaleStatus(ctx context.Context, saleID string, status domain.SaleStatus, actor domain.Actor) (*domain.SaleTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	if sale.Status == status {
		return sale, nil
	}

	oldSnapshot := domain.SaleSnapshot{Sale: *sale}
	now := time.Now().UTC()

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txManager.Rollback(ctx, tx)

	if err := s.saleRepo.UpdateSaleStatusInTx(ctx, tx, saleID, status, actor.UserID, now); err != nil {
		logger.Error("Failed to update sale status", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to update sale status: %w", err)
	}

	sale.Status = status
	sale.LastUpdatedAt = now
	sale.LastUpdatedBy = actor.UserID

	newSnapshot := domain.SaleSnapshot{Sale: *sale}
	description := fmt.Sprintf("sale %s status changed from %s to %s", sale.TransactionCode, oldSnapshot.Sale.Status, status)
	if err := s.appendAuditInTx(ctx, tx, domain.AuditTableSales, domain.AuditUpdate, saleID, oldSnapshot, newSnapshot, actor, description, now); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	logger.Info("Sale status updated", slog.String("sale_id", saleID), slog.String("status", string(status)))
	return sale, nil
}

// GetSale retrieves a sale with its line items.
// Implements portssvc.SaleLedgerSvc
func (s *ledgerService) GetSale(ctx context.Context, saleID string) (*domain.SaleTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find sale by ID", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		}
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}

	lines, err := s.saleRepo.FindLineItemsBySaleID(ctx, saleID)
	if err != nil {
		logger.Error("Failed to fetch line items for sale", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		return nil, fmt.Errorf("failed to retrieve line items for sale %s: %w", saleID, apperrors.ErrInternal)
	}
	sale.LineItems = lines
	return sale, nil
}

// ListSales retrieves a paginated list of a branch's sales.
// Implements portssvc.SaleLedgerSvc
func (s *ledgerService) ListSales(ctx context.Context, branchID string, params dto.ListSalesParams) (*dto.ListSalesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sales, nextToken, err := s.saleRepo.ListSalesByBranch(ctx, branchID, params.Status, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list sales from repository", slog.String("error", err.Error()), slog.String("branch_id", branchID))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	return &dto.ListSalesResponse{
		Sales:     dto.ToSaleResponses(sales),
		NextToken: nextToken,
	}, nil
}

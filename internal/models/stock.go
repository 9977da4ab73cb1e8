package models

import "github.com/shopspring/decimal"

// StockLevel mirrors the stock_levels table: one quantity per
// (branch_id, item_id, item_kind) with a non-negative check constraint.
type StockLevel struct {
	StockLevelID string
	BranchID     string
	ItemID       string
	ItemKind     string
	Quantity     decimal.Decimal
	AuditFields
}

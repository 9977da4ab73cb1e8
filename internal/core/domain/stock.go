package domain

import "github.com/shopspring/decimal"

// ItemKind discriminates what a stock level tracks: a sellable product or a
// raw material. Both kinds share one stock concept so the locking and adjust
// logic is written once.
type ItemKind string

const (
	ItemKindProduct     ItemKind = "PRODUCT"
	ItemKindRawMaterial ItemKind = "RAW_MATERIAL"
)

// StockKey identifies one per-branch stock level row.
type StockKey struct {
	BranchID string   `json:"branchID"`
	ItemID   string   `json:"itemID"`
	ItemKind ItemKind `json:"itemKind"`
}

// StockLevel is the current on-hand quantity for a (branch, item) pair.
// Quantity never goes below zero; it is mutated only through ledger
// operations, never directly by callers.
type StockLevel struct {
	StockLevelID string          `json:"stockLevelID"` // Primary key (UUID)
	BranchID     string          `json:"branchID"`
	ItemID       string          `json:"itemID"`
	ItemKind     ItemKind        `json:"itemKind"`
	Quantity     decimal.Decimal `json:"quantity"`
	AuditFields
}

// Key returns the logical identity of the level row.
func (l StockLevel) Key() StockKey {
	return StockKey{BranchID: l.BranchID, ItemID: l.ItemID, ItemKind: l.ItemKind}
}

// StockMovement records the before/after quantity of one stock level touched
// by a ledger operation. It is embedded in audit snapshots.
type StockMovement struct {
	BranchID string          `json:"branchID"`
	ItemID   string          `json:"itemID"`
	ItemKind ItemKind        `json:"itemKind"`
	ItemName string          `json:"itemName,omitempty"`
	Delta    decimal.Decimal `json:"delta"`
	Before   decimal.Decimal `json:"before"`
	After    decimal.Decimal `json:"after"`
}

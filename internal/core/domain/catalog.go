package domain

import "github.com/shopspring/decimal"

// Branch is one restaurant location. Stock is partitioned per branch.
type Branch struct {
	BranchID string `json:"branchID"` // Primary key (UUID)
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	AuditFields
}

// Product is a sellable catalog item. UnitPrice is the source of truth for
// sale line pricing.
type Product struct {
	ProductID string          `json:"productID"` // Primary key (UUID)
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	AuditFields
}

// RawMaterial is an ingredient tracked in raw-material stock.
type RawMaterial struct {
	RawMaterialID string          `json:"rawMaterialID"` // Primary key (UUID)
	Name          string          `json:"name"`
	Unit          string          `json:"unit"` // e.g. kg, liter, pcs
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	AuditFields
}

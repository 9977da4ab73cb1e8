package models

import "github.com/shopspring/decimal"

// Branch mirrors the branches table.
type Branch struct {
	BranchID string
	Name     string
	Address  string
	AuditFields
}

// Product mirrors the products table.
type Product struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	AuditFields
}

// RawMaterial mirrors the raw_materials table.
type RawMaterial struct {
	RawMaterialID string
	Name          string
	Unit          string
	UnitPrice     decimal.Decimal
	AuditFields
}

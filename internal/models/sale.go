package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleTransaction mirrors the sale_transactions table.
type SaleTransaction struct {
	SaleID          string
	TransactionCode string
	BranchID        string
	CustomerName    string
	PaymentMethod   string
	Status          string
	Origin          string
	TotalAmount     decimal.Decimal
	OccurredAt      time.Time
	AuditFields
}

// SaleLineItem mirrors the sale_line_items table.
type SaleLineItem struct {
	LineItemID string
	SaleID     string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

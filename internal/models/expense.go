package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense mirrors the expenses table.
type Expense struct {
	ExpenseID              string
	BranchID               string
	ExpenseTypeID          string
	Date                   time.Time
	TotalAmount            decimal.Decimal
	Description            string
	DailyInstallmentAmount *decimal.Decimal
	AuditFields
}

// ExpenseLineItem mirrors the expense_line_items table.
type ExpenseLineItem struct {
	LineItemID    string
	ExpenseID     string
	RawMaterialID string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Subtotal      decimal.Decimal
}

// ExpenseType mirrors the expense_types lookup table.
type ExpenseType struct {
	ExpenseTypeID string
	Name          string
	AuditFields
}

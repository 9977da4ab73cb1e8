package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterialPurchaseTypeName is the expense type name that makes an expense
// a restock: its line items add to raw-material stock on creation and are
// subtracted again on deletion. Matching is case-insensitive. The name is
// inherited from the production data set.
const RawMaterialPurchaseTypeName = "Pembelian bahan baku"

// IsRawMaterialPurchase reports whether an expense type name resolves to the
// raw-material purchase type.
func IsRawMaterialPurchase(typeName string) bool {
	return strings.EqualFold(strings.TrimSpace(typeName), RawMaterialPurchaseTypeName)
}

// ExpenseType is a lookup row categorizing expenses.
type ExpenseType struct {
	ExpenseTypeID string `json:"expenseTypeID"` // Primary key (UUID)
	Name          string `json:"name"`
	AuditFields
}

// Expense is an operational expense of a branch. When its type is the
// raw-material purchase type, its line items carry a stock effect.
type Expense struct {
	ExpenseID              string            `json:"expenseID"` // Primary key (UUID)
	BranchID               string            `json:"branchID"`
	ExpenseTypeID          string            `json:"expenseTypeID"`
	Date                   time.Time         `json:"date"`
	TotalAmount            decimal.Decimal   `json:"totalAmount"`
	Description            string            `json:"description"`
	DailyInstallmentAmount *decimal.Decimal  `json:"dailyInstallmentAmount,omitempty"`
	LineItems              []ExpenseLineItem `json:"lineItems,omitempty"`
	AuditFields
}

// ExpenseLineItem is one raw-material line of a purchase expense.
type ExpenseLineItem struct {
	LineItemID    string          `json:"lineItemID"` // Primary key (UUID)
	ExpenseID     string          `json:"expenseID"`
	RawMaterialID string          `json:"rawMaterialID"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

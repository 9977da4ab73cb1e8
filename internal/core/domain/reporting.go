package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyBranchSummary aggregates one branch's figures for one day.
// Read model only; never mutated through ledger operations.
type DailyBranchSummary struct {
	BranchID     string          `json:"branchID"`
	Date         time.Time       `json:"date"`
	SaleCount    int64           `json:"saleCount"`
	Revenue      decimal.Decimal `json:"revenue"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// ProductSalesAggregate sums quantities and revenue per product over a range.
type ProductSalesAggregate struct {
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	QuantitySold decimal.Decimal `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

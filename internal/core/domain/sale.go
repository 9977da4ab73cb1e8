package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus indicates the payment state of a sale. Completed and OnLoan are
// both stable and reachable from each other via an explicit status update.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleOnLoan    SaleStatus = "ON_LOAN"
)

// SaleOrigin records which channel created the sale. Mobile-originated sales
// are immutable once created: void attempts are rejected.
type SaleOrigin string

const (
	OriginMobilePOS SaleOrigin = "MOBILE_POS"
	OriginManualWeb SaleOrigin = "MANUAL_WEB"
)

// SaleTransaction is a sale header. Line items and the matching stock
// decrements are created atomically with it; voiding reverses both.
type SaleTransaction struct {
	SaleID          string          `json:"saleID"` // Primary key (UUID)
	TransactionCode string          `json:"transactionCode"`
	BranchID        string          `json:"branchID"`
	CustomerName    string          `json:"customerName,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	Status          SaleStatus      `json:"status"`
	Origin          SaleOrigin      `json:"origin"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	OccurredAt      time.Time       `json:"occurredAt"`
	LineItems       []SaleLineItem  `json:"lineItems,omitempty"`
	AuditFields
}

// SaleLineItem is one product line of a sale. UnitPrice is resolved from the
// product catalog at creation time, never trusted from the caller.
type SaleLineItem struct {
	LineItemID string          `json:"lineItemID"` // Primary key (UUID)
	SaleID     string          `json:"saleID"`
	ProductID  string          `json:"productID"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// TransactionCodePrefix is the fixed prefix of generated transaction codes.
const TransactionCodePrefix = "TRNSK"

// FormatTransactionCode renders the human-readable sale code for the given
// creation time: TRNSK-{ddMMyyyy}-{HHmm}.
func FormatTransactionCode(t time.Time) string {
	return TransactionCodePrefix + "-" + t.Format("02012006") + "-" + t.Format("1504")
}

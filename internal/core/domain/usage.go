package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUsageRecord tracks daily consumption of a raw material. Creating
// one decrements the raw-material stock by QuantityUsed; deleting one
// increments it back; editing reverses the old quantity then applies the new.
type MaterialUsageRecord struct {
	UsageID       string          `json:"usageID"` // Primary key (UUID)
	BranchID      string          `json:"branchID"`
	Date          time.Time       `json:"date"`
	RawMaterialID string          `json:"rawMaterialID"`
	QuantityUsed  decimal.Decimal `json:"quantityUsed"`
	Note          string          `json:"note,omitempty"`
	AuditFields
}

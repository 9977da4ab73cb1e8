package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUsage mirrors the material_usages table.
type MaterialUsage struct {
	UsageID       string
	BranchID      string
	Date          time.Time
	RawMaterialID string
	QuantityUsed  decimal.Decimal
	Note          string
	AuditFields
}

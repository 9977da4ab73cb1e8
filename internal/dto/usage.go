package dto

import (
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateUsageRequest records daily consumption of one raw material.
type CreateUsageRequest struct {
	BranchID      string          `json:"branchID" binding:"required"`
	Date          time.Time       `json:"date" binding:"required"`
	RawMaterialID string          `json:"rawMaterialID" binding:"required"`
	QuantityUsed  decimal.Decimal `json:"quantityUsed" binding:"required"`
	Note          string          `json:"note"`
}

// UpdateUsageRequest changes the consumed quantity and/or note of a record.
type UpdateUsageRequest struct {
	QuantityUsed decimal.Decimal `json:"quantityUsed" binding:"required"`
	Note         string          `json:"note"`
}

// UsageResponse is a material usage record as returned to clients.
type UsageResponse struct {
	UsageID       string          `json:"usageID"`
	BranchID      string          `json:"branchID"`
	Date          time.Time       `json:"date"`
	RawMaterialID string          `json:"rawMaterialID"`
	QuantityUsed  decimal.Decimal `json:"quantityUsed"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ToUsageResponse converts a domain.MaterialUsageRecord to its response DTO.
func ToUsageResponse(u *domain.MaterialUsageRecord) UsageResponse {
	return UsageResponse{
		UsageID:       u.UsageID,
		BranchID:      u.BranchID,
		Date:          u.Date,
		RawMaterialID: u.RawMaterialID,
		QuantityUsed:  u.QuantityUsed,
		Note:          u.Note,
		CreatedAt:     u.CreatedAt,
		CreatedBy:     u.CreatedBy,
	}
}

// ToUsageResponses converts a slice of domain usage records.
func ToUsageResponses(usages []domain.MaterialUsageRecord) []UsageResponse {
	responses := make([]UsageResponse, len(usages))
	for i := range usages {
		responses[i] = ToUsageResponse(&usages[i])
	}
	return responses
}

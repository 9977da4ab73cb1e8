package dto

import (
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListStockQuery carries the optional filters for listing branch stock.
type ListStockQuery struct {
	Kind string `form:"kind" binding:"omitempty,itemkind"`
}

// StockLevelResponse is a stock level as returned to clients.
type StockLevelResponse struct {
	StockLevelID  string          `json:"stockLevelID"`
	BranchID      string          `json:"branchID"`
	ItemID        string          `json:"itemID"`
	ItemKind      domain.ItemKind `json:"itemKind"`
	Quantity      decimal.Decimal `json:"quantity"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToStockLevelResponse converts a domain.StockLevel to its response DTO.
func ToStockLevelResponse(l *domain.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		StockLevelID:  l.StockLevelID,
		BranchID:      l.BranchID,
		ItemID:        l.ItemID,
		ItemKind:      l.ItemKind,
		Quantity:      l.Quantity,
		LastUpdatedAt: l.LastUpdatedAt,
	}
}

// ToStockLevelResponses converts a slice of domain stock levels.
func ToStockLevelResponses(levels []domain.StockLevel) []StockLevelResponse {
	responses := make([]StockLevelResponse, len(levels))
	for i := range levels {
		responses[i] = ToStockLevelResponse(&levels[i])
	}
	return responses
}

package dto

import (
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DailyReportResponse is one branch's aggregate figures for one day.
type DailyReportResponse struct {
	BranchID     string          `json:"branchID"`
	Date         time.Time       `json:"date"`
	SaleCount    int64           `json:"saleCount"`
	Revenue      decimal.Decimal `json:"revenue"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// ProductSalesResponse is per-product aggregate figures over a range.
type ProductSalesResponse struct {
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	QuantitySold decimal.Decimal `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ToDailyReportResponse converts the domain aggregate to its response DTO.
func ToDailyReportResponse(s *domain.DailyBranchSummary) DailyReportResponse {
	return DailyReportResponse{
		BranchID:     s.BranchID,
		Date:         s.Date,
		SaleCount:    s.SaleCount,
		Revenue:      s.Revenue,
		ExpenseTotal: s.ExpenseTotal,
		NetIncome:    s.NetIncome,
	}
}

// ToProductSalesResponses converts the domain aggregates to response DTOs.
func ToProductSalesResponses(aggs []domain.ProductSalesAggregate) []ProductSalesResponse {
	responses := make([]ProductSalesResponse, len(aggs))
	for i, a := range aggs {
		responses[i] = ProductSalesResponse{
			ProductID:    a.ProductID,
			ProductName:  a.ProductName,
			QuantitySold: a.QuantitySold,
			Revenue:      a.Revenue,
		}
	}
	return responses
}

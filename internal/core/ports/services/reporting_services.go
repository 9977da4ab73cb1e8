package services

import (
	"context"
	"time"

	"github.com/gochicken/gochicken_backend/internal/dto"
)

// ReportingSvcFacade is the aggregate read model surface.
type ReportingSvcFacade interface {
	GetDailyReport(ctx context.Context, branchID string, date time.Time) (*dto.DailyReportResponse, error)
	GetProductSalesReport(ctx context.Context, branchID string, from, to time.Time) ([]dto.ProductSalesResponse, error)
}

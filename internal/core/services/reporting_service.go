package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
)

// reportingService serves the aggregate read model.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) GetDailyReport(ctx context.Context, branchID string, date time.Time) (*dto.DailyReportResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	summary, err := s.reportingRepo.GetDailyBranchSummary(ctx, branchID, date)
	if err != nil {
		logger.Error("Failed to build daily report", slog.String("error", err.Error()), slog.String("branch_id", branchID))
		return nil, fmt.Errorf("failed to build daily report: %w", err)
	}

	resp := dto.ToDailyReportResponse(summary)
	return &resp, nil
}

func (s *reportingService) GetProductSalesReport(ctx context.Context, branchID string, from, to time.Time) ([]dto.ProductSalesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	aggs, err := s.reportingRepo.GetProductSales(ctx, branchID, from, to)
	if err != nil {
		logger.Error("Failed to build product sales report", slog.String("error", err.Error()), slog.String("branch_id", branchID))
		return nil, fmt.Errorf("failed to build product sales report: %w", err)
	}
	return dto.ToProductSalesResponses(aggs), nil
}

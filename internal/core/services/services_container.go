package services

import (
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(
		repos.TxManager,
		repos.StockRepo,
		repos.SaleRepo,
		repos.ExpenseRepo,
		repos.UsageRepo,
		repos.AuditRepo,
		repos.CatalogRepo,
	)
	container.Stock = NewStockService(repos.StockRepo)
	container.Audit = NewAuditService(repos.AuditRepo)
	container.Auth = NewAuthService(cfg, repos.UserRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}

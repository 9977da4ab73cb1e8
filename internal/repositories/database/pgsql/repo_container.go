package pgsql

import (
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgsql repositories against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     &BaseRepository{Pool: dbPool},
		StockRepo:     newPgxStockRepository(dbPool),
		SaleRepo:      newPgxSaleRepository(dbPool),
		ExpenseRepo:   newPgxExpenseRepository(dbPool),
		UsageRepo:     newPgxUsageRepository(dbPool),
		AuditRepo:     newPgxAuditRepository(dbPool),
		CatalogRepo:   newPgxCatalogRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}

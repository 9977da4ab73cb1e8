package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager     TransactionManager
	StockRepo     StockRepositoryFacade
	SaleRepo      SaleRepositoryFacade
	ExpenseRepo   ExpenseRepositoryFacade
	UsageRepo     UsageRepositoryFacade
	AuditRepo     AuditRepositoryFacade
	CatalogRepo   CatalogRepositoryFacade
	UserRepo      UserRepository
	ReportingRepo ReportingRepository
}

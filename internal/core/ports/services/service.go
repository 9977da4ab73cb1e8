package services

// ServiceContainer holds instances of all application services. Handlers
// receive this container and pick the facades they need.
type ServiceContainer struct {
	Ledger    LedgerSvcFacade
	Stock     StockSvcFacade
	Audit     AuditSvcFacade
	Auth      AuthSvcFacade
	Reporting ReportingSvcFacade
}

package repositories

// RepositoryProvider bundles the concrete repository implementations handed
// to the service container at startup.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	TemplateRepo    TemplateRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	JournalRepo     JournalRepositoryFacade
	AuditRepo       AuditReader
}

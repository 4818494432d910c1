package services

import (
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	portssvc "github.com/danukusuma/akunting_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since the catalog and lifecycle depend on it
	container.Account = NewAccountService(repos.AccountRepo)

	container.Template = NewTemplateService(repos.TemplateRepo, container.Account)
	container.Posting = NewPostingService(repos.JournalRepo)
	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.JournalRepo,
		repos.AuditRepo,
		container.Template,
		container.Account,
		container.Posting,
	)
	container.Ledger = NewLedgerService(repos.JournalRepo, container.Account)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade     = (*accountService)(nil)
	_ portssvc.TemplateSvcFacade    = (*templateService)(nil)
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
	_ portssvc.PostingSvc           = (*postingService)(nil)
	_ portssvc.LedgerSvcFacade      = (*ledgerService)(nil)
)

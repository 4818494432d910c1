package pgsql

import (
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	templateRepo := newPgxTemplateRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TemplateRepo:    templateRepo,
		TransactionRepo: transactionRepo,
		JournalRepo:     journalRepo,
		AuditRepo:       auditRepo,
	}
}

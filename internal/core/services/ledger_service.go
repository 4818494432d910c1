package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	portssvc "github.com/danukusuma/akunting_app/internal/core/ports/services"
	"github.com/danukusuma/akunting_app/internal/middleware"
	"github.com/danukusuma/akunting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type ledgerService struct {
	journalRepo portsrepo.LedgerReader
	accountSvc  portssvc.AccountReaderSvc
}

// NewLedgerService creates the ledger read service.
func NewLedgerService(repo portsrepo.LedgerReader, accountSvc portssvc.AccountReaderSvc) *ledgerService {
	return &ledgerService{journalRepo: repo, accountSvc: accountSvc}
}

// RunningBalance nets the account's debit and credit totals up to asOf,
// signed by the account's normal balance. Reversing entries from voided
// transactions flow through the sums like any other movement.
func (s *ledgerService) RunningBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	debitTotal, creditTotal, err := s.journalRepo.SumsByAccount(ctx, accountID, asOf)
	if err != nil {
		logger.Error("Failed to sum account movements", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to compute balance: %w", err)
	}

	return accounting.NetBalance(debitTotal, creditTotal, account.NormalBalance), nil
}

// Statement lists the account's movements in [from, to] with a running
// balance per row, starting from the balance carried in before the range.
func (s *ledgerService) Statement(ctx context.Context, accountID string, from time.Time, to time.Time) (decimal.Decimal, []domain.StatementLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, nil, err
	}

	openingDebit, openingCredit, err := s.journalRepo.SumsByAccountBefore(ctx, accountID, from)
	if err != nil {
		logger.Error("Failed to compute opening balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return decimal.Zero, nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	opening := accounting.NetBalance(openingDebit, openingCredit, account.NormalBalance)

	movements, err := s.journalRepo.ListMovementsByAccount(ctx, accountID, &from, &to)
	if err != nil {
		logger.Error("Failed to list account movements", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return decimal.Zero, nil, fmt.Errorf("failed to list movements: %w", err)
	}

	balance := opening
	lines := make([]domain.StatementLine, len(movements))
	for i, m := range movements {
		balance = balance.Add(accounting.SignedAmount(m.Side, m.Amount, account.NormalBalance))
		line := domain.StatementLine{
			Date:        m.EntryDate,
			JournalCode: m.JournalCode,
			Description: m.Description,
			Balance:     balance,
		}
		if m.Side == domain.Debit {
			line.Debit = m.Amount
		} else {
			line.Credit = m.Amount
		}
		lines[i] = line
	}

	return opening, lines, nil
}

func (s *ledgerService) TrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.journalRepo.TrialBalanceRows(ctx, asOf)
	if err != nil {
		logger.Error("Failed to aggregate trial balance", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate trial balance: %w", err)
	}
	if rows == nil {
		return []domain.TrialBalanceRow{}, nil
	}
	return rows, nil
}

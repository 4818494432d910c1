package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/danukusuma/akunting_app/internal/core/formula"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	"github.com/danukusuma/akunting_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postingService struct {
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewPostingService creates the journal posting engine.
func NewPostingService(repo portsrepo.JournalRepositoryFacade) *postingService {
	return &postingService{journalRepo: repo}
}

// BuildLines evaluates every template line at the transaction amount. The
// balance is re-checked here with the actual amount; the probe check at
// template creation does not cover every input.
func (s *postingService) BuildLines(template *domain.Template, amount decimal.Decimal) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, len(template.Lines))
	debitTotal := decimal.Zero
	creditTotal := decimal.Zero

	for i, tl := range template.Lines {
		value, err := formula.Evaluate(tl.Formula, amount)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, tl.LineOrder, err.Error())
		}
		if value.IsNegative() {
			return nil, fmt.Errorf("%w: line %d evaluates to %s at amount %s", apperrors.ErrNegativeLineAmount, tl.LineOrder, value, amount)
		}

		lines[i] = domain.JournalLine{
			LineID:    uuid.NewString(),
			AccountID: tl.AccountID,
			Side:      tl.Side,
			Amount:    value,
			LineOrder: tl.LineOrder,
		}
		if tl.Side == domain.Debit {
			debitTotal = debitTotal.Add(value)
		} else {
			creditTotal = creditTotal.Add(value)
		}
	}

	if !debitTotal.Equal(creditTotal) {
		return nil, fmt.Errorf("%w: debits %s vs credits %s at amount %s", apperrors.ErrUnbalancedPosting, debitTotal, creditTotal, amount)
	}
	return lines, nil
}

func (s *postingService) Post(ctx context.Context, txn *domain.Transaction, template *domain.Template, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !txn.CanPost() {
		return nil, fmt.Errorf("%w: cannot post a %s transaction", apperrors.ErrInvalidTransition, txn.Status)
	}

	lines, err := s.BuildLines(template, txn.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entryID := uuid.NewString()
	for i := range lines {
		lines[i].EntryID = entryID
	}
	entry := domain.JournalEntry{
		EntryID:       entryID,
		TransactionID: txn.TransactionID,
		EntryDate:     txn.Date,
		Description:   txn.Description,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	txn.Status = domain.StatusPosted
	txn.PostedAt = &now
	txn.PostedBy = actor
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor

	audit := domain.AuditEvent{
		AuditEventID:  uuid.NewString(),
		TransactionID: txn.TransactionID,
		FromStatus:    domain.StatusDraft,
		ToStatus:      domain.StatusPosted,
		Actor:         actor,
		OccurredAt:    now,
	}

	saved, err := s.journalRepo.PostEntry(ctx, *txn, entry, audit)
	if err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	logger.Info("Journal entry posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("entry_id", saved.EntryID),
		slog.String("entry_code", saved.Code))
	return saved, nil
}

// Reverse builds the mirror image of the transaction's original entry: same
// magnitudes, opposite sides. The original entry is left untouched.
func (s *postingService) Reverse(ctx context.Context, txn *domain.Transaction, reason string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.ErrMissingReason
	}
	if txn.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: cannot reverse a %s transaction", apperrors.ErrInvalidTransition, txn.Status)
	}

	entries, err := s.journalRepo.FindEntriesByTransactionID(ctx, txn.TransactionID)
	if err != nil {
		logger.Error("Failed to load journal entries for reversal", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}
	var original *domain.JournalEntry
	for i := range entries {
		if !entries[i].IsReversal {
			original = &entries[i]
			break
		}
	}
	if original == nil {
		return nil, fmt.Errorf("%w: posted transaction %s has no journal entry", apperrors.ErrInternal, txn.TransactionID)
	}

	now := time.Now()
	reversalID := uuid.NewString()
	lines := make([]domain.JournalLine, len(original.Lines))
	for i, ol := range original.Lines {
		lines[i] = domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   reversalID,
			AccountID: ol.AccountID,
			Side:      ol.Side.Opposite(),
			Amount:    ol.Amount,
			LineOrder: ol.LineOrder,
		}
	}

	reversedID := original.EntryID
	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		TransactionID:   txn.TransactionID,
		EntryDate:       now,
		Description:     fmt.Sprintf("Reversal of %s: %s", original.Code, reason),
		IsReversal:      true,
		ReversedEntryID: &reversedID,
		Lines:           lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	txn.Status = domain.StatusVoid
	txn.VoidedAt = &now
	txn.VoidedBy = actor
	txn.VoidReason = reason
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor

	audit := domain.AuditEvent{
		AuditEventID:  uuid.NewString(),
		TransactionID: txn.TransactionID,
		FromStatus:    domain.StatusPosted,
		ToStatus:      domain.StatusVoid,
		Actor:         actor,
		Reason:        reason,
		OccurredAt:    now,
	}

	saved, err := s.journalRepo.VoidWithReversal(ctx, *txn, reversal, audit)
	if err != nil {
		logger.Error("Failed to write reversing entry", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	logger.Info("Transaction reversed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reversed_entry_id", reversedID),
		slog.String("reversal_entry_code", saved.Code))
	return saved, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	portssvc "github.com/danukusuma/akunting_app/internal/core/ports/services"
	"github.com/danukusuma/akunting_app/internal/dto"
	"github.com/danukusuma/akunting_app/internal/middleware"
	"github.com/danukusuma/akunting_app/internal/utils/numbering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type transactionService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	journalRepo     portsrepo.JournalRepositoryFacade
	auditRepo       portsrepo.AuditReader
	templateSvc     portssvc.TemplateSvcFacade
	accountSvc      portssvc.AccountReaderSvc
	postingSvc      portssvc.PostingSvc
}

// NewTransactionService creates the transaction lifecycle service.
func NewTransactionService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	auditRepo portsrepo.AuditReader,
	templateSvc portssvc.TemplateSvcFacade,
	accountSvc portssvc.AccountReaderSvc,
	postingSvc portssvc.PostingSvc,
) *transactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		journalRepo:     journalRepo,
		auditRepo:       auditRepo,
		templateSvc:     templateSvc,
		accountSvc:      accountSvc,
		postingSvc:      postingSvc,
	}
}

// GetTransactionByID also accepts a TRX code so callers can look up
// transactions by the human-facing number.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	var txn *domain.Transaction
	var err error
	if strings.HasPrefix(transactionID, numbering.TransactionPrefix) {
		txn, err = s.transactionRepo.FindTransactionByCode(ctx, transactionID)
	} else {
		txn, err = s.transactionRepo.FindTransactionByID(ctx, transactionID)
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction by ID", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var status *domain.TransactionStatus
	if params.Status != "" {
		st := domain.TransactionStatus(params.Status)
		status = &st
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, err := s.transactionRepo.ListTransactions(ctx, status, limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.Int("limit", limit), slog.Int("offset", params.Offset))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

func (s *transactionService) ListAuditEvents(ctx context.Context, transactionID string) ([]domain.AuditEvent, error) {
	if _, err := s.transactionRepo.FindTransactionByID(ctx, transactionID); err != nil {
		return nil, err
	}
	events, err := s.auditRepo.ListAuditEventsByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	if events == nil {
		return []domain.AuditEvent{}, nil
	}
	return events, nil
}

func (s *transactionService) ListJournalEntries(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	if _, err := s.transactionRepo.FindTransactionByID(ctx, transactionID); err != nil {
		return nil, err
	}
	entries, err := s.journalRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	if entries == nil {
		return []domain.JournalEntry{}, nil
	}
	return entries, nil
}

func (s *transactionService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *transactionService) CreateDraft(ctx context.Context, req dto.CreateTransactionRequest, actor string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.Cmp(decimal.Zero) <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	template, err := s.templateSvc.GetTemplateByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: template %s does not exist", apperrors.ErrValidation, req.TemplateID)
		}
		return nil, err
	}
	if !template.IsActive {
		return nil, fmt.Errorf("%w: template %s is inactive", apperrors.ErrValidation, template.Code)
	}
	if len(template.Lines) < 2 {
		return nil, fmt.Errorf("%w: template %s has fewer than two lines", apperrors.ErrValidation, template.Code)
	}

	sourceAccount, err := s.accountSvc.GetAccountByID(ctx, req.SourceAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: source account %s does not exist", apperrors.ErrValidation, req.SourceAccountID)
		}
		return nil, err
	}
	if !sourceAccount.IsActive {
		return nil, fmt.Errorf("%w: source account %s is inactive", apperrors.ErrValidation, sourceAccount.Code)
	}

	// Posting re-evaluates the formulas; failing here keeps bad drafts out of
	// the lifecycle entirely.
	if _, err := s.postingSvc.BuildLines(template, req.Amount); err != nil {
		return nil, err
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		TemplateID:      template.TemplateID,
		Date:            req.Date,
		Amount:          req.Amount,
		SourceAccountID: req.SourceAccountID,
		Description:     req.Description,
		ReferenceNumber: req.ReferenceNumber,
		Status:          domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	audit := domain.AuditEvent{
		AuditEventID:  uuid.NewString(),
		TransactionID: txn.TransactionID,
		ToStatus:      domain.StatusDraft,
		Actor:         actor,
		OccurredAt:    now,
	}

	saved, err := s.transactionRepo.SaveDraft(ctx, txn, audit)
	if err != nil {
		logger.Error("Failed to save draft transaction", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	// Usage freezes the template for direct edits. The draft is already
	// committed, so a failed bump is logged rather than surfaced.
	if err := s.templateSvc.RecordUsage(ctx, template.TemplateID); err != nil {
		logger.Warn("Failed to record template usage", slog.String("error", err.Error()), slog.String("template_id", template.TemplateID))
	}

	logger.Info("Draft transaction created",
		slog.String("transaction_id", saved.TransactionID),
		slog.String("code", saved.Code),
		slog.String("template_id", template.TemplateID))
	return saved, nil
}

func (s *transactionService) PostTransaction(ctx context.Context, transactionID string, actor string) (*domain.Transaction, *domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if !txn.CanPost() {
		return nil, nil, fmt.Errorf("%w: cannot post a %s transaction", apperrors.ErrInvalidTransition, txn.Status)
	}

	template, err := s.templateSvc.GetTemplateByID(ctx, txn.TemplateID)
	if err != nil {
		logger.Error("Failed to load template for posting", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, nil, err
	}

	entry, err := s.postingSvc.Post(ctx, txn, template, actor)
	if err != nil {
		return nil, nil, err
	}
	return txn, entry, nil
}

// VoidTransaction is the only way to undo. A draft is cancelled in place; a
// posted transaction keeps its entry and gains a reversing one. Both paths
// demand a reason and append an audit event inside the same atomic unit as
// the status flip.
func (s *transactionService) VoidTransaction(ctx context.Context, transactionID string, reason string, actor string) (*domain.Transaction, *domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(reason) == "" {
		return nil, nil, apperrors.ErrMissingReason
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	switch txn.Status {
	case domain.StatusDraft:
		now := time.Now()
		txn.Status = domain.StatusVoid
		txn.VoidedAt = &now
		txn.VoidedBy = actor
		txn.VoidReason = reason
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = actor

		audit := domain.AuditEvent{
			AuditEventID:  uuid.NewString(),
			TransactionID: txn.TransactionID,
			FromStatus:    domain.StatusDraft,
			ToStatus:      domain.StatusVoid,
			Actor:         actor,
			Reason:        reason,
			OccurredAt:    now,
		}
		if err := s.transactionRepo.VoidDraft(ctx, *txn, audit); err != nil {
			logger.Error("Failed to void draft transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			return nil, nil, err
		}
		logger.Info("Draft transaction voided", slog.String("transaction_id", transactionID))
		return txn, nil, nil

	case domain.StatusPosted:
		entry, err := s.postingSvc.Reverse(ctx, txn, reason, actor)
		if err != nil {
			return nil, nil, err
		}
		return txn, entry, nil

	default:
		return nil, nil, fmt.Errorf("%w: cannot void a %s transaction", apperrors.ErrInvalidTransition, txn.Status)
	}
}

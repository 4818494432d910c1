package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/danukusuma/akunting_app/internal/core/formula"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	portssvc "github.com/danukusuma/akunting_app/internal/core/ports/services"
	"github.com/danukusuma/akunting_app/internal/dto"
	"github.com/danukusuma/akunting_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// probeAmount is the reference amount templates are evaluated at when they
// are created or edited. A template whose sides balance at the probe but not
// at some other amount is caught again at posting time.
var probeAmount = decimal.NewFromInt(100)

type templateService struct {
	templateRepo portsrepo.TemplateRepositoryFacade
	accountSvc   portssvc.AccountReaderSvc
}

// NewTemplateService creates the template catalog service.
func NewTemplateService(repo portsrepo.TemplateRepositoryFacade, accountSvc portssvc.AccountReaderSvc) *templateService {
	return &templateService{templateRepo: repo, accountSvc: accountSvc}
}

func (s *templateService) GetTemplateByID(ctx context.Context, templateID string) (*domain.Template, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find template by ID", slog.String("error", err.Error()), slog.String("template_id", templateID))
		}
		return nil, err
	}
	return template, nil
}

func (s *templateService) ListTemplates(ctx context.Context, category *domain.TemplateCategory, limit int, offset int) ([]domain.Template, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var templates []domain.Template
	var err error
	if category != nil {
		templates, err = s.templateRepo.ListTemplatesByCategory(ctx, *category, limit, offset)
	} else {
		templates, err = s.templateRepo.ListTemplates(ctx, limit, offset)
	}
	if err != nil {
		logger.Error("Failed to list templates", slog.String("error", err.Error()), slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if templates == nil {
		return []domain.Template{}, nil
	}
	return templates, nil
}

func (s *templateService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorID string) (*domain.Template, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	templateID := uuid.NewString()
	lines := make([]domain.TemplateLine, len(req.Lines))
	for i, lr := range req.Lines {
		lines[i] = domain.TemplateLine{
			TemplateLineID: uuid.NewString(),
			TemplateID:     templateID,
			AccountID:      lr.AccountID,
			Side:           domain.EntrySide(lr.Side),
			Formula:        lr.Formula,
			LineOrder:      i + 1,
		}
	}

	if err := s.validateLines(ctx, lines); err != nil {
		return nil, err
	}

	template := domain.Template{
		TemplateID:    templateID,
		Name:          req.Name,
		Category:      domain.TemplateCategory(req.Category),
		CashFlowClass: domain.CashFlowClass(req.CashFlowClass),
		IsActive:      true,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	saved, err := s.templateRepo.SaveTemplate(ctx, template)
	if err != nil {
		logger.Error("Failed to save template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, err
	}

	logger.Info("Template created", slog.String("template_id", saved.TemplateID), slog.String("code", saved.Code))
	return saved, nil
}

// UpdateTemplate edits a template. Templates that have driven a transaction
// are frozen, so the edit becomes a copy-on-write: a fresh template takes
// over under a new id and code while the original is deactivated and keeps
// its history reproducible.
func (s *templateService) UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateTemplateRequest, userID string) (*domain.Template, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	name := template.Name
	if req.Name != nil {
		name = *req.Name
	}
	category := template.Category
	if req.Category != nil {
		category = domain.TemplateCategory(*req.Category)
	}
	cashFlowClass := template.CashFlowClass
	if req.CashFlowClass != nil {
		cashFlowClass = domain.CashFlowClass(*req.CashFlowClass)
	}

	if !template.IsUsed() {
		template.Name = name
		template.Category = category
		template.CashFlowClass = cashFlowClass
		template.LastUpdatedAt = now
		template.LastUpdatedBy = userID

		if req.Lines != nil {
			lines := make([]domain.TemplateLine, len(req.Lines))
			for i, lr := range req.Lines {
				lines[i] = domain.TemplateLine{
					TemplateLineID: uuid.NewString(),
					TemplateID:     template.TemplateID,
					AccountID:      lr.AccountID,
					Side:           domain.EntrySide(lr.Side),
					Formula:        lr.Formula,
					LineOrder:      i + 1,
				}
			}
			template.Lines = lines
		}

		if err := s.validateLines(ctx, template.Lines); err != nil {
			return nil, err
		}
		if err := s.templateRepo.UpdateTemplate(ctx, *template); err != nil {
			logger.Error("Failed to update template", slog.String("error", err.Error()), slog.String("template_id", templateID))
			return nil, err
		}
		logger.Info("Template updated in place", slog.String("template_id", templateID))
		return template, nil
	}

	successorID := uuid.NewString()
	sourceLines := template.Lines
	if req.Lines != nil {
		sourceLines = make([]domain.TemplateLine, len(req.Lines))
		for i, lr := range req.Lines {
			sourceLines[i] = domain.TemplateLine{
				AccountID: lr.AccountID,
				Side:      domain.EntrySide(lr.Side),
				Formula:   lr.Formula,
			}
		}
	}
	lines := make([]domain.TemplateLine, len(sourceLines))
	for i, sl := range sourceLines {
		lines[i] = domain.TemplateLine{
			TemplateLineID: uuid.NewString(),
			TemplateID:     successorID,
			AccountID:      sl.AccountID,
			Side:           sl.Side,
			Formula:        sl.Formula,
			LineOrder:      i + 1,
		}
	}

	if err := s.validateLines(ctx, lines); err != nil {
		return nil, err
	}

	successor := domain.Template{
		TemplateID:    successorID,
		Name:          name,
		Category:      category,
		CashFlowClass: cashFlowClass,
		IsActive:      true,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	saved, err := s.templateRepo.SaveTemplate(ctx, successor)
	if err != nil {
		logger.Error("Failed to save template successor", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, err
	}
	if err := s.templateRepo.DeactivateTemplate(ctx, templateID, userID, now); err != nil {
		logger.Error("Failed to deactivate superseded template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, err
	}

	logger.Info("Template superseded",
		slog.String("template_id", templateID),
		slog.String("successor_id", saved.TemplateID),
		slog.String("successor_code", saved.Code))
	return saved, nil
}

func (s *templateService) DeactivateTemplate(ctx context.Context, templateID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	err := s.templateRepo.DeactivateTemplate(ctx, templateID, userID, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		}
		return err
	}

	logger.Info("Template deactivated", slog.String("template_id", templateID))
	return nil
}

func (s *templateService) RecordUsage(ctx context.Context, templateID string) error {
	return s.templateRepo.IncrementUsage(ctx, templateID)
}

// PreviewTemplate evaluates every line at the given amount without writing
// anything, so callers can inspect the entry a posting would produce.
func (s *templateService) PreviewTemplate(ctx context.Context, templateID string, amount decimal.Decimal) (*dto.PreviewTemplateResponse, error) {
	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	accountIDs := make([]string, len(template.Lines))
	for i, line := range template.Lines {
		accountIDs[i] = line.AccountID
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	previewLines := make([]dto.PreviewLine, len(template.Lines))
	for i, line := range template.Lines {
		value, err := formula.Evaluate(line.Formula, amount)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, line.LineOrder, err.Error())
		}

		pl := dto.PreviewLine{AccountID: line.AccountID}
		if account, ok := accounts[line.AccountID]; ok {
			pl.AccountCode = account.Code
			pl.AccountName = account.Name
		}
		if line.Side == domain.Debit {
			pl.Debit = value
			totalDebit = totalDebit.Add(value)
		} else {
			pl.Credit = value
			totalCredit = totalCredit.Add(value)
		}
		previewLines[i] = pl
	}

	return &dto.PreviewTemplateResponse{
		Lines:       previewLines,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Balanced:    totalDebit.Equal(totalCredit),
	}, nil
}

// validateLines checks the structural soundness of a template's lines: at
// least two, every formula parses, every referenced account exists and is
// active, and the sides balance when evaluated at the probe amount.
func (s *templateService) validateLines(ctx context.Context, lines []domain.TemplateLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: a template needs at least two lines", apperrors.ErrValidation)
	}

	accountIDs := make([]string, len(lines))
	for i, line := range lines {
		accountIDs[i] = line.AccountID
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return err
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, line := range lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return fmt.Errorf("%w: line %d references unknown account %s", apperrors.ErrValidation, line.LineOrder, line.AccountID)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: line %d references inactive account %s", apperrors.ErrValidation, line.LineOrder, account.Code)
		}

		// Exact evaluation here: complementary formulas balance at full
		// precision even when per-line truncation at posting time moves a
		// cent between lines.
		value, err := formula.EvaluateExact(line.Formula, probeAmount)
		if err != nil {
			return fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, line.LineOrder, err.Error())
		}
		if value.IsNegative() {
			return fmt.Errorf("%w: line %d evaluates to %s at amount %s", apperrors.ErrNegativeLineAmount, line.LineOrder, value, probeAmount)
		}

		if line.Side == domain.Debit {
			debitTotal = debitTotal.Add(value)
		} else {
			creditTotal = creditTotal.Add(value)
		}
	}

	if !debitTotal.Equal(creditTotal) {
		return fmt.Errorf("%w: debits %s vs credits %s at amount %s", apperrors.ErrUnbalancedTemplate, debitTotal, creditTotal, probeAmount)
	}
	return nil
}

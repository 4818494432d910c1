package services

import (
	"context"

	"github.com/danukusuma/akunting_app/internal/core/domain"
	"github.com/danukusuma/akunting_app/internal/dto"
	"github.com/shopspring/decimal"
)

// TemplateReaderSvc defines read operations for the template catalog
type TemplateReaderSvc interface {
	// GetTemplateByID retrieves a template with its lines.
	GetTemplateByID(ctx context.Context, templateID string) (*domain.Template, error)

	// ListTemplates retrieves templates, optionally filtered by category.
	ListTemplates(ctx context.Context, category *domain.TemplateCategory, limit int, offset int) ([]domain.Template, error)

	// PreviewTemplate evaluates all template lines at the given amount
	// without persisting anything.
	PreviewTemplate(ctx context.Context, templateID string, amount decimal.Decimal) (*dto.PreviewTemplateResponse, error)
}

// TemplateWriterSvc defines write operations for the template catalog
type TemplateWriterSvc interface {
	// CreateTemplate persists a new template after the probe balance check.
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, creatorID string) (*domain.Template, error)

	// UpdateTemplate edits a template. If the template has already driven a
	// transaction the edit is copy-on-write: a new template (new id and
	// code) is created, the old one is deactivated, and the new one is
	// returned.
	UpdateTemplate(ctx context.Context, templateID string, req dto.UpdateTemplateRequest, userID string) (*domain.Template, error)

	// DeactivateTemplate marks a template as inactive.
	DeactivateTemplate(ctx context.Context, templateID string, userID string) error

	// RecordUsage marks the template as referenced by a transaction,
	// freezing it for direct edits.
	RecordUsage(ctx context.Context, templateID string) error
}

// TemplateSvcFacade combines all template-related service interfaces
type TemplateSvcFacade interface {
	TemplateReaderSvc
	TemplateWriterSvc
}

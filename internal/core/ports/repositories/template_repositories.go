package repositories

import (
	"context"
	"time"

	"github.com/danukusuma/akunting_app/internal/core/domain"
)

// TemplateReader defines read operations for the template catalog
type TemplateReader interface {
	// FindTemplateByID retrieves a template with its lines.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.Template, error)

	// ListTemplates retrieves a paginated list of templates ordered by code.
	ListTemplates(ctx context.Context, limit int, offset int) ([]domain.Template, error)

	// ListTemplatesByCategory retrieves templates of one category ordered by code.
	ListTemplatesByCategory(ctx context.Context, category domain.TemplateCategory, limit int, offset int) ([]domain.Template, error)
}

// TemplateWriter defines write operations for the template catalog
type TemplateWriter interface {
	// SaveTemplate persists a template and its lines, allocating its TPL code
	// from the template sequence in the same transaction. The stored template
	// (with code assigned) is returned.
	SaveTemplate(ctx context.Context, template domain.Template) (*domain.Template, error)

	// UpdateTemplate replaces the template's details and lines in place.
	// Only legal while the template has never driven a transaction; edits to
	// used templates go through SaveTemplate as a copy-on-write.
	UpdateTemplate(ctx context.Context, template domain.Template) error

	// DeactivateTemplate marks a template as inactive.
	DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error

	// IncrementUsage bumps the usage counter when a transaction is created
	// from the template, freezing it for direct edits.
	IncrementUsage(ctx context.Context, templateID string) error
}

// TemplateRepositoryFacade combines all template-related repository interfaces
type TemplateRepositoryFacade interface {
	TemplateReader
	TemplateWriter
}

// TemplateRepositoryWithTx extends TemplateRepositoryFacade with transaction capabilities
type TemplateRepositoryWithTx interface {
	TemplateRepositoryFacade
	TransactionManager
}

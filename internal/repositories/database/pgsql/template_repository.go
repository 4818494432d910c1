package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danukusuma/akunting_app/internal/apperrors"
	"github.com/danukusuma/akunting_app/internal/core/domain"
	portsrepo "github.com/danukusuma/akunting_app/internal/core/ports/repositories"
	"github.com/danukusuma/akunting_app/internal/utils/numbering"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTemplateRepository struct {
	BaseRepository
}

// newPgxTemplateRepository creates a new repository for the template catalog.
func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepositoryFacade {
	return &PgxTemplateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTemplateRepository implements portsrepo.TemplateRepositoryFacade
var _ portsrepo.TemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

const templateColumns = `template_id, code, name, category, cash_flow_class, is_active, usage_count, created_at, created_by, last_updated_at, last_updated_by`

// SaveTemplate inserts a template and its lines, allocating the TPL code from
// the template sequence inside the same database transaction.
func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, template domain.Template) (*domain.Template, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Template codes do not reset yearly; the sequence lives under year 0.
	seq, err := r.NextSequence(ctx, tx, numbering.KindTemplate, 0)
	if err != nil {
		return nil, err
	}
	template.Code = numbering.TemplateCode(seq)

	query := `
		INSERT INTO templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		template.TemplateID,
		template.Code,
		template.Name,
		template.Category,
		template.CashFlowClass,
		template.IsActive,
		template.UsageCount,
		template.CreatedAt,
		template.CreatedBy,
		template.LastUpdatedAt,
		template.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert template %s: %w", template.TemplateID, err)
	}

	if err := insertTemplateLines(ctx, tx, template.TemplateID, template.Lines); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &template, nil
}

func insertTemplateLines(ctx context.Context, tx pgx.Tx, templateID string, lines []domain.TemplateLine) error {
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO template_lines (template_line_id, template_id, account_id, side, formula, line_order)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.TemplateLineID,
			templateID,
			line.AccountID,
			line.Side,
			line.Formula,
			line.LineOrder,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert template line for %s: %w", templateID, err)
		}
	}
	return nil
}

// UpdateTemplate rewrites the template row and replaces its lines. The guard
// on usage_count keeps an edit from racing a draft creation that just froze
// the template.
func (r *PgxTemplateRepository) UpdateTemplate(ctx context.Context, template domain.Template) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE templates
		SET name = $2, category = $3, cash_flow_class = $4, last_updated_at = $5, last_updated_by = $6
		WHERE template_id = $1 AND usage_count = 0;
	`
	tag, err := tx.Exec(ctx, query,
		template.TemplateID,
		template.Name,
		template.Category,
		template.CashFlowClass,
		template.LastUpdatedAt,
		template.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update template %s: %w", template.TemplateID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: template %s is missing or already in use", apperrors.ErrConflict, template.TemplateID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM template_lines WHERE template_id = $1;`, template.TemplateID); err != nil {
		return fmt.Errorf("failed to clear template lines for %s: %w", template.TemplateID, err)
	}
	if err := insertTemplateLines(ctx, tx, template.TemplateID, template.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE template_id = $1;`

	var template domain.Template
	err := r.Pool.QueryRow(ctx, query, templateID).Scan(
		&template.TemplateID,
		&template.Code,
		&template.Name,
		&template.Category,
		&template.CashFlowClass,
		&template.IsActive,
		&template.UsageCount,
		&template.CreatedAt,
		&template.CreatedBy,
		&template.LastUpdatedAt,
		&template.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}

	lines, err := r.findLinesByTemplateIDs(ctx, []string{templateID})
	if err != nil {
		return nil, err
	}
	template.Lines = lines[templateID]
	return &template, nil
}

func (r *PgxTemplateRepository) ListTemplates(ctx context.Context, limit int, offset int) ([]domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates ORDER BY code LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()
	return r.collectTemplates(ctx, rows)
}

func (r *PgxTemplateRepository) ListTemplatesByCategory(ctx context.Context, category domain.TemplateCategory, limit int, offset int) ([]domain.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE category = $1 ORDER BY code LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates by category %s: %w", category, err)
	}
	defer rows.Close()
	return r.collectTemplates(ctx, rows)
}

func (r *PgxTemplateRepository) collectTemplates(ctx context.Context, rows pgx.Rows) ([]domain.Template, error) {
	templates := make([]domain.Template, 0)
	for rows.Next() {
		var template domain.Template
		err := rows.Scan(
			&template.TemplateID,
			&template.Code,
			&template.Name,
			&template.Category,
			&template.CashFlowClass,
			&template.IsActive,
			&template.UsageCount,
			&template.CreatedAt,
			&template.CreatedBy,
			&template.LastUpdatedAt,
			&template.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	if len(templates) == 0 {
		return templates, nil
	}
	templateIDs := make([]string, len(templates))
	for i, t := range templates {
		templateIDs[i] = t.TemplateID
	}
	linesByTemplate, err := r.findLinesByTemplateIDs(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		templates[i].Lines = linesByTemplate[templates[i].TemplateID]
	}
	return templates, nil
}

func (r *PgxTemplateRepository) findLinesByTemplateIDs(ctx context.Context, templateIDs []string) (map[string][]domain.TemplateLine, error) {
	query := `
		SELECT template_line_id, template_id, account_id, side, formula, line_order
		FROM template_lines
		WHERE template_id = ANY($1)
		ORDER BY template_id, line_order;
	`
	rows, err := r.Pool.Query(ctx, query, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query template lines: %w", err)
	}
	defer rows.Close()

	linesByTemplate := make(map[string][]domain.TemplateLine)
	for rows.Next() {
		var line domain.TemplateLine
		err := rows.Scan(
			&line.TemplateLineID,
			&line.TemplateID,
			&line.AccountID,
			&line.Side,
			&line.Formula,
			&line.LineOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template line row: %w", err)
		}
		linesByTemplate[line.TemplateID] = append(linesByTemplate[line.TemplateID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template line rows: %w", err)
	}
	return linesByTemplate, nil
}

func (r *PgxTemplateRepository) DeactivateTemplate(ctx context.Context, templateID string, userID string, now time.Time) error {
	query := `
		UPDATE templates
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE template_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, templateID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate template %s: %w", templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTemplateRepository) IncrementUsage(ctx context.Context, templateID string) error {
	query := `UPDATE templates SET usage_count = usage_count + 1 WHERE template_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, templateID)
	if err != nil {
		return fmt.Errorf("failed to increment usage of template %s: %w", templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SKuytov/SVP/internal/contracts"
)

// TemplateRepository implements contracts.TemplateRepository
type TemplateRepository struct {
	pool *pgxpool.Pool
}

var _ contracts.TemplateRepository = (*TemplateRepository)(nil)

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

// jsonOr returns raw, or fallback when raw is empty
func jsonOr(raw json.RawMessage, fallback string) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(fallback)
	}
	return raw
}

// SaveReportTemplate stores a report template and returns its id
func (r *TemplateRepository) SaveReportTemplate(ctx context.Context, tpl *contracts.ReportTemplate) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO report_templates (name, description, report_type, parameters, filters, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, tpl.Name, tpl.Description, tpl.ReportType,
		jsonOr(tpl.Parameters, "{}"), jsonOr(tpl.Filters, "{}"), tpl.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report template: %w", err)
	}
	return id, nil
}

// SaveAnalyticsDashboard stores a custom dashboard layout and returns its id
func (r *TemplateRepository) SaveAnalyticsDashboard(ctx context.Context, dash *contracts.AnalyticsDashboard) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO analytics_dashboards (name, description, widgets, layout, filters, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, dash.Name, dash.Description,
		jsonOr(dash.Widgets, "[]"), jsonOr(dash.Layout, "{}"), jsonOr(dash.Filters, "{}"), dash.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert analytics dashboard: %w", err)
	}
	return id, nil
}

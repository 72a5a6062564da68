package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SKuytov/SVP/internal/contracts"
)

// ComplianceTrends buckets active suppliers by last update period
func (r *AnalyticsRepository) ComplianceTrends(ctx context.Context, window contracts.TrendWindow) ([]contracts.ComplianceTrendPoint, error) {
	query := `
		SELECT
			to_char(updated_at, $1) AS period,
			AVG(iso_compliance_score),
			COUNT(*),
			COUNT(*) FILTER (WHERE iso_compliance_score >= 80),
			MIN(iso_compliance_score),
			MAX(iso_compliance_score),
			COALESCE(STDDEV(iso_compliance_score), 0)
		FROM suppliers
		WHERE updated_at >= CURRENT_DATE - make_interval(months => $2)
		  AND status = 'Active'
		GROUP BY 1
		ORDER BY 1
	`

	return collect(ctx, r.pool, "compliance trends", query,
		func(row pgx.CollectableRow) (contracts.ComplianceTrendPoint, error) {
			var p contracts.ComplianceTrendPoint
			err := row.Scan(&p.Period, &p.AvgCompliance, &p.SupplierCount, &p.CompliantCount,
				&p.MinCompliance, &p.MaxCompliance, &p.Dispersion)
			return p, err
		},
		periodFormat(window.Granularity), windowMonths(window.Months))
}

// CategoryTrends splits the trend buckets by risk category
func (r *AnalyticsRepository) CategoryTrends(ctx context.Context, window contracts.TrendWindow) ([]contracts.CategoryTrendPoint, error) {
	query := `
		SELECT
			to_char(updated_at, $1) AS period,
			risk_category,
			AVG(iso_compliance_score),
			COUNT(*)
		FROM suppliers
		WHERE updated_at >= CURRENT_DATE - make_interval(months => $2)
		  AND status = 'Active'
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	return collect(ctx, r.pool, "category trends", query,
		func(row pgx.CollectableRow) (contracts.CategoryTrendPoint, error) {
			var p contracts.CategoryTrendPoint
			err := row.Scan(&p.Period, &p.RiskCategory, &p.AvgCompliance, &p.Count)
			return p, err
		},
		periodFormat(window.Granularity), windowMonths(window.Months))
}

// ScoreChanges compares each supplier's score with its previous history entry.
// Suppliers without history report nil previous/change and sort last.
func (r *AnalyticsRepository) ScoreChanges(ctx context.Context, months int) ([]contracts.ScoreChange, error) {
	query := `
		WITH ranked AS (
			SELECT
				h.supplier_id,
				LAG(h.score) OVER (PARTITION BY h.supplier_id ORDER BY h.recorded_at, h.id) AS previous_score,
				ROW_NUMBER() OVER (PARTITION BY h.supplier_id ORDER BY h.recorded_at DESC, h.id DESC) AS rn
			FROM supplier_score_history h
		)
		SELECT
			s.id,
			s.name,
			s.risk_category,
			s.iso_compliance_score,
			r.previous_score,
			s.iso_compliance_score - r.previous_score AS score_change
		FROM suppliers s
		LEFT JOIN ranked r ON r.supplier_id = s.id AND r.rn = 1
		WHERE s.updated_at >= CURRENT_DATE - make_interval(months => $1)
		  AND s.status = 'Active'
		ORDER BY score_change DESC NULLS LAST, s.id
	`

	return collect(ctx, r.pool, "score changes", query,
		func(row pgx.CollectableRow) (contracts.ScoreChange, error) {
			var c contracts.ScoreChange
			err := row.Scan(&c.SupplierID, &c.Name, &c.RiskCategory, &c.CurrentScore, &c.PreviousScore, &c.Change)
			return c, err
		},
		windowMonths(months))
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SKuytov/SVP/internal/contracts"
)

// SupplierPerformance returns the ranking inputs of active suppliers.
// PerformanceIndex is left zero; the scoring engine computes it.
func (r *AnalyticsRepository) SupplierPerformance(ctx context.Context, months int) ([]contracts.SupplierPerformanceRow, error) {
	query := `
		SELECT
			s.id,
			s.name,
			s.risk_category,
			s.supplier_type,
			s.iso_compliance_score,
			s.annual_spend_eur::float8,
			COALESCE(a.cnt, 0),
			a.avg_score,
			COALESCE(ca.cnt, 0),
			(s.next_audit_due - CURRENT_DATE)
		FROM suppliers s
		LEFT JOIN (
			SELECT supplier_id,
				COUNT(*) AS cnt,
				AVG(compliance_percentage) FILTER (WHERE status = 'Completed') AS avg_score
			FROM assessments
			WHERE completed_date >= CURRENT_DATE - make_interval(months => $1)
			GROUP BY supplier_id
		) a ON a.supplier_id = s.id
		LEFT JOIN (
			SELECT supplier_id, COUNT(*) AS cnt FROM corrective_actions
			WHERE status IN ('Assigned', 'In_Progress') GROUP BY supplier_id
		) ca ON ca.supplier_id = s.id
		WHERE s.status = 'Active'
		ORDER BY s.id
	`

	return collect(ctx, r.pool, "supplier performance", query,
		func(row pgx.CollectableRow) (contracts.SupplierPerformanceRow, error) {
			var p contracts.SupplierPerformanceRow
			err := row.Scan(&p.SupplierID, &p.Name, &p.RiskCategory, &p.SupplierType, &p.ComplianceScore,
				&p.AnnualSpend, &p.AssessmentCount, &p.AvgAssessmentScore, &p.OpenCapas, &p.DaysUntilAudit)
			return p, err
		},
		windowMonths(months))
}

// SupplierPerformanceDetail returns one supplier with its relation counters
func (r *AnalyticsRepository) SupplierPerformanceDetail(ctx context.Context, supplierID int64) (*contracts.SupplierPerformanceDetail, error) {
	query := `
		SELECT ` + supplierColumns + `,
			(SELECT COUNT(*) FROM documents WHERE supplier_id = s.id),
			(SELECT COUNT(*) FROM assessments WHERE supplier_id = s.id),
			(SELECT COUNT(*) FROM corrective_actions WHERE supplier_id = s.id),
			(SELECT AVG(compliance_percentage) FROM assessments
			  WHERE supplier_id = s.id AND status = 'Completed'),
			(SELECT COUNT(*) FROM documents WHERE supplier_id = s.id AND status = 'Expired'),
			(SELECT COUNT(*) FROM corrective_actions WHERE supplier_id = s.id AND status = 'Overdue')
		FROM suppliers s
		WHERE s.id = $1
	`

	var d contracts.SupplierPerformanceDetail
	dest := append(supplierDest(&d.Supplier),
		&d.DocumentCount, &d.AssessmentCount, &d.CapaCount, &d.AvgAssessmentScore,
		&d.ExpiredDocuments, &d.OverdueCapas)

	err := r.pool.QueryRow(ctx, query, supplierID).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("supplier %d: %w", supplierID, contracts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier %d performance: %w", supplierID, err)
	}
	return &d, nil
}

// PerformanceHistory returns the monthly assessment averages of one supplier
func (r *AnalyticsRepository) PerformanceHistory(ctx context.Context, supplierID int64, months int) ([]contracts.PerformanceHistoryPoint, error) {
	query := `
		SELECT
			to_char(completed_date, 'YYYY-MM') AS month,
			COALESCE(AVG(compliance_percentage), 0),
			COUNT(*)
		FROM assessments
		WHERE supplier_id = $1
		  AND completed_date >= CURRENT_DATE - make_interval(months => $2)
		GROUP BY 1
		ORDER BY 1
	`

	return collect(ctx, r.pool, "performance history", query,
		func(row pgx.CollectableRow) (contracts.PerformanceHistoryPoint, error) {
			var p contracts.PerformanceHistoryPoint
			err := row.Scan(&p.Month, &p.AvgScore, &p.AssessmentCount)
			return p, err
		},
		supplierID, windowMonths(months))
}

// BenchmarkScores returns every active supplier score tagged with its peer group
func (r *AnalyticsRepository) BenchmarkScores(ctx context.Context) ([]contracts.CategoryScore, error) {
	query := `
		SELECT risk_category, supplier_type, iso_compliance_score
		FROM suppliers
		WHERE status = 'Active'
		ORDER BY 1, 2, 3 DESC
	`

	return collect(ctx, r.pool, "benchmark scores", query,
		func(row pgx.CollectableRow) (contracts.CategoryScore, error) {
			var c contracts.CategoryScore
			err := row.Scan(&c.RiskCategory, &c.SupplierType, &c.Score)
			return c, err
		})
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SKuytov/SVP/internal/contracts"
)

// SpendByCategory groups active spend by risk category, supplier type and
// the first product category
func (r *AnalyticsRepository) SpendByCategory(ctx context.Context) ([]contracts.SpendCategoryRow, error) {
	query := `
		SELECT
			risk_category,
			supplier_type,
			COALESCE(product_categories->>0, '') AS primary_category,
			COUNT(*),
			SUM(annual_spend_eur)::float8 AS total_spend,
			AVG(annual_spend_eur)::float8,
			COALESCE(SUM(annual_spend_eur) FILTER (WHERE business_critical), 0)::float8,
			AVG(iso_compliance_score)
		FROM suppliers
		WHERE status = 'Active'
		  AND annual_spend_eur > 0
		GROUP BY 1, 2, 3
		ORDER BY total_spend DESC, 1, 2, 3
	`

	return collect(ctx, r.pool, "spend by category", query,
		func(row pgx.CollectableRow) (contracts.SpendCategoryRow, error) {
			var s contracts.SpendCategoryRow
			err := row.Scan(&s.RiskCategory, &s.SupplierType, &s.PrimaryCategory, &s.SupplierCount,
				&s.TotalSpend, &s.AvgSpend, &s.CriticalSpend, &s.AvgCompliance)
			return s, err
		})
}

// SpendEfficiency returns the efficiency inputs of active suppliers with spend.
// CompliancePerMillion stays nil; the scoring engine derives it.
func (r *AnalyticsRepository) SpendEfficiency(ctx context.Context) ([]contracts.SpendEfficiencyRow, error) {
	query := `
		SELECT
			s.id,
			s.name,
			s.annual_spend_eur::float8,
			s.iso_compliance_score,
			s.risk_category,
			COALESCE(ca.cnt, 0),
			COALESCE(d.cnt, 0)
		FROM suppliers s
		LEFT JOIN (
			SELECT supplier_id, COUNT(*) AS cnt FROM corrective_actions
			WHERE status IN ('Assigned', 'In_Progress') GROUP BY supplier_id
		) ca ON ca.supplier_id = s.id
		LEFT JOIN (
			SELECT supplier_id, COUNT(*) AS cnt FROM documents
			WHERE status = 'Valid' GROUP BY supplier_id
		) d ON d.supplier_id = s.id
		WHERE s.status = 'Active'
		  AND s.annual_spend_eur > 0
		ORDER BY s.id
	`

	return collect(ctx, r.pool, "spend efficiency", query,
		func(row pgx.CollectableRow) (contracts.SpendEfficiencyRow, error) {
			var s contracts.SpendEfficiencyRow
			err := row.Scan(&s.SupplierID, &s.Name, &s.AnnualSpend, &s.ComplianceScore, &s.RiskCategory,
				&s.IssueCount, &s.DocumentCount)
			return s, err
		})
}

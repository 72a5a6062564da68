package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SKuytov/SVP/internal/contracts"
)

// riskFactorSelect projects contracts.RiskFactorRecord for active suppliers.
// Each counter is its own subquery so joins never multiply rows.
const riskFactorSelect = `
	SELECT
		s.id,
		s.name,
		s.risk_category,
		s.iso_compliance_score,
		s.annual_spend_eur::float8,
		s.business_critical,
		(SELECT COUNT(*) FROM corrective_actions ca
		  WHERE ca.supplier_id = s.id AND ca.status IN ('Assigned', 'In_Progress')),
		(SELECT COUNT(*) FROM documents d
		  WHERE d.supplier_id = s.id AND d.status = 'Expired'),
		(SELECT COUNT(*) FROM documents d
		  WHERE d.supplier_id = s.id AND d.status = 'Valid' AND d.expiry_date <= CURRENT_DATE + 90),
		(SELECT COUNT(*) FROM findings f JOIN assessments a ON f.assessment_id = a.id
		  WHERE a.supplier_id = s.id AND f.severity = 'Critical' AND f.status = 'Open'),
		(s.next_audit_due - CURRENT_DATE),
		(SELECT AVG(a.compliance_percentage) FROM assessments a
		  WHERE a.supplier_id = s.id AND a.status = 'Completed'
		    AND a.completed_date >= CURRENT_DATE - INTERVAL '6 months')
	FROM suppliers s
	WHERE s.status = 'Active'`

func scanRiskFactor(row pgx.CollectableRow) (contracts.RiskFactorRecord, error) {
	var f contracts.RiskFactorRecord
	err := row.Scan(&f.SupplierID, &f.Name, &f.RiskCategory, &f.ComplianceScore, &f.AnnualSpend,
		&f.BusinessCritical, &f.OpenCapas, &f.ExpiredDocs, &f.ExpiringDocs, &f.CriticalFindings,
		&f.DaysUntilAudit, &f.RecentAvgScore)
	return f, err
}

// RiskMatrix groups active suppliers by risk category and supplier type
func (r *AnalyticsRepository) RiskMatrix(ctx context.Context) ([]contracts.RiskMatrixCell, error) {
	query := `
		SELECT
			risk_category,
			supplier_type,
			COUNT(*),
			AVG(iso_compliance_score),
			AVG(annual_spend_eur)::float8,
			SUM(annual_spend_eur)::float8,
			COUNT(*) FILTER (WHERE business_critical),
			COUNT(*) FILTER (WHERE next_audit_due < CURRENT_DATE)
		FROM suppliers
		WHERE status = 'Active'
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	return collect(ctx, r.pool, "risk matrix", query,
		func(row pgx.CollectableRow) (contracts.RiskMatrixCell, error) {
			var c contracts.RiskMatrixCell
			err := row.Scan(&c.RiskCategory, &c.SupplierType, &c.SupplierCount, &c.AvgCompliance,
				&c.AvgSpend, &c.TotalSpend, &c.CriticalCount, &c.OverdueAudits)
			return c, err
		})
}

// RiskFactors returns the risk drivers of every active supplier
func (r *AnalyticsRepository) RiskFactors(ctx context.Context) ([]contracts.RiskFactorRecord, error) {
	query := riskFactorSelect + `
		ORDER BY s.risk_category, s.iso_compliance_score, s.id`
	return collect(ctx, r.pool, "risk factors", query, scanRiskFactor)
}

// HighRiskSuppliers returns category A, weak (<75) or audit-due-within-30-days suppliers
func (r *AnalyticsRepository) HighRiskSuppliers(ctx context.Context) ([]contracts.RiskFactorRecord, error) {
	query := riskFactorSelect + `
		  AND (s.risk_category = 'A'
		       OR s.iso_compliance_score < 75
		       OR s.next_audit_due < CURRENT_DATE + 30)
		ORDER BY s.risk_category, s.iso_compliance_score ASC, s.id`
	return collect(ctx, r.pool, "high risk suppliers", query, scanRiskFactor)
}

// PredictionInputs returns the inputs of the predictive heuristic
func (r *AnalyticsRepository) PredictionInputs(ctx context.Context) ([]contracts.RiskFactorRecord, error) {
	query := riskFactorSelect + `
		ORDER BY s.id`
	return collect(ctx, r.pool, "prediction inputs", query, scanRiskFactor)
}

// GeographicRisk aggregates active suppliers per country and city
func (r *AnalyticsRepository) GeographicRisk(ctx context.Context) ([]contracts.GeoRiskRow, error) {
	query := `
		SELECT
			address_country,
			address_city,
			COUNT(*),
			AVG(iso_compliance_score),
			SUM(annual_spend_eur)::float8 AS total_spend
		FROM suppliers
		WHERE status = 'Active'
		GROUP BY 1, 2
		ORDER BY total_spend DESC, 1, 2
	`

	return collect(ctx, r.pool, "geographic risk", query,
		func(row pgx.CollectableRow) (contracts.GeoRiskRow, error) {
			var g contracts.GeoRiskRow
			err := row.Scan(&g.Country, &g.City, &g.SupplierCount, &g.AvgCompliance, &g.TotalSpend)
			return g, err
		})
}

// RiskDistribution summarises active suppliers per risk category
func (r *AnalyticsRepository) RiskDistribution(ctx context.Context) ([]contracts.RiskDistributionRow, error) {
	query := `
		SELECT
			risk_category,
			COUNT(*),
			AVG(iso_compliance_score),
			AVG(annual_spend_eur)::float8,
			COUNT(*) FILTER (WHERE business_critical)
		FROM suppliers
		WHERE status = 'Active'
		GROUP BY 1
		ORDER BY 1
	`

	return collect(ctx, r.pool, "risk distribution", query,
		func(row pgx.CollectableRow) (contracts.RiskDistributionRow, error) {
			var d contracts.RiskDistributionRow
			err := row.Scan(&d.RiskCategory, &d.SupplierCount, &d.AvgCompliance, &d.AvgSpend, &d.CriticalSuppliers)
			return d, err
		})
}

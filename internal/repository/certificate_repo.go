package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SKuytov/SVP/internal/contracts"
)

// CertificateStats returns the expiry profile per document type (active suppliers)
func (r *AnalyticsRepository) CertificateStats(ctx context.Context) ([]contracts.CertificateStat, error) {
	query := `
		SELECT
			d.type,
			COUNT(*) AS total_count,
			COUNT(*) FILTER (WHERE d.status = 'Valid'),
			COUNT(*) FILTER (WHERE d.status = 'Expired'),
			COUNT(*) FILTER (WHERE d.status = 'Valid' AND d.expiry_date <= CURRENT_DATE + 30),
			COUNT(*) FILTER (WHERE d.status = 'Valid' AND d.expiry_date <= CURRENT_DATE + 90),
			COALESCE(AVG(d.expiry_date - d.issue_date), 0)::float8
		FROM documents d
		JOIN suppliers s ON d.supplier_id = s.id
		WHERE s.status = 'Active'
		GROUP BY 1
		ORDER BY total_count DESC, 1
	`

	return collect(ctx, r.pool, "certificate stats", query,
		func(row pgx.CollectableRow) (contracts.CertificateStat, error) {
			var c contracts.CertificateStat
			err := row.Scan(&c.DocumentType, &c.TotalCount, &c.ValidCount, &c.ExpiredCount,
				&c.Expiring30Days, &c.Expiring90Days, &c.AvgValidityDays)
			return c, err
		})
}

// StandardCompliance returns the certification coverage of each active standard
func (r *AnalyticsRepository) StandardCompliance(ctx context.Context) ([]contracts.StandardCompliance, error) {
	query := `
		SELECT
			st.name,
			st.standard_type,
			sc.total,
			sc.certified,
			sc.expired,
			dc.certs,
			dc.valid,
			COALESCE(sc.avg_compliance, 0)
		FROM standards st
		CROSS JOIN LATERAL (
			SELECT
				COUNT(DISTINCT s.id) AS total,
				COUNT(DISTINCT s.id) FILTER (WHERE ss.certification_status = 'Certified') AS certified,
				COUNT(*) FILTER (WHERE ss.certification_status = 'Expired') AS expired,
				AVG(ss.compliance_percentage) AS avg_compliance
			FROM supplier_standards ss
			JOIN suppliers s ON s.id = ss.supplier_id AND s.status = 'Active'
			WHERE ss.standard_id = st.id
		) sc
		CROSS JOIN LATERAL (
			SELECT
				COUNT(*) AS certs,
				COUNT(*) FILTER (WHERE d.status = 'Valid') AS valid
			FROM documents d
			JOIN suppliers s ON s.id = d.supplier_id AND s.status = 'Active'
			WHERE d.standard_id = st.id AND d.type = 'Certificate'
		) dc
		WHERE st.is_active
		ORDER BY sc.certified DESC, st.name
	`

	return collect(ctx, r.pool, "standard compliance", query,
		func(row pgx.CollectableRow) (contracts.StandardCompliance, error) {
			var c contracts.StandardCompliance
			err := row.Scan(&c.StandardName, &c.StandardType, &c.TotalSuppliers, &c.CertifiedSuppliers,
				&c.ExpiredCount, &c.CertificateCount, &c.ValidCertificates, &c.AvgCompliance)
			return c, err
		})
}

// RenewalPatterns counts documents issued per calendar month over 24 months,
// with the average gap to the previous document of the same kind
func (r *AnalyticsRepository) RenewalPatterns(ctx context.Context) ([]contracts.RenewalPattern, error) {
	query := `
		SELECT
			EXTRACT(MONTH FROM d.issue_date)::int AS month,
			COUNT(*),
			COALESCE(AVG(d.issue_date - prev.expiry_date), 0)::float8
		FROM documents d
		LEFT JOIN LATERAL (
			SELECT p.expiry_date
			FROM documents p
			WHERE p.supplier_id = d.supplier_id
			  AND p.type = d.type
			  AND p.standard_id IS NOT DISTINCT FROM d.standard_id
			  AND p.issue_date < d.issue_date
			ORDER BY p.issue_date DESC, p.id DESC
			LIMIT 1
		) prev ON TRUE
		WHERE d.issue_date >= CURRENT_DATE - INTERVAL '24 months'
		GROUP BY 1
		ORDER BY 1
	`

	return collect(ctx, r.pool, "renewal patterns", query,
		func(row pgx.CollectableRow) (contracts.RenewalPattern, error) {
			var p contracts.RenewalPattern
			err := row.Scan(&p.Month, &p.Renewals, &p.AvgRenewalGapDays)
			return p, err
		})
}

// ExpiringCertificates returns documents of active suppliers expiring within the lookahead
func (r *AnalyticsRepository) ExpiringCertificates(ctx context.Context, filter contracts.CertificateFilter) ([]contracts.CertificateReportRow, error) {
	days := filter.DaysAhead
	if days <= 0 {
		days = 90
	}

	w := &whereBuilder{}
	w.raw("d.expiry_date IS NOT NULL")
	w.add("d.expiry_date <= CURRENT_DATE + %s::int", days)
	w.raw("s.status = 'Active'")
	if filter.DocumentType != "" {
		w.add("d.type = %s", filter.DocumentType)
	}
	if filter.SupplierID != nil {
		w.add("s.id = %s", *filter.SupplierID)
	}

	query := strings.Join([]string{`
		SELECT
			d.id,
			d.name,
			d.type,
			d.issue_date,
			d.expiry_date,
			d.status,
			s.name,
			s.risk_category,
			COALESCE(st.name, ''),
			(d.expiry_date - CURRENT_DATE)
		FROM documents d
		JOIN suppliers s ON d.supplier_id = s.id
		LEFT JOIN standards st ON d.standard_id = st.id`,
		w.sql(),
		"ORDER BY d.expiry_date ASC, s.risk_category DESC, d.id",
	}, "\n")

	return collect(ctx, r.pool, "expiring certificates", query,
		func(row pgx.CollectableRow) (contracts.CertificateReportRow, error) {
			var c contracts.CertificateReportRow
			err := row.Scan(&c.DocumentID, &c.DocumentName, &c.Type, &c.IssueDate, &c.ExpiryDate,
				&c.Status, &c.SupplierName, &c.RiskCategory, &c.StandardName, &c.DaysUntilExpiry)
			return c, err
		},
		w.args...)
}

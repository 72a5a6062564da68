package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SKuytov/SVP/internal/contracts"
)

// =============================================================================
// Dashboard KPI
// =============================================================================

// DashboardCounts reads every KPI counter of the dashboard
func (r *AnalyticsRepository) DashboardCounts(ctx context.Context) (*contracts.DashboardCounts, error) {
	var c contracts.DashboardCounts

	s := &c.Suppliers
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE iso_compliance_score >= 75),
			COUNT(*) FILTER (WHERE risk_category = 'A'),
			COUNT(*) FILTER (WHERE risk_category = 'B'),
			COUNT(*) FILTER (WHERE risk_category = 'C'),
			COUNT(*) FILTER (WHERE status = 'Active'),
			COUNT(*) FILTER (WHERE next_audit_due < CURRENT_DATE AND status = 'Active'),
			COUNT(*) FILTER (WHERE business_critical),
			COUNT(*) FILTER (WHERE preferred_supplier),
			COALESCE(AVG(iso_compliance_score) FILTER (WHERE status = 'Active'), 0),
			COALESCE(SUM(annual_spend_eur), 0)::float8
		FROM suppliers
	`).Scan(&s.Total, &s.Compliant, &s.HighRisk, &s.MediumRisk, &s.LowRisk, &s.Active,
		&s.OverdueAudits, &s.Critical, &s.Preferred, &s.AvgComplianceScore, &s.TotalAnnualSpend)
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier counts: %w", err)
	}

	d := &c.Documents
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Valid'),
			COUNT(*) FILTER (WHERE status = 'Expired'),
			COUNT(*) FILTER (WHERE status = 'Valid' AND expiry_date BETWEEN CURRENT_DATE AND CURRENT_DATE + 30),
			COUNT(*) FILTER (WHERE status = 'Valid' AND expiry_date BETWEEN CURRENT_DATE AND CURRENT_DATE + 90),
			COUNT(*) FILTER (WHERE type = 'Certificate'),
			COALESCE(SUM(file_size), 0)::bigint
		FROM documents
	`).Scan(&d.Total, &d.Valid, &d.Expired, &d.ExpiringSoon, &d.Expiring90Days, &d.Certificates, &d.TotalFileBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to query document counts: %w", err)
	}

	a := &c.Assessments
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Completed'),
			COUNT(*) FILTER (WHERE status = 'Scheduled'),
			COUNT(*) FILTER (WHERE status = 'Scheduled' AND scheduled_date BETWEEN CURRENT_DATE AND CURRENT_DATE + 30),
			COUNT(*) FILTER (WHERE status IN ('Scheduled', 'In_Progress') AND scheduled_date < CURRENT_DATE),
			COALESCE(AVG(compliance_percentage) FILTER (WHERE status = 'Completed'), 0)
		FROM assessments
	`).Scan(&a.Total, &a.Completed, &a.Scheduled, &a.Upcoming, &a.Overdue, &a.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment counts: %w", err)
	}

	ca := &c.Capas
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status IN ('Assigned', 'In_Progress')),
			COUNT(*) FILTER (WHERE status = 'Completed'),
			COUNT(*) FILTER (WHERE status IN ('Assigned', 'In_Progress') AND due_date < CURRENT_DATE),
			COUNT(*) FILTER (WHERE status IN ('Assigned', 'In_Progress') AND priority = 'Critical')
		FROM corrective_actions
	`).Scan(&ca.Total, &ca.Open, &ca.Completed, &ca.Overdue, &ca.Critical)
	if err != nil {
		return nil, fmt.Errorf("failed to query CAPA counts: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT user_id)
		FROM activity_log
		WHERE created_at >= NOW() - INTERVAL '30 days'
	`).Scan(&c.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}

	return &c, nil
}

// MonthlyScores returns the per-creation-month average of active suppliers
func (r *AnalyticsRepository) MonthlyScores(ctx context.Context, months int) ([]contracts.MonthlyScore, error) {
	if months <= 0 {
		months = 6
	}

	query := `
		SELECT
			to_char(created_at, 'YYYY-MM') AS month,
			to_char(created_at, 'FMMonth'),
			AVG(iso_compliance_score),
			COUNT(*)
		FROM suppliers
		WHERE created_at >= CURRENT_DATE - make_interval(months => $1)
		  AND status = 'Active'
		GROUP BY 1, 2
		ORDER BY 1
	`

	return collect(ctx, r.pool, "monthly scores", query,
		func(row pgx.CollectableRow) (contracts.MonthlyScore, error) {
			var m contracts.MonthlyScore
			err := row.Scan(&m.Month, &m.MonthName, &m.AvgScore, &m.SupplierCount)
			return m, err
		},
		months)
}

func scanBrief(row pgx.CollectableRow) (contracts.SupplierBrief, error) {
	var b contracts.SupplierBrief
	err := row.Scan(&b.ID, &b.Name, &b.ComplianceScore, &b.RiskCategory, &b.Status, &b.DaysUntilAudit, &b.OpenCapaCount)
	return b, err
}

// briefSelect projects contracts.SupplierBrief over alias s
const briefSelect = `
	SELECT
		s.id, s.name, s.iso_compliance_score, s.risk_category, s.status,
		(s.next_audit_due - CURRENT_DATE),
		(SELECT COUNT(*) FROM corrective_actions ca
		  WHERE ca.supplier_id = s.id AND ca.status IN ('Assigned', 'In_Progress'))
	FROM suppliers s`

// TopPerformers returns the highest scoring active suppliers
func (r *AnalyticsRepository) TopPerformers(ctx context.Context, limit int) ([]contracts.SupplierBrief, error) {
	query := briefSelect + `
		WHERE s.status = 'Active'
		ORDER BY s.iso_compliance_score DESC, s.id
		LIMIT $1`
	return collect(ctx, r.pool, "top performers", query, scanBrief, listLimit(limit))
}

// NeedingAttention returns weak, audit-overdue or category A suppliers; overdue first
func (r *AnalyticsRepository) NeedingAttention(ctx context.Context, limit int) ([]contracts.SupplierBrief, error) {
	query := briefSelect + `
		WHERE s.status = 'Active'
		  AND (s.iso_compliance_score < 75
		       OR s.next_audit_due < CURRENT_DATE
		       OR s.risk_category = 'A')
		ORDER BY
			(s.next_audit_due IS NOT NULL AND s.next_audit_due < CURRENT_DATE) DESC,
			s.iso_compliance_score ASC,
			s.risk_category DESC,
			s.id
		LIMIT $1`
	return collect(ctx, r.pool, "suppliers needing attention", query, scanBrief, listLimit(limit))
}

func listLimit(limit int) int {
	if limit <= 0 {
		return 5
	}
	return limit
}

// IssueSignals reads the inputs of the predicted-issues list
func (r *AnalyticsRepository) IssueSignals(ctx context.Context) (*contracts.IssueSignals, error) {
	low, err := collect(ctx, r.pool, "low score suppliers", briefSelect+`
		WHERE s.status = 'Active' AND s.iso_compliance_score < 70
		ORDER BY s.iso_compliance_score ASC, s.id
		LIMIT 3`, scanBrief)
	if err != nil {
		return nil, err
	}

	signals := &contracts.IssueSignals{LowScoreSuppliers: low}
	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM assessments a JOIN suppliers s ON a.supplier_id = s.id
			  WHERE a.scheduled_date < CURRENT_DATE
			    AND a.status IN ('Scheduled', 'In_Progress')
			    AND s.status = 'Active'),
			(SELECT COUNT(*) FROM documents d JOIN suppliers s ON d.supplier_id = s.id
			  WHERE d.expiry_date BETWEEN CURRENT_DATE AND CURRENT_DATE + 30
			    AND d.type = 'Certificate'
			    AND d.status = 'Valid'
			    AND s.status = 'Active'),
			(SELECT COUNT(*) FROM corrective_actions
			  WHERE status IN ('Assigned', 'In_Progress'))
	`).Scan(&signals.OverdueAssessments, &signals.ExpiringCertificates, &signals.OpenCapas)
	if err != nil {
		return nil, fmt.Errorf("failed to query issue signals: %w", err)
	}
	return signals, nil
}

// DocumentStatistics groups every document by type, expired ones included
func (r *AnalyticsRepository) DocumentStatistics(ctx context.Context) ([]contracts.DocumentTypeStat, error) {
	query := `
		SELECT
			type,
			COUNT(*) AS doc_count,
			COUNT(*) FILTER (WHERE status = 'Valid'),
			COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date <= CURRENT_DATE + 30),
			COALESCE(AVG(expiry_date - CURRENT_DATE), 0)::float8
		FROM documents
		GROUP BY type
		ORDER BY doc_count DESC, type
	`

	return collect(ctx, r.pool, "document statistics", query,
		func(row pgx.CollectableRow) (contracts.DocumentTypeStat, error) {
			var d contracts.DocumentTypeStat
			err := row.Scan(&d.Type, &d.Count, &d.ValidCount, &d.ExpiringCount, &d.AvgDaysUntilExpiry)
			return d, err
		})
}

// =============================================================================
// Realtime
// =============================================================================

// Realtime reads the live alert counters and indicators
func (r *AnalyticsRepository) Realtime(ctx context.Context) (*contracts.RealtimeSnapshot, error) {
	var snap contracts.RealtimeSnapshot
	a := &snap.Alerts
	p := &snap.Indicators

	err := r.pool.QueryRow(ctx, `
		SELECT
			NOW(),
			(SELECT COUNT(*) FROM activity_log WHERE created_at >= NOW() - INTERVAL '5 minutes'),
			(SELECT COUNT(*) FROM documents d JOIN suppliers s ON d.supplier_id = s.id
			  WHERE s.status = 'Active' AND d.type = 'Certificate' AND d.status = 'Valid'
			    AND d.expiry_date <= CURRENT_DATE),
			(SELECT COUNT(*) FROM suppliers
			  WHERE status = 'Active' AND next_audit_due <= CURRENT_DATE),
			(SELECT COUNT(*) FROM corrective_actions ca JOIN suppliers s ON ca.supplier_id = s.id
			  WHERE s.status = 'Active' AND ca.status IN ('Assigned', 'In_Progress')
			    AND ca.due_date <= CURRENT_DATE),
			(SELECT COUNT(*) FROM suppliers
			  WHERE status = 'Active' AND iso_compliance_score < 60),
			(SELECT COALESCE(AVG(iso_compliance_score), 0) FROM suppliers WHERE status = 'Active'),
			(SELECT COUNT(*) FROM suppliers WHERE status = 'Active'),
			(SELECT COUNT(*) FROM suppliers WHERE status = 'Active' AND business_critical)
	`).Scan(&snap.DatabaseTime, &snap.RecentActivityCount,
		&a.ExpiredCertificates, &a.OverdueAudits, &a.OverdueCapas, &a.CriticalCompliance,
		&p.AvgComplianceToday, &p.TotalActiveSuppliers, &p.CriticalSuppliers)
	if err != nil {
		return nil, fmt.Errorf("failed to query realtime metrics: %w", err)
	}
	return &snap, nil
}

// =============================================================================
// Supplier report
// =============================================================================

// SupplierReport returns every supplier matching the filter with certification
// and primary contact columns. Paging is not applied; reports are complete.
func (r *AnalyticsRepository) SupplierReport(ctx context.Context, filter contracts.SupplierFilter) ([]contracts.SupplierReportRow, error) {
	w := supplierWhere(filter)

	query := strings.Join([]string{
		`SELECT ` + supplierColumns + `,` + supplierAggregates + `,
			COALESCE(ss.cnt, 0),
			COALESCE(c.names, ''),
			COALESCE(c.emails, '')
		FROM suppliers s` + supplierAggregateJoins + `
		LEFT JOIN (
			SELECT supplier_id, COUNT(*) AS cnt FROM supplier_standards GROUP BY supplier_id
		) ss ON ss.supplier_id = s.id
		LEFT JOIN (
			SELECT supplier_id,
				string_agg(DISTINCT name, ',') AS names,
				string_agg(DISTINCT NULLIF(email, ''), ',') AS emails
			FROM contacts
			WHERE is_primary
			GROUP BY supplier_id
		) c ON c.supplier_id = s.id`,
		w.sql(),
		"ORDER BY s.iso_compliance_score DESC, s.id",
	}, "\n")

	return collect(ctx, r.pool, "supplier report", query,
		func(row pgx.CollectableRow) (contracts.SupplierReportRow, error) {
			var rr contracts.SupplierReportRow
			dest := append(supplierDest(&rr.SupplierRecord),
				&rr.DocumentCount, &rr.OpenCapaCount, &rr.DaysUntilAudit,
				&rr.CertificationCount, &rr.Contacts, &rr.ContactEmails)
			err := row.Scan(dest...)
			return rr, err
		},
		w.args...)
}

package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/SKuytov/SVP/internal/contracts"
)

// AssessmentPerformance groups the last 12 months of assessments by type and method
func (r *AnalyticsRepository) AssessmentPerformance(ctx context.Context) ([]contracts.AssessmentPerformance, error) {
	query := `
		SELECT
			a.assessment_type,
			a.assessment_method,
			COUNT(*),
			COALESCE(AVG(a.compliance_percentage), 0) AS avg_score,
			COALESCE(MIN(a.compliance_percentage), 0),
			COALESCE(MAX(a.compliance_percentage), 0),
			COALESCE(AVG(a.actual_duration_hours), 0),
			COUNT(*) FILTER (WHERE a.assessment_result = 'Pass'),
			COUNT(*) FILTER (WHERE a.status = 'Completed')
		FROM assessments a
		JOIN suppliers s ON a.supplier_id = s.id
		WHERE a.scheduled_date >= CURRENT_DATE - INTERVAL '12 months'
		  AND s.status = 'Active'
		GROUP BY 1, 2
		ORDER BY avg_score DESC, 1, 2
	`

	return collect(ctx, r.pool, "assessment performance", query,
		func(row pgx.CollectableRow) (contracts.AssessmentPerformance, error) {
			var p contracts.AssessmentPerformance
			err := row.Scan(&p.AssessmentType, &p.AssessmentMethod, &p.TotalAssessments, &p.AvgScore,
				&p.MinScore, &p.MaxScore, &p.AvgDuration, &p.PassedCount, &p.CompletedCount)
			return p, err
		})
}

// FindingPatterns groups findings of the last 12 months by category and severity.
// Open findings age up to today.
func (r *AnalyticsRepository) FindingPatterns(ctx context.Context) ([]contracts.FindingPattern, error) {
	query := `
		SELECT
			f.category,
			f.severity,
			COUNT(*) AS finding_count,
			COUNT(*) FILTER (WHERE f.status = 'Open'),
			COUNT(*) FILTER (WHERE f.status = 'Closed'),
			COALESCE(AVG(COALESCE(f.actual_close_date, CURRENT_DATE) - a.completed_date), 0)::float8
		FROM findings f
		JOIN assessments a ON f.assessment_id = a.id
		WHERE a.completed_date >= CURRENT_DATE - INTERVAL '12 months'
		GROUP BY 1, 2
		ORDER BY finding_count DESC, 1, 2
	`

	return collect(ctx, r.pool, "finding patterns", query,
		func(row pgx.CollectableRow) (contracts.FindingPattern, error) {
			var p contracts.FindingPattern
			err := row.Scan(&p.Category, &p.Severity, &p.FindingCount, &p.OpenCount, &p.ClosedCount, &p.AvgResolutionDays)
			return p, err
		})
}

// AssessorPerformance summarises assessors with at least 3 assessments in 12 months
func (r *AnalyticsRepository) AssessorPerformance(ctx context.Context) ([]contracts.AssessorPerformance, error) {
	query := `
		SELECT
			TRIM(u.first_name || ' ' || u.last_name),
			COUNT(a.id),
			COALESCE(AVG(a.compliance_percentage), 0) AS avg_score,
			COALESCE(AVG(a.actual_duration_hours), 0),
			COUNT(*) FILTER (WHERE a.assessment_result = 'Pass')
		FROM assessments a
		JOIN users u ON a.assessor_id = u.id
		WHERE a.completed_date >= CURRENT_DATE - INTERVAL '12 months'
		GROUP BY a.assessor_id, u.first_name, u.last_name
		HAVING COUNT(a.id) >= 3
		ORDER BY avg_score DESC, a.assessor_id
	`

	return collect(ctx, r.pool, "assessor performance", query,
		func(row pgx.CollectableRow) (contracts.AssessorPerformance, error) {
			var p contracts.AssessorPerformance
			err := row.Scan(&p.Name, &p.AssessmentsConducted, &p.AvgScoreAssigned, &p.AvgDuration, &p.PassCount)
			return p, err
		})
}

// FindingSummary counts findings of the last 12 months by severity and category
func (r *AnalyticsRepository) FindingSummary(ctx context.Context) ([]contracts.FindingSummaryRow, error) {
	query := `
		SELECT
			f.severity,
			f.category,
			COUNT(*) AS cnt,
			COUNT(*) FILTER (WHERE f.status = 'Open')
		FROM findings f
		JOIN assessments a ON f.assessment_id = a.id
		WHERE a.completed_date >= CURRENT_DATE - INTERVAL '12 months'
		GROUP BY 1, 2
		ORDER BY 1, cnt DESC, 2
	`

	return collect(ctx, r.pool, "finding summary", query,
		func(row pgx.CollectableRow) (contracts.FindingSummaryRow, error) {
			var s contracts.FindingSummaryRow
			err := row.Scan(&s.Severity, &s.Category, &s.Count, &s.OpenCount)
			return s, err
		})
}

// AssessmentReport lists assessments scheduled inside the period with finding counts
func (r *AnalyticsRepository) AssessmentReport(ctx context.Context, period contracts.DateRange) ([]contracts.AssessmentReportRow, error) {
	w := &whereBuilder{}
	if period.From != nil {
		w.add("a.scheduled_date >= %s", *period.From)
	}
	if period.To != nil {
		w.add("a.scheduled_date <= %s", *period.To)
	}

	query := strings.Join([]string{`
		SELECT
			a.id,
			s.name,
			a.assessment_type,
			COALESCE(st.name, ''),
			a.status,
			a.scheduled_date,
			a.completed_date,
			a.compliance_percentage,
			COALESCE(a.assessment_result, ''),
			COALESCE(f.cnt, 0),
			COALESCE(f.open_cnt, 0)
		FROM assessments a
		JOIN suppliers s ON a.supplier_id = s.id
		LEFT JOIN standards st ON a.standard_id = st.id
		LEFT JOIN (
			SELECT assessment_id,
				COUNT(*) AS cnt,
				COUNT(*) FILTER (WHERE status = 'Open') AS open_cnt
			FROM findings
			GROUP BY assessment_id
		) f ON f.assessment_id = a.id`,
		w.sql(),
		"ORDER BY a.scheduled_date DESC NULLS LAST, a.id",
	}, "\n")

	return collect(ctx, r.pool, "assessment report", query,
		func(row pgx.CollectableRow) (contracts.AssessmentReportRow, error) {
			var a contracts.AssessmentReportRow
			err := row.Scan(&a.AssessmentID, &a.SupplierName, &a.AssessmentType, &a.StandardName, &a.Status,
				&a.ScheduledDate, &a.CompletedDate, &a.CompliancePercentage, &a.Result,
				&a.FindingCount, &a.OpenFindings)
			return a, err
		},
		w.args...)
}

package analytics

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/risk"
	"github.com/SKuytov/SVP/internal/stats"
)

// =============================================================================
// Executive status decision table (pure)
// =============================================================================

// Executive status labels
const (
	StatusCritical = "critical"
	StatusWarning  = "warning"
	StatusGood     = "good"
)

// ExecutiveStatus evaluates critical first and short-circuits
func ExecutiveStatus(compliancePct, avgScore float64, overdueAudits, expiringSoon int) string {
	if compliancePct < 60 || avgScore < 70 || overdueAudits > 5 {
		return StatusCritical
	}
	if compliancePct < 75 || avgScore < 80 || expiringSoon > 10 {
		return StatusWarning
	}
	return StatusGood
}

// =============================================================================
// KPI
// =============================================================================

const bytesPerMB = 1024 * 1024

// BuildKPI flattens the raw dashboard counters.
// compliancePercentage = compliant/total*100 rounded to 1 decimal (0 without suppliers).
func BuildKPI(c contracts.DashboardCounts) KPI {
	var pct float64
	if c.Suppliers.Total > 0 {
		pct = stats.Round(float64(c.Suppliers.Compliant)/float64(c.Suppliers.Total)*100, 1)
	}

	return KPI{
		TotalSuppliers:       c.Suppliers.Total,
		CompliantSuppliers:   c.Suppliers.Compliant,
		CompliancePercentage: pct,
		AvgComplianceScore:   stats.Round(c.Suppliers.AvgComplianceScore, 1),
		HighRiskSuppliers:    c.Suppliers.HighRisk,
		MediumRiskSuppliers:  c.Suppliers.MediumRisk,
		LowRiskSuppliers:     c.Suppliers.LowRisk,
		ActiveSuppliers:      c.Suppliers.Active,
		CriticalSuppliers:    c.Suppliers.Critical,
		PreferredSuppliers:   c.Suppliers.Preferred,
		OverdueAudits:        c.Suppliers.OverdueAudits,
		TotalDocuments:       c.Documents.Total,
		ValidDocuments:       c.Documents.Valid,
		ExpiredDocuments:     c.Documents.Expired,
		ExpiringSoon:         c.Documents.ExpiringSoon,
		Expiring90Days:       c.Documents.Expiring90Days,
		TotalCertificates:    c.Documents.Certificates,
		StorageUsedMB:        stats.Round(float64(c.Documents.TotalFileBytes)/bytesPerMB, 2),
		TotalAssessments:     c.Assessments.Total,
		CompletedAssessments: c.Assessments.Completed,
		UpcomingAssessments:  c.Assessments.Upcoming,
		OverdueAssessments:   c.Assessments.Overdue,
		AvgAssessmentScore:   stats.Round(c.Assessments.AvgScore, 1),
		TotalCapas:           c.Capas.Total,
		OpenCapas:            c.Capas.Open,
		CompletedCapas:       c.Capas.Completed,
		OverdueCapas:         c.Capas.Overdue,
		CriticalCapas:        c.Capas.Critical,
		TotalAnnualSpend:     decimal.NewFromFloat(c.Suppliers.TotalAnnualSpend).StringFixed(2),
		ActiveUsers:          c.ActiveUsers,
	}
}

// RiskSplit is the dashboard risk distribution block
func RiskSplit(k KPI) RiskCounts {
	return RiskCounts{High: k.HighRiskSuppliers, Medium: k.MediumRiskSuppliers, Low: k.LowRiskSuppliers}
}

// HealthFromKPI feeds the KPI counters into the compliance health score
func HealthFromKPI(k KPI) risk.HealthBreakdown {
	return risk.HealthScore(risk.HealthInput{
		TotalSuppliers:     k.TotalSuppliers,
		CompliantSuppliers: k.CompliantSuppliers,
		LowRiskSuppliers:   k.LowRiskSuppliers,
		AvgComplianceScore: k.AvgComplianceScore,
		TotalDocuments:     k.TotalDocuments,
		ValidDocuments:     k.ValidDocuments,
	})
}

// =============================================================================
// Executive summary
// =============================================================================

// Recommendation texts
const (
	RecommendTargetedAssessments = "Focus on improving supplier compliance through targeted assessments"
	RecommendDiversification     = "Consider supplier diversification to reduce risk concentration"
	RecommendRenewalAlerts       = "Implement proactive certificate renewal notification system"
)

// BuildExecutiveSummary composes status, key metrics, concerns and recommendations
func BuildExecutiveSummary(k KPI) ExecutiveSummary {
	s := ExecutiveSummary{
		OverallStatus: ExecutiveStatus(k.CompliancePercentage, k.AvgComplianceScore, k.OverdueAudits, k.ExpiringSoon),
		KeyMetrics: []string{
			fmt.Sprintf("Total suppliers under management: %d", k.TotalSuppliers),
			fmt.Sprintf("Overall compliance rate: %s%%", formatNumber(k.CompliancePercentage)),
			fmt.Sprintf("Average compliance score: %s%%", formatNumber(k.AvgComplianceScore)),
			fmt.Sprintf("High-risk suppliers: %d", k.HighRiskSuppliers),
		},
		MainConcerns:    []string{},
		Recommendations: []string{},
	}

	if k.OverdueAudits > 0 {
		s.MainConcerns = append(s.MainConcerns, fmt.Sprintf("%d supplier audits are overdue", k.OverdueAudits))
	}
	if k.ExpiringSoon > 0 {
		s.MainConcerns = append(s.MainConcerns, fmt.Sprintf("%d certificates expire within 30 days", k.ExpiringSoon))
	}
	if k.OverdueCapas > 0 {
		s.MainConcerns = append(s.MainConcerns, fmt.Sprintf("%d corrective actions are overdue", k.OverdueCapas))
	}

	if k.CompliancePercentage < 80 {
		s.Recommendations = append(s.Recommendations, RecommendTargetedAssessments)
	}
	if float64(k.HighRiskSuppliers) > float64(k.TotalSuppliers)*0.2 {
		s.Recommendations = append(s.Recommendations, RecommendDiversification)
	}
	if k.ExpiringSoon > 5 {
		s.Recommendations = append(s.Recommendations, RecommendRenewalAlerts)
	}

	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// Business insights & predicted issues
// =============================================================================

// BuildInsights computes the dashboard ratios over max(denominator, 1)
func BuildInsights(k KPI, issues []PredictedIssue) BusinessInsights {
	trend := "needs_attention"
	if k.AvgComplianceScore > 80 {
		trend = "improving"
	}

	if issues == nil {
		issues = []PredictedIssue{}
	}

	return BusinessInsights{
		ComplianceTrend:    trend,
		RiskExposure:       stats.Round(stats.Ratio(k.HighRiskSuppliers, k.TotalSuppliers), 1),
		AuditEfficiency:    stats.Round(stats.Ratio(k.CompletedAssessments, k.TotalAssessments), 1),
		DocumentHealth:     stats.Round(stats.Ratio(k.ValidDocuments, k.TotalDocuments), 1),
		CapaCompletionRate: stats.Round(stats.Ratio(k.CompletedCapas, k.TotalCapas), 1),
		PredictedIssues:    issues,
	}
}

// maxLowScoreIssues caps the compliance-risk entries
const maxLowScoreIssues = 3

// openCapaIssueThreshold is the open CAPA count above which an issue is raised
const openCapaIssueThreshold = 10

// PredictIssues turns the raw issue signals into warnings
func PredictIssues(sig contracts.IssueSignals) []PredictedIssue {
	issues := make([]PredictedIssue, 0)

	for i, s := range sig.LowScoreSuppliers {
		if i >= maxLowScoreIssues {
			break
		}
		issues = append(issues, PredictedIssue{
			Type:           "compliance_risk",
			Severity:       "high",
			Message:        fmt.Sprintf("Supplier '%s' has low compliance score (%s%%)", s.Name, formatNumber(s.ComplianceScore)),
			Recommendation: "Schedule immediate assessment and develop corrective action plan",
		})
	}

	if sig.OverdueAssessments > 0 {
		issues = append(issues, PredictedIssue{
			Type:           "overdue_assessments",
			Severity:       "medium",
			Message:        fmt.Sprintf("%d assessments are overdue", sig.OverdueAssessments),
			Recommendation: "Review and reschedule overdue assessments immediately",
		})
	}

	if sig.ExpiringCertificates > 0 {
		issues = append(issues, PredictedIssue{
			Type:           "expiring_certificates",
			Severity:       "medium",
			Message:        fmt.Sprintf("%d certificates expire within 30 days", sig.ExpiringCertificates),
			Recommendation: "Contact suppliers to initiate certificate renewal process",
		})
	}

	if sig.OpenCapas > openCapaIssueThreshold {
		issues = append(issues, PredictedIssue{
			Type:           "high_capa_count",
			Severity:       "medium",
			Message:        fmt.Sprintf("%d corrective actions are still open", sig.OpenCapas),
			Recommendation: "Review CAPA completion timeline and escalate overdue items",
		})
	}

	return issues
}

package report

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/scoring"
	"github.com/SKuytov/SVP/internal/stats"
)

// =============================================================================
// Compliance analytics report
// =============================================================================

func (g *Generator) compliance(ctx context.Context, rep *Report, p Params) error {
	months := p.Months
	if months <= 0 {
		months = g.complianceMonths
	}

	trends, err := g.store.ComplianceTrends(ctx, contracts.TrendWindow{Months: months, Granularity: contracts.GranularityMonth})
	if err != nil {
		return err
	}
	standards, err := g.store.StandardCompliance(ctx)
	if err != nil {
		return err
	}
	findings, err := g.store.FindingSummary(ctx)
	if err != nil {
		return err
	}

	trendTable := Table{
		Title:   "Compliance Trends",
		Columns: []string{"month", "avg_compliance", "supplier_count", "compliant_count", "compliance_status"},
	}
	for _, t := range trends {
		trendTable.Rows = append(trendTable.Rows, []interface{}{
			t.Period, stats.Round(t.AvgCompliance, 1), t.SupplierCount, t.CompliantCount,
			string(scoring.ComplianceStatusLenient(t.AvgCompliance)),
		})
	}

	var certified, covered int
	standardTable := Table{
		Title:   "Standards Compliance",
		Columns: []string{"standard_name", "standard_type", "total_suppliers", "certified_count", "expired_count", "avg_compliance"},
	}
	for _, s := range standards {
		standardTable.Rows = append(standardTable.Rows, []interface{}{
			s.StandardName, s.StandardType, s.TotalSuppliers, s.CertifiedSuppliers, s.ExpiredCount,
			stats.Round(s.AvgCompliance, 1),
		})
		certified += s.CertifiedSuppliers
		covered += s.TotalSuppliers
	}

	var totalFindings, openFindings int
	findingTable := Table{
		Title:   "Findings Analysis",
		Columns: []string{"severity", "category", "count", "open_count"},
	}
	for _, f := range findings {
		findingTable.Rows = append(findingTable.Rows, []interface{}{f.Severity, f.Category, f.Count, f.OpenCount})
		totalFindings += f.Count
		openFindings += f.OpenCount
	}

	var latest float64
	if len(trends) > 0 {
		latest = stats.Round(trends[len(trends)-1].AvgCompliance, 1)
	}

	rep.Parameters["months"] = strconv.Itoa(months)
	rep.Sections = []Table{trendTable, standardTable, findingTable}
	rep.Summary = []Field{
		{"periods_covered", len(trends)},
		{"latest_avg_compliance", latest},
		{"overall_trend", stats.TrendDirection(trends)},
		{"volatility", stats.Round(stats.Volatility(trends), 2)},
		{"standards_tracked", len(standards)},
		{"certification_coverage", stats.Round(stats.Ratio(certified, covered), 1)},
		{"total_findings", totalFindings},
		{"open_findings", openFindings},
	}
	return nil
}

// =============================================================================
// Risk analysis report
// =============================================================================

func (g *Generator) risk(ctx context.Context, rep *Report) error {
	distribution, err := g.store.RiskDistribution(ctx)
	if err != nil {
		return err
	}
	highRisk, err := g.store.HighRiskSuppliers(ctx)
	if err != nil {
		return err
	}

	var active int
	distTable := Table{
		Title:   "Risk Distribution",
		Columns: []string{"risk_category", "supplier_count", "avg_compliance", "avg_spend", "critical_suppliers"},
	}
	for _, d := range distribution {
		distTable.Rows = append(distTable.Rows, []interface{}{
			string(d.RiskCategory), d.SupplierCount, stats.Round(d.AvgCompliance, 1),
			stats.Round(d.AvgSpend, 2), d.CriticalSuppliers,
		})
		active += d.SupplierCount
	}

	var (
		categoryA, critical, overdue int
		spendAtRisk                  = decimal.Zero
	)
	highTable := &Table{
		Title: "High-Risk Suppliers",
		Columns: []string{
			"id", "name", "risk_category", "iso_compliance_score", "annual_spend_eur", "business_critical",
			"open_capas", "expiring_docs", "days_until_audit", "risk_level", "risk_score",
		},
		Rows: make([][]interface{}, 0, len(highRisk)),
	}
	for _, r := range highRisk {
		overdueAudit := scoring.IsAuditOverdue(r.DaysUntilAudit)
		highTable.Rows = append(highTable.Rows, []interface{}{
			r.SupplierID, r.Name, string(r.RiskCategory), r.ComplianceScore, r.AnnualSpend, r.BusinessCritical,
			r.OpenCapas, r.ExpiringDocs, intCell(r.DaysUntilAudit),
			string(scoring.ClassifyReportRisk(r.RiskCategory, r.ComplianceScore)),
			stats.RiskScore(r),
		})

		if r.RiskCategory == contracts.RiskCategoryA {
			categoryA++
		}
		if r.BusinessCritical {
			critical++
		}
		if overdueAudit {
			overdue++
		}
		spendAtRisk = spendAtRisk.Add(decimal.NewFromFloat(r.AnnualSpend))
	}

	recTable := Table{
		Title:   "Recommendations",
		Columns: []string{"supplier_id", "name", "priority", "risk_score", "actions"},
	}
	for _, m := range stats.MitigationPriorities(highRisk) {
		recTable.Rows = append(recTable.Rows, []interface{}{
			m.SupplierID, m.Name, m.Priority, m.RiskScore, strings.Join(m.Reasons, "; "),
		})
	}

	rep.Data = highTable
	rep.Sections = []Table{distTable, recTable}
	rep.Summary = []Field{
		{"total_active_suppliers", active},
		{"high_risk_suppliers", len(highRisk)},
		{"category_a_suppliers", categoryA},
		{"business_critical_at_risk", critical},
		{"overdue_audits", overdue},
		{"spend_at_risk", spendAtRisk.StringFixed(2)},
		{"risk_exposure", stats.Round(stats.Ratio(len(highRisk), active), 1)},
	}
	return nil
}

// =============================================================================
// Executive dashboard report
// =============================================================================

func (g *Generator) executive(ctx context.Context, rep *Report) error {
	counts, err := g.store.DashboardCounts(ctx)
	if err != nil {
		return err
	}

	kpi := analytics.BuildKPI(*counts)
	health := analytics.HealthFromKPI(kpi)
	summary := analytics.BuildExecutiveSummary(kpi)

	kpiTable := Table{
		Title:   "Key Performance Indicators",
		Columns: []string{"metric", "value"},
		Rows: [][]interface{}{
			{"Total suppliers", kpi.TotalSuppliers},
			{"Compliant suppliers", kpi.CompliantSuppliers},
			{"Compliance percentage", kpi.CompliancePercentage},
			{"Average compliance score", kpi.AvgComplianceScore},
			{"High-risk suppliers", kpi.HighRiskSuppliers},
			{"Overdue audits", kpi.OverdueAudits},
			{"Valid documents", kpi.ValidDocuments},
			{"Certificates expiring within 30 days", kpi.ExpiringSoon},
			{"Completed assessments", kpi.CompletedAssessments},
			{"Open CAPAs", kpi.OpenCapas},
			{"Overdue CAPAs", kpi.OverdueCapas},
			{"Total annual spend", kpi.TotalAnnualSpend},
		},
	}

	rep.Sections = []Table{
		kpiTable,
		listTable("Key Metrics", summary.KeyMetrics),
		listTable("Main Concerns", summary.MainConcerns),
		listTable("Recommendations", summary.Recommendations),
	}
	rep.Summary = []Field{
		{"overall_status", summary.OverallStatus},
		{"compliance_health_score", health.Score},
		{"compliance_percentage", kpi.CompliancePercentage},
		{"avg_compliance_score", kpi.AvgComplianceScore},
		{"total_annual_spend", kpi.TotalAnnualSpend},
	}
	return nil
}

func listTable(title string, items []string) Table {
	t := Table{Title: title, Columns: []string{"item"}}
	for _, it := range items {
		t.Rows = append(t.Rows, []interface{}{it})
	}
	return t
}

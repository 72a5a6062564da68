package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/stats"
)

// =============================================================================
// Supplier performance
// =============================================================================

// SupplierPerformance builds the supplier-performance bundle.
// With req.SupplierID set it returns the single-supplier detail and history.
func (a *Assembler) SupplierPerformance(ctx context.Context, req Request) (*SupplierPerformanceBundle, error) {
	if req.SupplierID != nil {
		return a.supplierPerformanceDetail(ctx, req)
	}

	rows, err := a.store.SupplierPerformance(ctx, req.Months)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier performance: %w", err)
	}

	ranked := a.engine.RankByPerformance(rows)
	distribution := stats.Distribution(ranked)

	n := a.settings.RankingSize
	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]contracts.SupplierPerformanceRow, n)
	copy(top, ranked[:n])

	under := make([]contracts.SupplierPerformanceRow, 0, n)
	for i := len(ranked) - 1; i >= 0 && len(under) < n; i-- {
		under = append(under, ranked[i])
	}

	return &SupplierPerformanceBundle{
		Meta:            a.meta(req, "Supplier Performance"),
		Rankings:        ranked,
		Distribution:    &distribution,
		TopPerformers:   top,
		Underperformers: under,
	}, nil
}

func (a *Assembler) supplierPerformanceDetail(ctx context.Context, req Request) (*SupplierPerformanceBundle, error) {
	detail, err := a.store.SupplierPerformanceDetail(ctx, *req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier %d performance: %w", *req.SupplierID, err)
	}

	history, err := a.store.PerformanceHistory(ctx, *req.SupplierID, req.Months)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier %d history: %w", *req.SupplierID, err)
	}

	points := make([]contracts.ComplianceTrendPoint, len(history))
	for i, h := range history {
		points[i] = contracts.ComplianceTrendPoint{Period: h.Month, AvgCompliance: h.AvgScore}
	}

	return &SupplierPerformanceBundle{
		Meta:         a.meta(req, "Supplier Performance"),
		Detail:       detail,
		History:      nonNil(history),
		HistoryTrend: stats.TrendDirection(points),
	}, nil
}

// =============================================================================
// Certificates
// =============================================================================

// CertificateAnalytics builds the certificate-analytics bundle
func (a *Assembler) CertificateAnalytics(ctx context.Context, req Request) (*CertificateAnalyticsBundle, error) {
	certStats, err := a.store.CertificateStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate stats: %w", err)
	}

	standards, err := a.store.StandardCompliance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load standard compliance: %w", err)
	}

	renewals, err := a.store.RenewalPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load renewal patterns: %w", err)
	}

	return &CertificateAnalyticsBundle{
		Meta:               a.meta(req, "Certificate Analytics"),
		CertificateStats:   nonNil(certStats),
		StandardCompliance: nonNil(standards),
		RenewalPatterns:    nonNil(renewals),
		ExpiryForecast:     expiryForecast(certStats),
		ComplianceGaps:     complianceGaps(standards),
	}, nil
}

func expiryForecast(rows []contracts.CertificateStat) ExpiryForecast {
	var f ExpiryForecast
	for _, r := range rows {
		f.Next30Days += r.Expiring30Days
		f.Next90Days += r.Expiring90Days
		f.AlreadyValid += r.ValidCount
		f.Expired += r.ExpiredCount
	}
	return f
}

// complianceGaps lists standards below full coverage or with expired certificates,
// lowest coverage first.
func complianceGaps(rows []contracts.StandardCompliance) []ComplianceGap {
	gaps := make([]ComplianceGap, 0)
	for _, r := range rows {
		if r.TotalSuppliers == 0 {
			continue
		}
		coverage := stats.Round(stats.Ratio(r.CertifiedSuppliers, r.TotalSuppliers), 1)
		if coverage >= 100 && r.ExpiredCount == 0 {
			continue
		}
		gaps = append(gaps, ComplianceGap{
			StandardName:     r.StandardName,
			CoveragePct:      coverage,
			UncertifiedCount: r.TotalSuppliers - r.CertifiedSuppliers,
			ExpiredCount:     r.ExpiredCount,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].CoveragePct < gaps[j].CoveragePct })
	return gaps
}

// =============================================================================
// Assessments
// =============================================================================

// AssessmentInsights builds the assessment-insights bundle
func (a *Assembler) AssessmentInsights(ctx context.Context, req Request) (*AssessmentInsightsBundle, error) {
	perf, err := a.store.AssessmentPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment performance: %w", err)
	}

	findings, err := a.store.FindingPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load finding patterns: %w", err)
	}

	assessors, err := a.store.AssessorPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessor performance: %w", err)
	}

	return &AssessmentInsightsBundle{
		Meta:                     a.meta(req, "Assessment Insights"),
		AssessmentPerformance:    nonNil(perf),
		FindingPatterns:          nonNil(findings),
		AssessorPerformance:      nonNil(assessors),
		Effectiveness:            effectiveness(perf, findings),
		ImprovementOpportunities: improvements(perf, findings),
	}, nil
}

func effectiveness(perf []contracts.AssessmentPerformance, findings []contracts.FindingPattern) EffectivenessMetrics {
	var total, completed, passed, open, allFindings int
	var weighted float64

	for _, p := range perf {
		total += p.TotalAssessments
		completed += p.CompletedCount
		passed += p.PassedCount
		weighted += p.AvgScore * float64(p.TotalAssessments)
	}
	for _, f := range findings {
		open += f.OpenCount
		allFindings += f.FindingCount
	}

	var avg float64
	if total > 0 {
		avg = weighted / float64(total)
	}

	return EffectivenessMetrics{
		TotalAssessments: total,
		CompletionRate:   stats.Round(stats.Ratio(completed, total), 1),
		PassRate:         stats.Round(stats.Ratio(passed, completed), 1),
		AvgScore:         stats.Round(avg, 1),
		OpenFindingRate:  stats.Round(stats.Ratio(open, allFindings), 1),
	}
}

// weakAssessmentScore 개선 대상 평가 유형 기준
const weakAssessmentScore = 75

func improvements(perf []contracts.AssessmentPerformance, findings []contracts.FindingPattern) []string {
	out := make([]string, 0)
	for _, p := range perf {
		if p.TotalAssessments > 0 && p.AvgScore < weakAssessmentScore {
			out = append(out, fmt.Sprintf("%s assessments (%s) average %.1f%%: review criteria and supplier preparation",
				p.AssessmentType, p.AssessmentMethod, p.AvgScore))
		}
	}
	for _, f := range findings {
		if f.OpenCount > f.ClosedCount {
			out = append(out, fmt.Sprintf("%s findings (%s): %d open vs %d closed, prioritise closure",
				f.Category, f.Severity, f.OpenCount, f.ClosedCount))
		}
	}
	return out
}

// =============================================================================
// Spend
// =============================================================================

// SpendAnalysis builds the spend-analysis bundle
func (a *Assembler) SpendAnalysis(ctx context.Context, req Request) (*SpendAnalysisBundle, error) {
	byCategory, err := a.store.SpendByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load spend by category: %w", err)
	}

	efficiency, err := a.store.SpendEfficiency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load spend efficiency: %w", err)
	}

	matrix, total := spendRiskMatrix(byCategory)

	return &SpendAnalysisBundle{
		Meta:                      a.meta(req, "Spend Analysis"),
		SpendByCategory:           nonNil(byCategory),
		SpendEfficiency:           a.engine.RankBySpendEfficiency(efficiency, a.settings.EfficiencyLimit),
		SpendRiskMatrix:           matrix,
		OptimizationOpportunities: spendOpportunities(efficiency),
		TotalSpend:                total,
	}, nil
}

// spendRiskMatrix sums spend per risk category with exact decimal arithmetic
func spendRiskMatrix(rows []contracts.SpendCategoryRow) ([]SpendRiskCell, decimal.Decimal) {
	cells := make(map[contracts.RiskCategory]*SpendRiskCell)
	grand := decimal.Zero

	for _, r := range rows {
		c, ok := cells[r.RiskCategory]
		if !ok {
			c = &SpendRiskCell{RiskCategory: r.RiskCategory, TotalSpend: decimal.Zero, CriticalSpend: decimal.Zero}
			cells[r.RiskCategory] = c
		}
		spend := decimal.NewFromFloat(r.TotalSpend)
		c.SupplierCount += r.SupplierCount
		c.TotalSpend = c.TotalSpend.Add(spend)
		c.CriticalSpend = c.CriticalSpend.Add(decimal.NewFromFloat(r.CriticalSpend))
		grand = grand.Add(spend)
	}

	out := make([]SpendRiskCell, 0, len(cells))
	for _, c := range cells {
		if grand.IsPositive() {
			share, _ := c.TotalSpend.Div(grand).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			c.SharePct = share
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RiskCategory < out[j].RiskCategory })
	return out, grand.Round(2)
}

// Spend optimization thresholds
const (
	opportunityMinSpend      = 100_000
	opportunityWeakScore     = 75
	opportunityCriticalScore = 60
)

func spendOpportunities(rows []contracts.SpendEfficiencyRow) []SpendOpportunity {
	out := make([]SpendOpportunity, 0)
	for _, r := range rows {
		if r.AnnualSpend < opportunityMinSpend || r.ComplianceScore >= opportunityWeakScore {
			continue
		}
		suggestion := "Agree a compliance improvement plan before contract renewal"
		if r.ComplianceScore < opportunityCriticalScore {
			suggestion = "Evaluate alternative suppliers for this spend"
		}
		out = append(out, SpendOpportunity{
			SupplierID:      r.SupplierID,
			Name:            r.Name,
			AnnualSpend:     r.AnnualSpend,
			ComplianceScore: r.ComplianceScore,
			Suggestion:      suggestion,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].AnnualSpend > out[j].AnnualSpend })
	return out
}

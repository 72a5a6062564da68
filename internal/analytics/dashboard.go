package analytics

import (
	"context"
	"fmt"
)

// typeDashboard is the cache selector of the dashboard payload
const typeDashboard = "dashboard"

// Dashboard builds the /api/dashboard payload
func (a *Assembler) Dashboard(ctx context.Context) (*Dashboard, error) {
	req := a.normalize(Request{Type: typeDashboard, Months: a.settings.DashboardTrendMonths})
	return cached(ctx, a, req, a.buildDashboard)
}

func (a *Assembler) buildDashboard(ctx context.Context, req Request) (*Dashboard, error) {
	counts, err := a.store.DashboardCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}
	kpi := BuildKPI(*counts)

	trend, err := a.store.MonthlyScores(ctx, req.Months)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly scores: %w", err)
	}
	if len(trend) == 0 {
		// 이력 없음 → 필러 (기본 Noop)
		trend = a.filler.Fill(kpi.AvgComplianceScore)
	}

	top, err := a.store.TopPerformers(ctx, a.settings.DashboardListSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load top performers: %w", err)
	}

	attention, err := a.store.NeedingAttention(ctx, a.settings.DashboardListSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load suppliers needing attention: %w", err)
	}

	signals, err := a.store.IssueSignals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load issue signals: %w", err)
	}

	standards, err := a.store.StandardCompliance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load standards compliance: %w", err)
	}

	docs, err := a.store.DocumentStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document statistics: %w", err)
	}

	return &Dashboard{
		Meta:             a.meta(req, "Compliance Dashboard"),
		KPI:              kpi,
		Health:           HealthFromKPI(kpi),
		ComplianceTrend:  nonNil(trend),
		TopPerformers:    nonNil(top),
		NeedingAttention: nonNil(attention),
		RiskDistribution: RiskSplit(kpi),
		Standards:        nonNil(standards),
		Documents:        nonNil(docs),
		Insights:         BuildInsights(kpi, PredictIssues(*signals)),
		ExecutiveSummary: BuildExecutiveSummary(kpi),
	}, nil
}

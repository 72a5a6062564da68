package analytics

import (
	"context"
	"fmt"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/stats"
)

// ComplianceTrends builds the compliance-trends bundle
func (a *Assembler) ComplianceTrends(ctx context.Context, req Request) (*ComplianceTrendsBundle, error) {
	window := contracts.TrendWindow{Months: req.Months, Granularity: req.Granularity}

	trends, err := a.store.ComplianceTrends(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load compliance trends: %w", err)
	}

	categories, err := a.store.CategoryTrends(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load category trends: %w", err)
	}

	changes, err := a.store.ScoreChanges(ctx, a.settings.ScoreChangeMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to load score changes: %w", err)
	}

	return &ComplianceTrendsBundle{
		Meta:           a.meta(req, "Compliance Trends"),
		Trends:         nonNil(trends),
		CategoryTrends: nonNil(categories),
		ScoreChanges:   nonNil(changes),
		OverallTrend:   stats.TrendDirection(trends),
		Volatility:     stats.Round(stats.Volatility(trends), 2),
		Seasonal:       stats.SeasonalPatterns(trends),
	}, nil
}

// RiskAnalysis builds the risk-analysis bundle
func (a *Assembler) RiskAnalysis(ctx context.Context, req Request) (*RiskAnalysisBundle, error) {
	matrix, err := a.store.RiskMatrix(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk matrix: %w", err)
	}

	factors, err := a.store.RiskFactors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk factors: %w", err)
	}

	geo, err := a.store.GeographicRisk(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load geographic risk: %w", err)
	}

	return &RiskAnalysisBundle{
		Meta:                 a.meta(req, "Risk Analysis"),
		RiskMatrix:           nonNil(matrix),
		RiskFactors:          nonNil(factors),
		GeographicRisk:       nonNil(geo),
		RiskScores:           stats.RiskScores(factors),
		MitigationPriorities: stats.MitigationPriorities(factors),
	}, nil
}

// nonNil keeps empty collections as [] in JSON
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

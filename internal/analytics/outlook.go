package analytics

import (
	"context"
	"fmt"

	"github.com/SKuytov/SVP/internal/forecast"
	"github.com/SKuytov/SVP/internal/stats"
)

// Predictive builds the predictive bundle.
// Predictions are recomputed on every build and never persisted.
func (a *Assembler) Predictive(ctx context.Context, req Request) (*PredictiveBundle, error) {
	inputs, err := a.store.PredictionInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction inputs: %w", err)
	}

	predictions := a.predictor.BuildPredictions(inputs)
	atRisk := forecast.AtRisk(predictions)

	return &PredictiveBundle{
		Meta:               a.meta(req, "Predictive Analytics"),
		Predictions:        nonNil(predictions),
		AtRiskSuppliers:    atRisk,
		RecommendedActions: forecast.RecommendedActions(atRisk, inputs),
		Summary:            forecast.Summarize(predictions),
	}, nil
}

// Benchmarking builds the benchmarking bundle
func (a *Assembler) Benchmarking(ctx context.Context, req Request) (*BenchmarkingBundle, error) {
	scores, err := a.store.BenchmarkScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark scores: %w", err)
	}

	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.Score
	}

	return &BenchmarkingBundle{
		Meta:       a.meta(req, "Supplier Benchmarking"),
		Benchmarks: stats.Benchmarks(scores),
		Overall: stats.Benchmark{
			SupplierType:  "all",
			SupplierCount: len(values),
			Average:       stats.Round(stats.Mean(values), 2),
			P25:           stats.Round(stats.Percentile(values, 25), 2),
			Median:        stats.Round(stats.Percentile(values, 50), 2),
			P75:           stats.Round(stats.Percentile(values, 75), 2),
		},
	}, nil
}

// Realtime builds the realtime bundle (bypasses the cache)
func (a *Assembler) Realtime(ctx context.Context, req Request) (*RealtimeBundle, error) {
	snap, err := a.store.Realtime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load realtime metrics: %w", err)
	}

	ind := snap.Indicators
	ind.AvgComplianceToday = stats.Round(ind.AvgComplianceToday, 1)

	return &RealtimeBundle{
		Meta:                  a.meta(req, "Realtime Metrics"),
		SystemStatus:          "online",
		LastUpdated:           snap.DatabaseTime,
		RecentActivityCount:   snap.RecentActivityCount,
		CriticalAlerts:        snap.Alerts,
		PerformanceIndicators: ind,
		DataFreshness:         "real-time",
	}, nil
}

// ExecutiveSummary builds the executive-summary bundle
func (a *Assembler) ExecutiveSummary(ctx context.Context, req Request) (*ExecutiveSummaryBundle, error) {
	counts, err := a.store.DashboardCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}

	kpi := BuildKPI(*counts)
	return &ExecutiveSummaryBundle{
		Meta:    a.meta(req, "Executive Summary"),
		Summary: BuildExecutiveSummary(kpi),
		KPI:     kpi,
		Health:  HealthFromKPI(kpi),
	}, nil
}

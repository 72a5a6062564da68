package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/risk"
	"github.com/SKuytov/SVP/internal/stats"
)

// Interactive statistics selectors
const (
	StatsOverview    = "overview"
	StatsCompliance  = "compliance"
	StatsRisk        = "risk"
	StatsPerformance = "performance"
	StatsTrends      = "trends"
)

// OverviewKPIs are the headline ratios of the overview statistics
type OverviewKPIs struct {
	ComplianceRate       float64 `json:"compliance_rate"`
	RiskExposure         float64 `json:"risk_exposure"`
	DocumentHealth       float64 `json:"document_health"`
	AssessmentCompletion float64 `json:"assessment_completion"`
}

// Overview is the statistics?type=overview payload
type Overview struct {
	Suppliers        contracts.SupplierCounts   `json:"suppliers"`
	Documents        contracts.DocumentCounts   `json:"documents"`
	Assessments      contracts.AssessmentCounts `json:"assessments"`
	TotalAnnualSpend decimal.Decimal            `json:"total_annual_spend"`
	KPIs             OverviewKPIs               `json:"kpis"`
}

// ComplianceStats is the statistics?type=compliance payload
type ComplianceStats struct {
	Trends     []contracts.ComplianceTrendPoint `json:"trends"`
	Direction  string                           `json:"trend_direction"`
	Volatility float64                          `json:"volatility"`
}

// PerformanceStats is the statistics?type=performance payload
type PerformanceStats struct {
	Rankings     []contracts.SupplierPerformanceRow `json:"rankings"`
	Distribution stats.PerformanceDistribution      `json:"distribution"`
}

const statisticsMonths = 12

// Statistics returns the interactive statistics block of the given type.
// An unknown type returns an error wrapping contracts.ErrUnknownCategory.
func (g *Generator) Statistics(ctx context.Context, statsType string) (interface{}, error) {
	switch statsType {
	case "", StatsOverview:
		return g.overview(ctx)
	case StatsCompliance:
		trends, err := g.store.ComplianceTrends(ctx, contracts.TrendWindow{Months: statisticsMonths, Granularity: contracts.GranularityMonth})
		if err != nil {
			return nil, fmt.Errorf("failed to load compliance statistics: %w", err)
		}
		if trends == nil {
			trends = []contracts.ComplianceTrendPoint{}
		}
		return &ComplianceStats{
			Trends:     trends,
			Direction:  stats.TrendDirection(trends),
			Volatility: stats.Round(stats.Volatility(trends), 2),
		}, nil
	case StatsRisk:
		rows, err := g.store.RiskDistribution(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load risk statistics: %w", err)
		}
		if rows == nil {
			rows = []contracts.RiskDistributionRow{}
		}
		return rows, nil
	case StatsPerformance:
		rows, err := g.store.SupplierPerformance(ctx, statisticsMonths)
		if err != nil {
			return nil, fmt.Errorf("failed to load performance statistics: %w", err)
		}
		ranked := risk.NewEngine().RankByPerformance(rows)
		return &PerformanceStats{Rankings: ranked, Distribution: stats.Distribution(ranked)}, nil
	case StatsTrends:
		scores, err := g.store.MonthlyScores(ctx, statisticsMonths)
		if err != nil {
			return nil, fmt.Errorf("failed to load trend statistics: %w", err)
		}
		if scores == nil {
			scores = []contracts.MonthlyScore{}
		}
		return scores, nil
	default:
		return nil, fmt.Errorf("%w: statistics type %q", contracts.ErrUnknownCategory, statsType)
	}
}

func (g *Generator) overview(ctx context.Context) (*Overview, error) {
	c, err := g.store.DashboardCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overview statistics: %w", err)
	}

	return &Overview{
		Suppliers:        c.Suppliers,
		Documents:        c.Documents,
		Assessments:      c.Assessments,
		TotalAnnualSpend: decimal.NewFromFloat(c.Suppliers.TotalAnnualSpend).Round(2),
		KPIs: OverviewKPIs{
			ComplianceRate:       stats.Round(c.Suppliers.AvgComplianceScore, 1),
			RiskExposure:         stats.Round(stats.Ratio(c.Suppliers.HighRisk, c.Suppliers.Total), 1),
			DocumentHealth:       stats.Round(stats.Ratio(c.Documents.Valid, c.Documents.Total), 1),
			AssessmentCompletion: stats.Round(stats.Ratio(c.Assessments.Completed, c.Assessments.Total), 1),
		},
	}, nil
}

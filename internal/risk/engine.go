package risk

import (
	"sort"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/stats"
)

// =============================================================================
// Engine - 순수 계산기
// =============================================================================

// Engine computes risk and performance indices
// ⭐ SSOT: 데이터 조회는 repository, 조립은 analytics 레이어에서 담당
// internal/risk는 순수 계산만 담당
type Engine struct {
	weights   CapabilityWeights
	modifiers CategoryModifiers
}

// NewEngine creates an engine with the production weights
func NewEngine() *Engine {
	return &Engine{
		weights:   DefaultCapabilityWeights(),
		modifiers: DefaultCategoryModifiers(),
	}
}

// =============================================================================
// Performance Index (Pure)
// =============================================================================

// PerformanceIndex = cs*0.4 + avgAssessment*0.3 + (30 if no open CAPA).
// A missing assessment average counts as 0. Not clamped.
func PerformanceIndex(complianceScore float64, avgAssessment *float64, openCapas int) float64 {
	var assessment float64
	if avgAssessment != nil {
		assessment = *avgAssessment
	}

	index := complianceScore*0.4 + assessment*0.3
	if openCapas == 0 {
		index += 30
	}
	return index
}

// RankByPerformance fills PerformanceIndex and sorts descending by the raw value.
// Ties are broken by supplier id. The input slice is not modified.
func (e *Engine) RankByPerformance(rows []contracts.SupplierPerformanceRow) []contracts.SupplierPerformanceRow {
	ranked := make([]contracts.SupplierPerformanceRow, len(rows))
	for i, r := range rows {
		r.PerformanceIndex = stats.Round(PerformanceIndex(r.ComplianceScore, r.AvgAssessmentScore, r.OpenCapas), 2)
		ranked[i] = r
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PerformanceIndex != ranked[j].PerformanceIndex {
			return ranked[i].PerformanceIndex > ranked[j].PerformanceIndex
		}
		return ranked[i].SupplierID < ranked[j].SupplierID
	})
	return ranked
}

// =============================================================================
// Composite Supplier Score (Pure)
// =============================================================================

// CompositeScore is the weighted capability score times the category modifier,
// rounded to 2 decimals.
func (e *Engine) CompositeScore(c contracts.CapabilityScores, category contracts.RiskCategory) float64 {
	w := e.weights
	weighted := c.Delivery*w.Delivery +
		c.Price*w.Price +
		c.Quality*w.Quality +
		c.Reliability*w.Reliability +
		c.Technical*w.Technical +
		c.Efficiency*w.Efficiency +
		c.Compatibility*w.Compatibility

	return stats.Round(weighted*e.modifiers.modifier(category), 2)
}

// =============================================================================
// Spend Efficiency (Pure)
// =============================================================================

// SpendEfficiency = cs / spend * 1,000,000, rounded to 2 decimals.
// Non-positive spend returns nil and never divides.
func SpendEfficiency(complianceScore, annualSpend float64) *float64 {
	if annualSpend <= 0 {
		return nil
	}
	v := stats.Round(complianceScore/annualSpend*1_000_000, 2)
	return &v
}

// RankBySpendEfficiency computes efficiency per row, drops rows without a value,
// and sorts descending. limit <= 0 keeps every row.
func (e *Engine) RankBySpendEfficiency(rows []contracts.SpendEfficiencyRow, limit int) []contracts.SpendEfficiencyRow {
	ranked := make([]contracts.SpendEfficiencyRow, 0, len(rows))
	for _, r := range rows {
		r.CompliancePerMillion = SpendEfficiency(r.ComplianceScore, r.AnnualSpend)
		if r.CompliancePerMillion == nil {
			continue
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := *ranked[i].CompliancePerMillion, *ranked[j].CompliancePerMillion
		if a != b {
			return a > b
		}
		return ranked[i].SupplierID < ranked[j].SupplierID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// =============================================================================
// Compliance Health Score (Pure)
// =============================================================================

// HealthScore = compliance%*0.40 + avg*0.30 + lowRisk%*0.20 + validDoc%*0.10.
// Zero documents earn the full document component; zero suppliers earn 0 for
// both supplier ratios. compliance% and avg are rounded to 1 decimal before
// weighting; the total is rounded to 1 decimal and clamped to 0~100.
func HealthScore(in HealthInput) HealthBreakdown {
	var compliancePct, lowRiskPct float64
	if in.TotalSuppliers > 0 {
		// the KPI rate and average enter already rounded to 1 decimal
		compliancePct = stats.Round(float64(in.CompliantSuppliers)/float64(in.TotalSuppliers)*100, 1)
		lowRiskPct = float64(in.LowRiskSuppliers) / float64(in.TotalSuppliers) * 100
	}

	validDocPct := 100.0
	if in.TotalDocuments > 0 {
		validDocPct = float64(in.ValidDocuments) / float64(in.TotalDocuments) * 100
	}

	avg := stats.Round(in.AvgComplianceScore, 1)

	b := HealthBreakdown{
		CompliancePct:       compliancePct,
		AvgComplianceScore:  avg,
		LowRiskPct:          stats.Round(lowRiskPct, 1),
		ValidDocumentPct:    stats.Round(validDocPct, 1),
		ComplianceComponent: compliancePct * 0.40,
		AverageComponent:    avg * 0.30,
		LowRiskComponent:    lowRiskPct * 0.20,
		DocumentComponent:   validDocPct * 0.10,
	}

	total := b.ComplianceComponent + b.AverageComponent + b.LowRiskComponent + b.DocumentComponent
	b.Score = stats.Clamp(stats.Round(total, 1), 0, 100)

	b.ComplianceComponent = stats.Round(b.ComplianceComponent, 2)
	b.AverageComponent = stats.Round(b.AverageComponent, 2)
	b.LowRiskComponent = stats.Round(b.LowRiskComponent, 2)
	b.DocumentComponent = stats.Round(b.DocumentComponent, 2)
	return b
}

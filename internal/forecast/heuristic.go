package forecast

import (
	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/stats"
)

// =============================================================================
// Deterministic heuristic (pure)
// =============================================================================

// Horizons evaluated per supplier (months). Each is computed independently.
const (
	HorizonShort = 3
	HorizonLong  = 6
)

// Heuristic coefficients
const (
	capaPenaltyPerItem = 2.0
	docPenaltyPerItem  = 1.5
	auditPenalty       = 5.0
	decayPerMonth      = 0.5
)

// PredictScore projects the compliance score `months` ahead.
//
//	base    = (current + recentAvg) / 2   (recentAvg falls back to current)
//	score   = base - openCapas*2 - expiringDocs*1.5 - (5 unless audit > 0 days away) - months*0.5
//	result  = clamp(round(score, 1), 0, 100)
//
// A missing days-until-audit counts as 0, so the audit penalty applies.
func PredictScore(r contracts.RiskFactorRecord, months int) float64 {
	recent := r.ComplianceScore
	if r.RecentAvgScore != nil {
		recent = *r.RecentAvgScore
	}

	base := (r.ComplianceScore + recent) / 2
	capaPenalty := float64(r.OpenCapas) * capaPenaltyPerItem
	docPenalty := float64(r.ExpiringDocs) * docPenaltyPerItem

	var auditBonus float64
	if r.DaysUntilAuditOrZero() <= 0 {
		auditBonus = -auditPenalty
	}
	timeDecay := float64(months) * decayPerMonth

	predicted := base - capaPenalty - docPenalty + auditBonus - timeDecay
	return stats.Clamp(stats.Round(predicted, 1), 0, 100)
}

// ShouldIntervene reports whether any intervention trigger fires
func ShouldIntervene(r contracts.RiskFactorRecord) bool {
	switch {
	case r.ComplianceScore < 70:
		return true
	case r.OpenCapas > 3:
		return true
	case r.ExpiringDocs > 2:
		return true
	case r.DaysUntilAuditOrZero() < 0:
		return true
	case r.RiskCategory == contracts.RiskCategoryA && r.ComplianceScore < 85:
		return true
	}
	return false
}

// Confidence starts at 100 and is reduced per missing/uncertain input, clamped to 30~100.
// A zero recent average counts as missing here, unlike PredictScore which only falls back on nil.
func Confidence(r contracts.RiskFactorRecord) float64 {
	confidence := 100.0
	if r.RecentAvgScore == nil || *r.RecentAvgScore == 0 {
		confidence -= 20
	}
	if r.OpenCapas > 5 {
		confidence -= 15
	}
	if r.RiskCategory == contracts.RiskCategoryA {
		confidence -= 10
	}
	return stats.Clamp(confidence, 30, 100)
}

// Trend labels the 6-month projection relative to the current score
func Trend(current, predicted6M float64) contracts.RiskTrend {
	switch {
	case predicted6M < current-5:
		return contracts.RiskTrendDeteriorating
	case predicted6M > current+1:
		return contracts.RiskTrendImproving
	default:
		return contracts.RiskTrendStable
	}
}

// IsAtRisk reports predicted6m < 70 or an intervention trigger
func IsAtRisk(p contracts.PredictionResult) bool {
	return p.PredictedScore6M < 70 || p.InterventionNeeded
}

package forecast

import (
	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/stats"
)

// Summary aggregates a prediction set
type Summary struct {
	Total             int     `json:"total_suppliers"`
	AtRisk            int     `json:"at_risk"`
	InterventionCount int     `json:"intervention_needed"`
	Improving         int     `json:"improving"`
	Stable            int     `json:"stable"`
	Deteriorating     int     `json:"deteriorating"`
	AvgCurrentScore   float64 `json:"avg_current_score"`
	AvgPredicted3M    float64 `json:"avg_predicted_3m"`
	AvgPredicted6M    float64 `json:"avg_predicted_6m"`
	AvgConfidence     float64 `json:"avg_confidence"`
}

// Summarize counts trends and averages scores (all zero for an empty set)
func Summarize(predictions []contracts.PredictionResult) Summary {
	s := Summary{Total: len(predictions)}
	if len(predictions) == 0 {
		return s
	}

	current := make([]float64, len(predictions))
	p3 := make([]float64, len(predictions))
	p6 := make([]float64, len(predictions))
	conf := make([]float64, len(predictions))

	for i, p := range predictions {
		current[i] = p.CurrentScore
		p3[i] = p.PredictedScore3M
		p6[i] = p.PredictedScore6M
		conf[i] = p.ConfidenceLevel

		if IsAtRisk(p) {
			s.AtRisk++
		}
		if p.InterventionNeeded {
			s.InterventionCount++
		}
		switch p.RiskTrend {
		case contracts.RiskTrendImproving:
			s.Improving++
		case contracts.RiskTrendDeteriorating:
			s.Deteriorating++
		default:
			s.Stable++
		}
	}

	s.AvgCurrentScore = stats.Round(stats.Mean(current), 1)
	s.AvgPredicted3M = stats.Round(stats.Mean(p3), 1)
	s.AvgPredicted6M = stats.Round(stats.Mean(p6), 1)
	s.AvgConfidence = stats.Round(stats.Mean(conf), 1)
	return s
}

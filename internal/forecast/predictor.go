package forecast

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/SKuytov/SVP/internal/contracts"
)

// Predictor builds per-supplier projections
// ⭐ SSOT: 예측 결과는 저장하지 않음, 요청마다 재계산
type Predictor struct {
	log zerolog.Logger
}

// NewPredictor 새 예측기 생성
func NewPredictor(log zerolog.Logger) *Predictor {
	return &Predictor{
		log: log.With().Str("component", "forecast.predictor").Logger(),
	}
}

// Predict evaluates both horizons for one supplier
func (p *Predictor) Predict(r contracts.RiskFactorRecord) contracts.PredictionResult {
	pred6M := PredictScore(r, HorizonLong)

	return contracts.PredictionResult{
		SupplierID:         r.SupplierID,
		SupplierName:       r.Name,
		RiskCategory:       r.RiskCategory,
		CurrentScore:       r.ComplianceScore,
		PredictedScore3M:   PredictScore(r, HorizonShort),
		PredictedScore6M:   pred6M,
		RiskTrend:          Trend(r.ComplianceScore, pred6M),
		InterventionNeeded: ShouldIntervene(r),
		ConfidenceLevel:    Confidence(r),
	}
}

// BuildPredictions predicts every record, keeping input order
func (p *Predictor) BuildPredictions(records []contracts.RiskFactorRecord) []contracts.PredictionResult {
	predictions := make([]contracts.PredictionResult, len(records))
	for i, r := range records {
		predictions[i] = p.Predict(r)
	}

	p.log.Debug().
		Int("suppliers", len(records)).
		Msg("predictions built")

	return predictions
}

// AtRisk filters predictions with predicted6m < 70 or intervention needed.
// Sorted by predicted 6-month score ascending (worst first).
func AtRisk(predictions []contracts.PredictionResult) []contracts.PredictionResult {
	out := make([]contracts.PredictionResult, 0)
	for _, pr := range predictions {
		if IsAtRisk(pr) {
			out = append(out, pr)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PredictedScore6M != out[j].PredictedScore6M {
			return out[i].PredictedScore6M < out[j].PredictedScore6M
		}
		return out[i].SupplierID < out[j].SupplierID
	})
	return out
}

// Recommended action texts
const (
	ActionOverdueAudit   = "Schedule the overdue audit immediately"
	ActionEscalateCapas  = "Escalate open corrective actions with the supplier"
	ActionRenewDocuments = "Request renewal of expiring certificates"
	ActionDevelopment    = "Start a supplier development plan to lift the compliance score"
	ActionMonitor        = "Increase monitoring frequency"
)

// RecommendedActions derives follow-ups for at-risk suppliers.
// High priority actions come first; order within a supplier is fixed.
func RecommendedActions(atRisk []contracts.PredictionResult, records []contracts.RiskFactorRecord) []contracts.RecommendedAction {
	byID := make(map[int64]contracts.RiskFactorRecord, len(records))
	for _, r := range records {
		byID[r.SupplierID] = r
	}

	actions := make([]contracts.RecommendedAction, 0)
	for _, pr := range atRisk {
		r := byID[pr.SupplierID]

		priority := "medium"
		if pr.PredictedScore6M < 60 || pr.RiskCategory == contracts.RiskCategoryA {
			priority = "high"
		}

		texts := actionTexts(r, pr)
		for _, text := range texts {
			actions = append(actions, contracts.RecommendedAction{
				SupplierID:   pr.SupplierID,
				SupplierName: pr.SupplierName,
				Priority:     priority,
				Action:       text,
			})
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority == "high" && actions[j].Priority != "high"
	})
	return actions
}

func actionTexts(r contracts.RiskFactorRecord, pr contracts.PredictionResult) []string {
	var texts []string
	if r.DaysUntilAudit != nil && *r.DaysUntilAudit < 0 {
		texts = append(texts, ActionOverdueAudit)
	}
	if r.OpenCapas > 3 {
		texts = append(texts, ActionEscalateCapas)
	}
	if r.ExpiringDocs > 2 {
		texts = append(texts, ActionRenewDocuments)
	}
	if pr.PredictedScore6M < 70 {
		texts = append(texts, ActionDevelopment)
	}
	if len(texts) == 0 {
		texts = append(texts, ActionMonitor)
	}
	return texts
}

package contracts

// RiskTrend labels the projected direction of a supplier
type RiskTrend string

const (
	RiskTrendImproving     RiskTrend = "improving"
	RiskTrendStable        RiskTrend = "stable"
	RiskTrendDeteriorating RiskTrend = "deteriorating"
)

// PredictionResult is the per-supplier projection
// ⭐ SSOT: 예측 결과 (저장하지 않음, 요청마다 재계산)
type PredictionResult struct {
	SupplierID         int64        `json:"supplier_id"`
	SupplierName       string       `json:"supplier_name"`
	RiskCategory       RiskCategory `json:"risk_category"`
	CurrentScore       float64      `json:"current_score"`
	PredictedScore3M   float64      `json:"predicted_score_3m"`
	PredictedScore6M   float64      `json:"predicted_score_6m"`
	RiskTrend          RiskTrend    `json:"risk_trend"`
	InterventionNeeded bool         `json:"intervention_needed"`
	ConfidenceLevel    float64      `json:"confidence_level"` // 30~100
}

// RecommendedAction is a follow-up for an at-risk supplier
type RecommendedAction struct {
	SupplierID   int64  `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Priority     string `json:"priority"` // high, medium
	Action       string `json:"action"`
}

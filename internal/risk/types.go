package risk

import "github.com/SKuytov/SVP/internal/contracts"

// =============================================================================
// Composite Score Weights
// =============================================================================

// CapabilityWeights are the per-capability weights of the composite score
// ⭐ SSOT: 합계 1.0 (delivery .15, price .10, quality .25, reliability .20,
// technical .15, efficiency .10, compatibility .05)
type CapabilityWeights struct {
	Delivery      float64 `json:"delivery"`
	Price         float64 `json:"price"`
	Quality       float64 `json:"quality"`
	Reliability   float64 `json:"reliability"`
	Technical     float64 `json:"technical"`
	Efficiency    float64 `json:"efficiency"`
	Compatibility float64 `json:"compatibility"`
}

// DefaultCapabilityWeights returns the production weights
func DefaultCapabilityWeights() CapabilityWeights {
	return CapabilityWeights{
		Delivery:      0.15,
		Price:         0.10,
		Quality:       0.25,
		Reliability:   0.20,
		Technical:     0.15,
		Efficiency:    0.10,
		Compatibility: 0.05,
	}
}

// CategoryModifiers scale the composite score by risk category
type CategoryModifiers map[contracts.RiskCategory]float64

// DefaultCategoryModifiers A=0.85, B=0.95, C=1.00
func DefaultCategoryModifiers() CategoryModifiers {
	return CategoryModifiers{
		contracts.RiskCategoryA: 0.85,
		contracts.RiskCategoryB: 0.95,
		contracts.RiskCategoryC: 1.00,
	}
}

// modifier returns the category modifier (unknown → 1.00)
func (m CategoryModifiers) modifier(c contracts.RiskCategory) float64 {
	if v, ok := m[c]; ok {
		return v
	}
	return 1.0
}

// =============================================================================
// Health Score
// =============================================================================

// HealthInput carries the raw counters of the compliance health score
type HealthInput struct {
	TotalSuppliers     int     `json:"total_suppliers"`
	CompliantSuppliers int     `json:"compliant_suppliers"`
	LowRiskSuppliers   int     `json:"low_risk_suppliers"`
	AvgComplianceScore float64 `json:"avg_compliance_score"`
	TotalDocuments     int     `json:"total_documents"`
	ValidDocuments     int     `json:"valid_documents"`
}

// HealthBreakdown is the health score with its weighted components
type HealthBreakdown struct {
	Score               float64 `json:"score"`
	CompliancePct       float64 `json:"compliance_percentage"`
	AvgComplianceScore  float64 `json:"avg_compliance_score"`
	LowRiskPct          float64 `json:"low_risk_percentage"`
	ValidDocumentPct    float64 `json:"valid_document_percentage"`
	ComplianceComponent float64 `json:"compliance_component"`
	AverageComponent    float64 `json:"average_component"`
	LowRiskComponent    float64 `json:"low_risk_component"`
	DocumentComponent   float64 `json:"document_component"`
}

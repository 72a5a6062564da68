package forecast

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/internal/contracts"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func healthy() contracts.RiskFactorRecord {
	return contracts.RiskFactorRecord{
		SupplierID:      1,
		Name:            "Healthy GmbH",
		RiskCategory:    contracts.RiskCategoryC,
		ComplianceScore: 90,
		RecentAvgScore:  floatPtr(90),
		DaysUntilAudit:  intPtr(100),
	}
}

func TestPredictScore(t *testing.T) {
	r := healthy()
	assert.Equal(t, 88.5, PredictScore(r, 3))
	assert.Equal(t, 87.0, PredictScore(r, 6))
}

func TestPredictScore_Penalties(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*contracts.RiskFactorRecord)
		months int
		want   float64
	}{
		{"recent average blends", func(r *contracts.RiskFactorRecord) { r.RecentAvgScore = floatPtr(80) }, 3, 83.5},
		{"missing recent average uses current", func(r *contracts.RiskFactorRecord) { r.RecentAvgScore = nil }, 3, 88.5},
		{"capa penalty", func(r *contracts.RiskFactorRecord) { r.OpenCapas = 2 }, 3, 84.5},
		{"doc penalty", func(r *contracts.RiskFactorRecord) { r.ExpiringDocs = 3 }, 3, 84},
		{"audit today", func(r *contracts.RiskFactorRecord) { r.DaysUntilAudit = intPtr(0) }, 3, 83.5},
		{"no audit scheduled", func(r *contracts.RiskFactorRecord) { r.DaysUntilAudit = nil }, 3, 83.5},
		{"clamped at zero", func(r *contracts.RiskFactorRecord) { r.OpenCapas = 100 }, 6, 0},
		{"clamped at hundred", func(r *contracts.RiskFactorRecord) {
			r.ComplianceScore = 250
			r.RecentAvgScore = floatPtr(250)
		}, 3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := healthy()
			tt.modify(&r)
			assert.InDelta(t, tt.want, PredictScore(r, tt.months), 1e-9)
		})
	}
}

func TestShouldIntervene(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*contracts.RiskFactorRecord)
		want   bool
	}{
		{"healthy", func(r *contracts.RiskFactorRecord) { r.DaysUntilAudit = intPtr(10) }, false},
		{"low score", func(r *contracts.RiskFactorRecord) { r.ComplianceScore = 65 }, true},
		{"many capas", func(r *contracts.RiskFactorRecord) { r.OpenCapas = 4 }, true},
		{"three capas", func(r *contracts.RiskFactorRecord) { r.OpenCapas = 3 }, false},
		{"expiring docs", func(r *contracts.RiskFactorRecord) { r.ExpiringDocs = 3 }, true},
		{"audit overdue", func(r *contracts.RiskFactorRecord) { r.DaysUntilAudit = intPtr(-1) }, true},
		{"audit today", func(r *contracts.RiskFactorRecord) { r.DaysUntilAudit = intPtr(0) }, false},
		{"category A below 85", func(r *contracts.RiskFactorRecord) {
			r.RiskCategory = contracts.RiskCategoryA
			r.ComplianceScore = 84
		}, true},
		{"category A at 85", func(r *contracts.RiskFactorRecord) {
			r.RiskCategory = contracts.RiskCategoryA
			r.ComplianceScore = 85
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := healthy()
			tt.modify(&r)
			assert.Equal(t, tt.want, ShouldIntervene(r))
		})
	}
}

func TestConfidence(t *testing.T) {
	r := healthy()
	assert.Equal(t, 100.0, Confidence(r))

	r.RecentAvgScore = nil
	assert.Equal(t, 80.0, Confidence(r))

	r.OpenCapas = 6
	r.RiskCategory = contracts.RiskCategoryA
	assert.Equal(t, 55.0, Confidence(r))
}

func TestConfidence_ZeroRecentAverageCountsAsMissing(t *testing.T) {
	r := healthy()
	r.RecentAvgScore = floatPtr(0)
	assert.Equal(t, 80.0, Confidence(r))

	// 점수 투영은 0을 그대로 사용
	assert.Equal(t, 43.5, PredictScore(r, 3))
}

func TestTrend(t *testing.T) {
	assert.Equal(t, contracts.RiskTrendStable, Trend(90, 87))
	assert.Equal(t, contracts.RiskTrendStable, Trend(90, 85))
	assert.Equal(t, contracts.RiskTrendDeteriorating, Trend(90, 84.9))
	assert.Equal(t, contracts.RiskTrendImproving, Trend(80, 81.1))
}

func TestBuildPredictions_Deterministic(t *testing.T) {
	p := NewPredictor(zerolog.Nop())
	records := []contracts.RiskFactorRecord{
		healthy(),
		{SupplierID: 2, Name: "Risky", RiskCategory: contracts.RiskCategoryA, ComplianceScore: 60,
			OpenCapas: 4, ExpiringDocs: 1, DaysUntilAudit: intPtr(-20)},
	}

	first := p.BuildPredictions(records)
	second := p.BuildPredictions(records)
	assert.Equal(t, first, second)

	require.Len(t, first, 2)
	assert.False(t, first[0].InterventionNeeded)
	assert.Equal(t, 100.0, first[0].ConfidenceLevel)

	risky := first[1]
	// 60 - 8 - 1.5 - 5 - 3 = 42.5
	assert.Equal(t, 42.5, risky.PredictedScore6M)
	assert.Equal(t, 44.0, risky.PredictedScore3M)
	assert.True(t, risky.InterventionNeeded)
	assert.Equal(t, contracts.RiskTrendDeteriorating, risky.RiskTrend)
	assert.Equal(t, 70.0, risky.ConfidenceLevel)
}

func TestAtRiskAndActions(t *testing.T) {
	p := NewPredictor(zerolog.Nop())
	records := []contracts.RiskFactorRecord{
		healthy(),
		{SupplierID: 2, Name: "Risky", RiskCategory: contracts.RiskCategoryA, ComplianceScore: 60,
			OpenCapas: 4, DaysUntilAudit: intPtr(-20)},
		{SupplierID: 3, Name: "Borderline", RiskCategory: contracts.RiskCategoryB, ComplianceScore: 75,
			RecentAvgScore: floatPtr(75), DaysUntilAudit: intPtr(40), ExpiringDocs: 3},
	}

	predictions := p.BuildPredictions(records)
	atRisk := AtRisk(predictions)
	require.Len(t, atRisk, 2)
	assert.Equal(t, int64(2), atRisk[0].SupplierID)
	assert.Equal(t, int64(3), atRisk[1].SupplierID)

	actions := RecommendedActions(atRisk, records)
	require.NotEmpty(t, actions)
	assert.Equal(t, "high", actions[0].Priority)
	assert.Equal(t, ActionOverdueAudit, actions[0].Action)

	var borderline []string
	for _, a := range actions {
		if a.SupplierID == 3 {
			assert.Equal(t, "medium", a.Priority)
			borderline = append(borderline, a.Action)
		}
	}
	// 75 - 4.5 - 3 = 67.5 → development plan
	assert.Equal(t, []string{ActionRenewDocuments, ActionDevelopment}, borderline)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	predictions := []contracts.PredictionResult{
		{CurrentScore: 90, PredictedScore3M: 88.5, PredictedScore6M: 87, RiskTrend: contracts.RiskTrendStable, ConfidenceLevel: 100},
		{CurrentScore: 60, PredictedScore3M: 44, PredictedScore6M: 42.5, RiskTrend: contracts.RiskTrendDeteriorating,
			InterventionNeeded: true, ConfidenceLevel: 70},
	}

	s := Summarize(predictions)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.AtRisk)
	assert.Equal(t, 1, s.Stable)
	assert.Equal(t, 1, s.Deteriorating)
	assert.Equal(t, 75.0, s.AvgCurrentScore)
	assert.Equal(t, 85.0, s.AvgConfidence)
}

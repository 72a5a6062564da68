package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/forecast"
	"github.com/SKuytov/SVP/internal/risk"
	"github.com/SKuytov/SVP/internal/stats"
)

// Analytics type selectors
const (
	TypeComplianceTrends     = "compliance-trends"
	TypeRiskAnalysis         = "risk-analysis"
	TypeSupplierPerformance  = "supplier-performance"
	TypeCertificateAnalytics = "certificate-analytics"
	TypeAssessmentInsights   = "assessment-insights"
	TypeSpendAnalysis        = "spend-analysis"
	TypePredictive           = "predictive"
	TypeBenchmarking         = "benchmarking"
	TypeRealtime             = "realtime"
	TypeExecutiveSummary     = "executive-summary"
)

// TypeInfo describes one analytics selector
type TypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// availableTypes is the ordered catalogue returned by GET /api/analytics
var availableTypes = []TypeInfo{
	{TypeComplianceTrends, "Historical compliance performance trends"},
	{TypeRiskAnalysis, "Risk distribution and heat map analysis"},
	{TypeSupplierPerformance, "Individual supplier performance metrics"},
	{TypeCertificateAnalytics, "Certificate and document analytics"},
	{TypeAssessmentInsights, "Assessment results and patterns"},
	{TypeSpendAnalysis, "Supplier spend analysis by category"},
	{TypePredictive, "Predictive analytics and forecasting"},
	{TypeBenchmarking, "Peer group benchmarking"},
	{TypeRealtime, "Real-time dashboard metrics"},
	{TypeExecutiveSummary, "Executive compliance summary"},
}

// Types returns the analytics catalogue
func Types() []TypeInfo {
	out := make([]TypeInfo, len(availableTypes))
	copy(out, availableTypes)
	return out
}

// Meta is the descriptive header of every bundle
type Meta struct {
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	GeneratedAt time.Time              `json:"generated_at"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// =============================================================================
// Bundles
// =============================================================================

// ComplianceTrendsBundle is the compliance-trends analytics
type ComplianceTrendsBundle struct {
	Meta
	Trends         []contracts.ComplianceTrendPoint `json:"trends"`
	CategoryTrends []contracts.CategoryTrendPoint   `json:"category_trends"`
	ScoreChanges   []contracts.ScoreChange          `json:"score_changes"`
	OverallTrend   string                           `json:"overall_trend"`
	Volatility     float64                          `json:"volatility"`
	Seasonal       stats.SeasonalPattern            `json:"seasonal_patterns"`
}

// RiskAnalysisBundle is the risk-analysis analytics
type RiskAnalysisBundle struct {
	Meta
	RiskMatrix           []contracts.RiskMatrixCell   `json:"risk_matrix"`
	RiskFactors          []contracts.RiskFactorRecord `json:"risk_factors"`
	GeographicRisk       []contracts.GeoRiskRow       `json:"geographic_risk"`
	RiskScores           stats.RiskScoreSummary       `json:"risk_scores"`
	MitigationPriorities []stats.MitigationPriority   `json:"mitigation_priorities"`
}

// SupplierPerformanceBundle is the supplier-performance analytics.
// Detail is set when a single supplier was requested, Rankings otherwise.
type SupplierPerformanceBundle struct {
	Meta
	Rankings        []contracts.SupplierPerformanceRow   `json:"supplier_rankings,omitempty"`
	Distribution    *stats.PerformanceDistribution       `json:"performance_distribution,omitempty"`
	TopPerformers   []contracts.SupplierPerformanceRow   `json:"top_performers,omitempty"`
	Underperformers []contracts.SupplierPerformanceRow   `json:"underperformers,omitempty"`
	Detail          *contracts.SupplierPerformanceDetail `json:"supplier,omitempty"`
	History         []contracts.PerformanceHistoryPoint  `json:"performance_history,omitempty"`
	HistoryTrend    string                               `json:"history_trend,omitempty"`
}

// ExpiryForecast is the certificate expiry outlook
type ExpiryForecast struct {
	Next30Days   int `json:"next_30_days"`
	Next90Days   int `json:"next_90_days"`
	AlreadyValid int `json:"valid"`
	Expired      int `json:"expired"`
}

// ComplianceGap is a standard with incomplete certification coverage
type ComplianceGap struct {
	StandardName     string  `json:"standard_name"`
	CoveragePct      float64 `json:"coverage_percentage"`
	UncertifiedCount int     `json:"uncertified_suppliers"`
	ExpiredCount     int     `json:"expired_count"`
}

// CertificateAnalyticsBundle is the certificate-analytics analytics
type CertificateAnalyticsBundle struct {
	Meta
	CertificateStats   []contracts.CertificateStat    `json:"certificate_stats"`
	StandardCompliance []contracts.StandardCompliance `json:"standard_compliance"`
	RenewalPatterns    []contracts.RenewalPattern     `json:"renewal_patterns"`
	ExpiryForecast     ExpiryForecast                 `json:"expiry_forecast"`
	ComplianceGaps     []ComplianceGap                `json:"compliance_gaps"`
}

// EffectivenessMetrics summarises assessment outcomes
type EffectivenessMetrics struct {
	TotalAssessments int     `json:"total_assessments"`
	CompletionRate   float64 `json:"completion_rate"`
	PassRate         float64 `json:"pass_rate"`
	AvgScore         float64 `json:"avg_score"`
	OpenFindingRate  float64 `json:"open_finding_rate"`
}

// AssessmentInsightsBundle is the assessment-insights analytics
type AssessmentInsightsBundle struct {
	Meta
	AssessmentPerformance    []contracts.AssessmentPerformance `json:"assessment_performance"`
	FindingPatterns          []contracts.FindingPattern        `json:"finding_patterns"`
	AssessorPerformance      []contracts.AssessorPerformance   `json:"assessor_performance"`
	Effectiveness            EffectivenessMetrics              `json:"effectiveness_metrics"`
	ImprovementOpportunities []string                          `json:"improvement_opportunities"`
}

// SpendRiskCell is the spend total of one risk category
type SpendRiskCell struct {
	RiskCategory  contracts.RiskCategory `json:"risk_category"`
	SupplierCount int                    `json:"supplier_count"`
	TotalSpend    decimal.Decimal        `json:"total_spend"`
	CriticalSpend decimal.Decimal        `json:"critical_spend"`
	SharePct      float64                `json:"share_percentage"`
}

// SpendOpportunity flags a large spend with a weak compliance score
type SpendOpportunity struct {
	SupplierID      int64   `json:"supplier_id"`
	Name            string  `json:"name"`
	AnnualSpend     float64 `json:"annual_spend_eur"`
	ComplianceScore float64 `json:"iso_compliance_score"`
	Suggestion      string  `json:"suggestion"`
}

// SpendAnalysisBundle is the spend-analysis analytics
type SpendAnalysisBundle struct {
	Meta
	SpendByCategory           []contracts.SpendCategoryRow   `json:"spend_by_category"`
	SpendEfficiency           []contracts.SpendEfficiencyRow `json:"spend_efficiency"`
	SpendRiskMatrix           []SpendRiskCell                `json:"spend_risk_matrix"`
	OptimizationOpportunities []SpendOpportunity             `json:"optimization_opportunities"`
	TotalSpend                decimal.Decimal                `json:"total_spend"`
}

// PredictiveBundle is the predictive analytics
type PredictiveBundle struct {
	Meta
	Predictions        []contracts.PredictionResult  `json:"predictions"`
	AtRiskSuppliers    []contracts.PredictionResult  `json:"at_risk_suppliers"`
	RecommendedActions []contracts.RecommendedAction `json:"recommended_actions"`
	Summary            forecast.Summary              `json:"summary"`
}

// BenchmarkingBundle is the benchmarking analytics
type BenchmarkingBundle struct {
	Meta
	Benchmarks []stats.Benchmark `json:"benchmarks"`
	Overall    stats.Benchmark   `json:"overall"`
}

// RealtimeBundle is the realtime analytics (never cached)
type RealtimeBundle struct {
	Meta
	SystemStatus          string                          `json:"system_status"`
	LastUpdated           time.Time                       `json:"last_updated"`
	RecentActivityCount   int                             `json:"recent_activity_count"`
	CriticalAlerts        contracts.CriticalAlerts        `json:"critical_alerts"`
	PerformanceIndicators contracts.PerformanceIndicators `json:"performance_indicators"`
	DataFreshness         string                          `json:"data_freshness"`
}

// ExecutiveSummary is the status + narrative block
type ExecutiveSummary struct {
	OverallStatus   string   `json:"overall_status"`
	KeyMetrics      []string `json:"key_metrics"`
	MainConcerns    []string `json:"main_concerns"`
	Recommendations []string `json:"recommendations"`
}

// ExecutiveSummaryBundle is the executive-summary analytics
type ExecutiveSummaryBundle struct {
	Meta
	Summary ExecutiveSummary     `json:"summary"`
	KPI     KPI                  `json:"kpi"`
	Health  risk.HealthBreakdown `json:"compliance_health"`
}

// =============================================================================
// Dashboard
// =============================================================================

// KPI is the flattened dashboard key figures
type KPI struct {
	TotalSuppliers       int     `json:"total_suppliers"`
	CompliantSuppliers   int     `json:"compliant_suppliers"`
	CompliancePercentage float64 `json:"compliance_percentage"`
	AvgComplianceScore   float64 `json:"avg_compliance_score"`
	HighRiskSuppliers    int     `json:"high_risk_suppliers"`
	MediumRiskSuppliers  int     `json:"medium_risk_suppliers"`
	LowRiskSuppliers     int     `json:"low_risk_suppliers"`
	ActiveSuppliers      int     `json:"active_suppliers"`
	CriticalSuppliers    int     `json:"critical_suppliers"`
	PreferredSuppliers   int     `json:"preferred_suppliers"`
	OverdueAudits        int     `json:"overdue_audits"`
	TotalDocuments       int     `json:"total_documents"`
	ValidDocuments       int     `json:"valid_documents"`
	ExpiredDocuments     int     `json:"expired_documents"`
	ExpiringSoon         int     `json:"expiring_soon"`
	Expiring90Days       int     `json:"expiring_90_days"`
	TotalCertificates    int     `json:"total_certificates"`
	StorageUsedMB        float64 `json:"storage_used_mb"`
	TotalAssessments     int     `json:"total_assessments"`
	CompletedAssessments int     `json:"completed_assessments"`
	UpcomingAssessments  int     `json:"upcoming_assessments"`
	OverdueAssessments   int     `json:"overdue_assessments"`
	AvgAssessmentScore   float64 `json:"avg_assessment_score"`
	TotalCapas           int     `json:"total_capas"`
	OpenCapas            int     `json:"open_capas"`
	CompletedCapas       int     `json:"completed_capas"`
	OverdueCapas         int     `json:"overdue_capas"`
	CriticalCapas        int     `json:"critical_capas"`
	TotalAnnualSpend     string  `json:"total_annual_spend"`
	ActiveUsers          int     `json:"active_users"`
}

// RiskCounts is the high/medium/low split of the dashboard KPI
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// BusinessInsights are ratio-based dashboard insights
type BusinessInsights struct {
	ComplianceTrend    string           `json:"compliance_trend"`
	RiskExposure       float64          `json:"risk_exposure"`
	AuditEfficiency    float64          `json:"audit_efficiency"`
	DocumentHealth     float64          `json:"document_health"`
	CapaCompletionRate float64          `json:"capa_completion_rate"`
	PredictedIssues    []PredictedIssue `json:"predicted_issues"`
}

// PredictedIssue is one forward-looking warning
type PredictedIssue struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// Dashboard is the /api/dashboard payload
type Dashboard struct {
	Meta
	KPI              KPI                            `json:"kpi"`
	Health           risk.HealthBreakdown           `json:"compliance_health"`
	ComplianceTrend  []contracts.MonthlyScore       `json:"compliance_trends"`
	TopPerformers    []contracts.SupplierBrief      `json:"top_performing_suppliers"`
	NeedingAttention []contracts.SupplierBrief      `json:"suppliers_needing_attention"`
	RiskDistribution RiskCounts                     `json:"risk_distribution"`
	Standards        []contracts.StandardCompliance `json:"standards_compliance"`
	Documents        []contracts.DocumentTypeStat   `json:"document_statistics"`
	Insights         BusinessInsights               `json:"business_insights"`
	ExecutiveSummary ExecutiveSummary               `json:"executive_summary"`
}

package contracts

import "time"

// =============================================================================
// Analytics rows (repository → analytics core)
// =============================================================================

// Granularity is the period bucket used by trend queries
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// ParseGranularity maps a query value to a Granularity (default month)
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityDay, GranularityWeek, GranularityQuarter:
		return Granularity(s)
	}
	return GranularityMonth
}

// TrendWindow selects the trend range
type TrendWindow struct {
	Months      int         `json:"months"`
	Granularity Granularity `json:"granularity"`
}

// ComplianceTrendPoint is one period bucket of the compliance trend
// 기간 오름차순, 빈 기간은 보간하지 않음
type ComplianceTrendPoint struct {
	Period         string  `json:"period"`
	AvgCompliance  float64 `json:"avg_compliance"`
	SupplierCount  int     `json:"supplier_count"`
	CompliantCount int     `json:"compliant_count"` // score >= 80
	MinCompliance  float64 `json:"min_compliance"`
	MaxCompliance  float64 `json:"max_compliance"`
	Dispersion     float64 `json:"compliance_std"`
}

// CategoryTrendPoint is a period bucket split by risk category
type CategoryTrendPoint struct {
	Period        string       `json:"period"`
	RiskCategory  RiskCategory `json:"risk_category"`
	AvgCompliance float64      `json:"avg_compliance"`
	Count         int          `json:"count"`
}

// ScoreChange is the latest score movement of a supplier
type ScoreChange struct {
	SupplierID    int64        `json:"id"`
	Name          string       `json:"name"`
	RiskCategory  RiskCategory `json:"risk_category"`
	CurrentScore  float64      `json:"current_score"`
	PreviousScore *float64     `json:"previous_score"`
	Change        *float64     `json:"score_change"`
}

// RiskMatrixCell is one risk category × supplier type cell
type RiskMatrixCell struct {
	RiskCategory  RiskCategory `json:"risk_category"`
	SupplierType  string       `json:"supplier_type"`
	SupplierCount int          `json:"supplier_count"`
	AvgCompliance float64      `json:"avg_compliance"`
	AvgSpend      float64      `json:"avg_spend"`
	TotalSpend    float64      `json:"total_spend"`
	CriticalCount int          `json:"critical_count"`
	OverdueAudits int          `json:"overdue_audits"`
}

// RiskFactorRecord carries the per-supplier risk drivers
// DaysUntilAudit 음수 = 감사 지연, nil = 일정 없음
type RiskFactorRecord struct {
	SupplierID       int64        `json:"id"`
	Name             string       `json:"name"`
	RiskCategory     RiskCategory `json:"risk_category"`
	ComplianceScore  float64      `json:"iso_compliance_score"`
	AnnualSpend      float64      `json:"annual_spend_eur"`
	BusinessCritical bool         `json:"business_critical"`
	OpenCapas        int          `json:"open_capas"`
	ExpiredDocs      int          `json:"expired_docs"`
	ExpiringDocs     int          `json:"expiring_docs"`
	CriticalFindings int          `json:"critical_findings"`
	DaysUntilAudit   *int         `json:"days_until_audit"`
	RecentAvgScore   *float64     `json:"recent_avg_score"`
}

// DaysUntilAuditOrZero dereferences DaysUntilAudit (nil → 0)
func (r RiskFactorRecord) DaysUntilAuditOrZero() int {
	if r.DaysUntilAudit == nil {
		return 0
	}
	return *r.DaysUntilAudit
}

// GeoRiskRow aggregates suppliers per location
type GeoRiskRow struct {
	Country       string  `json:"address_country"`
	City          string  `json:"address_city"`
	SupplierCount int     `json:"supplier_count"`
	AvgCompliance float64 `json:"avg_compliance"`
	TotalSpend    float64 `json:"total_spend"`
}

// SupplierPerformanceRow is one supplier in the performance ranking
type SupplierPerformanceRow struct {
	SupplierID         int64        `json:"id"`
	Name               string       `json:"name"`
	RiskCategory       RiskCategory `json:"risk_category"`
	SupplierType       string       `json:"supplier_type"`
	ComplianceScore    float64      `json:"iso_compliance_score"`
	AnnualSpend        float64      `json:"annual_spend_eur"`
	AssessmentCount    int          `json:"assessment_count"`
	AvgAssessmentScore *float64     `json:"avg_assessment_score"`
	OpenCapas          int          `json:"open_capas"`
	DaysUntilAudit     *int         `json:"days_until_audit"`
	PerformanceIndex   float64      `json:"performance_index"`
}

// PerformanceHistoryPoint is a monthly assessment average for one supplier
type PerformanceHistoryPoint struct {
	Month           string  `json:"month"`
	AvgScore        float64 `json:"avg_score"`
	AssessmentCount int     `json:"assessment_count"`
}

// SupplierPerformanceDetail is the single-supplier performance aggregate
type SupplierPerformanceDetail struct {
	Supplier           SupplierRecord `json:"supplier"`
	DocumentCount      int            `json:"document_count"`
	AssessmentCount    int            `json:"assessment_count"`
	CapaCount          int            `json:"capa_count"`
	AvgAssessmentScore *float64       `json:"avg_assessment_score"`
	ExpiredDocuments   int            `json:"expired_documents"`
	OverdueCapas       int            `json:"overdue_capas"`
}

// CertificateStat is the expiry profile of one document type
type CertificateStat struct {
	DocumentType    string  `json:"document_type"`
	TotalCount      int     `json:"total_count"`
	ValidCount      int     `json:"valid_count"`
	ExpiredCount    int     `json:"expired_count"`
	Expiring30Days  int     `json:"expiring_30_days"`
	Expiring90Days  int     `json:"expiring_90_days"`
	AvgValidityDays float64 `json:"avg_validity_period"`
}

// StandardCompliance is the certification coverage of one standard
type StandardCompliance struct {
	StandardName       string  `json:"standard_name"`
	StandardType       string  `json:"standard_type"`
	TotalSuppliers     int     `json:"total_suppliers"`
	CertifiedSuppliers int     `json:"certified_suppliers"`
	ExpiredCount       int     `json:"expired_count"`
	CertificateCount   int     `json:"certificate_count"`
	ValidCertificates  int     `json:"valid_certificates"`
	AvgCompliance      float64 `json:"avg_compliance"`
}

// RenewalPattern counts certificate renewals per calendar month
type RenewalPattern struct {
	Month             int     `json:"month"`
	Renewals          int     `json:"renewals"`
	AvgRenewalGapDays float64 `json:"avg_renewal_gap"`
}

// AssessmentPerformance groups assessments by type and method
type AssessmentPerformance struct {
	AssessmentType   string  `json:"assessment_type"`
	AssessmentMethod string  `json:"assessment_method"`
	TotalAssessments int     `json:"total_assessments"`
	AvgScore         float64 `json:"avg_score"`
	MinScore         float64 `json:"min_score"`
	MaxScore         float64 `json:"max_score"`
	AvgDuration      float64 `json:"avg_duration"`
	PassedCount      int     `json:"passed_count"`
	CompletedCount   int     `json:"completed_count"`
}

// FindingPattern groups findings by category and severity
type FindingPattern struct {
	Category          string  `json:"category"`
	Severity          string  `json:"severity"`
	FindingCount      int     `json:"finding_count"`
	OpenCount         int     `json:"open_count"`
	ClosedCount       int     `json:"closed_count"`
	AvgResolutionDays float64 `json:"avg_resolution_days"`
}

// AssessorPerformance summarises one assessor (min 3 assessments)
type AssessorPerformance struct {
	Name                 string  `json:"name"`
	AssessmentsConducted int     `json:"assessments_conducted"`
	AvgScoreAssigned     float64 `json:"avg_score_assigned"`
	AvgDuration          float64 `json:"avg_duration"`
	PassCount            int     `json:"pass_count"`
}

// SpendCategoryRow is spend grouped by category, type and primary product category
type SpendCategoryRow struct {
	RiskCategory    RiskCategory `json:"risk_category"`
	SupplierType    string       `json:"supplier_type"`
	PrimaryCategory string       `json:"primary_category"`
	SupplierCount   int          `json:"supplier_count"`
	TotalSpend      float64      `json:"total_spend"`
	AvgSpend        float64      `json:"avg_spend"`
	CriticalSpend   float64      `json:"critical_spend"`
	AvgCompliance   float64      `json:"avg_compliance"`
}

// SpendEfficiencyRow is one supplier in the spend efficiency ranking
// CompliancePerMillion nil = 지출 0 (랭킹 제외)
type SpendEfficiencyRow struct {
	SupplierID           int64        `json:"id"`
	Name                 string       `json:"name"`
	AnnualSpend          float64      `json:"annual_spend_eur"`
	ComplianceScore      float64      `json:"iso_compliance_score"`
	RiskCategory         RiskCategory `json:"risk_category"`
	IssueCount           int          `json:"issue_count"`
	DocumentCount        int          `json:"document_count"`
	CompliancePerMillion *float64     `json:"compliance_per_million_eur"`
}

// CategoryScore is one supplier score tagged with its peer group
type CategoryScore struct {
	RiskCategory RiskCategory `json:"risk_category"`
	SupplierType string       `json:"supplier_type"`
	Score        float64      `json:"score"`
}

// CriticalAlerts are the realtime alert counters
type CriticalAlerts struct {
	ExpiredCertificates int `json:"expired_certificates"`
	OverdueAudits       int `json:"overdue_audits"`
	OverdueCapas        int `json:"overdue_capas"`
	CriticalCompliance  int `json:"critical_compliance"`
}

// PerformanceIndicators are the realtime supplier indicators
type PerformanceIndicators struct {
	AvgComplianceToday   float64 `json:"avg_compliance_today"`
	TotalActiveSuppliers int     `json:"total_active_suppliers"`
	CriticalSuppliers    int     `json:"critical_suppliers"`
}

// RealtimeSnapshot is the raw realtime metric read
type RealtimeSnapshot struct {
	DatabaseTime        time.Time             `json:"current_time"`
	RecentActivityCount int                   `json:"recent_activity_count"`
	Alerts              CriticalAlerts        `json:"critical_alerts"`
	Indicators          PerformanceIndicators `json:"performance_indicators"`
}

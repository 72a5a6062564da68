package contracts

// SupplierCounts is the supplier part of the dashboard KPI read
type SupplierCounts struct {
	Total              int     `json:"total_suppliers"`
	Compliant          int     `json:"compliant_suppliers"` // score >= 75
	HighRisk           int     `json:"high_risk_suppliers"`
	MediumRisk         int     `json:"medium_risk_suppliers"`
	LowRisk            int     `json:"low_risk_suppliers"`
	Active             int     `json:"active_suppliers"`
	OverdueAudits      int     `json:"overdue_audits"`
	Critical           int     `json:"critical_suppliers"`
	Preferred          int     `json:"preferred_suppliers"`
	AvgComplianceScore float64 `json:"avg_compliance_score"`
	TotalAnnualSpend   float64 `json:"total_annual_spend"`
}

// DocumentCounts is the document part of the dashboard KPI read
type DocumentCounts struct {
	Total          int   `json:"total_documents"`
	Valid          int   `json:"valid_documents"`
	Expired        int   `json:"expired_documents"`
	ExpiringSoon   int   `json:"expiring_soon"` // 30일 이내
	Expiring90Days int   `json:"expiring_90_days"`
	Certificates   int   `json:"total_certificates"`
	TotalFileBytes int64 `json:"total_file_bytes"`
}

// AssessmentCounts is the assessment part of the dashboard KPI read
type AssessmentCounts struct {
	Total     int     `json:"total_assessments"`
	Completed int     `json:"completed_assessments"`
	Scheduled int     `json:"scheduled_assessments"`
	Upcoming  int     `json:"upcoming_assessments"`
	Overdue   int     `json:"overdue_assessments"`
	AvgScore  float64 `json:"avg_assessment_score"`
}

// CapaCounts is the CAPA part of the dashboard KPI read
type CapaCounts struct {
	Total     int `json:"total_capas"`
	Open      int `json:"open_capas"`
	Completed int `json:"completed_capas"`
	Overdue   int `json:"overdue_capas"`
	Critical  int `json:"critical_capas"`
}

// DashboardCounts bundles all raw KPI counters
type DashboardCounts struct {
	Suppliers   SupplierCounts   `json:"suppliers"`
	Documents   DocumentCounts   `json:"documents"`
	Assessments AssessmentCounts `json:"assessments"`
	Capas       CapaCounts       `json:"capas"`
	ActiveUsers int              `json:"active_users"`
}

// MonthlyScore is a dashboard trend point
type MonthlyScore struct {
	Month         string  `json:"month"`
	MonthName     string  `json:"month_name,omitempty"`
	AvgScore      float64 `json:"compliance"`
	SupplierCount int     `json:"supplier_count,omitempty"`
}

// SupplierBrief is a compact supplier row used by dashboard lists
type SupplierBrief struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	ComplianceScore float64        `json:"iso_compliance_score"`
	RiskCategory    RiskCategory   `json:"risk_category"`
	Status          SupplierStatus `json:"status"`
	DaysUntilAudit  *int           `json:"days_until_audit"`
	OpenCapaCount   int            `json:"open_capa_count"`
}

// IssueSignals are the raw inputs of the predicted-issues list
type IssueSignals struct {
	LowScoreSuppliers    []SupplierBrief `json:"low_score_suppliers"` // score < 70, 최대 3개
	OverdueAssessments   int             `json:"overdue_assessments"`
	ExpiringCertificates int             `json:"expiring_certificates"` // 30일 이내
	OpenCapas            int             `json:"open_capas"`
}

// DocumentTypeStat is the dashboard document block of one document type (all suppliers)
type DocumentTypeStat struct {
	Type               string  `json:"type"`
	Count              int     `json:"count"`
	ValidCount         int     `json:"valid_count"`
	ExpiringCount      int     `json:"expiring_count"` // 만료일 30일 이내 (이미 만료 포함)
	AvgDaysUntilExpiry float64 `json:"avg_days_until_expiry"`
}

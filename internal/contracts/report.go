package contracts

import "time"

// SupplierReportRow is one line of the supplier compliance report
type SupplierReportRow struct {
	SupplierRecord
	CertificationCount int    `json:"certification_count"`
	Contacts           string `json:"contacts"`
	ContactEmails      string `json:"contact_emails"`
}

// CertificateReportRow is one line of the certificate expiry report
type CertificateReportRow struct {
	DocumentID      int64        `json:"id"`
	DocumentName    string       `json:"document_name"`
	Type            string       `json:"type"`
	IssueDate       *time.Time   `json:"issue_date"`
	ExpiryDate      time.Time    `json:"expiry_date"`
	Status          string       `json:"status"`
	SupplierName    string       `json:"supplier_name"`
	RiskCategory    RiskCategory `json:"risk_category"`
	StandardName    string       `json:"standard_name"`
	DaysUntilExpiry int          `json:"days_until_expiry"`
}

// AssessmentReportRow is one line of the assessment summary report
type AssessmentReportRow struct {
	AssessmentID         int64      `json:"id"`
	SupplierName         string     `json:"supplier_name"`
	AssessmentType       string     `json:"assessment_type"`
	StandardName         string     `json:"standard_name"`
	Status               string     `json:"status"`
	ScheduledDate        *time.Time `json:"scheduled_date"`
	CompletedDate        *time.Time `json:"completed_date"`
	CompliancePercentage *float64   `json:"compliance_percentage"`
	Result               string     `json:"assessment_result"`
	FindingCount         int        `json:"finding_count"`
	OpenFindings         int        `json:"open_findings"`
}

// RiskDistributionRow is the per-category risk report block
type RiskDistributionRow struct {
	RiskCategory      RiskCategory `json:"risk_category"`
	SupplierCount     int          `json:"supplier_count"`
	AvgCompliance     float64      `json:"avg_compliance"`
	AvgSpend          float64      `json:"avg_spend"`
	CriticalSuppliers int          `json:"critical_suppliers"`
}

// FindingSummaryRow is a findings count by severity and category
type FindingSummaryRow struct {
	Severity  string `json:"severity"`
	Category  string `json:"category"`
	Count     int    `json:"count"`
	OpenCount int    `json:"open_count"`
}

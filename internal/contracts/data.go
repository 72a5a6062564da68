package contracts

import (
	"fmt"
	"time"
)

// RiskCategory is the ordinal supplier risk classification (A = highest risk)
type RiskCategory string

const (
	RiskCategoryA RiskCategory = "A"
	RiskCategoryB RiskCategory = "B"
	RiskCategoryC RiskCategory = "C"
)

// Valid reports whether the category is one of A, B, C
func (c RiskCategory) Valid() bool {
	switch c {
	case RiskCategoryA, RiskCategoryB, RiskCategoryC:
		return true
	}
	return false
}

// ParseRiskCategory validates a query/CLI value
func ParseRiskCategory(s string) (RiskCategory, error) {
	c := RiskCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: risk category %q", ErrInvalidInput, s)
	}
	return c, nil
}

// SupplierStatus is the lifecycle state of a supplier
type SupplierStatus string

const (
	SupplierActive     SupplierStatus = "Active"
	SupplierInactive   SupplierStatus = "Inactive"
	SupplierSuspended  SupplierStatus = "Suspended"
	SupplierTerminated SupplierStatus = "Terminated"
)

// CapabilityScores holds the seven sub-scores used by the composite supplier score
type CapabilityScores struct {
	Delivery      float64 `json:"delivery_score"`
	Price         float64 `json:"price_score"`
	Quality       float64 `json:"quality_score"`
	Reliability   float64 `json:"reliability_score"`
	Technical     float64 `json:"technical_knowledge_score"`
	Efficiency    float64 `json:"equipment_efficiency_score"`
	Compatibility float64 `json:"equipment_compatibility_score"`
}

// SupplierRecord is a read-only supplier snapshot
// ⭐ SSOT: 공급사 기본 레코드 (리스크 카테고리와 컴플라이언스 점수는 독립 입력)
type SupplierRecord struct {
	ID                   int64            `json:"id"`
	Name                 string           `json:"name"`
	LegalName            string           `json:"legal_name"`
	SupplierType         string           `json:"supplier_type"`
	ProductCategories    []string         `json:"product_categories"`
	BusinessSector       string           `json:"business_sector"`
	RiskCategory         RiskCategory     `json:"risk_category"`
	ComplianceScore      float64          `json:"iso_compliance_score"` // 0~100
	AnnualSpend          float64          `json:"annual_spend_eur"`
	BusinessCritical     bool             `json:"is_business_critical"`
	PreferredSupplier    bool             `json:"is_preferred_supplier"`
	NextAuditDue         *time.Time       `json:"next_audit_due,omitempty"`
	AuditFrequencyMonths int              `json:"audit_frequency_months"`
	Status               SupplierStatus   `json:"status"`
	Capability           CapabilityScores `json:"capability"`
	City                 string           `json:"address_city"`
	Country              string           `json:"address_country"`
	CreatedBy            int64            `json:"created_by"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`

	// 목록 조회 시 집계 값
	DocumentCount  int  `json:"document_count"`
	OpenCapaCount  int  `json:"open_capa_count"`
	DaysUntilAudit *int `json:"days_until_audit,omitempty"`
}

// SupplierView is a supplier enriched with derived classifications
type SupplierView struct {
	SupplierRecord
	RiskLevel        string  `json:"risk_level"`
	ComplianceStatus string  `json:"compliance_status"`
	AuditStatus      string  `json:"audit_status,omitempty"`
	CompositeScore   float64 `json:"composite_score"`
}

// Contact is a supplier contact person
type Contact struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"is_primary"`
}

// CAPAStatus is the state of a corrective action
type CAPAStatus string

const (
	CAPAAssigned   CAPAStatus = "Assigned"
	CAPAInProgress CAPAStatus = "In_Progress"
	CAPACompleted  CAPAStatus = "Completed"
	CAPAOverdue    CAPAStatus = "Overdue"
)

// IsOpen reports whether the action still counts as open
func (s CAPAStatus) IsOpen() bool {
	return s == CAPAAssigned || s == CAPAInProgress
}

// CorrectiveAction (CAPA) is a tracked remediation task
type CorrectiveAction struct {
	ID         int64      `json:"id"`
	SupplierID int64      `json:"supplier_id"`
	Title      string     `json:"title"`
	Status     CAPAStatus `json:"status"`
	Priority   string     `json:"priority"` // Critical, High, Medium, Low
	DueDate    *time.Time `json:"due_date,omitempty"`
}

// DocumentRecord is a supplier document or certificate
type DocumentRecord struct {
	ID         int64      `json:"id"`
	SupplierID int64      `json:"supplier_id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Status     string     `json:"status"` // Valid, Expired
	IssueDate  *time.Time `json:"issue_date,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	FileSize   int64      `json:"file_size"`
}

// AssessmentRecord is a scheduled or completed supplier assessment
type AssessmentRecord struct {
	ID                   int64      `json:"id"`
	SupplierID           int64      `json:"supplier_id"`
	AssessmentType       string     `json:"assessment_type"`
	Status               string     `json:"status"`
	ScheduledDate        *time.Time `json:"scheduled_date,omitempty"`
	CompletedDate        *time.Time `json:"completed_date,omitempty"`
	CompliancePercentage *float64   `json:"compliance_percentage,omitempty"`
	Result               string     `json:"assessment_result,omitempty"` // Pass, Fail
	DurationHours        *float64   `json:"actual_duration_hours,omitempty"`
	StandardName         string     `json:"standard_name,omitempty"`
}

// SupplierDetail is the full supplier page
type SupplierDetail struct {
	SupplierView
	AssessmentCount    int                `json:"assessment_count"`
	CapaCount          int                `json:"capa_count"`
	CertificationCount int                `json:"certification_count"`
	Contacts           []Contact          `json:"contacts"`
	RecentDocuments    []DocumentRecord   `json:"recent_documents"`
	RecentAssessments  []AssessmentRecord `json:"recent_assessments"`
	ActiveCAPAs        []CorrectiveAction `json:"active_capas"`
}

// SupplierUpdate carries the optional fields of a partial update
// nil 필드는 변경하지 않음
type SupplierUpdate struct {
	Name              *string         `json:"name" validate:"omitempty,min=1,max=255"`
	LegalName         *string         `json:"legal_name" validate:"omitempty,max=255"`
	SupplierType      *string         `json:"supplier_type" validate:"omitempty,max=50"`
	ProductCategories []string        `json:"product_categories"`
	BusinessSector    *string         `json:"business_sector" validate:"omitempty,max=255"`
	RiskCategory      *RiskCategory   `json:"risk_category" validate:"omitempty,oneof=A B C"`
	ComplianceScore   *float64        `json:"iso_compliance_score" validate:"omitempty,gte=0,lte=100"`
	DeliveryScore     *float64        `json:"delivery_score" validate:"omitempty,gte=0,lte=100"`
	PriceScore        *float64        `json:"price_score" validate:"omitempty,gte=0,lte=100"`
	QualityScore      *float64        `json:"quality_score" validate:"omitempty,gte=0,lte=100"`
	ReliabilityScore  *float64        `json:"reliability_score" validate:"omitempty,gte=0,lte=100"`
	AnnualSpend       *float64        `json:"annual_spend_eur" validate:"omitempty,gte=0"`
	BusinessCritical  *bool           `json:"business_critical"`
	PreferredSupplier *bool           `json:"preferred_supplier"`
	Status            *SupplierStatus `json:"status" validate:"omitempty,oneof=Active Inactive Suspended Terminated"`
	City              *string         `json:"address_city" validate:"omitempty,max=100"`
	Country           *string         `json:"address_country" validate:"omitempty,max=100"`
}

// IsEmpty reports whether the update changes nothing
func (u *SupplierUpdate) IsEmpty() bool {
	return u.Name == nil && u.LegalName == nil && u.SupplierType == nil &&
		u.ProductCategories == nil && u.BusinessSector == nil && u.RiskCategory == nil &&
		u.ComplianceScore == nil && u.DeliveryScore == nil && u.PriceScore == nil &&
		u.QualityScore == nil && u.ReliabilityScore == nil && u.AnnualSpend == nil &&
		u.BusinessCritical == nil && u.PreferredSupplier == nil && u.Status == nil &&
		u.City == nil && u.Country == nil
}

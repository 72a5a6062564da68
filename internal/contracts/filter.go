package contracts

import (
	"strings"
	"time"
)

// SortOrder is ASC or DESC
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder accepts asc/desc in any case (default ASC)
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, "desc") {
		return SortDesc
	}
	return SortAsc
}

// Supplier list defaults
const (
	DefaultSupplierLimit = 50
	MaxSupplierLimit     = 500
)

// supplierSortColumns is the sort whitelist
var supplierSortColumns = map[string]bool{
	"name":                 true,
	"risk_category":        true,
	"iso_compliance_score": true,
	"next_audit_due":       true,
	"status":               true,
}

// SupplierFilter is the typed supplier query
// ⭐ SSOT: SQL 문자열 조립 대신 타입 필터 → repository 에서만 SQL 로 컴파일
type SupplierFilter struct {
	Search        string
	RiskCategory  *RiskCategory
	Status        *SupplierStatus
	ComplianceMin *float64
	AuditOverdue  bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SortBy        string
	Order         SortOrder
	Limit         int
	Offset        int
}

// NewSupplierFilter returns the default filter (name ASC, limit 50)
func NewSupplierFilter() SupplierFilter {
	return SupplierFilter{
		SortBy: "name",
		Order:  SortAsc,
		Limit:  DefaultSupplierLimit,
	}
}

// WithSearch matches name, product categories and business sector
func (f SupplierFilter) WithSearch(search string) SupplierFilter {
	f.Search = strings.TrimSpace(search)
	return f
}

// WithRiskCategory restricts to one category; "all" and "" clear it
func (f SupplierFilter) WithRiskCategory(category string) SupplierFilter {
	if category == "" || category == "all" {
		f.RiskCategory = nil
		return f
	}
	c := RiskCategory(category)
	f.RiskCategory = &c
	return f
}

// WithStatus restricts to one status; "all" and "" clear it
func (f SupplierFilter) WithStatus(status string) SupplierFilter {
	if status == "" || status == "all" {
		f.Status = nil
		return f
	}
	s := SupplierStatus(status)
	f.Status = &s
	return f
}

// WithComplianceMin keeps suppliers scoring at least min
func (f SupplierFilter) WithComplianceMin(min float64) SupplierFilter {
	f.ComplianceMin = &min
	return f
}

// WithAuditOverdue keeps suppliers whose next audit is in the past
func (f SupplierFilter) WithAuditOverdue(overdue bool) SupplierFilter {
	f.AuditOverdue = overdue
	return f
}

// WithCreatedBetween restricts the creation date range (nil = open)
func (f SupplierFilter) WithCreatedBetween(from, to *time.Time) SupplierFilter {
	f.CreatedFrom = from
	f.CreatedTo = to
	return f
}

// WithSort sets the order column; columns outside the whitelist fall back to name ASC
func (f SupplierFilter) WithSort(column string, order SortOrder) SupplierFilter {
	if !supplierSortColumns[column] {
		f.SortBy = "name"
		f.Order = SortAsc
		return f
	}
	f.SortBy = column
	f.Order = order
	return f
}

// WithPage sets limit/offset (limit clamped to 1..500, offset >= 0)
func (f SupplierFilter) WithPage(limit, offset int) SupplierFilter {
	if limit <= 0 {
		limit = DefaultSupplierLimit
	}
	if limit > MaxSupplierLimit {
		limit = MaxSupplierLimit
	}
	if offset < 0 {
		offset = 0
	}
	f.Limit = limit
	f.Offset = offset
	return f
}

// CertificateFilter selects certificates for the expiry report
type CertificateFilter struct {
	DaysAhead    int
	DocumentType string
	SupplierID   *int64
}

// NewCertificateFilter returns the 90-day lookahead filter
func NewCertificateFilter() CertificateFilter {
	return CertificateFilter{DaysAhead: 90}
}

// WithDocumentType restricts the document type; "all" and "" clear it
func (f CertificateFilter) WithDocumentType(t string) CertificateFilter {
	if t == "all" {
		t = ""
	}
	f.DocumentType = t
	return f
}

// WithSupplier restricts to one supplier
func (f CertificateFilter) WithSupplier(id int64) CertificateFilter {
	f.SupplierID = &id
	return f
}

// WithDaysAhead sets the lookahead window (non-positive → 90)
func (f CertificateFilter) WithDaysAhead(days int) CertificateFilter {
	if days <= 0 {
		days = 90
	}
	f.DaysAhead = days
	return f
}

// DateRange is an optional [From, To] window
type DateRange struct {
	From *time.Time
	To   *time.Time
}

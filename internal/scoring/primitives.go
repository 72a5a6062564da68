package scoring

import (
	"time"

	"github.com/SKuytov/SVP/internal/contracts"
)

// =============================================================================
// Compliance Status
// =============================================================================

// ComplianceStatus is the textual band of a compliance score
type ComplianceStatus string

const (
	StatusExcellent        ComplianceStatus = "Excellent"
	StatusGood             ComplianceStatus = "Good"
	StatusAcceptable       ComplianceStatus = "Acceptable"
	StatusNeedsImprovement ComplianceStatus = "Needs Improvement"
	StatusCritical         ComplianceStatus = "Critical"
)

// statusTable is a descending list of lower bounds
type statusTable [4]float64

var (
	// strictTable 공급사 CRUD 화면 기준 (95/85/75/60)
	strictTable = statusTable{95, 85, 75, 60}
	// lenientTable 리포트 기준 (90/80/70/50)
	lenientTable = statusTable{90, 80, 70, 50}
)

func (t statusTable) classify(score float64) ComplianceStatus {
	switch {
	case score >= t[0]:
		return StatusExcellent
	case score >= t[1]:
		return StatusGood
	case score >= t[2]:
		return StatusAcceptable
	case score >= t[3]:
		return StatusNeedsImprovement
	default:
		return StatusCritical
	}
}

// ComplianceStatusStrict classifies with the 95/85/75/60 table (supplier registry)
func ComplianceStatusStrict(score float64) ComplianceStatus {
	return strictTable.classify(score)
}

// ComplianceStatusLenient classifies with the 90/80/70/50 table (reports)
func ComplianceStatusLenient(score float64) ComplianceStatus {
	return lenientTable.classify(score)
}

// =============================================================================
// Risk Level
// =============================================================================

// RiskLevel is the combined risk classification
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// ClassifyRisk combines category, score and audit state.
// Category A always forces High regardless of score.
func ClassifyRisk(category contracts.RiskCategory, score float64, auditOverdue bool) RiskLevel {
	if category == contracts.RiskCategoryA || score < 60 || auditOverdue {
		return RiskHigh
	}
	if category == contracts.RiskCategoryB || score < 80 {
		return RiskMedium
	}
	return RiskLow
}

// ClassifyReportRisk is the report variant of ClassifyRisk: audit state is
// not part of it, so a high-scoring C supplier stays Low with a lapsed audit.
func ClassifyReportRisk(category contracts.RiskCategory, score float64) RiskLevel {
	return ClassifyRisk(category, score, false)
}

// =============================================================================
// Audit / Expiry Status
// =============================================================================

// AuditStatus labels the time left until the next audit
type AuditStatus string

const (
	AuditOverdue   AuditStatus = "Overdue"
	AuditDueSoon   AuditStatus = "Due Soon"
	AuditUpcoming  AuditStatus = "Upcoming"
	AuditScheduled AuditStatus = "Scheduled"
)

// ClassifyAudit maps days-until-audit to a status (negative = overdue)
func ClassifyAudit(daysUntilAudit int) AuditStatus {
	switch {
	case daysUntilAudit < 0:
		return AuditOverdue
	case daysUntilAudit <= 30:
		return AuditDueSoon
	case daysUntilAudit <= 90:
		return AuditUpcoming
	default:
		return AuditScheduled
	}
}

// ExpiryStatus labels a certificate by days until expiry
type ExpiryStatus string

const (
	ExpiryExpired  ExpiryStatus = "Expired"
	ExpiryCritical ExpiryStatus = "Critical"
	ExpiryWarning  ExpiryStatus = "Warning"
	ExpiryOK       ExpiryStatus = "OK"
)

// ClassifyExpiry maps days-until-expiry to a status
func ClassifyExpiry(daysUntilExpiry int) ExpiryStatus {
	switch {
	case daysUntilExpiry < 0:
		return ExpiryExpired
	case daysUntilExpiry <= 30:
		return ExpiryCritical
	case daysUntilExpiry <= 90:
		return ExpiryWarning
	default:
		return ExpiryOK
	}
}

// =============================================================================
// Dates
// =============================================================================

// DaysUntil returns whole calendar days from today to date (nil → nil)
func DaysUntil(date *time.Time, today time.Time) *int {
	if date == nil {
		return nil
	}
	d := truncateDay(*date)
	t := truncateDay(today)
	days := int(d.Sub(t).Hours() / 24)
	return &days
}

// IsAuditOverdue reports a strictly negative days-until-audit (nil → false)
func IsAuditOverdue(daysUntilAudit *int) bool {
	return daysUntilAudit != nil && *daysUntilAudit < 0
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// auditFrequency 리스크 카테고리별 감사 주기 (개월)
var auditFrequency = map[contracts.RiskCategory]int{
	contracts.RiskCategoryA: 6,
	contracts.RiskCategoryB: 12,
	contracts.RiskCategoryC: 24,
}

// AuditFrequencyMonths returns the audit cycle for a category (unknown → 12)
func AuditFrequencyMonths(category contracts.RiskCategory) int {
	if months, ok := auditFrequency[category]; ok {
		return months
	}
	return 12
}

// NextAuditDue schedules the next audit from the given date
func NextAuditDue(category contracts.RiskCategory, from time.Time) time.Time {
	return truncateDay(from).AddDate(0, AuditFrequencyMonths(category), 0)
}

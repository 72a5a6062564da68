package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/scoring"
	"github.com/SKuytov/SVP/internal/stats"
)

// =============================================================================
// Supplier compliance report
// =============================================================================

var supplierColumns = []string{
	"id", "name", "legal_name", "supplier_type", "risk_category", "iso_compliance_score",
	"status", "annual_spend_eur", "business_critical", "preferred_supplier", "next_audit_due",
	"address_city", "address_country", "created_at", "document_count", "certification_count",
	"open_capa_count", "contacts", "contact_emails", "compliance_status", "risk_level",
	"days_until_audit", "product_categories",
}

func (g *Generator) suppliers(ctx context.Context, rep *Report, p Params) error {
	filter := contracts.NewSupplierFilter().
		WithRiskCategory(p.RiskCategory).
		WithStatus(p.Status).
		WithCreatedBetween(p.DateFrom, p.DateTo)

	rows, err := g.store.SupplierReport(ctx, filter)
	if err != nil {
		return err
	}

	today := rep.GeneratedAt
	table := &Table{Columns: supplierColumns, Rows: make([][]interface{}, 0, len(rows))}

	var (
		spend    = decimal.Zero
		scores   = make([]float64, 0, len(rows))
		byStatus = map[scoring.ComplianceStatus]int{}
		highRisk int
		critical int
		overdue  int
	)

	for _, r := range rows {
		days := r.DaysUntilAudit
		if days == nil {
			days = scoring.DaysUntil(r.NextAuditDue, today)
		}
		status := scoring.ComplianceStatusLenient(r.ComplianceScore)
		level := scoring.ClassifyReportRisk(r.RiskCategory, r.ComplianceScore)

		table.Rows = append(table.Rows, []interface{}{
			r.ID, r.Name, r.LegalName, r.SupplierType, string(r.RiskCategory), r.ComplianceScore,
			string(r.Status), r.AnnualSpend, r.BusinessCritical, r.PreferredSupplier, dateCell(r.NextAuditDue),
			r.City, r.Country, timestampCell(r.CreatedAt), r.DocumentCount, r.CertificationCount,
			r.OpenCapaCount, r.Contacts, r.ContactEmails, string(status), string(level),
			intCell(days), strings.Join(r.ProductCategories, ", "),
		})

		spend = spend.Add(decimal.NewFromFloat(r.AnnualSpend))
		scores = append(scores, r.ComplianceScore)
		byStatus[status]++
		if level == scoring.RiskHigh {
			highRisk++
		}
		if r.BusinessCritical {
			critical++
		}
		if scoring.IsAuditOverdue(days) {
			overdue++
		}
	}

	rep.Data = table
	rep.Summary = []Field{
		{"total_suppliers", len(rows)},
		{"average_compliance_score", stats.Round(stats.Mean(scores), 1)},
		{"high_risk_suppliers", highRisk},
		{"business_critical_suppliers", critical},
		{"overdue_audits", overdue},
		{"total_annual_spend", spend.StringFixed(2)},
		{"compliance_distribution", statusDistribution(byStatus)},
	}
	return nil
}

var statusOrder = []scoring.ComplianceStatus{
	scoring.StatusExcellent,
	scoring.StatusGood,
	scoring.StatusAcceptable,
	scoring.StatusNeedsImprovement,
	scoring.StatusCritical,
}

func statusDistribution(counts map[scoring.ComplianceStatus]int) string {
	parts := make([]string, 0, len(statusOrder))
	for _, s := range statusOrder {
		parts = append(parts, fmt.Sprintf("%s: %d", s, counts[s]))
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// Certificate expiry report
// =============================================================================

func (g *Generator) certificates(ctx context.Context, rep *Report, p Params) error {
	days := p.DaysAhead
	if days <= 0 {
		days = g.certificateDaysAhead
	}
	filter := contracts.NewCertificateFilter().
		WithDaysAhead(days).
		WithDocumentType(p.DocumentType)
	if p.SupplierID != nil {
		filter = filter.WithSupplier(*p.SupplierID)
	}
	rep.Parameters["days_ahead"] = fmt.Sprint(filter.DaysAhead)

	rows, err := g.store.ExpiringCertificates(ctx, filter)
	if err != nil {
		return err
	}

	table := &Table{
		Columns: []string{
			"id", "document_name", "type", "issue_date", "expiry_date", "status",
			"supplier_name", "risk_category", "standard_name", "days_until_expiry", "expiry_status",
		},
		Rows: make([][]interface{}, 0, len(rows)),
	}

	byStatus := map[scoring.ExpiryStatus]int{}
	suppliers := map[string]struct{}{}
	for _, r := range rows {
		status := scoring.ClassifyExpiry(r.DaysUntilExpiry)
		expiry := r.ExpiryDate
		table.Rows = append(table.Rows, []interface{}{
			r.DocumentID, r.DocumentName, r.Type, dateCell(r.IssueDate), dateCell(&expiry), r.Status,
			r.SupplierName, string(r.RiskCategory), r.StandardName, r.DaysUntilExpiry, string(status),
		})
		byStatus[status]++
		suppliers[r.SupplierName] = struct{}{}
	}

	rep.Data = table
	rep.Summary = []Field{
		{"total_certificates", len(rows)},
		{"expired", byStatus[scoring.ExpiryExpired]},
		{"critical", byStatus[scoring.ExpiryCritical]},
		{"warning", byStatus[scoring.ExpiryWarning]},
		{"ok", byStatus[scoring.ExpiryOK]},
		{"suppliers_affected", len(suppliers)},
	}
	return nil
}

// =============================================================================
// Assessment summary report
// =============================================================================

func (g *Generator) assessments(ctx context.Context, rep *Report, p Params) error {
	rows, err := g.store.AssessmentReport(ctx, contracts.DateRange{From: p.DateFrom, To: p.DateTo})
	if err != nil {
		return err
	}

	table := &Table{
		Columns: []string{
			"id", "supplier_name", "assessment_type", "standard_name", "status", "scheduled_date",
			"completed_date", "compliance_percentage", "assessment_result", "finding_count", "open_findings",
		},
		Rows: make([][]interface{}, 0, len(rows)),
	}

	var (
		completed, passed, failed int
		findings, openFindings    int
		scores                    []float64
	)
	for _, r := range rows {
		table.Rows = append(table.Rows, []interface{}{
			r.AssessmentID, r.SupplierName, r.AssessmentType, r.StandardName, r.Status, dateCell(r.ScheduledDate),
			dateCell(r.CompletedDate), floatCell(r.CompliancePercentage), r.Result, r.FindingCount, r.OpenFindings,
		})

		if r.Status == "Completed" {
			completed++
		}
		switch r.Result {
		case "Pass":
			passed++
		case "Fail":
			failed++
		}
		if r.CompliancePercentage != nil {
			scores = append(scores, *r.CompliancePercentage)
		}
		findings += r.FindingCount
		openFindings += r.OpenFindings
	}

	rep.Data = table
	rep.Summary = []Field{
		{"total_assessments", len(rows)},
		{"completed", completed},
		{"passed", passed},
		{"failed", failed},
		{"pass_rate", stats.Round(stats.Ratio(passed, completed), 1)},
		{"average_compliance", stats.Round(stats.Mean(scores), 1)},
		{"total_findings", findings},
		{"open_findings", openFindings},
	}
	return nil
}

// =============================================================================
// Cells
// =============================================================================

func dateCell(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func timestampCell(t time.Time) interface{} {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func intCell(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

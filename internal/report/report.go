package report

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SKuytov/SVP/internal/contracts"
)

// Report type selectors
const (
	TypeSuppliers    = "suppliers"
	TypeCompliance   = "compliance"
	TypeCertificates = "certificates"
	TypeAssessments  = "assessments"
	TypeRisk         = "risk"
	TypeExecutive    = "executive"
)

// TypeInfo describes one report in the catalogue
type TypeInfo struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Formats     []string `json:"formats"`
	Parameters  []string `json:"parameters"`
}

var catalogue = []TypeInfo{
	{TypeSuppliers, "Supplier Compliance Report", "Complete supplier database with compliance scores",
		[]string{"excel", "pdf", "csv", "html"}, []string{"risk_category", "status", "date_from", "date_to"}},
	{TypeCompliance, "Compliance Analytics Report", "Detailed compliance analysis and trends",
		[]string{"excel", "pdf", "html"}, []string{"months"}},
	{TypeCertificates, "Certificate Expiry Report", "Certificates expiring within specified period",
		[]string{"excel", "pdf", "csv", "html"}, []string{"days_ahead", "document_type", "supplier_id"}},
	{TypeAssessments, "Assessment Summary Report", "Assessment results and findings analysis",
		[]string{"excel", "pdf", "html"}, []string{"date_from", "date_to"}},
	{TypeRisk, "Risk Analysis Report", "Comprehensive risk assessment by category",
		[]string{"excel", "pdf", "html"}, nil},
	{TypeExecutive, "Executive Dashboard Report", "High-level KPIs and executive summary",
		[]string{"pdf", "excel", "html"}, nil},
}

// Types returns the report catalogue
func Types() []TypeInfo {
	out := make([]TypeInfo, len(catalogue))
	copy(out, catalogue)
	return out
}

func lookup(reportType string) (TypeInfo, bool) {
	for _, t := range catalogue {
		if t.Type == reportType {
			return t, true
		}
	}
	return TypeInfo{}, false
}

// =============================================================================
// Report model (exporter input)
// =============================================================================

// Table is a titled grid of cells. Cells hold string, int, float64, bool or nil.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]interface{}
}

// Field is one ordered summary entry
type Field struct {
	Key   string
	Value interface{}
}

// Report is a generated report ready for export
type Report struct {
	Type        string
	Title       string
	GeneratedAt time.Time
	Parameters  map[string]string
	Data        *Table // nil = 상세 표 없음
	Sections    []Table
	Summary     []Field
}

// Primary returns the main table, falling back to the first section
func (r *Report) Primary() *Table {
	if r.Data != nil {
		return r.Data
	}
	if len(r.Sections) > 0 {
		return &r.Sections[0]
	}
	return nil
}

// Filename is "<type>_report_<timestamp>.<ext>"
func (r *Report) Filename(ext string) string {
	return fmt.Sprintf("%s_report_%s.%s", r.Type, r.GeneratedAt.Format("2006-01-02_15-04-05"), ext)
}

// =============================================================================
// Parameters
// =============================================================================

// Params are the report inputs
type Params struct {
	RiskCategory string
	Status       string
	DateFrom     *time.Time
	DateTo       *time.Time
	DaysAhead    int
	DocumentType string
	SupplierID   *int64
	Months       int
}

// ParamsFromQuery reads report parameters from a query string
func ParamsFromQuery(q url.Values) (Params, error) {
	p := Params{
		RiskCategory: q.Get("risk_category"),
		Status:       q.Get("status"),
		DocumentType: q.Get("document_type"),
	}

	var err error
	if p.DateFrom, err = parseDate(q.Get("date_from")); err != nil {
		return p, err
	}
	if p.DateTo, err = parseDate(q.Get("date_to")); err != nil {
		return p, err
	}
	if p.DaysAhead, err = parseInt(q.Get("days_ahead"), "days_ahead"); err != nil {
		return p, err
	}
	if p.Months, err = parseInt(q.Get("months"), "months"); err != nil {
		return p, err
	}
	if s := q.Get("supplier_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return p, fmt.Errorf("%w: supplier_id %q", contracts.ErrInvalidInput, s)
		}
		p.SupplierID = &id
	}
	if p.RiskCategory != "" && p.RiskCategory != "all" {
		if _, err := contracts.ParseRiskCategory(p.RiskCategory); err != nil {
			return p, err
		}
	}
	return p, nil
}

// values echoes the non-empty parameters into the report header
func (p Params) values() map[string]string {
	out := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("risk_category", p.RiskCategory)
	set("status", p.Status)
	set("document_type", p.DocumentType)
	if p.DateFrom != nil {
		out["date_from"] = p.DateFrom.Format("2006-01-02")
	}
	if p.DateTo != nil {
		out["date_to"] = p.DateTo.Format("2006-01-02")
	}
	if p.DaysAhead > 0 {
		out["days_ahead"] = strconv.Itoa(p.DaysAhead)
	}
	if p.Months > 0 {
		out["months"] = strconv.Itoa(p.Months)
	}
	if p.SupplierID != nil {
		out["supplier_id"] = strconv.FormatInt(*p.SupplierID, 10)
	}
	return out
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q (want YYYY-MM-DD)", contracts.ErrInvalidInput, s)
	}
	return &t, nil
}

func parseInt(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %q", contracts.ErrInvalidInput, name, s)
	}
	return n, nil
}

// =============================================================================
// Generator
// =============================================================================

// Store is the read surface used by the report generator
type Store interface {
	SupplierReport(ctx context.Context, filter contracts.SupplierFilter) ([]contracts.SupplierReportRow, error)
	ComplianceTrends(ctx context.Context, window contracts.TrendWindow) ([]contracts.ComplianceTrendPoint, error)
	StandardCompliance(ctx context.Context) ([]contracts.StandardCompliance, error)
	FindingSummary(ctx context.Context) ([]contracts.FindingSummaryRow, error)
	ExpiringCertificates(ctx context.Context, filter contracts.CertificateFilter) ([]contracts.CertificateReportRow, error)
	AssessmentReport(ctx context.Context, period contracts.DateRange) ([]contracts.AssessmentReportRow, error)
	RiskDistribution(ctx context.Context) ([]contracts.RiskDistributionRow, error)
	HighRiskSuppliers(ctx context.Context) ([]contracts.RiskFactorRecord, error)
	DashboardCounts(ctx context.Context) (*contracts.DashboardCounts, error)
	MonthlyScores(ctx context.Context, months int) ([]contracts.MonthlyScore, error)
	SupplierPerformance(ctx context.Context, months int) ([]contracts.SupplierPerformanceRow, error)
}

// Generator builds reports from the store
// ⭐ SSOT: 리포트는 lenient 컴플라이언스 기준 (90/80/70/50)
type Generator struct {
	store                Store
	complianceMonths     int
	certificateDaysAhead int
	now                  func() time.Time
	log                  zerolog.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithClock injects the generation timestamp source
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithDefaults sets the windows used when a request leaves months or
// days_ahead empty (non-positive values keep 12 months / 90 days)
func WithDefaults(complianceMonths, certificateDaysAhead int) Option {
	return func(g *Generator) {
		if complianceMonths > 0 {
			g.complianceMonths = complianceMonths
		}
		if certificateDaysAhead > 0 {
			g.certificateDaysAhead = certificateDaysAhead
		}
	}
}

// NewGenerator creates a report generator
func NewGenerator(store Store, log zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{
		store:                store,
		complianceMonths:     12,
		certificateDaysAhead: 90,
		now:                  time.Now,
		log:                  log.With().Str("component", "report").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the named report.
// An unknown type returns an error wrapping contracts.ErrUnknownCategory.
func (g *Generator) Generate(ctx context.Context, reportType string, p Params) (*Report, error) {
	info, ok := lookup(reportType)
	if !ok {
		return nil, fmt.Errorf("%w: report type %q", contracts.ErrUnknownCategory, reportType)
	}

	rep := &Report{
		Type:        info.Type,
		Title:       info.Name,
		GeneratedAt: g.now(),
		Parameters:  p.values(),
	}

	var err error
	switch reportType {
	case TypeSuppliers:
		err = g.suppliers(ctx, rep, p)
	case TypeCompliance:
		err = g.compliance(ctx, rep, p)
	case TypeCertificates:
		err = g.certificates(ctx, rep, p)
	case TypeAssessments:
		err = g.assessments(ctx, rep, p)
	case TypeRisk:
		err = g.risk(ctx, rep)
	case TypeExecutive:
		err = g.executive(ctx, rep)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s report: %w", reportType, err)
	}

	g.log.Debug().
		Str("type", reportType).
		Int("sections", len(rep.Sections)).
		Msg("Report generated")
	return rep, nil
}

package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만
// 구현은 internal/repository (pgx), 테스트는 인메모리 fake

// SupplierRepository manages the supplier registry
type SupplierRepository interface {
	List(ctx context.Context, filter SupplierFilter) ([]SupplierRecord, error)
	Get(ctx context.Context, id int64) (*SupplierRecord, error)
	GetDetail(ctx context.Context, id int64) (*SupplierDetail, error)
	Create(ctx context.Context, supplier *SupplierRecord, contact *Contact) (int64, error)
	Update(ctx context.Context, id int64, update *SupplierUpdate) error
	SetStatus(ctx context.Context, id int64, status SupplierStatus) error
}

// TrendRepository serves compliance trend reads
type TrendRepository interface {
	ComplianceTrends(ctx context.Context, window TrendWindow) ([]ComplianceTrendPoint, error)
	CategoryTrends(ctx context.Context, window TrendWindow) ([]CategoryTrendPoint, error)
	ScoreChanges(ctx context.Context, months int) ([]ScoreChange, error)
}

// RiskRepository serves risk analysis reads
type RiskRepository interface {
	RiskMatrix(ctx context.Context) ([]RiskMatrixCell, error)
	RiskFactors(ctx context.Context) ([]RiskFactorRecord, error)
	GeographicRisk(ctx context.Context) ([]GeoRiskRow, error)
	RiskDistribution(ctx context.Context) ([]RiskDistributionRow, error)
	HighRiskSuppliers(ctx context.Context) ([]RiskFactorRecord, error)
}

// PerformanceRepository serves supplier performance reads
type PerformanceRepository interface {
	SupplierPerformance(ctx context.Context, months int) ([]SupplierPerformanceRow, error)
	SupplierPerformanceDetail(ctx context.Context, supplierID int64) (*SupplierPerformanceDetail, error)
	PerformanceHistory(ctx context.Context, supplierID int64, months int) ([]PerformanceHistoryPoint, error)
	BenchmarkScores(ctx context.Context) ([]CategoryScore, error)
}

// CertificateRepository serves document/certificate reads
type CertificateRepository interface {
	CertificateStats(ctx context.Context) ([]CertificateStat, error)
	StandardCompliance(ctx context.Context) ([]StandardCompliance, error)
	RenewalPatterns(ctx context.Context) ([]RenewalPattern, error)
	ExpiringCertificates(ctx context.Context, filter CertificateFilter) ([]CertificateReportRow, error)
}

// AssessmentRepository serves assessment reads
type AssessmentRepository interface {
	AssessmentPerformance(ctx context.Context) ([]AssessmentPerformance, error)
	FindingPatterns(ctx context.Context) ([]FindingPattern, error)
	AssessorPerformance(ctx context.Context) ([]AssessorPerformance, error)
	FindingSummary(ctx context.Context) ([]FindingSummaryRow, error)
	AssessmentReport(ctx context.Context, period DateRange) ([]AssessmentReportRow, error)
}

// SpendRepository serves spend reads
type SpendRepository interface {
	SpendByCategory(ctx context.Context) ([]SpendCategoryRow, error)
	SpendEfficiency(ctx context.Context) ([]SpendEfficiencyRow, error)
}

// PredictionRepository serves the predictive heuristic inputs
type PredictionRepository interface {
	PredictionInputs(ctx context.Context) ([]RiskFactorRecord, error)
}

// DashboardRepository serves the dashboard KPI reads
type DashboardRepository interface {
	DashboardCounts(ctx context.Context) (*DashboardCounts, error)
	MonthlyScores(ctx context.Context, months int) ([]MonthlyScore, error)
	TopPerformers(ctx context.Context, limit int) ([]SupplierBrief, error)
	NeedingAttention(ctx context.Context, limit int) ([]SupplierBrief, error)
	IssueSignals(ctx context.Context) (*IssueSignals, error)
	DocumentStatistics(ctx context.Context) ([]DocumentTypeStat, error)
	Realtime(ctx context.Context) (*RealtimeSnapshot, error)
	SupplierReport(ctx context.Context, filter SupplierFilter) ([]SupplierReportRow, error)
}

// ActivityRepository persists the activity log
type ActivityRepository interface {
	Record(ctx context.Context, entry *ActivityEntry) error
	Recent(ctx context.Context, limit int) ([]ActivityEntry, error)
}

// TemplateRepository persists saved report templates and dashboards
type TemplateRepository interface {
	SaveReportTemplate(ctx context.Context, tpl *ReportTemplate) (int64, error)
	SaveAnalyticsDashboard(ctx context.Context, dash *AnalyticsDashboard) (int64, error)
}

// MaintenanceRepository runs the scheduled status sweeps
type MaintenanceRepository interface {
	ExpireDocuments(ctx context.Context, today time.Time) (int64, error)
	MarkOverdueCAPAs(ctx context.Context, today time.Time) (int64, error)
}

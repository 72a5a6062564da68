package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/SKuytov/SVP/internal/contracts"
)

// fakeStore is an in-memory AnalyticsStore
type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int

	trends      []contracts.ComplianceTrendPoint
	categories  []contracts.CategoryTrendPoint
	changes     []contracts.ScoreChange
	matrix      []contracts.RiskMatrixCell
	factors     []contracts.RiskFactorRecord
	geo         []contracts.GeoRiskRow
	performance []contracts.SupplierPerformanceRow
	detail      *contracts.SupplierPerformanceDetail
	history     []contracts.PerformanceHistoryPoint
	benchmarks  []contracts.CategoryScore
	certStats   []contracts.CertificateStat
	standards   []contracts.StandardCompliance
	renewals    []contracts.RenewalPattern
	assessPerf  []contracts.AssessmentPerformance
	findings    []contracts.FindingPattern
	assessors   []contracts.AssessorPerformance
	spend       []contracts.SpendCategoryRow
	efficiency  []contracts.SpendEfficiencyRow
	counts      contracts.DashboardCounts
	monthly     []contracts.MonthlyScore
	top         []contracts.SupplierBrief
	attention   []contracts.SupplierBrief
	signals     contracts.IssueSignals
	docStats    []contracts.DocumentTypeStat
	realtime    contracts.RealtimeSnapshot
	err         error
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: make(map[string]int)}
}

func (f *fakeStore) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) ComplianceTrends(ctx context.Context, w contracts.TrendWindow) ([]contracts.ComplianceTrendPoint, error) {
	return f.trends, f.hit("ComplianceTrends")
}
func (f *fakeStore) CategoryTrends(ctx context.Context, w contracts.TrendWindow) ([]contracts.CategoryTrendPoint, error) {
	return f.categories, f.hit("CategoryTrends")
}
func (f *fakeStore) ScoreChanges(ctx context.Context, months int) ([]contracts.ScoreChange, error) {
	return f.changes, f.hit("ScoreChanges")
}
func (f *fakeStore) RiskMatrix(ctx context.Context) ([]contracts.RiskMatrixCell, error) {
	return f.matrix, f.hit("RiskMatrix")
}
func (f *fakeStore) RiskFactors(ctx context.Context) ([]contracts.RiskFactorRecord, error) {
	return f.factors, f.hit("RiskFactors")
}
func (f *fakeStore) GeographicRisk(ctx context.Context) ([]contracts.GeoRiskRow, error) {
	return f.geo, f.hit("GeographicRisk")
}
func (f *fakeStore) RiskDistribution(ctx context.Context) ([]contracts.RiskDistributionRow, error) {
	return nil, f.hit("RiskDistribution")
}
func (f *fakeStore) HighRiskSuppliers(ctx context.Context) ([]contracts.RiskFactorRecord, error) {
	return nil, f.hit("HighRiskSuppliers")
}
func (f *fakeStore) SupplierPerformance(ctx context.Context, months int) ([]contracts.SupplierPerformanceRow, error) {
	return f.performance, f.hit("SupplierPerformance")
}
func (f *fakeStore) SupplierPerformanceDetail(ctx context.Context, id int64) (*contracts.SupplierPerformanceDetail, error) {
	if err := f.hit("SupplierPerformanceDetail"); err != nil {
		return nil, err
	}
	if f.detail == nil {
		return nil, contracts.ErrNotFound
	}
	return f.detail, nil
}
func (f *fakeStore) PerformanceHistory(ctx context.Context, id int64, months int) ([]contracts.PerformanceHistoryPoint, error) {
	return f.history, f.hit("PerformanceHistory")
}
func (f *fakeStore) BenchmarkScores(ctx context.Context) ([]contracts.CategoryScore, error) {
	return f.benchmarks, f.hit("BenchmarkScores")
}
func (f *fakeStore) CertificateStats(ctx context.Context) ([]contracts.CertificateStat, error) {
	return f.certStats, f.hit("CertificateStats")
}
func (f *fakeStore) StandardCompliance(ctx context.Context) ([]contracts.StandardCompliance, error) {
	return f.standards, f.hit("StandardCompliance")
}
func (f *fakeStore) RenewalPatterns(ctx context.Context) ([]contracts.RenewalPattern, error) {
	return f.renewals, f.hit("RenewalPatterns")
}
func (f *fakeStore) ExpiringCertificates(ctx context.Context, filter contracts.CertificateFilter) ([]contracts.CertificateReportRow, error) {
	return nil, f.hit("ExpiringCertificates")
}
func (f *fakeStore) AssessmentPerformance(ctx context.Context) ([]contracts.AssessmentPerformance, error) {
	return f.assessPerf, f.hit("AssessmentPerformance")
}
func (f *fakeStore) FindingPatterns(ctx context.Context) ([]contracts.FindingPattern, error) {
	return f.findings, f.hit("FindingPatterns")
}
func (f *fakeStore) AssessorPerformance(ctx context.Context) ([]contracts.AssessorPerformance, error) {
	return f.assessors, f.hit("AssessorPerformance")
}
func (f *fakeStore) FindingSummary(ctx context.Context) ([]contracts.FindingSummaryRow, error) {
	return nil, f.hit("FindingSummary")
}
func (f *fakeStore) AssessmentReport(ctx context.Context, period contracts.DateRange) ([]contracts.AssessmentReportRow, error) {
	return nil, f.hit("AssessmentReport")
}
func (f *fakeStore) SpendByCategory(ctx context.Context) ([]contracts.SpendCategoryRow, error) {
	return f.spend, f.hit("SpendByCategory")
}
func (f *fakeStore) SpendEfficiency(ctx context.Context) ([]contracts.SpendEfficiencyRow, error) {
	return f.efficiency, f.hit("SpendEfficiency")
}
func (f *fakeStore) PredictionInputs(ctx context.Context) ([]contracts.RiskFactorRecord, error) {
	return f.factors, f.hit("PredictionInputs")
}
func (f *fakeStore) DashboardCounts(ctx context.Context) (*contracts.DashboardCounts, error) {
	c := f.counts
	return &c, f.hit("DashboardCounts")
}
func (f *fakeStore) MonthlyScores(ctx context.Context, months int) ([]contracts.MonthlyScore, error) {
	return f.monthly, f.hit("MonthlyScores")
}
func (f *fakeStore) TopPerformers(ctx context.Context, limit int) ([]contracts.SupplierBrief, error) {
	return f.top, f.hit("TopPerformers")
}
func (f *fakeStore) NeedingAttention(ctx context.Context, limit int) ([]contracts.SupplierBrief, error) {
	return f.attention, f.hit("NeedingAttention")
}
func (f *fakeStore) IssueSignals(ctx context.Context) (*contracts.IssueSignals, error) {
	s := f.signals
	return &s, f.hit("IssueSignals")
}
func (f *fakeStore) DocumentStatistics(ctx context.Context) ([]contracts.DocumentTypeStat, error) {
	return f.docStats, f.hit("DocumentStatistics")
}
func (f *fakeStore) Realtime(ctx context.Context) (*contracts.RealtimeSnapshot, error) {
	r := f.realtime
	return &r, f.hit("Realtime")
}
func (f *fakeStore) SupplierReport(ctx context.Context, filter contracts.SupplierFilter) ([]contracts.SupplierReportRow, error) {
	return nil, f.hit("SupplierReport")
}

// memoryCache is a JSON round-tripping BundleCache
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memoryCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

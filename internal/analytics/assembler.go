package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/forecast"
	"github.com/SKuytov/SVP/internal/risk"
)

// Settings tunes windows and list sizes of the bundles
type Settings struct {
	TrendMonths          int           // compliance-trends 기본 기간
	ScoreChangeMonths    int           // 점수 변동 비교 기간
	PerformanceMonths    int           // supplier-performance 평가 기간
	RankingSize          int           // top/under performers 개수
	EfficiencyLimit      int           // spend efficiency 랭킹 개수
	DashboardTrendMonths int           // 대시보드 추이 기간
	DashboardListSize    int           // 대시보드 목록 개수
	CacheTTL             time.Duration // 0 = 캐시 안 함
}

// DefaultSettings returns the production defaults
func DefaultSettings() Settings {
	return Settings{
		TrendMonths:          12,
		ScoreChangeMonths:    3,
		PerformanceMonths:    12,
		RankingSize:          10,
		EfficiencyLimit:      20,
		DashboardTrendMonths: 6,
		DashboardListSize:    5,
		CacheTTL:             5 * time.Minute,
	}
}

// Request selects one analytics bundle
type Request struct {
	Type        string
	Months      int
	Granularity contracts.Granularity
	SupplierID  *int64
}

// Assembler composes scoring outputs into analytics bundles
// ⭐ SSOT: 분석 번들 조립은 여기서만 (계산은 scoring/stats/risk/forecast)
type Assembler struct {
	store     contracts.AnalyticsStore
	engine    *risk.Engine
	predictor *forecast.Predictor
	filler    TrendFiller
	cache     contracts.BundleCache
	settings  Settings
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures an Assembler
type Option func(*Assembler)

// WithClock injects the generation timestamp source
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithFiller injects the trend filler (default NoopFiller)
func WithFiller(f TrendFiller) Option {
	return func(a *Assembler) {
		if f != nil {
			a.filler = f
		}
	}
}

// WithCache enables bundle caching
func WithCache(c contracts.BundleCache) Option {
	return func(a *Assembler) { a.cache = c }
}

// WithSettings overrides the default settings
func WithSettings(s Settings) Option {
	return func(a *Assembler) { a.settings = s }
}

// NewAssembler creates an assembler over the read store
func NewAssembler(store contracts.AnalyticsStore, log zerolog.Logger, opts ...Option) *Assembler {
	a := &Assembler{
		store:     store,
		engine:    risk.NewEngine(),
		predictor: forecast.NewPredictor(log),
		filler:    NoopFiller{},
		settings:  DefaultSettings(),
		now:       time.Now,
		log:       log.With().Str("component", "analytics.assembler").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build dispatches on the analytics type.
// An unknown type returns an error wrapping contracts.ErrUnknownCategory.
func (a *Assembler) Build(ctx context.Context, req Request) (interface{}, error) {
	req = a.normalize(req)

	switch req.Type {
	case TypeComplianceTrends:
		return cached(ctx, a, req, a.ComplianceTrends)
	case TypeRiskAnalysis:
		return cached(ctx, a, req, a.RiskAnalysis)
	case TypeSupplierPerformance:
		return cached(ctx, a, req, a.SupplierPerformance)
	case TypeCertificateAnalytics:
		return cached(ctx, a, req, a.CertificateAnalytics)
	case TypeAssessmentInsights:
		return cached(ctx, a, req, a.AssessmentInsights)
	case TypeSpendAnalysis:
		return cached(ctx, a, req, a.SpendAnalysis)
	case TypePredictive:
		return cached(ctx, a, req, a.Predictive)
	case TypeBenchmarking:
		return cached(ctx, a, req, a.Benchmarking)
	case TypeRealtime:
		return a.Realtime(ctx, req)
	case TypeExecutiveSummary:
		return cached(ctx, a, req, a.ExecutiveSummary)
	default:
		return nil, fmt.Errorf("%w: analytics type %q", contracts.ErrUnknownCategory, req.Type)
	}
}

// CachedTypes lists the selectors that the warm-up job may pre-compute
func CachedTypes() []string {
	return []string{
		TypeComplianceTrends,
		TypeRiskAnalysis,
		TypeSupplierPerformance,
		TypeCertificateAnalytics,
		TypeAssessmentInsights,
		TypeSpendAnalysis,
		TypePredictive,
		TypeBenchmarking,
		TypeExecutiveSummary,
	}
}

// Invalidate drops every cached bundle, whatever its parameters
func (a *Assembler) Invalidate(ctx context.Context) error {
	if a.cache == nil {
		return nil
	}
	n, err := a.cache.DeletePrefix(ctx, cacheNamespace)
	if err != nil {
		return fmt.Errorf("failed to invalidate analytics cache: %w", err)
	}
	a.log.Debug().Int("keys", n).Msg("analytics cache invalidated")
	return nil
}

func (a *Assembler) normalize(req Request) Request {
	if req.Months <= 0 {
		switch req.Type {
		case TypeSupplierPerformance:
			req.Months = a.settings.PerformanceMonths
		default:
			req.Months = a.settings.TrendMonths
		}
	}
	if req.Granularity == "" {
		req.Granularity = contracts.GranularityMonth
	}
	return req
}

func (a *Assembler) meta(req Request, title string) Meta {
	params := map[string]interface{}{
		"months":      req.Months,
		"granularity": string(req.Granularity),
	}
	if req.SupplierID != nil {
		params["supplier_id"] = *req.SupplierID
	}
	return Meta{
		Type:        req.Type,
		Title:       title,
		GeneratedAt: a.now().UTC(),
		Parameters:  params,
	}
}

// cacheNamespace prefixes every bundle key
const cacheNamespace = "analytics:"

func cacheKey(req Request) string {
	supplier := "all"
	if req.SupplierID != nil {
		supplier = fmt.Sprintf("%d", *req.SupplierID)
	}
	return fmt.Sprintf("%s%s:%d:%s:%s", cacheNamespace, req.Type, req.Months, req.Granularity, supplier)
}

// cached serves a bundle from the cache or builds and stores it.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, a *Assembler, req Request, build func(context.Context, Request) (*T, error)) (*T, error) {
	key := cacheKey(req)

	if a.cache != nil && a.settings.CacheTTL > 0 {
		var hit T
		found, err := a.cache.Get(ctx, key, &hit)
		if err != nil {
			a.log.Warn().Err(err).Str("key", key).Msg("bundle cache read failed")
		} else if found {
			return &hit, nil
		}
	}

	bundle, err := build(ctx, req)
	if err != nil {
		return nil, err
	}

	if a.cache != nil && a.settings.CacheTTL > 0 {
		if err := a.cache.Set(ctx, key, bundle, a.settings.CacheTTL); err != nil {
			a.log.Warn().Err(err).Str("key", key).Msg("bundle cache write failed")
		}
	}
	return bundle, nil
}

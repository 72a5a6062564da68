package contracts

import (
	"context"
	"time"
)

// AnalyticsStore aggregates every read the analytics assembler needs
// ⭐ SSOT: 분석 조립기가 의존하는 읽기 전용 인터페이스
type AnalyticsStore interface {
	TrendRepository
	RiskRepository
	PerformanceRepository
	CertificateRepository
	AssessmentRepository
	SpendRepository
	PredictionRepository
	DashboardRepository
}

// ActivityRecorder records user actions with an explicit actor
type ActivityRecorder interface {
	Log(ctx context.Context, actor Identity, action, resource string, resourceID *int64, oldValues, newValues interface{}) error
}

// BundleCache caches computed analytics bundles
type BundleCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

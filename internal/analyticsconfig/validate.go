package analyticsconfig

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// cronParser matches the scheduler (seconds field enabled)
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Analytics ===
	positive := []struct {
		field string
		value int
	}{
		{"analytics.trend_months", cfg.Analytics.TrendMonths},
		{"analytics.score_change_months", cfg.Analytics.ScoreChangeMonths},
		{"analytics.performance_months", cfg.Analytics.PerformanceMonths},
		{"analytics.ranking_size", cfg.Analytics.RankingSize},
		{"analytics.efficiency_limit", cfg.Analytics.EfficiencyLimit},
		{"analytics.dashboard_trend_months", cfg.Analytics.DashboardTrendMonths},
		{"analytics.dashboard_list_size", cfg.Analytics.DashboardListSize},
		{"reports.certificate_days_ahead", cfg.Reports.CertificateDaysAhead},
		{"reports.compliance_months", cfg.Reports.ComplianceMonths},
		{"realtime.max_clients", cfg.Realtime.MaxClients},
		{"activity.feed_limit", cfg.Activity.FeedLimit},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return ValidationError{p.field, "must be > 0"}
		}
	}

	if cfg.Analytics.TrendMonths > 60 {
		return ValidationError{"analytics.trend_months", "must be <= 60"}
	}
	if cfg.Analytics.CacheTTL < 0 {
		return ValidationError{"analytics.cache_ttl", "must be >= 0 (0 disables caching)"}
	}

	// === Realtime ===
	if cfg.Realtime.PushInterval <= 0 {
		return ValidationError{"realtime.push_interval", "must be > 0"}
	}

	// === Scheduler ===
	schedules := map[string]string{
		"scheduler.document_expiry": cfg.Scheduler.DocumentExpiry,
		"scheduler.capa_overdue":    cfg.Scheduler.CapaOverdue,
		"scheduler.cache_warmup":    cfg.Scheduler.CacheWarmup,
	}
	for field, expr := range schedules {
		if expr == "" {
			return ValidationError{field, "required"}
		}
		if _, err := cronParser.Parse(expr); err != nil {
			return ValidationError{field, err.Error()}
		}
	}
	if cfg.Scheduler.MaxRetries < 0 {
		return ValidationError{"scheduler.max_retries", "must be >= 0"}
	}
	if cfg.Scheduler.RetryDelay < 0 {
		return ValidationError{"scheduler.retry_delay", "must be >= 0"}
	}

	return nil
}

package analyticsconfig

import (
	"time"

	"github.com/SKuytov/SVP/internal/analytics"
)

// Config is the domain tuning file of the analytics backend
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Analytics Analytics `yaml:"analytics" json:"analytics"`
	Reports   Reports   `yaml:"reports" json:"reports"`
	Realtime  Realtime  `yaml:"realtime" json:"realtime"`
	Scheduler Scheduler `yaml:"scheduler" json:"scheduler"`
	Activity  Activity  `yaml:"activity" json:"activity"`
}

// Meta 메타 정보
type Meta struct {
	Profile string `yaml:"profile" json:"profile"`
	Version string `yaml:"version" json:"version"`
}

// Analytics tunes the bundle assembler
type Analytics struct {
	TrendMonths          int           `yaml:"trend_months" json:"trend_months"`
	ScoreChangeMonths    int           `yaml:"score_change_months" json:"score_change_months"`
	PerformanceMonths    int           `yaml:"performance_months" json:"performance_months"`
	RankingSize          int           `yaml:"ranking_size" json:"ranking_size"`
	EfficiencyLimit      int           `yaml:"efficiency_limit" json:"efficiency_limit"`
	DashboardTrendMonths int           `yaml:"dashboard_trend_months" json:"dashboard_trend_months"`
	DashboardListSize    int           `yaml:"dashboard_list_size" json:"dashboard_list_size"`
	CacheTTL             time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
	DemoFiller           bool          `yaml:"demo_filler" json:"demo_filler"` // 운영에서는 false
	DemoSeed             int64         `yaml:"demo_seed" json:"demo_seed"`
}

// Reports tunes the report generator defaults
type Reports struct {
	CertificateDaysAhead int `yaml:"certificate_days_ahead" json:"certificate_days_ahead"`
	ComplianceMonths     int `yaml:"compliance_months" json:"compliance_months"`
}

// Realtime tunes the websocket feed
type Realtime struct {
	PushInterval time.Duration `yaml:"push_interval" json:"push_interval"`
	MaxClients   int           `yaml:"max_clients" json:"max_clients"`
}

// Scheduler holds the cron expressions (with seconds field)
type Scheduler struct {
	DocumentExpiry string        `yaml:"document_expiry" json:"document_expiry"`
	CapaOverdue    string        `yaml:"capa_overdue" json:"capa_overdue"`
	CacheWarmup    string        `yaml:"cache_warmup" json:"cache_warmup"`
	MaxRetries     int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// Activity tunes the activity feed
type Activity struct {
	FeedLimit int `yaml:"feed_limit" json:"feed_limit"`
}

// Default returns the built-in configuration used when no file is given
func Default() *Config {
	s := analytics.DefaultSettings()
	return &Config{
		Meta: Meta{Profile: "default", Version: "1"},
		Analytics: Analytics{
			TrendMonths:          s.TrendMonths,
			ScoreChangeMonths:    s.ScoreChangeMonths,
			PerformanceMonths:    s.PerformanceMonths,
			RankingSize:          s.RankingSize,
			EfficiencyLimit:      s.EfficiencyLimit,
			DashboardTrendMonths: s.DashboardTrendMonths,
			DashboardListSize:    s.DashboardListSize,
			CacheTTL:             s.CacheTTL,
			DemoSeed:             42,
		},
		Reports: Reports{
			CertificateDaysAhead: 90,
			ComplianceMonths:     12,
		},
		Realtime: Realtime{
			PushInterval: 30 * time.Second,
			MaxClients:   256,
		},
		Scheduler: Scheduler{
			DocumentExpiry: "0 5 0 * * *",
			CapaOverdue:    "0 10 0 * * *",
			CacheWarmup:    "0 */10 * * * *",
			MaxRetries:     3,
			RetryDelay:     time.Minute,
		},
		Activity: Activity{FeedLimit: 15},
	}
}

// Settings converts the analytics block into assembler settings
func (c *Config) Settings() analytics.Settings {
	return analytics.Settings{
		TrendMonths:          c.Analytics.TrendMonths,
		ScoreChangeMonths:    c.Analytics.ScoreChangeMonths,
		PerformanceMonths:    c.Analytics.PerformanceMonths,
		RankingSize:          c.Analytics.RankingSize,
		EfficiencyLimit:      c.Analytics.EfficiencyLimit,
		DashboardTrendMonths: c.Analytics.DashboardTrendMonths,
		DashboardListSize:    c.Analytics.DashboardListSize,
		CacheTTL:             c.Analytics.CacheTTL,
	}
}

// RealtimePushSchedule is the cron descriptor of the websocket push job
func (c *Config) RealtimePushSchedule() string {
	return "@every " + c.Realtime.PushInterval.String()
}

// Filler returns the trend filler selected by the config
func (c *Config) Filler() analytics.TrendFiller {
	if c.Analytics.DemoFiller {
		return analytics.NewDemoFiller(c.Analytics.DemoSeed)
	}
	return analytics.NoopFiller{}
}

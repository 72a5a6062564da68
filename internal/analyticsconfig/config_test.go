package analyticsconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/internal/analytics"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, analytics.DefaultSettings(), cfg.Settings())
	assert.IsType(t, analytics.NoopFiller{}, cfg.Filler())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RepositoryFile(t *testing.T) {
	path := "../../config/analytics.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Analytics.DemoFiller)
}

func TestParse(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(`
analytics:
  trend_months: 24
  cache_ttl: 90s
  demo_filler: true
  demo_seed: 7
realtime:
  push_interval: 10s
`))
		require.NoError(t, err)
		assert.Equal(t, 24, cfg.Analytics.TrendMonths)
		assert.Equal(t, 90*time.Second, cfg.Analytics.CacheTTL)
		assert.Equal(t, 10*time.Second, cfg.Realtime.PushInterval)
		assert.Equal(t, "@every 10s", cfg.RealtimePushSchedule())
		assert.Equal(t, 3, cfg.Analytics.ScoreChangeMonths)
		assert.Equal(t, "0 */10 * * * *", cfg.Scheduler.CacheWarmup)

		f, ok := cfg.Filler().(*analytics.DemoFiller)
		require.True(t, ok)
		assert.NotNil(t, f)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := Parse([]byte("analytics:\n  trend_monts: 6\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "trend_monts")
	})

	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"zero window", "analytics:\n  trend_months: 0\n", "analytics.trend_months"},
		{"window too long", "analytics:\n  trend_months: 120\n", "analytics.trend_months"},
		{"negative ttl", "analytics:\n  cache_ttl: -1s\n", "analytics.cache_ttl"},
		{"bad cron", "scheduler:\n  cache_warmup: \"every ten minutes\"\n", "scheduler.cache_warmup"},
		{"empty cron", "scheduler:\n  capa_overdue: \"\"\n", "scheduler.capa_overdue"},
		{"zero push", "realtime:\n  push_interval: 0s\n", "realtime.push_interval"},
		{"feed limit", "activity:\n  feed_limit: 0\n", "activity.feed_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			var ve ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meta:\n  profile: staging\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Meta.Profile)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Run("empty file keeps defaults", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(empty, []byte("# nothing tuned yet\n"), 0o600))

		cfg, err := Load(empty)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("error names the file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("analytics:\n  trend_months: 0\n"), 0o600))

		_, err := Load(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.yaml")
	})
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(Default())
	require.NoError(t, err)
	assert.Len(t, a, fingerprintLen)

	b, _ := Fingerprint(Default())
	assert.Equal(t, a, b)

	changed := Default()
	changed.Analytics.RankingSize = 20
	c, _ := Fingerprint(changed)
	assert.NotEqual(t, a, c)
}

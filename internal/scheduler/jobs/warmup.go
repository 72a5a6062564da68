package jobs

import (
	"context"
	"fmt"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/pkg/logger"
)

// BundleBuilder is the analytics surface the warm-up needs
type BundleBuilder interface {
	Build(ctx context.Context, req analytics.Request) (interface{}, error)
	Invalidate(ctx context.Context) error
}

// CacheWarmupJob recomputes the default analytics bundles into the cache
type CacheWarmupJob struct {
	builder  BundleBuilder
	types    []string
	schedule string
	logger   *logger.Logger
}

// NewCacheWarmupJob creates a warm-up job over every cached analytics type
func NewCacheWarmupJob(builder BundleBuilder, schedule string, log *logger.Logger) *CacheWarmupJob {
	return &CacheWarmupJob{
		builder:  builder,
		types:    analytics.CachedTypes(),
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheWarmupJob) Name() string {
	return "analytics_cache_warmup"
}

// Schedule returns the cron schedule
func (j *CacheWarmupJob) Schedule() string {
	return j.schedule
}

// Run invalidates then rebuilds each bundle; one failing type does not stop
// the others but fails the run
func (j *CacheWarmupJob) Run(ctx context.Context) error {
	if err := j.builder.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate analytics cache: %w", err)
	}

	var failed []string
	for _, t := range j.types {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.builder.Build(ctx, analytics.Request{Type: t}); err != nil {
			j.logger.WithError(err).WithField("type", t).Warn("Analytics warm-up failed")
			failed = append(failed, t)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"types":  len(j.types),
		"failed": len(failed),
	}).Debug("Analytics cache warmed")

	if len(failed) > 0 {
		return fmt.Errorf("warm-up failed for %v", failed)
	}
	return nil
}

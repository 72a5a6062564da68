package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/internal/realtime"
	"github.com/SKuytov/SVP/internal/scheduler"
	"github.com/SKuytov/SVP/pkg/logger"
)

var (
	_ scheduler.Job = (*DocumentExpiryJob)(nil)
	_ scheduler.Job = (*CapaOverdueJob)(nil)
	_ scheduler.Job = (*CacheWarmupJob)(nil)
	_ scheduler.Job = (*RealtimePushJob)(nil)
)

type fakeMaintenance struct {
	expired, overdue int64
	err              error
	today            time.Time
}

func (f *fakeMaintenance) ExpireDocuments(ctx context.Context, today time.Time) (int64, error) {
	f.today = today
	return f.expired, f.err
}

func (f *fakeMaintenance) MarkOverdueCAPAs(ctx context.Context, today time.Time) (int64, error) {
	f.today = today
	return f.overdue, f.err
}

type fakeBuilder struct {
	built       []string
	invalidated int
	failType    string
	invErr      error
}

func (f *fakeBuilder) Build(ctx context.Context, req analytics.Request) (interface{}, error) {
	f.built = append(f.built, req.Type)
	if req.Type == f.failType {
		return nil, errors.New("query failed")
	}
	return struct{}{}, nil
}

func (f *fakeBuilder) Invalidate(ctx context.Context) error {
	f.invalidated++
	return f.invErr
}

func TestDocumentExpiryJob(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 5, 0, 0, time.UTC)

	t.Run("invalidates after changes", func(t *testing.T) {
		repo := &fakeMaintenance{expired: 3}
		inv := &fakeBuilder{}
		job := NewDocumentExpiryJob(repo, inv, "0 5 0 * * *", logger.Nop())
		job.now = func() time.Time { return now }

		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, now, repo.today)
		assert.Equal(t, 1, inv.invalidated)
		assert.Equal(t, "document_expiry", job.Name())
		assert.Equal(t, "0 5 0 * * *", job.Schedule())
	})

	t.Run("no changes keeps cache", func(t *testing.T) {
		inv := &fakeBuilder{}
		job := NewDocumentExpiryJob(&fakeMaintenance{}, inv, "@daily", logger.Nop())
		require.NoError(t, job.Run(context.Background()))
		assert.Zero(t, inv.invalidated)
	})

	t.Run("repository error", func(t *testing.T) {
		job := NewDocumentExpiryJob(&fakeMaintenance{err: errors.New("boom")}, nil, "@daily", logger.Nop())
		assert.EqualError(t, job.Run(context.Background()), "expire documents: boom")
	})
}

func TestCapaOverdueJob(t *testing.T) {
	inv := &fakeBuilder{invErr: errors.New("redis down")}
	job := NewCapaOverdueJob(&fakeMaintenance{overdue: 2}, inv, "@daily", logger.Nop())

	err := job.Run(context.Background())
	assert.EqualError(t, err, "invalidate analytics cache: redis down")
	assert.Equal(t, "capa_overdue", job.Name())

	// nil invalidator
	job = NewCapaOverdueJob(&fakeMaintenance{overdue: 2}, nil, "@daily", logger.Nop())
	assert.NoError(t, job.Run(context.Background()))
}

func TestCacheWarmupJob(t *testing.T) {
	t.Run("builds every cached type", func(t *testing.T) {
		b := &fakeBuilder{}
		job := NewCacheWarmupJob(b, "@every 10m", logger.Nop())
		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, 1, b.invalidated)
		assert.Equal(t, analytics.CachedTypes(), b.built)
	})

	t.Run("one failure does not stop the rest", func(t *testing.T) {
		b := &fakeBuilder{failType: analytics.TypeRiskAnalysis}
		job := NewCacheWarmupJob(b, "@every 10m", logger.Nop())
		err := job.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), analytics.TypeRiskAnalysis)
		assert.Len(t, b.built, len(analytics.CachedTypes()))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b := &fakeBuilder{}
		err := NewCacheWarmupJob(b, "@every 10m", logger.Nop()).Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, b.built)
	})
}

func TestRealtimePushJob_NoClients(t *testing.T) {
	called := false
	pub := realtime.NewPublisher(func(ctx context.Context) (interface{}, error) {
		called = true
		return nil, nil
	})
	job := NewRealtimePushJob(pub, realtime.NewHub(zerolog.Nop()), "*/30 * * * * *", logger.Nop())

	require.NoError(t, job.Run(context.Background()))
	assert.False(t, called)
	assert.Equal(t, "realtime_push", job.Name())
}

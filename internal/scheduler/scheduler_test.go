package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32 // 처음 N 번 실패
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return fmt.Errorf("attempt %d failed", n)
	}
	return nil
}

func newTestScheduler(retries int) *Scheduler {
	return New(logger.Nop(), WithRetry(retries, time.Millisecond))
}

func TestJobHistory_KeepsLast100(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: fmt.Sprintf("run-%d", i), Success: i%2 == 0})
	}

	require.Len(t, h.Results, historyLimit)
	assert.Equal(t, "run-50", h.Results[0].JobName)
	assert.Equal(t, "run-149", h.Results[99].JobName)
	assert.Equal(t, 150, h.TotalRuns)
	assert.Equal(t, 75, h.Successes)
	assert.InDelta(t, 0.5, h.SuccessRate(), 0.001)
	assert.Len(t, h.Failures(), 50)

	last, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "run-149", last.JobName)

	_, ok = (&JobHistory{}).Latest()
	assert.False(t, ok)
	assert.Equal(t, 0.0, (&JobHistory{}).SuccessRate())
}

func TestJobHistory_LastSuccessSurvivesFailure(t *testing.T) {
	h := &JobHistory{}
	ok := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)
	bad := ok.Add(24 * time.Hour)

	h.AddResult(JobResult{StartTime: ok, Success: true})
	h.AddResult(JobResult{StartTime: bad, Success: false})

	require.NotNil(t, h.LastSuccess)
	require.NotNil(t, h.LastFailure)
	assert.Equal(t, ok, *h.LastSuccess)
	assert.Equal(t, bad, *h.LastFailure)
}

func TestScheduler_AddJob(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "@every 1h"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "0 5 0 * * *"}))

	err := s.AddJob(&fakeJob{name: "a", schedule: "@hourly"})
	assert.EqualError(t, err, "job a already exists")

	err = s.AddJob(&fakeJob{name: "bad", schedule: "not a cron"})
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())

	require.NoError(t, s.RemoveJob("b"))
	assert.Equal(t, []string{"a"}, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("b"))
}

func TestScheduler_RunJobSync(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after retries", func(t *testing.T) {
		s := newTestScheduler(3)
		job := &fakeJob{name: "flaky", schedule: "@hourly", failures: 2}
		require.NoError(t, s.AddJob(job))

		res, err := s.RunJobSync(ctx, "flaky")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 3, res.Attempts)
		assert.Empty(t, res.Error)
	})

	t.Run("fails after all retries", func(t *testing.T) {
		s := newTestScheduler(1)
		job := &fakeJob{name: "broken", schedule: "@hourly", failures: 10}
		require.NoError(t, s.AddJob(job))

		res, err := s.RunJobSync(ctx, "broken")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, 2, res.Attempts)
		assert.Equal(t, "attempt 2 failed", res.Error)

		stats := s.GetJobStats()["broken"]
		assert.Equal(t, 1, stats.TotalRuns)
		assert.Equal(t, 1, stats.FailureCount)
		require.NotNil(t, stats.LastFailure)
		assert.Nil(t, stats.LastSuccess)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		s := New(logger.Nop(), WithRetry(5, time.Hour))
		job := &fakeJob{name: "slow", schedule: "@hourly", failures: 10}
		require.NoError(t, s.AddJob(job))

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		res, err := s.RunJobSync(cctx, "slow")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, 1, res.Attempts)
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := newTestScheduler(0).RunJobSync(ctx, "missing")
		assert.Error(t, err)
	})
}

func TestScheduler_HistoryIsCopied(t *testing.T) {
	s := newTestScheduler(0)
	require.NoError(t, s.AddJob(&fakeJob{name: "j", schedule: "@hourly"}))
	_, err := s.RunJobSync(context.Background(), "j")
	require.NoError(t, err)

	h, err := s.GetJobHistory("j")
	require.NoError(t, err)
	h.Results = nil

	again, _ := s.GetJobHistory("j")
	assert.Len(t, again.Results, 1)

	_, err = s.GetJobHistory("missing")
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(0)
	job := &fakeJob{name: "tick", schedule: "@every 1s"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	require.NotNil(t, s.GetJobStats()["tick"].NextRun)
	require.NoError(t, s.RunJob("tick"))
	assert.Eventually(t, func() bool { return job.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()

	assert.True(t, errors.Is(s.ctx.Err(), context.Canceled))
}

func TestNextRun(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedule string
		want     time.Time
	}{
		{"daily at 00:05", "0 5 0 * * *", from.Add(5 * time.Minute)},
		{"every 30s", "@every 30s", from.Add(30 * time.Second)},
		{"hourly", "@hourly", from.Add(time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(tt.schedule, from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NextRun("5 0 * * *", from)
	assert.Error(t, err, "five-field specs lack the seconds field")
}

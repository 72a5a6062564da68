package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name is the unique job key (CLI: svp scheduler run <name>)
	Name() string

	// Run executes one pass; an error triggers the retry policy
	Run(ctx context.Context) error

	// Schedule is the cron expression, seconds field first
	// ("0 5 0 * * *" = daily 00:05) or a descriptor ("@every 30s")
	Schedule() string
}

// historyLimit is the number of recent results kept per job
const historyLimit = 100

// JobResult is the outcome of one execution, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the recent results plus lifetime counters, so statistics
// survive the trimming of Results. Not safe for concurrent use; the
// Scheduler guards it.
type JobHistory struct {
	Results []JobResult `json:"results"`

	TotalRuns   int        `json:"total_runs"`
	Successes   int        `json:"successes"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastFailure *time.Time `json:"last_failure,omitempty"`
}

// AddResult records a result
func (h *JobHistory) AddResult(result JobResult) {
	h.TotalRuns++
	started := result.StartTime
	if result.Success {
		h.Successes++
		h.LastSuccess = &started
	} else {
		h.LastFailure = &started
	}

	h.Results = append(h.Results, result)
	if len(h.Results) > historyLimit {
		h.Results = append([]JobResult(nil), h.Results[len(h.Results)-historyLimit:]...)
	}
}

// Latest returns the most recent result
func (h *JobHistory) Latest() (JobResult, bool) {
	if len(h.Results) == 0 {
		return JobResult{}, false
	}
	return h.Results[len(h.Results)-1], true
}

// Failures returns the failed results among the recent ones
func (h *JobHistory) Failures() []JobResult {
	failed := make([]JobResult, 0)
	for _, r := range h.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// SuccessRate is the lifetime success ratio (0.0 - 1.0)
func (h *JobHistory) SuccessRate() float64 {
	if h.TotalRuns == 0 {
		return 0
	}
	return float64(h.Successes) / float64(h.TotalRuns)
}

func (h *JobHistory) clone() *JobHistory {
	c := *h
	c.Results = append([]JobResult(nil), h.Results...)
	return &c
}

package jobs

import (
	"context"

	"github.com/SKuytov/SVP/internal/realtime"
	"github.com/SKuytov/SVP/pkg/logger"
)

// RealtimePushJob broadcasts fresh realtime metrics to websocket clients
type RealtimePushJob struct {
	publisher *realtime.Publisher
	hub       *realtime.Hub
	schedule  string
	logger    *logger.Logger
}

// NewRealtimePushJob creates a push job (runs inside the API process)
func NewRealtimePushJob(pub *realtime.Publisher, hub *realtime.Hub, schedule string, log *logger.Logger) *RealtimePushJob {
	return &RealtimePushJob{
		publisher: pub,
		hub:       hub,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *RealtimePushJob) Name() string {
	return "realtime_push"
}

// Schedule returns the cron schedule
func (j *RealtimePushJob) Schedule() string {
	return j.schedule
}

// Run pushes one metrics frame (no-op without clients)
func (j *RealtimePushJob) Run(ctx context.Context) error {
	pushed, err := j.publisher.Push(ctx, j.hub)
	if err != nil {
		return err
	}
	if pushed {
		j.logger.WithField("clients", j.hub.ClientCount()).Debug("Realtime metrics pushed")
	}
	return nil
}

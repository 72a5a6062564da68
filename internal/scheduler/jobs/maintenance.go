package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/pkg/logger"
)

// Invalidator drops cached analytics after data changes
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// DocumentExpiryJob marks documents past their expiry date as Expired
// ⭐ SSOT: 문서 만료 처리 스케줄은 이 Job에서만
type DocumentExpiryJob struct {
	repo        contracts.MaintenanceRepository
	invalidator Invalidator
	schedule    string
	now         func() time.Time
	logger      *logger.Logger
}

// NewDocumentExpiryJob creates a new document expiry job
func NewDocumentExpiryJob(repo contracts.MaintenanceRepository, inv Invalidator, schedule string, log *logger.Logger) *DocumentExpiryJob {
	return &DocumentExpiryJob{
		repo:        repo,
		invalidator: inv,
		schedule:    schedule,
		now:         time.Now,
		logger:      log,
	}
}

// Name returns the job name
func (j *DocumentExpiryJob) Name() string {
	return "document_expiry"
}

// Schedule returns the cron schedule
func (j *DocumentExpiryJob) Schedule() string {
	return j.schedule
}

// Run executes the sweep
func (j *DocumentExpiryJob) Run(ctx context.Context) error {
	n, err := j.repo.ExpireDocuments(ctx, j.now())
	if err != nil {
		return fmt.Errorf("expire documents: %w", err)
	}

	if n > 0 {
		j.logger.WithField("expired", n).Info("Documents marked expired")
		return invalidate(ctx, j.invalidator)
	}
	return nil
}

// CapaOverdueJob marks open corrective actions past their due date as Overdue
type CapaOverdueJob struct {
	repo        contracts.MaintenanceRepository
	invalidator Invalidator
	schedule    string
	now         func() time.Time
	logger      *logger.Logger
}

// NewCapaOverdueJob creates a new CAPA overdue job
func NewCapaOverdueJob(repo contracts.MaintenanceRepository, inv Invalidator, schedule string, log *logger.Logger) *CapaOverdueJob {
	return &CapaOverdueJob{
		repo:        repo,
		invalidator: inv,
		schedule:    schedule,
		now:         time.Now,
		logger:      log,
	}
}

// Name returns the job name
func (j *CapaOverdueJob) Name() string {
	return "capa_overdue"
}

// Schedule returns the cron schedule
func (j *CapaOverdueJob) Schedule() string {
	return j.schedule
}

// Run executes the sweep
func (j *CapaOverdueJob) Run(ctx context.Context) error {
	n, err := j.repo.MarkOverdueCAPAs(ctx, j.now())
	if err != nil {
		return fmt.Errorf("mark overdue capas: %w", err)
	}

	if n > 0 {
		j.logger.WithField("overdue", n).Info("Corrective actions marked overdue")
		return invalidate(ctx, j.invalidator)
	}
	return nil
}

func invalidate(ctx context.Context, inv Invalidator) error {
	if inv == nil {
		return nil
	}
	if err := inv.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate analytics cache: %w", err)
	}
	return nil
}

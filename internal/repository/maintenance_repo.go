package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SKuytov/SVP/internal/contracts"
)

// MaintenanceRepository runs the scheduled status sweeps
type MaintenanceRepository struct {
	pool *pgxpool.Pool
}

var _ contracts.MaintenanceRepository = (*MaintenanceRepository)(nil)

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{pool: pool}
}

// ExpireDocuments marks valid documents whose expiry date is before today as Expired
func (r *MaintenanceRepository) ExpireDocuments(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status = 'Expired'
		WHERE status = 'Valid'
		  AND expiry_date IS NOT NULL
		  AND expiry_date < $1::date
	`, today)
	if err != nil {
		return 0, fmt.Errorf("failed to expire documents: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkOverdueCAPAs marks open corrective actions past their due date as Overdue
func (r *MaintenanceRepository) MarkOverdueCAPAs(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE corrective_actions
		SET status = 'Overdue'
		WHERE status IN ('Assigned', 'In_Progress')
		  AND due_date IS NOT NULL
		  AND due_date < $1::date
	`, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue corrective actions: %w", err)
	}
	return tag.RowsAffected(), nil
}

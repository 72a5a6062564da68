package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SKuytov/SVP/internal/contracts"
)

const defaultRecentLimit = 15

// Repository handles activity log persistence
// ⭐ SSOT: 활동 로그 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

var _ contracts.ActivityRepository = (*Repository)(nil)

// NewRepository creates a new activity log repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts one entry and fills its id and created_at
func (r *Repository) Record(ctx context.Context, entry *contracts.ActivityEntry) error {
	query := `
		INSERT INTO activity_log (
			user_id, action, resource, resource_id, description,
			old_values, new_values, ip_address, user_agent
		) VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		entry.UserID, entry.Action, entry.Resource, entry.ResourceID, entry.Description,
		nullJSON(entry.OldValues), nullJSON(entry.NewValues), entry.IPAddress, entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	return nil
}

// Recent returns the latest entries, newest first (limit <= 0 → 15).
// Entries without a known user are attributed to "System".
func (r *Repository) Recent(ctx context.Context, limit int) ([]contracts.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := `
		SELECT
			al.id, COALESCE(al.user_id, 0),
			COALESCE(NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), ''), 'System'),
			al.action, al.resource, al.resource_id, al.description,
			al.old_values, al.new_values, al.ip_address, al.user_agent, al.created_at
		FROM activity_log al
		LEFT JOIN users u ON u.id = al.user_id
		ORDER BY al.created_at DESC, al.id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.ActivityEntry, error) {
		var e contracts.ActivityEntry
		err := row.Scan(
			&e.ID, &e.UserID, &e.UserName,
			&e.Action, &e.Resource, &e.ResourceID, &e.Description,
			&e.OldValues, &e.NewValues, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan activity: %w", err)
	}

	return entries, nil
}

// nullJSON stores empty payloads as SQL NULL
func nullJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

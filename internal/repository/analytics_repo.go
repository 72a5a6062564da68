package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SKuytov/SVP/internal/contracts"
)

// AnalyticsRepository implements contracts.AnalyticsStore over PostgreSQL.
// Reads only; every query aggregates in SQL and the Go side applies scoring.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

var _ contracts.AnalyticsStore = (*AnalyticsRepository)(nil)

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// collect runs a query and scans every row with scan
func collect[T any](ctx context.Context, pool *pgxpool.Pool, what, query string, scan pgx.RowToFunc[T], args ...interface{}) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}

	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", what, err)
	}
	return out, nil
}

// periodFormat maps a granularity to its to_char pattern
func periodFormat(g contracts.Granularity) string {
	switch g {
	case contracts.GranularityDay:
		return "YYYY-MM-DD"
	case contracts.GranularityWeek:
		return "IYYY-IW"
	case contracts.GranularityQuarter:
		return `YYYY-"Q"Q`
	default:
		return "YYYY-MM"
	}
}

// windowMonths returns a positive month count (default 12)
func windowMonths(months int) int {
	if months <= 0 {
		return 12
	}
	return months
}

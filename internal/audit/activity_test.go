package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/internal/contracts"
)

type memRepo struct {
	entries []contracts.ActivityEntry
	err     error
}

func (m *memRepo) Record(_ context.Context, e *contracts.ActivityEntry) error {
	if m.err != nil {
		return m.err
	}
	e.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memRepo) Recent(_ context.Context, limit int) ([]contracts.ActivityEntry, error) {
	out := make([]contracts.ActivityEntry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func int64p(v int64) *int64 { return &v }

func TestFormatDescription(t *testing.T) {
	tests := []struct {
		action string
		id     *int64
		want   string
	}{
		{contracts.ActionCreate, int64p(7), "Created new supplier (ID: 7)"},
		{contracts.ActionUpdate, int64p(7), "Updated supplier (ID: 7)"},
		{contracts.ActionDelete, nil, "Deleted supplier"},
		{contracts.ActionExport, int64p(0), "Exported supplier"},
		{"ARCHIVE", int64p(3), "ARCHIVE supplier (ID: 3)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDescription(tt.action, "supplier", tt.id))
		})
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{time.Minute, "1 minutes ago"},
		{59*time.Minute + 59*time.Second, "59 minutes ago"},
		{time.Hour, "1 hours ago"},
		{25 * time.Hour, "1 days ago"},
		{29 * 24 * time.Hour, "29 days ago"},
		{30 * 24 * time.Hour, "1 months ago"},
		{364 * 24 * time.Hour, "12 months ago"},
		{365 * 24 * time.Hour, "1 years ago"},
		{-time.Hour, "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(now.Add(-tt.ago), now))
		})
	}
}

func TestLogger_Log(t *testing.T) {
	repo := &memRepo{}
	l := NewLogger(repo)

	ctx := WithClient(context.Background(), Client{IP: "10.0.0.1", UserAgent: "curl/8"})
	actor := contracts.Identity{UserID: 5, Email: "qa@example.com", Role: "admin"}

	old := map[string]interface{}{"iso_compliance_score": 70}
	err := l.Log(ctx, actor, contracts.ActionUpdate, "supplier", int64p(9), old, map[string]int{"iso_compliance_score": 88})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.Equal(t, int64(5), e.UserID)
	assert.Equal(t, "Updated supplier (ID: 9)", e.Description)
	assert.JSONEq(t, `{"iso_compliance_score":70}`, string(e.OldValues))
	assert.JSONEq(t, `{"iso_compliance_score":88}`, string(e.NewValues))
	assert.Equal(t, "10.0.0.1", e.IPAddress)
	assert.Equal(t, "curl/8", e.UserAgent)

	t.Run("nil values stay empty", func(t *testing.T) {
		require.NoError(t, l.Log(context.Background(), actor, contracts.ActionDelete, "supplier", int64p(9), nil, nil))
		last := repo.entries[len(repo.entries)-1]
		assert.Nil(t, last.OldValues)
		assert.Nil(t, last.NewValues)
		assert.Empty(t, last.IPAddress)
	})

	t.Run("unmarshalable value", func(t *testing.T) {
		err := l.Log(context.Background(), actor, contracts.ActionCreate, "supplier", nil, nil, make(chan int))
		assert.ErrorContains(t, err, "failed to marshal new values")
	})

	t.Run("repository error", func(t *testing.T) {
		failing := NewLogger(&memRepo{err: errors.New("db down")})
		err := failing.Log(context.Background(), actor, contracts.ActionCreate, "supplier", nil, nil, nil)
		assert.EqualError(t, err, "db down")
	})
}

func TestLogger_Recent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{entries: []contracts.ActivityEntry{
		{ID: 1, Action: contracts.ActionCreate, Resource: "supplier", ResourceID: int64p(1), CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, Action: contracts.ActionExport, Resource: "report", Description: "Exported risk report", CreatedAt: now.Add(-10 * time.Second)},
	}}
	l := NewLogger(repo)
	l.now = func() time.Time { return now }

	feed, err := l.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, "Exported risk report", feed[0].Description)
	assert.Equal(t, "just now", feed[0].TimeAgo)
	assert.Equal(t, "Created new supplier (ID: 1)", feed[1].Description)
	assert.Equal(t, "2 hours ago", feed[1].TimeAgo)
}

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SKuytov/SVP/internal/contracts"
)

// =============================================================================
// Client metadata (request → activity log)
// =============================================================================

type clientKey struct{}

// Client is the network origin of a request
type Client struct {
	IP        string
	UserAgent string
}

// WithClient stores request metadata for later activity entries
func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFrom returns the stored metadata (zero value when absent)
func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}

// =============================================================================
// Logger
// =============================================================================

// Logger implements contracts.ActivityRecorder on top of a repository
type Logger struct {
	repo   contracts.ActivityRepository
	now    func() time.Time
	logger zerolog.Logger
}

var _ contracts.ActivityRecorder = (*Logger)(nil)

// NewLogger creates an activity logger
func NewLogger(repo contracts.ActivityRepository) *Logger {
	return &Logger{
		repo:   repo,
		now:    time.Now,
		logger: log.With().Str("component", "activity").Logger(),
	}
}

// Log serialises old/new values as JSON and records the action.
// The actor is always explicit; there is no default user.
func (l *Logger) Log(ctx context.Context, actor contracts.Identity, action, resource string, resourceID *int64, oldValues, newValues interface{}) error {
	oldJSON, err := marshalValues(oldValues)
	if err != nil {
		return fmt.Errorf("failed to marshal old values: %w", err)
	}
	newJSON, err := marshalValues(newValues)
	if err != nil {
		return fmt.Errorf("failed to marshal new values: %w", err)
	}

	client := ClientFrom(ctx)
	entry := &contracts.ActivityEntry{
		UserID:      actor.UserID,
		Action:      action,
		Resource:    resource,
		ResourceID:  resourceID,
		Description: FormatDescription(action, resource, resourceID),
		OldValues:   oldJSON,
		NewValues:   newJSON,
		IPAddress:   client.IP,
		UserAgent:   client.UserAgent,
	}

	if err := l.repo.Record(ctx, entry); err != nil {
		return err
	}

	l.logger.Debug().
		Int64("user_id", actor.UserID).
		Str("action", action).
		Str("resource", resource).
		Msg("Activity recorded")
	return nil
}

// Recent returns the feed with descriptions and relative times filled in
func (l *Logger) Recent(ctx context.Context, limit int) ([]contracts.ActivityEntry, error) {
	entries, err := l.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	now := l.now()
	for i := range entries {
		e := &entries[i]
		if e.Description == "" {
			e.Description = FormatDescription(e.Action, e.Resource, e.ResourceID)
		}
		e.TimeAgo = TimeAgo(e.CreatedAt, now)
	}
	return entries, nil
}

func marshalValues(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// =============================================================================
// Formatting
// =============================================================================

var actionVerbs = map[string]string{
	contracts.ActionCreate:   "Created new",
	contracts.ActionUpdate:   "Updated",
	contracts.ActionDelete:   "Deleted",
	contracts.ActionUpload:   "Uploaded",
	contracts.ActionDownload: "Downloaded",
	contracts.ActionApprove:  "Approved",
	contracts.ActionReject:   "Rejected",
	contracts.ActionSchedule: "Scheduled",
	contracts.ActionComplete: "Completed",
	contracts.ActionExport:   "Exported",
}

// FormatDescription renders "Updated supplier (ID: 7)"; unknown actions
// fall back to "<ACTION> <resource>"
func FormatDescription(action, resource string, resourceID *int64) string {
	desc := action + " " + resource
	if verb, ok := actionVerbs[action]; ok {
		desc = verb + " " + resource
	}
	if resourceID != nil && *resourceID != 0 {
		desc += fmt.Sprintf(" (ID: %d)", *resourceID)
	}
	return desc
}

// TimeAgo renders the elapsed time between t and now in floor units
// (30-day months, 365-day years)
func TimeAgo(t, now time.Time) string {
	secs := int64(now.Sub(t).Seconds())

	switch {
	case secs < 60:
		return "just now"
	case secs < 3600:
		return fmt.Sprintf("%d minutes ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%d hours ago", secs/3600)
	case secs < 2592000:
		return fmt.Sprintf("%d days ago", secs/86400)
	case secs < 31536000:
		return fmt.Sprintf("%d months ago", secs/2592000)
	default:
		return fmt.Sprintf("%d years ago", secs/31536000)
	}
}

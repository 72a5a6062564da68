package handlers

import (
	"context"
	"net/http"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/pkg/logger"
)

const maxActivityLimit = 100

// ActivityFeed reads the recent activity entries
type ActivityFeed interface {
	Recent(ctx context.Context, limit int) ([]contracts.ActivityEntry, error)
}

// ActivityHandler serves the activity feed
type ActivityHandler struct {
	feed         ActivityFeed
	defaultLimit int
	logger       *logger.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(feed ActivityFeed, defaultLimit int, log *logger.Logger) *ActivityHandler {
	if defaultLimit <= 0 {
		defaultLimit = 15
	}
	return &ActivityHandler{feed: feed, defaultLimit: defaultLimit, logger: log}
}

// Recent returns the newest activity entries
// GET /api/activity?limit=15
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.defaultLimit)
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}
	if limit <= 0 {
		limit = h.defaultLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	entries, err := h.feed.Recent(r.Context(), limit)
	if err != nil {
		HandleError(w, h.logger, err, "Failed to load activity")
		return
	}
	if entries == nil {
		entries = []contracts.ActivityEntry{}
	}
	RespondJSON(w, http.StatusOK, entries, "")
}

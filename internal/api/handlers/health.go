package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SKuytov/SVP/pkg/logger"
)

// Pinger is a dependency with a liveness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the /health payload
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HealthHandler reports process and dependency health
type HealthHandler struct {
	db     Pinger
	cache  Pinger // nil = 캐시 없음
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db, cache Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, logger: log}
}

// Health returns liveness and database health.
// A failing database answers 503; a failing cache only degrades the status.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Service: "svp-api", Database: "ok", Cache: "disabled"}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.WithError(err).Error("Database health check failed")
		RespondError(w, http.StatusServiceUnavailable, "Database unavailable", nil)
		return
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.WithError(err).Warn("Cache health check failed")
			resp.Status = "degraded"
			resp.Cache = "unavailable"
		} else {
			resp.Cache = "ok"
		}
	}

	RespondJSON(w, http.StatusOK, resp, "")
}

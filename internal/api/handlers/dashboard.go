package handlers

import (
	"context"
	"net/http"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/pkg/logger"
)

// DashboardSource builds the dashboard KPI block
type DashboardSource interface {
	Dashboard(ctx context.Context) (*analytics.Dashboard, error)
}

// DashboardHandler serves the landing dashboard
type DashboardHandler struct {
	source DashboardSource
	logger *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(source DashboardSource, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{source: source, logger: log}
}

// Get returns KPIs, trends, top performers and alerts
// GET /api/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dash, err := h.source.Dashboard(r.Context())
	if err != nil {
		HandleError(w, h.logger, err, "Failed to load dashboard data")
		return
	}
	RespondJSON(w, http.StatusOK, dash, "")
}

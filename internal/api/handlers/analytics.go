package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/internal/auth"
	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/validation"
	"github.com/SKuytov/SVP/pkg/logger"
)

// AnalyticsBuilder assembles one analytics bundle
type AnalyticsBuilder interface {
	Build(ctx context.Context, req analytics.Request) (interface{}, error)
}

// DashboardStore persists saved analytics dashboards
type DashboardStore interface {
	SaveAnalyticsDashboard(ctx context.Context, dash *contracts.AnalyticsDashboard) (int64, error)
}

// AnalyticsHandler handles analytics API endpoints
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalyticsHandler struct {
	builder  AnalyticsBuilder
	store    DashboardStore
	validate *validation.Validator
	logger   *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(builder AnalyticsBuilder, store DashboardStore, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		builder:  builder,
		store:    store,
		validate: validation.New(),
		logger:   log,
	}
}

// Types lists the analytics selectors
// GET /api/analytics
func (h *AnalyticsHandler) Types(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"available_analytics": analytics.Types(),
	}, "")
}

// Get returns one analytics bundle
// GET /api/analytics/{type}?months=12&granularity=month&supplier_id=1
func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := analyticsRequest(r)
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	bundle, err := h.builder.Build(r.Context(), req)
	if err != nil {
		HandleError(w, h.logger.WithField("type", req.Type), err, "Failed to build analytics")
		return
	}
	RespondJSON(w, http.StatusOK, bundle, "")
}

// analyticsRequest reads the bundle selector and its window parameters
func analyticsRequest(r *http.Request) (analytics.Request, error) {
	req := analytics.Request{
		Type:        mux.Vars(r)["type"],
		Granularity: contracts.ParseGranularity(r.URL.Query().Get("granularity")),
	}

	months, err := queryInt(r, "months", 0)
	if err != nil {
		return req, err
	}
	if months < 0 {
		return req, invalidParam("months", strconv.Itoa(months))
	}
	req.Months = months

	if s := r.URL.Query().Get("supplier_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return req, invalidParam("supplier_id", s)
		}
		req.SupplierID = &id
	}
	return req, nil
}

// SaveDashboard stores a custom analytics dashboard for the caller
// POST /api/analytics/dashboards
func (h *AnalyticsHandler) SaveDashboard(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.FromContext(r.Context())
	if err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	var dash contracts.AnalyticsDashboard
	if err := decodeJSON(r, &dash); err != nil {
		RespondError(w, http.StatusBadRequest, msgInvalidJSON, nil)
		return
	}
	if err := h.validate.Struct(dash); err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	dash.ID = 0
	dash.CreatedBy = actor.UserID

	id, err := h.store.SaveAnalyticsDashboard(r.Context(), &dash)
	if err != nil {
		HandleError(w, h.logger, err, "Failed to save analytics dashboard")
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]int64{"id": id}, "Analytics dashboard saved")
}

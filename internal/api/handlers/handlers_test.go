package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/internal/auth"
	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/report"
	"github.com/SKuytov/SVP/internal/report/export"
	"github.com/SKuytov/SVP/internal/supplier"
	"github.com/SKuytov/SVP/internal/validation"
	"github.com/SKuytov/SVP/pkg/logger"
)

// =============================================================================
// Helpers
// =============================================================================

var testActor = contracts.Identity{UserID: 7, Email: "qa@example.com", Role: "manager"}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func newRequest(method, target, body string, vars map[string]string, withActor bool) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	if withActor {
		r = r.WithContext(auth.WithIdentity(r.Context(), testActor))
	}
	return r
}

// =============================================================================
// Fakes
// =============================================================================

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeBuilder struct {
	req analytics.Request
	err error
}

func (f *fakeBuilder) Build(_ context.Context, req analytics.Request) (interface{}, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return map[string]string{"type": req.Type}, nil
}

func (f *fakeBuilder) Dashboard(context.Context) (*analytics.Dashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &analytics.Dashboard{}, nil
}

type fakeTemplates struct {
	dash *contracts.AnalyticsDashboard
	tpl  *contracts.ReportTemplate
	err  error
}

func (f *fakeTemplates) SaveAnalyticsDashboard(_ context.Context, d *contracts.AnalyticsDashboard) (int64, error) {
	f.dash = d
	return 11, f.err
}

func (f *fakeTemplates) SaveReportTemplate(_ context.Context, t *contracts.ReportTemplate) (int64, error) {
	f.tpl = t
	return 12, f.err
}

type fakeGenerator struct {
	reportType string
	params     report.Params
	statsType  string
	err        error
}

func (f *fakeGenerator) Generate(_ context.Context, reportType string, p report.Params) (*report.Report, error) {
	f.reportType = reportType
	f.params = p
	if f.err != nil {
		return nil, f.err
	}
	return &report.Report{
		Type:        reportType,
		Title:       "Supplier Compliance Report",
		GeneratedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		Parameters:  map[string]string{},
		Data: &report.Table{
			Columns: []string{"id", "name"},
			Rows:    [][]interface{}{{int64(1), "Acme"}},
		},
	}, nil
}

func (f *fakeGenerator) Statistics(_ context.Context, statsType string) (interface{}, error) {
	f.statsType = statsType
	return map[string]int{"total": 3}, f.err
}

type activityCall struct {
	actor     contracts.Identity
	action    string
	resource  string
	newValues interface{}
}

type fakeActivity struct {
	calls   []activityCall
	entries []contracts.ActivityEntry
	limit   int
}

func (f *fakeActivity) Log(_ context.Context, actor contracts.Identity, action, resource string, _ *int64, _, newValues interface{}) error {
	f.calls = append(f.calls, activityCall{actor, action, resource, newValues})
	return nil
}

func (f *fakeActivity) Recent(_ context.Context, limit int) ([]contracts.ActivityEntry, error) {
	f.limit = limit
	return f.entries, nil
}

type fakeSuppliers struct {
	filter  contracts.SupplierFilter
	actor   contracts.Identity
	created supplier.CreateInput
	update  *contracts.SupplierUpdate
	id      int64
	err     error
}

func (f *fakeSuppliers) List(_ context.Context, filter contracts.SupplierFilter) ([]contracts.SupplierView, error) {
	f.filter = filter
	return nil, f.err
}

func (f *fakeSuppliers) Get(_ context.Context, id int64) (*contracts.SupplierDetail, error) {
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	d := &contracts.SupplierDetail{}
	d.ID = id
	d.Name = "Acme"
	return d, nil
}

func (f *fakeSuppliers) Create(_ context.Context, actor contracts.Identity, in supplier.CreateInput) (int64, error) {
	f.actor = actor
	f.created = in
	return 42, f.err
}

func (f *fakeSuppliers) Update(_ context.Context, actor contracts.Identity, id int64, upd *contracts.SupplierUpdate) error {
	f.actor = actor
	f.id = id
	f.update = upd
	return f.err
}

func (f *fakeSuppliers) Delete(_ context.Context, actor contracts.Identity, id int64) error {
	f.actor = actor
	f.id = id
	return f.err
}

// =============================================================================
// Envelope / error mapping
// =============================================================================

func TestHandleError_StatusMapping(t *testing.T) {
	validationErr := validation.New().Struct(contracts.ReportTemplate{})

	tests := []struct {
		name    string
		err     error
		status  int
		message string
		fields  map[string]string
	}{
		{"unauthenticated", fmt.Errorf("%w: no token", contracts.ErrUnauthenticated), 401, "unauthenticated: no token", nil},
		{"not found", fmt.Errorf("failed to get supplier 9: %w", contracts.ErrNotFound), 404, "failed to get supplier 9: not found", nil},
		{"unknown category", fmt.Errorf("%w: analytics type %q", contracts.ErrUnknownCategory, "x"), 400, `unknown category: analytics type "x"`, nil},
		{"unsupported format", fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, "docx"), 400, `unsupported export format: "docx"`, nil},
		{"validation", validationErr, 400, "Validation failed", map[string]string{"name": "required", "report_type": "required"}},
		{"internal", errors.New("connection reset"), 500, "Failed to do it", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, logger.Nop(), tt.err, "Failed to do it")

			assert.Equal(t, tt.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.Equal(t, tt.fields, env.Errors)
		})
	}
}

func TestRespondJSON_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]int{"id": 1}, "Created")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, true, raw["success"])
	assert.Equal(t, "Created", raw["message"])
	assert.Contains(t, raw, "timestamp")
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, raw["data"])
}

// =============================================================================
// Health / dashboard / activity
// =============================================================================

func TestHealthHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := NewHealthHandler(fakePinger{}, fakePinger{}, logger.Nop())
		rec := httptest.NewRecorder()
		h.Health(rec, newRequest("GET", "/health", "", nil, false))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
		assert.Equal(t, HealthResponse{Status: "ok", Service: "svp-api", Database: "ok", Cache: "ok"}, resp)
	})

	t.Run("cache down degrades", func(t *testing.T) {
		h := NewHealthHandler(fakePinger{}, fakePinger{err: errors.New("refused")}, logger.Nop())
		rec := httptest.NewRecorder()
		h.Health(rec, newRequest("GET", "/health", "", nil, false))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "unavailable", resp.Cache)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewHealthHandler(fakePinger{err: errors.New("refused")}, nil, logger.Nop())
		rec := httptest.NewRecorder()
		h.Health(rec, newRequest("GET", "/health", "", nil, false))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Database unavailable", decodeEnvelope(t, rec).Message)
	})
}

func TestDashboardHandler_Error(t *testing.T) {
	h := NewDashboardHandler(&fakeBuilder{err: errors.New("db down")}, logger.Nop())
	rec := httptest.NewRecorder()
	h.Get(rec, newRequest("GET", "/api/dashboard", "", nil, false))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to load dashboard data", decodeEnvelope(t, rec).Message)
}

func TestActivityHandler_Limit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 15},
		{"?limit=5", 5},
		{"?limit=0", 15},
		{"?limit=1000", maxActivityLimit},
	}

	for _, tt := range tests {
		t.Run("limit"+tt.query, func(t *testing.T) {
			feed := &fakeActivity{}
			h := NewActivityHandler(feed, 15, logger.Nop())
			rec := httptest.NewRecorder()
			h.Recent(rec, newRequest("GET", "/api/activity"+tt.query, "", nil, false))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, feed.limit)
			assert.JSONEq(t, "[]", string(decodeEnvelope(t, rec).Data))
		})
	}

	t.Run("bad limit", func(t *testing.T) {
		h := NewActivityHandler(&fakeActivity{}, 15, logger.Nop())
		rec := httptest.NewRecorder()
		h.Recent(rec, newRequest("GET", "/api/activity?limit=ten", "", nil, false))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// =============================================================================
// Analytics
// =============================================================================

func TestAnalyticsHandler_Get(t *testing.T) {
	t.Run("passes window parameters", func(t *testing.T) {
		b := &fakeBuilder{}
		h := NewAnalyticsHandler(b, &fakeTemplates{}, logger.Nop())
		rec := httptest.NewRecorder()
		r := newRequest("GET", "/api/analytics/compliance-trends?months=6&granularity=week&supplier_id=3", "",
			map[string]string{"type": "compliance-trends"}, false)
		h.Get(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "compliance-trends", b.req.Type)
		assert.Equal(t, 6, b.req.Months)
		assert.Equal(t, contracts.GranularityWeek, b.req.Granularity)
		require.NotNil(t, b.req.SupplierID)
		assert.Equal(t, int64(3), *b.req.SupplierID)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		for _, q := range []string{"?months=abc", "?months=-1", "?supplier_id=0", "?supplier_id=x"} {
			h := NewAnalyticsHandler(&fakeBuilder{}, &fakeTemplates{}, logger.Nop())
			rec := httptest.NewRecorder()
			h.Get(rec, newRequest("GET", "/api/analytics/realtime"+q, "", map[string]string{"type": "realtime"}, false))
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		b := &fakeBuilder{err: fmt.Errorf("%w: analytics type %q", contracts.ErrUnknownCategory, "nope")}
		h := NewAnalyticsHandler(b, &fakeTemplates{}, logger.Nop())
		rec := httptest.NewRecorder()
		h.Get(rec, newRequest("GET", "/api/analytics/nope", "", map[string]string{"type": "nope"}, false))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAnalyticsHandler_Types(t *testing.T) {
	h := NewAnalyticsHandler(&fakeBuilder{}, &fakeTemplates{}, logger.Nop())
	rec := httptest.NewRecorder()
	h.Types(rec, newRequest("GET", "/api/analytics", "", nil, false))

	var data struct {
		Available []analytics.TypeInfo `json:"available_analytics"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Len(t, data.Available, len(analytics.Types()))
}

func TestAnalyticsHandler_SaveDashboard(t *testing.T) {
	body := `{"name":"Ops","widgets":[{"type":"risk-matrix"}],"created_by":99}`

	t.Run("requires identity", func(t *testing.T) {
		h := NewAnalyticsHandler(&fakeBuilder{}, &fakeTemplates{}, logger.Nop())
		rec := httptest.NewRecorder()
		h.SaveDashboard(rec, newRequest("POST", "/api/analytics/dashboards", body, nil, false))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		h := NewAnalyticsHandler(&fakeBuilder{}, &fakeTemplates{}, logger.Nop())
		rec := httptest.NewRecorder()
		h.SaveDashboard(rec, newRequest("POST", "/api/analytics/dashboards", "{", nil, true))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON data", decodeEnvelope(t, rec).Message)
	})

	t.Run("missing name", func(t *testing.T) {
		h := NewAnalyticsHandler(&fakeBuilder{}, &fakeTemplates{}, logger.Nop())
		rec := httptest.NewRecorder()
		h.SaveDashboard(rec, newRequest("POST", "/api/analytics/dashboards", `{"widgets":[]}`, nil, true))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]string{"name": "required"}, decodeEnvelope(t, rec).Errors)
	})

	t.Run("saved for caller", func(t *testing.T) {
		store := &fakeTemplates{}
		h := NewAnalyticsHandler(&fakeBuilder{}, store, logger.Nop())
		rec := httptest.NewRecorder()
		h.SaveDashboard(rec, newRequest("POST", "/api/analytics/dashboards", body, nil, true))

		require.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Analytics dashboard saved", env.Message)
		assert.JSONEq(t, `{"id":11}`, string(env.Data))
		require.NotNil(t, store.dash)
		assert.Equal(t, int64(7), store.dash.CreatedBy)
		assert.JSONEq(t, `[{"type":"risk-matrix"}]`, string(store.dash.Widgets))
	})
}

// =============================================================================
// Reports
// =============================================================================

func TestReportHandler_Generate(t *testing.T) {
	t.Run("type required", func(t *testing.T) {
		h := NewReportHandler(&fakeGenerator{}, &fakeTemplates{}, nil, logger.Nop())
		rec := httptest.NewRecorder()
		h.Generate(rec, newRequest("GET", "/api/reports/generate", "", nil, false))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Report type is required", decodeEnvelope(t, rec).Message)
	})

	t.Run("unsupported format", func(t *testing.T) {
		h := NewReportHandler(&fakeGenerator{}, &fakeTemplates{}, nil, logger.Nop())
		rec := httptest.NewRecorder()
		h.Generate(rec, newRequest("GET", "/api/reports/generate?type=suppliers&format=docx", "", nil, false))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad parameter", func(t *testing.T) {
		h := NewReportHandler(&fakeGenerator{}, &fakeTemplates{}, nil, logger.Nop())
		rec := httptest.NewRecorder()
		h.Generate(rec, newRequest("GET", "/api/reports/generate?type=suppliers&date_from=yesterday", "", nil, false))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("csv download records export", func(t *testing.T) {
		gen := &fakeGenerator{}
		activity := &fakeActivity{}
		h := NewReportHandler(gen, &fakeTemplates{}, activity, logger.Nop())
		rec := httptest.NewRecorder()
		h.Generate(rec, newRequest("GET", "/api/reports/generate?type=suppliers&format=csv&risk_category=A", "", nil, true))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "suppliers", gen.reportType)
		assert.Equal(t, "A", gen.params.RiskCategory)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="suppliers_report_2025-06-01_10-30-00.csv"`, rec.Header().Get("Content-Disposition"))
		assert.NotEmpty(t, rec.Header().Get("X-Export-ID"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeff"))

		require.Len(t, activity.calls, 1)
		assert.Equal(t, contracts.ActionExport, activity.calls[0].action)
		assert.Equal(t, "report", activity.calls[0].resource)
		assert.Equal(t, testActor, activity.calls[0].actor)
	})

	t.Run("anonymous export is not recorded", func(t *testing.T) {
		activity := &fakeActivity{}
		h := NewReportHandler(&fakeGenerator{}, &fakeTemplates{}, activity, logger.Nop())
		rec := httptest.NewRecorder()
		h.Generate(rec, newRequest("GET", "/api/reports/generate?type=suppliers&format=html", "", nil, false))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, activity.calls)
	})

	t.Run("generator failure", func(t *testing.T) {
		h := NewReportHandler(&fakeGenerator{err: errors.New("timeout")}, &fakeTemplates{}, nil, logger.Nop())
		rec := httptest.NewRecorder()
		h.Generate(rec, newRequest("GET", "/api/reports/generate?type=risk", "", nil, false))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to generate report", decodeEnvelope(t, rec).Message)
	})
}

func TestReportHandler_Statistics(t *testing.T) {
	gen := &fakeGenerator{}
	h := NewReportHandler(gen, &fakeTemplates{}, nil, logger.Nop())

	rec := httptest.NewRecorder()
	h.Statistics(rec, newRequest("GET", "/api/reports/statistics", "", nil, false))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.StatsOverview, gen.statsType)

	rec = httptest.NewRecorder()
	h.Statistics(rec, newRequest("GET", "/api/reports/statistics?type=compliance", "", nil, false))
	assert.Equal(t, "compliance", gen.statsType)
}

func TestReportHandler_SaveTemplate(t *testing.T) {
	t.Run("unknown report type", func(t *testing.T) {
		h := NewReportHandler(&fakeGenerator{}, &fakeTemplates{}, nil, logger.Nop())
		rec := httptest.NewRecorder()
		h.SaveTemplate(rec, newRequest("POST", "/api/reports/templates", `{"name":"Q","report_type":"weather"}`, nil, true))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		store := &fakeTemplates{}
		h := NewReportHandler(&fakeGenerator{}, store, nil, logger.Nop())
		rec := httptest.NewRecorder()
		h.SaveTemplate(rec, newRequest("POST", "/api/reports/templates",
			`{"name":"Quarterly risk","report_type":"risk","parameters":{"months":3}}`, nil, true))

		require.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Report template created successfully", env.Message)
		assert.JSONEq(t, `{"id":12}`, string(env.Data))
		assert.Equal(t, int64(7), store.tpl.CreatedBy)
	})
}

// =============================================================================
// Suppliers
// =============================================================================

func TestSupplierFilterFromQuery(t *testing.T) {
	t.Run("full query", func(t *testing.T) {
		r := newRequest("GET", "/api/suppliers?search=+steel+&risk_category=A&status=Active&compliance_min=80.5&audit_overdue=true&sort=iso_compliance_score&order=desc&limit=1000&offset=20", "", nil, false)
		f, err := SupplierFilterFromQuery(r)
		require.NoError(t, err)

		assert.Equal(t, "steel", f.Search)
		require.NotNil(t, f.RiskCategory)
		assert.Equal(t, contracts.RiskCategoryA, *f.RiskCategory)
		require.NotNil(t, f.Status)
		assert.Equal(t, contracts.SupplierActive, *f.Status)
		require.NotNil(t, f.ComplianceMin)
		assert.InDelta(t, 80.5, *f.ComplianceMin, 0.0001)
		assert.True(t, f.AuditOverdue)
		assert.Equal(t, "iso_compliance_score", f.SortBy)
		assert.Equal(t, contracts.SortDesc, f.Order)
		assert.Equal(t, contracts.MaxSupplierLimit, f.Limit)
		assert.Equal(t, 20, f.Offset)
	})

	t.Run("defaults and all", func(t *testing.T) {
		f, err := SupplierFilterFromQuery(newRequest("GET", "/api/suppliers?risk_category=all&status=all&sort=password", "", nil, false))
		require.NoError(t, err)
		assert.Nil(t, f.RiskCategory)
		assert.Nil(t, f.Status)
		assert.Equal(t, "name", f.SortBy)
		assert.Equal(t, contracts.SortAsc, f.Order)
		assert.Equal(t, contracts.DefaultSupplierLimit, f.Limit)
	})

	t.Run("errors", func(t *testing.T) {
		for _, q := range []string{"?risk_category=D", "?compliance_min=high", "?limit=x", "?offset=y"} {
			_, err := SupplierFilterFromQuery(newRequest("GET", "/api/suppliers"+q, "", nil, false))
			assert.True(t, errors.Is(err, contracts.ErrInvalidInput), q)
		}
	})
}

func TestSupplierHandler(t *testing.T) {
	t.Run("list returns empty array", func(t *testing.T) {
		h := NewSupplierHandler(&fakeSuppliers{}, logger.Nop())
		rec := httptest.NewRecorder()
		h.List(rec, newRequest("GET", "/api/suppliers", "", nil, false))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", string(decodeEnvelope(t, rec).Data))
	})

	t.Run("get not found", func(t *testing.T) {
		svc := &fakeSuppliers{err: fmt.Errorf("failed to get supplier 9: %w", contracts.ErrNotFound)}
		h := NewSupplierHandler(svc, logger.Nop())
		rec := httptest.NewRecorder()
		h.Get(rec, newRequest("GET", "/api/suppliers/9", "", map[string]string{"id": "9"}, false))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, int64(9), svc.id)
	})

	t.Run("create requires identity", func(t *testing.T) {
		h := NewSupplierHandler(&fakeSuppliers{}, logger.Nop())
		rec := httptest.NewRecorder()
		h.Create(rec, newRequest("POST", "/api/suppliers", `{"name":"Acme","risk_category":"B"}`, nil, false))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create", func(t *testing.T) {
		svc := &fakeSuppliers{}
		h := NewSupplierHandler(svc, logger.Nop())
		rec := httptest.NewRecorder()
		h.Create(rec, newRequest("POST", "/api/suppliers", `{"name":"Acme","risk_category":"B","contact_name":"Ivan"}`, nil, true))

		require.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Supplier created successfully", env.Message)
		assert.JSONEq(t, `{"id":42}`, string(env.Data))
		assert.Equal(t, testActor, svc.actor)
		assert.Equal(t, "Acme", svc.created.Name)
		assert.Equal(t, "Ivan", svc.created.ContactName)
	})

	t.Run("update", func(t *testing.T) {
		svc := &fakeSuppliers{}
		h := NewSupplierHandler(svc, logger.Nop())
		rec := httptest.NewRecorder()
		h.Update(rec, newRequest("PUT", "/api/suppliers/5", `{"iso_compliance_score":88}`, map[string]string{"id": "5"}, true))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Supplier updated successfully", decodeEnvelope(t, rec).Message)
		assert.Equal(t, int64(5), svc.id)
		require.NotNil(t, svc.update.ComplianceScore)
		assert.InDelta(t, 88, *svc.update.ComplianceScore, 0.0001)
	})

	t.Run("update invalid json", func(t *testing.T) {
		h := NewSupplierHandler(&fakeSuppliers{}, logger.Nop())
		rec := httptest.NewRecorder()
		h.Update(rec, newRequest("PUT", "/api/suppliers/5", `not json`, map[string]string{"id": "5"}, true))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON data", decodeEnvelope(t, rec).Message)
	})

	t.Run("delete", func(t *testing.T) {
		svc := &fakeSuppliers{}
		h := NewSupplierHandler(svc, logger.Nop())
		rec := httptest.NewRecorder()
		h.Delete(rec, newRequest("DELETE", "/api/suppliers/5", "", map[string]string{"id": "5"}, true))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Supplier deactivated successfully", decodeEnvelope(t, rec).Message)
		assert.Equal(t, int64(5), svc.id)
	})
}

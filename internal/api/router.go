package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SKuytov/SVP/internal/api/handlers"
	"github.com/SKuytov/SVP/internal/auth"
	"github.com/SKuytov/SVP/pkg/logger"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Health    *handlers.HealthHandler
	Dashboard *handlers.DashboardHandler
	Analytics *handlers.AnalyticsHandler
	Reports   *handlers.ReportHandler
	Suppliers *handlers.SupplierHandler
	Activity  *handlers.ActivityHandler
	Realtime  *handlers.RealtimeHandler // nil = websocket 비활성
}

// RouterOptions are the cross-cutting concerns of the router
type RouterOptions struct {
	AllowedOrigins []string
	Verifier       *auth.Verifier // nil = 인증 없음 (개발용)
	Limiter        *RateLimiter   // nil = 제한 없음
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, opts RouterOptions, log *logger.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondError(w, http.StatusNotFound, "Endpoint not found", nil)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	// Health check
	r.HandleFunc("/health", h.Health.Health).Methods("GET")

	// API
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/dashboard", h.Dashboard.Get).Methods("GET")

	api.HandleFunc("/analytics", h.Analytics.Types).Methods("GET")
	api.HandleFunc("/analytics/dashboards", h.Analytics.SaveDashboard).Methods("POST")
	api.HandleFunc("/analytics/{type}", h.Analytics.Get).Methods("GET")

	api.HandleFunc("/reports", h.Reports.Types).Methods("GET")
	api.HandleFunc("/reports/generate", h.Reports.Generate).Methods("GET")
	api.HandleFunc("/reports/statistics", h.Reports.Statistics).Methods("GET")
	api.HandleFunc("/reports/templates", h.Reports.SaveTemplate).Methods("POST")

	api.HandleFunc("/suppliers", h.Suppliers.List).Methods("GET")
	api.HandleFunc("/suppliers", h.Suppliers.Create).Methods("POST")
	api.HandleFunc("/suppliers/{id:[0-9]+}", h.Suppliers.Get).Methods("GET")
	api.HandleFunc("/suppliers/{id:[0-9]+}", h.Suppliers.Update).Methods("PUT")
	api.HandleFunc("/suppliers/{id:[0-9]+}", h.Suppliers.Delete).Methods("DELETE")

	api.HandleFunc("/activity", h.Activity.Recent).Methods("GET")

	// Realtime
	ws := r.PathPrefix("/ws").Subrouter()
	if h.Realtime != nil {
		ws.HandleFunc("/realtime", h.Realtime.Connect).Methods("GET")
	}

	if opts.Limiter != nil {
		api.Use(rateLimitMiddleware(opts.Limiter))
	}
	if opts.Verifier != nil {
		// POST/PUT/DELETE 만 토큰 필수
		authMW := writeAuthMiddleware(opts.Verifier, authErrorWriter(log))
		api.Use(authMW)
		ws.Use(authMW)
	}

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(clientMiddleware)

	// CORS 는 라우트 매칭 전에 preflight 를 처리해야 함
	return corsMiddleware(opts.AllowedOrigins)(r)
}

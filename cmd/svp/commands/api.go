package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/internal/api"
	"github.com/SKuytov/SVP/internal/api/handlers"
	"github.com/SKuytov/SVP/internal/realtime"
	"github.com/SKuytov/SVP/internal/repository"
	"github.com/SKuytov/SVP/internal/scheduler"
	"github.com/SKuytov/SVP/internal/scheduler/jobs"
	"github.com/SKuytov/SVP/internal/supplier"
	redispkg "github.com/SKuytov/SVP/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버와 실시간 웹소켓 피드를 시작합니다.

Endpoints:
  GET    /health                      - Health check
  GET    /api/dashboard               - Dashboard snapshot
  GET    /api/analytics               - Analytics catalogue
  GET    /api/analytics/{type}        - Analytics bundle
  POST   /api/analytics/dashboards    - Save a dashboard layout
  GET    /api/reports                 - Report catalogue
  GET    /api/reports/generate        - Report export (?type=&format=csv|excel|pdf|html)
  GET    /api/reports/statistics      - Report statistics
  POST   /api/reports/templates       - Save a report template
  GET    /api/suppliers               - Supplier registry
  POST   /api/suppliers               - Create a supplier
  GET    /api/suppliers/{id}          - Supplier detail
  PUT    /api/suppliers/{id}          - Update a supplier
  DELETE /api/suppliers/{id}          - Deactivate a supplier
  GET    /api/activity                - Recent activity
  GET    /ws/realtime                 - Realtime metrics feed

Example:
  go run ./cmd/svp api
  go run ./cmd/svp api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== SVP API Server ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port":  a.cfg.Port,
		"env":   a.cfg.Env,
		"redis": a.redis.Enabled(),
	}).Info("Initializing API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Services
	assembler := a.assembler()
	activity := a.activityLogger()
	suppliers := supplier.NewService(repository.NewSupplierRepository(a.db.Pool), activity)
	templates := repository.NewTemplateRepository(a.db.Pool)

	// 2. Realtime feed
	publisher := realtime.NewPublisher(func(ctx context.Context) (interface{}, error) {
		return assembler.Build(ctx, analytics.Request{Type: analytics.TypeRealtime})
	})
	hub := realtime.NewHub(log.Component("realtime").Zerolog(),
		realtime.WithMaxClients(a.tuning.Realtime.MaxClients),
		realtime.WithWelcome(publisher.Welcome),
		realtime.WithOriginCheck(api.OriginAllowed(a.cfg.HTTP.AllowedOrigins)),
	)
	hubCtx, closeHub := context.WithCancel(ctx)
	defer closeHub()
	go hub.Run(hubCtx)

	push := scheduler.New(log, scheduler.WithRetry(0, 0)) // 다음 tick이 곧 재시도
	if err := push.AddJob(jobs.NewRealtimePushJob(publisher, hub, a.tuning.RealtimePushSchedule(), log)); err != nil {
		return fmt.Errorf("register realtime push: %w", err)
	}
	push.Start()
	defer push.Stop()

	// 3. Handlers
	var cache handlers.Pinger
	var shared *redispkg.RateLimiter
	if a.redis.Enabled() {
		cache = a.redis
		shared = redispkg.NewRateLimiter(a.redis, cachePrefix)
	}

	h := api.Handlers{
		Health:    handlers.NewHealthHandler(a.db, cache, log),
		Dashboard: handlers.NewDashboardHandler(assembler, log),
		Analytics: handlers.NewAnalyticsHandler(assembler, templates, log),
		Reports:   handlers.NewReportHandler(a.reportGenerator(), templates, activity, log),
		Suppliers: handlers.NewSupplierHandler(suppliers, log),
		Activity:  handlers.NewActivityHandler(activity, a.tuning.Activity.FeedLimit, log),
		Realtime:  handlers.NewRealtimeHandler(hub, log),
	}

	router := api.NewRouter(h, api.RouterOptions{
		AllowedOrigins: a.cfg.HTTP.AllowedOrigins,
		Verifier:       a.verifier(),
		Limiter: api.NewRateLimiter(shared, a.cfg.HTTP.RateLimitRPS, a.cfg.HTTP.RateLimitBurst,
			log.Component("ratelimit").Zerolog()),
	}, log)

	// 4. Server; stops on SIGINT/SIGTERM
	server := api.New(a.cfg, log, router)
	server.OnShutdown(closeHub)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Printf("   Realtime push every %s\n", a.tuning.Realtime.PushInterval)
	fmt.Println("\nPress Ctrl+C to stop")

	return server.Run(ctx)
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/internal/analyticsconfig"
	"github.com/SKuytov/SVP/internal/audit"
	"github.com/SKuytov/SVP/internal/auth"
	"github.com/SKuytov/SVP/internal/report"
	"github.com/SKuytov/SVP/internal/repository"
	"github.com/SKuytov/SVP/pkg/config"
	"github.com/SKuytov/SVP/pkg/database"
	"github.com/SKuytov/SVP/pkg/logger"
	redispkg "github.com/SKuytov/SVP/pkg/redis"
)

// cachePrefix namespaces every Redis key of this service
const cachePrefix = "svp"

// app holds the shared dependencies of the commands
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	redis  *redispkg.Client
	tuning *analyticsconfig.Config
	store  *repository.AnalyticsRepository
}

// loadSettings reads the environment config and the analytics tuning file
func loadSettings() (*config.Config, *logger.Logger, *analyticsconfig.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if analyticsConfigPath != "" {
		cfg.AnalyticsConfigPath = analyticsConfigPath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	tuning, err := analyticsconfig.Load(cfg.AnalyticsConfigPath)
	if err != nil {
		return nil, nil, nil, err
	}

	fp, err := analyticsconfig.Fingerprint(tuning)
	if err != nil {
		return nil, nil, nil, err
	}
	log.WithFields(logger.Fields{
		"profile":     tuning.Meta.Profile,
		"version":     tuning.Meta.Version,
		"fingerprint": fp,
	}).Debug("Analytics config loaded")

	return cfg, log, tuning, nil
}

// newApp connects the database and Redis. Redis failures degrade to a
// disabled client so the service runs uncached.
func newApp() (*app, error) {
	cfg, log, tuning, err := loadSettings()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("Connected to database")

	rc, err := redispkg.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		rc = redispkg.NewFromRedis(nil)
	}

	return &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		redis:  rc,
		tuning: tuning,
		store:  repository.NewAnalyticsRepository(db.Pool),
	}, nil
}

// Close releases the connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close Redis")
	}
	a.db.Close()
}

// assembler builds the analytics assembler; the bundle cache is attached only
// when Redis is reachable
func (a *app) assembler() *analytics.Assembler {
	opts := []analytics.Option{
		analytics.WithSettings(a.tuning.Settings()),
		analytics.WithFiller(a.tuning.Filler()),
	}
	if a.redis.Enabled() {
		opts = append(opts, analytics.WithCache(redispkg.NewCache(a.redis, cachePrefix)))
	}
	return analytics.NewAssembler(a.store, a.log.Component("analytics").Zerolog(), opts...)
}

func (a *app) reportGenerator() *report.Generator {
	return report.NewGenerator(a.store, a.log.Component("report").Zerolog(),
		report.WithDefaults(a.tuning.Reports.ComplianceMonths, a.tuning.Reports.CertificateDaysAhead))
}

func (a *app) activityLogger() *audit.Logger {
	return audit.NewLogger(audit.NewRepository(a.db.Pool))
}

// verifier returns nil when authentication is off. An empty secret can only
// pass config validation in development.
func (a *app) verifier() *auth.Verifier {
	if !a.cfg.Auth.Enabled {
		a.log.Warn("Authentication disabled: mutating endpoints will reject every request")
		return nil
	}
	if a.cfg.Auth.JWTSecret == "" {
		a.log.Warn("JWT_SECRET is empty in development, authentication disabled")
		return nil
	}
	return auth.NewVerifier(a.cfg.Auth.JWTSecret, a.cfg.Auth.Issuer)
}

// commandContext bounds one-shot CLI commands
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

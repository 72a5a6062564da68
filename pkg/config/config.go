package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Auth
	Auth AuthConfig

	// HTTP
	HTTP HTTPConfig

	// AnalyticsConfigPath YAML 튜닝 파일 (빈 값 = 기본값)
	AnalyticsConfigPath string

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// ConnectTimeout bounds the startup ping
	ConnectTimeout time.Duration
	// StatementTimeout is sent as statement_timeout (0 = server default)
	StatementTimeout time.Duration
}

// AuthConfig holds the token verification settings
type AuthConfig struct {
	Enabled   bool
	JWTSecret string
	Issuer    string
}

// HTTPConfig holds the API surface settings
type HTTPConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// ShutdownGrace bounds draining of in-flight requests on stop
	ShutdownGrace time.Duration
}

// Load reads configuration from environment variables. Malformed values are
// reported together with the validation errors instead of falling back.
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	env := &envReader{}
	cfg := &Config{
		Port: env.str("PORT", "8080"),
		Env:  env.str("ENV", "development"),

		Database: DatabaseConfig{
			URL:              env.str("DATABASE_URL", ""),
			MaxConns:         env.integer("DB_MAX_CONNS", 25),
			MinConns:         env.integer("DB_MIN_CONNS", 5),
			MaxConnLifetime:  env.duration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime:  env.duration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
			ConnectTimeout:   env.duration("DB_CONNECT_TIMEOUT", 5*time.Second),
			StatementTimeout: env.duration("DB_STATEMENT_TIMEOUT", 30*time.Second),
		},

		Redis: RedisConfig{
			Host:     env.str("REDIS_HOST", "localhost"),
			Port:     env.str("REDIS_PORT", "6379"),
			Password: env.str("REDIS_PASSWORD", ""),
			DB:       env.integer("REDIS_DB", 0),
			Enabled:  env.flag("REDIS_ENABLED", true),
		},

		Auth: AuthConfig{
			Enabled:   env.flag("AUTH_ENABLED", true),
			JWTSecret: env.str("JWT_SECRET", ""),
			Issuer:    env.str("JWT_ISSUER", "svp"),
		},

		HTTP: HTTPConfig{
			AllowedOrigins: env.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RateLimitRPS:   env.number("RATE_LIMIT_RPS", 20),
			RateLimitBurst: env.integer("RATE_LIMIT_BURST", 40),
			ReadTimeout:    env.duration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   env.duration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			ShutdownGrace:  env.duration("HTTP_SHUTDOWN_GRACE", 30*time.Second),
		},

		AnalyticsConfigPath: env.str("ANALYTICS_CONFIG", ""),

		LogLevel:  env.str("LOG_LEVEL", "debug"),
		LogFormat: env.str("LOG_FORMAT", "json"),
	}

	if err := errors.Join(append(env.errs, cfg.validate()...)...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports ENV=development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// validate returns every violated rule
func (c *Config) validate() []error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	switch c.Env {
	case "development", "staging", "production":
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of development, staging, production (got %q)", c.Env))
	}
	// 개발 환경 외에는 서명 키 필수
	if c.Auth.Enabled && c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required when AUTH_ENABLED outside development"))
	}
	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns))
	}
	return errs
}

// loadEnvFile loads the first .env found; real environment variables win
func loadEnvFile() {
	paths := []string{".env", "backend/.env"}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths, filepath.Join(dir, ".env"), filepath.Join(dir, "..", ".env"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// =============================================================================
// envReader
// =============================================================================

// envReader reads typed variables; an unset or empty variable yields the
// default and a malformed one is recorded in errs
type envReader struct {
	errs []error
}

func (r *envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func (r *envReader) fail(key, raw string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q: %w", key, raw, err))
}

func (r *envReader) str(key, def string) string {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	raw, ok := r.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, raw, err)
		return def
	}
	return v
}

func (r *envReader) number(key string, def float64) float64 {
	raw, ok := r.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, raw, err)
		return def
	}
	return v
}

func (r *envReader) flag(key string, def bool) bool {
	raw, ok := r.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(key, raw, err)
		return def
	}
	return v
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw, ok := r.lookup(key)
	if !ok {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, raw, err)
		return def
	}
	return v
}

// list splits a comma separated value, dropping empty items
func (r *envReader) list(key string, def []string) []string {
	raw, ok := r.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

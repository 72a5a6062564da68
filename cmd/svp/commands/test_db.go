package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SKuytov/SVP/pkg/database"
	redispkg "github.com/SKuytov/SVP/pkg/redis"
)

const pingTimeout = 5 * time.Second

var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL / Redis 연결 점검",
	Long: `배포 전 인프라 상태를 점검합니다.

  database   연결, health check, pool 통계
  schema     적용된 마이그레이션 버전 vs 내장 최신 버전
  redis      Ping (REDIS_ENABLED=false 이면 건너뜀)

database 또는 schema 점검이 실패하면 non-zero 로 종료합니다.

Example:
  go run ./cmd/svp test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

// probe is one infrastructure check; optional probes only warn
type probe struct {
	name     string
	optional bool
	run      func(ctx context.Context) (string, error)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	PrintHeader("SVP Infrastructure Check")

	cfg, _, _, err := loadSettings()
	if err != nil {
		return err
	}
	fmt.Printf("ENV=%s  DATABASE_URL=%s\n\n", cfg.Env, maskPassword(cfg.Database.URL))

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ database: %w", err)
	}
	defer db.Close()

	rc, redisErr := redispkg.New(cfg)
	if redisErr == nil {
		defer rc.Close()
	}

	probes := []probe{
		{name: "database", run: func(ctx context.Context) (string, error) {
			status, err := db.HealthCheck(ctx)
			if err != nil {
				return "", err
			}
			st := status.Stats
			return fmt.Sprintf("%v, pool %d/%d (idle %d, acquired %d, avg wait %v)",
				status.ResponseTime, st.TotalConns, st.MaxConns, st.IdleConns, st.AcquiredConns,
				averageWait(st.AcquireDuration, st.AcquireCount)), nil
		}},
		{name: "schema", run: func(ctx context.Context) (string, error) {
			return schemaState(ctx, db)
		}},
		{name: "redis", optional: true, run: func(ctx context.Context) (string, error) {
			switch {
			case redisErr != nil:
				return "", redisErr
			case !rc.Enabled():
				return "disabled", nil
			}
			return "pong", rc.Ping(ctx)
		}},
	}

	failed := 0
	for _, p := range probes {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		detail, err := p.run(ctx)
		cancel()

		switch {
		case err == nil:
			fmt.Printf("✅ %-9s %s\n", p.name, detail)
		case p.optional:
			fmt.Printf("⚠️  %-9s %v\n", p.name, err)
		default:
			fmt.Printf("❌ %-9s %v\n", p.name, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Println("\n✅ All checks passed")
	return nil
}

// schemaState compares the applied goose version with the embedded latest
func schemaState(ctx context.Context, db *database.DB) (string, error) {
	m, err := database.NewMigrator(db)
	if err != nil {
		return "", err
	}
	defer m.Close()

	applied, err := m.Version(ctx)
	if err != nil {
		return "", err
	}
	latest, err := database.LatestVersion()
	if err != nil {
		return "", err
	}
	if applied < latest {
		return "", fmt.Errorf("version %d, %d pending (run: svp migrate up)", applied, latest-applied)
	}
	return fmt.Sprintf("version %d (up to date)", applied), nil
}

func averageWait(total time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SKuytov/SVP/pkg/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "스키마 마이그레이션",
	Long: `내장된 goose 마이그레이션을 적용합니다.

  up      - 대기 중인 마이그레이션 모두 적용
  down    - 마지막 마이그레이션 롤백
  status  - 적용 상태 출력

Example:
  go run ./cmd/svp migrate up
  go run ./cmd/svp migrate status`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, _, err := loadSettings()
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	defer m.Close()

	ctx, cancel := commandContext()
	defer cancel()

	switch args[0] {
	case "up":
		err = m.Up(ctx)
	case "down":
		err = m.Down(ctx)
	case "status":
		err = m.Status(ctx)
	}
	if err != nil {
		return err
	}

	version, err := m.Version(ctx)
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"command": args[0],
		"version": version,
	}).Info("Migration finished")
	fmt.Printf("✅ Schema version: %d\n", version)
	return nil
}

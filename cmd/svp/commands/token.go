package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SKuytov/SVP/internal/auth"
	"github.com/SKuytov/SVP/internal/contracts"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "API 접근 토큰 발급 (운영/테스트용)",
	Long: `JWT_SECRET으로 서명한 Bearer 토큰을 발급합니다.

Example:
  go run ./cmd/svp token --user-id 7 --email qa@example.com --role manager --ttl 24h`,
	RunE: runToken,
}

var (
	tokenUserID int64
	tokenEmail  string
	tokenRole   string
	tokenTTL    time.Duration
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "user id (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "viewer", "user role")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 8*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user-id")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, _, _, err := loadSettings()
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if tokenUserID <= 0 {
		return fmt.Errorf("%w: user-id must be positive", contracts.ErrInvalidInput)
	}

	v := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	token, err := v.Issue(contracts.Identity{
		UserID: tokenUserID,
		Email:  tokenEmail,
		Role:   tokenRole,
	}, tokenTTL)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

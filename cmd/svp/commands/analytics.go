package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SKuytov/SVP/internal/analytics"
	"github.com/SKuytov/SVP/internal/contracts"
)

// analyticsCmd represents the analytics command
var analyticsCmd = &cobra.Command{
	Use:   "analytics [type]",
	Short: "분석 번들 조회 (JSON 출력)",
	Long: `분석 번들을 계산하여 JSON으로 출력합니다. 인자가 없으면 목록을 출력합니다.

Example:
  go run ./cmd/svp analytics
  go run ./cmd/svp analytics compliance-trends --months 6 --granularity quarter
  go run ./cmd/svp analytics supplier-performance --supplier 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalytics,
}

var (
	analyticsMonths      int
	analyticsGranularity string
	analyticsSupplier    int64
)

func init() {
	rootCmd.AddCommand(analyticsCmd)

	analyticsCmd.Flags().IntVar(&analyticsMonths, "months", 0, "window in months (0 = configured default)")
	analyticsCmd.Flags().StringVar(&analyticsGranularity, "granularity", "month", "day|week|month|quarter")
	analyticsCmd.Flags().Int64Var(&analyticsSupplier, "supplier", 0, "supplier id (supplier-performance)")
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return printJSON(analytics.Types())
	}
	if analyticsMonths < 0 {
		return fmt.Errorf("%w: months must not be negative", contracts.ErrInvalidInput)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req := analytics.Request{
		Type:        args[0],
		Months:      analyticsMonths,
		Granularity: contracts.ParseGranularity(analyticsGranularity),
	}
	if analyticsSupplier > 0 {
		req.SupplierID = &analyticsSupplier
	}

	ctx, cancel := commandContext()
	defer cancel()

	bundle, err := a.assembler().Build(ctx, req)
	if err != nil {
		return fmt.Errorf("build %s: %w", req.Type, err)
	}
	return printJSON(bundle)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

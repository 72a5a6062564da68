package commands

import (
	"bufio"
	"fmt"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SKuytov/SVP/internal/contracts"
	"github.com/SKuytov/SVP/internal/report"
	"github.com/SKuytov/SVP/internal/report/export"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [type]",
	Short: "보고서 파일 생성",
	Long: `보고서를 생성하여 파일로 저장합니다. 인자가 없으면 보고서 목록을 출력합니다.

Parameters (--param key=value):
  date_from, date_to, supplier_id, risk_category, status,
  document_type, days_ahead, months

Example:
  go run ./cmd/svp report
  go run ./cmd/svp report suppliers --format excel
  go run ./cmd/svp report certificates --format pdf --param days_ahead=30 --out certs.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var (
	reportFormat string
	reportOut    string
	reportParams map[string]string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportFormat, "format", "pdf", "csv|excel|pdf|html")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default: generated file name)")
	reportCmd.Flags().StringToStringVar(&reportParams, "param", nil, "report parameter (repeatable)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return printJSON(report.Types())
	}

	format, err := export.ParseFormat(reportFormat)
	if err != nil {
		return err
	}

	q := url.Values{}
	for k, v := range reportParams {
		q.Set(k, v)
	}
	params, err := report.ParamsFromQuery(q)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext()
	defer cancel()

	rep, err := a.reportGenerator().Generate(ctx, args[0], params)
	if err != nil {
		return fmt.Errorf("generate %s: %w", args[0], err)
	}

	path := reportOut
	if path == "" {
		path = rep.Filename(format.Extension())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := export.Write(w, format, rep); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	exportID := uuid.NewString()
	details := map[string]interface{}{
		"export_id":  exportID,
		"type":       rep.Type,
		"format":     string(format),
		"parameters": rep.Parameters,
		"file":       path,
	}
	if err := a.activityLogger().Log(ctx, contracts.SystemIdentity(), contracts.ActionExport, "report", nil, nil, details); err != nil {
		a.log.WithError(err).Warn("Failed to record export activity")
	}

	fmt.Printf("✅ %s written (export %s)\n", path, exportID)
	return nil
}

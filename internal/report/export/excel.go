package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SKuytov/SVP/internal/report"
)

const (
	productLine  = "SupplierVault Pro - Enterprise Compliance Management"
	summarySheet = "Summary"
	titleColor   = "4472C4"
	headerColor  = "D9E2F3"
)

// WriteExcel writes an xlsx workbook: three title rows, the primary table,
// the remaining sections below it, and a Summary sheet when a summary exists
func WriteExcel(w io.Writer, rep *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(rep.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{titleColor}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := []interface{}{
		rep.Title,
		"Generated: " + rep.GeneratedAt.Format("2006-01-02 15:04:05"),
		productLine,
	}
	for i, v := range header {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write title: %w", err)
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "A3", titleStyle); err != nil {
		return fmt.Errorf("failed to style title: %w", err)
	}

	row := 5
	var widest int
	for _, t := range tables(rep) {
		if t.Title != "" {
			if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.Title); err != nil {
				return err
			}
			row++
		}
		if row, err = writeTable(f, sheet, row, t, headerStyle); err != nil {
			return err
		}
		row++ // 표 사이 빈 줄
		if len(t.Columns) > widest {
			widest = len(t.Columns)
		}
	}
	if widest > 0 {
		last, _ := excelize.ColumnNumberToName(widest)
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
	}

	if len(rep.Summary) > 0 {
		if err := writeSummary(f, rep.Summary); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// tables orders the primary table before the remaining sections
func tables(rep *report.Report) []report.Table {
	var out []report.Table
	if rep.Data != nil {
		out = append(out, *rep.Data)
	}
	return append(out, rep.Sections...)
}

func writeTable(f *excelize.File, sheet string, row int, t report.Table, headerStyle int) (int, error) {
	if len(t.Columns) == 0 {
		return row, nil
	}

	headers := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = Humanize(c)
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(len(t.Columns), row)
	if err := f.SetSheetRow(sheet, start, &headers); err != nil {
		return row, fmt.Errorf("failed to write header row: %w", err)
	}
	if err := f.SetCellStyle(sheet, start, end, headerStyle); err != nil {
		return row, fmt.Errorf("failed to style header row: %w", err)
	}
	row++

	for _, r := range t.Rows {
		cells := make([]interface{}, len(r))
		for i, v := range r {
			cells[i] = excelValue(v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return row, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}
	return row, nil
}

func writeSummary(f *excelize.File, summary []report.Field) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	for i, field := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := []interface{}{Humanize(field.Key), excelValue(field.Value)}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 32)
}

// excelValue keeps numbers numeric and renders everything else as text
func excelValue(v interface{}) interface{} {
	switch v.(type) {
	case nil:
		return ""
	case int, int64, float64:
		return v
	default:
		return FormatCell(v)
	}
}

// sheetName strips characters Excel rejects and caps the length at 31
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, title)
	if len(name) > 31 {
		name = name[:31]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == summarySheet {
		return "Report"
	}
	return name
}

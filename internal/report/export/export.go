package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/SKuytov/SVP/internal/report"
)

// ErrUnsupportedFormat is returned for an unknown export format (HTTP 400)
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
	FormatHTML  Format = "html"
)

// ParseFormat maps a query value to a Format ("" → pdf, "xlsx" → excel)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType is the HTTP content type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/pdf"
	}
}

// Extension is the file extension of the format
func (f Format) Extension() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return string(f)
}

// Write renders rep in the given format
func Write(w io.Writer, f Format, rep *report.Report) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rep)
	case FormatExcel:
		return WriteExcel(w, rep)
	case FormatHTML:
		return WriteHTML(w, rep)
	case FormatPDF:
		return WritePDF(w, rep)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// =============================================================================
// Cell formatting (shared)
// =============================================================================

// Humanize turns "days_until_expiry" into "Days Until Expiry"
func Humanize(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormatCell renders a cell value as text
func FormatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

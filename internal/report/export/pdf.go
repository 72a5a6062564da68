package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pdf/fpdf"

	"github.com/SKuytov/SVP/internal/report"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 5.0
	pdfMaxColumns = 12 // 가로 A4에 들어가는 최대 열 수
)

// WritePDF renders the HTML report and lays it out with fpdf.
// Wide tables are cut to the first pdfMaxColumns columns.
func WritePDF(w io.Writer, rep *report.Report) error {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, rep); err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return fmt.Errorf("failed to parse report html: %w", err)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(rep.Title, true)
	pdf.SetCreator("SupplierVault Pro", true)
	pdf.SetSubject("Supplier Compliance Report", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("SupplierVault Pro | %s - Generated: %s",
			rep.Title, rep.GeneratedAt.Format("2006-01-02 15:04:05"))), "B", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h1":
			pdf.SetFont(pdfFont, "B", 16)
			pdf.MultiCell(0, 8, tr(clean(s.Text())), "", "L", false)
			pdf.Ln(2)
		case "h2":
			pdf.Ln(3)
			pdf.SetFont(pdfFont, "B", 12)
			pdf.MultiCell(0, 7, tr(clean(s.Text())), "", "L", false)
		case "p":
			pdf.SetFont(pdfFont, "", 10)
			pdf.MultiCell(0, pdfLineHeight+1, tr(clean(s.Text())), "", "L", false)
		case "table":
			writePDFTable(pdf, tr, s)
		}
	})

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func writePDFTable(pdf *fpdf.Fpdf, tr func(string) string, table *goquery.Selection) {
	var headers []string
	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, clean(th.Text()))
	})
	if len(headers) == 0 {
		return
	}
	if len(headers) > pdfMaxColumns {
		headers = headers[:pdfMaxColumns]
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(headers))
	maxChars := int(colW / 1.6)

	pdf.SetFont(pdfFont, "B", 7)
	pdf.SetFillColor(217, 226, 243)
	for _, h := range headers {
		pdf.CellFormat(colW, 6, tr(truncate(h, maxChars)), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 7)
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		row.Find("td").Each(func(i int, td *goquery.Selection) {
			if i >= len(headers) {
				return
			}
			pdf.CellFormat(colW, pdfLineHeight, tr(truncate(clean(td.Text()), maxChars)), "1", 0, "L", false, 0, "")
		})
		pdf.Ln(-1)
	})
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to n runes with a trailing ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

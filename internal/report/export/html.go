package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/SKuytov/SVP/internal/report"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"humanize": Humanize,
	"cell":     FormatCell,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p class="generated"><strong>Generated:</strong> {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
{{- if .Summary}}
<h2>Executive Summary</h2>
{{- range .Summary}}
<p class="summary"><strong>{{humanize .Key}}:</strong> {{cell .Value}}</p>
{{- end}}
{{- end}}
{{- with .Data}}
<h2>Detailed Data</h2>
{{template "table" .}}
{{- end}}
{{- range .Sections}}
<h2>{{.Title}}</h2>
{{template "table" .}}
{{- end}}
</body>
</html>
{{define "table"}}<table border="1" cellspacing="0" cellpadding="4">
<thead><tr>{{range .Columns}}<th>{{humanize .}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{cell .}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>{{end}}
`))

// WriteHTML renders the report as a standalone HTML page; cell values are escaped
func WriteHTML(w io.Writer, rep *report.Report) error {
	if err := htmlTemplate.Execute(w, rep); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

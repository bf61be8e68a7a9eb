// Render HTML for viewing one analysed subject

package render

import (
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/yumyai/loopswap/logger"
	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/protein"
	"go.uber.org/zap"
)

var record_page_template *template.Template

func init() {
	mainTmpl := `<!DOCTYPE html>
<html>
<head>
	<title>Loop swap: {{ .Reference }} / {{ .Subject }}</title>
</head>
<body>
	<h1>{{ .Reference }} / {{ .Subject }}</h1>
	{{template "record_summary" . }}
	{{template "record_loops" . }}
</body>
</html>`

	summaryTmpl := `
{{define "record_summary"}}
	<div>
		<p>{{ .Summary.Description }}</p>
		<p>Z-score {{ .Summary.ZScore }}, RMSD {{ .Summary.RMSD }} Å over {{ .Summary.Lali }} of {{ .Summary.Nres }} residues, {{ .Summary.PercentID }}% identity.</p>
		<p>Catalytic triad: nucleophile {{ .Triad.Nucleophile }}, histidine {{ .Triad.Histidine }}, acid {{ .Triad.Acid }}</p>
	</div>
{{end}}`

	loopsTmpl := `
{{define "record_loops"}}
	<table border="1">
	<tr>
		<th>Loop</th>
		<th>Reference splice</th>
		<th>Subject splice</th>
		<th>Reference size</th>
		<th>Subject size</th>
		<th>RMSD</th>
		<th>Target</th>
		<th>Rejected for</th>
	</tr>
	{{ range .Loops }}
		<tr{{ if .Suitability.PossibleTarget }} style="background-color: #d9f2e6"{{ end }}>
			<td>{{ .Loop.Name }}</td>
			<td>{{ splice .NSplice .CSplice true }}</td>
			<td>{{ splice .NSplice .CSplice false }}</td>
			<td>{{ .Size.Reference }}</td>
			<td>{{ .Size.Subject }}</td>
			<td>{{ rmsd .RMSD }}</td>
			<td>{{ .Suitability.PossibleTarget }}</td>
			<td>{{ reasons .Suitability }}</td>
		</tr>
	{{ end }}
	{{ range $name, $msg := .LoopFailures }}
		<tr>
			<td>{{ $name }}</td>
			<td colspan="7">{{ $msg }}</td>
		</tr>
	{{ end }}
	</table>
{{end}}`

	record_page_template = template.New("record_page").Funcs(template.FuncMap{
		"splice":  splice,
		"rmsd":    formatRMSD,
		"reasons": func(s loop.Suitability) string { return strings.Join(s.Reasons(), "; ") },
	})
	record_page_template = template.Must(record_page_template.Parse(mainTmpl))
	record_page_template = template.Must(record_page_template.Parse(summaryTmpl))
	record_page_template = template.Must(record_page_template.Parse(loopsTmpl))
}

func splice(n, c *loop.Pair, reference bool) string {
	side := func(p *loop.Pair) string {
		if p == nil {
			return "-"
		}
		if reference {
			return strconv.Itoa(p.Reference)
		}
		return strconv.Itoa(p.Subject)
	}
	return side(n) + " to " + side(c)
}

func formatRMSD(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func RenderRecordPage(w io.Writer, rec protein.Record) error {
	logger.Debug("Rendering record page", zap.String("subject", rec.Subject), zap.Int("loops", len(rec.Loops)))
	return record_page_template.Execute(w, rec)
}

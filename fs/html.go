package fs

import (
	"bytes"
	"context"
	"html/template"

	"github.com/fwojciec/scholarly"
)

// DefaultOutput is the default HTML results file.
const DefaultOutput = "scraping_results.html"

var resultsTemplate = template.Must(template.New("results").Funcs(template.FuncMap{
	"rank": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://stackpath.bootstrapcdn.com/bootstrap/4.3.1/css/bootstrap.min.css">
<style>
table { font-family: arial, sans-serif; border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #dddddd; text-align: left; padding: 8px; }
tr:nth-child(even) { background-color: #dddddd; }
</style>
</head>
<body>
<div class="container">
<h2>{{.Title}}</h2>
{{template "table" .Records}}
</div>
</body>
</html>
{{define "table"}}<table>
<thead>
<tr class="d-flex">
<th scope="col">#</th>
<th scope="col" class="col">Title</th>
<th scope="col" class="col-1">Year</th>
<th scope="col" class="col-1">Citations</th>
<th scope="col" class="col-2">Document</th>
</tr>
</thead>
<tbody>
{{- range $i, $r := .}}
<tr class="d-flex">
<th scope="row">{{rank $i}}</th>
<td class="col"><a href="{{$r.Link}}">{{$r.Title}}</a></td>
<td class="col-1">{{$r.Year}}</td>
<td class="col-1">{{$r.Citations}}</td>
<td class="col-2"><a class="d-block text-truncate" href="{{$r.Document}}">{{$r.Document}}</a></td>
</tr>
{{- end}}
</tbody>
</table>{{end}}`))

// RenderTable renders ranked records as an HTML table.
func RenderTable(records []*scholarly.Record) (string, error) {
	var buf bytes.Buffer
	if err := resultsTemplate.ExecuteTemplate(&buf, "table", records); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Ensure HTMLWriter implements scholarly.ResultWriter at compile time.
var _ scholarly.ResultWriter = (*HTMLWriter)(nil)

// HTMLWriter writes ranked records as a standalone HTML page.
type HTMLWriter struct {
	Path  string
	Title string
}

// NewHTMLWriter creates an HTMLWriter for path.
func NewHTMLWriter(path, title string) *HTMLWriter {
	if title == "" {
		title = "Results"
	}
	return &HTMLWriter{Path: path, Title: title}
}

// WriteResults replaces the file with the given records.
func (w *HTMLWriter) WriteResults(ctx context.Context, records []*scholarly.Record) error {
	var buf bytes.Buffer
	err := resultsTemplate.Execute(&buf, struct {
		Title   string
		Records []*scholarly.Record
	}{w.Title, records})
	if err != nil {
		return err
	}
	return writeFileAtomic(w.Path, buf.Bytes())
}

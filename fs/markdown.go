package fs

import (
	"context"

	"github.com/fwojciec/scholarly"
)

// Ensure MarkdownWriter implements scholarly.ResultWriter at compile time.
var _ scholarly.ResultWriter = (*MarkdownWriter)(nil)

// MarkdownWriter writes the results table converted to Markdown.
type MarkdownWriter struct {
	Path      string
	Converter scholarly.Converter
}

// NewMarkdownWriter creates a MarkdownWriter for path.
func NewMarkdownWriter(path string, conv scholarly.Converter) *MarkdownWriter {
	return &MarkdownWriter{Path: path, Converter: conv}
}

// WriteResults replaces the file with the given records.
func (w *MarkdownWriter) WriteResults(ctx context.Context, records []*scholarly.Record) error {
	table, err := RenderTable(records)
	if err != nil {
		return err
	}
	md, err := w.Converter.Convert(table)
	if err != nil {
		return err
	}
	return writeFileAtomic(w.Path, []byte(md+"\n"))
}

package fs

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/fwojciec/scholarly"
)

// SnapshotPath returns the JSON snapshot path for an output file: the
// same name with a ".json" extension.
func SnapshotPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ".json"
}

// Ensure JSONWriter implements scholarly.ResultWriter at compile time.
var _ scholarly.ResultWriter = (*JSONWriter)(nil)

// JSONWriter writes records as a JSON array. Unknown years are null.
type JSONWriter struct {
	Path string
}

// NewJSONWriter creates a JSONWriter for path.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{Path: path}
}

// WriteResults replaces the file with the given records.
func (w *JSONWriter) WriteResults(ctx context.Context, records []*scholarly.Record) error {
	if records == nil {
		records = []*scholarly.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(w.Path, append(data, '\n'))
}

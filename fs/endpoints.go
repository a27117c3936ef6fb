package fs

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fwojciec/scholarly"
)

// DefaultEndpointFile is the endpoint list looked up in the working directory.
const DefaultEndpointFile = "Proxy List.txt"

// Ensure EndpointSource implements scholarly.EndpointSource at compile time.
var _ scholarly.EndpointSource = (*EndpointSource)(nil)

// EndpointSource reads endpoints from a headerless comma-separated file.
// Every non-empty field is an endpoint, read row by row.
type EndpointSource struct {
	Path string
}

// NewEndpointSource creates an EndpointSource for path, or for
// DefaultEndpointFile when path is empty.
func NewEndpointSource(path string) *EndpointSource {
	if path == "" {
		path = DefaultEndpointFile
	}
	return &EndpointSource{Path: path}
}

// Load reads the file. A missing file returns ENOTFOUND.
func (s *EndpointSource) Load(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, scholarly.Errorf(scholarly.ENOTFOUND, "endpoint list %q not found", s.Path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var endpoints []string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, scholarly.Errorf(scholarly.EINVALID, "read endpoint list %q: %v", s.Path, err)
		}
		for _, field := range row {
			if field = strings.TrimSpace(field); field != "" {
				endpoints = append(endpoints, field)
			}
		}
	}
	return endpoints, nil
}

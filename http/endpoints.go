package http

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/scholarly"
	"github.com/go-resty/resty/v2"
)

// DefaultEndpointListURL is a public list of "host:port" proxies, one per line.
const DefaultEndpointListURL = "https://raw.githubusercontent.com/clarketm/proxy-list/master/proxy-list-raw.txt"

// Ensure EndpointSource implements scholarly.EndpointSource at compile time.
var _ scholarly.EndpointSource = (*EndpointSource)(nil)

// EndpointSource downloads a newline-separated endpoint list.
type EndpointSource struct {
	URL    string
	client *resty.Client
}

// NewEndpointSource creates an EndpointSource for url, or for
// DefaultEndpointListURL when url is empty.
func NewEndpointSource(url string) *EndpointSource {
	if url == "" {
		url = DefaultEndpointListURL
	}
	return &EndpointSource{
		URL:    url,
		client: resty.New().SetTimeout(DefaultTimeout).SetRetryCount(2).SetRetryWaitTime(time.Second),
	}
}

// Load fetches the list. Blank lines are skipped; order is preserved.
func (s *EndpointSource) Load(ctx context.Context) ([]string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, scholarly.Errorf(scholarly.EINTERNAL, "download endpoint list: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, scholarly.Errorf(scholarly.EINTERNAL, "download endpoint list: HTTP %d", resp.StatusCode())
	}

	var endpoints []string
	scanner := bufio.NewScanner(strings.NewReader(resp.String()))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			endpoints = append(endpoints, line)
		}
	}
	return endpoints, scanner.Err()
}

package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/scholarly"
	"github.com/fwojciec/scholarly/crawl"
	"github.com/fwojciec/scholarly/goquery"
	scholarlyhttp "github.com/fwojciec/scholarly/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const target = "http://scholar.test/scholar?hl=en&q=graph"

func fixedAgent() string { return "test-agent/1.0" }

// proxyServer is a forward proxy stub that answers every request itself.
type proxyServer struct {
	*httptest.Server

	mu        sync.Mutex
	requested []string
	agents    []string
}

func newProxyServer(t *testing.T, handler http.HandlerFunc) *proxyServer {
	t.Helper()
	p := &proxyServer{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.requested = append(p.requested, r.RequestURI)
		p.agents = append(p.agents, r.Header.Get("User-Agent"))
		p.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(p.Close)
	return p
}

// Requested returns the request URIs received so far.
func (p *proxyServer) Requested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requested...)
}

// Agents returns the User-Agent headers received so far.
func (p *proxyServer) Agents() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.agents...)
}

func servePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte("<html><body>results</body></html>"))
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("routes the request through the endpoint", func(t *testing.T) {
		t.Parallel()

		proxy := newProxyServer(t, servePage)
		fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), target, proxy.URL)

		require.NoError(t, err)
		assert.Equal(t, "<html><body>results</body></html>", html)
		assert.Equal(t, []string{target}, proxy.Requested())
		assert.Equal(t, []string{"test-agent/1.0"}, proxy.Agents())
	})

	t.Run("accepts endpoints without a scheme", func(t *testing.T) {
		t.Parallel()

		proxy := newProxyServer(t, servePage)
		fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), target, strings.TrimPrefix(proxy.URL, "http://"))

		require.NoError(t, err)
		assert.Len(t, proxy.Requested(), 1)
	})

	t.Run("works with the cloudflare transport", func(t *testing.T) {
		t.Parallel()

		proxy := newProxyServer(t, servePage)
		fetcher := scholarlyhttp.NewFetcher(
			scholarlyhttp.WithUserAgent(fixedAgent),
			scholarlyhttp.WithCloudflareBypass(),
		)
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), target, proxy.URL)

		require.NoError(t, err)
		assert.Contains(t, html, "results")
	})

	t.Run("classifies a closed endpoint as rejected", func(t *testing.T) {
		t.Parallel()

		closed := httptest.NewServer(http.HandlerFunc(servePage))
		endpoint := closed.URL
		closed.Close()

		fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), target, endpoint)

		require.Error(t, err)
		assert.Equal(t, scholarly.EREJECTED, scholarly.ErrorCode(err))
	})

	t.Run("classifies blocking status codes as rejected", func(t *testing.T) {
		t.Parallel()

		for _, code := range []int{http.StatusForbidden, http.StatusProxyAuthRequired, http.StatusTooManyRequests} {
			proxy := newProxyServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			})
			fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))

			_, err := fetcher.Fetch(context.Background(), target, proxy.URL)

			require.Error(t, err)
			assert.Equal(t, scholarly.EREJECTED, scholarly.ErrorCode(err), "status %d", code)
			_ = fetcher.Close()
		}
	})

	t.Run("classifies other error statuses as internal", func(t *testing.T) {
		t.Parallel()

		proxy := newProxyServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), target, proxy.URL)

		require.Error(t, err)
		assert.Equal(t, scholarly.EINTERNAL, scholarly.ErrorCode(err))
		assert.Contains(t, scholarly.ErrorMessage(err), "HTTP 502")
	})

	t.Run("classifies a slow endpoint as timeout", func(t *testing.T) {
		t.Parallel()

		proxy := newProxyServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		})
		fetcher := scholarlyhttp.NewFetcher(
			scholarlyhttp.WithUserAgent(fixedAgent),
			scholarlyhttp.WithTimeout(50*time.Millisecond),
		)
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), target, proxy.URL)

		require.Error(t, err)
		assert.Equal(t, scholarly.ETIMEOUT, scholarly.ErrorCode(err))
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		t.Parallel()

		proxy := newProxyServer(t, servePage)
		fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, target, proxy.URL)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("classifies a refused tunnel to an https target as rejected", func(t *testing.T) {
		t.Parallel()

		for _, code := range []int{http.StatusForbidden, http.StatusProxyAuthRequired, http.StatusBadGateway} {
			proxy := newProxyServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodConnect {
					t.Errorf("expected CONNECT, got %s", r.Method)
				}
				w.WriteHeader(code)
			})
			fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))

			_, err := fetcher.Fetch(context.Background(), "https://scholar.google.fr/scholar?q=graph", proxy.URL)

			require.Error(t, err)
			assert.Equal(t, scholarly.EREJECTED, scholarly.ErrorCode(err), "status %d", code)
			assert.Equal(t, []string{"scholar.google.fr:443"}, proxy.Requested())
			_ = fetcher.Close()
		}
	})

	t.Run("rejects malformed endpoints before connecting", func(t *testing.T) {
		t.Parallel()

		fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))
		defer fetcher.Close()

		for _, endpoint := range []string{"ftp://10.0.0.1:21", "IP Address:Port"} {
			_, err := fetcher.Fetch(context.Background(), target, endpoint)

			require.Error(t, err)
			assert.Equal(t, scholarly.EREJECTED, scholarly.ErrorCode(err), "endpoint %q", endpoint)
		}
	})
}

func TestFetcher_WithHarvester(t *testing.T) {
	t.Parallel()

	t.Run("drops an unparseable endpoint from the pool", func(t *testing.T) {
		t.Parallel()

		// Given a pool holding a list header and a working proxy
		proxy := newProxyServer(t, servePage)
		fetcher := scholarlyhttp.NewFetcher(scholarlyhttp.WithUserAgent(fixedAgent))
		defer fetcher.Close()
		pool := crawl.NewEndpointPool([]string{"IP Address:Port", proxy.URL})
		h := &crawl.Harvester{
			Fetcher:     fetcher,
			Extractor:   goquery.NewExtractor(goquery.MarkerForLanguage("en")),
			Pool:        pool,
			Results:     crawl.NewAggregator(),
			Pause:       crawl.NoPause,
			SweepDelays: []time.Duration{},
		}
		var outcomes []scholarly.Outcome
		h.Progress = func(p scholarly.Progress) { outcomes = append(outcomes, p.Outcome) }

		// When three pages are harvested
		result, err := h.Run(context.Background(), []scholarly.Locator{
			{URL: target, Offset: 0},
			{URL: target + "&start=10", Offset: 10},
			{URL: target + "&start=20", Offset: 20},
		})

		// Then the header is discarded after its first use
		require.NoError(t, err)
		assert.Equal(t, 3, result.Retrieved)
		assert.Equal(t, 1, pool.Len())
		assert.Equal(t, scholarly.OutcomeRejected, outcomes[0])
		assert.NotContains(t, outcomes[1:], scholarly.OutcomeRejected)
	})
}

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint string
		want     string
		wantCode string
	}{
		{"host and port", "10.0.0.1:8080", "http://10.0.0.1:8080", ""},
		{"surrounding whitespace", " 10.0.0.1:8080\r", "http://10.0.0.1:8080", ""},
		{"explicit https", "https://proxy.example.com:443", "https://proxy.example.com:443", ""},
		{"socks5", "socks5://10.0.0.2:1080", "socks5://10.0.0.2:1080", ""},
		{"unsupported scheme", "ftp://10.0.0.1:21", "", scholarly.EINVALID},
		{"missing host", "http://", "", scholarly.EINVALID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := scholarlyhttp.ParseEndpoint(tt.endpoint)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, scholarly.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}

	t.Run("empty endpoint means a direct connection", func(t *testing.T) {
		t.Parallel()

		u, err := scholarlyhttp.ParseEndpoint("")

		require.NoError(t, err)
		assert.Nil(t, u)
	})
}

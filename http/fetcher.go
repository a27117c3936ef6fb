// Package http provides resty-based implementations of scholarly.Fetcher
// and scholarly.EndpointSource. Every request is routed through the
// endpoint given to Fetch.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/fwojciec/scholarly"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultConnectTimeout bounds connection establishment to the endpoint.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultTimeout bounds a whole request, body included.
	DefaultTimeout = 30 * time.Second
)

// Ensure Fetcher implements scholarly.Fetcher at compile time.
var _ scholarly.Fetcher = (*Fetcher)(nil)

type endpointKey struct{}

// errTunnelRefused is returned when an endpoint answers CONNECT with a
// non-2xx status.
var errTunnelRefused = errors.New("tunnel refused")

// Fetcher retrieves pages through forward proxies.
type Fetcher struct {
	client         *resty.Client
	connectTimeout time.Duration
	timeout        time.Duration
	userAgent      func() string
	cloudflare     bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithConnectTimeout sets the connection timeout.
// Defaults to DefaultConnectTimeout (5s) if not specified.
func WithConnectTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.connectTimeout = d
	}
}

// WithTimeout sets the overall request timeout.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the function producing the User-Agent of each request.
// Defaults to a random browser User-Agent per request.
func WithUserAgent(fn func() string) Option {
	return func(f *Fetcher) {
		f.userAgent = fn
	}
}

// WithCloudflareBypass wraps the transport so its TLS handshake and default
// headers resemble a desktop browser.
func WithCloudflareBypass() Option {
	return func(f *Fetcher) {
		f.cloudflare = true
	}
}

// NewFetcher creates a new proxying Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		connectTimeout: DefaultConnectTimeout,
		timeout:        DefaultTimeout,
		userAgent:      browser.Random,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := &http.Transport{
		Proxy: proxyFromContext,
		DialContext: (&net.Dialer{
			Timeout:   f.connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: f.connectTimeout,
		// Endpoints rotate on every request.
		DisableKeepAlives: true,

		OnProxyConnectResponse: refuseTunnel,
	}

	var rt http.RoundTripper = transport
	if f.cloudflare {
		rt = cloudflarebp.AddCloudFlareByPass(transport)
	}

	f.client = resty.New().
		SetTransport(rt).
		SetTimeout(f.timeout)

	return f
}

// Fetch retrieves target through endpoint. An empty endpoint connects
// directly. Errors are classified as ETIMEOUT, EREJECTED or EINTERNAL;
// cancellation of ctx is returned unchanged. An endpoint that does not
// parse is EREJECTED.
func (f *Fetcher) Fetch(ctx context.Context, target, endpoint string) (string, error) {
	proxy, err := ParseEndpoint(endpoint)
	if err != nil {
		return "", scholarly.Errorf(scholarly.EREJECTED, "%s", scholarly.ErrorMessage(err))
	}

	resp, err := f.client.R().
		SetContext(context.WithValue(ctx, endpointKey{}, proxy)).
		SetHeader("User-Agent", f.userAgent()).
		Get(target)
	if err != nil {
		return "", classify(ctx, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusForbidden,
		code == http.StatusProxyAuthRequired,
		code == http.StatusTooManyRequests:
		return "", scholarly.Errorf(scholarly.EREJECTED, "HTTP %d for %s", code, target)
	case code < 200 || code > 299:
		return "", scholarly.Errorf(scholarly.EINTERNAL, "HTTP %d for %s", code, target)
	}

	return resp.String(), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.GetClient().CloseIdleConnections()
	return nil
}

// ParseEndpoint parses a proxy address. Addresses without a scheme are
// treated as HTTP proxies. An empty address yields nil.
func ParseEndpoint(endpoint string) (*url.URL, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, nil
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return nil, scholarly.Errorf(scholarly.EINVALID, "invalid endpoint %q", endpoint)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, scholarly.Errorf(scholarly.EINVALID, "unsupported endpoint scheme %q", u.Scheme)
	}
	return u, nil
}

func proxyFromContext(req *http.Request) (*url.URL, error) {
	u, _ := req.Context().Value(endpointKey{}).(*url.URL)
	return u, nil
}

func refuseTunnel(_ context.Context, proxy *url.URL, _ *http.Request, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	return fmt.Errorf("%w: %s answered CONNECT with %s", errTunnelRefused, proxy.Host, resp.Status)
}

// classify maps transport errors to application error codes.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return scholarly.Errorf(scholarly.ETIMEOUT, "%v", err)
	}

	if errors.Is(err, errTunnelRefused) {
		return scholarly.Errorf(scholarly.EREJECTED, "%v", err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "proxyconnect" {
		return scholarly.Errorf(scholarly.EREJECTED, "%v", err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return scholarly.Errorf(scholarly.EREJECTED, "%v", err)
	}

	return scholarly.Errorf(scholarly.EINTERNAL, "fetch: %v", err)
}

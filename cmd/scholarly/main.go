package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scholarly"
	"github.com/fwojciec/scholarly/crawl"
	schfs "github.com/fwojciec/scholarly/fs"
	"github.com/fwojciec/scholarly/goquery"
	"github.com/fwojciec/scholarly/htmltomarkdown"
	schhttp "github.com/fwojciec/scholarly/http"
	schprom "github.com/fwojciec/scholarly/prometheus"
	schslog "github.com/fwojciec/scholarly/slog"
	"github.com/fwojciec/scholarly/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A second interrupt terminates immediately.
	go func() {
		<-ctx.Done()
		stop()
	}()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFiles are loaded into the environment before parsing. Missing
	// files are skipped; variables already set are kept.
	EnvFiles []string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{EnvFiles: []string{".env"}}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := m.loadEnv(); err != nil {
		return err
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scholarly"),
		kong.Description("Harvest scholarly search results through rotating proxies, ranked by citations"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if err := cli.Validate(); err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	fetcher := schhttp.NewFetcher(fetcherOptions(cli)...)
	defer fetcher.Close()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Endpoints: NewCompositeSource(
			schslog.NewLoggingEndpointSource(schfs.NewEndpointSource(cli.Proxies), cli.Proxies, logger),
			schslog.NewLoggingEndpointSource(schhttp.NewEndpointSource(cli.ProxyListURL), cli.ProxyListURL, logger),
		),
		Fetcher:     schslog.NewLoggingFetcher(fetcher, logger),
		Extractor:   goquery.NewExtractor(citedByMarker(cli)),
		Pause:       crawl.Jitter(cli.MinPause, cli.MaxPause),
		MaxAttempts: cli.MaxAttempts,
		Observers:   []scholarly.ProgressFunc{schslog.ProgressLogger(logger)},
	}
	if cli.Rate > 0 {
		deps.Limiter = crawl.NewRateLimiter(cli.Rate)
	}

	// Create result writers
	deps.Writers = []scholarly.ResultWriter{
		schslog.NewLoggingWriter(schfs.NewHTMLWriter(cli.Output, cli.Query), cli.Output, logger),
		schslog.NewLoggingWriter(schfs.NewJSONWriter(schfs.SnapshotPath(cli.Output)), schfs.SnapshotPath(cli.Output), logger),
	}
	if cli.Markdown != "" {
		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(origin(cli.BaseURL)))
		deps.Writers = append(deps.Writers,
			schslog.NewLoggingWriter(schfs.NewMarkdownWriter(cli.Markdown, conv), cli.Markdown, logger))
	}
	if cli.DB != "" {
		db := sqlite.NewDB(cli.DB)
		if err := db.Open(); err != nil {
			return err
		}
		defer db.Close()
		deps.Writers = append(deps.Writers,
			schslog.NewLoggingWriter(sqlite.NewResultStore(db, cli.Query), cli.DB, logger))
	}

	if cli.MetricsAddr != "" {
		metrics := schprom.NewMetrics()
		deps.Observers = append(deps.Observers, metrics.Observe)

		shutdown, err := serveMetrics(cli.MetricsAddr, metrics.Handler(), logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	cmd := &HarvestCmd{
		Query: cli.SearchQuery(),
		Top:   cli.Top,
	}

	return cmd.Run(deps)
}

func (m *Main) loadEnv() error {
	for _, path := range m.EnvFiles {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func fetcherOptions(cli *CLI) []schhttp.Option {
	opts := []schhttp.Option{
		schhttp.WithConnectTimeout(cli.ConnectTimeout),
		schhttp.WithTimeout(cli.Timeout),
	}
	if cli.Cloudflare {
		opts = append(opts, schhttp.WithCloudflareBypass())
	}
	return opts
}

func citedByMarker(cli *CLI) string {
	if cli.CitedBy != "" {
		return cli.CitedBy
	}
	return goquery.MarkerForLanguage(cli.Lang)
}

// origin returns the scheme and host of rawURL.
func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// serveMetrics starts the metrics endpoint and returns a function stopping it.
func serveMetrics(addr string, handler http.Handler, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

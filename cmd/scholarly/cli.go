package main

import (
	"time"

	"github.com/fwojciec/scholarly"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Query string `arg:"" help:"Search expression. Use quotes to input several words."`

	YearLow int    `short:"y" name:"yearlow" env:"SCHOLARLY_YEARLOW" help:"Lower year bound. Zero means no bound."`
	Output  string `short:"o" default:"scraping_results.html" env:"SCHOLARLY_OUTPUT" help:"HTML output file. A JSON copy is written next to it."`
	Number  int    `short:"n" default:"1000" env:"SCHOLARLY_NUMBER" help:"Number of items to fetch."`
	Lang    string `default:"fr" env:"SCHOLARLY_LANG" help:"Display language of the result pages."`
	CitedBy string `name:"cited-by" env:"SCHOLARLY_CITED_BY" help:"Text of the cited-by link. Defaults to the one of --lang."`
	BaseURL string `name:"base-url" default:"https://scholar.google.fr/scholar" env:"SCHOLARLY_BASE_URL" help:"Search endpoint."`

	Proxies      string `default:"Proxy List.txt" env:"SCHOLARLY_PROXIES" help:"Endpoint list file, comma or newline separated."`
	ProxyListURL string `name:"proxy-list-url" default:"https://raw.githubusercontent.com/clarketm/proxy-list/master/proxy-list-raw.txt" env:"SCHOLARLY_PROXY_LIST_URL" help:"Endpoint list downloaded when the file is missing or empty."`

	ConnectTimeout time.Duration `name:"connect-timeout" default:"5s" env:"SCHOLARLY_CONNECT_TIMEOUT" help:"Connection timeout per endpoint."`
	Timeout        time.Duration `default:"30s" env:"SCHOLARLY_TIMEOUT" help:"Overall timeout per request."`
	MinPause       time.Duration `name:"min-pause" default:"1s" env:"SCHOLARLY_MIN_PAUSE" help:"Shortest pause after a retrieved page."`
	MaxPause       time.Duration `name:"max-pause" default:"5s" env:"SCHOLARLY_MAX_PAUSE" help:"Longest pause after a retrieved page."`
	MaxAttempts    int           `name:"max-attempts" default:"25" env:"SCHOLARLY_MAX_ATTEMPTS" help:"Failed attempts per page before it is abandoned. Rejected endpoints do not count. Zero means 25, negative means unlimited."`
	Rate           float64       `default:"0" env:"SCHOLARLY_RATE" help:"Requests per second against the search host. Zero disables the limit."`
	Cloudflare     bool          `env:"SCHOLARLY_CLOUDFLARE" help:"Use a browser-like TLS fingerprint."`

	DB          string `env:"SCHOLARLY_DB" help:"SQLite database receiving a snapshot of every flush."`
	Markdown    string `env:"SCHOLARLY_MARKDOWN" help:"Markdown output file."`
	MetricsAddr string `name:"metrics-addr" env:"SCHOLARLY_METRICS_ADDR" help:"Serve Prometheus metrics on this address, e.g. :9090."`
	Top         int    `default:"10" help:"Ranked records printed on completion."`
	Verbose     bool   `short:"v" help:"Log every attempt."`
}

// Validate checks option combinations kong cannot express.
func (c *CLI) Validate() error {
	if c.MinPause < 0 || c.MaxPause < c.MinPause {
		return scholarly.Errorf(scholarly.EINVALID, "max pause must not be shorter than min pause")
	}
	if c.ConnectTimeout <= 0 || c.Timeout <= 0 {
		return scholarly.Errorf(scholarly.EINVALID, "timeouts must be positive")
	}
	if c.Rate < 0 {
		return scholarly.Errorf(scholarly.EINVALID, "rate must not be negative")
	}
	return c.SearchQuery().Validate()
}

// SearchQuery returns the query described by the options.
func (c *CLI) SearchQuery() *scholarly.Query {
	return &scholarly.Query{
		Text:     c.Query,
		YearLow:  c.YearLow,
		Items:    c.Number,
		Language: c.Lang,
		BaseURL:  c.BaseURL,
	}
}

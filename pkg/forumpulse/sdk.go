// Package forumpulse provides a public SDK for embedding forumpulse as a
// library.
//
// Example usage:
//
//	client, err := forumpulse.New(
//	    forumpulse.WithGroups("samsunggalaxy", "oneui"),
//	    forumpulse.WithQuery("Samsung"),
//	    forumpulse.WithMaxIterations(5),
//	)
//	if err != nil {
//	    return err
//	}
//	posts, err := client.Collect(ctx)
//	...
//	analyzed, stats, err := client.Analyze(ctx, posts)
package forumpulse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/IshaanNene/forumpulse/internal/analysis"
	"github.com/IshaanNene/forumpulse/internal/collector"
	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/extract"
	"github.com/IshaanNene/forumpulse/internal/observability"
	"github.com/IshaanNene/forumpulse/internal/page"
	"github.com/IshaanNene/forumpulse/internal/report"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// Post is one collected search result.
type Post = types.CollectedItem

// AnalyzedPost is a Post with its clean title and sentiment scores.
type AnalyzedPost = types.AnalyzedItem

// Stats are the statistics the reports are drawn from.
type Stats = analysis.Stats

// Client is the high-level API for using forumpulse as a library.
type Client struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	opener  page.Opener
}

// Option configures a Client.
type Option func(*Client)

// WithGroups sets the subreddits to collect, in order.
func WithGroups(groups ...string) Option {
	return func(c *Client) { c.cfg.Collector.Groups = groups }
}

// WithQuery sets the search query applied to every group.
func WithQuery(q string) Option {
	return func(c *Client) { c.cfg.Collector.Query = q }
}

// WithMaxIterations sets the load-more cap per group.
func WithMaxIterations(n int) Option {
	return func(c *Client) { c.cfg.Collector.MaxIterations = n }
}

// WithDelays sets the settle delay after navigation, the wait after each
// load-more and the interval between growth polls.
func WithDelays(settle, trigger, poll time.Duration) Option {
	return func(c *Client) {
		c.cfg.Collector.SettleDelay = settle
		c.cfg.Collector.TriggerDelay = trigger
		c.cfg.Collector.PollInterval = poll
	}
}

// WithReplay collects from snapshots recorded earlier instead of a browser.
func WithReplay(dir string) Option {
	return func(c *Client) { c.cfg.Browser.ReplayDir = dir }
}

// WithRecord archives every page state while collecting.
func WithRecord(dir string) Option {
	return func(c *Client) { c.cfg.Browser.RecordDir = dir }
}

// WithLemmatizer selects golem, snowball or none.
func WithLemmatizer(name string) Option {
	return func(c *Client) { c.cfg.Analysis.Lemmatizer = name }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithVerbose enables debug logging on the default logger.
func WithVerbose() Option {
	return func(c *Client) { c.cfg.Logging.Level = "debug" }
}

func withOpener(o page.Opener) Option {
	return func(c *Client) { c.opener = o }
}

// New creates a Client from the default configuration and opts.
func New(opts ...Option) (*Client, error) {
	c := &Client{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		level := slog.LevelInfo
		if c.cfg.Logging.Level == "debug" {
			level = slog.LevelDebug
		}
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	if err := config.Validate(c.cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	c.metrics = observability.NewMetrics(c.logger)

	if c.opener == nil {
		if c.cfg.Browser.ReplayDir != "" {
			c.opener = page.NewReplayOpener(c.cfg.Browser.ReplayDir, c.logger)
		} else {
			c.opener = page.NewBrowserOpener(c.cfg.Browser, c.logger)
		}
	}
	if c.cfg.Browser.RecordDir != "" {
		c.opener = page.NewRecorder(c.opener, c.cfg.Browser.RecordDir, c.logger)
	}
	return c, nil
}

// Collect runs every group in order and returns the unique posts.
func (c *Client) Collect(ctx context.Context) ([]Post, error) {
	ex, err := extract.New(c.cfg.Collector.Selectors, c.logger)
	if err != nil {
		return nil, err
	}
	results, err := collector.New(c.cfg.Collector, c.opener, ex, c.logger,
		collector.WithMetrics(c.metrics),
	).Run(ctx)
	if err != nil {
		return nil, err
	}
	return collector.Items(results), nil
}

// Analyze cleans and scores posts and computes the report statistics.
func (c *Client) Analyze(ctx context.Context, posts []Post) ([]*AnalyzedPost, *Stats, error) {
	a, err := analysis.New(c.cfg.Analysis, c.metrics, c.logger)
	if err != nil {
		return nil, nil, err
	}
	return a.Analyze(ctx, posts)
}

// RenderReports writes the chart pages and summary into dir.
func (c *Client) RenderReports(dir string, stats *Stats) error {
	return report.NewRenderer(dir, c.cfg.Analysis.ExcludedTerms, c.logger).Render(stats)
}

// Stats returns a snapshot of the collection and analysis counters.
func (c *Client) Stats() map[string]int64 {
	return c.metrics.Snapshot()
}

// Package collector drives an infinitely scrolling search page and gathers
// every post it loads exactly once.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/extract"
	"github.com/IshaanNene/forumpulse/internal/observability"
	"github.com/IshaanNene/forumpulse/internal/page"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// StopReason tells why a group run ended.
type StopReason int

const (
	// StopMaxIterations means every configured load-more iteration ran.
	StopMaxIterations StopReason = iota
	// StopStalled means the post count did not grow within the retry budget.
	StopStalled
	// StopNoNewItems means the page grew but every post was already seen.
	StopNoNewItems
)

func (r StopReason) String() string {
	switch r {
	case StopMaxIterations:
		return "max_iterations"
	case StopStalled:
		return "stalled"
	case StopNoNewItems:
		return "no_new_items"
	default:
		return fmt.Sprintf("stop_reason(%d)", int(r))
	}
}

// Result is the outcome of one group run.
type Result struct {
	Group      string
	Items      []types.CollectedItem
	Iterations int
	Reason     StopReason
	Err        error
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Collector runs the incremental deduplicated collection for each group.
type Collector struct {
	cfg       config.CollectorConfig
	opener    page.Opener
	extractor *extract.Extractor
	metrics   *observability.Metrics
	wait      WaitFunc
	keepGoing bool
	logger    *slog.Logger
}

// Option configures the Collector.
type Option func(*Collector)

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Collector) { c.metrics = m }
}

// WithWait replaces the timer used for every delay.
func WithWait(fn WaitFunc) Option {
	return func(c *Collector) { c.wait = fn }
}

// WithKeepGoing makes Run continue with the next group after a failed one.
func WithKeepGoing(keep bool) Option {
	return func(c *Collector) { c.keepGoing = keep }
}

// New creates a Collector.
func New(cfg config.CollectorConfig, opener page.Opener, extractor *extract.Extractor, logger *slog.Logger, opts ...Option) *Collector {
	c := &Collector{
		cfg:       cfg,
		opener:    opener,
		extractor: extractor,
		wait:      sleep,
		logger:    logger.With("component", "collector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = observability.NewMetrics(logger)
	}
	return c
}

// Run collects every configured group in order. A failed group aborts the
// run unless the collector was built WithKeepGoing(true); either way the
// results of the groups processed so far are returned.
func (c *Collector) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, 0, len(c.cfg.Groups))
	for _, group := range c.cfg.Groups {
		c.logger.Info("collecting group", "group", group, "query", c.cfg.Query)

		res, err := c.CollectGroup(ctx, group)
		if err != nil {
			c.metrics.GroupsFailed.Add(1)
			if !c.keepGoing || errors.Is(err, context.Canceled) {
				return results, err
			}
			c.logger.Error("group failed, continuing", "group", group, "error", err)
			results = append(results, &Result{Group: group, Err: err})
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

// Items flattens the successful results in group order.
func Items(results []*Result) []types.CollectedItem {
	var out []types.CollectedItem
	for _, r := range results {
		out = append(out, r.Items...)
	}
	return out
}

// CollectGroup acquires a session for group, collects from it and releases
// it on every exit path.
func (c *Collector) CollectGroup(ctx context.Context, group string) (*Result, error) {
	url := config.ExpandURL(c.cfg.URLTemplate, group, c.cfg.Query)

	sess, err := c.opener.Open(ctx, group, url)
	if err != nil {
		return nil, &types.PageError{Group: group, Op: "open", Err: err}
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			c.logger.Warn("session close failed", "group", group, "error", cerr)
		}
	}()

	if err := c.wait(ctx, c.cfg.SettleDelay); err != nil {
		return nil, err
	}

	return c.Collect(ctx, sess, group)
}

// Collect runs the load-more loop against p. It stops early when the post
// count stops growing or when a grown page holds no unseen posts; the two
// conditions are reported separately. Any page error aborts the run and
// discards its items.
func (c *Collector) Collect(ctx context.Context, p page.Page, group string) (*Result, error) {
	log := c.logger.With("group", group)
	sel := c.extractor.ItemSelector()
	seen := NewSeenSet(64)
	res := &Result{Group: group, Reason: StopMaxIterations}

	for i := 0; i < c.cfg.MaxIterations; i++ {
		res.Iterations = i + 1
		c.metrics.Iterations.Add(1)
		log.Debug("load more", "iteration", i+1, "max", c.cfg.MaxIterations)

		before, err := p.Count(ctx, sel)
		if err != nil {
			return nil, &types.PageError{Group: group, Op: "count", Err: err}
		}

		if err := p.LoadMore(ctx); err != nil {
			return nil, &types.PageError{Group: group, Op: "load_more", Err: err}
		}
		c.metrics.LoadMoreTriggers.Add(1)

		if err := c.wait(ctx, c.cfg.TriggerDelay); err != nil {
			return nil, err
		}

		after, err := c.awaitGrowth(ctx, p, group, sel, before)
		if err != nil {
			return nil, err
		}
		if after <= before {
			log.Info("no new posts loaded, stopping", "iteration", i+1, "count", before)
			res.Reason = StopStalled
			c.metrics.GroupsStalled.Add(1)
			break
		}

		html, err := p.Snapshot(ctx)
		if err != nil {
			return nil, &types.PageError{Group: group, Op: "snapshot", Err: err}
		}
		candidates, err := c.extractor.Candidates(html)
		if err != nil {
			return nil, err
		}

		fresh := 0
		for _, cand := range candidates {
			c.metrics.CandidatesSeen.Add(1)
			if !seen.Add(cand.ID) {
				c.metrics.DuplicatesSkipped.Add(1)
				continue
			}
			fresh++
			res.Items = append(res.Items, types.CollectedItem{
				ID:       cand.ID,
				Group:    group,
				Title:    cand.Title,
				Votes:    cand.Votes,
				Comments: cand.Comments,
				PostTime: cand.PostTime,
			})
		}
		c.metrics.ItemsCollected.Add(int64(fresh))
		log.Info("iteration done", "iteration", i+1, "posts_found", len(candidates), "new_posts", fresh)

		if fresh == 0 {
			log.Info("no new unique posts, stopping", "iteration", i+1)
			res.Reason = StopNoNewItems
			c.metrics.GroupsExhausted.Add(1)
			break
		}
	}

	if res.Reason == StopMaxIterations {
		c.metrics.GroupsCompleted.Add(1)
	}
	log.Info("group collected", "items", len(res.Items), "iterations", res.Iterations, "reason", res.Reason)
	return res, nil
}

// awaitGrowth polls the post count up to MaxRetries times, waiting
// PollInterval before each poll, until it exceeds before.
func (c *Collector) awaitGrowth(ctx context.Context, p page.Page, group, sel string, before int) (int, error) {
	after := before
	for retries := 0; after <= before && retries < c.cfg.MaxRetries; retries++ {
		if err := c.wait(ctx, c.cfg.PollInterval); err != nil {
			return 0, err
		}
		n, err := p.Count(ctx, sel)
		if err != nil {
			return 0, &types.PageError{Group: group, Op: "count", Err: err}
		}
		c.metrics.GrowthPolls.Add(1)
		after = n
	}
	return after, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

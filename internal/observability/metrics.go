package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for collection and analysis runs.
type Metrics struct {
	// Collection metrics
	Iterations        atomic.Int64
	LoadMoreTriggers  atomic.Int64
	GrowthPolls       atomic.Int64
	CandidatesSeen    atomic.Int64
	DuplicatesSkipped atomic.Int64
	ItemsCollected    atomic.Int64

	// Termination metrics
	GroupsStalled   atomic.Int64
	GroupsExhausted atomic.Int64
	GroupsCompleted atomic.Int64
	GroupsFailed    atomic.Int64

	// Analysis metrics
	ItemsAnalyzed atomic.Int64
	RowsStored    atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"forumpulse_iterations_total", "Load-more iterations started", m.Iterations.Load()},
		{"forumpulse_load_more_total", "Load-more actions issued", m.LoadMoreTriggers.Load()},
		{"forumpulse_growth_polls_total", "Polls waiting for the post count to grow", m.GrowthPolls.Load()},
		{"forumpulse_candidates_total", "Post nodes seen in snapshots", m.CandidatesSeen.Load()},
		{"forumpulse_duplicates_total", "Post nodes skipped as already seen", m.DuplicatesSkipped.Load()},
		{"forumpulse_items_collected_total", "Unique posts collected", m.ItemsCollected.Load()},
		{"forumpulse_groups_stalled_total", "Group runs stopped because the page stopped growing", m.GroupsStalled.Load()},
		{"forumpulse_groups_exhausted_total", "Group runs stopped because no new posts appeared", m.GroupsExhausted.Load()},
		{"forumpulse_groups_completed_total", "Group runs that used every iteration", m.GroupsCompleted.Load()},
		{"forumpulse_groups_failed_total", "Group runs aborted by a page error", m.GroupsFailed.Load()},
		{"forumpulse_items_analyzed_total", "Rows enriched by the analysis pipeline", m.ItemsAnalyzed.Load()},
		{"forumpulse_rows_stored_total", "Rows written to storage sinks", m.RowsStored.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server in the background.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"iterations":         m.Iterations.Load(),
		"load_more_triggers": m.LoadMoreTriggers.Load(),
		"growth_polls":       m.GrowthPolls.Load(),
		"candidates_seen":    m.CandidatesSeen.Load(),
		"duplicates_skipped": m.DuplicatesSkipped.Load(),
		"items_collected":    m.ItemsCollected.Load(),
		"groups_stalled":     m.GroupsStalled.Load(),
		"groups_exhausted":   m.GroupsExhausted.Load(),
		"groups_completed":   m.GroupsCompleted.Load(),
		"groups_failed":      m.GroupsFailed.Load(),
		"items_analyzed":     m.ItemsAnalyzed.Load(),
		"rows_stored":        m.RowsStored.Load(),
	}
}

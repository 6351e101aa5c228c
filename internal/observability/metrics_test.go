package observability

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestServeHTTP(t *testing.T) {
	m := NewMetrics(testLogger)
	m.ItemsCollected.Add(7)
	m.GroupsStalled.Add(1)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"forumpulse_items_collected_total 7",
		"forumpulse_groups_stalled_total 1",
		"# TYPE forumpulse_iterations_total counter",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestSnapshot(t *testing.T) {
	m := NewMetrics(testLogger)
	m.DuplicatesSkipped.Add(3)
	if got := m.Snapshot()["duplicates_skipped"]; got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

package report

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IshaanNene/forumpulse/internal/analysis"
	"github.com/IshaanNene/forumpulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleStats() *analysis.Stats {
	items := []*types.AnalyzedItem{
		{CollectedItem: types.CollectedItem{Group: "oneui"}, CleanTitle: "update battery", VaderPolarity: 0.3, Subjectivity: 0.5},
		{CollectedItem: types.CollectedItem{Group: "smartphones"}, CleanTitle: "battery camera", VaderPolarity: -0.4, Subjectivity: 0.1},
	}
	return analysis.Compute(items, analysis.Options{TopN: 30, Bins: 20})
}

func TestRenderWritesAllFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := NewRenderer(dir, []string{"samsung", "phone"}, testLogger)

	if err := r.Render(sampleStats()); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range Files {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, WordCloudFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "battery") {
		t.Error("word cloud should contain the most frequent word")
	}
}

func TestReadSummary(t *testing.T) {
	dir := t.TempDir()
	if err := NewRenderer(dir, nil, testLogger).Render(sampleStats()); err != nil {
		t.Fatalf("render: %v", err)
	}

	st, err := ReadSummary(dir)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if st.Items != 2 {
		t.Errorf("expected 2 items, got %d", st.Items)
	}
	if len(st.Vader.Bins) != 20 {
		t.Errorf("expected 20 vader bins, got %d", len(st.Vader.Bins))
	}
	if st.TopWords[0].Name != "battery" {
		t.Errorf("expected battery first, got %s", st.TopWords[0].Name)
	}
}

func TestReadSummaryMissing(t *testing.T) {
	if _, err := ReadSummary(t.TempDir()); err == nil {
		t.Error("expected error for missing summary")
	}
}

func TestQuoteJoin(t *testing.T) {
	if got := quoteJoin([]string{"samsung", "phone"}); got != `"samsung" and "phone"` {
		t.Errorf("unexpected %s", got)
	}
}

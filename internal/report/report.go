// Package report renders analysis statistics as standalone HTML chart pages
// and a JSON summary.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/IshaanNene/forumpulse/internal/analysis"
)

// Output file names inside the report directory.
const (
	GroupFrequencyFile = "group_frequency.html"
	WordCloudFile      = "word_cloud.html"
	WordFrequencyFile  = "word_frequency.html"
	SentimentFile      = "sentiment.html"
	SummaryFile        = "summary.json"
)

// Files lists every artifact Render writes, in render order.
var Files = []string{GroupFrequencyFile, WordCloudFile, WordFrequencyFile, SentimentFile, SummaryFile}

// Renderer writes report artifacts into a directory.
type Renderer struct {
	dir           string
	excludedTerms []string
	logger        *slog.Logger
}

// NewRenderer creates a Renderer. excludedTerms only label the word charts;
// the statistics are expected to exclude them already.
func NewRenderer(dir string, excludedTerms []string, logger *slog.Logger) *Renderer {
	return &Renderer{
		dir:           dir,
		excludedTerms: excludedTerms,
		logger:        logger.With("component", "report"),
	}
}

// Render writes every chart page and the summary.
func (r *Renderer) Render(st *analysis.Stats) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	pages := []struct {
		file   string
		charts []components.Charter
	}{
		{GroupFrequencyFile, []components.Charter{groupBar(st.Groups)}},
		{WordCloudFile, []components.Charter{wordCloud(st.CloudWords, r.excludedTerms)}},
		{WordFrequencyFile, []components.Charter{wordPie(st.TopWords)}},
		{SentimentFile, []components.Charter{
			histogramBar("Distribution of VADER Sentiment Polarity", "Polarity", st.Vader),
			histogramBar("Distribution of Sentiment Subjectivity", "Subjectivity", st.Subjectivity),
			polarityScatter(st.Scatter),
		}},
	}
	for _, p := range pages {
		if err := r.renderPage(p.file, p.charts...); err != nil {
			return err
		}
	}

	if err := r.writeSummary(st); err != nil {
		return err
	}
	r.logger.Info("reports written", "dir", r.dir, "files", len(Files))
	return nil
}

func (r *Renderer) renderPage(file string, cs ...components.Charter) error {
	page := components.NewPage()
	page.PageTitle = "forumpulse"
	page.AddCharts(cs...)

	path := filepath.Join(r.dir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	r.logger.Debug("chart rendered", "path", path)
	return nil
}

func (r *Renderer) writeSummary(st *analysis.Stats) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	path := filepath.Join(r.dir, SummaryFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadSummary loads a summary written by Render.
func ReadSummary(dir string) (*analysis.Stats, error) {
	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	if err != nil {
		return nil, err
	}
	var st analysis.Stats
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse summary: %w", err)
	}
	return &st, nil
}

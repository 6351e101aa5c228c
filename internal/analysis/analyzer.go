// Package analysis turns the collected table into enriched rows and the
// statistics behind the reports.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/observability"
	"github.com/IshaanNene/forumpulse/internal/pipeline"
	"github.com/IshaanNene/forumpulse/internal/sentiment"
	"github.com/IshaanNene/forumpulse/internal/text"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// wordCloudLimit caps the number of distinct words in the word cloud.
const wordCloudLimit = 200

// Analyzer runs the analysis pipeline over a collected table.
type Analyzer struct {
	cfg      config.AnalysisConfig
	pipeline *pipeline.Pipeline
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// New wires the cleaner, both sentiment analyzers and the pipeline from cfg.
func New(cfg config.AnalysisConfig, metrics *observability.Metrics, logger *slog.Logger) (*Analyzer, error) {
	lem, err := text.NewLemmatizer(cfg.Lemmatizer)
	if err != nil {
		return nil, err
	}
	cleaner := text.NewCleaner(nil, lem)
	scorer, err := sentiment.NewScorer(cleaner.Clean)
	if err != nil {
		return nil, fmt.Errorf("load sentiment lexicon: %w", err)
	}
	if metrics == nil {
		metrics = observability.NewMetrics(logger)
	}

	p := pipeline.NewAnalysis(pipeline.New(logger), cleaner, scorer)
	a := &Analyzer{
		cfg:      cfg,
		pipeline: p,
		metrics:  metrics,
		logger:   logger.With("component", "analysis", "lemmatizer", lem.Name()),
	}
	a.logger.Debug("analysis pipeline ready", "stages", p.Len())
	return a, nil
}

// Analyze enriches a copy of every row and computes the statistics.
func (a *Analyzer) Analyze(ctx context.Context, rows []types.CollectedItem) ([]*types.AnalyzedItem, *Stats, error) {
	a.logger.Info("analyzing rows", "rows", len(rows))

	items, err := a.pipeline.ProcessAll(ctx, rows)
	if err != nil {
		return nil, nil, err
	}
	a.metrics.ItemsAnalyzed.Add(int64(len(items)))

	stats := Compute(items, Options{
		ExcludedTerms: a.cfg.ExcludedTerms,
		TopN:          a.cfg.TopN,
		Bins:          a.cfg.HistogramBins,
		CloudWords:    wordCloudLimit,
	})
	a.logger.Info("analysis done",
		"items", stats.Items,
		"groups", len(stats.Groups),
		"mean_vader", stats.Summary["vader_polarity"].Mean,
	)
	return items, stats, nil
}

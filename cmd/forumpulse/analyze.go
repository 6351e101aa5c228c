package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/forumpulse/internal/analysis"
	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/observability"
	"github.com/IshaanNene/forumpulse/internal/report"
	"github.com/IshaanNene/forumpulse/internal/storage"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	var (
		input      string
		output     string
		reportDir  string
		lemmatizer string
		sinks      string
		topN       int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score sentiment of collected posts and render reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := loadConfig(func(cfg *config.Config) {
				if flags.Changed("input") {
					cfg.Analysis.InputPath = input
				}
				if flags.Changed("output") {
					cfg.Analysis.OutputPath = output
				}
				if flags.Changed("report-dir") {
					cfg.Analysis.ReportDir = reportDir
				}
				if flags.Changed("lemmatizer") {
					cfg.Analysis.Lemmatizer = lemmatizer
				}
				if flags.Changed("sinks") {
					cfg.Storage.Sinks = splitList(sinks)
				}
				if flags.Changed("top") {
					cfg.Analysis.TopN = topN
				}
			})
			if err != nil {
				return err
			}
			return runAnalyze(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "collected CSV to read")
	cmd.Flags().StringVarP(&output, "output", "o", "", "enriched CSV to write")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "directory for chart pages")
	cmd.Flags().StringVar(&lemmatizer, "lemmatizer", "", "token normalizer: golem, snowball, none")
	cmd.Flags().StringVar(&sinks, "sinks", "", "extra sinks: jsonl, mongodb, postgres, sqlite")
	cmd.Flags().IntVar(&topN, "top", 0, "words shown in the frequency pie chart")

	return cmd
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config) error {
	logger := setupLogger(cfg.Logging)
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	ctx, stop := signalContext(logger)
	defer stop()

	start := time.Now()
	rows, err := storage.ReadCollected(cfg.Analysis.InputPath)
	if err != nil {
		return fmt.Errorf("read collected table: %w", err)
	}

	metrics := observability.NewMetrics(logger)
	analyzer, err := analysis.New(cfg.Analysis, metrics, logger)
	if err != nil {
		return err
	}
	items, stats, err := analyzer.Analyze(ctx, rows)
	if err != nil {
		return err
	}

	sink, err := storage.New(ctx, cfg.Storage, cfg.Analysis.OutputPath, runID, logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := sink.Write(ctx, storage.TableAnalyzed, types.AnalyzedColumns, types.AnalyzedRecords(items)); err != nil {
		return err
	}
	metrics.RowsStored.Add(int64(len(items)))

	renderer := report.NewRenderer(cfg.Analysis.ReportDir, cfg.Analysis.ExcludedTerms, logger)
	if err := renderer.Render(stats); err != nil {
		return fmt.Errorf("render reports: %w", err)
	}

	vader := stats.Summary["vader_polarity"]
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nAnalysis complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "   Rows:      %d\n", stats.Items)
	fmt.Fprintf(out, "   VADER:     mean %.3f, min %.3f, max %.3f\n", vader.Mean, vader.Min, vader.Max)
	fmt.Fprintf(out, "   Output:    %s\n", cfg.Analysis.OutputPath)
	fmt.Fprintf(out, "   Reports:   %s\n", cfg.Analysis.ReportDir)
	return nil
}

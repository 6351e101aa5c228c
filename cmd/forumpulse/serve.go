package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/forumpulse/internal/analysis"
	"github.com/IshaanNene/forumpulse/internal/api"
	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/observability"
	"github.com/IshaanNene/forumpulse/internal/report"
	"github.com/IshaanNene/forumpulse/internal/storage"
)

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	var (
		input     string
		reportDir string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an analyzed table and its reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := loadConfig(func(cfg *config.Config) {
				if flags.Changed("input") {
					cfg.Analysis.OutputPath = input
				}
				if flags.Changed("report-dir") {
					cfg.Analysis.ReportDir = reportDir
				}
				if flags.Changed("port") {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "enriched CSV to serve")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "directory of rendered reports")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := setupLogger(cfg.Logging)

	ctx, stop := signalContext(logger)
	defer stop()

	items, err := storage.ReadAnalyzed(cfg.Analysis.OutputPath)
	if err != nil {
		return fmt.Errorf("read analyzed table: %w", err)
	}

	stats, err := report.ReadSummary(cfg.Analysis.ReportDir)
	if err != nil {
		logger.Warn("no rendered summary, computing statistics", "dir", cfg.Analysis.ReportDir, "error", err)
		stats = analysis.Compute(items, analysis.Options{
			ExcludedTerms: cfg.Analysis.ExcludedTerms,
			TopN:          cfg.Analysis.TopN,
			Bins:          cfg.Analysis.HistogramBins,
		})
	}

	metrics := observability.NewMetrics(logger)
	metrics.ItemsAnalyzed.Add(int64(len(items)))

	srv := api.NewServer(cfg.Server.Port, api.Dataset{
		Items:  items,
		Stats:  stats,
		Source: cfg.Analysis.OutputPath,
	}, cfg.Analysis.ReportDir, metrics, logger)
	return srv.ListenAndServe(ctx)
}

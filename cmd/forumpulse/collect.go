package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/forumpulse/internal/collector"
	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/extract"
	"github.com/IshaanNene/forumpulse/internal/observability"
	"github.com/IshaanNene/forumpulse/internal/page"
	"github.com/IshaanNene/forumpulse/internal/storage"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// collectCmd creates the "collect" subcommand.
func collectCmd() *cobra.Command {
	var (
		groups        string
		query         string
		maxIterations int
		output        string
		sinks         string
		recordDir     string
		replayDir     string
		headful       bool
		keepGoing     bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect posts from every configured subreddit",
		Long: `Open each subreddit's search page, keep loading more results until the
page stops growing or the iteration cap is reached, and write every unique
post to a CSV file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := loadConfig(func(cfg *config.Config) {
				if flags.Changed("groups") {
					cfg.Collector.Groups = splitList(groups)
				}
				if flags.Changed("query") {
					cfg.Collector.Query = query
				}
				if flags.Changed("max-iterations") {
					cfg.Collector.MaxIterations = maxIterations
				}
				if flags.Changed("output") {
					cfg.Storage.OutputPath = output
				}
				if flags.Changed("sinks") {
					cfg.Storage.Sinks = splitList(sinks)
				}
				if flags.Changed("record") {
					cfg.Browser.RecordDir = recordDir
				}
				if flags.Changed("replay") {
					cfg.Browser.ReplayDir = replayDir
				}
				if headful {
					cfg.Browser.Headless = false
				}
			})
			if err != nil {
				return err
			}
			return runCollect(cmd, cfg, keepGoing)
		},
	}

	cmd.Flags().StringVarP(&groups, "groups", "g", "", "comma-separated subreddits to collect")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query applied to every subreddit")
	cmd.Flags().IntVarP(&maxIterations, "max-iterations", "n", 0, "load-more iterations per subreddit")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path")
	cmd.Flags().StringVar(&sinks, "sinks", "", "extra sinks: jsonl, mongodb, postgres, sqlite")
	cmd.Flags().StringVar(&recordDir, "record", "", "record page snapshots to this directory")
	cmd.Flags().StringVar(&replayDir, "replay", "", "replay recorded snapshots instead of launching a browser")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue with the next subreddit when one fails")

	return cmd
}

func runCollect(cmd *cobra.Command, cfg *config.Config, keepGoing bool) error {
	logger := setupLogger(cfg.Logging)
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	ctx, stop := signalContext(logger)
	defer stop()

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	extractor, err := extract.New(cfg.Collector.Selectors, logger)
	if err != nil {
		return fmt.Errorf("compile selectors: %w", err)
	}

	var opener page.Opener
	if cfg.Browser.ReplayDir != "" {
		opener = page.NewReplayOpener(cfg.Browser.ReplayDir, logger)
	} else {
		opener = page.NewBrowserOpener(cfg.Browser, logger)
	}
	if cfg.Browser.RecordDir != "" {
		opener = page.NewRecorder(opener, cfg.Browser.RecordDir, logger)
	}

	logger.Info("starting collection",
		"groups", cfg.Collector.Groups,
		"query", cfg.Collector.Query,
		"max_iterations", cfg.Collector.MaxIterations,
		"output", cfg.Storage.OutputPath,
		"replay", cfg.Browser.ReplayDir != "",
	)

	start := time.Now()
	c := collector.New(cfg.Collector, opener, extractor, logger,
		collector.WithMetrics(metrics),
		collector.WithKeepGoing(keepGoing),
	)
	results, err := c.Run(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	items := collector.Items(results)

	sink, err := storage.New(ctx, cfg.Storage, cfg.Storage.OutputPath, runID, logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	if err := sink.Write(ctx, storage.TableCollected, types.CollectedColumns, types.CollectedRecords(items)); err != nil {
		return err
	}
	metrics.RowsStored.Add(int64(len(items)))

	elapsed := time.Since(start)
	logger.Info("collection complete", "elapsed", elapsed, "items", len(items))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nCollection complete in %s\n", elapsed.Round(time.Millisecond))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "   %-20s failed: %v\n", r.Group, r.Err)
			continue
		}
		fmt.Fprintf(out, "   %-20s %4d posts, %d iterations, stopped: %s\n", r.Group, len(r.Items), r.Iterations, r.Reason)
	}
	fmt.Fprintf(out, "   Output:    %s (%d rows)\n", cfg.Storage.OutputPath, len(items))
	return nil
}

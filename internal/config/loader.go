package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flags are applied by the caller afterwards.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("FORUMPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("forumpulse")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".forumpulse"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper so env vars can override
// keys that no config file mentions.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("collector.url_template", cfg.Collector.URLTemplate)
	v.SetDefault("collector.groups", cfg.Collector.Groups)
	v.SetDefault("collector.query", cfg.Collector.Query)
	v.SetDefault("collector.max_iterations", cfg.Collector.MaxIterations)
	v.SetDefault("collector.settle_delay", cfg.Collector.SettleDelay)
	v.SetDefault("collector.trigger_delay", cfg.Collector.TriggerDelay)
	v.SetDefault("collector.poll_interval", cfg.Collector.PollInterval)
	v.SetDefault("collector.max_retries", cfg.Collector.MaxRetries)
	v.SetDefault("collector.selectors.item", cfg.Collector.Selectors.Item)
	v.SetDefault("collector.selectors.id_attr", cfg.Collector.Selectors.IDAttr)
	v.SetDefault("collector.selectors.counter_row", cfg.Collector.Selectors.CounterRow)
	v.SetDefault("collector.selectors.counter", cfg.Collector.Selectors.Counter)
	v.SetDefault("collector.selectors.timestamp", cfg.Collector.Selectors.Timestamp)
	v.SetDefault("collector.selectors.time", cfg.Collector.Selectors.Time)
	v.SetDefault("collector.selectors.time_attr", cfg.Collector.Selectors.TimeAttr)

	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.bin", cfg.Browser.Bin)
	v.SetDefault("browser.navigation_timeout", cfg.Browser.NavigationTimeout)
	v.SetDefault("browser.window_size", cfg.Browser.WindowSize)
	v.SetDefault("browser.record_dir", cfg.Browser.RecordDir)
	v.SetDefault("browser.replay_dir", cfg.Browser.ReplayDir)

	v.SetDefault("analysis.input_path", cfg.Analysis.InputPath)
	v.SetDefault("analysis.output_path", cfg.Analysis.OutputPath)
	v.SetDefault("analysis.lemmatizer", cfg.Analysis.Lemmatizer)
	v.SetDefault("analysis.excluded_terms", cfg.Analysis.ExcludedTerms)
	v.SetDefault("analysis.top_n", cfg.Analysis.TopN)
	v.SetDefault("analysis.histogram_bins", cfg.Analysis.HistogramBins)
	v.SetDefault("analysis.report_dir", cfg.Analysis.ReportDir)

	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)
	v.SetDefault("storage.sinks", cfg.Storage.Sinks)
	v.SetDefault("storage.jsonl_dir", cfg.Storage.JSONLDir)
	v.SetDefault("storage.mongo.uri", cfg.Storage.Mongo.URI)
	v.SetDefault("storage.mongo.database", cfg.Storage.Mongo.Database)
	v.SetDefault("storage.postgres.dsn", cfg.Storage.Postgres.DSN)
	v.SetDefault("storage.postgres.max_conns", cfg.Storage.Postgres.MaxConns)
	v.SetDefault("storage.postgres.batch_size", cfg.Storage.Postgres.BatchSize)
	v.SetDefault("storage.sqlite.path", cfg.Storage.SQLite.Path)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)

	v.SetDefault("server.port", cfg.Server.Port)
}

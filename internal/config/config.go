package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for forumpulse.
type Config struct {
	Collector CollectorConfig `mapstructure:"collector" yaml:"collector"`
	Browser   BrowserConfig   `mapstructure:"browser"   yaml:"browser"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"  yaml:"analysis"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"`
	Server    ServerConfig    `mapstructure:"server"    yaml:"server"`
}

// CollectorConfig controls the incremental collection loop.
type CollectorConfig struct {
	URLTemplate   string         `mapstructure:"url_template"   yaml:"url_template"`
	Groups        []string       `mapstructure:"groups"         yaml:"groups"`
	Query         string         `mapstructure:"query"          yaml:"query"`
	MaxIterations int            `mapstructure:"max_iterations" yaml:"max_iterations"`
	SettleDelay   time.Duration  `mapstructure:"settle_delay"   yaml:"settle_delay"`
	TriggerDelay  time.Duration  `mapstructure:"trigger_delay"  yaml:"trigger_delay"`
	PollInterval  time.Duration  `mapstructure:"poll_interval"  yaml:"poll_interval"`
	MaxRetries    int            `mapstructure:"max_retries"    yaml:"max_retries"`
	Selectors     SelectorConfig `mapstructure:"selectors"      yaml:"selectors"`
}

// SelectorConfig holds the CSS signatures used to find posts and their metadata.
type SelectorConfig struct {
	Item       string `mapstructure:"item"        yaml:"item"`
	IDAttr     string `mapstructure:"id_attr"     yaml:"id_attr"`
	CounterRow string `mapstructure:"counter_row" yaml:"counter_row"`
	Counter    string `mapstructure:"counter"     yaml:"counter"`
	Timestamp  string `mapstructure:"timestamp"   yaml:"timestamp"`
	Time       string `mapstructure:"time"        yaml:"time"`
	TimeAttr   string `mapstructure:"time_attr"   yaml:"time_attr"`
}

// BrowserConfig controls the page session backend.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"           yaml:"headless"`
	Stealth           bool          `mapstructure:"stealth"            yaml:"stealth"`
	Bin               string        `mapstructure:"bin"                yaml:"bin"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	WindowSize        string        `mapstructure:"window_size"        yaml:"window_size"`
	RecordDir         string        `mapstructure:"record_dir"         yaml:"record_dir"`
	ReplayDir         string        `mapstructure:"replay_dir"         yaml:"replay_dir"`
}

// AnalysisConfig controls cleaning, scoring and reporting.
type AnalysisConfig struct {
	InputPath     string   `mapstructure:"input_path"     yaml:"input_path"`
	OutputPath    string   `mapstructure:"output_path"    yaml:"output_path"`
	Lemmatizer    string   `mapstructure:"lemmatizer"     yaml:"lemmatizer"`
	ExcludedTerms []string `mapstructure:"excluded_terms" yaml:"excluded_terms"`
	TopN          int      `mapstructure:"top_n"          yaml:"top_n"`
	HistogramBins int      `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	ReportDir     string   `mapstructure:"report_dir"     yaml:"report_dir"`
}

// StorageConfig controls where tables are persisted. The CSV file is always
// written; Sinks lists additional backends.
type StorageConfig struct {
	OutputPath string         `mapstructure:"output_path" yaml:"output_path"`
	Sinks      []string       `mapstructure:"sinks"       yaml:"sinks"`
	JSONLDir   string         `mapstructure:"jsonl_dir"   yaml:"jsonl_dir"`
	Mongo      MongoConfig    `mapstructure:"mongo"       yaml:"mongo"`
	Postgres   PostgresConfig `mapstructure:"postgres"    yaml:"postgres"`
	SQLite     SQLiteConfig   `mapstructure:"sqlite"      yaml:"sqlite"`
}

// MongoConfig configures the MongoDB sink.
type MongoConfig struct {
	URI      string `mapstructure:"uri"      yaml:"uri"`
	Database string `mapstructure:"database" yaml:"database"`
}

// PostgresConfig configures the Postgres sink.
type PostgresConfig struct {
	DSN       string `mapstructure:"dsn"        yaml:"dsn"`
	MaxConns  int    `mapstructure:"max_conns"  yaml:"max_conns"`
	BatchSize int    `mapstructure:"batch_size" yaml:"batch_size"`
}

// SQLiteConfig configures the SQLite sink.
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// ServerConfig controls the read-only HTTP view.
type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns a Config with the stock Samsung survey settings.
func DefaultConfig() *Config {
	return &Config{
		Collector: CollectorConfig{
			URLTemplate:   "https://www.reddit.com/r/{group}/search/?q={query}",
			Groups:        []string{"samsunggalaxy", "oneui", "smartphones"},
			Query:         "Samsung",
			MaxIterations: 10,
			SettleDelay:   3 * time.Second,
			TriggerDelay:  1 * time.Second,
			PollInterval:  1 * time.Second,
			MaxRetries:    5,
			Selectors:     DefaultSelectors(),
		},
		Browser: BrowserConfig{
			Headless:          true,
			Stealth:           true,
			NavigationTimeout: 30 * time.Second,
			WindowSize:        "1366,768",
		},
		Analysis: AnalysisConfig{
			InputPath:     "reddit_posts.csv",
			OutputPath:    "reddit_posts_with_sentiment.csv",
			Lemmatizer:    "golem",
			ExcludedTerms: []string{"samsung", "phone"},
			TopN:          30,
			HistogramBins: 20,
			ReportDir:     "./reports",
		},
		Storage: StorageConfig{
			OutputPath: "reddit_posts.csv",
			JSONLDir:   "./output",
			Mongo: MongoConfig{
				URI:      "mongodb://localhost:27017",
				Database: "forumpulse",
			},
			Postgres: PostgresConfig{
				MaxConns:  2,
				BatchSize: 200,
			},
			SQLite: SQLiteConfig{
				Path: "./output/forumpulse.db",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// DefaultSelectors returns the signatures of Reddit's search result markup.
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		Item:       `a[data-testid="post-title-text"]`,
		IDAttr:     "id",
		CounterRow: `div[data-testid="search-counter-row"]`,
		Counter:    "faceplate-number",
		Timestamp:  "faceplate-timeago",
		Time:       "time",
		TimeAttr:   "title",
	}
}

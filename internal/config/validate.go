package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	c := cfg.Collector
	if len(c.Groups) == 0 {
		return fmt.Errorf("collector.groups must not be empty")
	}
	for _, g := range c.Groups {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("collector.groups must not contain blank names")
		}
	}
	if !strings.Contains(c.URLTemplate, "{group}") {
		return fmt.Errorf("collector.url_template must contain {group}, got %q", c.URLTemplate)
	}
	if err := ValidateURL(ExpandURL(c.URLTemplate, c.Groups[0], c.Query)); err != nil {
		return fmt.Errorf("collector.url_template: %w", err)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("collector.max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("collector.max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.SettleDelay < 0 || c.TriggerDelay < 0 || c.PollInterval < 0 {
		return fmt.Errorf("collector delays must be >= 0")
	}
	if c.Selectors.Item == "" || c.Selectors.IDAttr == "" {
		return fmt.Errorf("collector.selectors.item and id_attr are required")
	}

	if cfg.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be > 0")
	}

	switch cfg.Analysis.Lemmatizer {
	case "golem", "snowball", "none":
	default:
		return fmt.Errorf("analysis.lemmatizer must be golem/snowball/none, got %q", cfg.Analysis.Lemmatizer)
	}
	if cfg.Analysis.InputPath == "" || cfg.Analysis.OutputPath == "" {
		return fmt.Errorf("analysis.input_path and analysis.output_path are required")
	}
	if filepath.Clean(cfg.Analysis.InputPath) == filepath.Clean(cfg.Analysis.OutputPath) {
		return fmt.Errorf("analysis.output_path must differ from analysis.input_path (%q)", cfg.Analysis.InputPath)
	}
	if cfg.Analysis.TopN < 1 {
		return fmt.Errorf("analysis.top_n must be >= 1, got %d", cfg.Analysis.TopN)
	}
	if cfg.Analysis.HistogramBins < 1 {
		return fmt.Errorf("analysis.histogram_bins must be >= 1, got %d", cfg.Analysis.HistogramBins)
	}

	if cfg.Storage.OutputPath == "" {
		return fmt.Errorf("storage.output_path is required")
	}
	validSinks := map[string]bool{
		"jsonl": true, "mongodb": true, "postgres": true, "sqlite": true,
	}
	for _, s := range cfg.Storage.Sinks {
		if !validSinks[s] {
			return fmt.Errorf("storage.sinks: %q is not supported (valid: jsonl, mongodb, postgres, sqlite)", s)
		}
		if s == "postgres" && cfg.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required when the postgres sink is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is valid for navigation.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

// ExpandURL fills the {group} and {query} placeholders of a URL template.
func ExpandURL(template, group, query string) string {
	return strings.NewReplacer(
		"{group}", url.PathEscape(group),
		"{query}", url.QueryEscape(query),
	).Replace(template)
}

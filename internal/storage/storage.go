// Package storage persists collected and analyzed tables to files and
// databases.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// Table names used by the two phases.
const (
	TableCollected = "reddit_posts"
	TableAnalyzed  = "reddit_posts_with_sentiment"
)

// Sink is the interface for all storage backends.
type Sink interface {
	// Name returns the backend identifier.
	Name() string

	// Write persists a complete table. columns fixes the column order.
	Write(ctx context.Context, table string, columns []string, records []types.Record) error

	// Close flushes pending writes and releases resources.
	Close() error
}

// New builds the sink set for a run: the CSV file at csvPath, plus every
// backend listed in cfg.Sinks.
func New(ctx context.Context, cfg config.StorageConfig, csvPath, runID string, logger *slog.Logger) (*MultiSink, error) {
	sinks := []Sink{NewCSVSink(csvPath, logger)}

	closeAll := func() {
		for _, s := range sinks {
			_ = s.Close()
		}
	}

	for _, name := range cfg.Sinks {
		var (
			s   Sink
			err error
		)
		switch name {
		case "jsonl":
			s, err = NewJSONLSink(cfg.JSONLDir, runID, logger)
		case "mongodb":
			s, err = NewMongoSink(ctx, cfg.Mongo.URI, cfg.Mongo.Database, runID, logger)
		case "postgres":
			s, err = NewPostgresSink(ctx, cfg.Postgres, runID, logger)
		case "sqlite":
			s, err = NewSQLiteSink(cfg.SQLite.Path, runID, logger)
		default:
			err = fmt.Errorf("%w: %q", types.ErrUnknownSink, name)
		}
		if err != nil {
			closeAll()
			return nil, &types.StorageError{Backend: name, Err: err}
		}
		sinks = append(sinks, s)
	}

	return NewMultiSink(sinks, logger), nil
}

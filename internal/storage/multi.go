package storage

import (
	"context"
	"log/slog"

	"github.com/IshaanNene/forumpulse/internal/types"
)

// MultiSink writes tables to multiple backends in order.
type MultiSink struct {
	backends []Sink
	logger   *slog.Logger
}

// NewMultiSink creates a sink that fans out to multiple backends.
func NewMultiSink(backends []Sink, logger *slog.Logger) *MultiSink {
	return &MultiSink{
		backends: backends,
		logger:   logger.With("component", "multi_sink"),
	}
}

func (s *MultiSink) Name() string { return "multi" }

// Backends returns the wrapped sinks.
func (s *MultiSink) Backends() []Sink { return s.backends }

// Write writes to every backend and returns the first failure. A failing
// backend does not stop the others.
func (s *MultiSink) Write(ctx context.Context, table string, columns []string, records []types.Record) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Write(ctx, table, columns, records); err != nil {
			s.logger.Error("backend write failed", "backend", backend.Name(), "table", table, "error", err)
			if firstErr == nil {
				firstErr = &types.StorageError{Backend: backend.Name(), Err: err}
			}
		}
	}
	return firstErr
}

func (s *MultiSink) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

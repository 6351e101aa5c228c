package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/IshaanNene/forumpulse/internal/types"
)

// JSONLSink writes each table as newline-delimited JSON, one object per
// row, to <dir>/<table>.jsonl.
type JSONLSink struct {
	dir    string
	runID  string
	count  int
	logger *slog.Logger
}

// NewJSONLSink creates a JSONL sink under dir.
func NewJSONLSink(dir, runID string, logger *slog.Logger) (*JSONLSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &JSONLSink{
		dir:    dir,
		runID:  runID,
		logger: logger.With("component", "jsonl_sink"),
	}, nil
}

func (s *JSONLSink) Name() string { return "jsonl" }

func (s *JSONLSink) Write(_ context.Context, table string, _ []string, records []types.Record) error {
	path := filepath.Join(s.dir, table+".jsonl")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range records {
		doc := r.Document()
		doc["run_id"] = s.runID
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode JSONL: %w", err)
		}
	}
	s.count += len(records)
	s.logger.Info("JSONL written", "path", path, "rows", len(records))
	return f.Close()
}

func (s *JSONLSink) Close() error {
	s.logger.Debug("JSONL sink closing", "total_rows", s.count)
	return nil
}

package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/IshaanNene/forumpulse/internal/types"
)

// CSVSink writes a table as a UTF-8 CSV file with a header row. The file is
// written to a temporary name in the same directory and renamed into place.
type CSVSink struct {
	path   string
	logger *slog.Logger
}

// NewCSVSink creates a CSV sink writing to path.
func NewCSVSink(path string, logger *slog.Logger) *CSVSink {
	return &CSVSink{
		path:   path,
		logger: logger.With("component", "csv_sink"),
	}
}

func (s *CSVSink) Name() string { return "csv" }

// Path returns the output file.
func (s *CSVSink) Path() string { return s.path }

func (s *CSVSink) Write(_ context.Context, table string, columns []string, records []types.Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, columns, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename output file: %w", err)
	}

	s.logger.Info("CSV written", "path", s.path, "table", table, "rows", len(records))
	return nil
}

func (s *CSVSink) Close() error { return nil }

func writeCSV(f *os.File, columns []string, records []types.Record) error {
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Values()); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return f.Sync()
}

// table is a parsed CSV file addressed by column name.
type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(path string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}

	t := &table{index: make(map[string]int, len(header))}
	for i, name := range header {
		t.index[name] = i
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, fmt.Errorf("%s: %w %q", path, types.ErrMissingColumn, col)
		}
	}

	t.rows, err = r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *table) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (t *table) collected(row []string) types.CollectedItem {
	return types.CollectedItem{
		Group:    t.cell(row, "subreddit"),
		Title:    t.cell(row, "title"),
		Votes:    types.ParseField(t.cell(row, "votes")),
		Comments: types.ParseField(t.cell(row, "comments")),
		PostTime: types.ParseField(t.cell(row, "post_time")),
	}
}

// ReadCollected loads a collected table written by the collect phase.
// Extra columns are ignored.
func ReadCollected(path string) ([]types.CollectedItem, error) {
	t, err := readTable(path, types.CollectedColumns)
	if err != nil {
		return nil, err
	}
	items := make([]types.CollectedItem, len(t.rows))
	for i, row := range t.rows {
		items[i] = t.collected(row)
	}
	return items, nil
}

// ReadAnalyzed loads an enriched table written by the analyze phase.
func ReadAnalyzed(path string) ([]*types.AnalyzedItem, error) {
	t, err := readTable(path, types.AnalyzedColumns)
	if err != nil {
		return nil, err
	}

	items := make([]*types.AnalyzedItem, len(t.rows))
	for i, row := range t.rows {
		item := types.NewAnalyzedItem(t.collected(row))
		item.CleanTitle = t.cell(row, "clean_title")

		scores := []struct {
			col string
			dst *float64
		}{
			{"polarity", &item.Polarity},
			{"subjectivity", &item.Subjectivity},
			{"vader_polarity", &item.VaderPolarity},
		}
		for _, sc := range scores {
			v, err := strconv.ParseFloat(t.cell(row, sc.col), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d column %s: %w", path, i+2, sc.col, err)
			}
			*sc.dst = v
		}
		items[i] = item
	}
	return items, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/IshaanNene/forumpulse/internal/types"
)

var sqliteDialect = sqlDialect{
	realType:    "REAL",
	quote:       quoteIdent,
	placeholder: func(int) string { return "?" },
}

// SQLiteSink appends tables to a local SQLite archive.
type SQLiteSink struct {
	db     *sql.DB
	path   string
	runID  string
	count  int
	logger *slog.Logger
}

// NewSQLiteSink opens (creating if needed) the database file at path.
func NewSQLiteSink(path, runID string, logger *slog.Logger) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &SQLiteSink{
		db:     db,
		path:   path,
		runID:  runID,
		logger: logger.With("component", "sqlite_sink"),
	}, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

// DB exposes the underlying handle.
func (s *SQLiteSink) DB() *sql.DB { return s.db }

func (s *SQLiteSink) Write(ctx context.Context, table string, columns []string, records []types.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, sqliteDialect.createTable(table, columns)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, sqliteDialect.insert(table, columns))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, rowArgs(s.runID, columns, r)...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.count += len(records)
	s.logger.Info("rows stored in sqlite", "path", s.path, "table", table, "rows", len(records))
	return nil
}

func (s *SQLiteSink) Close() error {
	s.logger.Debug("sqlite sink closing", "total_rows", s.count)
	return s.db.Close()
}

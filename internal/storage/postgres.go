package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/types"
)

var postgresDialect = sqlDialect{
	realType:    "DOUBLE PRECISION",
	quote:       func(s string) string { return pgx.Identifier{s}.Sanitize() },
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// PostgresSink appends tables to Postgres using batched inserts.
type PostgresSink struct {
	pool      *pgxpool.Pool
	batchSize int
	runID     string
	count     int
	logger    *slog.Logger
}

// NewPostgresSink opens a connection pool and verifies it.
func NewPostgresSink(ctx context.Context, cfg config.PostgresConfig, runID string, logger *slog.Logger) (*PostgresSink, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 2
	}
	pcfg.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 200
	}
	return &PostgresSink{
		pool:      pool,
		batchSize: batch,
		runID:     runID,
		logger:    logger.With("component", "postgres_sink"),
	}, nil
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Write(ctx context.Context, table string, columns []string, records []types.Record) error {
	if _, err := s.pool.Exec(ctx, postgresDialect.createTable(table, columns)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	query := postgresDialect.insert(table, columns)
	total := 0
	for i := 0; i < len(records); i += s.batchSize {
		j := min(i+s.batchSize, len(records))

		b := &pgx.Batch{}
		for _, r := range records[i:j] {
			b.Queue(query, rowArgs(s.runID, columns, r)...)
		}

		br := s.pool.SendBatch(ctx, b)
		for k := i; k < j; k++ {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return fmt.Errorf("insert into %s: %w", table, err)
			}
			total += int(tag.RowsAffected())
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	s.count += total
	s.logger.Info("rows stored in postgres", "table", table, "rows", total)
	return nil
}

func (s *PostgresSink) Close() error {
	s.logger.Info("postgres sink closing", "total_rows", s.count)
	s.pool.Close()
	return nil
}

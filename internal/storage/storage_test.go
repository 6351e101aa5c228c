package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleItems() []types.CollectedItem {
	return []types.CollectedItem{
		{ID: "t3_a", Group: "samsunggalaxy", Title: `Battery, "great"`, Votes: types.Present("1.2k"), Comments: types.Present("340"), PostTime: types.Present("January 1, 2024")},
		{ID: "t3_b", Group: "oneui", Title: "No metadata", Votes: types.Missing, Comments: types.Missing, PostTime: types.Missing},
	}
}

func TestCSVWriteAndReadCollected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "reddit_posts.csv")
	sink := NewCSVSink(path, testLogger)

	err := sink.Write(context.Background(), TableCollected, types.CollectedColumns, types.CollectedRecords(sampleItems()))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "subreddit,title,votes,comments,post_time" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[2] != "oneui,No metadata,N/A,N/A,N/A" {
		t.Errorf("unexpected sentinel row %q", lines[2])
	}

	got, err := ReadCollected(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Title != `Battery, "great"` {
		t.Errorf("title not preserved: %q", got[0].Title)
	}
	if v, ok := got[0].Votes.Value(); !ok || v != "1.2k" {
		t.Errorf("expected votes 1.2k, got %q", v)
	}
	if !got[1].Votes.IsMissing() || !got[1].PostTime.IsMissing() {
		t.Error("N/A cells should read back as missing")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}

func TestCSVKeepsEmptyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reddit_posts.csv")
	items := []types.CollectedItem{
		{Group: "oneui", Title: "Empty counters", Votes: types.Present(""), Comments: types.Missing, PostTime: types.Present("")},
	}
	if err := NewCSVSink(path, testLogger).Write(context.Background(), TableCollected, types.CollectedColumns, types.CollectedRecords(items)); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadCollected(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if v, ok := got[0].Votes.Value(); !ok || v != "" {
		t.Errorf("expected present empty votes, got (%q, %v)", v, ok)
	}
	if !got[0].Comments.IsMissing() {
		t.Error("expected missing comments")
	}
	if got[0].PostTime.IsMissing() {
		t.Error("expected present empty post time")
	}
}

func TestReadCollectedMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("subreddit,title\na,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadCollected(path)
	if !errors.Is(err, types.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadAnalyzed(t *testing.T) {
	item := types.NewAnalyzedItem(sampleItems()[0])
	item.CleanTitle = "battery great"
	item.Polarity = 0.8
	item.Subjectivity = 0.75
	item.VaderPolarity = 0.6249

	path := filepath.Join(t.TempDir(), "analyzed.csv")
	err := NewCSVSink(path, testLogger).Write(context.Background(), TableAnalyzed, types.AnalyzedColumns, types.AnalyzedRecords([]*types.AnalyzedItem{item}))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadAnalyzed(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].CleanTitle != "battery great" || got[0].Polarity != 0.8 || got[0].VaderPolarity != 0.6249 {
		t.Errorf("unexpected row %+v", got[0])
	}

	collected := filepath.Join(t.TempDir(), "collected.csv")
	if err := NewCSVSink(collected, testLogger).Write(context.Background(), TableCollected, types.CollectedColumns, types.CollectedRecords(sampleItems())); err != nil {
		t.Fatalf("write collected: %v", err)
	}
	if _, err := ReadAnalyzed(collected); !errors.Is(err, types.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for a collected table, got %v", err)
	}
}

func TestJSONLSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewJSONLSink(dir, "run-1", testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer sink.Close()

	if err := sink.Write(context.Background(), TableCollected, types.CollectedColumns, types.CollectedRecords(sampleItems())); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, TableCollected+".jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var docs []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var doc map[string]any
		if err := json.Unmarshal(sc.Bytes(), &doc); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		docs = append(docs, doc)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(docs))
	}
	if docs[0]["run_id"] != "run-1" || docs[0]["post_id"] != "t3_a" {
		t.Errorf("unexpected first doc %v", docs[0])
	}
	if docs[1]["votes"] != nil {
		t.Errorf("missing votes should be null, got %v", docs[1]["votes"])
	}
}

func TestSQLiteSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	sink, err := NewSQLiteSink(path, "run-1", testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer sink.Close()

	ctx := context.Background()
	records := types.CollectedRecords(sampleItems())
	for i := 0; i < 2; i++ {
		if err := sink.Write(ctx, TableCollected, types.CollectedColumns, records); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	var total, missing int
	if err := sink.DB().QueryRow(`SELECT COUNT(*) FROM "reddit_posts"`).Scan(&total); err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 4 {
		t.Errorf("expected 4 rows after two writes, got %d", total)
	}
	if err := sink.DB().QueryRow(`SELECT COUNT(*) FROM "reddit_posts" WHERE votes IS NULL`).Scan(&missing); err != nil {
		t.Fatalf("count null: %v", err)
	}
	if missing != 2 {
		t.Errorf("expected 2 rows with NULL votes, got %d", missing)
	}
}

type failingSink struct {
	writes int
	closed bool
}

func (s *failingSink) Name() string { return "failing" }

func (s *failingSink) Write(context.Context, string, []string, []types.Record) error {
	s.writes++
	return errors.New("disk full")
}

func (s *failingSink) Close() error {
	s.closed = true
	return nil
}

func TestMultiSinkContinuesAfterFailure(t *testing.T) {
	failing := &failingSink{}
	path := filepath.Join(t.TempDir(), "out.csv")
	multi := NewMultiSink([]Sink{failing, NewCSVSink(path, testLogger)}, testLogger)

	err := multi.Write(context.Background(), TableCollected, types.CollectedColumns, types.CollectedRecords(sampleItems()))
	var se *types.StorageError
	if !errors.As(err, &se) || se.Backend != "failing" {
		t.Fatalf("expected StorageError from failing backend, got %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("csv backend should still have written: %v", err)
	}

	if err := multi.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if !failing.closed {
		t.Error("all backends should be closed")
	}
}

func TestNewSinks(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig().Storage
	cfg.Sinks = []string{"jsonl", "sqlite"}
	cfg.JSONLDir = filepath.Join(dir, "jsonl")
	cfg.SQLite.Path = filepath.Join(dir, "db", "archive.db")

	multi, err := New(context.Background(), cfg, filepath.Join(dir, "posts.csv"), "run-1", testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer multi.Close()

	var names []string
	for _, b := range multi.Backends() {
		names = append(names, b.Name())
	}
	if strings.Join(names, ",") != "csv,jsonl,sqlite" {
		t.Errorf("unexpected backends %v", names)
	}

	cfg.Sinks = []string{"parquet"}
	_, err = New(context.Background(), cfg, filepath.Join(dir, "posts.csv"), "run-1", testLogger)
	if !errors.Is(err, types.ErrUnknownSink) {
		t.Errorf("expected ErrUnknownSink, got %v", err)
	}
}

func TestPostgresSinkLive(t *testing.T) {
	dsn := os.Getenv("FORUMPULSE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("FORUMPULSE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	sink, err := NewPostgresSink(ctx, config.PostgresConfig{DSN: dsn, BatchSize: 1}, "run-test", testLogger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer sink.Close()

	if err := sink.Write(ctx, "forumpulse_test_posts", types.CollectedColumns, types.CollectedRecords(sampleItems())); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestMongoSinkLive(t *testing.T) {
	uri := os.Getenv("FORUMPULSE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FORUMPULSE_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	sink, err := NewMongoSink(ctx, uri, "forumpulse_test", "run-test", testLogger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer sink.Close()

	if err := sink.Write(ctx, TableCollected, types.CollectedColumns, types.CollectedRecords(sampleItems())); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSQLDialect(t *testing.T) {
	got := postgresDialect.insert("t", []string{"a", "b"})
	want := `INSERT INTO "t" ("run_id", "post_id", "a", "b") VALUES ($1, $2, $3, $4)`
	if got != want {
		t.Errorf("postgres insert:\n got %s\nwant %s", got, want)
	}
	if q := quoteIdent(`we"ird`); q != `"we""ird"` {
		t.Errorf("unexpected quoting %s", q)
	}
	ddl := sqliteDialect.createTable("t", []string{"title", "polarity"})
	if !strings.Contains(ddl, `"polarity" REAL`) || !strings.Contains(ddl, `"title" TEXT`) {
		t.Errorf("unexpected ddl %s", ddl)
	}
}

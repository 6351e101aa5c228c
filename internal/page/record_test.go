package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IshaanNene/forumpulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const itemSel = `a[data-testid="post-title-text"]`

// growingOpener hands out a session whose content grows by one post per LoadMore.
type growingOpener struct {
	closed int
}

func (o *growingOpener) Open(_ context.Context, _, _ string) (Session, error) {
	return &growingSession{owner: o, n: 1}, nil
}

type growingSession struct {
	owner *growingOpener
	n     int
}

func (s *growingSession) html() string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < s.n; i++ {
		fmt.Fprintf(&b, `<a data-testid="post-title-text" id="p%d">Post %d</a>`, i, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func (s *growingSession) Count(context.Context, string) (int, error) { return s.n, nil }
func (s *growingSession) LoadMore(context.Context) error { s.n++; return nil }
func (s *growingSession) Snapshot(context.Context) (string, error) { return s.html(), nil }
func (s *growingSession) Close() error { s.owner.closed++; return nil }

func TestRecordThenReplay(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	inner := &growingOpener{}

	rec := NewRecorder(inner, dir, testLogger)
	sess, err := rec.Open(ctx, "testsub", "https://example.com/r/testsub")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := sess.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := sess.Snapshot(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if err := sess.Close(); err != nil {
		t.Fatal(err)
	}
	if inner.closed != 1 {
		t.Errorf("expected inner session closed once, got %d", inner.closed)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "testsub", "*"+snapshotExt))
	if len(files) != 3 {
		t.Fatalf("expected 3 recorded states, got %d", len(files))
	}

	replay, err := NewReplayOpener(dir, testLogger).Open(ctx, "testsub", "")
	if err != nil {
		t.Fatalf("replay open: %v", err)
	}
	defer replay.Close()

	for want := 1; want <= 3; want++ {
		got, err := replay.Count(ctx, itemSel)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("state %d: expected %d posts, got %d", want-1, want, got)
		}
		if err := replay.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
	}

	// Past the last recorded state the page stops growing.
	if got, _ := replay.Count(ctx, itemSel); got != 3 {
		t.Errorf("expected count to stay at 3, got %d", got)
	}
}

func TestReplayWithoutSnapshots(t *testing.T) {
	_, err := NewReplayOpener(t.TempDir(), testLogger).Open(context.Background(), "empty", "")
	if !errors.Is(err, types.ErrNoSnapshots) {
		t.Errorf("expected ErrNoSnapshots, got %v", err)
	}
}

func TestReplayClosedSession(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "g"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := writeCompressed(filepath.Join(dir, "g", "0000"+snapshotExt), "<p>hi</p>"); err != nil {
		t.Fatal(err)
	}

	sess, err := NewReplayOpener(dir, testLogger).Open(context.Background(), "g", "")
	if err != nil {
		t.Fatal(err)
	}
	html, _ := sess.Snapshot(context.Background())
	if html != "<p>hi</p>" {
		t.Errorf("expected recorded html, got %q", html)
	}
	sess.Close()
	if _, err := sess.Count(context.Background(), "p"); !errors.Is(err, types.ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
}

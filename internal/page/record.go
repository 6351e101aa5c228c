package page

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"

	"github.com/IshaanNene/forumpulse/internal/types"
)

const snapshotExt = ".html.br"

// Recorder wraps an Opener and archives every page state a session exposes:
// the HTML right after navigation and each snapshot the collector takes.
// Files land in <dir>/<group>/NNNN.html.br and can be fed to ReplayOpener.
type Recorder struct {
	inner  Opener
	dir    string
	logger *slog.Logger
}

// NewRecorder creates a recording Opener.
func NewRecorder(inner Opener, dir string, logger *slog.Logger) *Recorder {
	return &Recorder{
		inner:  inner,
		dir:    dir,
		logger: logger.With("component", "recorder"),
	}
}

// Open implements Opener.
func (r *Recorder) Open(ctx context.Context, group, url string) (Session, error) {
	groupDir := filepath.Join(r.dir, group)
	if err := os.RemoveAll(groupDir); err != nil {
		return nil, fmt.Errorf("reset record dir: %w", err)
	}
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}

	sess, err := r.inner.Open(ctx, group, url)
	if err != nil {
		return nil, err
	}

	rs := &recordingSession{Session: sess, dir: groupDir, logger: r.logger.With("group", group)}
	initial, err := sess.Snapshot(ctx)
	if err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}
	if err := rs.save(initial); err != nil {
		_ = sess.Close()
		return nil, err
	}
	return rs, nil
}

type recordingSession struct {
	Session
	dir    string
	seq    int
	logger *slog.Logger
}

func (s *recordingSession) Snapshot(ctx context.Context) (string, error) {
	html, err := s.Session.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if err := s.save(html); err != nil {
		return "", err
	}
	return html, nil
}

func (s *recordingSession) save(html string) error {
	path := filepath.Join(s.dir, fmt.Sprintf("%04d%s", s.seq, snapshotExt))
	s.seq++
	if err := writeCompressed(path, html); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	s.logger.Debug("snapshot recorded", "path", path, "size", len(html))
	return nil
}

func writeCompressed(path, html string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := brotli.NewWriterLevel(f, brotli.DefaultCompression)
	if _, err := io.WriteString(w, html); err != nil {
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readCompressed(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := io.ReadAll(brotli.NewReader(f))
	if err != nil {
		return "", fmt.Errorf("decompress %s: %w", path, err)
	}
	return string(b), nil
}

// ReplayOpener serves sessions from a directory written by Recorder. State 0
// is the page after navigation; each LoadMore advances to the next recorded
// state until none are left, after which the page stops growing.
type ReplayOpener struct {
	dir    string
	logger *slog.Logger
}

// NewReplayOpener creates an Opener that reads recorded snapshots.
func NewReplayOpener(dir string, logger *slog.Logger) *ReplayOpener {
	return &ReplayOpener{
		dir:    dir,
		logger: logger.With("component", "replay"),
	}
}

// Open implements Opener. The url is only logged.
func (o *ReplayOpener) Open(_ context.Context, group, url string) (Session, error) {
	pattern := filepath.Join(o.dir, group, "*"+snapshotExt)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Join(o.dir, group), types.ErrNoSnapshots)
	}
	sort.Strings(paths)

	o.logger.Debug("replaying session", "group", group, "url", url, "states", len(paths))
	s := &replaySession{paths: paths}
	if err := s.load(0); err != nil {
		return nil, err
	}
	return s, nil
}

type replaySession struct {
	paths  []string
	pos    int
	doc    *goquery.Document
	html   string
	closed bool
}

func (s *replaySession) load(i int) error {
	html, err := readCompressed(s.paths[i])
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse %s: %w", s.paths[i], err)
	}
	s.pos, s.html, s.doc = i, html, doc
	return nil
}

func (s *replaySession) Count(_ context.Context, selector string) (int, error) {
	if s.closed {
		return 0, types.ErrSessionClosed
	}
	return s.doc.Find(selector).Length(), nil
}

func (s *replaySession) LoadMore(_ context.Context) error {
	if s.closed {
		return types.ErrSessionClosed
	}
	if s.pos+1 >= len(s.paths) {
		return nil
	}
	return s.load(s.pos + 1)
}

func (s *replaySession) Snapshot(_ context.Context) (string, error) {
	if s.closed {
		return "", types.ErrSessionClosed
	}
	return s.html, nil
}

func (s *replaySession) Close() error {
	s.closed = true
	return nil
}

package page

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/forumpulse/internal/config"
)

func TestBrowserOpenerLive(t *testing.T) {
	if os.Getenv("FORUMPULSE_LIVE") != "1" {
		t.Skip("FORUMPULSE_LIVE not set")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>")
		for i := 0; i < 3; i++ {
			fmt.Fprintf(w, `<a data-testid="post-title-text" id="p%d">Post %d</a>`, i, i)
		}
		fmt.Fprint(w, "</body></html>")
	}))
	defer srv.Close()

	cfg := config.DefaultConfig().Browser
	cfg.Stealth = false
	cfg.NavigationTimeout = 20 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sess, err := NewBrowserOpener(cfg, testLogger).Open(ctx, "live", srv.URL)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sess.Close()

	n, err := sess.Count(ctx, itemSel)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 posts, got %d", n)
	}
	if err := sess.LoadMore(ctx); err != nil {
		t.Errorf("load more: %v", err)
	}
	html, err := sess.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(html, `id="p2"`) {
		t.Error("snapshot is missing the last post")
	}
}

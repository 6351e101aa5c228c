package page

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/forumpulse/internal/config"
)

// BrowserOpener launches a fresh headless Chromium for every session.
type BrowserOpener struct {
	cfg    config.BrowserConfig
	logger *slog.Logger
}

// NewBrowserOpener creates an Opener backed by Rod.
func NewBrowserOpener(cfg config.BrowserConfig, logger *slog.Logger) *BrowserOpener {
	return &BrowserOpener{
		cfg:    cfg,
		logger: logger.With("component", "browser"),
	}
}

// Open launches a browser, opens a page and navigates to url. On any failure
// everything acquired so far is released before returning.
func (o *BrowserOpener) Open(ctx context.Context, group, url string) (Session, error) {
	l := o.launcher()
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	s := &browserSession{
		launcher: l,
		browser:  browser,
		logger:   o.logger.With("group", group),
	}

	if o.cfg.Stealth {
		s.page, err = stealth.Page(browser)
	} else {
		s.page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}

	if err := s.page.Timeout(o.cfg.NavigationTimeout).Navigate(url); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := s.page.Timeout(o.cfg.NavigationTimeout).WaitLoad(); err != nil {
		s.logger.Warn("page load wait timed out, continuing", "url", url, "error", err)
	}

	s.logger.Debug("browser session ready", "url", url, "stealth", o.cfg.Stealth)
	return s, nil
}

// launcher builds the Chromium launcher with the usual automation flags.
func (o *BrowserOpener) launcher() *launcher.Launcher {
	l := launcher.New().
		Headless(o.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if o.cfg.Bin != "" {
		l = l.Bin(o.cfg.Bin)
	}
	if o.cfg.WindowSize != "" {
		l = l.Set("window-size", o.cfg.WindowSize)
	}
	return l
}

type browserSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	logger   *slog.Logger
}

func (s *browserSession) Count(ctx context.Context, selector string) (int, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// LoadMore focuses the body and presses End, which makes Reddit fetch the
// next batch of results.
func (s *browserSession) LoadMore(ctx context.Context) error {
	p := s.page.Context(ctx)
	body, err := p.Timeout(10 * time.Second).Element("body")
	if err != nil {
		return fmt.Errorf("find body: %w", err)
	}
	if err := body.Focus(); err != nil {
		return fmt.Errorf("focus body: %w", err)
	}
	return p.Keyboard.Press(input.End)
}

func (s *browserSession) Snapshot(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

// Close shuts the page, the browser and the launched process down.
func (s *browserSession) Close() error {
	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	s.launcher.Cleanup()
	s.logger.Debug("browser session closed")
	return firstErr
}

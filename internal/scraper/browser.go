package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrSessionNotStarted is returned when a page context is requested
// before the session has been acquired.
var ErrSessionNotStarted = errors.New("browser session not started")

// BrowserConfig configures browser behavior
type BrowserConfig struct {
	Headless      bool
	UserAgent     string
	DisableImages bool
	WindowWidth   int
	WindowHeight  int
}

// DefaultBrowserConfig returns sensible defaults
func DefaultBrowserConfig() *BrowserConfig {
	return &BrowserConfig{
		Headless:      true,
		UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		DisableImages: true,
		WindowWidth:   1920,
		WindowHeight:  1080,
	}
}

// Session owns the single browser instance shared by all source
// adapters during a run. The orchestrator acquires it once per run and
// releases it once per run; adapters only ever borrow isolated page
// contexts via NewPageContext and must cancel them themselves.
type Session struct {
	config *BrowserConfig
	logger *zap.Logger

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSession creates an unstarted session. The browser process is not
// launched until Acquire is called.
func NewSession(config *BrowserConfig, logger *zap.Logger) *Session {
	if config == nil {
		config = DefaultBrowserConfig()
	}
	return &Session{config: config, logger: logger}
}

// Acquire starts the shared browser if it is not already running.
// Concurrent callers observe the same session; a second Acquire while
// started is a no-op. A startup failure is fatal for the whole run and
// is not retried here.
func (s *Session) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx != nil {
		return nil
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(s.config.UserAgent),
		chromedp.WindowSize(s.config.WindowWidth, s.config.WindowHeight),
	}
	if s.config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if s.config.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser process to launch now, so
	// a missing Chrome binary fails the acquire instead of the first fetch.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("failed to start browser session: %w", err)
	}

	s.allocCancel = allocCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel

	s.logger.Info("Browser session started", zap.Bool("headless", s.config.Headless))
	return nil
}

// Release tears the browser down and clears the shared handle so a
// later Acquire starts fresh. Safe to call when not started.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx == nil {
		return
	}

	s.browserCancel()
	s.allocCancel()
	s.browserCtx = nil
	s.browserCancel = nil
	s.allocCancel = nil

	s.logger.Info("Browser session released")
}

// NewPageContext returns an isolated page context from the current
// session. The caller must invoke the returned cancel in all cases;
// the session does not track per-context lifetime.
func (s *Session) NewPageContext(timeout time.Duration) (context.Context, context.CancelFunc, error) {
	s.mu.Lock()
	base := s.browserCtx
	s.mu.Unlock()

	if base == nil {
		return nil, nil, ErrSessionNotStarted
	}

	ctx, cancel := chromedp.NewContext(base)
	if timeout > 0 {
		tctx, tcancel := context.WithTimeout(ctx, timeout)
		return tctx, func() { tcancel(); cancel() }, nil
	}
	return ctx, cancel, nil
}

// FetchPage navigates the given page context to url, waits up to
// waitTimeout for waitSelector to become visible, and returns the
// rendered HTML. A wait timeout is returned as an error so callers can
// treat it as "source yielded nothing" rather than a fatal failure.
func (s *Session) FetchPage(ctx context.Context, url, waitSelector string, waitTimeout time.Duration) (string, error) {
	s.logger.Debug("Fetching page", zap.String("url", url))

	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()

	wait := chromedp.WaitReady("body", chromedp.ByQuery)
	if waitSelector != "" {
		wait = chromedp.WaitVisible(waitSelector, chromedp.ByQuery)
	}
	if err := chromedp.Run(waitCtx, wait); err != nil {
		return "", fmt.Errorf("content not ready for %q: %w", waitSelector, err)
	}

	var html string
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}

	s.logger.Debug("Page fetched", zap.String("url", url), zap.Int("length", len(html)))
	return html, nil
}

// RenderedHTML navigates to url, allows a short settle delay for
// dynamic content, and returns the rendered document HTML.
func (s *Session) RenderedHTML(ctx context.Context, url string, settle time.Duration) (string, error) {
	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return html, nil
}

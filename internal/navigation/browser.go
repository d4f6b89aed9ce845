package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// ErrBrowserDisconnected is returned by BrowserSource.Run when the browser goes away.
var ErrBrowserDisconnected = errors.New("browser disconnected")

// BrowserSource watches a running Chromium over the DevTools protocol and reports every
// finished page load as a completed main-frame navigation.
type BrowserSource struct {
	endpoint string

	mu     sync.Mutex
	nextID int
}

// NewBrowserSource creates a source for the DevTools endpoint, e.g. http://localhost:9222.
func NewBrowserSource(endpoint string) *BrowserSource {
	return &BrowserSource{endpoint: endpoint}
}

// Run connects to the browser and blocks until ctx is cancelled or the browser disconnects.
func (s *BrowserSource) Run(ctx context.Context, handler Handler) error {
	opts := &playwright.RunOptions{
		SkipInstallBrowsers: true,
		Verbose:             false,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright driver: %w", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	defer func() {
		if err := pw.Stop(); err != nil {
			slog.Warn("Failed to stop playwright", "error", err)
		}
	}()

	browser, err := pw.Chromium.ConnectOverCDP(s.endpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to browser at %s: %w", s.endpoint, err)
	}

	disconnected := make(chan struct{})
	browser.OnDisconnected(func(playwright.Browser) { close(disconnected) })

	for _, bc := range browser.Contexts() {
		for _, page := range bc.Pages() {
			s.watch(ctx, page, handler)
		}
		bc.OnPage(func(page playwright.Page) { s.watch(ctx, page, handler) })
	}
	slog.Info("Watching browser navigations", "endpoint", s.endpoint, "contexts", len(browser.Contexts()))

	select {
	case <-ctx.Done():
		// Closing a CDP-connected browser only drops the connection.
		if err := browser.Close(); err != nil {
			slog.Warn("Failed to disconnect from browser", "error", err)
		}
		return nil
	case <-disconnected:
		return ErrBrowserDisconnected
	}
}

func (s *BrowserSource) watch(ctx context.Context, page playwright.Page, handler Handler) {
	tabID := s.tabID()
	page.OnLoad(func(p playwright.Page) {
		handler.HandleEvent(ctx, loadEvent(tabID, p.URL()))
	})
}

func (s *BrowserSource) tabID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

// loadEvent is what a page "load" notification becomes.
func loadEvent(tabID int, url string) Event {
	return Event{
		TabID:   tabID,
		FrameID: MainFrameID,
		Status:  StatusComplete,
		URL:     url,
	}
}

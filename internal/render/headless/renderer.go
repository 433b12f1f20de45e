// Package headless renders pages in headless Chrome via chromedp.
package headless

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/JakeFAU/company-scraper/internal/scraper"
)

const defaultNavigationTimeout = 30 * time.Second

// Config controls the browser launched for each render.
type Config struct {
	Headless          bool
	DisableGPU        bool
	NoSandbox         bool
	DisableDevShm     bool
	UserAgent         string
	ExecPath          string
	MaxParallel       int
	NavigationTimeout time.Duration
}

// Renderer implements scraper.Renderer. Every Render call starts its own
// browser process, owned by the returned document until Close.
type Renderer struct {
	cfg     Config
	limiter chan struct{}
	logger  *zap.Logger
}

// NewChromedp creates a headless renderer backed by chromedp.
func NewChromedp(cfg Config, logger *zap.Logger) (*Renderer, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}
	return &Renderer{
		cfg:     cfg,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Render launches a browser, navigates to rawURL and waits up to timeout for
// readySelector to be present in the DOM.
func (r *Renderer) Render(
	ctx context.Context,
	rawURL string,
	readySelector string,
	timeout time.Duration,
) (scraper.Document, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	doc := newDocument(tabCtx, func() {
		tabCancel()
		allocCancel()
		r.release()
	})

	if err := chromedp.Run(tabCtx); err != nil {
		closeQuietly(doc)
		return nil, fmt.Errorf("%w: %w", scraper.ErrBrowserLaunch, err)
	}

	meta := &responseMeta{}
	chromedp.ListenTarget(tabCtx, meta.captureEvent)

	if err := r.navigate(tabCtx, rawURL); err != nil {
		closeQuietly(doc)
		return nil, err
	}
	if err := waitReady(tabCtx, readySelector, timeout); err != nil {
		closeQuietly(doc)
		return nil, err
	}

	r.logger.Debug("page rendered",
		zap.String("url", rawURL),
		zap.Int("status", meta.statusCode()),
		zap.String("ready_selector", readySelector),
	)
	return doc, nil
}

func (r *Renderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.cfg.Headless),
		chromedp.Flag("disable-gpu", r.cfg.DisableGPU),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	if r.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.cfg.DisableDevShm {
		opts = append(opts, chromedp.Flag("disable-dev-shm-usage", true))
	}
	if r.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ExecPath))
	}
	return opts
}

func (r *Renderer) navigate(tabCtx context.Context, rawURL string) error {
	navCtx, cancel := context.WithTimeout(tabCtx, r.navTimeout())
	defer cancel()

	if err := chromedp.Run(navCtx, r.networkSetupAction(), chromedp.Navigate(rawURL)); err != nil {
		return fmt.Errorf("%w: %s: %w", scraper.ErrNavigation, rawURL, err)
	}
	return nil
}

func (r *Renderer) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if r.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(r.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

func waitReady(tabCtx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %q after %s", scraper.ErrRenderTimeout, selector, timeout)
	}
	return fmt.Errorf("wait ready %q: %w", selector, err)
}

func (r *Renderer) acquire(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	select {
	case r.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("browser slot wait canceled: %w", ctx.Err())
	}
}

func (r *Renderer) release() {
	if r.limiter == nil {
		return
	}
	select {
	case <-r.limiter:
	default:
	}
}

func (r *Renderer) navTimeout() time.Duration {
	if r.cfg.NavigationTimeout > 0 {
		return r.cfg.NavigationTimeout
	}
	return defaultNavigationTimeout
}

type responseMeta struct {
	mu     sync.Mutex
	status int
}

func (m *responseMeta) captureEvent(ev any) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
		return
	}
	m.mu.Lock()
	if m.status == 0 {
		m.status = int(resp.Response.Status)
	}
	m.mu.Unlock()
}

func (m *responseMeta) statusCode() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func closeQuietly(doc *document) {
	_ = doc.Close() //nolint:errcheck // already returning the primary error
}

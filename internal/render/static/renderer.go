// Package static renders pages without JavaScript: one HTTP GET via colly,
// parsed with goquery.
package static

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/company-scraper/internal/scraper"
)

// Config controls collector behavior.
type Config struct {
	UserAgent     string
	RespectRobots bool
	Timeout       time.Duration
}

// Renderer implements scraper.Renderer using the Colly collector.
type Renderer struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Renderer.
func New(cfg Config, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := colly.NewCollector(colly.Async(false), colly.AllowURLRevisit())
	c.WithTransport(newHTTPTransport())
	return &Renderer{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// Render fetches rawURL and fails with scraper.ErrRenderTimeout when
// readySelector is absent; timeout is unused because the body cannot change.
func (r *Renderer) Render(
	ctx context.Context,
	rawURL string,
	readySelector string,
	_ time.Duration,
) (scraper.Document, error) {
	var (
		body     []byte
		fetchErr error
	)
	collector := r.buildCollector()
	r.configureCollectorHooks(collector, &body, &fetchErr)

	if err := r.runCollector(ctx, collector, rawURL, &fetchErr); err != nil {
		return nil, err
	}

	doc, err := NewDocument(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scraper.ErrNavigation, err)
	}
	if readySelector != "" && !doc.Has(readySelector) {
		r.logger.Debug("ready selector absent from static page",
			zap.String("url", rawURL),
			zap.String("selector", readySelector),
		)
		return nil, fmt.Errorf("%w: %q not present", scraper.ErrRenderTimeout, readySelector)
	}
	return doc, nil
}

func (r *Renderer) buildCollector() *colly.Collector {
	collector := r.baseCollector.Clone()
	if r.cfg.UserAgent != "" {
		collector.UserAgent = r.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = !r.cfg.RespectRobots
	collector.SetRequestTimeout(r.timeout())
	return collector
}

func (r *Renderer) configureCollectorHooks(hooks collectorHooks, body *[]byte, fetchErr *error) {
	hooks.OnResponse(func(resp *colly.Response) {
		*body = append([]byte(nil), resp.Body...)
	})
	hooks.OnError(func(_ *colly.Response, err error) {
		*fetchErr = err
	})
}

func (r *Renderer) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: fetch canceled: %w", scraper.ErrNavigation, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: visit %s: %w", scraper.ErrNavigation, url, err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("%w: response %s: %w", scraper.ErrNavigation, url, *fetchErr)
		}
		return nil
	}
}

func (r *Renderer) timeout() time.Duration {
	if r.cfg.Timeout > 0 {
		return r.cfg.Timeout
	}
	return 15 * time.Second
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}

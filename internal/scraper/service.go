package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/company-scraper/internal/metrics"
)

// Config controls the timeouts and selectors used by a Service.
type Config struct {
	ReadyTimeout time.Duration
	EmailTimeout time.Duration
	Profiles     Profiles
}

// Service runs the render-then-extract sequence for one URL per call.
type Service struct {
	renderer Renderer
	cfg      Config
	logger   *zap.Logger
}

// NewService wires a Service around renderer.
func NewService(renderer Renderer, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Scrape renders rawURL and extracts every company card on it. The rendered
// document is closed exactly once on every exit path, panics included.
func (s *Service) Scrape(ctx context.Context, rawURL string) (companies []Company, err error) {
	start := time.Now()
	selectors := s.cfg.Profiles.Resolve(rawURL)
	logger := s.logger.With(zap.String("url", rawURL))

	defer func() {
		if rec := recover(); rec != nil {
			metrics.ObserveScrape(OutcomePanic, 0, time.Since(start))
			logger.Error("scrape panicked", zap.Any("panic", rec))
			panic(rec)
		}
		outcome := Classify(err)
		metrics.ObserveScrape(outcome, len(companies), time.Since(start))
		if err != nil {
			logger.Warn("scrape failed", zap.String("outcome", outcome), zap.Error(err))
			return
		}
		logger.Info("scrape finished",
			zap.Int("records", len(companies)),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	doc, err := s.renderer.Render(ctx, rawURL, selectors.ReadySelector(), s.cfg.ReadyTimeout)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", rawURL, err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			logger.Warn("failed to close document", zap.Error(cerr))
		}
	}()

	extractor := NewExtractor(selectors, s.cfg.EmailTimeout, logger.Named("extractor"))
	companies, err = extractor.Extract(ctx, doc, rawURL)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}
	for _, c := range companies {
		if c.Email == "" {
			metrics.ObserveEmailMissing()
		}
	}
	return companies, nil
}

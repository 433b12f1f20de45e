package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/company-scraper/internal/api"
	"github.com/JakeFAU/company-scraper/internal/config"
	"github.com/JakeFAU/company-scraper/internal/logging"
	"github.com/JakeFAU/company-scraper/internal/metrics"
	"github.com/JakeFAU/company-scraper/internal/render/headless"
	"github.com/JakeFAU/company-scraper/internal/render/static"
	"github.com/JakeFAU/company-scraper/internal/scraper"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "", "Path to config file")
	target := flag.String("url", "", "Scrape a single URL, print JSON to stdout, and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		return 1
	}
	defer func() {
		if syncErr := logging.Sync(logger); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer, err := buildRenderer(cfg, logger.Named("render"))
	if err != nil {
		logger.Error("renderer init failed", zap.Error(err))
		return 1
	}
	svc := scraper.NewService(renderer, cfg.ScraperConfig(), logger.Named("scraper"))

	if *target != "" {
		return scrapeOnce(ctx, svc, *target, os.Stdout, logger)
	}
	return serve(ctx, stop, cfg, svc, logger)
}

func buildRenderer(cfg config.Config, logger *zap.Logger) (scraper.Renderer, error) {
	switch cfg.Render.Mode {
	case config.ModeStatic:
		logger.Info("using static renderer")
		return static.New(static.Config{
			UserAgent:     cfg.Browser.UserAgent,
			RespectRobots: cfg.Static.RespectRobots,
			Timeout:       cfg.Render.NavigationTimeout,
		}, logger.Named("static")), nil
	default:
		renderer, err := headless.NewChromedp(headless.Config{
			Headless:          cfg.Browser.Headless,
			DisableGPU:        cfg.Browser.DisableGPU,
			NoSandbox:         cfg.Browser.NoSandbox,
			DisableDevShm:     cfg.Browser.DisableDevShm,
			UserAgent:         cfg.Browser.UserAgent,
			ExecPath:          cfg.Browser.ExecPath,
			MaxParallel:       cfg.Browser.MaxParallel,
			NavigationTimeout: cfg.Render.NavigationTimeout,
		}, logger.Named("headless"))
		if err != nil {
			return nil, fmt.Errorf("init headless renderer: %w", err)
		}
		return renderer, nil
	}
}

func scrapeOnce(ctx context.Context, svc *scraper.Service, target string, out io.Writer, logger *zap.Logger) int {
	companies, err := svc.Scrape(ctx, target)
	if err != nil {
		logger.Error("scrape failed", zap.String("url", target), zap.Error(err))
		return 1
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(companies); err != nil {
		logger.Error("encode result failed", zap.Error(err))
		return 1
	}
	return 0
}

func serve(ctx context.Context, stop context.CancelFunc, cfg config.Config, svc *scraper.Service, logger *zap.Logger) int {
	apiServer := api.NewServer(svc, cfg.Server.RequestTimeout, logger.Named("api"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	failed := make(chan struct{})
	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			close(failed)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")

	select {
	case <-failed:
		return 1
	default:
		return 0
	}
}

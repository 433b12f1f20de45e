package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/company-scraper/internal/scraper"
)

type fakeScraper struct {
	companies []scraper.Company
	err       error
	panicMsg  string
	gotURL    string
	deadline  bool
}

func (f *fakeScraper) Scrape(ctx context.Context, target string) ([]scraper.Company, error) {
	f.gotURL = target
	_, f.deadline = ctx.Deadline()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.companies, f.err
}

func newTestServer(svc Scraper) *Server {
	return NewServer(svc, time.Minute, zap.NewNop())
}

func scrapeRequest(path, target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path+"?url="+url.QueryEscape(target), nil)
}

func TestServer_Scrape_ReturnsRecords(t *testing.T) {
	t.Parallel()

	const seed = "https://seed.example/list"
	svc := &fakeScraper{companies: []scraper.Company{
		{Name: "Acme Corp", SourceURL: seed, Email: "info@acme.example"},
		{Name: "Beta LLC", SourceURL: seed, Email: ""},
	}}
	rec := httptest.NewRecorder()

	newTestServer(svc).Handler().ServeHTTP(rec, scrapeRequest("/api/scrape", seed))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, seed, svc.gotURL)
	require.True(t, svc.deadline, "expected request timeout to bound the scrape")
	require.JSONEq(t, `[
		{"name":"Acme Corp","sourceUrl":"https://seed.example/list","email":"info@acme.example"},
		{"name":"Beta LLC","sourceUrl":"https://seed.example/list","email":""}
	]`, rec.Body.String())
}

func TestServer_Scrape_EmptyResultIsArray(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestServer(&fakeScraper{}).Handler().ServeHTTP(rec, scrapeRequest("/api/scrape", "https://x.example"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []scraper.Company
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body)
	require.Empty(t, body)
}

func TestServer_Scrape_FailuresCollapseTo500(t *testing.T) {
	t.Parallel()

	failures := []error{
		fmt.Errorf("render: %w", scraper.ErrRenderTimeout),
		fmt.Errorf("card 0: %w", scraper.ErrElementNotFound),
		fmt.Errorf("%w: no chrome", scraper.ErrBrowserLaunch),
		fmt.Errorf("%w: dns", scraper.ErrNavigation),
	}
	for _, failure := range failures {
		t.Run(scraper.Classify(failure), func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer(&fakeScraper{err: failure}).Handler().
				ServeHTTP(rec, scrapeRequest("/api/scrape", "https://x.example"))

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			require.Empty(t, rec.Body.String())
		})
	}
}

func TestServer_Scrape_MissingURL(t *testing.T) {
	t.Parallel()

	svc := &fakeScraper{}
	rec := httptest.NewRecorder()
	newTestServer(svc).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Empty(t, svc.gotURL)
}

func TestServer_ScrapeJSAlias(t *testing.T) {
	t.Parallel()

	svc := &fakeScraper{companies: []scraper.Company{{Name: "Acme Corp", SourceURL: "u"}}}
	rec := httptest.NewRecorder()
	newTestServer(svc).Handler().ServeHTTP(rec, scrapeRequest("/api/scrape-js", "u"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Acme Corp")
}

func TestServer_PanicRecovered(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newTestServer(&fakeScraper{panicMsg: "boom"}).Handler().
		ServeHTTP(rec, scrapeRequest("/api/scrape", "https://x.example"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestServer_RequestIDHeader(t *testing.T) {
	t.Parallel()

	server := newTestServer(&fakeScraper{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, "caller-id", rec.Header().Get("X-Request-ID"))
}

func TestServer_HealthEndpoints(t *testing.T) {
	t.Parallel()

	server := newTestServer(&fakeScraper{})
	for path, want := range map[string]string{"/healthz": "ok", "/readyz": "ready"} {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Contains(t, rec.Body.String(), want, path)
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	server := newTestServer(&fakeScraper{})
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, scrapeRequest("/api/scrape", "https://x.example"))

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestServer_NoTimeoutWhenDisabled(t *testing.T) {
	t.Parallel()

	svc := &fakeScraper{}
	rec := httptest.NewRecorder()
	NewServer(svc, 0, nil).Handler().ServeHTTP(rec, scrapeRequest("/api/scrape", "u"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, svc.deadline)
}

// Package main hosts the company scraper entrypoint.
//
// Request flow: GET /api/scrape?url= reaches internal/api.Server, which calls
// scraper.Service.Scrape. The service resolves the selector profile for the
// URL host, asks the configured Renderer for a document (a fresh headless
// Chrome per request, or a colly fetch in static mode), extracts one record
// per card, and closes the document before returning. Every failure becomes a
// bare 500; the failure kind is only visible in logs and the
// scraper_requests_total{outcome} metric.
//
// Configuration comes from an optional YAML file (-config) overlaid with
// SCRAPER_* environment variables, e.g. SCRAPER_SERVER_PORT,
// SCRAPER_RENDER_READY_TIMEOUT=10s, SCRAPER_RENDER_EMAIL_TIMEOUT=3s,
// SCRAPER_RENDER_MODE=static, SCRAPER_BROWSER_NO_SANDBOX=true.
//
// Passing -url runs one scrape, prints the JSON array to stdout and exits
// non-zero on failure instead of starting the server.
package main

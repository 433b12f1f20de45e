// Package api hosts the HTTP server, middleware, and handlers. Routes:
//   - GET /api/scrape?url= (alias /api/scrape-js) returns the extracted companies
//     as a JSON array; any scrape failure is a bare 500.
//   - GET /healthz and /readyz for probes.
//   - GET /metrics for Prometheus scraping.
package api

package scraper

import (
	"context"
	"time"
)

// Renderer loads a URL and blocks until readySelector matches or timeout elapses.
// The returned Document owns browser resources and must be closed by the caller.
type Renderer interface {
	Render(ctx context.Context, url string, readySelector string, timeout time.Duration) (Document, error)
}

// Document is a rendered, queryable page.
type Document interface {
	// QueryAll returns every element matching selector in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	Close() error
}

// Element is a node inside a Document.
type Element interface {
	// Query returns the first descendant matching selector, or ErrElementNotFound.
	Query(ctx context.Context, selector string) (Element, error)
	// WaitFor blocks until a descendant matches selector or ctx is done.
	WaitFor(ctx context.Context, selector string) (Element, error)
	Text(ctx context.Context) (string, error)
	Attr(name string) (string, bool)
}

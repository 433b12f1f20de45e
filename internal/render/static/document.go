package static

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/company-scraper/internal/scraper"
)

// Document adapts a parsed goquery document to scraper.Document.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses HTML from r.
func NewDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseHTML parses an HTML string.
func ParseHTML(html string) (*Document, error) {
	return NewDocument(strings.NewReader(html))
}

// Has reports whether selector matches anything in the document.
func (d *Document) Has(selector string) bool {
	return d.doc.Find(selector).Length() > 0
}

// QueryAll returns every match in document order.
func (d *Document) QueryAll(ctx context.Context, selector string) ([]scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches := d.doc.Find(selector)
	out := make([]scraper.Element, 0, matches.Length())
	matches.Each(func(_ int, s *goquery.Selection) {
		out = append(out, element{sel: s})
	})
	return out, nil
}

// Close is a no-op; a parsed document holds no external resources.
func (d *Document) Close() error {
	return nil
}

type element struct {
	sel *goquery.Selection
}

func (e element) Query(ctx context.Context, selector string) (scraper.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	match := e.sel.Find(selector).First()
	if match.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", scraper.ErrElementNotFound, selector)
	}
	return element{sel: match}, nil
}

// WaitFor does not poll: a static document never changes, so absence is final.
func (e element) WaitFor(ctx context.Context, selector string) (scraper.Element, error) {
	return e.Query(ctx, selector)
}

func (e element) Text(_ context.Context) (string, error) {
	return e.sel.Text(), nil
}

func (e element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

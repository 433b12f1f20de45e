package scraper_test

import (
	"context"
	"fmt"
	"time"

	"github.com/JakeFAU/company-scraper/internal/scraper"
)

// fakeRenderer hands out a fixed document or error and records the call.
type fakeRenderer struct {
	doc       scraper.Document
	err       error
	gotURL    string
	gotReady  string
	gotWithin time.Duration
}

func (f *fakeRenderer) Render(
	_ context.Context,
	url string,
	readySelector string,
	timeout time.Duration,
) (scraper.Document, error) {
	f.gotURL = url
	f.gotReady = readySelector
	f.gotWithin = timeout
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

// countingDoc wraps a document and counts Close calls.
type countingDoc struct {
	scraper.Document
	closes int
}

func (c *countingDoc) Close() error {
	c.closes++
	return c.Document.Close()
}

// panicDoc panics during extraction.
type panicDoc struct {
	closes int
}

func (p *panicDoc) QueryAll(context.Context, string) ([]scraper.Element, error) {
	panic("dom exploded")
}

func (p *panicDoc) Close() error {
	p.closes++
	return nil
}

// slowMailCard has name and website elements but its mail-link never shows up.
type slowMailCard struct {
	name string
}

func (c slowMailCard) Query(_ context.Context, selector string) (scraper.Element, error) {
	switch selector {
	case ".company-name":
		return textElement{text: c.name}, nil
	case "a.website":
		return textElement{attrs: map[string]string{"href": "https://slow.example"}}, nil
	}
	return nil, fmt.Errorf("%w: %s", scraper.ErrElementNotFound, selector)
}

func (slowMailCard) WaitFor(ctx context.Context, _ string) (scraper.Element, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowMailCard) Text(context.Context) (string, error) { return "", nil }

func (slowMailCard) Attr(string) (string, bool) { return "", false }

type textElement struct {
	text  string
	attrs map[string]string
}

func (e textElement) Query(_ context.Context, selector string) (scraper.Element, error) {
	return nil, fmt.Errorf("%w: %s", scraper.ErrElementNotFound, selector)
}

func (e textElement) WaitFor(ctx context.Context, selector string) (scraper.Element, error) {
	return e.Query(ctx, selector)
}

func (e textElement) Text(context.Context) (string, error) { return e.text, nil }

func (e textElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

type cardsDoc struct {
	cards []scraper.Element
}

func (d cardsDoc) QueryAll(context.Context, string) ([]scraper.Element, error) {
	return d.cards, nil
}

func (cardsDoc) Close() error { return nil }

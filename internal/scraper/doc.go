// Package scraper maps rendered listing pages to Company records.
//
// A scrape is two steps run back to back: a Renderer loads the page and waits
// for the ready selector, then the Extractor walks every card element in
// document order. Renderers live under internal/render; this package only
// depends on the Document and Element abstractions they return.
package scraper

package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const mailtoPrefix = "mailto:"

// Extractor maps card elements to Company records.
type Extractor struct {
	selectors    Selectors
	emailTimeout time.Duration
	logger       *zap.Logger
}

// NewExtractor builds an Extractor bound to selectors.
func NewExtractor(selectors Selectors, emailTimeout time.Duration, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		selectors:    selectors,
		emailTimeout: emailTimeout,
		logger:       logger,
	}
}

// Extract returns one Company per card in document order. Any card missing a
// required element fails the whole extraction; a missing mail-link does not.
func (e *Extractor) Extract(ctx context.Context, doc Document, sourceURL string) ([]Company, error) {
	cards, err := doc.QueryAll(ctx, e.selectors.Card)
	if err != nil {
		return nil, fmt.Errorf("query cards %q: %w", e.selectors.Card, err)
	}

	out := make([]Company, 0, len(cards))
	for i, card := range cards {
		company, err := e.extractCard(ctx, card, sourceURL)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		out = append(out, company)
	}
	return out, nil
}

func (e *Extractor) extractCard(ctx context.Context, card Element, sourceURL string) (Company, error) {
	nameEl, err := card.Query(ctx, e.selectors.Name)
	if err != nil {
		return Company{}, fmt.Errorf("name %q: %w", e.selectors.Name, err)
	}
	name, err := nameEl.Text(ctx)
	if err != nil {
		return Company{}, fmt.Errorf("name text: %w", err)
	}

	websiteEl, err := card.Query(ctx, e.selectors.Website)
	if err != nil {
		return Company{}, fmt.Errorf("website %q: %w", e.selectors.Website, err)
	}
	// The website lookup stays required, but its href is not emitted.
	website, _ := websiteEl.Attr("href")

	email, err := e.lookupEmail(ctx, card)
	if err != nil {
		return Company{}, err
	}

	e.logger.Debug("card extracted",
		zap.String("name", normalizeText(name)),
		zap.String("website", website),
		zap.Bool("has_email", email != ""),
	)

	return Company{
		Name:      normalizeText(name),
		SourceURL: sourceURL,
		Email:     email,
	}, nil
}

// lookupEmail waits up to emailTimeout for a nested mail-link. Only the lookup
// timing out or finding nothing is recovered; cancellation of ctx propagates.
func (e *Extractor) lookupEmail(ctx context.Context, card Element) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, e.emailTimeout)
	defer cancel()

	link, err := card.WaitFor(waitCtx, e.selectors.Email)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("email lookup: %w", ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, ErrElementNotFound) ||
			errors.Is(err, ErrEmailLookupTimeout) {
			return "", nil
		}
		return "", fmt.Errorf("email lookup: %w", err)
	}
	href, _ := link.Attr("href")
	return strings.TrimPrefix(href, mailtoPrefix), nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package scraper

import (
	"context"
	"errors"
)

var (
	// ErrRenderTimeout means the ready selector never appeared in time.
	ErrRenderTimeout = errors.New("render timeout")
	// ErrElementNotFound means a required element is absent from a card.
	ErrElementNotFound = errors.New("element not found")
	// ErrEmailLookupTimeout means no mail-link appeared within the email timeout.
	// The extractor recovers from it locally.
	ErrEmailLookupTimeout = errors.New("email lookup timeout")
	// ErrBrowserLaunch means the automation engine failed to start.
	ErrBrowserLaunch = errors.New("browser launch failed")
	// ErrNavigation means the page could not be loaded at all.
	ErrNavigation = errors.New("navigation failed")
)

// Outcome labels returned by Classify.
const (
	OutcomeSuccess         = "success"
	OutcomeRenderTimeout   = "render_timeout"
	OutcomeElementNotFound = "element_not_found"
	OutcomeBrowserLaunch   = "browser_launch"
	OutcomeNavigation      = "navigation"
	OutcomeCanceled        = "canceled"
	OutcomePanic           = "panic"
	OutcomeUnknown         = "unknown"
)

// Classify maps err to a stable outcome label for logs and metrics.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrRenderTimeout):
		return OutcomeRenderTimeout
	case errors.Is(err, ErrElementNotFound):
		return OutcomeElementNotFound
	case errors.Is(err, ErrBrowserLaunch):
		return OutcomeBrowserLaunch
	case errors.Is(err, ErrNavigation):
		return OutcomeNavigation
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	default:
		return OutcomeUnknown
	}
}

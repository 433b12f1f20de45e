package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err      error
		expected string
	}{
		{nil, OutcomeSuccess},
		{fmt.Errorf("render: %w", ErrRenderTimeout), OutcomeRenderTimeout},
		{fmt.Errorf("card 0: %w", ErrElementNotFound), OutcomeElementNotFound},
		{fmt.Errorf("%w: exec not found", ErrBrowserLaunch), OutcomeBrowserLaunch},
		{fmt.Errorf("%w: dns", ErrNavigation), OutcomeNavigation},
		{fmt.Errorf("wait: %w", context.Canceled), OutcomeCanceled},
		{errors.New("weird"), OutcomeUnknown},
	}
	for _, tc := range testCases {
		if got := Classify(tc.err); got != tc.expected {
			t.Errorf("Classify(%v) = %q; want %q", tc.err, got, tc.expected)
		}
	}
}

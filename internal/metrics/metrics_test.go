package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if scrapeRequestsTotal == nil || scrapeRecordsTotal == nil ||
		httpRequestsTotal == nil || httpRequestDurationSeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveScrape(t *testing.T) {
	Init()
	beforeOK := testutil.ToFloat64(scrapeRequestsTotal.WithLabelValues("success"))
	beforeRecords := testutil.ToFloat64(scrapeRecordsTotal)

	ObserveScrape("success", 3, 250*time.Millisecond)
	ObserveScrape("render_timeout", 0, 10*time.Second)

	if got := testutil.ToFloat64(scrapeRequestsTotal.WithLabelValues("success")) - beforeOK; got != 1 {
		t.Errorf("expected one success observation, got %f", got)
	}
	if got := testutil.ToFloat64(scrapeRecordsTotal) - beforeRecords; got != 3 {
		t.Errorf("expected 3 records counted, got %f", got)
	}
	if val := testutil.CollectAndCount(scrapeDurationSeconds); val < 2 {
		t.Errorf("expected duration series for both outcomes, got %d", val)
	}
}

func TestObserveEmailMissing(t *testing.T) {
	Init()
	before := testutil.ToFloat64(scrapeEmailMissingTotal)
	ObserveEmailMissing()
	if got := testutil.ToFloat64(scrapeEmailMissingTotal) - before; got != 1 {
		t.Errorf("expected email-missing counter to grow by 1, got %f", got)
	}
}

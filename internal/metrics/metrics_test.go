package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSuggestion(t *testing.T) {
	before := testutil.ToFloat64(SuggestionsTotal.WithLabelValues("soup", OutcomeOK))
	RecordSuggestion("soup", OutcomeOK, time.Millisecond)
	after := testutil.ToFloat64(SuggestionsTotal.WithLabelValues("soup", OutcomeOK))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestRecordSnapshot(t *testing.T) {
	RecordSnapshot(42, time.Second)
	if got := testutil.ToFloat64(CorpusEntries); got != 42 {
		t.Errorf("CorpusEntries = %v", got)
	}
}

func TestRecordReload(t *testing.T) {
	okBefore := testutil.ToFloat64(CorpusReloadsTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(CorpusReloadsTotal.WithLabelValues("error"))
	RecordReload(nil)
	RecordReload(errors.New("boom"))
	if got := testutil.ToFloat64(CorpusReloadsTotal.WithLabelValues("ok")); got != okBefore+1 {
		t.Errorf("ok reloads = %v", got)
	}
	if got := testutil.ToFloat64(CorpusReloadsTotal.WithLabelValues("error")); got != errBefore+1 {
		t.Errorf("error reloads = %v", got)
	}
}

func TestRecordProviderRequest(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("cache_hit"))
	RecordProviderRequest("cache_hit", 0)
	if got := testutil.ToFloat64(ProviderRequestsTotal.WithLabelValues("cache_hit")); got != before+1 {
		t.Errorf("cache_hit = %v", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest("GET", "/health", "200", 5*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/health", "200")); got < 1 {
		t.Errorf("api requests = %v", got)
	}
}

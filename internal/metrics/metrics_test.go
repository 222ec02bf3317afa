package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFetchCountsOutcomes(t *testing.T) {
	m := New()
	m.ObserveFetch("cast", 3, nil)
	m.ObserveFetch("cast", 1, errors.New("boom"))

	if got := testutil.ToFloat64(m.fetches.WithLabelValues("cast", OutcomeSuccess)); got != 1 {
		t.Fatalf("success fetches = %v", got)
	}
	if got := testutil.ToFloat64(m.fetches.WithLabelValues("cast", OutcomeError)); got != 1 {
		t.Fatalf("error fetches = %v", got)
	}
	if got := testutil.ToFloat64(m.fetched.WithLabelValues("cast")); got != 4 {
		t.Fatalf("fetched characters = %v", got)
	}
}

func TestObservePublish(t *testing.T) {
	m := New()
	m.ObservePublish("cast", nil)
	m.ObservePublish("cast", nil)
	m.ObservePublish("cast", errors.New("sqs down"))

	if got := testutil.ToFloat64(m.published.WithLabelValues("cast")); got != 2 {
		t.Fatalf("published = %v", got)
	}
	if got := testutil.ToFloat64(m.publishFailures.WithLabelValues("cast")); got != 1 {
		t.Fatalf("failures = %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("x", 1, nil)
	m.ObservePublish("x", nil)
	m.ObservePass(time.Second)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObservePass(250 * time.Millisecond)
	m.ObserveFetch("all", 20, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"character_harvester_pass_duration_seconds_count 1",
		`character_harvester_characters_fetched_total{provider="all"} 20`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, body)
		}
	}
}

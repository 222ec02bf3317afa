package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "character_harvester"

// Outcome labels for fetch counters.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups the harvester's prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	fetches         *prometheus.CounterVec
	fetched         *prometheus.CounterVec
	published       *prometheus.CounterVec
	publishFailures *prometheus.CounterVec
	passDuration    prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fetches_total",
			Help:      "Provider fetch attempts by outcome.",
		}, []string{"provider", "outcome"}),
		fetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "characters_fetched_total",
			Help:      "Characters returned by provider fetches.",
		}, []string{"provider"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "characters_published_total",
			Help:      "Character events delivered to at least one publisher.",
		}, []string{"provider"}),
		publishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Character events that failed on at least one publisher.",
		}, []string{"provider"}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a full harvest pass.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
	m.registry.MustRegister(m.fetches, m.fetched, m.published, m.publishFailures, m.passDuration)
	return m
}

// ObserveFetch records one provider fetch. Nil receivers are ignored.
func (m *Metrics) ObserveFetch(provider string, count int, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.fetches.WithLabelValues(provider, outcome).Inc()
	m.fetched.WithLabelValues(provider).Add(float64(count))
}

// ObservePublish records one event delivery result.
func (m *Metrics) ObservePublish(provider string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.publishFailures.WithLabelValues(provider).Inc()
		return
	}
	m.published.WithLabelValues(provider).Inc()
}

// ObservePass records the duration of a harvest pass.
func (m *Metrics) ObservePass(d time.Duration) {
	if m == nil {
		return
	}
	m.passDuration.Observe(d.Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a /metrics listener on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

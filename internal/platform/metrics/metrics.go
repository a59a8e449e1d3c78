// Package metrics provides Prometheus metrics for the tick ingestion.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tick_backend/internal/feature/ticks/usecase"
)

const namespace = "tick_ingest"

// IngestMetrics records ingestion events. It implements usecase.Recorder.
type IngestMetrics struct {
	pagesFetched     *prometheus.CounterVec
	ticksFetched     prometheus.Counter
	fetchFailures    *prometheus.CounterVec
	ticksPersisted   prometheus.Counter
	activeSecurities prometheus.Gauge
	securities       *prometheus.CounterVec
	securityDuration *prometheus.HistogramVec
}

var _ usecase.Recorder = (*IngestMetrics)(nil)

// NewIngestMetrics creates the collectors and registers them with reg.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	m := &IngestMetrics{
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Non-empty pages received from the quote source.",
		}, []string{"isin"}),
		ticksFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_fetched_total",
			Help:      "Normalized ticks received from the quote source.",
		}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Failed page fetch attempts.",
		}, []string{"isin"}),
		ticksPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_persisted_total",
			Help:      "Ticks upserted into the store.",
		}),
		activeSecurities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_securities",
			Help:      "Securities currently being ingested.",
		}),
		securities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "securities_total",
			Help:      "Settled securities by outcome.",
		}, []string{"outcome"}),
		securityDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "security_duration_seconds",
			Help:      "Time to ingest one security.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.pagesFetched,
		m.ticksFetched,
		m.fetchFailures,
		m.ticksPersisted,
		m.activeSecurities,
		m.securities,
		m.securityDuration,
	)
	return m
}

func (m *IngestMetrics) PageFetched(isin string, ticks int) {
	m.pagesFetched.WithLabelValues(isin).Inc()
	m.ticksFetched.Add(float64(ticks))
}

func (m *IngestMetrics) FetchFailed(isin string) {
	m.fetchFailures.WithLabelValues(isin).Inc()
}

func (m *IngestMetrics) TicksPersisted(n int) {
	m.ticksPersisted.Add(float64(n))
}

func (m *IngestMetrics) SecurityStarted() {
	m.activeSecurities.Inc()
}

func (m *IngestMetrics) SecurityFinished(outcome string, elapsed time.Duration) {
	m.activeSecurities.Dec()
	m.securities.WithLabelValues(outcome).Inc()
	m.securityDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// StartMetricsServer serves g on addr at path until the returned server is shut down.
// Listen errors other than http.ErrServerClosed are sent to errc.
func StartMetricsServer(addr, path string, g prometheus.Gatherer, errc chan<- error) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	return srv
}

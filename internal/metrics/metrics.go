package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

type ServerMetrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	OrdersCreated prometheus.Counter
	// IngestRows counts batch rows by kind (users/products) and outcome.
	IngestRows *prometheus.CounterVec
}

// NewServerMetrics registers the collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	m := &ServerMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "route"}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders created through the API.",
		}),
		IngestRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_rows_total",
			Help:      "Batch rows processed, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(m.Requests, m.LatencyMS, m.OrdersCreated, m.IngestRows)
	return m
}

// ObserveIngest records the outcome counts of one batch run.
func (m *ServerMetrics) ObserveIngest(kind string, ok, failed int) {
	if m == nil {
		return
	}
	m.IngestRows.WithLabelValues(kind, "ok").Add(float64(ok))
	m.IngestRows.WithLabelValues(kind, "error").Add(float64(failed))
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

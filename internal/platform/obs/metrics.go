package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a dedicated registry.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	Quotes          *prometheus.CounterVec
	RoutesEvaluated prometheus.Histogram
	CacheLookups    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"method", "route"},
		),
		Quotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "delivery_quotes_total", Help: "Delivery quote requests by outcome."},
			[]string{"outcome"},
		),
		RoutesEvaluated: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: "delivery_routes_evaluated", Help: "Candidate routes priced per quote.", Buckets: []float64{1, 2, 6, 24, 120, 720, 5040, 40320}},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "quote_cache_lookups_total", Help: "Quote cache lookups by result."},
			[]string{"result"},
		),
	}

	m.Registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.Quotes,
		m.RoutesEvaluated,
		m.CacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ObserveQuote(outcome string, evaluated int) {
	if m == nil {
		return
	}
	m.Quotes.WithLabelValues(outcome).Inc()
	if evaluated > 0 {
		m.RoutesEvaluated.Observe(float64(evaluated))
	}
}

func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

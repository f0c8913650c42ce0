package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus instruments. They live on a private
// registry so several servers can run in one process (tests).
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	records  *prometheus.GaugeVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_api_requests_total",
				Help: "API requests by resource, method and status code.",
			}, []string{"resource", "method", "status"}),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_api_request_duration_seconds",
				Help:    "API request latency by resource and method.",
				Buckets: prometheus.DefBuckets,
			}, []string{"resource", "method"}),
		records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "backoffice_records",
				Help: "Stored records per resource.",
			}, []string{"resource"}),
	}
	m.registry.MustRegister(m.requests, m.latency, m.records)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// instrument records every API request once routing has resolved the
// resource parameter.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		res := chi.URLParam(r, "resource")
		if res == "" {
			res = "unknown"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(res, r.Method, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(res, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Package metrics exposes Prometheus metrics for conversions and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics. It satisfies
// lunar.Observer so the converter can report fallbacks.
type Collector struct {
	conversions  prometheus.Counter
	fallbacks    prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		conversions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "amlich_conversions_total",
			Help: "Solar to lunar conversions performed.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "amlich_conversion_fallbacks_total",
			Help: "Conversions that failed and returned the solar date unchanged.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "amlich_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amlich_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.conversions,
		c.fallbacks,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

// RecordConversion counts one conversion attempt.
func (c *Collector) RecordConversion() {
	c.conversions.Inc()
}

// RecordConversionFallback counts one failed conversion.
func (c *Collector) RecordConversionFallback() {
	c.fallbacks.Inc()
}

// RecordHTTPRequest records a finished request.
func (c *Collector) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Package metrics defines the Prometheus collectors of the application.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the application's Prometheus metrics
type Collector struct {
	decisions     *prometheus.CounterVec
	ledgerAppends *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "loan",
				Name:      "decisions_total",
				Help:      "Total number of loan decisions by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		ledgerAppends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "loan",
				Name:      "ledger_appends_total",
				Help:      "Total number of ledger append attempts by result",
			},
			[]string{"result"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "loan",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	if reg != nil {
		reg.MustRegister(c.decisions, c.ledgerAppends, c.httpDuration)
	}
	return c
}

// ObserveDecision counts one decision
func (c *Collector) ObserveDecision(strategy, outcome string) {
	if c == nil {
		return
	}
	c.decisions.WithLabelValues(strategy, outcome).Inc()
}

// ObserveLedgerAppend counts one ledger append attempt
func (c *Collector) ObserveLedgerAppend(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.ledgerAppends.WithLabelValues(result).Inc()
}

// Middleware records request durations labelled by chi route pattern
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(srw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		c.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(srw.statusCode)).Observe(time.Since(start).Seconds())
	})
}

// statusResponseWriter captures the status code written by a handler
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader records the status code
func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

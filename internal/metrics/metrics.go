// Package metrics defines the prometheus collectors for analyses and the
// HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site_analyzer"

// Analysis outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeFetchError = "fetch_error"
	OutcomeError      = "error"
)

// LatencyBuckets are histogram buckets in seconds for page fetches and
// HTTP requests.
var LatencyBuckets = []float64{.05, .1, .25, .5, 1, 2, 4, 8, 15, 30}

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec
	Score              prometheus.Histogram
	FetchSeconds       prometheus.Histogram
	GenerationFailures *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Total number of website analyses by outcome.",
			},
			[]string{"outcome"},
		),
		Score: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "score",
				Help:      "Distribution of final website scores.",
				Buckets:   prometheus.LinearBuckets(1, 1, 10),
			},
		),
		FetchSeconds: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_seconds",
				Help:      "Wall-clock page load time of analyzed sites.",
				Buckets:   LatencyBuckets,
			},
		),
		GenerationFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_failures_total",
				Help:      "Generation tasks that returned a fallback message.",
			},
			[]string{"task"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   LatencyBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveAnalysis records a finished analysis. score and loadSeconds are
// only observed on success.
func (m *Metrics) ObserveAnalysis(outcome string, score int, loadSeconds float64) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.Score.Observe(float64(score))
		m.FetchSeconds.Observe(loadSeconds)
	}
}

// GenerationFailed counts a generation task fallback.
func (m *Metrics) GenerationFailed(task string) {
	if m == nil {
		return
	}
	m.GenerationFailures.WithLabelValues(task).Inc()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and durations labelled by chi route
// pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(rw.statusCode)
		m.HTTPDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	requestsTotal     *prometheus.CounterVec
	latencySeconds    *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	generationsTotal  *prometheus.CounterVec
	evaluationsTotal  *prometheus.CounterVec
	fallbacksTotal    *prometheus.CounterVec
	sessionsCompleted prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the assessment API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillcheck_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillcheck_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillcheck_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		generationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillcheck_generations_total",
			Help: "Challenge generations by mode and source.",
		}, []string{"mode", "source"})

		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillcheck_evaluations_total",
			Help: "Answer evaluations by mode and scoring path.",
		}, []string{"mode", "path"})

		fallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillcheck_fallbacks_total",
			Help: "Generation requests served from the local question bank.",
		}, []string{"mode", "reason"})

		sessionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillcheck_sessions_completed_total",
			Help: "Assessment sessions that reached their terminal state.",
		})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			errorsTotal,
			generationsTotal,
			evaluationsTotal,
			fallbacksTotal,
			sessionsCompleted,
		)
	})
}

// Requests exposes the counter for served requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for served requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// Generations exposes the counter for challenge generations.
func Generations() *prometheus.CounterVec {
	RegisterMetrics()
	return generationsTotal
}

// Evaluations exposes the counter for answer evaluations.
func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// Fallbacks exposes the counter for bank-served generations.
func Fallbacks() *prometheus.CounterVec {
	RegisterMetrics()
	return fallbacksTotal
}

// SessionsCompleted exposes the counter for terminal sessions.
func SessionsCompleted() prometheus.Counter {
	RegisterMetrics()
	return sessionsCompleted
}

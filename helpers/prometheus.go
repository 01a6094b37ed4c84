package helpers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Tracks the number of HTTP requests.",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Tracks the latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	})

	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediaconnect_actions_total",
		Help: "Tracks successful follow, unfollow, like, comment and post actions.",
	}, []string{"action"})
)

func GetRegistery() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestsTotal,
		requestDuration,
		actionsTotal,
	)

	return registry
}

func IncrementRequests() {
	requestsTotal.Inc()
}

func ObserveRequestDuration(time float64) {
	requestDuration.Observe(time)
}

// IncrementAction counts a successful domain action
func IncrementAction(action string) {
	actionsTotal.WithLabelValues(action).Inc()
}

// Metrics is a middleware counting requests and their duration
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		IncrementRequests()

		next.ServeHTTP(w, r)

		ObserveRequestDuration(time.Since(start).Seconds())
	})
}

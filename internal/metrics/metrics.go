// Package metrics exposes Prometheus instrumentation for probe and fetch
// outcomes. Collectors register on the default registry; the hosting
// environment decides whether to scrape them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// ProbesTotal counts tunnel probes by provider and outcome.
	ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tunnelhub",
		Subsystem: "tunnel",
		Name:      "probes_total",
		Help:      "Tunnel probe attempts by provider and outcome.",
	}, []string{"provider", "outcome"})

	// ProbeDuration observes how long each probe took to reach a terminal
	// state. Buckets span spawn failures (milliseconds) through provider
	// timeouts (tens of seconds).
	ProbeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tunnelhub",
		Subsystem: "tunnel",
		Name:      "probe_duration_seconds",
		Help:      "Time from probe start to success, failure, or timeout.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"provider"})

	// FetchTasksTotal counts install tasks by kind and outcome.
	FetchTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tunnelhub",
		Subsystem: "fetch",
		Name:      "tasks_total",
		Help:      "Download and clone tasks by kind and outcome.",
	}, []string{"kind", "outcome"})
)

// OutcomeLabel converts a success flag into the corresponding label value.
func OutcomeLabel(succeeded bool) string {
	if succeeded {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// ObserveProbe records one finished probe.
func ObserveProbe(provider string, succeeded bool, elapsed time.Duration) {
	ProbesTotal.WithLabelValues(provider, OutcomeLabel(succeeded)).Inc()
	ProbeDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveFetch records one finished fetch task.
func ObserveFetch(kind string, succeeded bool) {
	FetchTasksTotal.WithLabelValues(kind, OutcomeLabel(succeeded)).Inc()
}

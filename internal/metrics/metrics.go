// Package metrics exposes search progress as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bartolsthoorn/wavepick/wave"
)

var (
	// Registry is the dedicated Prometheus registry for wavepick.
	Registry = prometheus.NewRegistry()
	// Subproblems counts solved k-subproblems by solver status.
	Subproblems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wavepick_subproblems_total", Help: "Solved k-subproblems by status."},
		[]string{"status"},
	)
	// SubproblemDuration records wall time per k-subproblem in seconds.
	SubproblemDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "wavepick_subproblem_duration_seconds", Help: "k-subproblem solve time in seconds.", Buckets: prometheus.ExponentialBuckets(0.001, 4, 10)},
	)
	// BestRatio is the ratio of the last finished search.
	BestRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "wavepick_best_ratio", Help: "Units per aisle of the best wave of the last search."},
	)
	// Searches counts finished searches by stop reason.
	Searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wavepick_searches_total", Help: "Finished searches by stop reason."},
		[]string{"stopped"},
	)
)

var regOnce sync.Once

// RegisterDefault registers the collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(Subproblems)
		Registry.MustRegister(SubproblemDuration)
		Registry.MustRegister(BestRatio)
		Registry.MustRegister(Searches)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Observer records search progress in the package collectors.
type Observer struct{}

var _ wave.Observer = Observer{}

// ObserveAttempt counts the attempt and records its duration.
func (Observer) ObserveAttempt(a wave.Attempt) {
	Subproblems.WithLabelValues(a.Status.String()).Inc()
	SubproblemDuration.Observe(a.Duration.Seconds())
}

// ObserveResult publishes the final ratio and stop reason.
func (Observer) ObserveResult(r *wave.Result) {
	BestRatio.Set(r.Ratio)
	Searches.WithLabelValues(string(r.Stopped)).Inc()
}

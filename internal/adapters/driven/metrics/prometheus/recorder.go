// Package prometheus records detection metrics with the Prometheus client.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "artemis"

// Outcome label values of oracle calls.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Recorder implements driven.MetricsRecorder on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	verdicts    *prometheus.CounterVec
	failures    *prometheus.CounterVec
	runs        *prometheus.HistogramVec
	training    *prometheus.HistogramVec
	oracleCalls *prometheus.CounterVec
}

// NewRecorder creates a recorder with every collector registered.
// Process and Go runtime collectors are added when withRuntime is true.
func NewRecorder(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "detection",
				Name:      "verdicts_total",
				Help:      "Number of candidate verdicts by language, verdict and source",
			},
			[]string{"language", "verdict", "source"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "detection",
				Name:      "failures_total",
				Help:      "Number of recorded failures by kind",
			},
			[]string{"kind"},
		),
		runs: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "detection",
				Name:      "run_duration_seconds",
				Help:      "Detection run duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"language", "state"},
		),
		training: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "classifier",
				Name:      "training_duration_seconds",
				Help:      "Model training duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"language"},
		),
		oracleCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "oracle",
				Name:      "calls_total",
				Help:      "Number of oracle requests by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
	}

	r.registry.MustRegister(r.verdicts, r.failures, r.runs, r.training, r.oracleCalls)
	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Registry returns the registry the collectors are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns an HTTP handler exposing the registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveVerdict counts one candidate verdict.
func (r *Recorder) ObserveVerdict(language string, verdict domain.FrameworkType, source domain.VerdictSource) {
	r.verdicts.WithLabelValues(language, verdict.String(), string(source)).Inc()
}

// ObserveFailure counts one recorded failure.
func (r *Recorder) ObserveFailure(kind domain.FailureKind) {
	r.failures.WithLabelValues(string(kind)).Inc()
}

// ObserveRun records the duration of a finished run.
func (r *Recorder) ObserveRun(language string, state domain.RunState, d time.Duration) {
	r.runs.WithLabelValues(language, string(state)).Observe(d.Seconds())
}

// ObserveTraining records the duration of a training pass.
func (r *Recorder) ObserveTraining(language string, d time.Duration) {
	r.training.WithLabelValues(language).Observe(d.Seconds())
}

// ObserveOracleCall counts one oracle request.
func (r *Recorder) ObserveOracleCall(op string, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	r.oracleCalls.WithLabelValues(op, outcome).Inc()
}

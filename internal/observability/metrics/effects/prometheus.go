package effectsmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	resolves     prometheus.Counter
	effectCounts prometheus.Histogram
	unknownKinds *prometheus.CounterVec
}

// NewPrometheus registers and returns the effects metrics recorder.
func NewPrometheus(reg prometheus.Registerer) EffectsMetrics {
	factory := promauto.With(reg)
	return &prometheusMetrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "effects_operation_attempts_total",
			Help: "Effects service operation attempts.",
		}, []string{"operation"}),
		successes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "effects_operation_successes_total",
			Help: "Effects service operation successes.",
		}, []string{"operation"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "effects_operation_failures_total",
			Help: "Effects service operation failures.",
		}, []string{"operation"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "effects_operation_duration_seconds",
			Help:    "Effects service operation durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		resolves: factory.NewCounter(prometheus.CounterOpts{
			Name: "effects_resolves_total",
			Help: "Modifier set resolutions.",
		}),
		effectCounts: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "effects_active_per_resolve",
			Help:    "Active effects folded per resolution.",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		}),
		unknownKinds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "effects_unknown_kinds_total",
			Help: "Effects skipped because their kind is not recognized.",
		}, []string{"kind"}),
	}
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordResolve(_ context.Context, effectCount int) {
	m.resolves.Inc()
	m.effectCounts.Observe(float64(effectCount))
}

func (m *prometheusMetrics) RecordUnknownEffectKind(_ context.Context, kind string) {
	m.unknownKinds.WithLabelValues(kind).Inc()
}

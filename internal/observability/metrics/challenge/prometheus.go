package challengemetrics

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

	fusions          *prometheus.CounterVec
	leaderboardSizes prometheus.Histogram
}

// NewPrometheus registers and returns the challenge metrics recorder.
func NewPrometheus(reg prometheus.Registerer) ChallengeMetrics {
	factory := promauto.With(reg)
	return &prometheusMetrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "challenge_operation_attempts_total",
			Help: "Challenge service operation attempts.",
		}, []string{"operation"}),
		successes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "challenge_operation_successes_total",
			Help: "Challenge service operation successes.",
		}, []string{"operation"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "challenge_operation_failures_total",
			Help: "Challenge service operation failures.",
		}, []string{"operation"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "challenge_operation_duration_seconds",
			Help:    "Challenge service operation durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		fusions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "challenge_score_fusions_total",
			Help: "Composite score computations by AI-rating presence.",
		}, []string{"has_ai_rating"}),
		leaderboardSizes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "challenge_leaderboard_candidates",
			Help:    "Candidate entries per leaderboard ranking.",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500},
		}),
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

func (m *prometheusMetrics) RecordFusion(_ context.Context, hasAIRating bool) {
	v := "false"
	if hasAIRating {
		v = "true"
	}
	m.fusions.WithLabelValues(v).Inc()
}

func (m *prometheusMetrics) RecordLeaderboardSize(_ context.Context, entries int) {
	m.leaderboardSizes.Observe(float64(entries))
}

package lootmetrics

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

	rolls      *prometheus.CounterVec
	emptyPools *prometheus.CounterVec
	chestOpens *prometheus.CounterVec
	chestItems *prometheus.HistogramVec
}

// NewPrometheus registers and returns the loot metrics recorder.
func NewPrometheus(reg prometheus.Registerer) LootMetrics {
	factory := promauto.With(reg)
	return &prometheusMetrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loot_operation_attempts_total",
			Help: "Loot service operation attempts.",
		}, []string{"operation"}),
		successes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loot_operation_successes_total",
			Help: "Loot service operation successes.",
		}, []string{"operation"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loot_operation_failures_total",
			Help: "Loot service operation failures.",
		}, []string{"operation"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loot_operation_duration_seconds",
			Help:    "Loot service operation durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		rolls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loot_rolls_total",
			Help: "Resolved loot rolls by pool and final tier.",
		}, []string{"pool", "tier", "upgraded"}),
		emptyPools: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loot_empty_pool_rolls_total",
			Help: "Rolls that resolved to no loot because the pool was exhausted.",
		}, []string{"pool"}),
		chestOpens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loot_chest_opens_total",
			Help: "Chest opens by chest tier.",
		}, []string{"chest_type"}),
		chestItems: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loot_chest_items_yielded",
			Help:    "Items yielded per chest open.",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		}, []string{"chest_type"}),
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

func (m *prometheusMetrics) RecordRoll(_ context.Context, pool, tier string, upgraded bool) {
	up := "false"
	if upgraded {
		up = "true"
	}
	m.rolls.WithLabelValues(pool, tier, up).Inc()
}

func (m *prometheusMetrics) RecordEmptyPool(_ context.Context, pool string) {
	m.emptyPools.WithLabelValues(pool).Inc()
}

func (m *prometheusMetrics) RecordChestOpened(_ context.Context, chestType string, items int) {
	m.chestOpens.WithLabelValues(chestType).Inc()
	m.chestItems.WithLabelValues(chestType).Observe(float64(items))
}

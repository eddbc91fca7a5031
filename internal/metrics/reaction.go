package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReactionMetrics — метрики обработки реакций.
type ReactionMetrics struct {
	ReactionsProcessed *prometheus.CounterVec
	KarmaAdjustments   *prometheus.CounterVec
	ResolveDuration    prometheus.Histogram
}

// NewReactionMetrics создаёт и регистрирует метрики реакций.
func NewReactionMetrics(reg prometheus.Registerer) *ReactionMetrics {
	m := &ReactionMetrics{
		ReactionsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_processed_total",
			Help:      "Total number of reaction events processed, by result.",
		}, []string{"result"}),
		KarmaAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "karma_adjustments_total",
			Help:      "Total number of applied karma changes, by direction.",
		}, []string{"direction"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reaction_resolve_duration_seconds",
			Help:      "Duration of reaction resolution in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}),
	}

	reg.MustRegister(m.ReactionsProcessed, m.KarmaAdjustments, m.ResolveDuration)
	return m
}

// Observe записывает результат одной реакции.
func (m *ReactionMetrics) Observe(result string, direction int, took time.Duration) {
	m.ReactionsProcessed.WithLabelValues(result).Inc()
	m.ResolveDuration.Observe(took.Seconds())
	switch {
	case direction > 0:
		m.KarmaAdjustments.WithLabelValues("up").Inc()
	case direction < 0:
		m.KarmaAdjustments.WithLabelValues("down").Inc()
	}
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
)

// ScoringMetrics tracks sentiment scoring volume and latency.
type ScoringMetrics struct {
	ScoredTotal     *prometheus.CounterVec
	ScoringDuration prometheus.Histogram
}

func NewScoringMetrics(reg prometheus.Registerer) *ScoringMetrics {
	m := &ScoringMetrics{
		ScoredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "scored_total",
			Help:      "Total number of scored texts, by label.",
		}, []string{"label"}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "scoring_duration_seconds",
			Help:      "Time spent scoring a single text.",
			Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}

	reg.MustRegister(m.ScoredTotal, m.ScoringDuration)
	return m
}

func (m *ScoringMetrics) ObserveScore(label sentiment.Label, elapsed time.Duration) {
	m.ScoredTotal.WithLabelValues(label.String()).Inc()
	m.ScoringDuration.Observe(elapsed.Seconds())
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching engine Prometheus metrics.
var (
	CandidatesReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "venturematch",
			Name:      "discovery_candidates_returned",
			Help:      "Number of candidates returned per discovery call",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	CandidatesExcluded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venturematch",
			Name:      "discovery_candidates_excluded_total",
			Help:      "Candidates dropped during retrieval, by reason",
		},
		[]string{"reason"}, // interacted, blocked, seen, scope, threshold, version, data_error
	)

	InteractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venturematch",
			Name:      "interactions_total",
			Help:      "Recorded interactions by action",
		},
		[]string{"action"},
	)

	MatchesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "venturematch",
			Name:      "matches_created_total",
			Help:      "Mutual matches created",
		},
	)
)

var matchingMetricsRegistered bool

// RegisterMatchingMetrics registers matching metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchingMetricsRegistered {
		return
	}
	prometheus.MustRegister(CandidatesReturned)
	prometheus.MustRegister(CandidatesExcluded)
	prometheus.MustRegister(InteractionsTotal)
	prometheus.MustRegister(MatchesCreatedTotal)
	matchingMetricsRegistered = true
}

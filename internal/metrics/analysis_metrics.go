// Package metrics defines analysis-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analysis counter vectors
var (
	PropositionsScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "propositions_scored_total",
		Help:      "Total number of betting propositions emitted by market",
	}, []string{"bet"})

	SignalsDegradedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_degraded_total",
		Help:      "Total number of optional signals dropped because the upstream failed",
	}, []string{"signal"})
)

// Analysis gauge vectors
var (
	ParlayLegs = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "parlay_legs",
		Help:      "Number of legs in the most recent parlay for each tier",
	}, []string{"tier"})

	ParlayProbability = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "parlay_success_probability",
		Help:      "Combined success probability of the most recent parlay for each tier",
	}, []string{"tier"})
)

// RecordProposition records an emitted betting proposition.
func RecordProposition(bet string) {
	PropositionsScoredTotal.WithLabelValues(bet).Inc()
}

// RecordSignalDegraded records an optional signal being dropped.
func RecordSignalDegraded(signal string) {
	SignalsDegradedTotal.WithLabelValues(signal).Inc()
}

// UpdateParlay updates the per-tier parlay gauges.
func UpdateParlay(tier string, legs, probability int) {
	ParlayLegs.WithLabelValues(tier).Set(float64(legs))
	ParlayProbability.WithLabelValues(tier).Set(float64(probability))
}

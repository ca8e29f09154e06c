// Package metrics exposes Prometheus collectors for the receipt
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ParsesTotal counts receipt text parses by strategy and outcome.
	// Outcome is "ok" when at least one item was extracted, "empty"
	// otherwise.
	ParsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "howmuchah_parses_total",
		Help: "Receipt text parses by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	// ItemsExtracted tracks how many line items each parse produced.
	ItemsExtracted = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "howmuchah_items_extracted",
		Help:    "Line items extracted per parse.",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	// ParseDuration measures parse latency in seconds.
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "howmuchah_parse_duration_seconds",
		Help:    "Receipt text parse duration.",
		Buckets: prometheus.DefBuckets,
	})

	// OCRRequestsTotal counts OCR provider calls by outcome.
	OCRRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "howmuchah_ocr_requests_total",
		Help: "OCR provider requests by outcome.",
	}, []string{"outcome"})

	// SettlementsTotal counts settlement computations by outcome.
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "howmuchah_settlements_total",
		Help: "Settlement computations by outcome.",
	}, []string{"outcome"})
)

// ObserveParse records one parse in the counters and histograms.
func ObserveParse(strategy string, itemCount int, seconds float64) {
	outcome := "ok"
	if itemCount == 0 {
		outcome = "empty"
	}
	ParsesTotal.WithLabelValues(strategy, outcome).Inc()
	ItemsExtracted.Observe(float64(itemCount))
	ParseDuration.Observe(seconds)
}

package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Write-path metrics - global only, no unbounded label cardinality
var (
	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "quill_write_queue_depth",
		Help: "Units of work currently waiting in the write queue",
	})
	batchItems = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quill_batch_items",
		Help:    "Distribution of units per committed batch",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})
	batchesCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quill_batches_committed_total",
		Help: "Total batches committed",
	})
	batchesAborted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quill_batches_aborted_total",
		Help: "Total batches rolled back",
	})
)

func init() {
	// registration is eager; harmless when no metrics endpoint is exposed
	prometheus.MustRegister(queueDepth, batchItems, batchesCommitted, batchesAborted)
}

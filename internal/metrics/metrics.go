// Package metrics exposes Prometheus instrumentation for the prfcdc CLI.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters and histograms the CLI updates while
// chunkifying a stream.
type Metrics struct {
	ChunksTotal    *prometheus.CounterVec
	ChunkBytes     prometheus.Histogram
	BytesProcessed prometheus.Counter
	ReadErrors     prometheus.Counter
}

// New registers and returns a Metrics instance against the default
// registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers Metrics against reg, useful for tests that
// need an isolated registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChunksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prfcdc_chunks_total",
				Help: "Total number of chunks emitted, labeled by fingerprint variant.",
			},
			[]string{"variant"},
		),
		ChunkBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "prfcdc_chunk_bytes",
				Help:    "Distribution of emitted chunk sizes in bytes.",
				Buckets: prometheus.ExponentialBuckets(1<<19, 2, 6), // 512KiB .. 16MiB
			},
		),
		BytesProcessed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "prfcdc_bytes_processed_total",
				Help: "Total input bytes read from the source stream.",
			},
		),
		ReadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "prfcdc_read_errors_total",
				Help: "Total source read errors encountered by Chunkify.",
			},
		),
	}
}

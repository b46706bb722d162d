package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestChunksTotalLabeledByVariant(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ChunksTotal.WithLabelValues("poly-only").Inc()
	m.ChunksTotal.WithLabelValues("poly-only").Inc()
	m.ChunksTotal.WithLabelValues("poly+aes128").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChunksTotal.WithLabelValues("poly-only")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChunksTotal.WithLabelValues("poly+aes128")))
}

func TestBytesProcessedAndReadErrorsAccumulate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.BytesProcessed.Add(1024)
	m.BytesProcessed.Add(2048)
	m.ReadErrors.Inc()

	assert.Equal(t, 3072.0, testutil.ToFloat64(m.BytesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadErrors))
}

func TestChunkBytesHistogramObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ChunkBytes.Observe(1 << 20)
	m.ChunkBytes.Observe(2 << 20)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var found bool
	for _, fam := range families {
		if fam.GetName() != "prfcdc_chunk_bytes" {
			continue
		}
		found = true
		hist := fam.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), hist.GetSampleCount())
	}
	assert.True(t, found, "prfcdc_chunk_bytes histogram not registered")
}

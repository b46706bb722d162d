package prfcdc

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// MinChunkSize is the minimum size of every non-final emitted chunk.
const MinChunkSize = 512 * 1024

// MaxChunkSize is the maximum size of any emitted chunk; a chunk reaching
// this size is cut unconditionally even without a fingerprint hit.
const MaxChunkSize = 8 * 1024 * 1024

// ReadBufferSize is the size of the internal read buffer ChunkMaker fills
// from its source reader on each pass.
const ReadBufferSize = 1024 * 1024

// primeThreshold is the point at which the skip-hash phase ends and the
// fingerprinter must be primed with the trailing W-1 bytes of the window
// that will back the first eligible Eval() call.
const primeThreshold = MinChunkSize - WindowSize

// Chunk is an emitted piece of the input stream: Index is the absolute
// byte offset of the byte immediately past the chunk's end, and Data is
// the chunk's payload. Ownership of Data transfers to whoever the Sink
// hands it to; ChunkMaker never reads it again.
type Chunk struct {
	Index uint64
	Data  []byte
}

// String renders the chunk as a short human-readable summary.
func (c Chunk) String() string {
	return fmt.Sprintf("Chunk at position %d with %d bytes", c.Index, len(c.Data))
}

// Sink receives each chunk exactly once, in stream order, on the same
// goroutine that called Chunkify.
type Sink func(Chunk)

// ChunkMaker reads a byte stream, drives a Fingerprinter over it, and
// emits bounded chunks to a Sink. One ChunkMaker consumes one stream to
// EOF; it owns its read buffer and in-progress chunk buffer exclusively.
type ChunkMaker struct {
	r    io.Reader
	sink Sink
	fp   Fingerprinter
	log  *logrus.Entry

	discardOnReadErr bool
	onDone           func()
}

// New builds a ChunkMaker over r, keyed by master, emitting chunks to
// sink. The fingerprinter variant defaults to VariantPolyOnly; use
// WithVariant to select Poly+AES128.
func New(master Key, r io.Reader, sink Sink, opts ...Option) *ChunkMaker {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &ChunkMaker{
		r:                r,
		sink:             sink,
		fp:               newFingerprinter(cfg.variant, master),
		log:              cfg.log,
		discardOnReadErr: cfg.discardOnReadErr,
	}
}

// Chunkify reads from the source to EOF, invoking the sink once per
// emitted chunk in order. It returns the first read error encountered (if
// any); by default the chunk accumulated so far is flushed to the sink
// before the error is returned (see WithDiscardOnReadError for the
// alternative policy).
func (cm *ChunkMaker) Chunkify() error {
	if cm.onDone != nil {
		defer cm.onDone()
	}

	buf := make([]byte, ReadBufferSize)
	var chunkData []byte
	var index uint64
	bufStart := 0

	for {
		n, err := io.ReadFull(cm.r, buf[bufStart:])
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			cm.log.WithError(err).Error("prfcdc: read error, aborting chunkify")
			if !cm.discardOnReadErr && len(chunkData) > 0 {
				cm.sink(Chunk{Index: index, Data: chunkData})
			}
			return fmt.Errorf("prfcdc: read from source: %w", err)
		}

		size := bufStart + n
		bufStart = 0

		if size == 0 {
			if len(chunkData) > 0 {
				cm.sink(Chunk{Index: index, Data: chunkData})
			}
			return nil
		}

		// Skip-hash phase: below MinChunkSize, no fingerprinting needed yet.
		if len(chunkData) < primeThreshold {
			if len(chunkData)+size >= primeThreshold {
				remaining := primeThreshold - len(chunkData)
				primeEnd := remaining + WindowSize - 1
				if primeEnd > size {
					// Not enough bytes in this pass to fully prime the
					// window. io.ReadFull only returns a pass this short at
					// end of stream, so the bytes are appended unhashed and
					// the next pass flushes them as the final chunk; no
					// later pass primes the window.
					chunkData = append(chunkData, buf[:size]...)
					index += uint64(size)
					continue
				}

				chunkData = append(chunkData, buf[:primeEnd]...)
				index += uint64(primeEnd)

				for i := remaining; i < primeEnd; i++ {
					cm.fp.Update(buf[i])
				}

				copy(buf, buf[primeEnd:size])
				size -= primeEnd
			} else {
				chunkData = append(chunkData, buf[:size]...)
				index += uint64(size)
				continue
			}
		}

		// Boundary-search phase.
		chunkFound := false
		for i := 0; i < size; i++ {
			index++
			cm.fp.Update(buf[i])

			if len(chunkData)+i+1 == MaxChunkSize || cm.fp.Eval() {
				chunkData = append(chunkData, buf[:i+1]...)
				cm.sink(Chunk{Index: index, Data: chunkData})
				cm.fp.Reset()

				copy(buf, buf[i+1:size])
				bufStart = size - (i + 1)
				chunkData = nil
				chunkFound = true
				break
			}
		}

		if !chunkFound {
			chunkData = append(chunkData, buf[:size]...)
		}
	}
}

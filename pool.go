package prfcdc

import (
	"io"
	"sync"
)

// poolKey identifies a reusable Fingerprinter configuration: constructing
// one means running HKDF twice and, for the AES variants, an AES-128 key
// schedule, so pooling by (Key, Variant) is worth it in high-throughput
// multi-stream scenarios.
type poolKey struct {
	master  Key
	variant Variant
}

// Pool recycles Fingerprinter instances across ChunkMaker runs that share
// the same master key and variant, avoiding repeated key derivation. It
// is safe for concurrent use; each Get/Put pair must be used by a single
// goroutine at a time, since a Fingerprinter itself is not concurrency-safe.
type Pool struct {
	mu    sync.Mutex
	pools map[poolKey]*sync.Pool
}

// NewPool returns an empty Pool ready for use.
func NewPool() *Pool {
	return &Pool{pools: make(map[poolKey]*sync.Pool)}
}

func (p *Pool) poolFor(k poolKey) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	sp, ok := p.pools[k]
	if !ok {
		sp = &sync.Pool{New: func() any { return newFingerprinter(k.variant, k.master) }}
		p.pools[k] = sp
	}
	return sp
}

// Get returns a Fingerprinter for (master, variant), reused from the pool
// if one is available. The returned fingerprinter is reset and ready to
// drive a new stream.
func (p *Pool) Get(master Key, variant Variant) Fingerprinter {
	fp := p.poolFor(poolKey{master: master, variant: variant}).Get().(Fingerprinter)
	fp.Reset()
	return fp
}

// Put returns fp to the pool for the given (master, variant) key. fp must
// not be used again by the caller after this call.
func (p *Pool) Put(master Key, variant Variant, fp Fingerprinter) {
	p.poolFor(poolKey{master: master, variant: variant}).Put(fp)
}

// NewPooled builds a ChunkMaker exactly like New, except its Fingerprinter
// is borrowed from pool and returned to it once Chunkify finishes (either
// by reaching EOF or by returning an error).
func NewPooled(pool *Pool, master Key, r io.Reader, sink Sink, opts ...Option) *ChunkMaker {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	fp := pool.Get(master, cfg.variant)
	return &ChunkMaker{
		r:                r,
		sink:             sink,
		fp:               fp,
		log:              cfg.log,
		discardOnReadErr: cfg.discardOnReadErr,
		onDone:           func() { pool.Put(master, cfg.variant, fp) },
	}
}

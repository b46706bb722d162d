// Package prfcdc provides keyed, content-defined chunking (CDC) using a
// pseudo-random-function (PRF) sliding-window fingerprint over a 64-bit
// Goldilocks prime field, instead of classical unkeyed Rabin or Gear
// hashing.
//
// # Overview
//
// Content-defined chunking splits a byte stream into variable-size chunks
// based on the data itself, so that small edits to the input only change
// the chunks adjacent to the edit. Unlike Rabin or Gear-hash chunkers,
// whose boundaries any observer can predict from the data alone, this
// chunker derives its rolling fingerprint from a secret master key via
// HKDF-SHA256, so chunk boundaries are unpredictable without the key.
//
// # Quick Start
//
//	var key prfcdc.Key
//	if _, err := rand.Read(key[:]); err != nil {
//	    panic(err)
//	}
//
//	cm := prfcdc.New(key, reader, func(c prfcdc.Chunk) {
//	    // process c.Data
//	})
//	if err := cm.Chunkify(); err != nil {
//	    // handle read error
//	}
//
// # Fingerprint variants
//
// Three Fingerprinter implementations share identical key derivation and
// polynomial update, differing only in how Eval() decides a cut:
// VariantPolyOnly reads the raw masked polynomial state; VariantAES and
// VariantAESAlt post-mix the state through AES-128 via two different code
// paths that are provably equivalent. Select one with WithVariant.
//
// # Thread Safety
//
// A ChunkMaker consumes exactly one stream and is not safe for concurrent
// use. Separate goroutines processing separate streams should use
// separate ChunkMakers; Pool recycles the expensive-to-construct
// Fingerprinter state across them.
package prfcdc

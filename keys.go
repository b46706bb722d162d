package prfcdc

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Key is the 32-byte master secret from which all per-fingerprinter
// sub-keys are derived. It is never used directly as a field or cipher
// key; see deriveKeys.
type Key [32]byte

var (
	polyKeyLabel = []byte("chunker-poly-key")
	aesKeyLabel  = []byte("chunker-aes-key")
)

// derivedKeys holds the sub-keys expanded from a master key via
// HKDF-SHA256 with an empty salt, one label per consumer (§3).
type derivedKeys struct {
	poly fieldElem
	aes  [16]byte
}

// deriveKeys expands master into the polynomial key and AES-128 key.
// HKDF-Expand cannot fail for these fixed, small output lengths; a
// failure here is a programmer error (an output length exceeding
// 255*hash-size), not a runtime condition, so we panic rather than
// thread an error through every Fingerprinter constructor.
func deriveKeys(master Key) derivedKeys {
	reader := hkdf.New(sha256.New, master[:], nil, polyKeyLabel)
	var rawPoly [8]byte
	if _, err := io.ReadFull(reader, rawPoly[:]); err != nil {
		invariant("hkdf expand of poly key failed: %s", err)
	}

	aesReader := hkdf.New(sha256.New, master[:], nil, aesKeyLabel)
	var aesKey [16]byte
	if _, err := io.ReadFull(aesReader, aesKey[:]); err != nil {
		invariant("hkdf expand of aes key failed: %s", err)
	}

	return derivedKeys{
		poly: newFieldElem(binary.BigEndian.Uint64(rawPoly[:])),
		aes:  aesKey,
	}
}

package prfcdc

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// WindowSize is the number of trailing bytes (W) the rolling fingerprint
// is computed over.
const WindowSize = 64

// AvgBits is the width of the low-bit cut mask; a cut fires with
// probability 2^-AvgBits under the PRF assumption, giving an expected
// chunk size of 2^AvgBits bytes (1 MiB).
const AvgBits = 20

const maskU64 = (uint64(1) << AvgBits) - 1

// Fingerprinter is the shared capability of the three keyed
// sliding-window fingerprint variants: reset between chunks, update one
// byte at a time, and evaluate whether the current position is a cut
// point. All three share identical key derivation and polynomial update;
// they differ only in how Eval() post-processes the polynomial state.
type Fingerprinter interface {
	Reset()
	Update(b byte)
	Eval() bool
}

// polyCore is the rolling-hash engine shared by every variant: a
// fixed-size ring buffer standing in for the sliding window, plus the
// Horner-form running state. Using a ring buffer with a head index
// instead of a general deque keeps Update branch-light.
type polyCore struct {
	window     [WindowSize]fieldElem
	head       int
	filled     int
	state      fieldElem
	polyKey    fieldElem
	polyKeyPow fieldElem // polyKey^(WindowSize-1)
}

func newPolyCore(poly fieldElem) polyCore {
	return polyCore{
		polyKey:    poly,
		polyKeyPow: poly.pow(WindowSize - 1),
	}
}

func (c *polyCore) reset() {
	c.head = 0
	c.filled = 0
	c.state = 0
}

// update maintains the rolling-hash invariant: after N<=W
// updates, state is the Horner evaluation of the window at polyKey; once
// the window is full, multiplying by polyKey shifts every retained term
// up one power, subtracting old*polyKeyPow cancels the term that would
// otherwise exit as old*polyKey^W, and adding b introduces the new term.
func (c *polyCore) update(b byte) {
	var old fieldElem
	if c.filled == WindowSize {
		old = c.window[c.head]
	} else {
		c.filled++
	}

	next := fieldElem(b)
	c.window[c.head] = next
	c.head++
	if c.head == WindowSize {
		c.head = 0
	}

	c.state = c.state.sub(old.mul(c.polyKeyPow)).mul(c.polyKey).add(next)
}

// aesBlockFromState builds the 16-byte block the AES variants feed to
// the block cipher: the state's canonical big-endian serialization in
// the low 8 bytes, zero in the high 8 bytes.
func aesBlockFromState(state fieldElem) [16]byte {
	var block [16]byte
	b := state.bigEndianBytes()
	copy(block[8:], b[:])
	return block
}

func maskedLow64(block [16]byte) bool {
	low := binary.BigEndian.Uint64(block[8:])
	return low&maskU64 == 0
}

// PolyFingerprinter is the poly-only variant: eval() reads the raw
// polynomial state with no post-mixing.
type PolyFingerprinter struct {
	core polyCore
}

// NewPolyFingerprinter derives sub-keys from master and returns a
// fingerprinter with an empty window and zeroed state.
func NewPolyFingerprinter(master Key) *PolyFingerprinter {
	dk := deriveKeys(master)
	return &PolyFingerprinter{core: newPolyCore(dk.poly)}
}

func (f *PolyFingerprinter) Reset()        { f.core.reset() }
func (f *PolyFingerprinter) Update(b byte) { f.core.update(b) }

func (f *PolyFingerprinter) Eval() bool {
	bytes := f.core.state.bigEndianBytes()
	v := binary.BigEndian.Uint64(bytes[:])
	return v&maskU64 == 0
}

// AESFingerprinter is the Poly+AES128 variant: eval() encrypts the
// 16-byte block directly via cipher.Block.Encrypt.
type AESFingerprinter struct {
	core  polyCore
	block cipher.Block
}

// NewAESFingerprinter derives sub-keys and expands the AES-128 key
// schedule from master.
func NewAESFingerprinter(master Key) *AESFingerprinter {
	dk := deriveKeys(master)
	block, err := aes.NewCipher(dk.aes[:])
	if err != nil {
		// aes.NewCipher only fails for key lengths other than 16/24/32;
		// dk.aes is always 16 bytes, so this is unreachable in practice.
		invariant("aes.NewCipher: %s", err)
	}
	return &AESFingerprinter{core: newPolyCore(dk.poly), block: block}
}

func (f *AESFingerprinter) Reset()        { f.core.reset() }
func (f *AESFingerprinter) Update(b byte) { f.core.update(b) }

func (f *AESFingerprinter) Eval() bool {
	in := aesBlockFromState(f.core.state)
	var out [16]byte
	f.block.Encrypt(out[:], in[:])
	return maskedLow64(out)
}

// AESAltFingerprinter is an alternate implementation of the Poly+AES128
// variant: it reaches the identical mixing function through
// crypto/cipher's streaming-mode path rather than the bare block path.
// CBC with an all-zero IV over exactly one block XORs
// the plaintext with zero before encrypting, which is byte-identical to
// a direct ECB single-block encryption, so this variant's Eval() always
// agrees with AESFingerprinter's.
type AESAltFingerprinter struct {
	core  polyCore
	block cipher.Block
}

// NewAESAltFingerprinter derives sub-keys and expands the AES-128 key
// schedule from master.
func NewAESAltFingerprinter(master Key) *AESAltFingerprinter {
	dk := deriveKeys(master)
	block, err := aes.NewCipher(dk.aes[:])
	if err != nil {
		invariant("aes.NewCipher: %s", err)
	}
	return &AESAltFingerprinter{core: newPolyCore(dk.poly), block: block}
}

func (f *AESAltFingerprinter) Reset()        { f.core.reset() }
func (f *AESAltFingerprinter) Update(b byte) { f.core.update(b) }

func (f *AESAltFingerprinter) Eval() bool {
	in := aesBlockFromState(f.core.state)
	var zeroIV [16]byte
	out := make([]byte, 16)
	cipher.NewCBCEncrypter(f.block, zeroIV[:]).CryptBlocks(out, in[:])
	var block16 [16]byte
	copy(block16[:], out)
	return maskedLow64(block16)
}

var (
	_ Fingerprinter = (*PolyFingerprinter)(nil)
	_ Fingerprinter = (*AESFingerprinter)(nil)
	_ Fingerprinter = (*AESAltFingerprinter)(nil)
)

package prfcdc

import (
	"encoding/binary"
	"math/bits"
)

// fieldElem is a canonical element of the 64-bit Goldilocks prime field,
// p = 2^64 - 2^32 + 1. A fieldElem value is always held in [0, p).
type fieldElem uint64

// goldilocksPrime is p = 2^64 - 2^32 + 1.
const goldilocksPrime uint64 = 0xFFFFFFFF00000001

// epsilon is 2^64 - p = 2^32 - 1, the small complement used by the fast
// reduction below.
const epsilon uint64 = 0xFFFFFFFF

// newFieldElem reduces an arbitrary 64-bit value into the field. §9 Q1:
// HKDF output is an arbitrary u64 and values in [p, 2^64) exist, so this
// reduction is mandatory, not defensive.
func newFieldElem(raw uint64) fieldElem {
	if raw >= goldilocksPrime {
		raw -= goldilocksPrime
	}
	return fieldElem(raw)
}

func (a fieldElem) add(b fieldElem) fieldElem {
	sum, carry := bits.Add64(uint64(a), uint64(b), 0)
	if carry != 0 {
		sum += epsilon
	}
	if sum >= goldilocksPrime {
		sum -= goldilocksPrime
	}
	return fieldElem(sum)
}

func (a fieldElem) sub(b fieldElem) fieldElem {
	if a >= b {
		return a - b
	}
	return fieldElem(goldilocksPrime - uint64(b) + uint64(a))
}

// mul multiplies two canonical field elements, reducing the 128-bit
// product with the standard Goldilocks fold: 2^64 ≡ epsilon (mod p), so a
// 128-bit product hi*2^64+lo collapses to lo - hi_hi + hi_lo*epsilon
// (mod p), computed here without a generic big-integer division. The
// t0+t1 sum can itself carry out of 64 bits, and since 2^64 ≡ epsilon
// (mod p) that carry must be folded back in with another +epsilon before
// the final single-subtraction reduction, the same way as add above.
func (a fieldElem) mul(b fieldElem) fieldElem {
	hi, lo := bits.Mul64(uint64(a), uint64(b))

	hiHi := hi >> 32
	hiLo := hi & epsilon

	t0 := lo - hiHi
	if lo < hiHi {
		t0 -= epsilon
	}

	t1 := hiLo * epsilon

	result, carry := bits.Add64(t0, t1, 0)
	if carry != 0 {
		result += epsilon
	}
	if result >= goldilocksPrime {
		result -= goldilocksPrime
	}
	return fieldElem(result)
}

// pow raises a field element to a non-negative exponent by square-and-multiply.
func (a fieldElem) pow(exp uint) fieldElem {
	result := fieldElem(1)
	base := a
	for exp > 0 {
		if exp&1 == 1 {
			result = result.mul(base)
		}
		base = base.mul(base)
		exp >>= 1
	}
	return result
}

// bigEndianBytes serializes the canonical representative as 8 big-endian bytes.
func (a fieldElem) bigEndianBytes() [8]byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], uint64(a))
	return out
}

package gadgets

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/bits"
)

// Decompose binds a packed field witness to n boolean witnesses whose
// base-2 combination equals the packed value (spec.md §4.1). This is
// the sole range check applied to every amount, index, and identifier
// in the circuit: the returned bits are guaranteed boolean by
// construction, and reconstructing them with FromBits is guaranteed
// to reproduce v, so building this array is a soundness proof by
// itself that v fits in n bits.
func Decompose(api frontend.API, v frontend.Variable, n int) []frontend.Variable {
	return bits.ToBinary(api, v, bits.WithNbDigits(n))
}

// FromBits recomposes a packed field element from a little-endian
// boolean array, undoing Decompose.
func FromBits(api frontend.API, digits []frontend.Variable) frontend.Variable {
	return bits.FromBinary(api, digits)
}

// ReverseMSBFirst returns a copy of a little-endian bit array in
// most-significant-bit-first order. Decompose (like the rest of
// gnark) produces bits LSB-first; the public-data wire format
// (spec.md §6) requires each field to appear MSB-first before
// concatenation.
func ReverseMSBFirst(digits []frontend.Variable) []frontend.Variable {
	n := len(digits)
	out := make([]frontend.Variable, n)
	for i, d := range digits {
		out[n-1-i] = d
	}
	return out
}

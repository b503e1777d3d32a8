package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
	"github.com/consensys/gnark/std/math/uints"
)

// bitsToBytesMSBFirst repacks an MSB-first bit stream into MSB-first
// bytes, undoing gnark's own LSB-first FromBinary convention one byte
// at a time — the same reversal ziemen4-zkguard's circuit.go uses to
// feed a bit-level message into a byte-oriented SHA-256 gadget.
func bitsToBytesMSBFirst(api frontend.API, uapi *uints.BinaryField[uints.U32], bitStream []frontend.Variable) []uints.U8 {
	if len(bitStream)%8 != 0 {
		panic("public-data bit stream is not byte-aligned")
	}
	out := make([]uints.U8, len(bitStream)/8)
	for i := range out {
		chunk := bitStream[i*8 : i*8+8]
		reversed := make([]frontend.Variable, 8)
		for j, b := range chunk {
			reversed[7-j] = b
		}
		out[i] = uapi.ByteValueOf(api.FromBinary(reversed...))
	}
	return out
}

// HashPublicData is the closing step of spec.md §4.8: flatten the
// four roots and every ring's public-data record into one MSB-first
// bit stream, SHA-256 it, and return the digest as 256 boolean wires
// in most-significant-bit-first order (the top bit of digest byte 0
// first). The reference's `hash.bits[255-i] == public.bits[i]` remap
// is applied at the compare site: Define reverses these bits into the
// little-endian order of the public input before packing them.
func HashPublicData(api frontend.API, bitStream []frontend.Variable) ([]frontend.Variable, error) {
	uapi, err := uints.New[uints.U32](api)
	if err != nil {
		return nil, err
	}
	hasher, err := sha2.New(api)
	if err != nil {
		return nil, err
	}
	hasher.Write(bitsToBytesMSBFirst(api, uapi, bitStream))
	digestBytes := hasher.Sum()

	digestBits := make([]frontend.Variable, 0, len(digestBytes)*8)
	for _, b := range digestBytes {
		byteBits := api.ToBinary(b.Val, 8)
		for i := 7; i >= 0; i-- {
			digestBits = append(digestBits, byteBits[i])
		}
	}
	return digestBits, nil
}

package gadgets

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// compress hashes a fixed-arity leaf or node into a single field
// element, expressed as a capability {compress : F^k -> F}
// parameterized by k rather than by inheritance (spec.md §9,
// "Polymorphism over hash arity"). LongsightL is the reference's
// compressor; this circuit uses gnark's MiMC permutation for the
// same role, matching the teacher's own choice of hash gadget.
func compress(hFunc mimc.MiMC, elements ...frontend.Variable) frontend.Variable {
	hFunc.Reset()
	hFunc.Write(elements...)
	return hFunc.Sum()
}

// recomputeRoot walks a leaf up to the root along depth siblings,
// selecting left/right order per address bit. This is the same
// Select-based path recomputation gnark's own std/accumulator/merkle
// gadget and the Teja2045-ZK-Rollup / hashcloak-merkle_trees_gnark
// examples use; address bits are little-endian (bit i is the branch
// decision at depth i, root-ward from the leaf).
func recomputeRoot(api frontend.API, hFunc mimc.MiMC, leaf frontend.Variable, addressBits []frontend.Variable, siblings []frontend.Variable) frontend.Variable {
	current := leaf
	for i := 0; i < len(siblings); i++ {
		bit := addressBits[i]
		sibling := siblings[i]
		left := api.Select(bit, sibling, current)
		right := api.Select(bit, current, sibling)
		current = compress(hFunc, left, right)
	}
	return current
}

// MerkleUpdate is the result of proving inclusion of a before-leaf and
// then recomputing the root over an after-leaf at the same address,
// sharing the same sibling path (spec.md §4.6). Sharing the path
// variables between the inclusion check and the recomputation is what
// binds "the leaf I read is the leaf I write" without ever asserting
// an explicit key equality.
type MerkleUpdate struct {
	RootAfter frontend.Variable
}

// AssertMerkleUpdateBits builds one Merkle-update gadget instance
// directly from an already-known little-endian address bit array —
// used when the address is itself a concatenation of other gadgets'
// bit-decomposed fields (the trading-history address, accountS ∥
// orderID, accountS occupying the low bits) rather than a freshly
// packed field element.
func AssertMerkleUpdateBits(
	api frontend.API,
	hFunc mimc.MiMC,
	addressBits []frontend.Variable,
	siblings []frontend.Variable,
	rootBefore frontend.Variable,
	leafBefore []frontend.Variable,
	leafAfter []frontend.Variable,
) MerkleUpdate {
	hashBefore := compress(hFunc, leafBefore...)
	recomputedBefore := recomputeRoot(api, hFunc, hashBefore, addressBits, siblings)
	api.AssertIsEqual(recomputedBefore, rootBefore)

	hashAfter := compress(hFunc, leafAfter...)
	rootAfter := recomputeRoot(api, hFunc, hashAfter, addressBits, siblings)

	return MerkleUpdate{RootAfter: rootAfter}
}

// AssertMerkleUpdate is AssertMerkleUpdateBits for the common case
// where the address is a single packed field element (the accounts
// tree, addressed directly by account index) rather than a
// concatenation of other fields' bits.
func AssertMerkleUpdate(
	api frontend.API,
	hFunc mimc.MiMC,
	address frontend.Variable,
	depth int,
	siblings []frontend.Variable,
	rootBefore frontend.Variable,
	leafBefore []frontend.Variable,
	leafAfter []frontend.Variable,
) MerkleUpdate {
	addressBits := Decompose(api, address, depth)
	return AssertMerkleUpdateBits(api, hFunc, addressBits, siblings, rootBefore, leafBefore, leafAfter)
}

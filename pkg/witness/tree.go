// Package witness assembles off-circuit fixtures: a MiMC sparse
// Merkle tree over the two address domains spec.md §3 names, an EdDSA
// order signer, and the ring/circuit assignment builders that turn
// domain-level orders and fills into a gnark witness.
package witness

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	bn254mimc "github.com/consensys/gnark-crypto/hash"
)

// leafHash mirrors pkg/gadgets.compress off-circuit: MiMC over an
// arbitrary number of field elements, canonically encoded the way
// gnark's own MiMC gadget consumes them.
func leafHash(elements ...*fr.Element) *fr.Element {
	h := bn254mimc.MIMC_BN254.New()
	for _, e := range elements {
		b := e.Bytes()
		h.Write(b[:])
	}
	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return &out
}

// MerkleTree is a sparse Merkle tree addressed by a fixed-width
// little-endian bit index, generalized from the teacher's
// pkg/state/tree.go to MiMC hashing and to leaves of arbitrary arity
// (2 for the trading-history tree, 4 for the accounts tree — spec.md
// §3).
type MerkleTree struct {
	depth      int
	arity      int
	zeroHashes []*fr.Element
	leaves     map[string][]*fr.Element
}

// NewMerkleTree builds an empty tree of the given depth whose leaves
// are hashed from `arity`-many field elements.
func NewMerkleTree(depth, arity int) *MerkleTree {
	t := &MerkleTree{
		depth:  depth,
		arity:  arity,
		leaves: make(map[string][]*fr.Element),
	}
	t.zeroHashes = make([]*fr.Element, depth+1)
	zeroLeaf := make([]*fr.Element, arity)
	for i := range zeroLeaf {
		zeroLeaf[i] = new(fr.Element)
	}
	t.zeroHashes[0] = leafHash(zeroLeaf...)
	for i := 1; i <= depth; i++ {
		t.zeroHashes[i] = leafHash(t.zeroHashes[i-1], t.zeroHashes[i-1])
	}
	return t
}

func indexKey(index *big.Int) string {
	return index.Text(16)
}

// Update sets the leaf at index to the hash of the given elements and
// returns the new root.
func (t *MerkleTree) Update(index *big.Int, elements []*fr.Element) (*fr.Element, error) {
	if len(elements) != t.arity {
		return nil, errors.New("witness: leaf arity mismatch")
	}
	t.leaves[indexKey(index)] = elements
	return t.Root(), nil
}

// Root computes the current root by walking every populated leaf
// bottom-up, filling absent siblings from the zero-hash table.
func (t *MerkleTree) Root() *fr.Element {
	if len(t.leaves) == 0 {
		return t.zeroHashes[t.depth]
	}
	type entry struct {
		index *big.Int
		value *fr.Element
	}
	level := make(map[string]entry, len(t.leaves))
	for key, elements := range t.leaves {
		idx := new(big.Int)
		idx.SetString(key, 16)
		level[key] = entry{idx, leafHash(elements...)}
	}
	for depth := 0; depth < t.depth; depth++ {
		next := make(map[string]entry)
		for _, e := range level {
			parentIndex := new(big.Int).Rsh(e.index, 1)
			parentKey := parentIndex.Text(16)
			if _, exists := next[parentKey]; exists {
				continue
			}
			siblingIndex := new(big.Int).Xor(e.index, big.NewInt(1))
			var siblingValue *fr.Element
			if sib, ok := level[siblingIndex.Text(16)]; ok {
				siblingValue = sib.value
			} else {
				siblingValue = t.zeroHashes[depth]
			}
			bit := new(big.Int).And(e.index, big.NewInt(1)).Int64()
			var parentValue *fr.Element
			if bit == 0 {
				parentValue = leafHash(e.value, siblingValue)
			} else {
				parentValue = leafHash(siblingValue, e.value)
			}
			next[parentKey] = entry{parentIndex, parentValue}
		}
		level = next
	}
	for _, e := range level {
		return e.value
	}
	return t.zeroHashes[t.depth]
}

// GenerateProof returns the depth-many sibling values from leaf to
// root for index, in root-ward order — the same order
// pkg/gadgets.recomputeRoot expects. At level i, siblingIndex addresses
// a subtree of 2^i raw leaves once i>=1, not a raw leaf itself, so it
// must always be resolved with subtreeRootAt rather than probed
// directly against the raw-leaf-keyed map (a shifted index can collide
// with an unrelated leaf's own raw address).
func (t *MerkleTree) GenerateProof(index *big.Int) []*fr.Element {
	proof := make([]*fr.Element, t.depth)
	current := new(big.Int).Set(index)
	for i := 0; i < t.depth; i++ {
		siblingIndex := new(big.Int).Xor(current, big.NewInt(1))
		proof[i] = t.subtreeRootAt(siblingIndex, i)
		current.Rsh(current, 1)
	}
	return proof
}

// subtreeRootAt returns the root of the (depth-level) subtree rooted
// at index, using populated leaves under it or falling back to the
// zero-hash table when the subtree is empty.
func (t *MerkleTree) subtreeRootAt(index *big.Int, level int) *fr.Element {
	if level == 0 {
		if leaf, ok := t.leaves[index.Text(16)]; ok {
			return leafHash(leaf...)
		}
		return t.zeroHashes[0]
	}
	leftIndex := new(big.Int).Lsh(index, 1)
	rightIndex := new(big.Int).Or(leftIndex, big.NewInt(1))
	left := t.subtreeRootAt(leftIndex, level-1)
	right := t.subtreeRootAt(rightIndex, level-1)
	if left == t.zeroHashes[level-1] && right == t.zeroHashes[level-1] {
		return t.zeroHashes[level]
	}
	return leafHash(left, right)
}

// VerifyProof recomputes the root from a leaf's elements and sibling
// path and reports whether it matches root.
func VerifyProof(index *big.Int, elements []*fr.Element, siblings []*fr.Element, root *fr.Element) bool {
	current := leafHash(elements...)
	idx := new(big.Int).Set(index)
	for _, sibling := range siblings {
		bit := new(big.Int).And(idx, big.NewInt(1)).Int64()
		if bit == 0 {
			current = leafHash(current, sibling)
		} else {
			current = leafHash(sibling, current)
		}
		idx.Rsh(idx, 1)
	}
	return current.Equal(root)
}

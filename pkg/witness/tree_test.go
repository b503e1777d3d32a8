package witness

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

func elem(v uint64) *fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return &e
}

func TestMerkleTreeEmptyRootIsZeroHash(t *testing.T) {
	tree := NewMerkleTree(8, 2)
	if tree.Root() != tree.zeroHashes[8] {
		t.Fatalf("empty tree root should be the depth-8 zero hash")
	}
}

func TestMerkleTreeUpdateChangesRoot(t *testing.T) {
	tree := NewMerkleTree(8, 2)
	before := tree.Root()

	idx := big.NewInt(42)
	after, err := tree.Update(idx, []*fr.Element{elem(1), elem(2)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if after.Equal(before) {
		t.Fatalf("root did not change after update")
	}
}

func TestMerkleTreeProofRoundTrip(t *testing.T) {
	tree := NewMerkleTree(8, 2)
	idx := big.NewInt(17)
	elements := []*fr.Element{elem(3), elem(4)}

	proof := tree.GenerateProof(idx)
	root, err := tree.Update(idx, elements)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !VerifyProof(idx, elements, proof, root) {
		t.Fatalf("proof generated before the update did not verify against the root after it")
	}
}

func TestMerkleTreeProofRejectsWrongLeaf(t *testing.T) {
	tree := NewMerkleTree(8, 2)
	idx := big.NewInt(5)
	elements := []*fr.Element{elem(9), elem(9)}

	proof := tree.GenerateProof(idx)
	root, err := tree.Update(idx, elements)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	wrongElements := []*fr.Element{elem(1), elem(1)}
	if VerifyProof(idx, wrongElements, proof, root) {
		t.Fatalf("proof verified against a leaf that was never written")
	}
}

func TestMerkleTreeArityMismatch(t *testing.T) {
	tree := NewMerkleTree(8, 4)
	if _, err := tree.Update(big.NewInt(1), []*fr.Element{elem(1), elem(2)}); err == nil {
		t.Fatalf("expected an arity-mismatch error")
	}
}

func TestMerkleTreeMultipleLeavesIndependentProofs(t *testing.T) {
	tree := NewMerkleTree(6, 2)
	idxA, idxB := big.NewInt(1), big.NewInt(2)
	elA := []*fr.Element{elem(11), elem(22)}
	elB := []*fr.Element{elem(33), elem(44)}

	proofA := tree.GenerateProof(idxA)
	if _, err := tree.Update(idxA, elA); err != nil {
		t.Fatalf("update A: %v", err)
	}
	proofB := tree.GenerateProof(idxB)
	root, err := tree.Update(idxB, elB)
	if err != nil {
		t.Fatalf("update B: %v", err)
	}

	if !VerifyProof(idxB, elB, proofB, root) {
		t.Fatalf("leaf B proof should verify against the final root")
	}
	// Leaf A's proof was captured before B was written, so replaying it
	// against the final root (which reflects B too) must not verify.
	if VerifyProof(idxA, elA, proofA, root) {
		t.Fatalf("stale proof for leaf A should not verify against the final root once B has also been written")
	}
}

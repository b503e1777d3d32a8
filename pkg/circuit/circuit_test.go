package circuit_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"

	"ringsettlement/pkg/circuit"
	"ringsettlement/pkg/core"
	"ringsettlement/pkg/witness"
)

// twoRingBatch builds a NumRings=2 batch: the same buy/sell pair
// settled twice against progressively-updated balances and filled
// amounts, exercising the root-chaining across rings that
// pkg/circuit.SettlementCircuit.Define threads (spec.md §4.8).
func twoRingBatch(t *testing.T) (*core.Config, []witness.RingInput, *circuit.SettlementCircuit) {
	t.Helper()
	cfg := core.DefaultConfig()

	signerA, err := witness.NewSigner()
	if err != nil {
		t.Fatalf("signer A: %v", err)
	}
	signerB, err := witness.NewSigner()
	if err != nil {
		t.Fatalf("signer B: %v", err)
	}

	orderA := witness.Order{
		DexID: 1, OrderID: 1,
		AccountS: 10, AccountB: 11, AccountF: 12,
		AmountS: 1000, AmountB: 2000, AmountF: 10,
		TokenS: 1, TokenB: 2, TokenF: 3,
		Signer: signerA,
	}
	orderB := witness.Order{
		DexID: 1, OrderID: 2,
		AccountS: 20, AccountB: 21, AccountF: 22,
		AmountS: 2000, AmountB: 1000, AmountF: 20,
		TokenS: 2, TokenB: 1, TokenF: 3,
		Signer: signerB,
	}

	b := witness.NewBuilder(cfg)
	seed := func(account uint64, signer *witness.Signer, token, balance uint64) {
		if err := b.SeedAccount(account, signer, token, balance); err != nil {
			t.Fatalf("seed account %d: %v", account, err)
		}
	}
	seed(orderA.AccountS, signerA, orderA.TokenS, 1000)
	seed(orderA.AccountB, signerA, orderA.TokenB, 0)
	seed(orderA.AccountF, signerA, orderA.TokenF, 100)
	seed(orderB.AccountS, signerB, orderB.TokenS, 2000)
	seed(orderB.AccountB, signerB, orderB.TokenB, 0)
	seed(orderB.AccountF, signerB, orderB.TokenF, 100)

	ring1 := witness.RingInput{
		OrderA: orderA, OrderB: orderB,
		FillA: witness.Fill{FillS: 500, FillB: 1000, FillF: 5},
		FillB: witness.Fill{FillS: 1000, FillB: 500, FillF: 10},

		BalanceSABefore: 1000, BalanceBABefore: 0, BalanceFABefore: 100,
		BalanceSBBefore: 2000, BalanceBBBefore: 0, BalanceFBBefore: 100,
	}
	if _, err := b.BuildRing(ring1); err != nil {
		t.Fatalf("build ring 1: %v", err)
	}

	ring2 := witness.RingInput{
		OrderA: orderA, OrderB: orderB,
		FillA: witness.Fill{FillS: 500, FillB: 1000, FillF: 5},
		FillB: witness.Fill{FillS: 1000, FillB: 500, FillF: 10},

		BalanceSABefore: 500, BalanceBABefore: 1000, BalanceFABefore: 95,
		BalanceSBBefore: 1000, BalanceBBBefore: 500, BalanceFBBefore: 90,

		FilledABefore: 500, FilledBBefore: 1000,
	}
	if _, err := b.BuildRing(ring2); err != nil {
		t.Fatalf("build ring 2: %v", err)
	}

	rings := []witness.RingInput{ring1, ring2}
	return cfg, rings, b.Finalize(rings)
}

func TestSettlementCircuitTwoRingBatch(t *testing.T) {
	cfg, _, assignment := twoRingBatch(t)
	assert := test.NewAssert(t)
	assert.ProverSucceeded(circuit.NewCircuit(cfg), assignment, test.WithCurves(ecc.BN254))
}

// TestSettlementCircuitWrongPublicDataHash tampers with the declared
// PublicDataHash public input, matching S6's root-desync flavor
// (spec.md §8) but for the SHA-256 closing constraint instead of a
// Merkle root.
func TestSettlementCircuitWrongPublicDataHash(t *testing.T) {
	cfg, _, assignment := twoRingBatch(t)
	assert := test.NewAssert(t)

	tampered := *assignment
	wrong, ok := assignment.PublicDataHash.(*big.Int)
	if !ok {
		t.Fatalf("unexpected PublicDataHash type %T", assignment.PublicDataHash)
	}
	tampered.PublicDataHash = new(big.Int).Add(wrong, big.NewInt(1))

	assert.ProverFailed(circuit.NewCircuit(cfg), &tampered, test.WithCurves(ecc.BN254))
}

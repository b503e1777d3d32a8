package witness

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	creddsa "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/consensys/gnark/frontend"
	gnarkeddsa "github.com/consensys/gnark/std/signature/eddsa"

	"ringsettlement/pkg/circuit"
	"ringsettlement/pkg/core"
	"ringsettlement/pkg/order"
	"ringsettlement/pkg/ring"
)

// Order is the domain-level input for one order: everything an order
// book hands to the settlement builder before any fill is chosen
// (spec.md §3, "Order").
type Order struct {
	DexID, OrderID               uint64
	AccountS, AccountB, AccountF uint64
	AmountS, AmountB, AmountF    uint64
	WalletF                      uint64
	TokenS, TokenB, TokenF       uint64
	Signer                       *Signer
}

// Fill is the chosen settlement amount for one side of a ring —
// spec.md §3, "Fill".
type Fill struct {
	FillS, FillB, FillF uint64
}

// RingInput pairs two orders with their chosen fills and their
// current on-chain balances/filled-amounts, everything Builder needs
// to advance both trees by one ring.
type RingInput struct {
	OrderA, OrderB Order
	FillA, FillB   Fill

	BalanceSABefore, BalanceBABefore, BalanceFABefore uint64
	BalanceSBBefore, BalanceBBBefore, BalanceFBBefore uint64

	FilledABefore, FilledBBefore uint64
}

// Builder accumulates the two Merkle trees across a batch of rings
// and produces a fully-assigned circuit.SettlementCircuit witness.
type Builder struct {
	cfg      *core.Config
	history  *MerkleTree
	accounts *MerkleTree
	rings    []ring.Witness

	historyRootBefore  *fr.Element
	accountsRootBefore *fr.Element
}

// NewBuilder starts a builder over fresh, empty trees sized per cfg.
func NewBuilder(cfg *core.Config) *Builder {
	b := &Builder{
		cfg:      cfg,
		history:  NewMerkleTree(cfg.TreeDepthFilled, 2),
		accounts: NewMerkleTree(cfg.TreeDepthAccounts, 4),
	}
	b.historyRootBefore = b.history.Root()
	b.accountsRootBefore = b.accounts.Root()
	return b
}

// SeedAccount initializes an account leaf before any ring touches it —
// tests and CLIs call this once per account to establish the "before"
// state the first ring's balance updates will be checked against.
// Must be called before the first BuildRing call.
func (b *Builder) SeedAccount(account uint64, signer *Signer, token, balance uint64) error {
	x, y := publicKeyXY(signer)
	if _, err := b.accounts.Update(new(big.Int).SetUint64(account), []*fr.Element{x, y, feltU64(token), feltU64(balance)}); err != nil {
		return err
	}
	b.accountsRootBefore = b.accounts.Root()
	return nil
}

func feltU64(v uint64) *fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return &e
}

func bigU64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func historyAddress(orderID, accountS uint64, accountBits int) *big.Int {
	idx := new(big.Int).SetUint64(orderID)
	idx.Lsh(idx, uint(accountBits))
	idx.Or(idx, new(big.Int).SetUint64(accountS))
	return idx
}

// publicKeyXY extracts the affine coordinates of a signer's public
// key as field elements, for embedding directly into an account leaf
// (spec.md §3, "Account-balance leaf": H(pub_x, pub_y, token, balance)).
func publicKeyXY(s *Signer) (*fr.Element, *fr.Element) {
	pk, ok := s.Public.(*creddsa.PublicKey)
	if !ok {
		panic("witness: unexpected public key implementation")
	}
	var x, y fr.Element
	xBig := new(big.Int)
	yBig := new(big.Int)
	pk.A.X.BigInt(xBig)
	pk.A.Y.BigInt(yBig)
	x.SetBigInt(xBig)
	y.SetBigInt(yBig)
	return &x, &y
}

func orderWitness(o Order, sig gnarkeddsa.Signature) order.Witness {
	return order.Witness{
		DexID:     bigU64(o.DexID),
		OrderID:   bigU64(o.OrderID),
		AccountS:  bigU64(o.AccountS),
		AccountB:  bigU64(o.AccountB),
		AccountF:  bigU64(o.AccountF),
		AmountS:   bigU64(o.AmountS),
		AmountB:   bigU64(o.AmountB),
		AmountF:   bigU64(o.AmountF),
		WalletF:   bigU64(o.WalletF),
		TokenS:    bigU64(o.TokenS),
		TokenB:    bigU64(o.TokenB),
		TokenF:    bigU64(o.TokenF),
		PublicKey: o.Signer.AssignPublicKey(),
		Signature: sig,
	}
}

func signOrder(o Order) (gnarkeddsa.Signature, error) {
	return SignOrderFields(o.Signer, [8]*fr.Element{
		feltU64(o.DexID), feltU64(o.OrderID),
		feltU64(o.AccountS), feltU64(o.AccountB), feltU64(o.AccountF),
		feltU64(o.AmountS), feltU64(o.AmountB), feltU64(o.AmountF),
	})
}

func toVariables(elements []*fr.Element) []frontend.Variable {
	out := make([]frontend.Variable, len(elements))
	for i, e := range elements {
		out[i] = e
	}
	return out
}

// BuildRing advances both trees by one ring, appends the resulting
// ring.Witness to the batch, and returns it.
func (b *Builder) BuildRing(in RingInput) (*ring.Witness, error) {
	sigA, err := signOrder(in.OrderA)
	if err != nil {
		return nil, err
	}
	sigB, err := signOrder(in.OrderB)
	if err != nil {
		return nil, err
	}

	historyAddrA := historyAddress(in.OrderA.OrderID, in.OrderA.AccountS, core.BitsAccount)
	proofFilledA := b.history.GenerateProof(historyAddrA)
	filledAfterA := in.FilledABefore + in.FillA.FillS
	if _, err := b.history.Update(historyAddrA, []*fr.Element{feltU64(filledAfterA), feltU64(filledAfterA)}); err != nil {
		return nil, err
	}

	historyAddrB := historyAddress(in.OrderB.OrderID, in.OrderB.AccountS, core.BitsAccount)
	proofFilledB := b.history.GenerateProof(historyAddrB)
	filledAfterB := in.FilledBBefore + in.FillB.FillS
	if _, err := b.history.Update(historyAddrB, []*fr.Element{feltU64(filledAfterB), feltU64(filledAfterB)}); err != nil {
		return nil, err
	}

	pkAX, pkAY := publicKeyXY(in.OrderA.Signer)
	pkBX, pkBY := publicKeyXY(in.OrderB.Signer)

	balSA := in.BalanceSABefore - in.FillA.FillS
	balBB := in.BalanceBBBefore + in.FillA.FillS
	balSB := in.BalanceSBBefore - in.FillB.FillS
	balBA := in.BalanceBABefore + in.FillB.FillS
	balFA := in.BalanceFABefore - in.FillA.FillF
	balFB := in.BalanceFBBefore - in.FillB.FillF

	proofSA := b.accounts.GenerateProof(bigU64(in.OrderA.AccountS))
	if _, err := b.accounts.Update(bigU64(in.OrderA.AccountS), []*fr.Element{pkAX, pkAY, feltU64(in.OrderA.TokenS), feltU64(balSA)}); err != nil {
		return nil, err
	}
	proofBA := b.accounts.GenerateProof(bigU64(in.OrderA.AccountB))
	if _, err := b.accounts.Update(bigU64(in.OrderA.AccountB), []*fr.Element{pkAX, pkAY, feltU64(in.OrderA.TokenB), feltU64(balBA)}); err != nil {
		return nil, err
	}
	proofFA := b.accounts.GenerateProof(bigU64(in.OrderA.AccountF))
	if _, err := b.accounts.Update(bigU64(in.OrderA.AccountF), []*fr.Element{pkAX, pkAY, feltU64(in.OrderA.TokenF), feltU64(balFA)}); err != nil {
		return nil, err
	}
	proofSB := b.accounts.GenerateProof(bigU64(in.OrderB.AccountS))
	if _, err := b.accounts.Update(bigU64(in.OrderB.AccountS), []*fr.Element{pkBX, pkBY, feltU64(in.OrderB.TokenS), feltU64(balSB)}); err != nil {
		return nil, err
	}
	proofBB := b.accounts.GenerateProof(bigU64(in.OrderB.AccountB))
	if _, err := b.accounts.Update(bigU64(in.OrderB.AccountB), []*fr.Element{pkBX, pkBY, feltU64(in.OrderB.TokenB), feltU64(balBB)}); err != nil {
		return nil, err
	}
	proofFB := b.accounts.GenerateProof(bigU64(in.OrderB.AccountF))
	if _, err := b.accounts.Update(bigU64(in.OrderB.AccountF), []*fr.Element{pkBX, pkBY, feltU64(in.OrderB.TokenF), feltU64(balFB)}); err != nil {
		return nil, err
	}

	w := ring.Witness{
		OrderA: orderWitness(in.OrderA, sigA),
		OrderB: orderWitness(in.OrderB, sigB),

		FillSA: bigU64(in.FillA.FillS), FillBA: bigU64(in.FillA.FillB), FillFA: bigU64(in.FillA.FillF),
		FillSB: bigU64(in.FillB.FillS), FillBB: bigU64(in.FillB.FillB), FillFB: bigU64(in.FillB.FillF),

		BalanceSABefore: bigU64(in.BalanceSABefore), BalanceBABefore: bigU64(in.BalanceBABefore), BalanceFABefore: bigU64(in.BalanceFABefore),
		BalanceSBBefore: bigU64(in.BalanceSBBefore), BalanceBBBefore: bigU64(in.BalanceBBBefore), BalanceFBBefore: bigU64(in.BalanceFBBefore),

		FilledABefore: bigU64(in.FilledABefore), FilledBBefore: bigU64(in.FilledBBefore),

		ProofFilledA: toVariables(proofFilledA), ProofFilledB: toVariables(proofFilledB),

		ProofBalanceSA: toVariables(proofSA), ProofBalanceBA: toVariables(proofBA), ProofBalanceFA: toVariables(proofFA),
		ProofBalanceSB: toVariables(proofSB), ProofBalanceBB: toVariables(proofBB), ProofBalanceFB: toVariables(proofFB),
	}
	b.rings = append(b.rings, w)
	return &w, nil
}

// HistoryRoot returns the trading-history tree's current root.
func (b *Builder) HistoryRoot() *fr.Element { return b.history.Root() }

// AccountsRoot returns the accounts tree's current root.
func (b *Builder) AccountsRoot() *fr.Element { return b.accounts.Root() }

// Finalize assembles the accumulated rings into a full
// circuit.SettlementCircuit assignment, closing both root chains
// against the trees' current roots and computing the public-data
// hash the same way pkg/circuit.HashPublicData does in-circuit. rings
// must be the same inputs passed to BuildRing, in the same order —
// Finalize needs their plaintext fields to repack the public-data
// stream off-circuit.
func (b *Builder) Finalize(rings []RingInput) *circuit.SettlementCircuit {
	return &circuit.SettlementCircuit{
		TradingHistoryRootBefore: b.historyRootBefore,
		TradingHistoryRootAfter:  b.history.Root(),
		AccountsRootBefore:       b.accountsRootBefore,
		AccountsRootAfter:        b.accounts.Root(),
		PublicDataHash:           b.PublicDataHash(rings),
		Rings:                    b.rings,
	}
}

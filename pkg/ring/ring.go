// Package ring composes the order, sub-add, Merkle-update, rate, and
// match gadgets into a single ring settlement (spec.md §4.7): two
// orders, six fills, eight balance/history updates, four rate checks,
// a token-symmetry check, and two match-feasibility checks.
package ring

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/signature/eddsa"

	"ringsettlement/pkg/core"
	"ringsettlement/pkg/gadgets"
	"ringsettlement/pkg/order"
)

// AccountLeaf is the pre-image of a balance leaf: (pub_x, pub_y,
// token, balance) — spec.md §3, "Account-balance leaf".
type AccountLeaf struct {
	PubX    frontend.Variable
	PubY    frontend.Variable
	Token   frontend.Variable
	Balance frontend.Variable
}

// Witness is everything a single ring needs beyond the two orders'
// own witnesses: the six fills, the six pre-update balances, the two
// pre-update filled amounts, and the eight Merkle proofs (two history,
// six balance — see DESIGN.md on the dropped fee-wallet leg).
type Witness struct {
	OrderA order.Witness
	OrderB order.Witness

	FillSA, FillBA, FillFA frontend.Variable
	FillSB, FillBB, FillFB frontend.Variable

	BalanceSABefore, BalanceBABefore, BalanceFABefore frontend.Variable
	BalanceSBBefore, BalanceBBBefore, BalanceFBBefore frontend.Variable

	FilledABefore, FilledBBefore frontend.Variable

	ProofFilledA []frontend.Variable // len = TreeDepthFilled
	ProofFilledB []frontend.Variable

	ProofBalanceSA []frontend.Variable // len = TreeDepthAccounts, one per leg
	ProofBalanceBA []frontend.Variable
	ProofBalanceFA []frontend.Variable
	ProofBalanceSB []frontend.Variable
	ProofBalanceBB []frontend.Variable
	ProofBalanceFB []frontend.Variable
}

// PublicData is one order's contribution to the public-data stream
// (spec.md §6): (dexID, orderID, accountS_self, accountB_counterparty,
// fillS_self, accountF_self, fillF_self), each field emitted as
// MSB-first bits.
type PublicData struct {
	DexID           []frontend.Variable
	OrderID         []frontend.Variable
	AccountSelf     []frontend.Variable
	AccountCounter  []frontend.Variable
	FillSelf        []frontend.Variable
	AccountFeeSelf  []frontend.Variable
	FillFeeSelf     []frontend.Variable
}

// Bits flattens one order's public-data record into a single
// MSB-first-per-field bit stream, in the fixed field order spec.md §6
// names.
func (p PublicData) Bits() []frontend.Variable {
	var out []frontend.Variable
	for _, field := range [][]frontend.Variable{
		p.DexID, p.OrderID, p.AccountSelf, p.AccountCounter,
		p.FillSelf, p.AccountFeeSelf, p.FillFeeSelf,
	} {
		out = append(out, gadgets.ReverseMSBFirst(field)...)
	}
	return out
}

// Result is what a ring settlement hands back to the circuit top: the
// two new roots to thread into the next ring (or the closing
// equality), and the two orders' public-data records.
type Result struct {
	NewTradingHistoryRoot frontend.Variable
	NewAccountsRoot       frontend.Variable
	PublicDataA           PublicData
	PublicDataB           PublicData
}

// Settle builds one ring's constraints. The two tree depths are the
// lengths of w's proof slices, which callers size from core.Config so
// the shape stays consistent with the circuit they're compiled into.
func Settle(
	api frontend.API,
	curve twistededwards.Curve,
	tradingHistoryRootBefore frontend.Variable,
	accountsRootBefore frontend.Variable,
	w Witness,
) (*Result, error) {
	orderA, err := order.Build(api, curve, w.OrderA)
	if err != nil {
		return nil, err
	}
	orderB, err := order.Build(api, curve, w.OrderB)
	if err != nil {
		return nil, err
	}

	fillSABits := gadgets.Decompose(api, w.FillSA, core.BitsAmount)
	gadgets.Decompose(api, w.FillBA, core.BitsAmount)
	fillFABits := gadgets.Decompose(api, w.FillFA, core.BitsAmount)
	fillSBBits := gadgets.Decompose(api, w.FillSB, core.BitsAmount)
	gadgets.Decompose(api, w.FillBB, core.BitsAmount)
	fillFBBits := gadgets.Decompose(api, w.FillFB, core.BitsAmount)

	// Fee-wallet pre-balances are pinned to 0, matching the
	// reference's own choice — see DESIGN.md Open Question 4.
	feeWalletA := frontend.Variable(0)
	feeWalletB := frontend.Variable(0)

	swapA := gadgets.AssertSubAdd(api, w.BalanceSABefore, w.BalanceBBBefore, w.FillSA)
	swapB := gadgets.AssertSubAdd(api, w.BalanceSBBefore, w.BalanceBABefore, w.FillSB)
	feeA := gadgets.AssertSubAdd(api, w.BalanceFABefore, feeWalletA, w.FillFA)
	feeB := gadgets.AssertSubAdd(api, w.BalanceFBBefore, feeWalletB, w.FillFB)

	hFunc, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}

	historyAddrA := append(append([]frontend.Variable{}, orderA.AccountSBits...), orderA.OrderIDBits...)
	updateFilledA := gadgets.AssertMerkleUpdateBits(
		api, hFunc, historyAddrA, w.ProofFilledA, tradingHistoryRootBefore,
		[]frontend.Variable{w.FilledABefore, w.FilledABefore},
		[]frontend.Variable{filledAfter(api, w.FilledABefore, w.FillSA), filledAfter(api, w.FilledABefore, w.FillSA)},
	)
	filledAfterA := filledAfter(api, w.FilledABefore, w.FillSA)
	gadgets.AssertLeq(api, filledAfterA, orderA.AmountS)

	historyAddrB := append(append([]frontend.Variable{}, orderB.AccountSBits...), orderB.OrderIDBits...)
	updateFilledB := gadgets.AssertMerkleUpdateBits(
		api, hFunc, historyAddrB, w.ProofFilledB, updateFilledA.RootAfter,
		[]frontend.Variable{w.FilledBBefore, w.FilledBBefore},
		[]frontend.Variable{filledAfter(api, w.FilledBBefore, w.FillSB), filledAfter(api, w.FilledBBefore, w.FillSB)},
	)
	filledAfterB := filledAfter(api, w.FilledBBefore, w.FillSB)
	gadgets.AssertLeq(api, filledAfterB, orderB.AmountS)

	updateBalanceSA := gadgets.AssertMerkleUpdateBits(
		api, hFunc, orderA.AccountSBits, w.ProofBalanceSA, accountsRootBefore,
		leafOf(orderA.PublicKey, orderA.TokenS, w.BalanceSABefore),
		leafOf(orderA.PublicKey, orderA.TokenS, swapA.X),
	)
	updateBalanceBA := gadgets.AssertMerkleUpdateBits(
		api, hFunc, orderA.AccountBBits, w.ProofBalanceBA, updateBalanceSA.RootAfter,
		leafOf(orderA.PublicKey, orderA.TokenB, w.BalanceBABefore),
		leafOf(orderA.PublicKey, orderA.TokenB, swapB.Y),
	)
	updateBalanceFA := gadgets.AssertMerkleUpdateBits(
		api, hFunc, orderA.AccountFBits, w.ProofBalanceFA, updateBalanceBA.RootAfter,
		leafOf(orderA.PublicKey, orderA.TokenF, w.BalanceFABefore),
		leafOf(orderA.PublicKey, orderA.TokenF, feeA.X),
	)
	updateBalanceSB := gadgets.AssertMerkleUpdateBits(
		api, hFunc, orderB.AccountSBits, w.ProofBalanceSB, updateBalanceFA.RootAfter,
		leafOf(orderB.PublicKey, orderB.TokenS, w.BalanceSBBefore),
		leafOf(orderB.PublicKey, orderB.TokenS, swapB.X),
	)
	updateBalanceBB := gadgets.AssertMerkleUpdateBits(
		api, hFunc, orderB.AccountBBits, w.ProofBalanceBB, updateBalanceSB.RootAfter,
		leafOf(orderB.PublicKey, orderB.TokenB, w.BalanceBBBefore),
		leafOf(orderB.PublicKey, orderB.TokenB, swapA.Y),
	)
	updateBalanceFB := gadgets.AssertMerkleUpdateBits(
		api, hFunc, orderB.AccountFBits, w.ProofBalanceFB, updateBalanceBB.RootAfter,
		leafOf(orderB.PublicKey, orderB.TokenF, w.BalanceFBBefore),
		leafOf(orderB.PublicKey, orderB.TokenF, feeB.X),
	)

	// Rate checks. rateCheckerB/rateCheckerFeeB use orderB's own
	// amounts, symmetric with A — the reference passes orderA's
	// amounts here by mistake (spec.md §9, "rateCheckerB operand
	// typo"); this is the corrected form.
	gadgets.AssertRate(api, w.FillSA, w.FillBA, orderA.AmountS, orderA.AmountB)
	gadgets.AssertRate(api, w.FillSB, w.FillBB, orderB.AmountS, orderB.AmountB)
	gadgets.AssertRate(api, w.FillFA, w.FillSA, orderA.AmountF, orderA.AmountS)
	gadgets.AssertRate(api, w.FillFB, w.FillSB, orderB.AmountF, orderB.AmountS)

	// Token symmetry.
	api.AssertIsEqual(orderA.TokenS, orderB.TokenB)
	api.AssertIsEqual(orderA.TokenB, orderB.TokenS)

	// Match feasibility.
	gadgets.AssertLeq(api, w.FillBB, w.FillSA)
	gadgets.AssertLeq(api, w.FillBA, w.FillSB)

	return &Result{
		NewTradingHistoryRoot: updateFilledB.RootAfter,
		NewAccountsRoot:       updateBalanceFB.RootAfter,
		PublicDataA: PublicData{
			DexID:          orderA.DexIDBits,
			OrderID:        orderA.OrderIDBits,
			AccountSelf:    orderA.AccountSBits,
			AccountCounter: orderB.AccountBBits,
			FillSelf:       fillSABits,
			AccountFeeSelf: orderA.AccountFBits,
			FillFeeSelf:    fillFABits,
		},
		PublicDataB: PublicData{
			DexID:          orderB.DexIDBits,
			OrderID:        orderB.OrderIDBits,
			AccountSelf:    orderB.AccountSBits,
			AccountCounter: orderA.AccountBBits,
			FillSelf:       fillSBBits,
			AccountFeeSelf: orderB.AccountFBits,
			FillFeeSelf:    fillFBBits,
		},
	}, nil
}

func filledAfter(api frontend.API, before, fill frontend.Variable) frontend.Variable {
	return api.Add(before, fill)
}

func leafOf(pubKey eddsa.PublicKey, token, balance frontend.Variable) []frontend.Variable {
	return []frontend.Variable{pubKey.A.X, pubKey.A.Y, token, balance}
}

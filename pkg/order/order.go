// Package order builds the order gadget of spec.md §4.5: range-checks
// on every order field, a canonical signed-message hash, and pure
// EdDSA verification against the order's own public key.
package order

import (
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/signature/eddsa"

	"ringsettlement/pkg/core"
	"ringsettlement/pkg/gadgets"
)

// Witness is the circuit-facing assignment for one order (spec.md
// §3, "Order"). WalletF is carried and range-checked but — per
// DESIGN.md's Open Question decision on the fee-wallet leg — is not
// folded into the signed message, matching the reference's own
// behavior of leaving it unbound.
type Witness struct {
	DexID    frontend.Variable
	OrderID  frontend.Variable
	AccountS frontend.Variable
	AccountB frontend.Variable
	AccountF frontend.Variable
	AmountS  frontend.Variable
	AmountB  frontend.Variable
	AmountF  frontend.Variable
	WalletF  frontend.Variable
	TokenS   frontend.Variable
	TokenB   frontend.Variable
	TokenF   frontend.Variable

	PublicKey eddsa.PublicKey
	Signature eddsa.Signature
}

// Order holds the bit-decomposed fields and packed values a
// ring-settlement gadget needs downstream: address bits for the two
// Merkle trees, and the packed amounts for the rate and match checks.
type Order struct {
	DexIDBits    []frontend.Variable
	OrderIDBits  []frontend.Variable
	AccountSBits []frontend.Variable
	AccountBBits []frontend.Variable
	AccountFBits []frontend.Variable
	AmountSBits  []frontend.Variable
	AmountBBits  []frontend.Variable
	AmountFBits  []frontend.Variable

	AmountS frontend.Variable
	AmountB frontend.Variable
	AmountF frontend.Variable

	TokenS frontend.Variable
	TokenB frontend.Variable
	TokenF frontend.Variable

	PublicKey eddsa.PublicKey
}

// Build range-checks every field, packs the canonical signing message
// (dexID, orderID, accountS, accountB, accountF, amountS, amountB,
// amountF — in that fixed order, matching the reference's flatten()
// call in Circuit.h's OrderGadget), and verifies the EdDSA signature.
func Build(api frontend.API, curve twistededwards.Curve, w Witness) (*Order, error) {
	o := &Order{
		DexIDBits:    gadgets.Decompose(api, w.DexID, core.BitsDexID),
		OrderIDBits:  gadgets.Decompose(api, w.OrderID, core.BitsOrderID),
		AccountSBits: gadgets.Decompose(api, w.AccountS, core.BitsAccount),
		AccountBBits: gadgets.Decompose(api, w.AccountB, core.BitsAccount),
		AccountFBits: gadgets.Decompose(api, w.AccountF, core.BitsAccount),
		AmountSBits:  gadgets.Decompose(api, w.AmountS, core.BitsAmount),
		AmountBBits:  gadgets.Decompose(api, w.AmountB, core.BitsAmount),
		AmountFBits:  gadgets.Decompose(api, w.AmountF, core.BitsAmount),

		AmountS: w.AmountS,
		AmountB: w.AmountB,
		AmountF: w.AmountF,

		TokenS: w.TokenS,
		TokenB: w.TokenB,
		TokenF: w.TokenF,

		PublicKey: w.PublicKey,
	}
	// walletF is range-checked but deliberately not bound into the
	// signed message or an account update — see DESIGN.md.
	gadgets.Decompose(api, w.WalletF, core.BitsWallet)

	hFunc, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	hFunc.Write(w.DexID, w.OrderID, w.AccountS, w.AccountB, w.AccountF, w.AmountS, w.AmountB, w.AmountF)
	msgHash := hFunc.Sum()

	hFunc.Reset()
	if err := eddsa.Verify(curve, w.Signature, msgHash, w.PublicKey, &hFunc); err != nil {
		return nil, err
	}

	return o, nil
}

// NewCurve builds the twisted-Edwards subgroup used for order
// signatures, matching the teacher's own curve choice in
// pkg/crypto/circuit.go.
func NewCurve(api frontend.API) (twistededwards.Curve, error) {
	return twistededwards.NewEdCurve(api, tedwards.BN254)
}

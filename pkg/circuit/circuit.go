// Package circuit assembles the top-level settlement circuit of
// spec.md §4.8: a chain of ring settlements between a declared
// trading-history root pair and a declared accounts root pair, closed
// by a SHA-256 binding of the flattened public data.
package circuit

import (
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"ringsettlement/pkg/core"
	"ringsettlement/pkg/gadgets"
	"ringsettlement/pkg/ring"
)

// SettlementCircuit is the public statement: a batch of Rings
// transforms (TradingHistoryRootBefore, AccountsRootBefore) into
// (TradingHistoryRootAfter, AccountsRootAfter), and PublicDataHash is
// the SHA-256 digest binding every ring's public data plus all four
// roots to a single field element the verifier checks against L1
// calldata (spec.md §6). Both post-roots are threaded independently —
// the reference collapses them into one chain across rings, a defect
// spec.md §9 documents and this circuit does not reproduce.
type SettlementCircuit struct {
	TradingHistoryRootBefore frontend.Variable `gnark:",public"`
	TradingHistoryRootAfter  frontend.Variable `gnark:",public"`
	AccountsRootBefore       frontend.Variable `gnark:",public"`
	AccountsRootAfter        frontend.Variable `gnark:",public"`
	PublicDataHash           frontend.Variable `gnark:",public"`

	Rings []ring.Witness

	cfg *core.Config
}

// NewCircuit pre-sizes Rings to cfg.NumRings, and every ring's Merkle
// proof slices to cfg's tree depths, so frontend.Compile sees a
// fixed-shape witness. pkg/witness.Builder produces assignments of
// this exact shape.
func NewCircuit(cfg *core.Config) *SettlementCircuit {
	rings := make([]ring.Witness, cfg.NumRings)
	for i := range rings {
		rings[i].ProofFilledA = make([]frontend.Variable, cfg.TreeDepthFilled)
		rings[i].ProofFilledB = make([]frontend.Variable, cfg.TreeDepthFilled)
		rings[i].ProofBalanceSA = make([]frontend.Variable, cfg.TreeDepthAccounts)
		rings[i].ProofBalanceBA = make([]frontend.Variable, cfg.TreeDepthAccounts)
		rings[i].ProofBalanceFA = make([]frontend.Variable, cfg.TreeDepthAccounts)
		rings[i].ProofBalanceSB = make([]frontend.Variable, cfg.TreeDepthAccounts)
		rings[i].ProofBalanceBB = make([]frontend.Variable, cfg.TreeDepthAccounts)
		rings[i].ProofBalanceFB = make([]frontend.Variable, cfg.TreeDepthAccounts)
	}
	return &SettlementCircuit{
		Rings: rings,
		cfg:   cfg,
	}
}

// Define implements spec.md §4.8's six-step assembly: build the
// curve, chain every ring's two independent root threads, assert the
// closing equalities against the declared after-roots, flatten every
// ring's public data together with all four roots, and assert the
// SHA-256 binding.
func (c *SettlementCircuit) Define(api frontend.API) error {
	curve, err := twistededwards.NewEdCurve(api, tedwards.BN254)
	if err != nil {
		return err
	}

	historyRoot := c.TradingHistoryRootBefore
	accountsRoot := c.AccountsRootBefore

	rootBits := gadgets.ReverseMSBFirst(gadgets.Decompose(api, c.TradingHistoryRootBefore, core.BitsRoot))
	rootBits = append(rootBits, gadgets.ReverseMSBFirst(gadgets.Decompose(api, c.TradingHistoryRootAfter, core.BitsRoot))...)
	rootBits = append(rootBits, gadgets.ReverseMSBFirst(gadgets.Decompose(api, c.AccountsRootBefore, core.BitsRoot))...)
	rootBits = append(rootBits, gadgets.ReverseMSBFirst(gadgets.Decompose(api, c.AccountsRootAfter, core.BitsRoot))...)

	publicBits := rootBits
	for i := range c.Rings {
		result, err := ring.Settle(api, curve, historyRoot, accountsRoot, c.Rings[i])
		if err != nil {
			return err
		}
		historyRoot = result.NewTradingHistoryRoot
		accountsRoot = result.NewAccountsRoot
		publicBits = append(publicBits, result.PublicDataA.Bits()...)
		publicBits = append(publicBits, result.PublicDataB.Bits()...)
	}

	// Closing constraints: both chains, not just the history one the
	// reference checks (spec.md §9, "the analogous accounts-root
	// equality, which a correct implementation must add").
	api.AssertIsEqual(historyRoot, c.TradingHistoryRootAfter)
	api.AssertIsEqual(accountsRoot, c.AccountsRootAfter)

	digestBits, err := HashPublicData(api, publicBits)
	if err != nil {
		return err
	}
	api.AssertIsEqual(gadgets.FromBits(api, reverseLittleEndian(digestBits)), c.PublicDataHash)
	return nil
}

// reverseLittleEndian flips an MSB-first bit slice into the
// little-endian order gadgets.FromBits expects.
func reverseLittleEndian(bits []frontend.Variable) []frontend.Variable {
	n := len(bits)
	out := make([]frontend.Variable, n)
	for i, b := range bits {
		out[n-1-i] = b
	}
	return out
}

package gadgets

import "github.com/consensys/gnark/frontend"

// RateChecker is the cross-product invariant of spec.md §4.3: given
// fillS, fillB, amountS, amountB, it introduces an auxiliary
// invariant and constrains
//
//	amountS * fillB = invariant
//	amountB * fillS = invariant
//
// which enforces fillS/fillB = amountS/amountB without division. The
// same shape checks the fee rate by passing (fillF, fillS, amountF,
// amountS) instead.
type RateChecker struct {
	Invariant frontend.Variable
}

// AssertRate builds the gadget and appends its two constraints.
func AssertRate(api frontend.API, fillS, fillB, amountS, amountB frontend.Variable) RateChecker {
	invariant := api.Mul(amountS, fillB)
	api.AssertIsEqual(api.Mul(amountB, fillS), invariant)
	return RateChecker{Invariant: invariant}
}

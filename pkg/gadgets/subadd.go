package gadgets

import (
	"github.com/consensys/gnark/frontend"

	"ringsettlement/pkg/core"
)

// SubAdd is the atomic-transfer gadget of spec.md §4.4: it moves
// delta from balanceFrom to balanceTo, algebraically and via a
// 96-bit range check on both outputs. The range check on X is what
// implicitly asserts balanceFrom >= delta — in the scalar field, an
// underflowing subtraction wraps around to a value with no 96-bit
// representation, so Decompose is unsatisfiable exactly when the
// source can't cover the delta.
type SubAdd struct {
	X frontend.Variable // balanceFrom - delta
	Y frontend.Variable // balanceTo + delta
}

// AssertSubAdd builds the gadget for a single transfer leg.
func AssertSubAdd(api frontend.API, balanceFrom, balanceTo, delta frontend.Variable) SubAdd {
	x := api.Sub(balanceFrom, delta)
	y := api.Add(balanceTo, delta)
	Decompose(api, x, core.BitsAmount)
	Decompose(api, y, core.BitsAmount)
	return SubAdd{X: x, Y: y}
}

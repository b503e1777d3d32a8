package gadgets

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/cmp"
)

// Leq is the comparison gadget of spec.md §4.2: given two operands
// known to fit in 128 bits, it exposes lt and leq as boolean wires
// (the "standard comparison encoding") and additionally asserts
// leq == 1, i.e. it asserts A <= B rather than merely computing the
// comparison. There is no compute-only form in this circuit — every
// call site wants the assertion.
type Leq struct {
	Lt  frontend.Variable
	Leq frontend.Variable
}

// AssertLeq builds the gadget and asserts a <= b. The operands are
// compared as whole field elements in [0, p); no 128-bit range check
// is applied to them here.
func AssertLeq(api frontend.API, a, b frontend.Variable) Leq {
	g := Leq{
		Lt:  cmp.IsLess(api, a, b),
		Leq: cmp.IsLessOrEqual(api, a, b),
	}
	api.AssertIsEqual(g.Leq, 1)
	return g
}

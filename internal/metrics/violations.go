package metrics

import "github.com/sludgeworks/asmsim/internal/biokin"

// Negativity counts observed cycles in which any component fell below zero.
// The step-size policy exists to keep this at zero; a nonzero value flags a
// too-aggressive safety fraction.
type Negativity struct {
	violations int
}

func NewNegativity() *Negativity {
	return &Negativity{}
}

func (n *Negativity) Name() string { return "negativity" }

func (n *Negativity) Observe(liquor biokin.ComponentVector) {
	for _, v := range liquor {
		if v < 0 {
			n.violations++
			break
		}
	}
}

func (n *Negativity) Value() float64 { return float64(n.violations) }

func (n *Negativity) Reset() { n.violations = 0 }

package integrators

import "github.com/sludgeworks/asmsim/internal/biokin"

// Euler advances the state by a single first-order step. One rate evaluation
// per call; the soluble step size is applied uniformly to every component,
// particulates included (see biokin.StepSizes).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(kin biokin.Kinetics, volume, totalInflow float64, inflow, current biokin.ComponentVector, pol biokin.StepPolicy) (biokin.ComponentVector, biokin.StepSizes, error) {
	rate, err := kin.RateOfChange(volume, totalInflow, inflow, current)
	if err != nil {
		return nil, biokin.StepSizes{}, err
	}
	if len(rate) != len(current) {
		return nil, biokin.StepSizes{}, biokin.ErrDimensionMismatch
	}

	sz := Sizes(current, rate, pol)

	next := make(biokin.ComponentVector, len(current))
	for i := range current {
		next[i] = current[i] + rate[i]*sz.Soluble
	}
	return next, sz, nil
}

package integrators

import "github.com/sludgeworks/asmsim/internal/biokin"

// RK4 advances the state by the classic four-stage fourth-order Runge-Kutta
// scheme. Exactly four rate evaluations per call, each against a perturbed
// full-length state; volume and total inflow are held constant across the
// stages. Each stage rate is copied into an owned buffer, so a kinetics
// model is free to reuse its rate slice between calls. As with Euler, the
// soluble step size is applied uniformly to every component.
type RK4 struct {
	k1, k2, k3, k4 biokin.ComponentVector
	scratch        biokin.ComponentVector
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureBuffers(n int) {
	if len(r.scratch) != n {
		r.k1 = make(biokin.ComponentVector, n)
		r.k2 = make(biokin.ComponentVector, n)
		r.k3 = make(biokin.ComponentVector, n)
		r.k4 = make(biokin.ComponentVector, n)
		r.scratch = make(biokin.ComponentVector, n)
	}
}

func (r *RK4) stage(dst biokin.ComponentVector, kin biokin.Kinetics, volume, totalInflow float64, inflow, state biokin.ComponentVector) error {
	rate, err := kin.RateOfChange(volume, totalInflow, inflow, state)
	if err != nil {
		return err
	}
	if len(rate) != len(dst) {
		return biokin.ErrDimensionMismatch
	}
	copy(dst, rate)
	return nil
}

func (r *RK4) Step(kin biokin.Kinetics, volume, totalInflow float64, inflow, current biokin.ComponentVector, pol biokin.StepPolicy) (biokin.ComponentVector, biokin.StepSizes, error) {
	n := len(current)
	r.ensureBuffers(n)

	if err := r.stage(r.k1, kin, volume, totalInflow, inflow, current); err != nil {
		return nil, biokin.StepSizes{}, err
	}

	sz := Sizes(current, r.k1, pol)
	h := sz.Soluble
	h2 := h / 2

	for i := 0; i < n; i++ {
		r.scratch[i] = current[i] + h2*r.k1[i]
	}
	if err := r.stage(r.k2, kin, volume, totalInflow, inflow, r.scratch); err != nil {
		return nil, sz, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = current[i] + h2*r.k2[i]
	}
	if err := r.stage(r.k3, kin, volume, totalInflow, inflow, r.scratch); err != nil {
		return nil, sz, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = current[i] + h*r.k3[i]
	}
	if err := r.stage(r.k4, kin, volume, totalInflow, inflow, r.scratch); err != nil {
		return nil, sz, err
	}

	next := make(biokin.ComponentVector, n)
	h6 := h / 6
	for i := 0; i < n; i++ {
		next[i] = current[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return next, sz, nil
}

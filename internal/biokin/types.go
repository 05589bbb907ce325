package biokin

import "math"

// ComponentVector holds the concentrations of all tracked model components
// in mg/L-equivalent units. Soluble components occupy the indices before the
// kinetics model's first-particulate boundary, particulate components the
// indices at and after it. Length is fixed by the kinetics model.
type ComponentVector []float64

func (c ComponentVector) Clone() ComponentVector {
	out := make(ComponentVector, len(c))
	copy(out, c)
	return out
}

func (c ComponentVector) IsValid() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// MaxRelDelta returns the largest relative change between c and prev,
// used for steady-state detection across discharge cycles. Vectors of
// different lengths are never steady; the delta is +Inf.
func (c ComponentVector) MaxRelDelta(prev ComponentVector) float64 {
	if len(c) != len(prev) {
		return math.Inf(1)
	}
	maxDelta := 0.0
	for i := range c {
		denom := math.Abs(prev[i])
		if denom < 1e-12 {
			denom = 1e-12
		}
		delta := math.Abs(c[i]-prev[i]) / denom
		if delta > maxDelta {
			maxDelta = delta
		}
	}
	return maxDelta
}

// Kinetics is the reaction-rate and stoichiometry collaborator. The rate of
// change combines the CSTR mass-balance term with the biochemical reaction
// terms for the current operating condition.
type Kinetics interface {
	// RateOfChange returns dC/dt for the given reactor volume, total inflow
	// rate, inflow concentrations and current mixed-liquor concentrations.
	// The returned vector has the same length as current.
	RateOfChange(volume, totalInflow float64, inflow, current ComponentVector) (ComponentVector, error)

	// UpdateConditions sets the operating temperature (degC) and dissolved
	// oxygen (mg/L). Temperatures below 4 degC and negative DO are rejected.
	UpdateConditions(tempC, do float64) error

	Params() map[string]float64
	Stoichiometry() map[string]float64

	NumComponents() int
	FirstParticulate() int
}

// StepPolicy configures how the stability-bound step sizes are derived from
// the rate vector before an explicit integration step.
type StepPolicy struct {
	// FirstParticulate is the index of the first particulate component.
	FirstParticulate int
	// SolubleFraction scales the soluble-partition bound, typically 0.05-0.20.
	SolubleFraction float64
	// ParticulateFraction scales the particulate-partition bound. Particulate
	// species change slowly, so values >= 1.0 are typical.
	ParticulateFraction float64
	// FallbackStep is used for a partition whose rates are all zero and which
	// therefore imposes no stability constraint.
	FallbackStep float64
}

// StepSizes is the per-partition step size report produced by the step-size
// controller. Both integrators apply Soluble uniformly to every component;
// Particulate is computed and surfaced but deliberately not applied, matching
// the established reactor behavior. Changing that would alter the simulated
// dynamics.
type StepSizes struct {
	Soluble     float64
	Particulate float64
}

// Integrator advances the mixed-liquor state by one explicit step. Volume and
// total inflow are held constant across all internal rate evaluations.
type Integrator interface {
	Step(kin Kinetics, volume, totalInflow float64, inflow, current ComponentVector, pol StepPolicy) (ComponentVector, StepSizes, error)
}

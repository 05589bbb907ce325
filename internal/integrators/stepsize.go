package integrators

import (
	"math"

	"github.com/sludgeworks/asmsim/internal/biokin"
)

// Unconstrained is the bound reported for a partition whose rates are all
// zero. Such a partition is at steady state and imposes no stability limit;
// callers substitute the policy's fallback step instead.
const Unconstrained = math.MaxFloat64

// PartitionBound returns the largest stable explicit step for the components
// in [lo, hi): the minimum over i of current[i]/|rate[i]|, the time at which
// component i alone would reach zero under constant rate. Zero-rate
// components impose no constraint and are skipped. Returns Unconstrained
// when every rate in the partition is zero.
func PartitionBound(current, rate biokin.ComponentVector, lo, hi int) float64 {
	bound := Unconstrained
	for i := lo; i < hi && i < len(rate); i++ {
		if rate[i] == 0 {
			continue
		}
		if b := current[i] / math.Abs(rate[i]); b < bound {
			bound = b
		}
	}
	return bound
}

// Sizes derives the per-partition step sizes from the current state and rate
// vector. Each partition's bound is scaled by its safety fraction; a
// partition with no constraint falls back to pol.FallbackStep unscaled.
// The soluble fraction never influences the particulate size and vice versa.
func Sizes(current, rate biokin.ComponentVector, pol biokin.StepPolicy) biokin.StepSizes {
	var sz biokin.StepSizes

	if b := PartitionBound(current, rate, 0, pol.FirstParticulate); b == Unconstrained {
		sz.Soluble = pol.FallbackStep
	} else {
		sz.Soluble = pol.SolubleFraction * b
	}

	if b := PartitionBound(current, rate, pol.FirstParticulate, len(rate)); b == Unconstrained {
		sz.Particulate = pol.FallbackStep
	} else {
		sz.Particulate = pol.ParticulateFraction * b
	}

	return sz
}

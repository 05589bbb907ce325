package integrators

import "github.com/sludgeworks/asmsim/internal/biokin"

// ForScheme returns a fresh integrator for the given scheme.
func ForScheme(s biokin.Scheme) biokin.Integrator {
	switch s {
	case biokin.SchemeRK4:
		return NewRK4()
	default:
		return NewEuler()
	}
}

package integrators

import (
	"testing"

	"github.com/sludgeworks/asmsim/internal/biokin"
)

func benchKinetics(n, first int) *stubKinetics {
	return &stubKinetics{
		n:     n,
		first: first,
		rate: func(c biokin.ComponentVector) biokin.ComponentVector {
			r := make(biokin.ComponentVector, len(c))
			for i := range c {
				r[i] = -0.1 * c[i]
			}
			return r
		},
	}
}

func benchState(n int) biokin.ComponentVector {
	c := make(biokin.ComponentVector, n)
	for i := range c {
		c[i] = 10.0 + float64(i)
	}
	return c
}

func BenchmarkEuler13(b *testing.B) {
	kin := benchKinetics(13, 7)
	current := benchState(13)
	inflow := benchState(13)
	pol := defaultPolicy(7)
	integ := NewEuler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		current, _, _ = integ.Step(kin, 380, 1000, inflow, current, pol)
	}
}

func BenchmarkRK413(b *testing.B) {
	kin := benchKinetics(13, 7)
	current := benchState(13)
	inflow := benchState(13)
	pol := defaultPolicy(7)
	integ := NewRK4()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		current, _, _ = integ.Step(kin, 380, 1000, inflow, current, pol)
	}
}

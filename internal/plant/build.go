package plant

import (
	"fmt"

	"github.com/sludgeworks/asmsim/internal/asm1"
	"github.com/sludgeworks/asmsim/internal/biokin"
	"github.com/sludgeworks/asmsim/internal/config"
	"github.com/sludgeworks/asmsim/internal/reactor"
	"github.com/sludgeworks/asmsim/internal/stream"
)

// FromConfig wires a reactor train per the configuration: one ASM1 model per
// reactor, the influent source feeding the first unit, every liquor seeded
// with the initial guess.
func FromConfig(cfg *config.Config) (*Plant, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scheme, err := biokin.ParseScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	influentComps, err := config.ComponentsFromMap(cfg.Influent.Components)
	if err != nil {
		return nil, err
	}
	guess, err := config.ComponentsFromMap(cfg.InitialGuess)
	if err != nil {
		return nil, err
	}

	p := New(stream.NewSource(cfg.Influent.Flow, influentComps))

	for _, rc := range cfg.Reactors {
		kin, err := asm1.New(rc.Temperature, rc.DissolvedOxygen)
		if err != nil {
			return nil, fmt.Errorf("reactor %s: %w", rc.Name, err)
		}
		r, err := reactor.New(rc.Name, kin, reactor.Config{
			ActiveVolume:        rc.Volume,
			SideWaterDepth:      rc.SideWaterDepth,
			Temperature:         rc.Temperature,
			DissolvedOxygen:     rc.DissolvedOxygen,
			Scheme:              scheme,
			SolubleFraction:     cfg.SolubleFraction,
			ParticulateFraction: cfg.ParticulateFraction,
			FallbackStep:        cfg.FallbackStep,
			SideFraction:        rc.SideFraction,
		})
		if err != nil {
			return nil, err
		}
		if err := r.AssignInitialGuess(guess); err != nil {
			return nil, err
		}
		p.AddReactor(r)
	}
	return p, nil
}

package plant

import (
	"context"
	"fmt"

	"github.com/sludgeworks/asmsim/internal/biokin"
	"github.com/sludgeworks/asmsim/internal/reactor"
	"github.com/sludgeworks/asmsim/internal/stream"
)

// Metric accumulates a scalar over the effluent of successive discharge
// cycles.
type Metric interface {
	Name() string
	Observe(liquor biokin.ComponentVector)
	Value() float64
	Reset()
}

// Observer is notified after every unit's discharge cycle.
type Observer interface {
	OnCycle(cycle int, unit string, liquor biokin.ComponentVector)
}

type Config struct {
	// Cycles is the number of discharge cycles to drive.
	Cycles int
	// SteadyTol stops the run early once the largest relative effluent
	// change over a cycle drops below it. Zero disables the check.
	SteadyTol float64
}

type Result struct {
	// Effluent holds the final unit's liquor after each cycle.
	Effluent  []biokin.ComponentVector
	CyclesRun int
	Converged bool
	Metrics   map[string]float64
}

// Plant drives an ordered train of reactors, one discharge cycle per unit
// per step. Units are connected by blending pipes; the influent source feeds
// the first unit and the last unit's main outlet feeds the effluent pipe.
type Plant struct {
	influent  *stream.Source
	units     []*reactor.Reactor
	pipes     []*stream.Pipe
	effluent  *stream.Pipe
	metrics   []Metric
	observers []Observer
}

func New(influent *stream.Source) *Plant {
	return &Plant{influent: influent}
}

func (p *Plant) AddMetric(m Metric)     { p.metrics = append(p.metrics, m) }
func (p *Plant) AddObserver(o Observer) { p.observers = append(p.observers, o) }

// AddReactor appends a unit to the train and wires it: the first unit draws
// from the influent source, each later unit from a pipe fed by its
// predecessor's main outlet.
func (p *Plant) AddReactor(r *reactor.Reactor) {
	n := len(p.units)
	if n == 0 {
		r.SetUpstream(p.influent)
	} else {
		pipe := stream.NewPipe(fmt.Sprintf("pipe_%d", n), len(p.influent.InflowComponents()))
		p.units[n-1].SetMainOutlet(pipe)
		p.pipes = append(p.pipes, pipe)
		r.SetUpstream(pipe)
	}

	p.effluent = stream.NewPipe("effluent", len(p.influent.InflowComponents()))
	r.SetMainOutlet(p.effluent)
	p.units = append(p.units, r)
}

func (p *Plant) Units() []*reactor.Reactor { return p.units }

// Effluent returns a copy of the current effluent pipe contents.
func (p *Plant) Effluent() biokin.ComponentVector {
	if p.effluent == nil {
		return nil
	}
	return p.effluent.InflowComponents()
}

// Run drives the train for cfg.Cycles discharge cycles or until the effluent
// reaches steady state. A cycle error aborts the run; the partial result is
// returned alongside it.
func (p *Plant) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Cycles <= 0 {
		return nil, fmt.Errorf("cycles must be positive, got %d", cfg.Cycles)
	}
	if len(p.units) == 0 {
		return nil, fmt.Errorf("plant has no reactors")
	}

	for _, m := range p.metrics {
		m.Reset()
	}

	result := &Result{
		Effluent: make([]biokin.ComponentVector, 0, cfg.Cycles),
		Metrics:  make(map[string]float64),
	}

	last := p.units[len(p.units)-1]
	prev := last.Liquor()

	for cycle := 0; cycle < cfg.Cycles; cycle++ {
		select {
		case <-ctx.Done():
			p.finish(result)
			return result, ctx.Err()
		default:
		}

		if err := p.Cycle(cycle); err != nil {
			p.finish(result)
			return result, err
		}

		liquor := last.Liquor()
		result.Effluent = append(result.Effluent, liquor)
		result.CyclesRun++

		for _, m := range p.metrics {
			m.Observe(liquor)
		}

		if cfg.SteadyTol > 0 && liquor.MaxRelDelta(prev) < cfg.SteadyTol {
			result.Converged = true
			break
		}
		prev = liquor
	}

	p.finish(result)
	return result, nil
}

// Cycle advances every unit by exactly one discharge cycle, flushing the
// inter-unit pipes first.
func (p *Plant) Cycle(cycle int) error {
	for _, pipe := range p.pipes {
		pipe.Reset()
	}
	if p.effluent != nil {
		p.effluent.Reset()
	}

	for _, r := range p.units {
		if err := r.Discharge(); err != nil {
			return err
		}
		liquor := r.Liquor()
		if !liquor.IsValid() {
			return fmt.Errorf("reactor %s: %w", r.Name(), biokin.ErrInvalidState)
		}
		for _, obs := range p.observers {
			obs.OnCycle(cycle, r.Name(), liquor)
		}
	}
	return nil
}

func (p *Plant) finish(result *Result) {
	for _, m := range p.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

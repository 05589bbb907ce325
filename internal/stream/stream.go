package stream

import (
	"fmt"

	"github.com/sludgeworks/asmsim/internal/biokin"
)

// Inlet supplies flow and inbound concentrations to a downstream unit.
type Inlet interface {
	TotalInflow() float64
	InflowComponents() biokin.ComponentVector
}

// Outlet accepts discharged flow. Implementations must copy the component
// vector; upstream and downstream snapshots never alias each other.
type Outlet interface {
	Receive(flow float64, comps biokin.ComponentVector)
}

// Pipe is a blending stream junction: it accumulates one or more inbound
// flows and exposes their flow-weighted mixture as a single inlet.
type Pipe struct {
	name  string
	flow  float64
	comps biokin.ComponentVector
}

func NewPipe(name string, numComponents int) *Pipe {
	return &Pipe{
		name:  name,
		comps: make(biokin.ComponentVector, numComponents),
	}
}

func (p *Pipe) Name() string { return p.name }

// Receive blends an inbound stream into the pipe contents. A component
// count that differs from the pipe's is a wiring error and panics; partial
// blending would silently corrupt the mixture.
func (p *Pipe) Receive(flow float64, comps biokin.ComponentVector) {
	if flow <= 0 {
		return
	}
	if len(comps) != len(p.comps) {
		panic(fmt.Sprintf("stream: pipe %q received %d components, want %d",
			p.name, len(comps), len(p.comps)))
	}
	total := p.flow + flow
	for i := range p.comps {
		p.comps[i] = (p.comps[i]*p.flow + comps[i]*flow) / total
	}
	p.flow = total
}

// Reset empties the pipe for the next cycle.
func (p *Pipe) Reset() {
	p.flow = 0
	for i := range p.comps {
		p.comps[i] = 0
	}
}

func (p *Pipe) TotalInflow() float64 { return p.flow }

func (p *Pipe) InflowComponents() biokin.ComponentVector {
	return p.comps.Clone()
}

// Source is a fixed influent boundary condition.
type Source struct {
	flow  float64
	comps biokin.ComponentVector
}

func NewSource(flow float64, comps biokin.ComponentVector) *Source {
	return &Source{flow: flow, comps: comps.Clone()}
}

func (s *Source) TotalInflow() float64 { return s.flow }

func (s *Source) InflowComponents() biokin.ComponentVector {
	return s.comps.Clone()
}

func (s *Source) SetFlow(flow float64) { s.flow = flow }

// Splitter forwards a fixed fraction of the received flow to the side
// outlet and the remainder to the main outlet, at unchanged concentrations.
type Splitter struct {
	main, side   Outlet
	sideFraction float64
}

func NewSplitter(main, side Outlet, sideFraction float64) *Splitter {
	return &Splitter{main: main, side: side, sideFraction: sideFraction}
}

func (s *Splitter) Receive(flow float64, comps biokin.ComponentVector) {
	if s.side != nil && s.sideFraction > 0 {
		s.side.Receive(flow*s.sideFraction, comps)
	}
	if s.main != nil {
		s.main.Receive(flow*(1-s.sideFraction), comps)
	}
}

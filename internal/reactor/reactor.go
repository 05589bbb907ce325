package reactor

import (
	"fmt"

	"github.com/sludgeworks/asmsim/internal/biokin"
	"github.com/sludgeworks/asmsim/internal/integrators"
	"github.com/sludgeworks/asmsim/internal/stream"
)

// CyclePhase tracks where a reactor is inside one discharge cycle. A cycle
// always runs Idle -> FlowResolved -> Snapshotted -> Integrated -> Published
// -> Idle within a single Discharge call.
type CyclePhase uint8

const (
	PhaseIdle CyclePhase = iota
	PhaseFlowResolved
	PhaseSnapshotted
	PhaseIntegrated
	PhasePublished
)

func (p CyclePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFlowResolved:
		return "flow resolved"
	case PhaseSnapshotted:
		return "snapshotted"
	case PhaseIntegrated:
		return "integrated"
	case PhasePublished:
		return "published"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Config holds construction-time reactor sizing and operating conditions.
type Config struct {
	ActiveVolume    float64 // m^3
	SideWaterDepth  float64 // m
	Temperature     float64 // degC
	DissolvedOxygen float64 // mg/L
	Scheme          biokin.Scheme
	// SolubleFraction and ParticulateFraction scale the stability-bound
	// step sizes; FallbackStep is used for unconstrained partitions.
	SolubleFraction     float64
	ParticulateFraction float64
	FallbackStep        float64
	// SideFraction of the resolved inflow leaves through the secondary
	// outlet; the remainder discharges through the main outlet.
	SideFraction float64
}

// DefaultConfig mirrors the conventional operating point: 380 m^3 active
// volume (about 100k gallons), 3.5 m side water depth, 20 degC, 2.0 mg/L DO,
// Euler stepping with a 5% soluble and 200% particulate safety fraction.
func DefaultConfig() Config {
	return Config{
		ActiveVolume:        380,
		SideWaterDepth:      3.5,
		Temperature:         20,
		DissolvedOxygen:     2.0,
		Scheme:              biokin.SchemeEuler,
		SolubleFraction:     0.05,
		ParticulateFraction: 2.0,
		FallbackStep:        1e-4,
	}
}

// Reactor is a continuously-stirred biological reactor: its mixed-liquor
// concentrations equal the concentrations leaving through both outlets.
// A Reactor exclusively owns its state vectors; nothing here is safe for
// concurrent use.
type Reactor struct {
	name string
	kin  biokin.Kinetics

	integ biokin.Integrator
	pol   biokin.StepPolicy

	activeVol float64
	swd       float64
	area      float64
	tempC     float64
	do        float64

	upstream     stream.Inlet
	mainOutlet   stream.Outlet
	sideFraction float64

	totalInflow float64
	inComps     biokin.ComponentVector
	liquor      biokin.ComponentVector
	soComps     biokin.ComponentVector
	prevMO      biokin.ComponentVector
	prevSO      biokin.ComponentVector
	mainFlow    float64
	sideFlow    float64

	lastSizes biokin.StepSizes
	phase     CyclePhase
}

// New builds a reactor with an explicitly assigned name. Identifier
// assignment is the caller's concern; there is no process-wide counter.
func New(name string, kin biokin.Kinetics, cfg Config) (*Reactor, error) {
	if cfg.ActiveVolume <= 0 {
		return nil, fmt.Errorf("%w: got %v m^3", biokin.ErrInvalidVolume, cfg.ActiveVolume)
	}
	if cfg.SideWaterDepth <= 0 {
		return nil, fmt.Errorf("reactor %s: side water depth must be positive, got %v m", name, cfg.SideWaterDepth)
	}
	if err := kin.UpdateConditions(cfg.Temperature, cfg.DissolvedOxygen); err != nil {
		return nil, fmt.Errorf("reactor %s: %w", name, err)
	}

	n := kin.NumComponents()
	r := &Reactor{
		name:      name,
		kin:       kin,
		integ:     integrators.ForScheme(cfg.Scheme),
		activeVol: cfg.ActiveVolume,
		swd:       cfg.SideWaterDepth,
		area:      cfg.ActiveVolume / cfg.SideWaterDepth,
		tempC:     cfg.Temperature,
		do:        cfg.DissolvedOxygen,
		pol: biokin.StepPolicy{
			FirstParticulate:    kin.FirstParticulate(),
			SolubleFraction:     cfg.SolubleFraction,
			ParticulateFraction: cfg.ParticulateFraction,
			FallbackStep:        cfg.FallbackStep,
		},
		sideFraction: cfg.SideFraction,
		inComps:      make(biokin.ComponentVector, n),
		liquor:       make(biokin.ComponentVector, n),
		soComps:      make(biokin.ComponentVector, n),
		prevMO:       make(biokin.ComponentVector, n),
		prevSO:       make(biokin.ComponentVector, n),
	}
	return r, nil
}

func (r *Reactor) Name() string          { return r.name }
func (r *Reactor) ActiveVolume() float64 { return r.activeVol }
func (r *Reactor) SurfaceArea() float64  { return r.area }
func (r *Reactor) Phase() CyclePhase     { return r.phase }

func (r *Reactor) Temperature() float64     { return r.tempC }
func (r *Reactor) DissolvedOxygen() float64 { return r.do }

func (r *Reactor) SetUpstream(in stream.Inlet)     { r.upstream = in }
func (r *Reactor) SetMainOutlet(out stream.Outlet) { r.mainOutlet = out }

// AssignInitialGuess seeds the mixed liquor and both outlet views with
// independent copies of the guess.
func (r *Reactor) AssignInitialGuess(guess biokin.ComponentVector) error {
	if len(guess) != r.kin.NumComponents() {
		return fmt.Errorf("%w: want %d components, got %d",
			biokin.ErrDimensionMismatch, r.kin.NumComponents(), len(guess))
	}
	r.liquor = guess.Clone()
	r.soComps = guess.Clone()
	return nil
}

// SetActiveVolume rejects non-positive volumes, leaving the reactor
// unchanged.
func (r *Reactor) SetActiveVolume(vol float64) error {
	if vol <= 0 {
		return fmt.Errorf("reactor %s: %w: got %v m^3", r.name, biokin.ErrInvalidVolume, vol)
	}
	r.activeVol = vol
	r.area = vol / r.swd
	return nil
}

// SetModelConditions forwards temperature and DO to the kinetics model. On
// rejection the reactor's conditions are left unchanged and the error is
// reported to the caller.
func (r *Reactor) SetModelConditions(tempC, do float64) error {
	if err := r.kin.UpdateConditions(tempC, do); err != nil {
		return fmt.Errorf("reactor %s: %w", r.name, err)
	}
	r.tempC = tempC
	r.do = do
	return nil
}

func (r *Reactor) ModelParams() map[string]float64 {
	return r.kin.Params()
}

func (r *Reactor) ModelStoichiometry() map[string]float64 {
	return r.kin.Stoichiometry()
}

// Liquor returns a copy of the current mixed-liquor concentrations.
func (r *Reactor) Liquor() biokin.ComponentVector { return r.liquor.Clone() }

// SecondaryOutlet returns a copy of the concentrations available to branch
// consumers. Under the CSTR assumption it equals the liquor after a cycle.
func (r *Reactor) SecondaryOutlet() biokin.ComponentVector { return r.soComps.Clone() }

// SideFlow returns the branch share of the last resolved inflow, paired
// with SecondaryOutlet for branch consumers.
func (r *Reactor) SideFlow() float64 { return r.sideFlow }

func (r *Reactor) PreviousMainOutlet() biokin.ComponentVector      { return r.prevMO.Clone() }
func (r *Reactor) PreviousSecondaryOutlet() biokin.ComponentVector { return r.prevSO.Clone() }

// LastStepSizes reports the step sizes of the most recent integration. The
// particulate entry is informational: both schemes apply the soluble step to
// every component.
func (r *Reactor) LastStepSizes() biokin.StepSizes { return r.lastSizes }

// Discharge advances the reactor by exactly one cycle: resolve flows, take
// pre-step snapshots, integrate, publish. Errors abort the cycle, return the
// reactor to idle, and propagate to the orchestrator.
func (r *Reactor) Discharge() error {
	if err := r.resolveFlow(); err != nil {
		r.phase = PhaseIdle
		return &CycleErr{r.name, PhaseFlowResolved, err}
	}
	r.phase = PhaseFlowResolved

	r.prevMO = r.liquor.Clone()
	r.prevSO = r.soComps.Clone()
	r.phase = PhaseSnapshotted

	next, sizes, err := r.integ.Step(r.kin, r.activeVol, r.totalInflow, r.inComps, r.liquor, r.pol)
	if err != nil {
		r.phase = PhaseIdle
		return &CycleErr{r.name, PhaseIntegrated, err}
	}
	r.liquor = next
	r.lastSizes = sizes
	r.phase = PhaseIntegrated

	r.soComps = r.liquor.Clone()
	if r.mainOutlet != nil {
		r.mainOutlet.Receive(r.mainFlow, r.liquor.Clone())
	}
	r.phase = PhasePublished

	r.phase = PhaseIdle
	return nil
}

func (r *Reactor) resolveFlow() error {
	if r.upstream == nil {
		return fmt.Errorf("no upstream inlet connected")
	}
	comps := r.upstream.InflowComponents()
	if len(comps) != r.kin.NumComponents() {
		return fmt.Errorf("%w: upstream supplies %d components, model expects %d",
			biokin.ErrDimensionMismatch, len(comps), r.kin.NumComponents())
	}
	r.totalInflow = r.upstream.TotalInflow()
	r.inComps = comps
	r.sideFlow = r.totalInflow * r.sideFraction
	r.mainFlow = r.totalInflow - r.sideFlow
	return nil
}

// CycleErr reports the reactor and cycle phase a discharge failure occurred
// in.
type CycleErr struct {
	Reactor string
	Phase   CyclePhase
	Wrapped error
}

func (e *CycleErr) Error() string {
	return fmt.Sprintf("reactor %s: %s: %v", e.Reactor, e.Phase, e.Wrapped)
}

func (e *CycleErr) Unwrap() error { return e.Wrapped }

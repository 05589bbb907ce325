package asm1

import (
	"fmt"
	"math"

	"github.com/sludgeworks/asmsim/internal/biokin"
)

// Component indices. Soluble components first, particulate components from
// FirstParticulate on. Dissolved oxygen is tracked as a state variable but
// held at the aeration setpoint, so its rate of change is always zero.
const (
	SDO  = iota // dissolved oxygen
	SI          // soluble inert organics
	SS          // readily biodegradable substrate
	SNH         // ammonia nitrogen
	SNS         // soluble biodegradable organic nitrogen
	SNO         // nitrate + nitrite nitrogen
	SALK        // alkalinity
	XI          // particulate inert organics
	XS          // slowly biodegradable substrate
	XBH         // active heterotrophic biomass
	XBA         // active autotrophic biomass
	XD          // biomass decay debris
	XNS         // particulate biodegradable organic nitrogen
)

const (
	NumComponents    = 13
	FirstParticulate = 7
)

// Names maps component indices to their conventional symbols.
var Names = [NumComponents]string{
	"S_DO", "S_I", "S_S", "S_NH", "S_NS", "S_NO", "S_ALK",
	"X_I", "X_S", "X_BH", "X_BA", "X_D", "X_NS",
}

// Kinetic constants at the 20 degC reference, units of 1/d and mg/L.
var defaultParams = map[string]float64{
	"u_max_H": 6.0,  // max heterotrophic growth rate
	"K_S":     20.0, // substrate half-saturation
	"K_OH":    0.2,  // heterotrophic DO half-saturation
	"K_NO":    0.5,  // nitrate half-saturation
	"b_LH":    0.62, // heterotrophic decay rate
	"u_max_A": 0.8,  // max autotrophic growth rate
	"K_NH":    1.0,  // ammonia half-saturation
	"K_OA":    0.4,  // autotrophic DO half-saturation
	"b_LA":    0.1,  // autotrophic decay rate
	"eta_g":   0.8,  // anoxic growth correction
	"eta_h":   0.4,  // anoxic hydrolysis correction
	"k_h":     3.0,  // max hydrolysis rate
	"K_X":     0.03, // hydrolysis half-saturation
	"k_a":     0.08, // ammonification rate
}

// Arrhenius temperature-correction coefficients for the rate constants.
var thetas = map[string]float64{
	"u_max_H": 1.08,
	"b_LH":    1.12,
	"u_max_A": 1.103,
	"b_LA":    1.12,
	"k_h":     1.12,
	"k_a":     1.072,
}

var defaultStoichs = map[string]float64{
	"Y_H":    0.67,  // heterotrophic yield, g COD/g COD
	"Y_A":    0.24,  // autotrophic yield, g COD/g N
	"f_D":    0.08,  // inert fraction of decayed biomass
	"i_N_XB": 0.086, // nitrogen content of active biomass
	"i_N_XD": 0.06,  // nitrogen content of decay debris
}

// Model is the IWA Activated Sludge Model No. 1 for a single CSTR: eight
// basic processes over thirteen components, with Monod switching functions
// and Arrhenius temperature correction of the kinetic constants.
type Model struct {
	tempC   float64
	do      float64
	params  map[string]float64 // temperature-corrected
	stoichs map[string]float64
}

func New(tempC, do float64) (*Model, error) {
	m := &Model{
		stoichs: make(map[string]float64, len(defaultStoichs)),
	}
	for k, v := range defaultStoichs {
		m.stoichs[k] = v
	}
	if err := m.UpdateConditions(tempC, do); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) NumComponents() int    { return NumComponents }
func (m *Model) FirstParticulate() int { return FirstParticulate }

func (m *Model) Temperature() float64     { return m.tempC }
func (m *Model) DissolvedOxygen() float64 { return m.do }

// UpdateConditions sets temperature and dissolved oxygen and recomputes the
// temperature-corrected kinetic constants. Conditions below 4 degC or with
// negative DO are rejected without touching the current state.
func (m *Model) UpdateConditions(tempC, do float64) error {
	if tempC < 4 || do < 0 {
		return fmt.Errorf("%w: temperature %.1f degC, DO %.2f mg/L",
			biokin.ErrInvalidCondition, tempC, do)
	}
	params := make(map[string]float64, len(defaultParams))
	for k, v := range defaultParams {
		if theta, ok := thetas[k]; ok {
			v *= math.Pow(theta, tempC-20)
		}
		params[k] = v
	}
	m.tempC = tempC
	m.do = do
	m.params = params
	return nil
}

func (m *Model) Params() map[string]float64 {
	out := make(map[string]float64, len(m.params))
	for k, v := range m.params {
		out[k] = v
	}
	return out
}

func (m *Model) Stoichiometry() map[string]float64 {
	out := make(map[string]float64, len(m.stoichs))
	for k, v := range m.stoichs {
		out[k] = v
	}
	return out
}

func monod(s, k float64) float64 {
	return s / (k + s)
}

// RateOfChange returns dC/dt for the reactor: the CSTR mass-balance term
// (Q/V)*(in - cur) plus the biochemical reaction terms. The DO rate is zero
// because aeration holds DO at the setpoint.
func (m *Model) RateOfChange(volume, totalInflow float64, inflow, current biokin.ComponentVector) (biokin.ComponentVector, error) {
	if len(inflow) != NumComponents || len(current) != NumComponents {
		return nil, fmt.Errorf("%w: want %d components, got inflow %d, current %d",
			biokin.ErrDimensionMismatch, NumComponents, len(inflow), len(current))
	}

	p, s := m.params, m.stoichs
	do := m.do

	aerobic := monod(do, p["K_OH"])
	anoxic := (p["K_OH"] / (p["K_OH"] + do)) * monod(current[SNO], p["K_NO"])

	// Process rates, mg/(L*d).
	r1 := p["u_max_H"] * monod(current[SS], p["K_S"]) * aerobic * current[XBH]
	r2 := p["u_max_H"] * monod(current[SS], p["K_S"]) * anoxic * p["eta_g"] * current[XBH]
	r3 := p["u_max_A"] * monod(current[SNH], p["K_NH"]) * monod(do, p["K_OA"]) * current[XBA]
	r4 := p["b_LH"] * current[XBH]
	r5 := p["b_LA"] * current[XBA]
	r6 := p["k_a"] * current[SNS] * current[XBH]

	var r7, r8 float64
	if current[XBH] > 0 {
		ratio := current[XS] / current[XBH]
		r7 = p["k_h"] * (ratio / (p["K_X"] + ratio)) *
			(aerobic + p["eta_h"]*anoxic) * current[XBH]
		if current[XS] > 0 {
			r8 = r7 * current[XNS] / current[XS]
		}
	}

	yh, ya := s["Y_H"], s["Y_A"]
	fd, inxb, inxd := s["f_D"], s["i_N_XB"], s["i_N_XD"]

	reaction := [NumComponents]float64{
		SDO:  0,
		SI:   0,
		SS:   -(r1+r2)/yh + r7,
		SNH:  -inxb*(r1+r2) - (inxb+1/ya)*r3 + r6,
		SNS:  -r6 + r8,
		SNO:  -(1-yh)/(2.86*yh)*r2 + r3/ya,
		SALK: -inxb/14*r1 + ((1-yh)/(14*2.86*yh)-inxb/14)*r2 - (inxb/14+1/(7*ya))*r3 + r6/14,
		XI:   0,
		XS:   (1-fd)*(r4+r5) - r7,
		XBH:  r1 + r2 - r4,
		XBA:  r3 - r5,
		XD:   fd * (r4 + r5),
		XNS:  (inxb-fd*inxd)*(r4+r5) - r8,
	}

	dilution := totalInflow / volume
	rate := make(biokin.ComponentVector, NumComponents)
	for i := range rate {
		if i == SDO {
			continue
		}
		rate[i] = dilution*(inflow[i]-current[i]) + reaction[i]
	}
	return rate, nil
}

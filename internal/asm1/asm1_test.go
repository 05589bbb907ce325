package asm1

import (
	"errors"
	"math"
	"testing"

	"github.com/sludgeworks/asmsim/internal/biokin"
)

func TestNewRejectsInvalidConditions(t *testing.T) {
	tests := []struct {
		name  string
		tempC float64
		do    float64
	}{
		{"sub-freezing temperature", 3.9, 2.0},
		{"negative DO", 20.0, -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.tempC, tt.do); !errors.Is(err, biokin.ErrInvalidCondition) {
				t.Errorf("expected ErrInvalidCondition, got %v", err)
			}
		})
	}
}

func TestUpdateConditionsLeavesStateOnError(t *testing.T) {
	m, err := New(20, 2.0)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	before := m.Params()

	if err := m.UpdateConditions(2, 2.0); err == nil {
		t.Fatal("expected rejection of 2 degC")
	}
	if m.Temperature() != 20 || m.DissolvedOxygen() != 2.0 {
		t.Errorf("conditions changed after rejected update: T=%v DO=%v",
			m.Temperature(), m.DissolvedOxygen())
	}
	after := m.Params()
	for k := range before {
		if before[k] != after[k] {
			t.Errorf("param %s changed after rejected update: %v -> %v", k, before[k], after[k])
		}
	}
}

func TestTemperatureCorrection(t *testing.T) {
	cold, err := New(10, 2.0)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	warm, err := New(20, 2.0)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}

	if cold.Params()["u_max_H"] >= warm.Params()["u_max_H"] {
		t.Error("expected slower heterotrophic growth at 10 degC than at 20 degC")
	}
	// Half-saturation constants carry no Arrhenius correction.
	if cold.Params()["K_S"] != warm.Params()["K_S"] {
		t.Error("K_S should not be temperature corrected")
	}
}

func TestRateOfChangeDimensionMismatch(t *testing.T) {
	m, _ := New(20, 2.0)
	short := make(biokin.ComponentVector, NumComponents-1)
	full := make(biokin.ComponentVector, NumComponents)

	if _, err := m.RateOfChange(380, 1000, short, full); !errors.Is(err, biokin.ErrDimensionMismatch) {
		t.Errorf("short inflow: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := m.RateOfChange(380, 1000, full, short); !errors.Is(err, biokin.ErrDimensionMismatch) {
		t.Errorf("short current: expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRateOfChangeLengthAndDO(t *testing.T) {
	m, _ := New(20, 2.0)
	inflow := typicalInfluent()
	current := typicalLiquor()

	rate, err := m.RateOfChange(380, 1000, inflow, current)
	if err != nil {
		t.Fatalf("rate of change: %v", err)
	}
	if len(rate) != NumComponents {
		t.Fatalf("expected %d rates, got %d", NumComponents, len(rate))
	}
	if rate[SDO] != 0 {
		t.Errorf("DO is held at setpoint, expected zero rate, got %v", rate[SDO])
	}
}

func TestPureDilutionWithoutBiomass(t *testing.T) {
	// Without biomass every biochemical process rate is zero, so dC/dt
	// reduces to the mass-balance term (Q/V)*(in-cur).
	m, _ := New(20, 2.0)

	inflow := make(biokin.ComponentVector, NumComponents)
	current := make(biokin.ComponentVector, NumComponents)
	inflow[SS] = 200.0
	current[SS] = 50.0
	inflow[SNH] = 25.0
	current[SNH] = 10.0

	vol, q := 380.0, 950.0
	rate, err := m.RateOfChange(vol, q, inflow, current)
	if err != nil {
		t.Fatalf("rate of change: %v", err)
	}

	for i := range rate {
		want := 0.0
		if i != SDO {
			want = q / vol * (inflow[i] - current[i])
		}
		if math.Abs(rate[i]-want) > 1e-9 {
			t.Errorf("%s: expected pure dilution rate %v, got %v", Names[i], want, rate[i])
		}
	}
}

func TestSubstrateConsumedByGrowth(t *testing.T) {
	m, _ := New(20, 2.0)
	current := typicalLiquor()
	// Inflow identical to liquor removes the dilution term, leaving only
	// reaction terms.
	rate, err := m.RateOfChange(380, 1000, current.Clone(), current)
	if err != nil {
		t.Fatalf("rate of change: %v", err)
	}
	if rate[SS] >= 0 {
		t.Errorf("expected net substrate consumption with active biomass, got %v", rate[SS])
	}
	if rate[SNO] <= 0 {
		t.Errorf("expected net nitrate production with nitrifiers present, got %v", rate[SNO])
	}
}

func TestParamsReturnsCopy(t *testing.T) {
	m, _ := New(20, 2.0)
	p := m.Params()
	p["u_max_H"] = -1

	if m.Params()["u_max_H"] == -1 {
		t.Error("Params() must return a copy, internal map was mutated")
	}
}

func typicalInfluent() biokin.ComponentVector {
	v := make(biokin.ComponentVector, NumComponents)
	v[SDO] = 0
	v[SI] = 30
	v[SS] = 200
	v[SNH] = 25
	v[SNS] = 6
	v[SALK] = 7
	v[XI] = 25
	v[XS] = 125
	v[XNS] = 10
	return v
}

func typicalLiquor() biokin.ComponentVector {
	v := make(biokin.ComponentVector, NumComponents)
	v[SDO] = 2
	v[SI] = 30
	v[SS] = 5
	v[SNH] = 4
	v[SNS] = 1
	v[SNO] = 12
	v[SALK] = 5
	v[XI] = 800
	v[XS] = 80
	v[XBH] = 1800
	v[XBA] = 120
	v[XD] = 400
	v[XNS] = 5
	return v
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sludgeworks/asmsim/internal/asm1"
	"github.com/sludgeworks/asmsim/internal/biokin"
)

const (
	DefaultCycles              = 2000
	DefaultSteadyTol           = 1e-6
	DefaultFlow                = 1000.0 // m^3/d
	DefaultVolume              = 380.0  // m^3, about 100k gallons
	DefaultSideWaterDepth      = 3.5    // m
	DefaultTemperature         = 20.0   // degC
	DefaultDO                  = 2.0    // mg/L
	DefaultSolubleFraction     = 0.05
	DefaultParticulateFraction = 2.0
	DefaultFallbackStep        = 1e-4
)

type Config struct {
	Scheme              string          `yaml:"scheme"`
	Cycles              int             `yaml:"cycles"`
	SteadyTol           float64         `yaml:"steady_tol"`
	SolubleFraction     float64         `yaml:"soluble_fraction"`
	ParticulateFraction float64         `yaml:"particulate_fraction"`
	FallbackStep        float64         `yaml:"fallback_step"`
	Influent            InfluentConfig  `yaml:"influent"`
	Reactors            []ReactorConfig `yaml:"reactors"`
	// InitialGuess seeds every reactor's mixed liquor, keyed by component
	// symbol (S_S, X_BH, ...). Unlisted components start at zero.
	InitialGuess map[string]float64 `yaml:"initial_guess"`
}

type InfluentConfig struct {
	Flow       float64            `yaml:"flow"`
	Components map[string]float64 `yaml:"components"`
}

type ReactorConfig struct {
	Name            string  `yaml:"name"`
	Volume          float64 `yaml:"volume"`
	SideWaterDepth  float64 `yaml:"side_water_depth"`
	Temperature     float64 `yaml:"temperature"`
	DissolvedOxygen float64 `yaml:"do"`
	SideFraction    float64 `yaml:"side_fraction"`
}

func DefaultConfig() *Config {
	return &Config{
		Scheme:              "euler",
		Cycles:              DefaultCycles,
		SteadyTol:           DefaultSteadyTol,
		SolubleFraction:     DefaultSolubleFraction,
		ParticulateFraction: DefaultParticulateFraction,
		FallbackStep:        DefaultFallbackStep,
		Influent: InfluentConfig{
			Flow: DefaultFlow,
			Components: map[string]float64{
				"S_I": 30, "S_S": 200, "S_NH": 25, "S_NS": 6, "S_ALK": 7,
				"X_I": 25, "X_S": 125, "X_NS": 10,
			},
		},
		Reactors: []ReactorConfig{{
			Name:            "CSTR_1",
			Volume:          DefaultVolume,
			SideWaterDepth:  DefaultSideWaterDepth,
			Temperature:     DefaultTemperature,
			DissolvedOxygen: DefaultDO,
		}},
		InitialGuess: map[string]float64{
			"S_DO": 2, "S_I": 30, "S_S": 5, "S_NH": 4, "S_NS": 1,
			"S_NO": 10, "S_ALK": 5,
			"X_I": 800, "X_S": 80, "X_BH": 1500, "X_BA": 100, "X_D": 300, "X_NS": 5,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := biokin.ParseScheme(c.Scheme); err != nil {
		return err
	}
	if c.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", c.Cycles)
	}
	if c.Influent.Flow <= 0 {
		return fmt.Errorf("influent flow must be positive, got %v", c.Influent.Flow)
	}
	if len(c.Reactors) == 0 {
		return fmt.Errorf("at least one reactor is required")
	}
	for _, r := range c.Reactors {
		if r.Volume <= 0 {
			return fmt.Errorf("reactor %s: volume must be positive, got %v", r.Name, r.Volume)
		}
		if r.SideFraction < 0 || r.SideFraction >= 1 {
			return fmt.Errorf("reactor %s: side fraction must be in [0, 1), got %v", r.Name, r.SideFraction)
		}
	}
	if _, err := ComponentsFromMap(c.Influent.Components); err != nil {
		return fmt.Errorf("influent: %w", err)
	}
	if _, err := ComponentsFromMap(c.InitialGuess); err != nil {
		return fmt.Errorf("initial guess: %w", err)
	}
	return nil
}

// ComponentsFromMap builds a full-length component vector from symbol-keyed
// concentrations. Unknown symbols are an error; missing ones default to zero.
func ComponentsFromMap(m map[string]float64) (biokin.ComponentVector, error) {
	vec := make(biokin.ComponentVector, asm1.NumComponents)
	for name, value := range m {
		idx := -1
		for i, known := range asm1.Names {
			if known == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("unknown component symbol %q", name)
		}
		vec[idx] = value
	}
	return vec, nil
}

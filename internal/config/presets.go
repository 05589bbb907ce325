package config

// Presets are ready-made plant configurations.
var Presets = map[string]*Config{
	"baseline": DefaultConfig(),
	"two-stage": {
		Scheme:              "euler",
		Cycles:              4000,
		SteadyTol:           DefaultSteadyTol,
		SolubleFraction:     DefaultSolubleFraction,
		ParticulateFraction: DefaultParticulateFraction,
		FallbackStep:        DefaultFallbackStep,
		Influent: InfluentConfig{
			Flow: 2000,
			Components: map[string]float64{
				"S_I": 30, "S_S": 250, "S_NH": 30, "S_NS": 8, "S_ALK": 7,
				"X_I": 30, "X_S": 150, "X_NS": 12,
			},
		},
		Reactors: []ReactorConfig{
			{Name: "CSTR_1", Volume: 500, SideWaterDepth: 4.0, Temperature: 20, DissolvedOxygen: 2.0},
			{Name: "CSTR_2", Volume: 800, SideWaterDepth: 4.0, Temperature: 20, DissolvedOxygen: 2.5},
		},
		InitialGuess: map[string]float64{
			"S_DO": 2, "S_I": 30, "S_S": 8, "S_NH": 6, "S_NS": 1,
			"S_NO": 8, "S_ALK": 5,
			"X_I": 900, "X_S": 100, "X_BH": 1800, "X_BA": 120, "X_D": 350, "X_NS": 6,
		},
	},
	"cold-weather": {
		Scheme:              "rk4",
		Cycles:              6000,
		SteadyTol:           DefaultSteadyTol,
		SolubleFraction:     DefaultSolubleFraction,
		ParticulateFraction: DefaultParticulateFraction,
		FallbackStep:        DefaultFallbackStep,
		Influent: InfluentConfig{
			Flow: 800,
			Components: map[string]float64{
				"S_I": 30, "S_S": 180, "S_NH": 22, "S_NS": 5, "S_ALK": 7,
				"X_I": 25, "X_S": 110, "X_NS": 9,
			},
		},
		Reactors: []ReactorConfig{
			{Name: "CSTR_1", Volume: 600, SideWaterDepth: 3.5, Temperature: 8, DissolvedOxygen: 3.0},
		},
		InitialGuess: map[string]float64{
			"S_DO": 3, "S_I": 30, "S_S": 10, "S_NH": 8, "S_NS": 1,
			"S_NO": 5, "S_ALK": 6,
			"X_I": 700, "X_S": 120, "X_BH": 1400, "X_BA": 80, "X_D": 250, "X_NS": 7,
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

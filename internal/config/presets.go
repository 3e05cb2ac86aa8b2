package config

import "sort"

// Preset is a named starting scenario for the training exercises.
type Preset struct {
	Description string
	Scenario    ScenarioConfig
	Trim        string
}

var Presets = map[string]Preset{
	"beam_reach": {
		Description: "wind on the beam, sail half out",
		Scenario:    ScenarioConfig{WindSpeed: 6, WindDirection: 90, SailAngle: 45, Duration: 60},
		Trim:        "hold",
	},
	"close_hauled": {
		Description: "pointing high, sail sheeted in",
		Scenario:    ScenarioConfig{WindSpeed: 6, WindDirection: 45, SailAngle: 15, Duration: 60},
		Trim:        "hold",
	},
	"running": {
		Description: "dead downwind, sail square",
		Scenario:    ScenarioConfig{WindSpeed: 6, WindDirection: 180, SailAngle: 85, Duration: 60},
		Trim:        "hold",
	},
	"light_air": {
		Description: "barely enough wind to fill the sail",
		Scenario:    ScenarioConfig{WindSpeed: 1.5, WindDirection: 100, SailAngle: 60, Duration: 120},
		Trim:        "auto",
	},
	"overpowered": {
		Description: "strong breeze forward of the beam",
		Scenario:    ScenarioConfig{WindSpeed: 14, WindDirection: 60, SailAngle: 30, Duration: 60},
		Trim:        "auto",
	},
	"in_irons": {
		Description: "head to wind, sail flogging",
		Scenario:    ScenarioConfig{WindSpeed: 6, WindDirection: 0, SailAngle: 0, Duration: 30},
		Trim:        "hold",
	},
	"oversheeted": {
		Description: "beam reach with the sail pinned in, stalled",
		Scenario:    ScenarioConfig{WindSpeed: 6, WindDirection: 90, SailAngle: 5, Duration: 60},
		Trim:        "hold",
	},
	"auto_trim": {
		Description: "oversheeted start, auto-trim finds the groove",
		Scenario:    ScenarioConfig{WindSpeed: 6, WindDirection: 90, SailAngle: 5, Duration: 60},
		Trim:        "auto",
	},
}

// GetPreset returns the default configuration with the named scenario
// applied, or nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenario = p.Scenario
	cfg.Trim.Mode = p.Trim
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import "sort"

func preset(matter MatterConfig, n int, l float64, traj bool) *Config {
	cfg := DefaultConfig()
	cfg.Matter = matter
	cfg.Grid = GridConfig{N: n, L: l}
	if traj {
		cfg.Trajectory.Enabled = true
		cfg.Trajectory.Position = [3]float64{0.3 * l, 0, 0}
		cfg.Trajectory.Velocity = [3]float64{0, 0.1, 0}
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"vacuum": {
		"flat": preset(MatterConfig{Preset: "vacuum"}, 4, 1.0, false),
	},
	"dust": {
		"uniform": preset(MatterConfig{Preset: "dust", Density: 1.0}, 8, 1.0, true),
	},
	"gaussian": {
		"compact": preset(MatterConfig{Preset: "gaussian", Density: 5.0, Sigma: 0.1}, 16, 1.0, true),
		"diffuse": preset(MatterConfig{Preset: "gaussian", Density: 1.0, Sigma: 0.4}, 16, 1.0, true),
		"hot":     preset(MatterConfig{Preset: "gaussian", Density: 2.0, Sigma: 0.2, W: 1.0 / 3}, 16, 1.0, true),
	},
	"rotating": {
		"slow": preset(MatterConfig{Preset: "rotating", Density: 2.0, Sigma: 0.2, Omega: 0.5}, 16, 1.0, true),
		"fast": preset(MatterConfig{Preset: "rotating", Density: 2.0, Sigma: 0.2, Omega: 3.0}, 16, 1.0, true),
	},
	"shell": {
		"thin": preset(MatterConfig{Preset: "shell", Density: 3.0, Radius: 0.3, Width: 0.03}, 24, 1.0, true),
	},
}

func GetPreset(matter, name string) *Config {
	matterPresets, ok := Presets[matter]
	if !ok {
		return nil
	}
	cfg, ok := matterPresets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(matter string) []string {
	matterPresets, ok := Presets[matter]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(matterPresets))
	for name := range matterPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

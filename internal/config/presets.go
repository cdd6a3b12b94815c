package config

import (
	"sort"

	"github.com/san-kum/boidsim/internal/flock"
)

// Presets are the tuning profiles. bullet is the shipped bullet game's
// tuning; classic, chase and swarm are picked from inside the documented
// parameter ranges to cover formation flying, a fast chase and a loose
// swarm.
var Presets = map[string]*Config{
	"bullet": {
		Profile: "bullet", Count: 15, Frames: 600, SampleEvery: 1,
		Spawn:    BoxConfig{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600},
		Velocity: BoxConfig{MinX: 0, MinY: -5, MaxX: 2, MaxY: 3},
		Params: flock.Params{
			SeekStrength: 0.2, CohesionStrength: 0.01,
			SeparationRadiusSq: 300, AlignmentRadiusSq: 100000, AlignmentStrength: 0.05,
		},
		Target: TargetConfig{Kind: TargetStatic, X: 300, Y: 150},
		Hits:   HitConfig{ContactRadius: 10, Damage: DefaultDamage, Health: DefaultHealth, ShotEvery: 20, ShotRange: 250},
	},
	"classic": {
		Profile: "classic", Count: 50, Frames: 1000, SampleEvery: 2,
		Spawn:    BoxConfig{MinX: 100, MinY: 900, MaxX: 200, MaxY: 1100},
		Velocity: BoxConfig{MinX: 0, MinY: -20, MaxX: 10, MaxY: 20},
		Params: flock.Params{
			SeekStrength: 0, CohesionStrength: 0.01,
			SeparationRadiusSq: 100, AlignmentRadiusSq: 10000, AlignmentStrength: 0.125,
		},
		Target: TargetConfig{Kind: TargetStatic, X: 500, Y: 500},
		Hits:   HitConfig{Health: DefaultHealth},
	},
	"chase": {
		Profile: "chase", Count: 30, Frames: 900, SampleEvery: 1,
		Spawn:    BoxConfig{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600},
		Velocity: BoxConfig{MinX: -2, MinY: -2, MaxX: 2, MaxY: 2},
		Params: flock.Params{
			SeekStrength: 1.0, CohesionStrength: 0.005,
			SeparationRadiusSq: 200, AlignmentRadiusSq: 50000, AlignmentStrength: 0.1,
		},
		Target: TargetConfig{Kind: TargetOrbit, X: 400, Y: 300, Radius: 200, Period: 360},
		Hits:   HitConfig{ContactRadius: 12, Damage: DefaultDamage, Health: DefaultHealth, ShotEvery: 15, ShotRange: 200},
	},
	"swarm": {
		Profile: "swarm", Count: 50, Frames: 1200, SampleEvery: 2,
		Spawn:    BoxConfig{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600},
		Velocity: BoxConfig{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1},
		Params: flock.Params{
			SeekStrength: 0.5, CohesionStrength: 0.0075,
			SeparationRadiusSq: 150, AlignmentRadiusSq: 20000, AlignmentStrength: 0.08,
		},
		Target: TargetConfig{Kind: TargetWander, X: 400, Y: 300, Radius: 300, Speed: 0.01},
		Hits:   HitConfig{ContactRadius: 10, Damage: DefaultDamage, Health: DefaultHealth, ShotEvery: 30, ShotRange: 150},
	},
}

// GetPreset returns a copy of the named profile, or nil if it does not exist.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

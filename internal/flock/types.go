package flock

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(factor float64) Vec2 {
	return Vec2{X: v.X * factor, Y: v.Y * factor}
}

// LenSq is the squared length; the update rule never needs the root.
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Params holds the tuning constants of one flock. Radii are squared
// distances in world units; strengths are per-frame magnitudes.
type Params struct {
	SeekStrength       float64 `json:"seek_strength" yaml:"seek_strength" toml:"seek_strength" msgpack:"seek_strength"`
	CohesionStrength   float64 `json:"cohesion_strength" yaml:"cohesion_strength" toml:"cohesion_strength" msgpack:"cohesion_strength"`
	SeparationRadiusSq float64 `json:"separation_radius_sq" yaml:"separation_radius_sq" toml:"separation_radius_sq" msgpack:"separation_radius_sq"`
	AlignmentRadiusSq  float64 `json:"alignment_radius_sq" yaml:"alignment_radius_sq" toml:"alignment_radius_sq" msgpack:"alignment_radius_sq"`
	AlignmentStrength  float64 `json:"alignment_strength" yaml:"alignment_strength" toml:"alignment_strength" msgpack:"alignment_strength"`
}

// DefaultParams returns the tuning used by the bullet game profile.
func DefaultParams() Params {
	return Params{
		SeekStrength:       0.2,
		CohesionStrength:   0.01,
		SeparationRadiusSq: 300,
		AlignmentRadiusSq:  100000,
		AlignmentStrength:  0.05,
	}
}

func (p Params) Validate() error {
	for _, name := range ParamNames() {
		v, _ := p.Get(name)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidParams, name, v)
		}
	}
	return nil
}

// Snapshot is a deep copy of a flock's state, safe to hand to another
// goroutine or to serialize.
type Snapshot struct {
	Positions  []Vec2   `json:"positions" msgpack:"positions"`
	Velocities []Vec2   `json:"velocities" msgpack:"velocities"`
	IDs        []uint64 `json:"ids" msgpack:"ids"`
	NextID     uint64   `json:"next_id" msgpack:"next_id"`
	Params     Params   `json:"params" msgpack:"params"`
}

// ParamNames lists the tunable parameter names accepted by Params.Set.
func ParamNames() []string {
	return []string{
		"seek_strength", "cohesion_strength", "separation_radius_sq",
		"alignment_radius_sq", "alignment_strength",
	}
}

func (p *Params) field(name string) (*float64, error) {
	switch name {
	case "seek_strength":
		return &p.SeekStrength, nil
	case "cohesion_strength":
		return &p.CohesionStrength, nil
	case "separation_radius_sq":
		return &p.SeparationRadiusSq, nil
	case "alignment_radius_sq":
		return &p.AlignmentRadiusSq, nil
	case "alignment_strength":
		return &p.AlignmentStrength, nil
	}
	return nil, fmt.Errorf("%w: unknown parameter %q", ErrInvalidParams, name)
}

// Get returns the named parameter.
func (p Params) Get(name string) (float64, error) {
	v, err := p.field(name)
	if err != nil {
		return 0, err
	}
	return *v, nil
}

// Set assigns the named parameter. Validation is left to Validate.
func (p *Params) Set(name string, value float64) error {
	v, err := p.field(name)
	if err != nil {
		return err
	}
	*v = value
	return nil
}

// Package target supplies the per-frame target point the flock seeks.
package target

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/flock"
)

// Path yields the target position for a given frame number.
type Path interface {
	At(frame int) flock.Vec2
}

// New builds the path described by cfg. seed only affects wander paths.
func New(cfg config.TargetConfig, seed int64) (Path, error) {
	center := flock.Vec2{X: cfg.X, Y: cfg.Y}
	switch cfg.Kind {
	case config.TargetStatic, "":
		return Static{Point: center}, nil
	case config.TargetOrbit:
		if cfg.Period <= 0 {
			return nil, fmt.Errorf("orbit period must be positive, got %v", cfg.Period)
		}
		return Orbit{Center: center, Radius: cfg.Radius, Period: cfg.Period}, nil
	case config.TargetWander:
		if cfg.Speed <= 0 {
			return nil, fmt.Errorf("wander speed must be positive, got %v", cfg.Speed)
		}
		return NewWander(center, cfg.Radius, cfg.Speed, seed), nil
	default:
		return nil, fmt.Errorf("unknown target kind: %s", cfg.Kind)
	}
}

type Static struct {
	Point flock.Vec2
}

func (s Static) At(int) flock.Vec2 { return s.Point }

// Orbit circles Center once every Period frames, starting at angle zero.
type Orbit struct {
	Center flock.Vec2
	Radius float64
	Period float64
}

func (o Orbit) At(frame int) flock.Vec2 {
	angle := 2 * math.Pi * float64(frame) / o.Period
	s, c := math.Sincos(angle)
	return flock.Vec2{X: o.Center.X + o.Radius*c, Y: o.Center.Y + o.Radius*s}
}

const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
	// yOffset decorrelates the two axes sampled from the same noise field.
	yOffset = 1000.0
)

// Wander drifts around Center along smooth Perlin noise, staying within
// Radius of it on each axis.
type Wander struct {
	Center flock.Vec2
	Radius float64
	Speed  float64
	noise  *perlin.Perlin
}

func NewWander(center flock.Vec2, radius, speed float64, seed int64) *Wander {
	return &Wander{
		Center: center,
		Radius: radius,
		Speed:  speed,
		noise:  perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

func (w *Wander) At(frame int) flock.Vec2 {
	t := float64(frame) * w.Speed
	nx := clampUnit(w.noise.Noise1D(t))
	ny := clampUnit(w.noise.Noise1D(t + yOffset))
	return flock.Vec2{X: w.Center.X + w.Radius*nx, Y: w.Center.Y + w.Radius*ny}
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/boidsim/internal/flock"
)

const (
	DefaultProfile     = "bullet"
	DefaultCount       = 15
	DefaultFrames      = 600
	DefaultSampleEvery = 1
	DefaultWidth       = 800.0
	DefaultHeight      = 600.0
	DefaultHealth      = 100.0
	DefaultDamage      = -2.0
)

// Target path kinds.
const (
	TargetStatic = "static"
	TargetOrbit  = "orbit"
	TargetWander = "wander"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Profile     string       `yaml:"profile" toml:"profile"`
	Count       int          `yaml:"count" toml:"count"`
	Seed        int64        `yaml:"seed" toml:"seed"`
	Frames      int          `yaml:"frames" toml:"frames"`
	SampleEvery int          `yaml:"sample_every" toml:"sample_every"`
	Spawn       BoxConfig    `yaml:"spawn" toml:"spawn"`
	Velocity    BoxConfig    `yaml:"velocity" toml:"velocity"`
	Params      flock.Params `yaml:"params" toml:"params"`
	Target      TargetConfig `yaml:"target" toml:"target"`
	Hits        HitConfig    `yaml:"hits" toml:"hits"`
}

// BoxConfig is an axis-aligned spawn box. Inverted boxes are accepted.
type BoxConfig struct {
	MinX float64 `yaml:"min_x" toml:"min_x"`
	MinY float64 `yaml:"min_y" toml:"min_y"`
	MaxX float64 `yaml:"max_x" toml:"max_x"`
	MaxY float64 `yaml:"max_y" toml:"max_y"`
}

func (b BoxConfig) Bounds() (lo, hi flock.Vec2) {
	return flock.Vec2{X: b.MinX, Y: b.MinY}, flock.Vec2{X: b.MaxX, Y: b.MaxY}
}

type TargetConfig struct {
	Kind   string  `yaml:"kind" toml:"kind"`
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Radius float64 `yaml:"radius" toml:"radius"`
	Period float64 `yaml:"period" toml:"period"` // frames per revolution (orbit)
	Speed  float64 `yaml:"speed" toml:"speed"`   // noise advance per frame (wander)
}

// HitConfig describes the engagement between the target (the player) and
// the flock. A zero ShotEvery disables shooting.
type HitConfig struct {
	ContactRadius float64 `yaml:"contact_radius" toml:"contact_radius"`
	Damage        float64 `yaml:"damage" toml:"damage"`
	Health        float64 `yaml:"health" toml:"health"`
	ShotEvery     int     `yaml:"shot_every" toml:"shot_every"`
	ShotRange     float64 `yaml:"shot_range" toml:"shot_range"`
}

func DefaultConfig() *Config {
	return &Config{
		Profile:     DefaultProfile,
		Count:       DefaultCount,
		Frames:      DefaultFrames,
		SampleEvery: DefaultSampleEvery,
		Spawn:       BoxConfig{MaxX: DefaultWidth, MaxY: DefaultHeight},
		Velocity:    BoxConfig{MinX: 0, MinY: -5, MaxX: 2, MaxY: 3},
		Params:      flock.DefaultParams(),
		Target: TargetConfig{
			Kind: TargetStatic,
			X:    300,
			Y:    150,
		},
		Hits: HitConfig{
			ContactRadius: 10,
			Damage:        DefaultDamage,
			Health:        DefaultHealth,
		},
	}
}

// Load reads a YAML or TOML config file (chosen by extension) over the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file at path over cfg. Keys absent from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidConfig, c.Count)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, c.Frames)
	}
	if c.SampleEvery < 1 {
		return fmt.Errorf("%w: sample_every must be at least 1, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Target.Kind {
	case TargetStatic:
	case TargetOrbit:
		if c.Target.Period <= 0 {
			return fmt.Errorf("%w: orbit period must be positive", ErrInvalidConfig)
		}
	case TargetWander:
		if c.Target.Speed <= 0 {
			return fmt.Errorf("%w: wander speed must be positive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown target kind %q", ErrInvalidConfig, c.Target.Kind)
	}
	if c.Hits.ContactRadius < 0 || c.Hits.ShotRange < 0 || c.Hits.ShotEvery < 0 {
		return fmt.Errorf("%w: hit settings must be non-negative", ErrInvalidConfig)
	}
	return nil
}

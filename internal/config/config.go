package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/spawn"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultMinX     = 0.0
	DefaultMinY     = 0.0
	DefaultMaxX     = 21.0
	DefaultMaxY     = 50.0
	DefaultInterval = 5.0
	DefaultSpawnY   = 20.0
)

type Config struct {
	Dt           float64          `yaml:"dt"`
	Duration     float64          `yaml:"duration"`
	Substeps     int              `yaml:"substeps"`
	Gravity      float64          `yaml:"gravity"`
	Friction     float64          `yaml:"friction"`
	Bounce       float64          `yaml:"bounce"`
	MaxParticles int              `yaml:"max_particles"`
	Bounds       BoundsConfig     `yaml:"bounds"`
	Spawn        SpawnConfig      `yaml:"spawn"`
	Particles    []ParticleConfig `yaml:"particles"`
}

type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

type SpawnConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Interval float64 `yaml:"interval"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
}

type ParticleConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Radius float64 `yaml:"radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Substeps: engine.DefaultSubsteps,
		Gravity:  engine.DefaultGravity,
		Friction: engine.DefaultFriction,
		Bounce:   engine.DefaultBounce,
		Bounds: BoundsConfig{
			MinX: DefaultMinX, MinY: DefaultMinY,
			MaxX: DefaultMaxX, MaxY: DefaultMaxY,
		},
		Spawn: SpawnConfig{
			Enabled:  true,
			Interval: DefaultInterval,
			Y:        DefaultSpawnY,
			VX:       0.05,
		},
		Particles: []ParticleConfig{
			{X: 5, Y: 20, VX: 0.1},
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

// EngineBounds converts the yaml bounds block to the solver's type.
func (c *Config) EngineBounds() engine.Bounds {
	return engine.NewBounds(c.Bounds.MinX, c.Bounds.MinY, c.Bounds.MaxX, c.Bounds.MaxY)
}

// Solver builds a solver carrying the configured parameters.
func (c *Config) Solver() *engine.Solver {
	return &engine.Solver{
		Gravity:  c.Gravity,
		Friction: c.Friction,
		Bounce:   c.Bounce,
		Substeps: c.Substeps,
	}
}

// InitialParticles instantiates the configured particle list with
// sequential IDs starting at zero.
func (c *Config) InitialParticles() []*engine.Particle {
	ps := make([]*engine.Particle, 0, len(c.Particles))
	for i, pc := range c.Particles {
		p := engine.New(i, pc.X, pc.Y, pc.VX, pc.VY)
		if pc.Radius > 0 {
			p.Radius = pc.Radius
		}
		ps = append(ps, p)
	}
	return ps
}

// Emitter builds the configured spawner, or nil when spawning is off.
// IDs continue after the initial particle list.
func (c *Config) Emitter() *spawn.Emitter {
	if !c.Spawn.Enabled {
		return nil
	}
	return spawn.New(c.Spawn.Interval, c.Spawn.X, c.Spawn.Y, c.Spawn.VX, c.Spawn.VY, len(c.Particles))
}

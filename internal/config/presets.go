package config

var Presets = map[string]*Config{
	"drop": {
		Dt: DefaultDt, Duration: 10.0,
		Substeps: 8, Gravity: -9.8, Friction: 0.99, Bounce: 0.95,
		Bounds: BoundsConfig{MinX: 0, MinY: 0, MaxX: 21, MaxY: 50},
		Particles: []ParticleConfig{
			{X: 10.5, Y: 45, VX: 0, VY: 0},
		},
	},
	"fountain": {
		Dt: DefaultDt, Duration: 30.0,
		Substeps: 8, Gravity: -9.8, Friction: 0.99, Bounce: 0.95,
		Bounds: BoundsConfig{MinX: 0, MinY: 0, MaxX: 30, MaxY: 60},
		Spawn:  SpawnConfig{Enabled: true, Interval: 0.5, X: 15, Y: 5, VX: 0.08, VY: 0.6},
	},
	"rain": {
		Dt: DefaultDt, Duration: 60.0,
		Substeps: 8, Gravity: -9.8, Friction: 0.99, Bounce: 0.95,
		MaxParticles: 200,
		Bounds:       BoundsConfig{MinX: 0, MinY: 0, MaxX: 40, MaxY: 60},
		Spawn:        SpawnConfig{Enabled: true, Interval: 0.25, X: 2, Y: 55, VX: 0.3, VY: 0},
	},
	"pile": {
		Dt: DefaultDt, Duration: 20.0,
		Substeps: 8, Gravity: -9.8, Friction: 0.99, Bounce: 0.95,
		Bounds: BoundsConfig{MinX: 0, MinY: 0, MaxX: 21, MaxY: 50},
		Particles: []ParticleConfig{
			{X: 4, Y: 30}, {X: 7, Y: 34}, {X: 10, Y: 38},
			{X: 13, Y: 34}, {X: 16, Y: 30}, {X: 10, Y: 44},
			{X: 6, Y: 42}, {X: 14, Y: 42},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if none
// exists. Callers overlay their own settings on the result, so the
// shared entries in Presets must never be handed out directly.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	out.Particles = append([]ParticleConfig(nil), cfg.Particles...)
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

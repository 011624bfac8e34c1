package engine

import (
	"fmt"
	"math"
)

// Default solver parameters. Gravity points down (negative y).
const (
	DefaultGravity  = -9.8
	DefaultFriction = 0.99
	DefaultBounce   = 0.95
	DefaultSubsteps = 8
)

// Solver advances a caller-owned particle set under gravity. It holds
// no particle storage of its own and keeps no state between frames, so
// a single Solver can serve any number of particle sets.
type Solver struct {
	Gravity  float64
	Friction float64
	Bounce   float64
	Substeps int
}

// NewSolver returns a solver with the default parameters.
func NewSolver() *Solver {
	return &Solver{
		Gravity:  DefaultGravity,
		Friction: DefaultFriction,
		Bounce:   DefaultBounce,
		Substeps: DefaultSubsteps,
	}
}

// Step advances every particle by one frame of dtFrame seconds. The
// frame is split into Substeps equal substeps; within each substep all
// particles are integrated first, then all unordered pairs are checked
// and resolved, so collisions are corrected at substep resolution.
func (s *Solver) Step(ps []*Particle, b Bounds, dtFrame float64) {
	subDt := dtFrame / float64(s.Substeps)

	for n := 0; n < s.Substeps; n++ {
		for _, p := range ps {
			p.ApplyAcceleration(0, s.Gravity)
			s.Integrate(p, b, subDt)
		}

		for i := 0; i < len(ps); i++ {
			for j := i + 1; j < len(ps); j++ {
				if Colliding(ps[i], ps[j]) {
					Resolve(ps[i], ps[j], s.Friction)
				}
			}
		}
	}
}

// Integrate advances p one Verlet substep and clamps it to b. The
// implicit velocity is damped by Friction once per substep, so the
// effective drag compounds with the substep count.
func (s *Solver) Integrate(p *Particle, b Bounds, dt float64) {
	velX := p.VelX() * s.Friction
	velY := p.VelY() * s.Friction

	p.OldX = p.X
	p.OldY = p.Y

	p.X += velX + p.AccX*dt*dt
	p.Y += velY + p.AccY*dt*dt

	p.AccX = 0
	p.AccY = 0

	b.Constrain(p, Horizontal, s.Friction, s.Bounce)
	b.Constrain(p, Vertical, s.Friction, s.Bounce)
}

// Kinetic returns the summed kinetic energy of the set, treating every
// particle as unit mass and the implicit per-substep velocity as the
// speed. Useful for observing settling behavior.
func Kinetic(ps []*Particle) float64 {
	total := 0.0
	for _, p := range ps {
		vx, vy := p.VelX(), p.VelY()
		total += 0.5 * (vx*vx + vy*vy)
	}
	return total
}

// Valid reports whether every particle has finite position and history.
func Valid(ps []*Particle) bool {
	for _, p := range ps {
		for _, v := range [4]float64{p.X, p.Y, p.OldX, p.OldY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// GetParams exposes the tunable solver parameters by name.
func (s *Solver) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":  s.Gravity,
		"friction": s.Friction,
		"bounce":   s.Bounce,
	}
}

// SetParam adjusts a named parameter. Friction and bounce are damping
// factors and must stay in (0, 1].
func (s *Solver) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		s.Gravity = value
	case "friction":
		if value <= 0 || value > 1 {
			return fmt.Errorf("%w: friction %v", ErrParameterBounds, value)
		}
		s.Friction = value
	case "bounce":
		if value <= 0 || value > 1 {
			return fmt.Errorf("%w: bounce %v", ErrParameterBounds, value)
		}
		s.Bounce = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return nil
}

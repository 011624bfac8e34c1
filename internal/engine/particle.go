package engine

// DefaultRadius is the collision radius assigned by New.
const DefaultRadius = 1.0

// Particle is a single point mass. OldX/OldY always hold the resolved
// position from exactly one substep ago, never a pre-correction value,
// so the implicit velocity already reflects the last substep's wall
// bounces and collision corrections.
type Particle struct {
	ID         int
	X, Y       float64
	OldX, OldY float64
	Radius     float64
	AccX, AccY float64

	// Hue is a cosmetic tag for hosts that render particles. The
	// solver never reads it.
	Hue uint8
}

// New creates a particle at (x, y) moving at (vx, vy). The previous
// position is back-projected by one step so that the first Verlet
// update yields exactly (vx, vy) as the implicit velocity.
func New(id int, x, y, vx, vy float64) *Particle {
	return &Particle{
		ID:     id,
		X:      x,
		Y:      y,
		OldX:   x - vx,
		OldY:   y - vy,
		Radius: DefaultRadius,
	}
}

// VelX returns the implicit horizontal velocity in units per substep.
func (p *Particle) VelX() float64 { return p.X - p.OldX }

// VelY returns the implicit vertical velocity in units per substep.
func (p *Particle) VelY() float64 { return p.Y - p.OldY }

// ApplyAcceleration accumulates an acceleration to be consumed by the
// next integration step. Calls superpose, so gravity and any other
// force sources can be applied independently before integrating.
func (p *Particle) ApplyAcceleration(ax, ay float64) {
	p.AccX += ax
	p.AccY += ay
}

// Clone returns a copy with the force accumulator cleared.
func (p *Particle) Clone() *Particle {
	c := *p
	c.AccX = 0
	c.AccY = 0
	return &c
}

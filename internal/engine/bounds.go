package engine

// Axis selects which coordinate a boundary constraint acts on.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Bounds is an axis-aligned rectangle that particles may not leave.
// It is immutable for the lifetime of a simulation.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// NewBounds returns a boundary with the given extents.
func NewBounds(minX, minY, maxX, maxY float64) Bounds {
	return Bounds{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
}

// Contains reports whether p lies inside the rectangle on both axes.
func (b Bounds) Contains(p *Particle) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Constrain clamps p to the boundary on one axis. On overshoot the
// position is set to the limit and the previous position is rewritten
// to limit + vel*friction*bounce, which reverses the implicit velocity
// for the next step. The velocity is read before clamping, so it is
// the raw post-move delta. Friction is applied here on top of the
// per-substep damping in Integrate; the double application is part of
// the physical model, not an accident.
func (b Bounds) Constrain(p *Particle, axis Axis, friction, bounce float64) {
	switch axis {
	case Horizontal:
		if p.X > b.MaxX {
			vel := p.VelX() * friction
			p.X = b.MaxX
			p.OldX = b.MaxX + vel*bounce
		} else if p.X < b.MinX {
			vel := p.VelX() * friction
			p.X = b.MinX
			p.OldX = b.MinX + vel*bounce
		}
	case Vertical:
		if p.Y > b.MaxY {
			vel := p.VelY() * friction
			p.Y = b.MaxY
			p.OldY = b.MaxY + vel*bounce
		} else if p.Y < b.MinY {
			vel := p.VelY() * friction
			p.Y = b.MinY
			p.OldY = b.MinY + vel*bounce
		}
	}
}

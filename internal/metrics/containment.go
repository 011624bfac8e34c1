package metrics

import (
	"github.com/mkoval/verlab/internal/engine"
)

// Containment counts particle-frames observed outside the boundary.
// The boundary constraint clamps on every substep, so anything above
// zero means the solver leaked.
type Containment struct {
	name       string
	bounds     engine.Bounds
	violations int
}

func NewContainment(b engine.Bounds) *Containment {
	return &Containment{name: "containment_violations", bounds: b}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(ps []*engine.Particle, t float64) {
	for _, p := range ps {
		if !c.bounds.Contains(p) {
			c.violations++
		}
	}
}

func (c *Containment) Value() float64 { return float64(c.violations) }

func (c *Containment) Reset() { c.violations = 0 }

package metrics

import (
	"github.com/mkoval/verlab/internal/engine"
)

// Penetration records the worst residual pair overlap seen across a
// run. A healthy solver keeps this near zero; growth indicates the
// substep count is too low for the velocities involved.
type Penetration struct {
	name string
	max  float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(ps []*engine.Particle, t float64) {
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			overlap := ps[i].Radius + ps[j].Radius - engine.Dist(ps[i], ps[j])
			if overlap > p.max {
				p.max = overlap
			}
		}
	}
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }

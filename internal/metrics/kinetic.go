// Package metrics provides per-run observers that reduce a particle
// simulation to scalar quality measures.
package metrics

import (
	"github.com/mkoval/verlab/internal/engine"
)

// Kinetic tracks the mean total kinetic energy of the set across a
// run, treating every particle as unit mass. A settling pile drives
// this toward zero.
type Kinetic struct {
	name    string
	samples int
	total   float64
}

func NewKinetic() *Kinetic {
	return &Kinetic{name: "kinetic"}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) Observe(ps []*engine.Particle, t float64) {
	k.total += engine.Kinetic(ps)
	k.samples++
}

func (k *Kinetic) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *Kinetic) Reset() {
	k.total = 0
	k.samples = 0
}

// Package spawn feeds new particles into a running simulation at a
// fixed cadence. Spawning is strictly frame-aligned: the runner calls
// Tick between frames, never mid-substep, so the active set is stable
// for the duration of a solver step.
package spawn

import "github.com/mkoval/verlab/internal/engine"

// Emitter creates particles at a fixed interval with a deterministic
// initial velocity. IDs increase monotonically from the first ID the
// emitter was constructed with.
type Emitter struct {
	Interval   float64 // seconds between spawns
	X, Y       float64
	VelX, VelY float64
	Enabled    bool

	nextID  int
	elapsed float64
}

// New returns an enabled emitter spawning at (x, y) with velocity
// (vx, vy) every interval seconds, assigning IDs from firstID.
func New(interval, x, y, vx, vy float64, firstID int) *Emitter {
	return &Emitter{
		Interval: interval,
		X:        x,
		Y:        y,
		VelX:     vx,
		VelY:     vy,
		Enabled:  true,
		nextID:   firstID,
	}
}

// Tick advances the emitter clock by dt and returns the particles due
// in that window, zero or more. A dt spanning several intervals yields
// several particles, so spawn cadence is independent of frame rate.
func (e *Emitter) Tick(dt float64) []*engine.Particle {
	if !e.Enabled || e.Interval <= 0 {
		return nil
	}

	e.elapsed += dt

	var out []*engine.Particle
	for e.elapsed >= e.Interval {
		e.elapsed -= e.Interval
		out = append(out, engine.New(e.nextID, e.X, e.Y, e.VelX, e.VelY))
		e.nextID++
	}
	return out
}

// NextID returns the ID the next spawned particle will receive.
func (e *Emitter) NextID() int { return e.nextID }

// Reset rewinds the emitter clock and ID counter.
func (e *Emitter) Reset(firstID int) {
	e.elapsed = 0
	e.nextID = firstID
}

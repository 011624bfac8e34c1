package sim

import (
	"fmt"

	"github.com/mkoval/verlab/internal/engine"
)

// Frame is a value snapshot of every active particle at one instant.
type Frame []engine.Particle

// Snapshot copies the live particle set into a frame.
func Snapshot(ps []*engine.Particle) Frame {
	f := make(Frame, len(ps))
	for i, p := range ps {
		f[i] = *p
	}
	return f
}

// Metric observes the particle set once per recorded frame, the
// initial and final frames included, and reduces to a single value at
// the end of a run. Observations line up one to one with
// Result.Frames.
type Metric interface {
	Name() string
	Observe(ps []*engine.Particle, t float64)
	Value() float64
	Reset()
}

// Observer receives the live particle set on the same cadence as
// Metric.Observe.
type Observer interface {
	OnFrame(ps []*engine.Particle, t float64)
}

type Config struct {
	Dt       float64
	Duration float64

	// MaxParticles caps the active set; zero means unbounded. Spawns
	// beyond the cap are dropped.
	MaxParticles int

	// ValidateState halts the run when a particle position turns
	// NaN or Inf. Off by default in the engine itself; non-finite
	// inputs otherwise propagate silently through the arithmetic.
	ValidateState bool
}

func DefaultRunConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	Frames     []Frame
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// FrameError records where a run went numerically bad.
type FrameError struct {
	Frame   int
	Time    float64
	Message string
}

func (e FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

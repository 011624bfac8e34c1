package sim

import (
	"context"
	"fmt"

	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/spawn"
)

// Runner drives a particle set through repeated solver frames. It owns
// the particle collection for the duration of a run; spawned particles
// are folded in strictly between frames so the set is stable while the
// solver steps it.
type Runner struct {
	solver    *engine.Solver
	bounds    engine.Bounds
	emitter   *spawn.Emitter
	metrics   []Metric
	observers []Observer
}

func New(solver *engine.Solver, bounds engine.Bounds) *Runner {
	return &Runner{
		solver:  solver,
		bounds:  bounds,
		metrics: make([]Metric, 0),
	}
}

func (r *Runner) AddMetric(m Metric)      { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)  { r.observers = append(r.observers, o) }
func (r *Runner) SetEmitter(e *spawn.Emitter) { r.emitter = e }

// Run advances the initial particle set for cfg.Duration seconds in
// frames of cfg.Dt, recording a snapshot per frame. The caller's
// particles are cloned, so the input set is left untouched.
func (r *Runner) Run(ctx context.Context, initial []*engine.Particle, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Frames:  make([]Frame, 0, frames+1),
		Times:   make([]float64, 0, frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	ps := make([]*engine.Particle, len(initial))
	for i, p := range initial {
		ps[i] = p.Clone()
	}
	t := 0.0

	result.Frames = append(result.Frames, Snapshot(ps))
	result.Times = append(result.Times, t)
	r.observe(ps, t)

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ps = r.admit(ps, cfg)

		r.solver.Step(ps, r.bounds, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !engine.Valid(ps) {
			err := FrameError{Frame: i, Time: t, Message: engine.ErrInvalidState.Error()}
			result.Errors = append(result.Errors, err)
			break
		}

		result.StepsTaken++
		result.Frames = append(result.Frames, Snapshot(ps))
		result.Times = append(result.Times, t)
		r.observe(ps, t)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback streams frames to the callback instead of buffering
// snapshots. Returning false from the callback stops the run.
func (r *Runner) RunWithCallback(ctx context.Context, initial []*engine.Particle, cfg Config, callback func(ps []*engine.Particle, t float64) bool) error {
	if err := r.validateConfig(cfg); err != nil {
		return err
	}

	ps := make([]*engine.Particle, len(initial))
	for i, p := range initial {
		ps[i] = p.Clone()
	}
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ps = r.admit(ps, cfg)

		if !callback(ps, t) {
			return nil
		}

		r.solver.Step(ps, r.bounds, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !engine.Valid(ps) {
			return FrameError{Frame: int(t / cfg.Dt), Time: t, Message: engine.ErrInvalidState.Error()}
		}
	}

	return nil
}

// observe feeds one recorded frame to every metric and observer.
// Metrics see exactly the states that land in Result.Frames, the
// initial and final frames included.
func (r *Runner) observe(ps []*engine.Particle, t float64) {
	for _, m := range r.metrics {
		m.Observe(ps, t)
	}
	for _, obs := range r.observers {
		obs.OnFrame(ps, t)
	}
}

// admit folds due spawns into the active set, respecting the cap.
func (r *Runner) admit(ps []*engine.Particle, cfg Config) []*engine.Particle {
	if r.emitter == nil {
		return ps
	}
	for _, p := range r.emitter.Tick(cfg.Dt) {
		if cfg.MaxParticles > 0 && len(ps) >= cfg.MaxParticles {
			break
		}
		ps = append(ps, p)
	}
	return ps
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if r.solver.Substeps < 1 {
		return fmt.Errorf("substeps must be at least 1, got %d", r.solver.Substeps)
	}
	return nil
}

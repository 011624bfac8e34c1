// Package experiment runs parameter sweeps over the solver: the same
// scene is simulated once per candidate value and the resulting
// metrics are collected side by side.
package experiment

import (
	"context"
	"errors"
	"math"

	"github.com/mkoval/verlab/internal/config"
	"github.com/mkoval/verlab/internal/metrics"
	"github.com/mkoval/verlab/internal/sim"
)

var (
	ErrNoValues = errors.New("experiment: sweep has no values")
	ErrNoPoints = errors.New("experiment: no successful sweep points")
)

// Sweep varies one solver parameter across a list of values.
type Sweep struct {
	Param  string
	Values []float64
}

// Range builds a sweep of n evenly spaced values over [lo, hi].
func Range(param string, lo, hi float64, n int) *Sweep {
	if n < 2 {
		return &Sweep{Param: param, Values: []float64{lo}}
	}
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	return &Sweep{Param: param, Values: vals}
}

// Point is the outcome of one sweep value. Err is set when that run
// failed; Metrics is nil in that case.
type Point struct {
	Value   float64
	Metrics map[string]float64
	Err     error
}

// Run simulates the scene once per sweep value. The scene config is
// not modified; each run gets its own solver with the swept parameter
// applied on top of the scene's own settings.
func (s *Sweep) Run(ctx context.Context, cfg *config.Config) ([]Point, error) {
	if len(s.Values) == 0 {
		return nil, ErrNoValues
	}

	points := make([]Point, 0, len(s.Values))
	for _, val := range s.Values {
		pt := Point{Value: val}
		pt.Metrics, pt.Err = s.runOne(ctx, cfg, val)
		points = append(points, pt)

		if err := ctx.Err(); err != nil {
			return points, err
		}
	}
	return points, nil
}

func (s *Sweep) runOne(ctx context.Context, cfg *config.Config, val float64) (map[string]float64, error) {
	solver := cfg.Solver()
	if err := solver.SetParam(s.Param, val); err != nil {
		return nil, err
	}

	bounds := cfg.EngineBounds()
	runner := sim.New(solver, bounds)
	if e := cfg.Emitter(); e != nil {
		runner.SetEmitter(e)
	}
	runner.AddMetric(metrics.NewKinetic())
	runner.AddMetric(metrics.NewPenetration())
	runner.AddMetric(metrics.NewContainment(bounds))

	runCfg := sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		MaxParticles:  cfg.MaxParticles,
		ValidateState: true,
	}

	result, err := runner.Run(ctx, cfg.InitialParticles(), runCfg)
	if err != nil {
		return nil, err
	}
	return result.Metrics, nil
}

// Best returns the sweep point minimizing the named metric. Failed
// points and points missing the metric are skipped.
func Best(points []Point, metric string) (Point, error) {
	best := Point{}
	bestVal := math.Inf(1)
	found := false

	for _, pt := range points {
		if pt.Err != nil {
			continue
		}
		v, ok := pt.Metrics[metric]
		if !ok {
			continue
		}
		if v < bestVal {
			bestVal = v
			best = pt
			found = true
		}
	}

	if !found {
		return Point{}, ErrNoPoints
	}
	return best, nil
}

package sim

import (
	"context"
	"math"
	"testing"

	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/spawn"
)

func testRunner() *Runner {
	return New(engine.NewSolver(), engine.NewBounds(0, 0, 40, 50))
}

func TestRunnerRun(t *testing.T) {
	r := testRunner()
	cfg := Config{Dt: 0.1, Duration: 1.0, ValidateState: true}

	initial := []*engine.Particle{engine.New(0, 20, 40, 0.1, 0)}
	result, err := r.Run(context.Background(), initial, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	// gravity pulls the particle down across the run
	first := result.Frames[0][0]
	last := result.Frames[len(result.Frames)-1][0]
	if last.Y >= first.Y {
		t.Errorf("expected particle to fall, y went %f -> %f", first.Y, last.Y)
	}
}

func TestRunnerLeavesInputUntouched(t *testing.T) {
	r := testRunner()
	cfg := Config{Dt: 0.1, Duration: 1.0}

	p := engine.New(0, 20, 40, 0, 0)
	if _, err := r.Run(context.Background(), []*engine.Particle{p}, cfg); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if p.X != 20 || p.Y != 40 {
		t.Errorf("caller's particle was mutated: (%f, %f)", p.X, p.Y)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRunner()
			_, err := r.Run(context.Background(), nil, tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunnerContextCancellation(t *testing.T) {
	r := testRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, []*engine.Particle{engine.New(0, 20, 40, 0, 0)}, Config{Dt: 0.1, Duration: 100})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunnerSpawnsBetweenFrames(t *testing.T) {
	r := testRunner()
	r.SetEmitter(spawn.New(1.0, 20, 45, 0.05, 0, 1))

	// 5.5 seconds clears the fifth one-second spawn mark with margin
	// against accumulated float error in the emitter clock.
	cfg := Config{Dt: 1.0 / 60, Duration: 5.5}
	initial := []*engine.Particle{engine.New(0, 5, 20, 0.1, 0)}

	result, err := r.Run(context.Background(), initial, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.Frames[len(result.Frames)-1]
	if len(final) != 6 { // 1 initial + 5 spawned
		t.Errorf("expected 6 particles at the end, got %d", len(final))
	}
}

func TestRunnerMaxParticlesCap(t *testing.T) {
	r := testRunner()
	r.SetEmitter(spawn.New(0.1, 20, 45, 0.05, 0, 0))

	cfg := Config{Dt: 1.0 / 60, Duration: 5.0, MaxParticles: 10}
	result, err := r.Run(context.Background(), nil, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.Frames[len(result.Frames)-1]
	if len(final) != 10 {
		t.Errorf("expected cap of 10 particles, got %d", len(final))
	}
}

func TestRunnerHaltsOnInvalidState(t *testing.T) {
	r := testRunner()
	cfg := Config{Dt: 0.1, Duration: 10.0, ValidateState: true}

	p := engine.New(0, 20, 40, 0, 0)
	p.X = math.NaN()

	result, err := r.Run(context.Background(), []*engine.Particle{p}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) == 0 {
		t.Fatal("expected a recorded frame error")
	}
	if result.StepsTaken == int(cfg.Duration/cfg.Dt) {
		t.Error("expected the run to halt early")
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	r := testRunner()
	cfg := Config{Dt: 0.1, Duration: 100.0}

	calls := 0
	err := r.RunWithCallback(context.Background(), []*engine.Particle{engine.New(0, 20, 40, 0, 0)}, cfg,
		func(ps []*engine.Particle, t float64) bool {
			calls++
			return calls < 5
		})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
}

type countingMetric struct {
	frames int
}

func (c *countingMetric) Name() string                              { return "frames" }
func (c *countingMetric) Observe(ps []*engine.Particle, t float64)  { c.frames++ }
func (c *countingMetric) Value() float64                            { return float64(c.frames) }
func (c *countingMetric) Reset()                                    { c.frames = 0 }

func TestRunnerMetrics(t *testing.T) {
	r := testRunner()
	m := &countingMetric{}
	r.AddMetric(m)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := r.Run(context.Background(), []*engine.Particle{engine.New(0, 20, 40, 0, 0)}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// one observation per recorded frame: initial plus ten steps
	if got, ok := result.Metrics["frames"]; !ok || got != 11 {
		t.Errorf("expected 11 observations recorded, got %v (present: %v)", got, ok)
	}
	if int(result.Metrics["frames"]) != len(result.Frames) {
		t.Errorf("observations (%v) out of step with frames (%d)", result.Metrics["frames"], len(result.Frames))
	}
}

type lastFrameMetric struct {
	t float64
	y float64
}

func (l *lastFrameMetric) Name() string { return "last_y" }
func (l *lastFrameMetric) Observe(ps []*engine.Particle, t float64) {
	l.t = t
	if len(ps) > 0 {
		l.y = ps[0].Y
	}
}
func (l *lastFrameMetric) Value() float64 { return l.y }
func (l *lastFrameMetric) Reset()         { l.t, l.y = 0, 0 }

func TestRunnerMetricsSeeFinalFrame(t *testing.T) {
	r := testRunner()
	m := &lastFrameMetric{}
	r.AddMetric(m)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := r.Run(context.Background(), []*engine.Particle{engine.New(0, 20, 40, 0, 0)}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	last := result.Frames[len(result.Frames)-1]
	if m.y != last[0].Y {
		t.Errorf("metric saw y=%f, final frame has y=%f", m.y, last[0].Y)
	}
	if m.t != result.Times[len(result.Times)-1] {
		t.Errorf("metric saw t=%f, final time is %f", m.t, result.Times[len(result.Times)-1])
	}
}

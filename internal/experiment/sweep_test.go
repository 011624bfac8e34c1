package experiment

import (
	"context"
	"testing"

	"github.com/mkoval/verlab/internal/config"
)

func sweepScene() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 0.5
	cfg.Spawn.Enabled = false
	return cfg
}

func TestRange(t *testing.T) {
	s := Range("bounce", 0.5, 0.9, 5)
	if len(s.Values) != 5 {
		t.Fatalf("expected 5 values, got %d", len(s.Values))
	}
	if s.Values[0] != 0.5 {
		t.Errorf("first value = %v, want 0.5", s.Values[0])
	}
	if diff := s.Values[4] - 0.9; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("last value = %v, want 0.9", s.Values[4])
	}
}

func TestRangeDegenerate(t *testing.T) {
	s := Range("bounce", 0.5, 0.9, 1)
	if len(s.Values) != 1 || s.Values[0] != 0.5 {
		t.Errorf("expected single value 0.5, got %v", s.Values)
	}
}

func TestSweepRun(t *testing.T) {
	s := &Sweep{Param: "bounce", Values: []float64{0.5, 0.95}}

	points, err := s.Run(context.Background(), sweepScene())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	for _, pt := range points {
		if pt.Err != nil {
			t.Errorf("point %v failed: %v", pt.Value, pt.Err)
		}
		if _, ok := pt.Metrics["kinetic"]; !ok {
			t.Errorf("point %v missing kinetic metric", pt.Value)
		}
	}
}

func TestSweepRunInvalidParam(t *testing.T) {
	s := &Sweep{Param: "bounce", Values: []float64{0.5, 2.0}}

	points, err := s.Run(context.Background(), sweepScene())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if points[0].Err != nil {
		t.Errorf("valid point failed: %v", points[0].Err)
	}
	if points[1].Err == nil {
		t.Error("expected out of range bounce to fail")
	}
}

func TestSweepRunEmpty(t *testing.T) {
	s := &Sweep{Param: "bounce"}
	if _, err := s.Run(context.Background(), sweepScene()); err != ErrNoValues {
		t.Errorf("expected ErrNoValues, got %v", err)
	}
}

func TestBest(t *testing.T) {
	points := []Point{
		{Value: 0.5, Metrics: map[string]float64{"kinetic": 3.0}},
		{Value: 0.7, Metrics: map[string]float64{"kinetic": 1.0}},
		{Value: 0.9, Err: context.Canceled},
	}

	best, err := Best(points, "kinetic")
	if err != nil {
		t.Fatalf("best failed: %v", err)
	}
	if best.Value != 0.7 {
		t.Errorf("best value = %v, want 0.7", best.Value)
	}
}

func TestBestNoPoints(t *testing.T) {
	points := []Point{{Value: 0.5, Err: context.Canceled}}
	if _, err := Best(points, "kinetic"); err != ErrNoPoints {
		t.Errorf("expected ErrNoPoints, got %v", err)
	}
}

package export

import (
	"strings"
	"testing"

	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/sim"
)

func TestFrameToSVG(t *testing.T) {
	bounds := engine.NewBounds(0, 0, 20, 10)
	frame := sim.Frame{
		*engine.New(0, 10, 5, 0, 0),
		*engine.New(1, 2, 8, 0, 0),
	}

	svg := FrameToSVG(frame, bounds, 10)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing xml header")
	}
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 circles, got %d", strings.Count(svg, "<circle"))
	}
	// center of the box lands at the center of the image, y flipped
	if !strings.Contains(svg, `cx="100.0" cy="50.0"`) {
		t.Error("expected particle at image center")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	bounds := engine.NewBounds(0, 0, 20, 20)
	frames := []sim.Frame{
		{*engine.New(0, 1, 1, 0, 0)},
		{*engine.New(0, 2, 2, 0, 0)},
		{*engine.New(0, 3, 3, 0, 0)},
	}

	svg := TrajectoryToSVG(frames, 0, bounds, 1)

	if !strings.Contains(svg, "<path") {
		t.Error("missing path element")
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments, got %d", strings.Count(svg, " L"))
	}
}

func TestTrajectoryToSVGIndexOutOfRange(t *testing.T) {
	bounds := engine.NewBounds(0, 0, 10, 10)
	frames := []sim.Frame{{*engine.New(0, 1, 1, 0, 0)}}

	svg := TrajectoryToSVG(frames, 5, bounds, 1)
	if strings.Contains(svg, "M") && strings.Contains(svg, " L") {
		t.Error("expected empty path for missing particle index")
	}
}

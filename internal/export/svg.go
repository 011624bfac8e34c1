// Package export renders stored simulation frames to SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/sim"
)

// FrameToSVG draws one frame as circles inside the boundary
// rectangle. Scale is pixels per simulation unit; the y axis is
// flipped so gravity points down on screen.
func FrameToSVG(frame sim.Frame, bounds engine.Bounds, scale float64) string {
	width := bounds.Width() * scale
	height := bounds.Height() * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="0" y="0" width="%.0f" height="%.0f" fill="none" stroke="#333333"/>
<g fill="#4fc3f7" stroke="#0a0a0a" stroke-width="0.5">
`, width, height, width, height, width, height))

	for _, p := range frame {
		cx := (p.X - bounds.MinX) * scale
		cy := height - (p.Y-bounds.MinY)*scale
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, p.Radius*scale))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws one particle's path through a run as a
// polyline over the boundary rectangle.
func TrajectoryToSVG(frames []sim.Frame, index int, bounds engine.Bounds, scale float64) string {
	width := bounds.Width() * scale
	height := bounds.Height() * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#4fc3f7" stroke-width="1.5" d="`, width, height, width, height))

	started := false
	for _, frame := range frames {
		if index >= len(frame) {
			continue
		}
		p := frame[index]
		x := (p.X - bounds.MinX) * scale
		y := height - (p.Y-bounds.MinY)*scale

		if !started {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			started = true
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mkoval/verlab/internal/sim"
)

type ParticleData struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type ExportData struct {
	ID       string             `json:"id"`
	Scene    string             `json:"scene"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Frames   int                `json:"frames"`
	Times    []float64          `json:"times"`
	States   [][]ParticleData   `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

func buildExport(id, scene string, dt, duration float64, frames []sim.Frame, times []float64, metrics map[string]float64) ExportData {
	data := ExportData{
		ID:       id,
		Scene:    scene,
		Dt:       dt,
		Duration: duration,
		Frames:   len(times),
		Times:    times,
		States:   make([][]ParticleData, len(frames)),
		Metrics:  metrics,
	}

	for i, frame := range frames {
		state := make([]ParticleData, len(frame))
		for j, p := range frame {
			state[j] = ParticleData{ID: p.ID, X: p.X, Y: p.Y, Radius: p.Radius}
		}
		data.States[i] = state
	}

	return data
}

// ExportJSON writes a run as a single indented JSON document.
func ExportJSON(w io.Writer, id, scene string, dt, duration float64, frames []sim.Frame, times []float64, metrics map[string]float64) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(id, scene, dt, duration, frames, times, metrics))
}

// ExportJSONStdout is ExportJSON to standard output.
func ExportJSONStdout(id, scene string, dt, duration float64, frames []sim.Frame, times []float64, metrics map[string]float64) error {
	return ExportJSON(os.Stdout, id, scene, dt, duration, frames, times, metrics)
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/sim"
)

// Store persists simulation runs under a data directory, one
// subdirectory per run holding metadata.json and frames.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Substeps  int                `json:"substeps"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run to disk and returns its generated ID. Frame rows
// are variable length: time, particle count, then id, x, y, radius per
// particle, so runs with spawning keep growing rows. The id column
// keeps a particle traceable across frames even as spawning shifts
// slot positions.
func (s *Store) Save(scene string, dt, duration float64, substeps int, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	particles := 0
	if len(result.Frames) > 0 {
		particles = len(result.Frames[len(result.Frames)-1])
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     scene,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Substeps:  substeps,
		Particles: particles,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "frames.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	for i, frame := range result.Frames {
		row := make([]string, 0, 2+len(frame)*4)
		row = append(row,
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.Itoa(len(frame)),
		)
		for _, p := range frame {
			row = append(row,
				strconv.Itoa(p.ID),
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Radius, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads the stored trajectory back. Only identity,
// position and radius survive the round trip; velocity history and
// accumulators are not persisted.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "frames.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	times := make([]float64, 0, len(records))
	frames := make([]sim.Frame, 0, len(records))

	for _, record := range records {
		if len(record) < 2 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		count, err := strconv.Atoi(record[1])
		if err != nil || len(record) < 2+count*4 {
			continue
		}

		frame := make(sim.Frame, 0, count)
		for i := 0; i < count; i++ {
			id, err0 := strconv.Atoi(record[2+i*4])
			x, err1 := strconv.ParseFloat(record[3+i*4], 64)
			y, err2 := strconv.ParseFloat(record[4+i*4], 64)
			radius, err3 := strconv.ParseFloat(record[5+i*4], 64)
			if err0 != nil || err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			frame = append(frame, engine.Particle{ID: id, X: x, Y: y, Radius: radius})
		}

		times = append(times, t)
		frames = append(frames, frame)
	}

	return frames, times, nil
}

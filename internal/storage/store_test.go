package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/mkoval/verlab/internal/engine"
	"github.com/mkoval/verlab/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{*engine.New(0, 5, 20, 0.1, 0)},
			{*engine.New(0, 5.1, 19.9, 0.1, 0), *engine.New(1, 0, 20, 0.05, 0)},
		},
		Times:   []float64{0, 1.0 / 60},
		Metrics: map[string]float64{"kinetic": 0.02},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	g := NewWithT(t)

	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, err := st.Save("drop", 1.0/60, 10, 8, sampleResult())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runID).NotTo(BeEmpty())

	meta, err := st.Load(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(meta.Scene).To(Equal("drop"))
	g.Expect(meta.Substeps).To(Equal(8))
	g.Expect(meta.Particles).To(Equal(2))
	g.Expect(meta.Metrics).To(HaveKeyWithValue("kinetic", 0.02))
}

func TestStoreLoadFrames(t *testing.T) {
	g := NewWithT(t)

	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, err := st.Save("drop", 1.0/60, 10, 8, sampleResult())
	g.Expect(err).NotTo(HaveOccurred())

	frames, times, err := st.LoadFrames(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(frames).To(HaveLen(2))
	g.Expect(times).To(HaveLen(2))

	g.Expect(frames[0]).To(HaveLen(1))
	g.Expect(frames[1]).To(HaveLen(2))
	g.Expect(frames[1][0].X).To(BeNumerically("~", 5.1, 1e-6))
	g.Expect(frames[1][1].Radius).To(BeNumerically("~", engine.DefaultRadius, 1e-6))
}

func TestStoreLoadFramesKeepsIdentity(t *testing.T) {
	g := NewWithT(t)

	// ids deliberately disagree with slot order so the round trip
	// cannot pass by reconstructing them from row position
	result := &sim.Result{
		Frames: []sim.Frame{
			{*engine.New(7, 5, 20, 0, 0), *engine.New(2, 10, 30, 0, 0)},
		},
		Times:   []float64{0},
		Metrics: map[string]float64{},
	}

	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, err := st.Save("drop", 1.0/60, 10, 8, result)
	g.Expect(err).NotTo(HaveOccurred())

	frames, _, err := st.LoadFrames(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(frames[0][0].ID).To(Equal(7))
	g.Expect(frames[0][1].ID).To(Equal(2))
}

func TestStoreList(t *testing.T) {
	g := NewWithT(t)

	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	_, err := st.Save("drop", 1.0/60, 10, 8, sampleResult())
	g.Expect(err).NotTo(HaveOccurred())

	runs, err := st.List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(1))
	g.Expect(runs[0].Scene).To(Equal("drop"))
}

func TestStoreListEmptyDir(t *testing.T) {
	g := NewWithT(t)

	st := New(t.TempDir() + "/nonexistent")
	runs, err := st.List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(BeEmpty())
}

func TestExportJSON(t *testing.T) {
	g := NewWithT(t)

	result := sampleResult()
	var buf bytes.Buffer
	err := ExportJSON(&buf, "drop_1", "drop", 1.0/60, 10, result.Frames, result.Times, result.Metrics)
	g.Expect(err).NotTo(HaveOccurred())

	var data ExportData
	g.Expect(json.Unmarshal(buf.Bytes(), &data)).To(Succeed())
	g.Expect(data.ID).To(Equal("drop_1"))
	g.Expect(data.Frames).To(Equal(2))
	g.Expect(data.States[1]).To(HaveLen(2))
}

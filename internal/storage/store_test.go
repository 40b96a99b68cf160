package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/sim"
)

func runCard(t *testing.T, frames int) (RunInfo, *sim.Result) {
	t.Helper()
	card := config.DefaultSimulation()
	s := sim.New(sim.WithSeed(42))
	if err := s.Initialize(card, 400, 400); err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(context.Background(), sim.RunConfig{
		Frames: frames, Width: 400, Height: 400, Global: config.DefaultGlobal(),
	})
	if err != nil {
		t.Fatal(err)
	}
	result.Metrics["energy"] = 1.5
	return RunInfo{Card: card, Global: config.DefaultGlobal(), Seed: 42, Width: 400, Height: 400}, result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	info, result := runCard(t, 20)
	runID, err := st.Save(info, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "box-spin_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Card != "box spin" || meta.Model != config.ModelStandard {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Seed != 42 || meta.Frames != 20 || meta.Bodies != config.DefaultBallCount {
		t.Errorf("seed %d frames %d bodies %d", meta.Seed, meta.Frames, meta.Bodies)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}

	samples, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(samples) != 20 || samples[19].Frame != 20 {
		t.Fatalf("expected 20 samples, got %d", len(samples))
	}
	if d := samples[5].KineticEnergy - result.Samples[5].KineticEnergy; d > 1e-5 || d < -1e-5 {
		t.Errorf("energy column mismatch: %f vs %f", samples[5].KineticEnergy, result.Samples[5].KineticEnergy)
	}

	state, err := st.LoadState(runID)
	if err != nil {
		t.Fatalf("load state failed: %v", err)
	}
	if len(state.Bodies) != len(result.Final.Bodies) || state.Bodies[0] != result.Final.Bodies[0] {
		t.Error("final bodies did not round trip")
	}

	replay, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if replay.Seed != 42 || replay.Frames != 20 || replay.Cards[0].Name != "box spin" {
		t.Errorf("unexpected replay config %+v", replay)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list for missing dir, got %v %v", runs, err)
	}

	info, result := runCard(t, 5)
	for range 3 {
		if _, err := st.Save(info, result); err != nil {
			t.Fatal(err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadFrames: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadConfig("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadConfig: expected ErrRunNotFound, got %v", err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	info, result := runCard(t, 8)
	runID, err := st.Save(info, result)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.Export(runID, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if data.Metadata.ID != runID || len(data.Samples) != 8 || data.Final == nil {
		t.Errorf("incomplete export: id %s samples %d", data.Metadata.ID, len(data.Samples))
	}
}

func TestSeries(t *testing.T) {
	samples := []sim.Sample{
		{Frame: 1, KineticEnergy: 2, Momentum: 3, Overlaps: 1},
		{Frame: 2, KineticEnergy: 4, Momentum: 5, Clamped: 1},
	}

	ke, err := Series(samples, "kinetic_energy")
	if err != nil || ke[0] != 2 || ke[1] != 4 {
		t.Errorf("kinetic_energy = %v, %v", ke, err)
	}
	cl, err := Series(samples, "clamped")
	if err != nil || cl[1] != 1 {
		t.Errorf("clamped = %v, %v", cl, err)
	}
	if _, err := Series(samples, "spin"); err == nil {
		t.Error("expected error for unknown column")
	}
}

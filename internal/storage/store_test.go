package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{
				Index:     0,
				Target:    flock.Vec2{X: 400, Y: 300},
				Positions: []flock.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}},
				IDs:       []uint64{0, 1},
			},
			{
				Index:     1,
				Target:    flock.Vec2{X: 401, Y: 300},
				Positions: []flock.Vec2{{X: 3.5, Y: 4.5}},
				IDs:       []uint64{1},
			},
			{Index: 2, Target: flock.Vec2{X: 402, Y: 300}},
		},
		Metrics:   map[string]float64{"spread": 1.5},
		Series:    map[string][]float64{"spread": {1, 2}},
		Score:     2,
		Health:    96,
		FramesRun: 3,
		Final: flock.Snapshot{
			Positions:  []flock.Vec2{{X: 3.5, Y: 4.5}},
			Velocities: []flock.Vec2{{X: 0.5, Y: -1}},
			IDs:        []uint64{1},
			NextID:     2,
			Params:     flock.DefaultParams(),
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Seed = 42

	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, cfg.Profile+"_") || len(runID) != len(cfg.Profile)+9 {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Profile != cfg.Profile {
		t.Errorf("expected profile %q, got %q", cfg.Profile, meta.Profile)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Metrics["spread"] != 1.5 {
		t.Errorf("expected spread 1.5, got %f", meta.Metrics["spread"])
	}
	if meta.Score != 2 || meta.Survivors != 1 || meta.Frames != 3 {
		t.Errorf("unexpected summary %+v", meta)
	}
	if meta.Params != cfg.Params {
		t.Errorf("params not stored: %+v", meta.Params)
	}
}

func TestStoreLoadFrames(t *testing.T) {
	st := New(t.TempDir())
	want := testResult()

	runID, err := st.Save(config.DefaultConfig(), want)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, fr := range frames {
		w := want.Frames[i]
		if fr.Index != w.Index || fr.Target != w.Target {
			t.Errorf("frame %d header = %d %+v", i, fr.Index, fr.Target)
		}
		if len(fr.Positions) != len(w.Positions) {
			t.Fatalf("frame %d has %d agents, want %d", i, len(fr.Positions), len(w.Positions))
		}
		for j := range fr.Positions {
			if fr.Positions[j] != w.Positions[j] || fr.IDs[j] != w.IDs[j] {
				t.Errorf("frame %d agent %d = %d %+v", i, j, fr.IDs[j], fr.Positions[j])
			}
		}
	}
}

func TestStoreCheckpoint(t *testing.T) {
	st := New(t.TempDir())
	want := testResult().Final

	runID, err := st.Save(config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	snap, err := st.LoadCheckpoint(runID)
	if err != nil {
		t.Fatalf("load checkpoint failed: %v", err)
	}
	if snap.NextID != want.NextID || snap.Params != want.Params {
		t.Errorf("checkpoint header = %+v", snap)
	}
	if len(snap.Positions) != 1 || snap.Positions[0] != want.Positions[0] || snap.Velocities[0] != want.Velocities[0] {
		t.Errorf("checkpoint state = %+v", snap)
	}

	f, err := flock.Restore(snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if f.Len() != 1 || f.ID(0) != 1 {
		t.Errorf("restored flock len=%d id=%d", f.Len(), f.ID(0))
	}
}

func TestStoreResume(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	cfg := config.GetPreset("chase")
	cfg.Seed = 17
	cfg.Target.Radius = 123

	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, snap, err := st.Resume(runID)
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if got.Profile != "chase" || got.Seed != 17 || got.Target != cfg.Target {
		t.Errorf("resumed config = %+v", got)
	}
	if got.Params != testResult().Final.Params {
		t.Errorf("params = %+v, want the checkpoint's", got.Params)
	}
	if len(snap.Positions) != 1 || snap.IDs[0] != 1 {
		t.Errorf("resumed flock = %+v", snap)
	}

	if err := os.Remove(filepath.Join(dir, runID, checkpointFile)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := st.Resume(runID); !errors.Is(err, ErrNoCheckpoint) {
		t.Errorf("expected ErrNoCheckpoint, got %v", err)
	}
}

func TestStoreCheckpoint_Missing(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := os.MkdirAll(filepath.Join(dir, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadCheckpoint("empty"); !errors.Is(err, ErrNoCheckpoint) {
		t.Errorf("expected ErrNoCheckpoint, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, err := st.Save(config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(config.GetPreset("classic"), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs not in save order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List = %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "frames.csv", "flock.msgpack"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, runID, "frames.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "frame,target_x,target_y,id,x,y" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 5 {
		t.Errorf("expected 5 lines, got %d", len(lines))
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	runID, err := st.Save(config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.WriteJSON(runID, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if data.Run.ID != runID || len(data.Frames) != 3 || data.Steps != 3 {
		t.Errorf("unexpected export %+v", data.Run)
	}

	dst := filepath.Join(dir, "out.csv")
	if err := st.ExportCSV(runID, dst); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	a, _ := os.ReadFile(dst)
	b, _ := os.ReadFile(st.FramesPath(runID))
	if !bytes.Equal(a, b) {
		t.Error("exported csv differs from stored frames")
	}
}

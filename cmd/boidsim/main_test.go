package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/sim"
	"github.com/san-kum/boidsim/internal/storage"
)

func newConfigCmd(t *testing.T) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	return cmd
}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg, err := buildConfig(newConfigCmd(t))
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Profile != config.DefaultProfile || cfg.Count != config.DefaultCount {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestBuildConfig_PresetAndFlags(t *testing.T) {
	cmd := newConfigCmd(t)
	for name, value := range map[string]string{"preset": "swarm", "count": "7", "seed": "99"} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Profile != "swarm" {
		t.Errorf("profile = %s, want swarm", cfg.Profile)
	}
	if cfg.Count != 7 || cfg.Seed != 99 {
		t.Errorf("flags not applied: count=%d seed=%d", cfg.Count, cfg.Seed)
	}
	if cfg.Frames != config.Presets["swarm"].Frames {
		t.Errorf("unset flag overrode preset frames: %d", cfg.Frames)
	}
	if config.Presets["swarm"].Count == 7 {
		t.Error("flag leaked into the shared preset")
	}
}

func TestBuildConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	want := config.GetPreset("chase")
	want.Seed = 5
	if err := config.Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	cmd := newConfigCmd(t)
	if err := cmd.Flags().Set("config", path); err != nil {
		t.Fatal(err)
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Profile != "chase" || cfg.Seed != 5 {
		t.Errorf("file not applied: %+v", cfg)
	}
}

func TestBuildConfig_FileOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("seed: 11\ncount: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newConfigCmd(t)
	for name, value := range map[string]string{"preset": "swarm", "config": path} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	swarm := config.Presets["swarm"]
	if cfg.Profile != "swarm" || cfg.Params != swarm.Params || cfg.Frames != swarm.Frames {
		t.Errorf("preset dropped under config file: %+v", cfg)
	}
	if cfg.Seed != 11 || cfg.Count != 4 {
		t.Errorf("file values not applied: seed=%d count=%d", cfg.Seed, cfg.Count)
	}
}

func TestBuildConfig_Errors(t *testing.T) {
	cmd := newConfigCmd(t)
	if err := cmd.Flags().Set("preset", "nope"); err != nil {
		t.Fatal(err)
	}
	if _, err := buildConfig(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}

	cmd = newConfigCmd(t)
	if err := cmd.Flags().Set("frames", "-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := buildConfig(cmd); err == nil {
		t.Error("expected validation error for negative frames")
	}
}

func TestResumeConfig(t *testing.T) {
	st := storage.New(t.TempDir())
	final := flock.Snapshot{
		Positions:  []flock.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}},
		Velocities: make([]flock.Vec2, 2),
		IDs:        []uint64{3, 8},
		NextID:     9,
		Params:     flock.DefaultParams(),
	}
	runID, err := st.Save(config.GetPreset("bullet"), &sim.Result{FramesRun: 1, Final: final})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	resumeID = runID
	t.Cleanup(func() { resumeID = "" })

	cmd := newConfigCmd(t)
	if err := cmd.Flags().Set("frames", "7"); err != nil {
		t.Fatal(err)
	}
	cfg, snap, err := resumeConfig(cmd, st)
	if err != nil {
		t.Fatalf("resumeConfig: %v", err)
	}
	if cfg.Profile != "bullet" || cfg.Frames != 7 {
		t.Errorf("resumed config = %+v", cfg)
	}
	if len(snap.IDs) != 2 || snap.IDs[1] != 8 {
		t.Errorf("resumed flock ids = %v", snap.IDs)
	}

	cmd = newConfigCmd(t)
	if err := cmd.Flags().Set("preset", "swarm"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := resumeConfig(cmd, st); err == nil {
		t.Error("expected error combining --preset with --resume")
	}
}

func TestCentroids(t *testing.T) {
	frames := []sim.Frame{
		{Positions: []flock.Vec2{{X: 0, Y: 0}, {X: 2, Y: 4}}},
		{},
		{Positions: []flock.Vec2{{X: 5, Y: 5}}},
	}
	got := centroids(frames)
	want := []flock.Vec2{{X: 1, Y: 2}, {X: 5, Y: 5}}
	if len(got) != len(want) {
		t.Fatalf("got %d centroids, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("centroid %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseGrid(t *testing.T) {
	tests := []struct {
		arg     string
		name    string
		values  int
		wantErr bool
	}{
		{"seek_strength=0:1:5", "seek_strength", 5, false},
		{"cohesion_strength=0.01:0.01:1", "cohesion_strength", 1, false},
		{"seek_strength", "", 0, true},
		{"=0:1:2", "", 0, true},
		{"seek_strength=0:1", "", 0, true},
		{"seek_strength=a:1:2", "", 0, true},
		{"seek_strength=0:1:0", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			name, values, err := parseGrid(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseGrid(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.name || len(values) != tt.values {
				t.Errorf("parseGrid(%q) = %s, %v", tt.arg, name, values)
			}
		})
	}
}

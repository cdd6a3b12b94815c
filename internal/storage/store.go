// Package storage persists finished runs under a base directory, one
// directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	framesFile     = "frames.csv"
	checkpointFile = "flock.msgpack"
)

// ErrNoCheckpoint is returned when a run was saved without a final flock.
var ErrNoCheckpoint = errors.New("storage: run has no checkpoint")

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
	ID        string               `json:"id"`
	Profile   string               `json:"profile"`
	Timestamp time.Time            `json:"timestamp"`
	Seed      int64                `json:"seed"`
	Count     int                  `json:"count"`
	Frames    int                  `json:"frames"`
	Target    string               `json:"target"`
	Params    flock.Params         `json:"params"`
	Score     int                  `json:"score"`
	Health    float64              `json:"health"`
	Survivors int                  `json:"survivors"`
	Metrics   map[string]float64   `json:"metrics"`
	Series    map[string][]float64 `json:"series,omitempty"`
	Config    *config.Config       `json:"config,omitempty"`
}

// NewRunID returns "<profile>_<first 8 hex digits of a random uuid>".
func NewRunID(profile string) string {
	return fmt.Sprintf("%s_%s", profile, uuid.NewString()[:8])
}

// Save writes cfg and result as a new run and returns its id.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID := NewRunID(cfg.Profile)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Profile:   cfg.Profile,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Count:     cfg.Count,
		Frames:    result.FramesRun,
		Target:    cfg.Target.Kind,
		Params:    cfg.Params,
		Score:     result.Score,
		Health:    result.Health,
		Survivors: len(result.Final.IDs),
		Metrics:   result.Metrics,
		Series:    result.Series,
		Config:    cfg,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}

	data, err := msgpack.Marshal(&result.Final)
	if err != nil {
		return "", fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, checkpointFile), data, 0644); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeFrames writes one row per agent per sampled frame. A frame with no
// agents left is kept as a single row with empty agent columns.
func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"frame", "target_x", "target_y", "id", "x", "y"}); err != nil {
		return err
	}

	for _, fr := range frames {
		prefix := []string{
			strconv.Itoa(fr.Index),
			formatFloat(fr.Target.X),
			formatFloat(fr.Target.Y),
		}
		if len(fr.Positions) == 0 {
			if err := w.Write(append(prefix, "", "", "")); err != nil {
				return err
			}
			continue
		}
		for i, p := range fr.Positions {
			row := append(append([]string{}, prefix...),
				strconv.FormatUint(fr.IDs[i], 10),
				formatFloat(p.X),
				formatFloat(p.Y),
			)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns the metadata of every readable run, oldest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", metadataFile, err)
	}
	return &meta, nil
}

// LoadFrames reads the sampled frames of a run back in frame order.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 6

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return []sim.Frame{}, nil
		}
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		index, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line, err)
		}
		if len(frames) == 0 || frames[len(frames)-1].Index != index {
			tgt, err := parseVec(record[1], record[2])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", framesFile, line, err)
			}
			frames = append(frames, sim.Frame{Index: index, Target: tgt})
		}
		if record[3] == "" {
			continue
		}

		id, err := strconv.ParseUint(record[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line, err)
		}
		pos, err := parseVec(record[4], record[5])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line, err)
		}
		fr := &frames[len(frames)-1]
		fr.IDs = append(fr.IDs, id)
		fr.Positions = append(fr.Positions, pos)
	}
	return frames, nil
}

func parseVec(xs, ys string) (flock.Vec2, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return flock.Vec2{}, err
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return flock.Vec2{}, err
	}
	return flock.Vec2{X: x, Y: y}, nil
}

// LoadCheckpoint decodes the final flock snapshot of a run.
func (s *Store) LoadCheckpoint(runID string) (flock.Snapshot, error) {
	var snap flock.Snapshot
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, checkpointFile))
	if err != nil {
		if os.IsNotExist(err) {
			return snap, ErrNoCheckpoint
		}
		return snap, err
	}
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode checkpoint: %w", err)
	}
	return snap, nil
}

// Resume returns the configuration and final flock of a stored run, ready to
// continue from where it stopped. Runs saved without a full config fall back
// to their profile with the recorded seed, count, target kind and params.
func (s *Store) Resume(runID string) (*config.Config, flock.Snapshot, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, flock.Snapshot{}, err
	}
	snap, err := s.LoadCheckpoint(runID)
	if err != nil {
		return nil, flock.Snapshot{}, err
	}

	var cfg *config.Config
	if meta.Config != nil {
		c := *meta.Config
		cfg = &c
	} else {
		if cfg = config.GetPreset(meta.Profile); cfg == nil {
			cfg = config.DefaultConfig()
		}
		cfg.Seed, cfg.Count, cfg.Params = meta.Seed, meta.Count, meta.Params
		cfg.Target.Kind = meta.Target
	}
	cfg.Params = snap.Params
	return cfg, snap, nil
}

// FramesPath is the location of a run's frame CSV.
func (s *Store) FramesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, framesFile)
}

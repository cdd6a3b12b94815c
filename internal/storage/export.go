package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/boidsim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Steps  int         `json:"steps"`
	Frames []sim.Frame `json:"frames"`
}

// ExportJSON writes a run's metadata and sampled frames to path, or to
// stdout when path is empty.
func (s *Store) ExportJSON(runID, path string) error {
	if path == "" {
		return s.WriteJSON(runID, os.Stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.WriteJSON(runID, file)
}

func (s *Store) WriteJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Steps: meta.Frames, Frames: frames})
}

// ExportCSV copies a run's frame CSV to dst.
func (s *Store) ExportCSV(runID, dst string) error {
	src, err := os.Open(s.FramesPath(runID))
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

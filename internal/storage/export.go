package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/sim"
)

type ExportData struct {
	Metadata RunMetadata    `json:"metadata"`
	Samples  []sim.Sample   `json:"samples"`
	Final    *physics.State `json:"final"`
}

// Export writes the whole run as one JSON document.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	final, err := s.LoadState(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Metadata: *meta, Samples: samples, Final: final})
}

func (s *Store) ExportFile(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.Export(runID, file)
}

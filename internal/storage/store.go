package storage

import (
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	bodiesFile   = "bodies.json"
	configFile   = "config.yaml"
)

var framesHeader = []string{"frame", "kinetic_energy", "momentum", "overlaps", "clamped"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo is what a caller knows about a run before it is stored.
type RunInfo struct {
	Card   config.Simulation
	Global config.Global
	Seed   int64
	Width  float64
	Height float64
}

type RunMetadata struct {
	ID        string              `json:"id"`
	Card      string              `json:"card"`
	Model     config.ModelKind    `json:"model"`
	Shape     config.Shape        `json:"shape"`
	Timestamp time.Time           `json:"timestamp"`
	Seed      int64               `json:"seed"`
	Frames    int                 `json:"frames"`
	Bodies    int                 `json:"bodies"`
	Clamped   int                 `json:"clamped"`
	Spawn     physics.SpawnReport `json:"spawn"`
	Metrics   map[string]float64  `json:"metrics"`
}

// Save writes metadata.json, frames.csv, bodies.json and a config.yaml that
// reproduces the run, and returns the new run ID.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID := newRunID(info.Card.Name)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Card:      info.Card.Name,
		Model:     info.Card.Model,
		Shape:     info.Card.Shape,
		Timestamp: time.Now(),
		Seed:      info.Seed,
		Frames:    result.FramesTaken,
		Bodies:    len(result.Final.Bodies),
		Clamped:   result.Clamped,
		Spawn:     result.Spawn,
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, bodiesFile), result.Final); err != nil {
		return "", err
	}

	replay := &config.File{
		Global: info.Global,
		Cards:  []config.Simulation{info.Card},
		Frames: result.FramesTaken,
		Width:  info.Width,
		Height: info.Height,
		Seed:   info.Seed,
	}
	if err := config.Save(filepath.Join(runDir, configFile), replay); err != nil {
		return "", err
	}

	if err := writeFrames(filepath.Join(runDir, framesFile), result.Samples); err != nil {
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

func writeFrames(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(framesHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Frame),
			strconv.FormatFloat(smp.KineticEnergy, 'f', 6, 64),
			strconv.FormatFloat(smp.Momentum, 'f', 6, 64),
			strconv.Itoa(smp.Overlaps),
			strconv.Itoa(smp.Clamped),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadState reads the bodies as they were after the last frame.
func (s *Store) LoadState(runID string) (*physics.State, error) {
	data, err := s.read(runID, bodiesFile)
	if err != nil {
		return nil, err
	}

	var st physics.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode %s bodies: %w", runID, err)
	}
	return &st, nil
}

// LoadConfig reads the config file that replays the run.
func (s *Store) LoadConfig(runID string) (*config.File, error) {
	path := filepath.Join(s.baseDir, runID, configFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return config.Load(path)
}

func (s *Store) LoadFrames(runID string) ([]sim.Sample, error) {
	path := filepath.Join(s.baseDir, runID, framesFile)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(framesHeader) {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		ke, _ := strconv.ParseFloat(record[1], 64)
		p, _ := strconv.ParseFloat(record[2], 64)
		overlaps, _ := strconv.Atoi(record[3])
		clamped, _ := strconv.Atoi(record[4])

		samples = append(samples, sim.Sample{
			Frame:         frame,
			KineticEnergy: ke,
			Momentum:      p,
			Overlaps:      overlaps,
			Clamped:       clamped,
		})
	}
	return samples, nil
}

// Series extracts one column of samples by its frames.csv header name.
func Series(samples []sim.Sample, column string) ([]float64, error) {
	out := make([]float64, len(samples))
	for i, smp := range samples {
		switch column {
		case "kinetic_energy", "energy":
			out[i] = smp.KineticEnergy
		case "momentum":
			out[i] = smp.Momentum
		case "overlaps":
			out[i] = float64(smp.Overlaps)
		case "clamped":
			out[i] = float64(smp.Clamped)
		default:
			return nil, fmt.Errorf("unknown column %q (have %s)", column, strings.Join(framesHeader[1:], ", "))
		}
	}
	return out, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return data, err
}

// newRunID is the card slug plus a timestamp and a short random suffix so
// runs saved within the same second do not collide.
func newRunID(card string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, card)
	if slug == "" {
		slug = "run"
	}

	suffix := make([]byte, 3)
	rand.Read(suffix)
	return fmt.Sprintf("%s_%s_%s", slug, time.Now().Format("20060102-150405"), hex.EncodeToString(suffix))
}

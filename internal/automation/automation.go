package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/san-kum/particlebox/internal/config"
	"github.com/san-kum/particlebox/internal/logging"
	"github.com/san-kum/particlebox/internal/metrics"
	"github.com/san-kum/particlebox/internal/sim"
	"github.com/san-kum/particlebox/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Global      *config.Global `yaml:"global,omitempty"`
	Width       float64        `yaml:"width"`
	Height      float64        `yaml:"height"`
	Seed        int64          `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs either a named preset or an inline card.
type ScenarioStep struct {
	Preset string             `yaml:"preset,omitempty"`
	Card   *config.Simulation `yaml:"card,omitempty"`
	Frames int                `yaml:"frames"`
	Params map[string]float64 `yaml:"params,omitempty"`
	SaveAs string             `yaml:"save_as,omitempty"`
}

// StepResult pairs a step's card with its run and, when saved, the run ID.
type StepResult struct {
	Card   config.Simulation
	Result *sim.Result
	RunID  string
}

// Saver persists a finished run. *storage.Store implements it.
type Saver interface {
	Save(info storage.RunInfo, result *sim.Result) (string, error)
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, logging.WrapError(err, "parse scenario %s", path)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no steps", config.ErrInvalid, path)
	}

	return &scenario, nil
}

func (sc *Scenario) global() config.Global {
	if sc.Global != nil {
		return *sc.Global
	}
	return config.DefaultGlobal()
}

func (sc *Scenario) size() (float64, float64) {
	w, h := sc.Width, sc.Height
	if w <= 0 {
		w = config.DefaultWidth
	}
	if h <= 0 {
		h = config.DefaultHeight
	}
	return w, h
}

// Resolve loads the step's preset or inline card and applies its params.
func (st *ScenarioStep) Resolve() (config.Simulation, error) {
	var card config.Simulation
	switch {
	case st.Card != nil:
		card = st.Card.Clone()
		if card.Vertices == 0 {
			card.Vertices = card.Shape.VertexCount()
		}
	case st.Preset != "":
		c, err := config.GetPreset(st.Preset)
		if err != nil {
			return config.Simulation{}, err
		}
		card = c
	default:
		return config.Simulation{}, fmt.Errorf("%w: step needs a preset or a card", config.ErrInvalid)
	}

	for name, v := range st.Params {
		if err := card.SetParam(name, v); err != nil {
			return config.Simulation{}, err
		}
	}
	return card, card.Validate()
}

// RunScenario executes all steps in order. Steps with SaveAs are stored through
// saver when it is non-nil; the card is renamed to SaveAs first.
func RunScenario(ctx context.Context, scenario *Scenario, saver Saver, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = logging.Discard()
	}
	results := make([]StepResult, 0, len(scenario.Steps))
	global := scenario.global()
	w, h := scenario.size()

	for i, step := range scenario.Steps {
		card, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.SaveAs != "" {
			card.Name = step.SaveAs
		}
		frames := step.Frames
		if frames <= 0 {
			frames = config.DefaultFrames
		}

		log.Info("running scenario step",
			"scenario", scenario.Name,
			"step", i+1,
			"of", len(scenario.Steps),
			"card", card.Name,
			"frames", frames)

		seed := scenario.Seed + int64(i)
		s := sim.New(sim.WithSeed(seed), sim.WithLogger(log))
		if err := s.Initialize(card, w, h); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		for _, m := range metrics.Standard(s.Model()) {
			s.AddMetric(m)
		}

		result, err := s.Run(ctx, sim.RunConfig{Frames: frames, Width: w, Height: h, Global: global})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Card: card, Result: result}
		if step.SaveAs != "" && saver != nil {
			id, err := saver.Save(storage.RunInfo{Card: card, Global: global, Seed: seed, Width: w, Height: h}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs one card across a range of values for a single parameter.
type ParameterSweep struct {
	Card      config.Simulation
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
	Width     float64
	Height    float64
	Seed      int64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	MeanEnergy float64
	MaxEnergy  float64
	MinEnergy  float64
	Clamped    int
}

// RunSweep executes a parameter sweep. Every point spawns from the same seed
// so only the parameter differs.
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps", config.ErrInvalid)
	}
	if log == nil {
		log = logging.Discard()
	}
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		card := sweep.Card.Clone()
		if err := card.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := runOnce(ctx, card, sweep.Frames, sweep.Width, sweep.Height, sweep.Seed)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		minE, maxE, sum := math.Inf(1), math.Inf(-1), 0.0
		for _, smp := range result.Samples {
			minE = math.Min(minE, smp.KineticEnergy)
			maxE = math.Max(maxE, smp.KineticEnergy)
			sum += smp.KineticEnergy
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			MeanEnergy: sum / float64(len(result.Samples)),
			MaxEnergy:  maxE,
			MinEnergy:  minE,
			Clamped:    result.Clamped,
		})

		log.Info("sweep point done", "step", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal)
	}

	return results, nil
}

func runOnce(ctx context.Context, card config.Simulation, frames int, w, h float64, seed int64) (*sim.Result, error) {
	if w <= 0 {
		w = config.DefaultWidth
	}
	if h <= 0 {
		h = config.DefaultHeight
	}
	if frames <= 0 {
		frames = config.DefaultFrames
	}

	s := sim.New(sim.WithSeed(seed))
	if err := s.Initialize(card, w, h); err != nil {
		return nil, err
	}
	return s.Run(ctx, sim.RunConfig{Frames: frames, Width: w, Height: h, Global: config.DefaultGlobal()})
}

// MonteCarloConfig re-runs one card from many spawn seeds.
type MonteCarloConfig struct {
	Card      config.Simulation
	NumTrials int
	Frames    int
	Width     float64
	Height    float64
	Seed      int64
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	TrialID     int
	Seed        int64
	FinalEnergy float64
	Overlaps    int
	Stable      bool // no body needed the safety clamp
}

// RunMonteCarlo executes NumTrials runs with seeds Seed, Seed+1, …
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, log *slog.Logger) ([]MonteCarloResult, error) {
	if log == nil {
		log = logging.Discard()
	}
	base := cfg.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		seed := base + int64(trial)
		result, err := runOnce(ctx, cfg.Card, cfg.Frames, cfg.Width, cfg.Height, seed)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}

		last := result.Samples[len(result.Samples)-1]
		results = append(results, MonteCarloResult{
			TrialID:     trial,
			Seed:        seed,
			FinalEnergy: last.KineticEnergy,
			Overlaps:    last.Overlaps,
			Stable:      result.Clamped == 0,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

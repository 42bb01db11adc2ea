package tournamentdomain

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var embeddedPresets []byte

// lockSpacing is the default gap between consecutive round lock times.
const lockSpacing = 48 * time.Hour

// RoundConfig describes one round of a level preset.
type RoundConfig struct {
	RoundNumber   int    `yaml:"round_number"`
	Name          string `yaml:"name"`
	RequiredPicks int    `yaml:"required_picks"`
}

// Presets maps a level to its ordered round structure.
type Presets map[Level][]RoundConfig

// DefaultPresets returns the built-in level presets.
func DefaultPresets() (Presets, error) {
	return ParsePresets(embeddedPresets)
}

// LoadPresets reads presets from path, or returns the defaults when path is empty.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return DefaultPresets()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes and validates a presets document.
func ParsePresets(data []byte) (Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presets: %w", err)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("presets document defines no levels")
	}
	for level, rounds := range p {
		if err := validateRounds(rounds); err != nil {
			return nil, fmt.Errorf("level %s: %w", level, err)
		}
		slices.SortFunc(rounds, func(a, b RoundConfig) int { return a.RoundNumber - b.RoundNumber })
	}
	return p, nil
}

func validateRounds(rounds []RoundConfig) error {
	if len(rounds) == 0 {
		return fmt.Errorf("no rounds defined")
	}
	seen := make(map[int]struct{}, len(rounds))
	for _, r := range rounds {
		if r.RoundNumber < 1 {
			return fmt.Errorf("round_number must be positive, got %d", r.RoundNumber)
		}
		if _, dup := seen[r.RoundNumber]; dup {
			return fmt.Errorf("duplicate round_number %d", r.RoundNumber)
		}
		seen[r.RoundNumber] = struct{}{}
		if r.RequiredPicks < 1 {
			return fmt.Errorf("round %d: required_picks must be at least 1", r.RoundNumber)
		}
		if r.Name == "" {
			return fmt.Errorf("round %d: name is required", r.RoundNumber)
		}
	}
	return nil
}

// Rounds returns the round structure for level.
func (p Presets) Rounds(level Level) ([]RoundConfig, bool) {
	rounds, ok := p[level]
	if !ok {
		return nil, false
	}
	return slices.Clone(rounds), true
}

// DefaultLockTime spaces round locks two days apart starting at base.
func DefaultLockTime(base time.Time, roundNumber int) time.Time {
	return base.Add(time.Duration(roundNumber-1) * lockSpacing)
}

// DefaultStart is June 1st of year, UTC, used when no start date is given.
func DefaultStart(year int) time.Time {
	return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
}

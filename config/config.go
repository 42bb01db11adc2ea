package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultStrikesToEliminate = 2
	defaultSweepInterval      = 15 * time.Minute
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Tournament    TournamentConfig    `yaml:"tournament"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// ScoringConfig holds scoring engine settings.
type ScoringConfig struct {
	// StrikesToEliminate is the default threshold; tournaments may override it.
	StrikesToEliminate int           `yaml:"strikes_to_eliminate"`
	SweepInterval      time.Duration `yaml:"sweep_interval"`
	SweepEnabled       bool          `yaml:"sweep_enabled"`
	// SweepRate caps sweep recomputes per second; zero leaves sweeps unpaced.
	SweepRate float64 `yaml:"sweep_rate"`
}

// TournamentConfig holds tournament setup settings.
type TournamentConfig struct {
	// PresetsFile replaces the embedded level presets when set.
	PresetsFile string `yaml:"presets_file"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("TOURNAMENT_PRESETS_FILE"); v != "" {
		cfg.Tournament.PresetsFile = v
	}
	if err := applyScoringEnv(&cfg.Scoring); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	// NATS is optional; without it events are not published.
	cfg.NATS.URL = os.Getenv("NATS_URL")

	cfg.Observability.MetricsAddress = os.Getenv("METRICS_ADDRESS") // optional; empty disables the ops server
	cfg.Observability.Environment = os.Getenv("ENV")
	cfg.Tournament.PresetsFile = os.Getenv("TOURNAMENT_PRESETS_FILE")

	cfg.Scoring.SweepEnabled = true
	if err := applyScoringEnv(&cfg.Scoring); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyScoringEnv(sc *ScoringConfig) error {
	if v := os.Getenv("STRIKES_TO_ELIMINATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STRIKES_TO_ELIMINATE value: %v", err)
		}
		sc.StrikesToEliminate = n
	}
	if v := os.Getenv("SCORING_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCORING_SWEEP_INTERVAL value: %v", err)
		}
		sc.SweepInterval = d
	}
	if v := os.Getenv("SCORING_SWEEP_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SCORING_SWEEP_RATE value: %v", err)
		}
		sc.SweepRate = r
	}
	if v := os.Getenv("SCORING_SWEEP_ENABLED"); v != "" {
		sc.SweepEnabled = v == "true"
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Scoring.StrikesToEliminate == 0 {
		c.Scoring.StrikesToEliminate = defaultStrikesToEliminate
	}
	if c.Scoring.SweepInterval == 0 {
		c.Scoring.SweepInterval = defaultSweepInterval
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "production"
	}
}

// Validate rejects settings the scoring engine cannot run with.
func (c *Config) Validate() error {
	if c.Scoring.StrikesToEliminate < 1 {
		return fmt.Errorf("scoring.strikes_to_eliminate must be at least 1, got %d", c.Scoring.StrikesToEliminate)
	}
	if c.Scoring.SweepInterval < time.Minute {
		return fmt.Errorf("scoring.sweep_interval must be at least 1m, got %s", c.Scoring.SweepInterval)
	}
	if c.Scoring.SweepRate < 0 {
		return fmt.Errorf("scoring.sweep_rate must not be negative, got %g", c.Scoring.SweepRate)
	}
	return nil
}

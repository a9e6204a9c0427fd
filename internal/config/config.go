// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults; Load() layers file and env.
//   - Calibration tables (SQL cutoffs, metric thresholds) live in the domain
//     packages and are only overridden here.
package config

import (
	"github.com/hirelens/hirelens/internal/domain/profile"
	"github.com/hirelens/hirelens/internal/domain/scoring"
	"github.com/hirelens/hirelens/internal/domain/sqlanalysis"
)

// SummarizerConfig controls the optional generative narrative layer.
type SummarizerConfig struct {
	// Enabled turns the Gemini summarizer on. When off, reports keep
	// their template narrative.
	Enabled bool `koanf:"enabled"`

	// Model names the Gemini model to use.
	Model string `koanf:"model"`

	// QueueSize bounds the narrative job queue.
	QueueSize int `koanf:"queue_size"`

	// Workers sets the summarizer pool size.
	Workers int `koanf:"workers"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ShardCount configures the number of shards in the session store.
	ShardCount int `koanf:"shard_count"`

	// DedupeSize bounds the event-id idempotency window.
	DedupeSize int `koanf:"dedupe_size"`

	// ReportCacheSize bounds the LRU cache of assembled reports.
	ReportCacheSize int `koanf:"report_cache_size"`

	// DefaultDifficulty is assumed for sessions created without one.
	DefaultDifficulty float64 `koanf:"default_difficulty"`

	// LowConfidence is the threshold below which a metric earns a data
	// quality note.
	LowConfidence float64 `koanf:"low_confidence"`

	// SQLThresholds overrides the query complexity category cutoffs.
	SQLThresholds sqlanalysis.Thresholds `koanf:"sql_thresholds"`

	// Scoring overrides the metric threshold table.
	Scoring scoring.Table `koanf:"scoring"`

	// Profile overrides the working-style classification boundaries.
	Profile profile.Cutoffs `koanf:"profile"`

	// IntentKeywords overrides keyword lists per intent name.
	IntentKeywords map[string][]string `koanf:"intent_keywords"`

	// Summarizer configures the generative narrative layer.
	Summarizer SummarizerConfig `koanf:"summarizer"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		ShardCount:        16,
		DedupeSize:        100_000,
		ReportCacheSize:   512,
		DefaultDifficulty: 1.0,
		LowConfidence:     0.3,
		SQLThresholds:     sqlanalysis.DefaultThresholds(),
		Scoring:           scoring.DefaultTable(),
		Profile:           profile.DefaultCutoffs(),
		Summarizer: SummarizerConfig{
			Enabled:   false,
			Model:     "gemini-2.0-flash",
			QueueSize: 256,
			Workers:   2,
		},
	}
}

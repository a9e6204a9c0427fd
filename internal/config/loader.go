package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HIRELENS_CONFIG is set
//  3. env (prefix HIRELENS_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("HIRELENS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: HIRELENS_ADDR, HIRELENS_SHARD_COUNT, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("HIRELENS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "hirelens_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ShardCount < 1:
		return fmt.Errorf("%w: shard_count must be positive", ErrInvalidConfig)
	case c.ReportCacheSize < 1:
		return fmt.Errorf("%w: report_cache_size must be positive", ErrInvalidConfig)
	case c.DefaultDifficulty < 0.5 || c.DefaultDifficulty > 1.5:
		return fmt.Errorf("%w: default_difficulty must be within [0.5, 1.5]", ErrInvalidConfig)
	case c.LowConfidence <= 0 || c.LowConfidence >= 1:
		return fmt.Errorf("%w: low_confidence must be within (0, 1)", ErrInvalidConfig)
	case c.Summarizer.Enabled && c.Summarizer.Workers < 1:
		return fmt.Errorf("%w: summarizer workers must be positive", ErrInvalidConfig)
	}
	return nil
}

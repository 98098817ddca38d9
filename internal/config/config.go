// Package config loads and validates the YAML configuration that drives a
// patterndb instance: where each disk tier lives, how the cache and
// temporal learner are tuned, and whether logging runs in development mode.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jtomasevic/patterndb/pck/patterncore"
)

// TierPaths names the filesystem root for each disk-backed tier.
type TierPaths struct {
	Warm    string `yaml:"warm" validate:"required"`
	Cold    string `yaml:"cold" validate:"required"`
	Archive string `yaml:"archive" validate:"required"`
}

// CacheConfig mirrors tiered.Config's YAML-facing shape.
type CacheConfig struct {
	Capacity                 int  `yaml:"capacity" validate:"min=1"`
	EnableAutoPromotion      bool `yaml:"enable_auto_promotion"`
	PromotionAccessThreshold int  `yaml:"promotion_access_threshold" validate:"min=1"`
	EnablePrefetching        bool `yaml:"enable_prefetching"`
	PrefetchMaxDepth         int  `yaml:"prefetch_max_depth" validate:"min=0"`
	PrefetchMaxPatterns      int  `yaml:"prefetch_max_patterns" validate:"min=0"`
}

// TemporalConfig mirrors association.LearnerConfig's YAML-facing shape.
// Durations are plain strings in the file (e.g. "10s") and parsed at load
// time with time.ParseDuration.
type TemporalConfig struct {
	MaxDelay       string  `yaml:"max_delay" validate:"required"`
	MinOccurrences uint32  `yaml:"min_occurrences" validate:"min=1"`
	MinCorrelation float32 `yaml:"min_correlation" validate:"min=0,max=1"`
	TrackingWindow string  `yaml:"tracking_window" validate:"required"`
}

// Config is the full on-disk configuration for a patterndb instance.
type Config struct {
	TierPaths   TierPaths      `yaml:"tier_paths" validate:"required"`
	Cache       CacheConfig    `yaml:"cache" validate:"required"`
	Temporal    TemporalConfig `yaml:"temporal" validate:"required"`
	DevLogging  bool           `yaml:"dev_logging"`
}

var configValidator = validator.New()

// Default returns a Config matching tiered.DefaultConfig and
// association.DefaultLearnerConfig, rooted at the given base directory.
func Default(baseDir string) Config {
	return Config{
		TierPaths: TierPaths{
			Warm:    baseDir + "/warm",
			Cold:    baseDir + "/cold",
			Archive: baseDir + "/archive",
		},
		Cache: CacheConfig{
			Capacity:                 10000,
			EnableAutoPromotion:      true,
			PromotionAccessThreshold: 3,
			EnablePrefetching:        true,
			PrefetchMaxDepth:         1,
			PrefetchMaxPatterns:      10,
		},
		Temporal: TemporalConfig{
			MaxDelay:       "10s",
			MinOccurrences: 3,
			MinCorrelation: 0.5,
			TrackingWindow: "5m",
		},
	}
}

// Load reads and validates a YAML config file at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, patterncore.ErrIoError)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, patterncore.ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints and that the duration strings parse.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w: %s", patterncore.ErrInvalidConfig, err.Error())
	}
	if _, err := c.MaxDelay(); err != nil {
		return err
	}
	if _, err := c.TrackingWindow(); err != nil {
		return err
	}
	return nil
}

// MaxDelay parses Temporal.MaxDelay.
func (c Config) MaxDelay() (time.Duration, error) {
	return parseDuration(c.Temporal.MaxDelay)
}

// TrackingWindow parses Temporal.TrackingWindow.
func (c Config) TrackingWindow() (time.Duration, error) {
	return parseDuration(c.Temporal.TrackingWindow)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid duration %q: %w", s, patterncore.ErrInvalidConfig)
	}
	return d, nil
}

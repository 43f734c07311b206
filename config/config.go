// Package config loads and validates the performance controller's
// configuration. Zero values fall back to defaults, so a partial YAML
// file only overrides what it names.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full controller configuration.
type Config struct {
	Verbose bool          `yaml:"verbose"`
	Pool    PoolConfig    `yaml:"pool"`
	LOD     LODConfig     `yaml:"lod"`
	Metrics MetricsConfig `yaml:"metrics"`
	Quality QualityConfig `yaml:"quality"`
	Texture TextureConfig `yaml:"texture"`
	Bench   BenchConfig   `yaml:"bench"`
}

// PoolConfig sizes the pools the facade creates on demand.
type PoolConfig struct {
	ParticleInitialSize int `yaml:"particle_initial_size"`
	ParticleHardLimit   int `yaml:"particle_hard_limit"`
	ZombieInitialSize   int `yaml:"zombie_initial_size"`
	ZombieHardLimit     int `yaml:"zombie_hard_limit"`
}

// LODConfig controls the selector's re-evaluation cadence.
type LODConfig struct {
	UpdateIntervalSeconds float64 `yaml:"update_interval_seconds"`
}

// MetricsConfig mirrors the collector thresholds.
type MetricsConfig struct {
	WindowSize            int     `yaml:"window_size"`
	SampleIntervalSeconds float64 `yaml:"sample_interval_seconds"`
	AlertWindowSeconds    float64 `yaml:"alert_window_seconds"`
	HistorySize           int     `yaml:"history_size"`
	LowFPS                float64 `yaml:"low_fps"`
	HighFrameMs           float64 `yaml:"high_frame_ms"`
	HighMemoryMB          float64 `yaml:"high_memory_mb"`
	HighDrawCalls         float64 `yaml:"high_draw_calls"`
	GCDropMB              float64 `yaml:"gc_drop_mb"`
	EnablePrometheus      bool    `yaml:"enable_prometheus"`
}

// QualityConfig controls the adjustment engine.
type QualityConfig struct {
	Initial         string  `yaml:"initial"` // low|medium|high|ultra|auto
	CooldownSeconds float64 `yaml:"cooldown_seconds"`
	LowFPS          float64 `yaml:"low_fps"`
	HighMemoryMB    float64 `yaml:"high_memory_mb"`
	RaiseFPS        float64 `yaml:"raise_fps"`
	RaiseMemoryMB   float64 `yaml:"raise_memory_mb"`
}

// TextureConfig names the hardware compression capabilities.
type TextureConfig struct {
	ASTC bool `yaml:"astc"`
	ETC2 bool `yaml:"etc2"`
	S3TC bool `yaml:"s3tc"`
}

// BenchConfig bounds the default benchmark procedures.
type BenchConfig struct {
	WarmupSeconds   float64 `yaml:"warmup_seconds"`
	DurationSeconds float64 `yaml:"duration_seconds"`
}

// Default returns the full default configuration.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			ParticleInitialSize: 64,
			ParticleHardLimit:   2048,
			ZombieInitialSize:   32,
			ZombieHardLimit:     512,
		},
		LOD: LODConfig{
			UpdateIntervalSeconds: 0.1,
		},
		Metrics: MetricsConfig{
			WindowSize:            300,
			SampleIntervalSeconds: 1.0,
			AlertWindowSeconds:    5.0,
			HistorySize:           64,
			LowFPS:                30,
			HighFrameMs:           33.3,
			HighMemoryMB:          512,
			HighDrawCalls:         1000,
			GCDropMB:              50,
		},
		Quality: QualityConfig{
			Initial:         "high",
			CooldownSeconds: 5.0,
			LowFPS:          30,
			HighMemoryMB:    512,
			RaiseFPS:        55,
			RaiseMemoryMB:   384,
		},
		Texture: TextureConfig{
			S3TC: true,
		},
		Bench: BenchConfig{
			WarmupSeconds:   0.1,
			DurationSeconds: 2.0,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields a zero-value fallback cannot repair.
func (c *Config) Validate() error {
	if c.Pool.ParticleInitialSize < 0 || c.Pool.ZombieInitialSize < 0 {
		return fmt.Errorf("pool initial sizes must not be negative")
	}
	if c.Pool.ParticleHardLimit < 0 || c.Pool.ZombieHardLimit < 0 {
		return fmt.Errorf("pool hard limits must not be negative")
	}
	if c.LOD.UpdateIntervalSeconds < 0 {
		return fmt.Errorf("lod update interval must not be negative, got %g", c.LOD.UpdateIntervalSeconds)
	}
	if c.Metrics.SampleIntervalSeconds < 0 {
		return fmt.Errorf("metrics sample interval must not be negative, got %g", c.Metrics.SampleIntervalSeconds)
	}
	if c.Metrics.WindowSize < 0 {
		return fmt.Errorf("metrics window size must not be negative, got %d", c.Metrics.WindowSize)
	}
	if c.Quality.CooldownSeconds < 0 {
		return fmt.Errorf("quality cooldown must not be negative, got %g", c.Quality.CooldownSeconds)
	}
	if c.Quality.Initial != "" {
		switch c.Quality.Initial {
		case "low", "medium", "high", "ultra", "auto":
		default:
			return fmt.Errorf("unknown initial quality tier %q", c.Quality.Initial)
		}
	}
	if c.Bench.DurationSeconds < 0 || c.Bench.WarmupSeconds < 0 {
		return fmt.Errorf("benchmark durations must not be negative")
	}
	return nil
}

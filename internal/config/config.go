// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for solver tuning and server settings.
//
// Values resolve in three layers: compiled defaults, optional YAML file,
// then environment variables. Environment always wins.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// SOLVER TUNING
// =============================================================================

// SolverConfig holds the narrow-phase and sweep tuning shared by every
// query component.
type SolverConfig struct {
	// MaxIterations bounds the simplex refinement and polytope expansion.
	// Must stay a small constant; it is the only guard against unbounded
	// work in the distance solver.
	MaxIterations int `yaml:"max_iterations"`

	// Epsilon is the touch threshold: separations below it are treated as
	// touching/overlapping, never separated.
	Epsilon float64 `yaml:"epsilon"`

	// CastMaxSteps bounds conservative advancement per candidate.
	CastMaxSteps int `yaml:"cast_max_steps"`

	// CastTolerance is the separation at which a sweep declares contact.
	CastTolerance float64 `yaml:"cast_tolerance"`

	// PoolSize pre-warms the transient vector pool.
	PoolSize int `yaml:"pool_size"`
}

// DefaultSolver returns the default solver tuning. Validated against the
// closed-form oracles in the narrow-phase tests; change with care.
func DefaultSolver() SolverConfig {
	return SolverConfig{
		MaxIterations: 32,
		Epsilon:       1e-9,
		CastMaxSteps:  64,
		CastTolerance: 1e-4,
		PoolSize:      32,
	}
}

// SolverFromEnv returns solver tuning with environment overrides.
func SolverFromEnv() SolverConfig {
	cfg := DefaultSolver()
	applySolverEnv(&cfg)
	return cfg
}

func applySolverEnv(cfg *SolverConfig) {
	if n := getEnvInt("SOLVER_MAX_ITERATIONS", 0); n > 0 {
		cfg.MaxIterations = n
	}
	if e := getEnvFloat("SOLVER_EPSILON", 0); e > 0 {
		cfg.Epsilon = e
	}
	if n := getEnvInt("CAST_MAX_STEPS", 0); n > 0 {
		cfg.CastMaxSteps = n
	}
	if e := getEnvFloat("CAST_TOLERANCE", 0); e > 0 {
		cfg.CastTolerance = e
	}
	if n := getEnvInt("POOL_SIZE", 0); n > 0 {
		cfg.PoolSize = n
	}
}

// =============================================================================
// SERVER SETTINGS
// =============================================================================

// ServerConfig holds the inspection server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	TickRate        int      `yaml:"tick_rate"`       // scene ticks per second
	CORSOrigins     []string `yaml:"cors_origins"`    // allowed origins; empty = localhost defaults
	RatePerSecond   float64  `yaml:"rate_per_second"` // per-IP request budget
	RateBurst       int      `yaml:"rate_burst"`      // per-IP burst
	MaxWSPerIP      int      `yaml:"max_ws_per_ip"`   // websocket connections per IP
	MaxWSTotal      int      `yaml:"max_ws_total"`    // websocket connections total
	FrameWidth      int      `yaml:"frame_width"`     // debug frame pixels
	FrameHeight     int      `yaml:"frame_height"`
	FramePixPerUnit float64  `yaml:"frame_pix_per_unit"`
}

// DefaultServer returns the default server settings.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:            8080,
		TickRate:        30,
		RatePerSecond:   10,
		RateBurst:       20,
		MaxWSPerIP:      10,
		MaxWSTotal:      500,
		FrameWidth:      960,
		FrameHeight:     540,
		FramePixPerUnit: 24,
	}
}

// ServerFromEnv returns server settings with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	applyServerEnv(&cfg)
	return cfg
}

func applyServerEnv(cfg *ServerConfig) {
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if t := getEnvInt("TICK_RATE", 0); t > 0 {
		cfg.TickRate = t
	}
	if r := getEnvFloat("RATE_PER_SECOND", 0); r > 0 {
		cfg.RatePerSecond = r
	}
	if b := getEnvInt("RATE_BURST", 0); b > 0 {
		cfg.RateBurst = b
	}
}

// =============================================================================
// AGGREGATE
// =============================================================================

// Config aggregates every section.
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Server ServerConfig `yaml:"server"`
}

// Load resolves the full configuration: defaults, then the YAML file at
// path when non-empty, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		Solver: DefaultSolver(),
		Server: DefaultServer(),
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}
	applySolverEnv(&cfg.Solver)
	applyServerEnv(&cfg.Server)
	return cfg, nil
}

// =============================================================================
// ENV HELPERS
// =============================================================================

func getEnvInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

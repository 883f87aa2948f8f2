// Package config loads and validates the parameters of a simulation run.
// Values come from a YAML file and may be overridden from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/talgya/mig-world/internal/decision"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ShockMethod selects how environmental stress reaches the community.
type ShockMethod string

const (
	ShockDiscrete  ShockMethod = "shock"      // Stochastic event each tick
	ShockSlowOnset ShockMethod = "slow_onset" // Compounding productivity decay
)

// Footprint selects how a community shock spreads over household plots.
type Footprint string

const (
	FootprintIndependent Footprint = "independent" // Independent draw per household
	FootprintClustered   Footprint = "clustered"   // Weighted by plot exposure
)

// Config holds the parameters of one run.
type Config struct {
	Ticks        int         `yaml:"ticks"         env:"MIGSIM_TICKS"`
	Households   int         `yaml:"households"    env:"MIGSIM_HOUSEHOLDS"`
	Individuals  int         `yaml:"individuals"   env:"MIGSIM_INDIVIDUALS"`
	Decision     string      `yaml:"decision"      env:"MIGSIM_DECISION"`
	MigUtil      float64     `yaml:"mig_util"      env:"MIGSIM_MIG_UTIL"`
	MigThreshold float64     `yaml:"mig_threshold" env:"MIGSIM_MIG_THRESHOLD"`
	WealthFactor float64     `yaml:"wealth_factor" env:"MIGSIM_WEALTH_FACTOR"`
	AgFactor     float64     `yaml:"ag_factor"     env:"MIGSIM_AG_FACTOR"`
	CommScale    float64     `yaml:"comm_scale"    env:"MIGSIM_COMM_SCALE"`
	ShockMethod  ShockMethod `yaml:"shock_method"  env:"MIGSIM_SHOCK_METHOD"`
	JobsAvail    float64     `yaml:"jobs_avail"    env:"MIGSIM_JOBS_AVAIL"`

	Seed      uint64    `yaml:"seed"      env:"MIGSIM_SEED"` // 0 = time-based
	Footprint Footprint `yaml:"footprint" env:"MIGSIM_FOOTPRINT"`
}

// Load reads the YAML file at path, applies environment overrides and
// validates the result. An empty path reads the environment only.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize fills the optional fields left empty.
func (c *Config) Normalize() {
	if c.Footprint == "" {
		c.Footprint = FootprintIndependent
	}
}

// Policy returns the parsed decision policy.
func (c Config) Policy() (decision.Kind, error) {
	return decision.Parse(c.Decision)
}

// Validate checks every parameter. Reserved decision policies are rejected
// here so that a run never starts with a policy that cannot decide.
func (c Config) Validate() error {
	switch {
	case c.Ticks <= 0:
		return invalid("ticks must be positive, got %d", c.Ticks)
	case c.Households <= 0:
		return invalid("households must be positive, got %d", c.Households)
	case c.Individuals <= 0:
		return invalid("individuals must be positive, got %d", c.Individuals)
	case c.MigUtil < 0:
		return invalid("mig_util must not be negative, got %g", c.MigUtil)
	case c.MigThreshold < 0:
		return invalid("mig_threshold must not be negative, got %g", c.MigThreshold)
	case c.WealthFactor <= 0:
		return invalid("wealth_factor must be positive, got %g", c.WealthFactor)
	case c.AgFactor < 0:
		return invalid("ag_factor must not be negative, got %g", c.AgFactor)
	case c.CommScale < 0 || c.CommScale > 1:
		return invalid("comm_scale must be within [0,1], got %g", c.CommScale)
	case c.JobsAvail < 0:
		return invalid("jobs_avail must not be negative, got %g", c.JobsAvail)
	}

	switch c.ShockMethod {
	case ShockDiscrete, ShockSlowOnset:
	default:
		return invalid("unknown shock_method %q", c.ShockMethod)
	}
	switch c.Footprint {
	case FootprintIndependent, FootprintClustered:
	default:
		return invalid("unknown footprint %q", c.Footprint)
	}

	k, err := c.Policy()
	if err != nil {
		return err
	}
	if !k.Implemented() {
		return fmt.Errorf("decision %q: %w", c.Decision, decision.ErrUnimplemented)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// Simulation ties together the community, the population and the labor
// market, and runs them through the phases of each tick.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/talgya/mig-world/internal/agents"
	"github.com/talgya/mig-world/internal/config"
	"github.com/talgya/mig-world/internal/decision"
	"github.com/talgya/mig-world/internal/economy"
	"github.com/talgya/mig-world/internal/metrics"
	"github.com/talgya/mig-world/internal/social"
	"github.com/talgya/mig-world/internal/world"
)

// SlowOnsetDecay is the per-tick productivity multiplier under slow onset.
const SlowOnsetDecay = 0.95

// Simulation holds the complete state of one run.
type Simulation struct {
	Config    config.Config
	Seed      uint64
	Arena     *agents.Arena
	Origin    *social.Community
	Labor     *economy.LaborMarket
	Exposure  *world.ExposureField
	Collector *Collector
	Metrics   *metrics.Metrics
	Order     Orderer

	Tick     uint64  // Current tick, starting at 0
	AgFactor float64 // Agricultural productivity, decays under slow onset

	// Outcomes of the most recent tick.
	LastShock bool
	LastLabor economy.LaborResult

	migration agents.MigrationParams
	rng       *rand.Rand
}

// Option customises a Simulation at construction.
type Option func(*Simulation)

// WithOrderer replaces the shuffled activation order.
func WithOrderer(o Orderer) Option {
	return func(s *Simulation) { s.Order = o }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Simulation) { s.Metrics = m }
}

// WithCollector replaces the default in-memory collector.
func WithCollector(c *Collector) Option {
	return func(s *Simulation) { s.Collector = c }
}

// NewSimulation validates cfg and builds a populated run. Configuration
// errors are returned before any tick executes.
func NewSimulation(cfg config.Config, opts ...Option) (*Simulation, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed+1))

	arena := agents.NewArena()
	err = agents.NewSpawner(rng).Populate(arena, agents.SpawnConfig{
		Individuals:  cfg.Individuals,
		Households:   cfg.Households,
		WealthFactor: cfg.WealthFactor,
		AgFactor:     cfg.AgFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("populate: %w", err)
	}

	s := &Simulation{
		Config:    cfg,
		Seed:      seed,
		Arena:     arena,
		Origin:    social.NewOrigin(cfg.Households, cfg.JobsAvail, cfg.CommScale),
		Labor:     economy.NewLaborMarket(cfg.WealthFactor),
		Exposure:  world.NewExposureField(int64(seed)),
		Collector: NewCollector(),
		Order:     NewShuffleOrder(rng),
		AgFactor:  cfg.AgFactor,
		migration: agents.MigrationParams{
			Policy:    policy,
			Utility:   cfg.MigUtil,
			Threshold: cfg.MigThreshold,
		},
		rng: rng,
	}
	for _, opt := range opts {
		opt(s)
	}

	inds, hhs := arena.Len()
	slog.Info("simulation ready",
		"seed", seed,
		"individuals", inds,
		"households", hhs,
		"decision", policy,
		"shock_method", cfg.ShockMethod,
		"footprint", cfg.Footprint,
	)
	return s, nil
}

// Policy returns the run's decision policy.
func (s *Simulation) Policy() decision.Kind {
	return s.migration.Policy
}

// Step runs one full tick: shock, land and hiring, job search, labor market,
// migration decisions, data collection and tick advance.
func (s *Simulation) Step() error {
	start := time.Now()

	s.applyShock()
	s.processLand()
	s.processJobSearch()
	s.clearLabor()
	migrants, err := s.processDecisions()
	if err != nil {
		return err
	}
	s.Collector.Collect(s)

	slog.Info("tick complete",
		"tick", s.Tick,
		"time", SimTime(s.Tick),
		"shock", s.LastShock,
		"ag_factor", fmt.Sprintf("%.4f", s.AgFactor),
		"matches", s.LastLabor.Matches,
		"unemployed", s.LastLabor.Unemployed,
		"migrants", migrants,
	)

	s.advance()
	s.Metrics.ObserveTick(time.Since(start), s.AgFactor)
	return nil
}

// Run steps the simulation for the configured number of ticks.
func (s *Simulation) Run(ctx context.Context) error {
	eng := NewEngine(uint64(s.Config.Ticks))
	eng.OnTick = func(uint64) error { return s.Step() }
	return eng.Run(ctx)
}

// TotalMigrations sums the migrants sent by every household so far.
func (s *Simulation) TotalMigrations() int {
	total := 0
	for _, hh := range s.Arena.Households() {
		total += hh.Migrations
	}
	return total
}

// advance closes the tick: the community resets and everybody ages a year.
func (s *Simulation) advance() {
	s.Tick++
	s.Origin.Reset()
	for _, ind := range s.Arena.Individuals() {
		ind.AgeUp()
	}
}

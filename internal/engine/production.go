// Environmental stress: community shocks and the damage they do to plots.
package engine

import (
	"log/slog"

	"github.com/talgya/mig-world/internal/agents"
	"github.com/talgya/mig-world/internal/config"
)

// applyShock runs the shock phase for the configured stress method.
func (s *Simulation) applyShock() {
	s.LastShock = false
	switch s.Config.ShockMethod {
	case config.ShockSlowOnset:
		s.AgFactor *= SlowOnsetDecay
	default:
		s.LastShock = s.Origin.Shock(s.rng)
		s.Metrics.ObserveShock(s.LastShock)
		if s.LastShock {
			slog.Debug("community shock",
				"tick", s.Tick,
				"available_jobs", s.Origin.AvailableJobs,
			)
		}
	}
}

// processLand has every household, in shuffled order, check its land for
// shock damage and decide how many workers to hire.
func (s *Simulation) processLand() {
	households := s.Arena.Households()
	for _, idx := range s.Order.Order(len(households)) {
		hh := households[idx]
		if hh.CheckLand(s.Origin.Impacted, s.hitProbability(hh), s.rng) {
			s.Metrics.IncrementLandHits()
		}
		hh.Hire(s.AgFactor, s.rng)
	}
}

// hitProbability is the chance an impacted community damages hh's plot.
func (s *Simulation) hitProbability(hh *agents.Household) float64 {
	if s.Config.Footprint == config.FootprintClustered {
		return s.Exposure.HitProbability(hh.Plot, s.Tick, s.Config.CommScale)
	}
	return s.Config.CommScale
}

// Labor market resolution, one community-wide clearing per tick.
package engine

import "log/slog"

// clearLabor runs the double auction and the non-farm job draw.
func (s *Simulation) clearLabor() {
	res := s.Labor.Clear(s.Arena, s.Origin.AvailableJobs, s.rng)
	s.LastLabor = res
	s.Metrics.ObserveLabor(res.Rounds, res.Matches, res.Skilled, res.Unskilled, res.Unemployed)

	slog.Debug("labor market cleared",
		"tick", s.Tick,
		"seekers", res.Seekers,
		"rounds", res.Rounds,
		"matches", res.Matches,
		"skilled", res.Skilled,
		"unskilled", res.Unskilled,
	)
}

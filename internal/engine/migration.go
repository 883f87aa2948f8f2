// Household decisions: whether to send a migrant, then the wealth update.
package engine

import (
	"fmt"
	"log/slog"
)

// processDecisions has every household, in shuffled order, total its
// members' income, decide on sending a migrant and settle its wealth. It
// returns the number of migrants dispatched this tick.
func (s *Simulation) processDecisions() (int, error) {
	migrants := 0
	households := s.Arena.Households()
	for _, idx := range s.Order.Order(len(households)) {
		hh := households[idx]
		members := s.Arena.Members(hh)

		hh.SumUtility(members)
		migrant, err := hh.Migrate(members, s.migration, s.rng)
		if err != nil {
			return migrants, fmt.Errorf("household %d: %w", hh.ID, err)
		}
		if migrant != nil {
			migrants++
			s.Metrics.IncrementMigrations()
			slog.Debug("migrant dispatched",
				"tick", s.Tick,
				"household", hh.ID,
				"individual", migrant.ID,
				"age", fmt.Sprintf("%.1f", migrant.Age),
				"wealth_after", fmt.Sprintf("%.0f", hh.Wealth),
			)
		}
		hh.UpdateWealth(members, s.AgFactor)
	}
	return migrants, nil
}

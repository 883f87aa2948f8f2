// Population activity: eligibility and job search.
package engine

// processJobSearch has every individual, in shuffled order, refresh its
// migration eligibility and look for work. Last tick's employment is cleared
// first so nobody carries a stale job into this tick's market.
func (s *Simulation) processJobSearch() {
	individuals := s.Arena.Individuals()
	for _, idx := range s.Order.Order(len(individuals)) {
		ind := individuals[idx]
		ind.ResetEmployment()
		ind.CheckEligibility()
		ind.FindWork(s.Arena.Household(ind.Household), s.Config.MigUtil, s.AgFactor)
	}
}

// Package economy provides the origin community's labor market: a double
// auction between job seekers and hiring households, followed by a draw for
// the community's non-farm jobs.
package economy

import (
	"math"
	"math/rand/v2"

	"github.com/talgya/mig-world/internal/agents"
)

const (
	// MaxStaticRounds is how many consecutive rounds without a match end the
	// auction.
	MaxStaticRounds = 3
	// SkilledWageCap and UnskilledWageCap bound the uniform non-farm salaries.
	SkilledWageCap   = 50000.0
	UnskilledWageCap = 24000.0
)

// LaborMarket clears the labor market once per tick.
type LaborMarket struct {
	// WealthFactor splits residual seekers into skilled (household wealth
	// above it) and unskilled.
	WealthFactor float64
	// Matches counts successful auction matches over the whole run.
	Matches int
}

// LaborResult summarises one clearing.
type LaborResult struct {
	Seekers    int `json:"seekers"`
	Rounds     int `json:"rounds"`
	Matches    int `json:"matches"`
	Skilled    int `json:"skilled"`
	Unskilled  int `json:"unskilled"`
	Unemployed int `json:"unemployed"`
}

// NewLaborMarket creates a labor market with the given skill threshold.
func NewLaborMarket(wealthFactor float64) *LaborMarket {
	return &LaborMarket{WealthFactor: wealthFactor}
}

// Clear matches every Looking individual in arena against households with
// hiring capacity, then hands out up to availableJobs non-farm jobs to the
// rest. An empty pool is a no-op.
func (m *LaborMarket) Clear(arena *agents.Arena, availableJobs float64, rng *rand.Rand) LaborResult {
	var looking []*agents.Individual
	for _, ind := range arena.Individuals() {
		if ind.Looking() {
			looking = append(looking, ind)
		}
	}
	res := LaborResult{Seekers: len(looking)}
	if len(looking) == 0 {
		return res
	}

	var employers []*agents.Household
	for _, hh := range arena.Households() {
		if hh.HireCapacity > 0 {
			employers = append(employers, hh)
		}
	}

	res.Rounds, res.Matches = auction(looking, employers, rng)
	m.Matches += res.Matches

	res.Skilled, res.Unskilled = m.allocateNonFarm(arena, stillLooking(looking), availableJobs, rng)
	res.Unemployed = len(stillLooking(looking))
	return res
}

// auction runs bilateral matching rounds until MaxStaticRounds consecutive
// rounds produce no match or nobody is left looking. Each round every
// employer samples, without replacement, as many current seekers as it has
// open positions and hires those whose ask it meets, at the midpoint.
func auction(looking []*agents.Individual, employers []*agents.Household, rng *rand.Rand) (rounds, matches int) {
	static := 0
	pool := looking
	for static < MaxStaticRounds {
		pool = stillLooking(pool)
		if len(pool) == 0 {
			break
		}
		rounds++

		changed := false
		for _, hh := range employers {
			if hh.HireCapacity <= 0 {
				continue
			}
			pool = stillLooking(pool)
			if len(pool) == 0 {
				break
			}
			k := min(hh.HireCapacity, len(pool))
			for _, idx := range rng.Perm(len(pool))[:k] {
				ind := pool[idx]
				if !ind.Looking() || hh.WageOffer < ind.WageAsk {
					continue
				}
				wage := (hh.WageOffer + ind.WageAsk) / 2
				ind.Salary = wage
				ind.Employment = agents.EmploymentOtherHousehold
				ind.Employer = hh.ID
				hh.RecordHire(ind, wage)
				matches++
				changed = true
			}
		}

		if changed {
			static = 0
		} else {
			static++
		}
	}
	return rounds, matches
}

// allocateNonFarm splits the residual seekers by household wealth and gives
// each group up to half of the community's non-farm jobs.
func (m *LaborMarket) allocateNonFarm(arena *agents.Arena, seekers []*agents.Individual, availableJobs float64, rng *rand.Rand) (skilled, unskilled int) {
	var skilledPool, unskilledPool []*agents.Individual
	for _, ind := range seekers {
		hh := arena.Household(ind.Household)
		if hh != nil && hh.Wealth > m.WealthFactor {
			skilledPool = append(skilledPool, ind)
		} else {
			unskilledPool = append(unskilledPool, ind)
		}
	}

	perGroup := availableJobs / 2
	for _, ind := range grant(unskilledPool, perGroup, rng) {
		ind.Employment = agents.EmploymentNonAgUnskilled
		ind.Salary = UnskilledWageCap * rng.Float64()
		unskilled++
	}
	for _, ind := range grant(skilledPool, perGroup, rng) {
		ind.Employment = agents.EmploymentNonAgSkilled
		ind.Salary = SkilledWageCap * rng.Float64()
		skilled++
	}
	return skilled, unskilled
}

// grant returns the whole pool when it fits in jobs, otherwise a uniform
// sample of round(jobs) members.
func grant(pool []*agents.Individual, jobs float64, rng *rand.Rand) []*agents.Individual {
	if float64(len(pool)) <= jobs {
		return pool
	}
	n := int(math.RoundToEven(jobs))
	if n <= 0 {
		return nil
	}
	out := make([]*agents.Individual, n)
	for i, idx := range rng.Perm(len(pool))[:n] {
		out[i] = pool[idx]
	}
	return out
}

func stillLooking(pool []*agents.Individual) []*agents.Individual {
	out := pool[:0:0]
	for _, ind := range pool {
		if ind.Looking() {
			out = append(out, ind)
		}
	}
	return out
}

package agents

import (
	"math"
	"math/rand/v2"

	"github.com/talgya/mig-world/internal/decision"
)

// CheckLand rolls whether this household's land was hit by the community
// shock. hitProb is the per-household probability given an impacted
// community. A hit zeroes this tick's land productivity and destroys a
// random share of wealth.
func (h *Household) CheckLand(communityImpacted bool, hitProb float64, rng *rand.Rand) bool {
	if !communityImpacted {
		return false
	}
	if rng.Float64() >= hitProb {
		return false
	}
	h.LandImpacted = true
	h.ShockCount++
	h.Wealth *= rng.Float64()
	h.LandProductivity = 0
	return true
}

// Hire sets how many workers the household wants this tick, what it offers
// each, and what its own members ask for outside work.
func (h *Household) Hire(agFactor float64, rng *rand.Rand) {
	h.HireCapacity = 0
	if !h.LandImpacted {
		h.HireCapacity = int(math.RoundToEven(h.LandOwned / 2))
		if h.HireCapacity < 0 {
			h.HireCapacity = 0
		}
	}

	h.WageOffer = 0
	if h.HireCapacity > 0 {
		h.WageOffer = agFactor * h.LandOwned / float64(h.HireCapacity+1)
	}
	h.WageAsk = h.WellbeingThreshold / float64(h.Size) * rng.Float64()
}

// RecordHire books a matched worker at the given wage.
func (h *Household) RecordHire(ind *Individual, wage float64) {
	h.Employees = append(h.Employees, ind.ID)
	h.Payments = append(h.Payments, wage)
	h.HireCapacity--
}

// SumUtility aggregates member salaries and updates the security flag.
func (h *Household) SumUtility(members []*Individual) {
	total := 0.0
	for _, m := range members {
		total += m.Salary
	}
	h.TotalUtility = total
	h.Secure = total >= h.WellbeingThreshold
}

// UtilityState returns the state read by decision policies.
func (h *Household) UtilityState() decision.State {
	return decision.State{
		TotalUtility:       h.TotalUtility,
		UtilityWithMigrant: h.UtilityWithMigrant,
		Secure:             h.Secure,
	}
}

// MigrationParams are the run-wide migration settings.
type MigrationParams struct {
	Policy    decision.Kind
	Utility   float64 // Remittance salary of a migrant
	Threshold float64 // Wealth floor to consider migration, and its cost
}

// Migrate picks one eligible member at random and, if the household can
// afford it, asks the policy whether that member leaves. It returns the
// migrant, or nil when nobody left.
func (h *Household) Migrate(members []*Individual, p MigrationParams, rng *rand.Rand) (*Individual, error) {
	var candidates []*Individual
	for _, m := range members {
		if m.CanMigrate && !m.Migrated {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	migrant := candidates[rng.IntN(len(candidates))]

	if h.Wealth <= p.Threshold {
		return nil, nil
	}

	h.UtilityWithMigrant = h.TotalUtility - migrant.Salary + p.Utility
	leave, err := decision.Decide(p.Policy, h.UtilityState())
	if err != nil {
		return nil, err
	}
	if !leave {
		return nil, nil
	}

	h.Wealth -= p.Threshold
	h.Migrations++
	migrant.Migrated = true
	migrant.CanMigrate = false
	migrant.Salary = p.Utility
	migrant.Employment = EmploymentNone
	migrant.Employer = 0
	return migrant, nil
}

// UpdateWealth books the tick's income and costs, then resets per-tick state
// for the next tick.
func (h *Household) UpdateWealth(members []*Individual, agFactor float64) {
	salaries := 0.0
	for _, m := range members {
		salaries += m.Salary
	}
	paid := 0.0
	for _, p := range h.Payments {
		paid += p
	}

	h.Wealth += salaries - h.Expenses - paid + h.LandProductivity
	if h.Wealth < 0 {
		h.Wealth = 0
		h.Secure = false
	}

	h.LandImpacted = false
	h.LandProductivity = agFactor * h.LandOwned
	h.Employees = nil
	h.Payments = nil
}

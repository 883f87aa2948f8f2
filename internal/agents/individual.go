package agents

const (
	// WorkingAge is the minimum age to work or migrate.
	WorkingAge = 14.0
	// SelfFarmLand is the land area above which members farm their own plot.
	SelfFarmLand = 20.0
)

// AgeUp advances the individual one year and clears the tick's salary.
func (ind *Individual) AgeUp() {
	ind.Age++
	ind.Salary = 0
}

// CheckEligibility marks working-age men who have not left as migration
// candidates. Eligibility is never withdrawn once granted.
func (ind *Individual) CheckEligibility() {
	if ind.Age >= WorkingAge && ind.Gender == GenderMale && !ind.Migrated {
		ind.CanMigrate = true
	}
}

// ResetEmployment clears last tick's employment before the search phase.
// Migrants keep their status.
func (ind *Individual) ResetEmployment() {
	if ind.Migrated {
		return
	}
	ind.Employment = EmploymentUnset
	ind.Employer = 0
}

// FindWork decides where the individual works this tick: own land, no work,
// or the labor market. hh is the individual's household; nil is a no-op.
func (ind *Individual) FindWork(hh *Household, migUtil, agFactor float64) {
	if hh == nil {
		return
	}
	if ind.Migrated {
		ind.Salary = migUtil
		return
	}

	switch {
	case ind.Age < WorkingAge || ind.Gender != GenderMale:
		ind.Employment = EmploymentNone
		ind.Salary = 0
	case !hh.LandImpacted && hh.LandOwned > SelfFarmLand:
		ind.Employment = EmploymentSelfAg
		ind.Salary = hh.LandOwned * agFactor * 2
	default:
		ind.Employment = EmploymentLooking
		ind.WageAsk = hh.WageAsk
		ind.Salary = 0
	}
}

// Looking reports whether the individual is in this tick's labor pool.
func (ind *Individual) Looking() bool {
	return ind.Employment == EmploymentLooking && !ind.Migrated
}

// Package agents provides the individual and household data model and the
// arena that owns them.
package agents

import (
	"fmt"

	"github.com/talgya/mig-world/internal/world"
)

// IndividualID is a unique identifier for an individual. Zero means none.
type IndividualID uint64

// HouseholdID is a unique identifier for a household. Zero means none.
type HouseholdID uint64

// Gender is the binary gender category used for eligibility rules.
type Gender uint8

const (
	GenderMale   Gender = 0
	GenderFemale Gender = 1
)

func (g Gender) String() string {
	if g == GenderMale {
		return "M"
	}
	return "F"
}

// Employment is an individual's employment status for the current tick.
type Employment uint8

const (
	EmploymentUnset          Employment = iota
	EmploymentLooking                   // In the labor market this tick
	EmploymentSelfAg                    // Farming own household land
	EmploymentOtherHousehold            // Hired by another household
	EmploymentNonAgUnskilled            // Community non-farm job, unskilled
	EmploymentNonAgSkilled              // Community non-farm job, skilled
	EmploymentNone                      // Too young or not eligible to work
)

var employmentNames = [...]string{
	EmploymentUnset:          "Unset",
	EmploymentLooking:        "Looking",
	EmploymentSelfAg:         "SelfAg",
	EmploymentOtherHousehold: "OtherAg",
	EmploymentNonAgUnskilled: "OtherNonAg_Unskilled",
	EmploymentNonAgSkilled:   "OtherNonAg_Skilled",
	EmploymentNone:           "None",
}

func (e Employment) String() string {
	if int(e) < len(employmentNames) {
		return employmentNames[e]
	}
	return fmt.Sprintf("Employment(%d)", uint8(e))
}

// Valid reports whether e is one of the defined statuses.
func (e Employment) Valid() bool {
	return int(e) < len(employmentNames)
}

// Individual is a person belonging to at most one household.
type Individual struct {
	ID     IndividualID `json:"id"`
	Age    float64      `json:"age"` // Sim-years
	Gender Gender       `json:"gender"`

	Household HouseholdID `json:"household,omitempty"`
	Head      bool        `json:"head"`

	// Economic
	Employment Employment  `json:"employment"`
	Salary     float64     `json:"salary"`
	Employer   HouseholdID `json:"employer,omitempty"`
	WageAsk    float64     `json:"wta"` // Only meaningful while Looking

	// Migration
	CanMigrate bool `json:"can_migrate"`
	Migrated   bool `json:"migrated"` // Terminal
}

// Household is a group of individuals sharing land and wealth.
type Household struct {
	ID      HouseholdID    `json:"id"`
	Size    int            `json:"size"`
	Members []IndividualID `json:"members"`
	Head    IndividualID   `json:"head,omitempty"`
	Plot    world.HexCoord `json:"plot"`

	Wealth             float64 `json:"wealth"`
	Secure             bool    `json:"secure"`
	WellbeingThreshold float64 `json:"wellbeing_threshold"`
	Expenses           float64 `json:"expenses"`

	// Land
	LandOwned        float64 `json:"land_owned"`
	LandProductivity float64 `json:"land_productivity"`
	LandImpacted     bool    `json:"land_impacted"`
	ShockCount       int     `json:"num_shocked"`

	// Labor market
	WageAsk      float64        `json:"wta"`
	WageOffer    float64        `json:"wtp"`
	HireCapacity int            `json:"hire_capacity"`
	Employees    []IndividualID `json:"employees,omitempty"`
	Payments     []float64      `json:"payments,omitempty"`

	// Migration
	TotalUtility       float64 `json:"total_utility"`
	UtilityWithMigrant float64 `json:"total_util_w_migrant"`
	Migrations         int     `json:"migrations"`
}

// PovertyLine is the per-member annual well-being threshold and upkeep.
const PovertyLine = 20000.0

// newHousehold returns a household of the given size with its thresholds set.
func newHousehold(size int, wealth, land, agFactor float64) *Household {
	if size < 1 {
		size = 1
	}
	return &Household{
		Size:               size,
		Wealth:             wealth,
		Secure:             true,
		WellbeingThreshold: float64(size) * PovertyLine,
		Expenses:           float64(size) * PovertyLine,
		LandOwned:          land,
		LandProductivity:   agFactor * land,
	}
}

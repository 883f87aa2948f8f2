package agents

import (
	"errors"
	"fmt"
)

// ErrIDCollision means an entity was inserted under an identifier that is
// already taken. Monotonic issuance makes this an invariant violation.
var ErrIDCollision = errors.New("entity id collision")

// Arena owns every individual and household of one simulation run and
// issues their identifiers. Iteration order is insertion order.
type Arena struct {
	individuals map[IndividualID]*Individual
	households  map[HouseholdID]*Household
	indOrder    []IndividualID
	hhOrder     []HouseholdID

	nextIndID IndividualID
	nextHHID  HouseholdID
}

// NewArena creates an empty arena whose first issued IDs are 1.
func NewArena() *Arena {
	return &Arena{
		individuals: make(map[IndividualID]*Individual),
		households:  make(map[HouseholdID]*Household),
		nextIndID:   1,
		nextHHID:    1,
	}
}

// AddIndividual stores ind. A zero ID is replaced by the next issued ID.
func (a *Arena) AddIndividual(ind *Individual) (IndividualID, error) {
	if ind.ID == 0 {
		ind.ID = a.nextIndID
	}
	if _, ok := a.individuals[ind.ID]; ok {
		return 0, fmt.Errorf("%w: individual %d", ErrIDCollision, ind.ID)
	}
	if ind.ID >= a.nextIndID {
		a.nextIndID = ind.ID + 1
	}
	a.individuals[ind.ID] = ind
	a.indOrder = append(a.indOrder, ind.ID)
	return ind.ID, nil
}

// AddHousehold stores hh. A zero ID is replaced by the next issued ID.
func (a *Arena) AddHousehold(hh *Household) (HouseholdID, error) {
	if hh.ID == 0 {
		hh.ID = a.nextHHID
	}
	if _, ok := a.households[hh.ID]; ok {
		return 0, fmt.Errorf("%w: household %d", ErrIDCollision, hh.ID)
	}
	if hh.ID >= a.nextHHID {
		a.nextHHID = hh.ID + 1
	}
	a.households[hh.ID] = hh
	a.hhOrder = append(a.hhOrder, hh.ID)
	return hh.ID, nil
}

// Individual returns the individual with the given ID, or nil.
func (a *Arena) Individual(id IndividualID) *Individual {
	return a.individuals[id]
}

// Household returns the household with the given ID, or nil.
func (a *Arena) Household(id HouseholdID) *Household {
	return a.households[id]
}

// Individuals returns all individuals in insertion order.
func (a *Arena) Individuals() []*Individual {
	out := make([]*Individual, len(a.indOrder))
	for i, id := range a.indOrder {
		out[i] = a.individuals[id]
	}
	return out
}

// Households returns all households in insertion order.
func (a *Arena) Households() []*Household {
	out := make([]*Household, len(a.hhOrder))
	for i, id := range a.hhOrder {
		out[i] = a.households[id]
	}
	return out
}

// Members returns the individuals belonging to hh, in membership order.
func (a *Arena) Members(hh *Household) []*Individual {
	out := make([]*Individual, 0, len(hh.Members))
	for _, id := range hh.Members {
		if ind := a.individuals[id]; ind != nil {
			out = append(out, ind)
		}
	}
	return out
}

// Join links ind into hh on both sides of the membership relation.
func (a *Arena) Join(hh *Household, ind *Individual) {
	ind.Household = hh.ID
	hh.Members = append(hh.Members, ind.ID)
}

// Unassigned returns individuals not yet belonging to a household.
func (a *Arena) Unassigned() []*Individual {
	var out []*Individual
	for _, id := range a.indOrder {
		if ind := a.individuals[id]; ind.Household == 0 {
			out = append(out, ind)
		}
	}
	return out
}

// Len returns the number of individuals and households.
func (a *Arena) Len() (individuals, households int) {
	return len(a.indOrder), len(a.hhOrder)
}

// Population spawning. Creates the initial individuals and groups them into
// households, each with its own wealth, land and head.
package agents

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/talgya/mig-world/internal/world"
)

// Demographic and land distribution parameters of the origin community.
const (
	ageShape      = 1.68 // Weibull shape for age
	ageScale      = 33.6 // Years
	meanHHSize    = 5.13 // Poisson mean household size
	meanLand      = 14.0
	landStdDev    = 5.0
	wealthSpreadD = 5.0 // Wealth std dev is wealth factor / this
)

// SpawnConfig controls initial population generation.
type SpawnConfig struct {
	Individuals  int
	Households   int
	WealthFactor float64
	AgFactor     float64
}

// Spawner creates the initial population of a run.
type Spawner struct {
	rng  *rand.Rand
	age  distuv.Weibull
	size distuv.Poisson
	land distuv.Normal
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng *rand.Rand) *Spawner {
	return &Spawner{
		rng:  rng,
		age:  distuv.Weibull{K: ageShape, Lambda: 1, Src: rng},
		size: distuv.Poisson{Lambda: meanHHSize, Src: rng},
		land: distuv.Normal{Mu: meanLand, Sigma: landStdDev, Src: rng},
	}
}

// Populate fills arena with cfg.Individuals individuals and cfg.Households
// households. Households are formed in ID order, each gathering up to its
// size from the still-unassigned individuals, so late households may end up
// with fewer members than their size or none at all.
func (s *Spawner) Populate(arena *Arena, cfg SpawnConfig) error {
	for i := 0; i < cfg.Individuals; i++ {
		if _, err := arena.AddIndividual(s.spawnIndividual()); err != nil {
			return fmt.Errorf("spawn individual: %w", err)
		}
	}

	plots := world.Plots(cfg.Households)
	wealth := distuv.Normal{Mu: cfg.WealthFactor, Sigma: cfg.WealthFactor / wealthSpreadD, Src: s.rng}
	for i := 0; i < cfg.Households; i++ {
		hh := s.spawnHousehold(wealth.Rand(), cfg.AgFactor)
		hh.Plot = plots[i]
		if _, err := arena.AddHousehold(hh); err != nil {
			return fmt.Errorf("spawn household: %w", err)
		}
		s.gatherMembers(arena, hh)
		assignHead(arena, hh)
	}
	return nil
}

func (s *Spawner) spawnIndividual() *Individual {
	gender := GenderMale
	if s.rng.Float64() < 0.5 {
		gender = GenderFemale
	}
	return &Individual{
		Age:    s.age.Rand() * ageScale,
		Gender: gender,
	}
}

func (s *Spawner) spawnHousehold(wealth, agFactor float64) *Household {
	size := int(s.size.Rand())
	// Land area is never negative.
	land := s.land.Rand()
	if land < 0 {
		land = 0
	}
	return newHousehold(size, wealth, land, agFactor)
}

// gatherMembers draws up to hh.Size unassigned individuals at random.
func (s *Spawner) gatherMembers(arena *Arena, hh *Household) {
	free := arena.Unassigned()
	if len(free) > hh.Size {
		picked := make([]*Individual, hh.Size)
		for i, idx := range s.rng.Perm(len(free))[:hh.Size] {
			picked[i] = free[idx]
		}
		free = picked
	}
	for _, ind := range free {
		arena.Join(hh, ind)
	}
}

// assignHead makes the oldest man the head, or the oldest woman when the
// household has no men. Empty households have no head.
func assignHead(arena *Arena, hh *Household) {
	var oldestMale, oldestFemale *Individual
	for _, m := range arena.Members(hh) {
		switch m.Gender {
		case GenderMale:
			if oldestMale == nil || m.Age > oldestMale.Age {
				oldestMale = m
			}
		default:
			if oldestFemale == nil || m.Age > oldestFemale.Age {
				oldestFemale = m
			}
		}
	}

	head := oldestMale
	if head == nil {
		head = oldestFemale
	}
	if head == nil {
		return
	}
	head.Head = true
	hh.Head = head.ID
}

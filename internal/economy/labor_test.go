package economy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mig-world/internal/agents"
)

type laborFixture struct {
	arena   *agents.Arena
	seekers []*agents.Individual
	homes   []*agents.Household
}

// newFixture builds one home household with nSeekers members asking ask, plus
// one employer per entry of offers with the given capacity.
func newFixture(t *testing.T, nSeekers int, ask, homeWealth float64, offers []float64, capacity int) laborFixture {
	t.Helper()
	f := laborFixture{arena: agents.NewArena()}

	home := &agents.Household{Size: 1, Wealth: homeWealth}
	_, err := f.arena.AddHousehold(home)
	require.NoError(t, err)
	f.homes = append(f.homes, home)

	for i := 0; i < nSeekers; i++ {
		ind := &agents.Individual{Age: 30, Employment: agents.EmploymentLooking, WageAsk: ask}
		_, err := f.arena.AddIndividual(ind)
		require.NoError(t, err)
		f.arena.Join(home, ind)
		f.seekers = append(f.seekers, ind)
	}

	for _, offer := range offers {
		hh := &agents.Household{Size: 1, WageOffer: offer, HireCapacity: capacity}
		_, err := f.arena.AddHousehold(hh)
		require.NoError(t, err)
		f.homes = append(f.homes, hh)
	}
	return f
}

func TestClearEmptyPoolIsNoop(t *testing.T) {
	f := newFixture(t, 0, 0, 0, []float64{10}, 5)
	m := NewLaborMarket(1000)

	res := m.Clear(f.arena, 100, rand.New(rand.NewPCG(1, 1)))
	assert.Equal(t, LaborResult{}, res)
	assert.Zero(t, m.Matches)
	assert.Equal(t, 5, f.homes[1].HireCapacity)
}

func TestAuctionMatchesAtMidpoint(t *testing.T) {
	f := newFixture(t, 4, 10, 0, []float64{20}, 2)
	m := NewLaborMarket(1000)

	res := m.Clear(f.arena, 0, rand.New(rand.NewPCG(2, 2)))

	assert.Equal(t, 2, res.Matches)
	assert.Equal(t, 2, m.Matches)
	employer := f.homes[1]
	assert.Zero(t, employer.HireCapacity)
	assert.Len(t, employer.Employees, 2)
	require.Len(t, employer.Payments, 2)

	hired := 0
	for _, ind := range f.seekers {
		if ind.Employment == agents.EmploymentOtherHousehold {
			hired++
			assert.Equal(t, 15.0, ind.Salary)
			assert.Equal(t, employer.ID, ind.Employer)
		}
	}
	assert.Equal(t, 2, hired)
	for _, p := range employer.Payments {
		assert.Equal(t, 15.0, p)
	}
}

func TestAuctionNeverMatchesTwice(t *testing.T) {
	f := newFixture(t, 10, 1, 0, []float64{5, 6, 7, 8}, 4)
	m := NewLaborMarket(1000)

	res := m.Clear(f.arena, 0, rand.New(rand.NewPCG(3, 3)))

	hiredBy := map[agents.IndividualID]int{}
	total := 0
	for _, hh := range f.homes[1:] {
		for _, id := range hh.Employees {
			hiredBy[id]++
			total++
		}
	}
	for id, n := range hiredBy {
		assert.Equal(t, 1, n, "individual %d matched %d times", id, n)
	}
	assert.Equal(t, 10, total, "16 open positions absorb all 10 seekers")
	assert.Equal(t, 10, res.Matches)
	assert.Zero(t, res.Unemployed)
}

func TestAuctionTerminatesWhenAsksExceedOffers(t *testing.T) {
	f := newFixture(t, 5, 100, 0, []float64{1, 2}, 3)
	m := NewLaborMarket(1000)

	res := m.Clear(f.arena, 0, rand.New(rand.NewPCG(4, 4)))

	assert.Equal(t, MaxStaticRounds, res.Rounds)
	assert.Zero(t, res.Matches)
	assert.Equal(t, 5, res.Unemployed)
	for _, ind := range f.seekers {
		assert.Equal(t, agents.EmploymentLooking, ind.Employment)
		assert.Zero(t, ind.Salary)
	}
}

func TestNonFarmAllocationSplitsBySkill(t *testing.T) {
	// Rich home: everybody is skilled. 10 seekers, 6 jobs → 3 per group.
	f := newFixture(t, 10, 100, 5000, nil, 0)
	m := NewLaborMarket(1000)

	res := m.Clear(f.arena, 6, rand.New(rand.NewPCG(5, 5)))

	assert.Equal(t, 3, res.Skilled)
	assert.Zero(t, res.Unskilled)
	assert.Equal(t, 7, res.Unemployed)
	for _, ind := range f.seekers {
		switch ind.Employment {
		case agents.EmploymentNonAgSkilled:
			assert.GreaterOrEqual(t, ind.Salary, 0.0)
			assert.Less(t, ind.Salary, SkilledWageCap)
		case agents.EmploymentLooking:
			assert.Zero(t, ind.Salary)
		default:
			t.Fatalf("unexpected status %s", ind.Employment)
		}
	}
}

func TestNonFarmAllocationGrantsWholeSmallPool(t *testing.T) {
	f := newFixture(t, 2, 100, 0, nil, 0)
	m := NewLaborMarket(1000)

	res := m.Clear(f.arena, 10, rand.New(rand.NewPCG(6, 6)))

	assert.Equal(t, 2, res.Unskilled)
	for _, ind := range f.seekers {
		assert.Equal(t, agents.EmploymentNonAgUnskilled, ind.Employment)
		assert.Less(t, ind.Salary, UnskilledWageCap)
	}
}

func TestMigrantsStayOutOfMarket(t *testing.T) {
	f := newFixture(t, 3, 1, 0, []float64{10}, 5)
	f.seekers[0].Migrated = true
	m := NewLaborMarket(1000)

	res := m.Clear(f.arena, 10, rand.New(rand.NewPCG(7, 7)))

	assert.Equal(t, 2, res.Seekers)
	assert.Zero(t, f.seekers[0].Employer)
}

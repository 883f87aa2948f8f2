package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaIssuesMonotonicIDs(t *testing.T) {
	a := NewArena()
	for want := IndividualID(1); want <= 5; want++ {
		id, err := a.AddIndividual(&Individual{})
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	hid, err := a.AddHousehold(&Household{Size: 1})
	require.NoError(t, err)
	assert.Equal(t, HouseholdID(1), hid)

	inds, hhs := a.Len()
	assert.Equal(t, 5, inds)
	assert.Equal(t, 1, hhs)
}

func TestArenaRejectsIDCollision(t *testing.T) {
	a := NewArena()
	_, err := a.AddIndividual(&Individual{ID: 3})
	require.NoError(t, err)

	_, err = a.AddIndividual(&Individual{ID: 3})
	require.ErrorIs(t, err, ErrIDCollision)

	// Issuance continues above the highest explicit ID.
	id, err := a.AddIndividual(&Individual{})
	require.NoError(t, err)
	assert.Equal(t, IndividualID(4), id)

	_, err = a.AddHousehold(&Household{ID: 1})
	require.NoError(t, err)
	_, err = a.AddHousehold(&Household{ID: 1})
	require.ErrorIs(t, err, ErrIDCollision)
}

func TestArenaMembership(t *testing.T) {
	a := NewArena()
	hh := &Household{Size: 2}
	_, err := a.AddHousehold(hh)
	require.NoError(t, err)

	var inds []*Individual
	for i := 0; i < 3; i++ {
		ind := &Individual{}
		_, err := a.AddIndividual(ind)
		require.NoError(t, err)
		inds = append(inds, ind)
	}
	a.Join(hh, inds[0])
	a.Join(hh, inds[2])

	members := a.Members(hh)
	require.Len(t, members, 2)
	assert.Same(t, inds[0], members[0])
	assert.Same(t, inds[2], members[1])
	assert.Equal(t, hh.ID, inds[2].Household)

	free := a.Unassigned()
	require.Len(t, free, 1)
	assert.Same(t, inds[1], free[0])

	assert.Same(t, hh, a.Household(hh.ID))
	assert.Nil(t, a.Household(99))
	assert.Nil(t, a.Individual(99))
}

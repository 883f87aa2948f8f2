package engine

import "math/rand/v2"

// Orderer decides the activation order of entities within a phase.
// Order(n) returns a permutation of 0..n-1.
type Orderer interface {
	Order(n int) []int
}

// ShuffleOrder draws a fresh random permutation on every call so no entity
// is systematically first to the land, labor or migration phases.
type ShuffleOrder struct {
	rng *rand.Rand
}

// NewShuffleOrder returns an orderer drawing from rng.
func NewShuffleOrder(rng *rand.Rand) ShuffleOrder {
	return ShuffleOrder{rng: rng}
}

// Order returns a random permutation of 0..n-1.
func (o ShuffleOrder) Order(n int) []int {
	return o.rng.Perm(n)
}

// SequentialOrder activates entities in ID order.
type SequentialOrder struct{}

// Order returns 0..n-1.
func (SequentialOrder) Order(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

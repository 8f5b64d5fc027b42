package sample

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		idx := Distinct(rng, 8, 20)
		require.Len(t, idx, 8)

		seen := make(map[int]bool)
		for _, i := range idx {
			assert.GreaterOrEqual(t, i, 0)
			assert.Less(t, i, 20)
			assert.False(t, seen[i], "index drawn twice")
			seen[i] = true
		}
	}
}

func TestDistinctDeterministic(t *testing.T) {
	a := Distinct(rand.New(rand.NewSource(42)), 5, 100)
	b := Distinct(rand.New(rand.NewSource(42)), 5, 100)
	assert.Equal(t, a, b)
}

func TestDistinctFullPopulation(t *testing.T) {
	idx := Distinct(rand.New(rand.NewSource(7)), 10, 10)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, idx)
}

func TestDistinctPanicsWhenOversampling(t *testing.T) {
	assert.Panics(t, func() {
		Distinct(rand.New(rand.NewSource(1)), 5, 4)
	})
}

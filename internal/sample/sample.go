// Package sample implements uniform sampling of distinct indices for
// randomized estimation loops.
package sample

import "math/rand"

// Distinct draws k distinct indices uniformly at random from [0, n)
// without replacement using a partial Fisher-Yates shuffle. The caller
// supplies the RNG, so identical seeds yield identical draws.
// Distinct panics if k > n; callers validate sizes beforehand.
func Distinct(rng *rand.Rand, k, n int) []int {
	if k > n {
		panic("sample: k exceeds population size")
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

package assign

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Unmatched marks a row with no real column assigned.
const Unmatched = -1

// ErrEmptyCostMatrix is returned when the cost matrix has no rows or
// no columns.
var ErrEmptyCostMatrix = errors.New("cost matrix must not be empty")

// ErrNegativeCost is returned when the cost matrix contains a negative
// or non-finite entry.
var ErrNegativeCost = errors.New("cost matrix entries must be non-negative and finite")

// MinCost computes the minimum-cost assignment of rows to columns of a
// dense non-negative cost matrix using the Hungarian (Munkres)
// primal-dual method with augmenting paths.
//
// The result maps each row index to its assigned column index, or
// Unmatched when the row's optimal partner falls into the padding of a
// non-square matrix. Each real column is used at most once.
func MinCost(cost *mat.Dense) ([]int, error) {
	rows, cols := cost.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyCostMatrix
	}

	maxEntry := 0.0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := cost.At(r, c)
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, ErrNegativeCost
			}
			if v > maxEntry {
				maxEntry = v
			}
		}
	}

	// Pad to square. Any constant works: every perfect matching uses
	// the same number of padded cells, so the optimum among real
	// entries is unchanged.
	n := rows
	if cols > n {
		n = cols
	}
	pad := maxEntry + 1
	at := func(r, c int) float64 {
		if r < rows && c < cols {
			return cost.At(r, c)
		}
		return pad
	}

	// Hungarian algorithm with row/column potentials and augmenting
	// paths; 1-based bookkeeping with index 0 as the virtual source.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) // match[j] = row assigned to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := at(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Augment along the alternating path.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	assignment := make([]int, rows)
	for r := range assignment {
		assignment[r] = Unmatched
	}
	for j := 1; j <= n; j++ {
		r := match[j] - 1
		c := j - 1
		if r >= 0 && r < rows && c < cols {
			assignment[r] = c
		}
	}
	return assignment, nil
}

// TotalCost sums the cost of all matched pairs in an assignment as
// returned by MinCost.
func TotalCost(cost *mat.Dense, assignment []int) float64 {
	total := 0.0
	for r, c := range assignment {
		if c != Unmatched {
			total += cost.At(r, c)
		}
	}
	return total
}

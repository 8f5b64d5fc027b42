package lsq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimizeNonlinear(t *testing.T) {
	// Residual vanishes at (3, -1).
	f := func(params, dst []float64) {
		x, y := params[0], params[1]
		dst[0] = x - 3
		dst[1] = y + 1
		dst[2] = (x - 3) * (y + 1)
	}

	params := []float64{0, 0}
	norm, err := Minimize(f, params, 3, 200, 1e-10)
	require.NoError(t, err)

	assert.InDelta(t, 3, params[0], 1e-4)
	assert.InDelta(t, -1, params[1], 1e-4)
	assert.Less(t, norm, 1e-4)
}

func TestMinimizeOverdetermined(t *testing.T) {
	// min over x of (x-1)^2 + (x-2)^2 is at x = 1.5 with norm sqrt(0.5).
	f := func(params, dst []float64) {
		dst[0] = params[0] - 1
		dst[1] = params[0] - 2
	}

	params := []float64{10}
	norm, err := Minimize(f, params, 2, 200, 1e-9)
	require.NoError(t, err)

	assert.InDelta(t, 1.5, params[0], 1e-3)
	assert.InDelta(t, math.Sqrt(0.5), norm, 1e-3)
}

func TestMinimizeAlreadyConverged(t *testing.T) {
	f := func(params, dst []float64) {
		dst[0] = params[0]
	}

	params := []float64{0}
	norm, err := Minimize(f, params, 1, 200, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, 0.0, norm)
}

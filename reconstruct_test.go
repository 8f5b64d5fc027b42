package multiview

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/multiview/internal/matutil"
	"github.com/hupe1980/multiview/internal/synth"
)

// testScene projects a synthetic cloud into the stereo rig and returns
// everything ReconstructPoints needs, with pointsB shuffled by perm
// (perm[i] is the position of cloud[i] in pointsB).
func testScene(t *testing.T, rng *rand.Rand, n int) (cloud []r3.Vector, pointsA, pointsB []r2.Point, p1, p2, f *mat.Dense) {
	t.Helper()

	p1, p2, k, pose2R, pose2T := synth.TwoCameras()
	pose1 := Pose{R: matutil.Eye(3)}
	pose2 := Pose{R: pose2R, T: pose2T}

	f, err := FundamentalMatrixFromPoses(pose1, pose2, k, k)
	require.NoError(t, err)

	cloud = synth.Cloud(rng, n)
	pointsA = make([]r2.Point, n)
	pointsB = make([]r2.Point, n)
	perm := rng.Perm(n)
	for i, x := range cloud {
		pointsA[i] = synth.Project(p1, x)
		pointsB[perm[i]] = synth.Project(p2, x)
	}
	return cloud, pointsA, pointsB, p1, p2, f
}

func TestReconstructPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(51))
	cloud, pointsA, pointsB, p1, p2, f := testScene(t, rng, 12)

	got, err := ReconstructPoints(pointsA, pointsB, p1, p2, f)
	require.NoError(t, err)
	require.Len(t, got, len(cloud))

	// The matching undoes the shuffle, so got follows the cloud order.
	for i, want := range cloud {
		assert.InDelta(t, want.X, got[i].X, 1e-6)
		assert.InDelta(t, want.Y, got[i].Y, 1e-6)
		assert.InDelta(t, want.Z, got[i].Z, 1e-6)
	}
}

func TestReconstructPointsParallel(t *testing.T) {
	rng := rand.New(rand.NewSource(52))
	_, pointsA, pointsB, p1, p2, f := testScene(t, rng, 16)

	serial, err := ReconstructPoints(pointsA, pointsB, p1, p2, f)
	require.NoError(t, err)

	parallel, err := ReconstructPoints(pointsA, pointsB, p1, p2, f, WithParallelism(4))
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestReconstructPointsUnmatchedDropped(t *testing.T) {
	rng := rand.New(rand.NewSource(53))
	cloud, pointsA, _, p1, p2, f := testScene(t, rng, 5)

	// Only the first three points are visible in the second view.
	pointsB := make([]r2.Point, 3)
	for i := 0; i < 3; i++ {
		pointsB[i] = synth.Project(p2, cloud[i])
	}

	got, err := ReconstructPoints(pointsA, pointsB, p1, p2, f)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := 0; i < 3; i++ {
		assert.InDelta(t, cloud[i].X, got[i].X, 1e-6)
		assert.InDelta(t, cloud[i].Y, got[i].Y, 1e-6)
		assert.InDelta(t, cloud[i].Z, got[i].Z, 1e-6)
	}
}

func TestReconstructPointsMaxCost(t *testing.T) {
	rng := rand.New(rand.NewSource(54))
	cloud, pointsA, pointsB, p1, p2, f := testScene(t, rng, 8)

	// Run once without corruption to learn which pointsB entry belongs
	// to cloud[3], then push it far off its epipolar line.
	corrupted := -1
	for j, b := range pointsB {
		want := synth.Project(p2, cloud[3])
		if b == want {
			corrupted = j
			break
		}
	}
	require.GreaterOrEqual(t, corrupted, 0)
	pointsB[corrupted].Y += 200

	got, err := ReconstructPoints(pointsA, pointsB, p1, p2, f, WithMaxCost(1e-6))
	require.NoError(t, err)
	require.Less(t, len(got), len(cloud))

	// Only true pairs pass the gate, so every surviving point must line
	// up with a cloud point other than the corrupted one, in pointsA
	// order.
	next := 0
	for _, g := range got {
		matched := false
		for ; next < len(cloud); next++ {
			if next == 3 {
				continue
			}
			w := cloud[next]
			if math.Abs(w.X-g.X) < 1e-6 && math.Abs(w.Y-g.Y) < 1e-6 && math.Abs(w.Z-g.Z) < 1e-6 {
				matched = true
				next++
				break
			}
		}
		assert.True(t, matched, "reconstructed point does not line up with the cloud")
	}
}

func TestReconstructPointsEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(55))
	_, pointsA, _, p1, p2, f := testScene(t, rng, 4)

	got, err := ReconstructPoints(nil, nil, p1, p2, f)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ReconstructPoints(pointsA, nil, p1, p2, f)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReconstructPointsWithLogger(t *testing.T) {
	rng := rand.New(rand.NewSource(56))
	_, pointsA, pointsB, p1, p2, f := testScene(t, rng, 6)

	got, err := ReconstructPoints(pointsA, pointsB, p1, p2, f, WithLogger(NoopLogger()))
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestErrorTaxonomy(t *testing.T) {
	rng := rand.New(rand.NewSource(57))
	_, pointsA, pointsB, p1, _, _ := testScene(t, rng, 7)

	// Too few correspondences for the 8-point algorithm.
	_, err := EstimateFundamentalMatrix(pointsA, pointsB, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Too few views for triangulation.
	_, _, err = TriangulateMultiView([]*mat.Dense{p1}, pointsA[:1], false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Mismatched point sets.
	_, err = EstimateFundamentalMatrix(pointsA, pointsB[:5], 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

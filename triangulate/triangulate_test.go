package triangulate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/multiview/internal/synth"
)

// threeCameras extends the stereo rig with a third viewpoint.
func threeCameras() []*mat.Dense {
	p1, p2, k, _, _ := synth.TwoCameras()
	p3 := synth.Camera(k, synth.RotationY(-0.12), r3.Vector{X: 0.8, Y: -0.15, Z: 0.2})
	return []*mat.Dense{p1, p2, p3}
}

func TestTwoViewRoundTrip(t *testing.T) {
	p1, p2, _, _, _ := synth.TwoCameras()
	rng := rand.New(rand.NewSource(41))

	for _, want := range synth.Cloud(rng, 20) {
		got, err := TwoView(p1, p2, synth.Project(p1, want), synth.Project(p2, want))
		require.NoError(t, err)

		assert.InDelta(t, want.X, got.X, 1e-6)
		assert.InDelta(t, want.Y, got.Y, 1e-6)
		assert.InDelta(t, want.Z, got.Z, 1e-6)
	}
}

func TestMultiViewRoundTrip(t *testing.T) {
	cams := threeCameras()
	rng := rand.New(rand.NewSource(42))

	for _, want := range synth.Cloud(rng, 20) {
		points := make([]r2.Point, len(cams))
		for i, p := range cams {
			points[i] = synth.Project(p, want)
		}

		got, residual, err := MultiView(cams, points, false)
		require.NoError(t, err)
		assert.Zero(t, residual)

		assert.InDelta(t, want.X, got.X, 1e-6)
		assert.InDelta(t, want.Y, got.Y, 1e-6)
		assert.InDelta(t, want.Z, got.Z, 1e-6)
	}
}

// reprojectionNorm measures the stacked reprojection residual of a
// candidate point against the observed image points.
func reprojectionNorm(cams []*mat.Dense, points []r2.Point, x r3.Vector) float64 {
	sum := 0.0
	for i, p := range cams {
		proj := Project(p, x)
		dx := proj.X - points[i].X
		dy := proj.Y - points[i].Y
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum)
}

func TestMultiViewRefineImprovesNoisyObservations(t *testing.T) {
	cams := threeCameras()
	rng := rand.New(rand.NewSource(43))

	for _, want := range synth.Cloud(rng, 10) {
		points := make([]r2.Point, len(cams))
		for i, p := range cams {
			proj := synth.Project(p, want)
			points[i] = r2.Point{
				X: proj.X + rng.NormFloat64()*0.5,
				Y: proj.Y + rng.NormFloat64()*0.5,
			}
		}

		linear, _, err := MultiView(cams, points, false)
		require.NoError(t, err)

		refined, residual, err := MultiView(cams, points, true)
		require.NoError(t, err)

		assert.LessOrEqual(t, residual, reprojectionNorm(cams, points, linear)+1e-9)
		assert.InDelta(t, reprojectionNorm(cams, points, refined), residual, 1e-6)

		// The refined point stays close to the ground truth.
		assert.InDelta(t, want.X, refined.X, 0.1)
		assert.InDelta(t, want.Y, refined.Y, 0.1)
		assert.InDelta(t, want.Z, refined.Z, 0.1)
	}
}

func TestMultiViewInsufficientViews(t *testing.T) {
	cams := threeCameras()

	_, _, err := MultiView(cams[:1], []r2.Point{{X: 1, Y: 1}}, false)
	var insufficient *ErrInsufficientViews
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Got)
}

func TestMultiViewCountMismatch(t *testing.T) {
	cams := threeCameras()
	_, _, err := MultiView(cams, []r2.Point{{X: 1, Y: 1}}, false)
	assert.ErrorIs(t, err, ErrViewCountMismatch)
}

func TestMultiViewMatchesTwoView(t *testing.T) {
	p1, p2, _, _, _ := synth.TwoCameras()
	want := r3.Vector{X: 0.4, Y: -0.7, Z: 6}
	x := synth.Project(p1, want)
	xp := synth.Project(p2, want)

	a, err := TwoView(p1, p2, x, xp)
	require.NoError(t, err)

	b, _, err := MultiView([]*mat.Dense{p1, p2}, []r2.Point{x, xp}, false)
	require.NoError(t, err)

	assert.InDelta(t, a.X, b.X, 1e-8)
	assert.InDelta(t, a.Y, b.Y, 1e-8)
	assert.InDelta(t, a.Z, b.Z, 1e-8)
}

func TestProject(t *testing.T) {
	p1, _, _, _, _ := synth.TwoCameras()
	x := r3.Vector{X: 1, Y: 2, Z: 4}

	got := Project(p1, x)
	// Camera 1 is K*[I|0] with fx = fy = 800, cx = 320, cy = 240.
	assert.InDelta(t, 800*1/4.0+320, got.X, 1e-12)
	assert.InDelta(t, 800*2/4.0+240, got.Y, 1e-12)
}

// Package synth generates synthetic camera setups and point clouds for
// tests: known intrinsics, poses with points in front of both cameras,
// noise-free projections, and controlled outlier injection.
package synth

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Intrinsics returns a fixed pinhole calibration matrix.
func Intrinsics() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		800, 0, 320,
		0, 800, 240,
		0, 0, 1,
	})
}

// RotationY returns the 3x3 rotation by angle (radians) about the Y
// axis.
func RotationY(angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

// Camera builds the 3x4 projection matrix K * [R|t] for a world-to-
// camera transform Xc = R*Xw + t.
func Camera(k, r *mat.Dense, t r3.Vector) *mat.Dense {
	rt := mat.NewDense(3, 4, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			rt.Set(row, col, r.At(row, col))
		}
	}
	rt.Set(0, 3, t.X)
	rt.Set(1, 3, t.Y)
	rt.Set(2, 3, t.Z)

	p := mat.NewDense(3, 4, nil)
	p.Mul(k, rt)
	return p
}

// Cloud draws n random 3D points inside a box in front of the test
// cameras (x, y in [-2, 2], z in [4, 8]).
func Cloud(rng *rand.Rand, n int) []r3.Vector {
	points := make([]r3.Vector, n)
	for i := range points {
		points[i] = r3.Vector{
			X: rng.Float64()*4 - 2,
			Y: rng.Float64()*4 - 2,
			Z: rng.Float64()*4 + 4,
		}
	}
	return points
}

// Project applies a 3x4 projection matrix to a 3D point.
func Project(p *mat.Dense, v r3.Vector) r2.Point {
	e1 := p.At(0, 0)*v.X + p.At(0, 1)*v.Y + p.At(0, 2)*v.Z + p.At(0, 3)
	e2 := p.At(1, 0)*v.X + p.At(1, 1)*v.Y + p.At(1, 2)*v.Z + p.At(1, 3)
	e3 := p.At(2, 0)*v.X + p.At(2, 1)*v.Y + p.At(2, 2)*v.Z + p.At(2, 3)
	return r2.Point{X: e1 / e3, Y: e2 / e3}
}

// TwoCameras returns a standard stereo test rig: camera 1 at the world
// origin, camera 2 rotated about Y and translated sideways. The Cloud
// box stays in front of both.
func TwoCameras() (p1, p2, k *mat.Dense, pose2R *mat.Dense, pose2T r3.Vector) {
	k = Intrinsics()
	r1 := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	pose2R = RotationY(0.15)
	pose2T = r3.Vector{X: -1, Y: 0.1, Z: 0.3}
	p1 = Camera(k, r1, r3.Vector{})
	p2 = Camera(k, pose2R, pose2T)
	return p1, p2, k, pose2R, pose2T
}

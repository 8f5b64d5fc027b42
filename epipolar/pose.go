package epipolar

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/multiview/internal/matutil"
	"github.com/hupe1980/multiview/triangulate"
)

// Pose is a rigid camera transform from world to camera coordinates:
// Xc = R*Xw + T.
type Pose struct {
	R *mat.Dense
	T r3.Vector
}

// ProjectionMatrix returns the 3x4 camera matrix K*[R|T] for the pose
// and intrinsics K.
func (p Pose) ProjectionMatrix(k *mat.Dense) *mat.Dense {
	rt := mat.NewDense(3, 4, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rt.Set(r, c, p.R.At(r, c))
		}
	}
	rt.Set(0, 3, p.T.X)
	rt.Set(1, 3, p.T.Y)
	rt.Set(2, 3, p.T.Z)

	proj := mat.NewDense(3, 4, nil)
	proj.Mul(k, rt)
	return proj
}

// FundamentalMatrixFromPoses computes the fundamental matrix relating
// two cameras with known poses and intrinsics, such that points x in
// camera 1 map to epipolar lines F*x in camera 2.
func FundamentalMatrixFromPoses(pose1, pose2 Pose, k1, k2 *mat.Dense) (*mat.Dense, error) {
	// Relative pose of camera 2 with respect to camera 1.
	var rel mat.Dense
	rel.Mul(pose2.R, pose1.R.T())

	rt1 := mulVec(&rel, pose1.T)
	t := pose2.T.Sub(rt1)

	// E = [t]x * R, F = K2^-T * E * K1^-1.
	var e mat.Dense
	e.Mul(matutil.Skew(t.X, t.Y, t.Z), &rel)

	var k1Inv, k2Inv mat.Dense
	if err := k1Inv.Inverse(k1); err != nil {
		return nil, err
	}
	if err := k2Inv.Inverse(k2); err != nil {
		return nil, err
	}

	var f mat.Dense
	f.Mul(k2Inv.T(), &e)
	f.Mul(&f, &k1Inv)
	return &f, nil
}

// EssentialFromFundamental converts a fundamental matrix into the
// essential matrix E = K2^T * F * K1 and projects it onto the essential
// manifold by forcing the singular values to (1, 1, 0).
func EssentialFromFundamental(f, k1, k2 *mat.Dense) (*mat.Dense, error) {
	var e mat.Dense
	e.Mul(k2.T(), f)
	e.Mul(&e, k1)

	u, _, vt, err := matutil.Factorize(&e)
	if err != nil {
		return nil, err
	}
	s := matutil.Eye(3)
	s.Set(2, 2, 0)

	e.Mul(u, s)
	e.Mul(&e, vt)
	return &e, nil
}

// PoseFromFundamentalMatrix recovers the pose of the second camera
// relative to the first from a fundamental matrix and the two
// calibration matrices. The translation is determined up to scale.
//
// The essential matrix decomposes into two candidate rotations and two
// translation signs; the four combinations are disambiguated with the
// supplied correspondence (x in camera 1, xp in camera 2) by selecting
// the candidate under which the triangulated point has positive depth
// in both cameras.
func PoseFromFundamentalMatrix(f *mat.Dense, x, xp r2.Point, k1, k2 *mat.Dense) (Pose, error) {
	e, err := EssentialFromFundamental(f, k1, k2)
	if err != nil {
		return Pose{}, err
	}

	r1, r2Rot, t, err := decomposeEssential(e)
	if err != nil {
		return Pose{}, err
	}

	candidates := []Pose{
		{R: r1, T: t},
		{R: r1, T: t.Mul(-1)},
		{R: r2Rot, T: t},
		{R: r2Rot, T: t.Mul(-1)},
	}

	for _, candidate := range candidates {
		ok, err := cheiralityTest(candidate, x, xp, k1, k2)
		if err != nil {
			continue
		}
		if ok {
			return candidate, nil
		}
	}
	return Pose{}, ErrNoValidPose
}

// decomposeEssential splits an essential matrix into its two candidate
// rotations and the translation direction (the last left singular
// vector). The determinant signs of U and V^T are fixed first so both
// rotations are proper.
func decomposeEssential(e *mat.Dense) (*mat.Dense, *mat.Dense, r3.Vector, error) {
	u, _, vt, err := matutil.Factorize(e)
	if err != nil {
		return nil, nil, r3.Vector{}, err
	}
	if mat.Det(u) < 0 {
		u.Scale(-1, u)
	}
	if mat.Det(vt) < 0 {
		vt.Scale(-1, vt)
	}

	w := mat.NewDense(3, 3, []float64{
		0, 1, 0,
		-1, 0, 0,
		0, 0, 1,
	})

	r1 := mat.NewDense(3, 3, nil)
	r1.Mul(u, w)
	r1.Mul(r1, vt)

	r2Rot := mat.NewDense(3, 3, nil)
	r2Rot.Mul(u, w.T())
	r2Rot.Mul(r2Rot, vt)

	t := r3.Vector{X: u.At(0, 2), Y: u.At(1, 2), Z: u.At(2, 2)}
	return r1, r2Rot, t, nil
}

// cheiralityTest triangulates the correspondence under the candidate
// pose (camera 1 at the origin) and reports whether the point lies in
// front of both cameras.
func cheiralityTest(candidate Pose, x, xp r2.Point, k1, k2 *mat.Dense) (bool, error) {
	origin := Pose{R: matutil.Eye(3), T: r3.Vector{}}
	p1 := origin.ProjectionMatrix(k1)
	p2 := candidate.ProjectionMatrix(k2)

	v, err := triangulate.TwoViewHomogeneous(p1, p2, x, xp)
	if err != nil {
		return false, err
	}
	w := v.AtVec(3)
	if w == 0 {
		return false, nil
	}
	point := r3.Vector{X: v.AtVec(0) / w, Y: v.AtVec(1) / w, Z: v.AtVec(2) / w}

	depth1 := point.Z
	depth2 := mulVec(candidate.R, point).Add(candidate.T).Z
	return depth1 > 0 && depth2 > 0, nil
}

func mulVec(m *mat.Dense, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

package multiview

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/multiview/epipolar"
	"github.com/hupe1980/multiview/triangulate"
)

// Pose is a rigid world-to-camera transform. See epipolar.Pose.
type Pose = epipolar.Pose

// EstimateFundamentalMatrix computes a fundamental matrix from point
// correspondences with the normalized 8-point algorithm. stepSize
// subsamples the correspondences; pass 1 to use all of them.
func EstimateFundamentalMatrix(fromPoints, toPoints []r2.Point, stepSize int) (*mat.Dense, error) {
	f, err := epipolar.EstimateFundamentalMatrix(fromPoints, toPoints, stepSize)
	return f, translateError(err)
}

// FundamentalMatrixFromPoses computes the fundamental matrix relating
// two cameras with known poses and intrinsics.
func FundamentalMatrixFromPoses(pose1, pose2 Pose, k1, k2 *mat.Dense) (*mat.Dense, error) {
	f, err := epipolar.FundamentalMatrixFromPoses(pose1, pose2, k1, k2)
	return f, translateError(err)
}

// PoseFromFundamentalMatrix recovers the relative pose of the second
// camera from a fundamental matrix, one correspondence for cheirality
// disambiguation, and the two calibration matrices.
func PoseFromFundamentalMatrix(f *mat.Dense, x, xp r2.Point, k1, k2 *mat.Dense) (Pose, error) {
	pose, err := epipolar.PoseFromFundamentalMatrix(f, x, xp, k1, k2)
	return pose, translateError(err)
}

// Triangulate computes the 3D position of a point from one
// correspondence observed by two cameras with known projection
// matrices.
func Triangulate(p1, p2 *mat.Dense, x, xp r2.Point) (r3.Vector, error) {
	point, err := triangulate.TwoView(p1, p2, x, xp)
	return point, translateError(err)
}

// TriangulateMultiView computes the 3D position of a point observed in
// two or more views. With refine the linear estimate is polished by
// minimizing the reprojection error, and the returned residual is the
// final residual norm.
func TriangulateMultiView(projections []*mat.Dense, points []r2.Point, refine bool) (r3.Vector, float64, error) {
	point, residual, err := triangulate.MultiView(projections, points, refine)
	return point, residual, translateError(err)
}

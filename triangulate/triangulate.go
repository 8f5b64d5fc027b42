package triangulate

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/multiview/internal/matutil"
)

// MinViews is the minimal number of views required to triangulate.
const MinViews = 2

// ErrViewCountMismatch is returned when the number of projection
// matrices differs from the number of image points.
var ErrViewCountMismatch = errors.New("projection and point counts differ")

// ErrSolveFailed is returned when the linear solve cannot produce a
// finite 3D point (SVD non-convergence or a point at infinity).
var ErrSolveFailed = errors.New("triangulation solve failed")

// ErrInsufficientViews is returned when fewer than MinViews
// measurements are supplied; triangulation is then underdetermined.
type ErrInsufficientViews struct {
	Got int
}

func (e *ErrInsufficientViews) Error() string {
	return fmt.Sprintf("insufficient views for triangulation: got %d, need %d", e.Got, MinViews)
}

// TwoView triangulates a 3D point from one correspondence observed by
// two cameras with known 3x4 projection matrices.
func TwoView(p1, p2 *mat.Dense, x, xp r2.Point) (r3.Vector, error) {
	v, err := TwoViewHomogeneous(p1, p2, x, xp)
	if err != nil {
		return r3.Vector{}, err
	}
	correctSign(v, p1)
	return dehomogenize(v)
}

// TwoViewHomogeneous solves the two-view linear system and returns the
// raw homogeneous 4-vector without sign correction or dehomogenization.
// Pose recovery uses it directly to run its own depth checks.
func TwoViewHomogeneous(p1, p2 *mat.Dense, x, xp r2.Point) (*mat.VecDense, error) {
	a := mat.NewDense(4, 4, nil)
	setDLTRows(a, 0, p1, x)
	setDLTRows(a, 2, p2, xp)

	v, _, err := matutil.NullSpace(a)
	if err != nil {
		return nil, ErrSolveFailed
	}
	return v, nil
}

// setDLTRows writes the two rows x*P[2] - P[0] and y*P[2] - P[1] of the
// DLT system for one view starting at row.
func setDLTRows(a *mat.Dense, row int, p *mat.Dense, pt r2.Point) {
	for col := 0; col < 4; col++ {
		a.Set(row, col, pt.X*p.At(2, col)-p.At(0, col))
		a.Set(row+1, col, pt.Y*p.At(2, col)-p.At(1, col))
	}
}

// MultiView triangulates a 3D point observed in n >= 2 views. Each view
// contributes three rows skew([x, y, 1]) * P to a stacked (3n)x4
// homogeneous system solved by SVD null-space extraction. The sign of
// the homogeneous solution is corrected once, globally, so the point
// lies in front of the cameras.
//
// When refine is true the linear estimate is polished by a damped
// Gauss-Newton iteration minimizing the reprojection residuals (at most
// 200 iterations, tolerance 1e-6); the returned residual is then the
// final residual norm. Without refinement the residual is zero.
func MultiView(projections []*mat.Dense, points []r2.Point, refine bool) (r3.Vector, float64, error) {
	if len(projections) != len(points) {
		return r3.Vector{}, 0, ErrViewCountMismatch
	}
	n := len(projections)
	if n < MinViews {
		return r3.Vector{}, 0, &ErrInsufficientViews{Got: n}
	}

	a := mat.NewDense(3*n, 4, nil)
	var block mat.Dense
	for i, p := range projections {
		skew := matutil.Skew(points[i].X, points[i].Y, 1)
		block.Reset()
		block.Mul(skew, p)
		for r := 0; r < 3; r++ {
			for c := 0; c < 4; c++ {
				a.Set(3*i+r, c, block.At(r, c))
			}
		}
	}

	v, _, err := matutil.NullSpace(a)
	if err != nil {
		return r3.Vector{}, 0, ErrSolveFailed
	}

	// Flip the homogeneous vector once if any camera sees the point
	// behind it.
	for _, p := range projections {
		if projectiveDepth(v, p) < 0 {
			negate(v)
			break
		}
	}

	point, err := dehomogenize(v)
	if err != nil {
		return r3.Vector{}, 0, err
	}

	if !refine {
		return point, 0, nil
	}
	return Refine(projections, points, point)
}

// correctSign flips the homogeneous vector when the reference camera
// sees the point behind it.
func correctSign(v *mat.VecDense, p *mat.Dense) {
	if projectiveDepth(v, p) < 0 {
		negate(v)
	}
}

// projectiveDepth returns the third row of P applied to the homogeneous
// vector v, whose sign indicates whether v lies in front of the camera.
func projectiveDepth(v *mat.VecDense, p *mat.Dense) float64 {
	return p.At(2, 0)*v.AtVec(0) + p.At(2, 1)*v.AtVec(1) + p.At(2, 2)*v.AtVec(2) + p.At(2, 3)*v.AtVec(3)
}

func negate(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, -v.AtVec(i))
	}
}

func dehomogenize(v *mat.VecDense) (r3.Vector, error) {
	w := v.AtVec(3)
	if math.Abs(w) < 1e-15 {
		return r3.Vector{}, ErrSolveFailed
	}
	return r3.Vector{X: v.AtVec(0) / w, Y: v.AtVec(1) / w, Z: v.AtVec(2) / w}, nil
}

// Project applies a 3x4 projection matrix to a 3D point and returns the
// dehomogenized image point.
func Project(p *mat.Dense, v r3.Vector) r2.Point {
	e1 := p.At(0, 0)*v.X + p.At(0, 1)*v.Y + p.At(0, 2)*v.Z + p.At(0, 3)
	e2 := p.At(1, 0)*v.X + p.At(1, 1)*v.Y + p.At(1, 2)*v.Z + p.At(1, 3)
	e3 := p.At(2, 0)*v.X + p.At(2, 1)*v.Y + p.At(2, 2)*v.Z + p.At(2, 3)
	return r2.Point{X: e1 / e3, Y: e2 / e3}
}

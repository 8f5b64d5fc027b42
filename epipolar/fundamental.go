package epipolar

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/multiview/internal/matutil"
)

// MinCorrespondences is the minimal sample size of the 8-point
// algorithm.
const MinCorrespondences = 8

// degenerateRatio is the conditioning bound on the second-smallest
// singular value of the 8-point system relative to the largest one.
// Below it the system is rank-deficient beyond the expected null space.
const degenerateRatio = 1e-10

// Correspondence is a single 2D/2D point correspondence between two
// views. From belongs to the first view, To to the second.
type Correspondence struct {
	From r2.Point
	To   r2.Point
}

// EstimateFundamentalMatrix computes a fundamental matrix from point
// correspondences using the normalized 8-point algorithm. The result F
// satisfies to^T * F * from == 0 up to noise.
//
// stepSize subsamples the input: a value of k uses only every k-th
// correspondence. Values below 1 are treated as 1.
func EstimateFundamentalMatrix(fromPoints, toPoints []r2.Point, stepSize int) (*mat.Dense, error) {
	if len(fromPoints) != len(toPoints) {
		return nil, ErrPointCountMismatch
	}
	if stepSize < 1 {
		stepSize = 1
	}

	var from, to []r2.Point
	for i := 0; i < len(fromPoints); i += stepSize {
		from = append(from, fromPoints[i])
		to = append(to, toPoints[i])
	}
	if len(from) < MinCorrespondences {
		return nil, &ErrInsufficientCorrespondences{Got: len(from), Need: MinCorrespondences}
	}

	normFrom, t1 := normalizePoints(from)
	normTo, t2 := normalizePoints(to)

	// Each correspondence contributes one row of the homogeneous system
	// built from the outer product of the homogeneous coordinates.
	n := len(normFrom)
	a := mat.NewDense(n, 9, nil)
	for i := range normFrom {
		x, y := normFrom[i].X, normFrom[i].Y
		xp, yp := normTo[i].X, normTo[i].Y
		a.SetRow(i, []float64{
			xp * x, xp * y, xp,
			yp * x, yp * y, yp,
			x, y, 1,
		})
	}

	null, values, err := matutil.NullSpace(a)
	if err != nil {
		return nil, err
	}
	// The system must have rank 8: the 8th singular value vanishing
	// means the sample does not determine a unique solution.
	if values[0] <= 0 || values[7]/values[0] < degenerateRatio {
		return nil, ErrDegenerateConfiguration
	}

	f := mat.NewDense(3, 3, null.RawVector().Data)

	// Enforce rank 2 by zeroing the smallest singular value.
	u, s, vt, err := matutil.Factorize(f)
	if err != nil {
		return nil, err
	}
	s[2] = 0
	f.Mul(u, mat.NewDiagDense(3, s))
	f.Mul(f, vt)

	// Denormalize: F = T2^T * F * T1.
	f.Mul(f, t1)
	var denorm mat.Dense
	denorm.Mul(t2.T(), f)

	if scale := denorm.At(2, 2); math.Abs(scale) > 1e-12 {
		denorm.Scale(1/scale, &denorm)
	}
	return &denorm, nil
}

// normalizePoints applies the Hartley normalization: translate the
// points to their centroid and scale uniformly so the mean distance to
// the origin is sqrt(2). It returns the transformed points and the 3x3
// transform that performs the normalization on homogeneous points.
func normalizePoints(pts []r2.Point) ([]r2.Point, *mat.Dense) {
	n := float64(len(pts))

	var mu r2.Point
	for _, pt := range pts {
		mu.X += pt.X
		mu.Y += pt.Y
	}
	mu = mu.Mul(1 / n)

	d := 0.0
	for _, pt := range pts {
		dx := pt.X - mu.X
		dy := pt.Y - mu.Y
		d += math.Sqrt(dx*dx+dy*dy) / n
	}
	scale := 1.0
	if d > 0 {
		scale = math.Sqrt2 / d
	}

	t := mat.NewDense(3, 3, []float64{
		scale, 0, -scale * mu.X,
		0, scale, -scale * mu.Y,
		0, 0, 1,
	})

	normalized := make([]r2.Point, len(pts))
	for i, pt := range pts {
		normalized[i] = r2.Point{X: scale * (pt.X - mu.X), Y: scale * (pt.Y - mu.Y)}
	}
	return normalized, t
}

// PointLineDistance returns the squared distance of the point to in the
// second view to the epipolar line F*from. The metric is
// one-directional: it does not average with the distance of from to
// F^T*to.
func PointLineDistance(f mat.Matrix, from, to r2.Point) float64 {
	// Line (a, b, c) = F * [from.X, from.Y, 1]^T.
	a := f.At(0, 0)*from.X + f.At(0, 1)*from.Y + f.At(0, 2)
	b := f.At(1, 0)*from.X + f.At(1, 1)*from.Y + f.At(1, 2)
	c := f.At(2, 0)*from.X + f.At(2, 1)*from.Y + f.At(2, 2)

	term := a*to.X + b*to.Y + c
	return (term * term) / (a*a + b*b)
}

// FundamentalMatrixEstimator adapts EstimateFundamentalMatrix to the
// ransac.Estimator contract. Any estimation failure on a minimal sample
// (too few points, degeneracy, solver failure) is reported as a
// degenerate sample so the engine skips the iteration.
type FundamentalMatrixEstimator struct{}

// Estimate builds a fundamental matrix from a minimal sample of
// correspondences.
func (FundamentalMatrixEstimator) Estimate(sample []Correspondence) (*mat.Dense, bool) {
	from := make([]r2.Point, len(sample))
	to := make([]r2.Point, len(sample))
	for i, c := range sample {
		from[i] = c.From
		to[i] = c.To
	}
	f, err := EstimateFundamentalMatrix(from, to, 1)
	if err != nil {
		return nil, false
	}
	return f, true
}

// FundamentalMatrixEvaluator adapts PointLineDistance to the
// ransac.Evaluator contract.
type FundamentalMatrixEvaluator struct{}

// Evaluate returns the squared point-to-epipolar-line distance of the
// correspondence under the candidate matrix.
func (FundamentalMatrixEvaluator) Evaluate(model *mat.Dense, c Correspondence) float64 {
	return PointLineDistance(model, c.From, c.To)
}

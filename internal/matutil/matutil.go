// Package matutil provides small dense-matrix helpers shared by the
// geometry packages: identity and skew-symmetric construction, full
// singular value decomposition and null-space extraction.
package matutil

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrSVDFailed is returned when the SVD factorization does not converge.
var ErrSVDFailed = errors.New("svd factorization did not converge")

// Eye returns the n x n identity matrix.
func Eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Skew returns the 3x3 skew-symmetric cross-product matrix [v]x such
// that Skew(x,y,z) * w == (x,y,z) x w for any 3-vector w.
func Skew(x, y, z float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -z, y,
		z, 0, -x,
		-y, x, 0,
	})
}

// Factorize computes the full SVD of a and returns U, the singular
// values in descending order, and V^T.
func Factorize(a mat.Matrix) (u *mat.Dense, s []float64, vt *mat.Dense, err error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, nil, nil, ErrSVDFailed
	}

	u = &mat.Dense{}
	svd.UTo(u)

	var v mat.Dense
	svd.VTo(&v)
	vt = &mat.Dense{}
	vt.CloneFrom(v.T())

	return u, svd.Values(nil), vt, nil
}

// NullSpace returns the right singular vector of a associated with the
// smallest singular value, i.e. the (approximate) null space of a,
// along with all singular values in descending order. Callers inspect
// the values to detect rank deficiency beyond the expected null space.
func NullSpace(a mat.Matrix) (*mat.VecDense, []float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, nil, ErrSVDFailed
	}

	var v mat.Dense
	svd.VTo(&v)

	_, cols := a.Dims()
	null := mat.NewVecDense(cols, nil)
	for i := 0; i < cols; i++ {
		null.SetVec(i, v.At(i, cols-1))
	}

	return null, svd.Values(nil), nil
}

package triangulate

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/multiview/internal/lsq"
)

const (
	refineMaxIterations = 200
	refineTolerance     = 1e-6
)

// Refine polishes an initial 3D point estimate by minimizing the
// stacked 2-vector reprojection residuals over all views with a damped
// Gauss-Newton iteration. It returns the refined point and the final
// residual norm.
func Refine(projections []*mat.Dense, points []r2.Point, initial r3.Vector) (r3.Vector, float64, error) {
	residual := func(params []float64, dst []float64) {
		candidate := r3.Vector{X: params[0], Y: params[1], Z: params[2]}
		for i, p := range projections {
			projected := Project(p, candidate)
			dst[2*i] = projected.X - points[i].X
			dst[2*i+1] = projected.Y - points[i].Y
		}
	}

	params := []float64{initial.X, initial.Y, initial.Z}
	norm, err := lsq.Minimize(residual, params, 2*len(points), refineMaxIterations, refineTolerance)
	if err != nil {
		return r3.Vector{}, 0, err
	}
	return r3.Vector{X: params[0], Y: params[1], Z: params[2]}, norm, nil
}

// Package lsq implements a damped Gauss-Newton (Levenberg-Marquardt
// style) solver for small nonlinear least-squares problems.
//
// Used internally by triangulation refinement, where the parameter
// vector is a 3D point and the residual stacks per-view reprojection
// errors.
package lsq

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDiverged is returned when damping cannot produce a step that
// reduces the residual norm.
var ErrDiverged = errors.New("least-squares iteration diverged")

// Func evaluates the residual vector at params, writing it into dst.
// len(dst) is the residual dimension passed to Minimize.
type Func func(params []float64, dst []float64)

const (
	initialDamping = 1e-3
	maxDamping     = 1e12
	jacobianStep   = 1e-6
)

// Minimize refines params in place by minimizing the squared norm of f
// with a damped Gauss-Newton iteration. The Jacobian is approximated by
// forward differences. Iteration stops after maxIter rounds or when the
// residual-norm improvement drops below tol. It returns the final
// residual norm.
func Minimize(f Func, params []float64, residualDim, maxIter int, tol float64) (float64, error) {
	n := len(params)
	m := residualDim

	r := make([]float64, m)
	rTrial := make([]float64, m)
	trial := make([]float64, n)

	f(params, r)
	norm := vecNorm(r)

	jac := mat.NewDense(m, n, nil)
	lambda := initialDamping

	for iter := 0; iter < maxIter; iter++ {
		if norm < tol {
			break
		}

		// Forward-difference Jacobian.
		for k := 0; k < n; k++ {
			h := jacobianStep * math.Max(1, math.Abs(params[k]))
			copy(trial, params)
			trial[k] += h
			f(trial, rTrial)
			for i := 0; i < m; i++ {
				jac.Set(i, k, (rTrial[i]-r[i])/h)
			}
		}

		jtj := mat.NewDense(n, n, nil)
		jtj.Mul(jac.T(), jac)
		g := mat.NewVecDense(n, nil)
		g.MulVec(jac.T(), mat.NewVecDense(m, r))

		// Increase damping until a step reduces the residual norm.
		accepted := false
		for lambda <= maxDamping {
			a := mat.NewDense(n, n, nil)
			a.Copy(jtj)
			for k := 0; k < n; k++ {
				a.Set(k, k, a.At(k, k)+lambda)
			}

			var delta mat.VecDense
			if err := delta.SolveVec(a, g); err != nil {
				lambda *= 10
				continue
			}

			for k := 0; k < n; k++ {
				trial[k] = params[k] - delta.AtVec(k)
			}
			f(trial, rTrial)
			trialNorm := vecNorm(rTrial)

			if trialNorm < norm {
				copy(params, trial)
				copy(r, rTrial)
				improvement := norm - trialNorm
				norm = trialNorm
				lambda = math.Max(lambda*0.3, 1e-12)
				accepted = true
				if improvement < tol {
					return norm, nil
				}
				break
			}
			lambda *= 10
		}

		if !accepted {
			// No damping value yields progress; the current estimate is
			// a (possibly local) minimum.
			if norm < math.Inf(1) {
				return norm, nil
			}
			return norm, ErrDiverged
		}
	}

	return norm, nil
}

func vecNorm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

package multiview

import (
	"context"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/multiview/assign"
	"github.com/hupe1980/multiview/epipolar"
	"github.com/hupe1980/multiview/triangulate"
)

// ReconstructPoints turns two unmatched 2D point sets observed by two
// cameras into a 3D point cloud. It builds a pairwise
// point-to-epipolar-line cost matrix from the fundamental matrix f,
// solves the minimum-cost assignment, and triangulates every matched
// pair with the projection matrices p1 and p2.
//
// The output follows the order of pointsA; rows without a match are
// silently dropped, so the result is not an index-preserving mapping.
func ReconstructPoints(pointsA, pointsB []r2.Point, p1, p2, f *mat.Dense, opts ...Option) ([]r3.Vector, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if len(pointsA) == 0 || len(pointsB) == 0 {
		return nil, nil
	}

	rows, cols := len(pointsA), len(pointsB)
	cost := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cost.Set(r, c, epipolar.PointLineDistance(f, pointsA[r], pointsB[c]))
		}
	}

	matches, err := assign.MinCost(cost)
	if err != nil {
		err = translateError(err)
		o.logger.LogReconstruction(context.Background(), rows, cols, 0, 0, err)
		return nil, err
	}

	type pair struct {
		a, b int
	}
	pairs := make([]pair, 0, rows)
	for r, c := range matches {
		if c == assign.Unmatched || cost.At(r, c) > o.maxCost {
			continue
		}
		pairs = append(pairs, pair{a: r, b: c})
	}

	cloud := make([]r3.Vector, len(pairs))
	if o.parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(o.parallelism)
		for i, pr := range pairs {
			i, pr := i, pr
			g.Go(func() error {
				point, err := triangulate.TwoView(p1, p2, pointsA[pr.a], pointsB[pr.b])
				if err != nil {
					return err
				}
				cloud[i] = point
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			err = translateError(err)
			o.logger.LogReconstruction(context.Background(), rows, cols, len(pairs), 0, err)
			return nil, err
		}
	} else {
		for i, pr := range pairs {
			point, err := triangulate.TwoView(p1, p2, pointsA[pr.a], pointsB[pr.b])
			if err != nil {
				err = translateError(err)
				o.logger.LogReconstruction(context.Background(), rows, cols, len(pairs), 0, err)
				return nil, err
			}
			cloud[i] = point
		}
	}

	o.logger.LogReconstruction(context.Background(), rows, cols, len(pairs), len(cloud), nil)
	return cloud, nil
}

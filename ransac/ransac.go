package ransac

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/multiview/internal/sample"
)

// Estimator builds a candidate model from a minimal sample of
// observations. It reports ok == false when the sample is degenerate
// (collinear points, rank deficiency, ...); the engine then skips the
// iteration without penalty.
type Estimator[O, M any] interface {
	Estimate(sample []O) (model M, ok bool)
}

// Evaluator scores a single observation against a candidate model.
// Lower distances indicate better agreement.
type Evaluator[O, M any] interface {
	Evaluate(model M, obs O) float64
}

// Parameters configures a single engine run. A Parameters value is
// never mutated by the engine.
type Parameters struct {
	// SampleSize is the number of distinct observations drawn per
	// iteration, i.e. the minimal sample size of the estimator.
	SampleSize int

	// InlierThreshold is the evaluator distance strictly below which an
	// observation counts as an inlier.
	InlierThreshold float64

	// MaxIterations bounds the number of sampling rounds. Termination
	// is purely iteration-count bounded; there is no adaptive early
	// stop.
	MaxIterations int

	// MinInlierFraction is the fraction of all observations a candidate
	// must classify as inliers before it is eligible to become the best
	// model. Zero disables the gate.
	MinInlierFraction float64
}

// ErrInvalidParameters reports a Parameters value the engine cannot
// run with.
type ErrInvalidParameters struct {
	Reason string
}

func (e *ErrInvalidParameters) Error() string {
	return fmt.Sprintf("invalid ransac parameters: %s", e.Reason)
}

func (p Parameters) validate(n int) error {
	switch {
	case p.SampleSize < 1:
		return &ErrInvalidParameters{Reason: "sample size must be positive"}
	case p.SampleSize > n:
		return &ErrInvalidParameters{Reason: fmt.Sprintf("sample size %d exceeds observation count %d", p.SampleSize, n)}
	case p.MaxIterations < 1:
		return &ErrInvalidParameters{Reason: "max iterations must be positive"}
	case p.InlierThreshold < 0:
		return &ErrInvalidParameters{Reason: "inlier threshold must be non-negative"}
	case p.MinInlierFraction < 0 || p.MinInlierFraction > 1:
		return &ErrInvalidParameters{Reason: "min inlier fraction must be in [0, 1]"}
	}
	return nil
}

// Result is the outcome of one engine invocation. InlierCount is zero
// when no iteration produced a usable model; Model is then the zero
// value and must not be trusted.
type Result[M any] struct {
	Model       M
	Inliers     []int
	InlierCount int
}

// candidate is the per-iteration outcome kept during reduction.
type candidate[M any] struct {
	model M
	count int
}

// Estimate runs the RANSAC loop over observations: draw SampleSize
// distinct observations, estimate a candidate, score every observation,
// and keep the candidate with the highest inlier count. The model
// returned is exactly the one estimated from the winning minimal
// sample; no refit on the inlier set is performed.
//
// The RNG is consumed once per iteration, so a seeded rand.Rand makes
// runs reproducible.
func Estimate[O, M any](observations []O, estimator Estimator[O, M], evaluator Evaluator[O, M], params Parameters, rng *rand.Rand) (Result[M], error) {
	n := len(observations)
	if err := params.validate(n); err != nil {
		return Result[M]{}, err
	}

	minInliers := requiredInliers(params, n)
	sampleBuf := make([]O, params.SampleSize)

	var best candidate[M]
	found := false

	for iter := 0; iter < params.MaxIterations; iter++ {
		idx := sample.Distinct(rng, params.SampleSize, n)
		for i, j := range idx {
			sampleBuf[i] = observations[j]
		}

		model, ok := estimator.Estimate(sampleBuf)
		if !ok {
			continue
		}

		count := 0
		for _, obs := range observations {
			if evaluator.Evaluate(model, obs) < params.InlierThreshold {
				count++
			}
		}

		if count >= minInliers && (!found || count > best.count) {
			best = candidate[M]{model: model, count: count}
			found = true
		}
	}

	if !found {
		return Result[M]{}, nil
	}
	return finalize(observations, evaluator, params, best), nil
}

// EstimateParallel behaves exactly like Estimate but evaluates
// iterations concurrently on up to workers goroutines. All samples are
// drawn from the RNG up front in iteration order, and the reduction
// prefers higher inlier counts breaking ties toward lower iteration
// indices, so the result is identical to the serial engine for the
// same seed. workers <= 0 selects GOMAXPROCS.
func EstimateParallel[O, M any](observations []O, estimator Estimator[O, M], evaluator Evaluator[O, M], params Parameters, rng *rand.Rand, workers int) (Result[M], error) {
	n := len(observations)
	if err := params.validate(n); err != nil {
		return Result[M]{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// RNG consumption stays sequential for determinism.
	samples := make([][]int, params.MaxIterations)
	for i := range samples {
		samples[i] = sample.Distinct(rng, params.SampleSize, n)
	}

	counts := make([]int, params.MaxIterations)
	models := make([]M, params.MaxIterations)
	var g errgroup.Group
	g.SetLimit(workers)

	for iter := 0; iter < params.MaxIterations; iter++ {
		iter := iter
		g.Go(func() error {
			sampleBuf := make([]O, params.SampleSize)
			for i, j := range samples[iter] {
				sampleBuf[i] = observations[j]
			}

			model, ok := estimator.Estimate(sampleBuf)
			if !ok {
				counts[iter] = -1
				return nil
			}

			count := 0
			for _, obs := range observations {
				if evaluator.Evaluate(model, obs) < params.InlierThreshold {
					count++
				}
			}
			counts[iter] = count
			models[iter] = model
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result[M]{}, err
	}

	minInliers := requiredInliers(params, n)
	var best candidate[M]
	found := false
	for iter := 0; iter < params.MaxIterations; iter++ {
		count := counts[iter]
		if count < 0 || count < minInliers {
			continue
		}
		if !found || count > best.count {
			best = candidate[M]{model: models[iter], count: count}
			found = true
		}
	}

	if !found {
		return Result[M]{}, nil
	}
	return finalize(observations, evaluator, params, best), nil
}

// finalize classifies all observations against the winning model once
// to materialize the inlier index list.
func finalize[O, M any](observations []O, evaluator Evaluator[O, M], params Parameters, best candidate[M]) Result[M] {
	inliers := make([]int, 0, best.count)
	for i, obs := range observations {
		if evaluator.Evaluate(best.model, obs) < params.InlierThreshold {
			inliers = append(inliers, i)
		}
	}
	return Result[M]{
		Model:       best.model,
		Inliers:     inliers,
		InlierCount: len(inliers),
	}
}

func requiredInliers(params Parameters, n int) int {
	return int(math.Ceil(params.MinInlierFraction * float64(n)))
}

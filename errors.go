package multiview

import (
	"errors"
	"fmt"

	"github.com/hupe1980/multiview/assign"
	"github.com/hupe1980/multiview/epipolar"
	"github.com/hupe1980/multiview/internal/matutil"
	"github.com/hupe1980/multiview/triangulate"
)

var (
	// ErrInvalidInput indicates an input the algorithms cannot work
	// with: too few correspondences or views, mismatched set sizes, or
	// a malformed cost matrix. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNumericalFailure indicates that a numeric solver failed:
	// SVD non-convergence, a divergent refinement, or pose recovery
	// without a cheirality-valid candidate.
	ErrNumericalFailure = errors.New("numerical failure")
)

// translateError unifies package-level errors into the root taxonomy
// so callers can classify failures with errors.Is.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Invalid input shapes.
	var ic *epipolar.ErrInsufficientCorrespondences
	if errors.As(err, &ic) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	var iv *triangulate.ErrInsufficientViews
	if errors.As(err, &iv) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, epipolar.ErrPointCountMismatch) ||
		errors.Is(err, triangulate.ErrViewCountMismatch) ||
		errors.Is(err, assign.ErrEmptyCostMatrix) ||
		errors.Is(err, assign.ErrNegativeCost) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// Numerical failures.
	if errors.Is(err, matutil.ErrSVDFailed) ||
		errors.Is(err, triangulate.ErrSolveFailed) ||
		errors.Is(err, epipolar.ErrNoValidPose) ||
		errors.Is(err, epipolar.ErrDegenerateConfiguration) {
		return fmt.Errorf("%w: %w", ErrNumericalFailure, err)
	}

	return err
}

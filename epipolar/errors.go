package epipolar

import (
	"errors"
	"fmt"
)

// ErrPointCountMismatch is returned when the two point sets differ in
// length.
var ErrPointCountMismatch = errors.New("point sets must have the same number of elements")

// ErrNoValidPose is returned when none of the four pose candidates
// decoded from an essential matrix passes the cheirality test. This
// should not occur for valid geometric input.
var ErrNoValidPose = errors.New("no pose candidate satisfies the cheirality constraint")

// ErrDegenerateConfiguration is returned when the correspondences are
// rank-deficient beyond the expected null space (e.g. collinear
// points), so no unique fundamental matrix exists.
var ErrDegenerateConfiguration = errors.New("degenerate point configuration")

// ErrInsufficientCorrespondences is returned when fewer correspondences
// are supplied than the estimator requires.
type ErrInsufficientCorrespondences struct {
	Got  int
	Need int
}

func (e *ErrInsufficientCorrespondences) Error() string {
	return fmt.Sprintf("insufficient correspondences: got %d, need %d", e.Got, e.Need)
}

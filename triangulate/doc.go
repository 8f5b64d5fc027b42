// Package triangulate recovers 3D points from 2D observations in two
// or more calibrated views. A closed-form linear (DLT) solve provides
// the initial estimate; an optional damped Gauss-Newton refinement
// minimizes the stacked per-view reprojection residuals.
package triangulate

// Package multiview provides a computer-vision geometry toolkit for
// multi-view reconstruction: robust model fitting with RANSAC,
// fundamental-matrix estimation and pose recovery, 3D point
// triangulation, and optimal correspondence assignment.
//
// # Quick Start
//
// Estimate a fundamental matrix and reconstruct unmatched detections:
//
//	F, _ := multiview.EstimateFundamentalMatrix(pointsFrom, pointsTo, 1)
//	cloud, _ := multiview.ReconstructPoints(pointsA, pointsB, P1, P2, F)
//
// Robust estimation against outliers runs through the generic ransac
// engine with the epipolar strategy pair:
//
//	result, _ := ransac.Estimate(correspondences,
//	    epipolar.FundamentalMatrixEstimator{},
//	    epipolar.FundamentalMatrixEvaluator{},
//	    ransac.Parameters{SampleSize: 8, InlierThreshold: 1.0, MaxIterations: 500},
//	    rand.New(rand.NewSource(42)))
//
// # Packages
//
//   - ransac: generic robust-estimation engine
//   - epipolar: fundamental/essential matrices and pose recovery
//   - triangulate: linear (DLT) triangulation with nonlinear refinement
//   - assign: minimum-cost bipartite correspondence matching
//
// All operations are synchronous and side-effect-free over their
// inputs; randomized sampling consumes an explicitly passed, seedable
// RNG so results are reproducible.
package multiview

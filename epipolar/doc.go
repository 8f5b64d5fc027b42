// Package epipolar implements two-view epipolar geometry: fundamental
// matrix estimation with the normalized 8-point algorithm, the
// point-to-epipolar-line consistency metric, essential matrix
// computation, and relative pose recovery with cheirality
// disambiguation.
//
// Conventions follow Hartley & Zisserman: the fundamental matrix F maps
// points x in the first view to epipolar lines F*x in the second view,
// so x'^T * F * x == 0 for a true correspondence (x, x').
package epipolar

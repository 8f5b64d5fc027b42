// Package assign solves the minimum-cost bipartite matching
// (assignment) problem over a dense cost matrix in O(n^3) time.
//
// Rectangular matrices are padded to square with a constant cost, so
// the optimum among real entries is unaffected; rows whose optimal
// match lands in the padded region are reported as Unmatched. Tie
// breaking is stable, so identical cost matrices always yield identical
// assignments.
package assign

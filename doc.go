// Package vptree provides a generic vantage-point tree for exact
// nearest-neighbor and radius queries in arbitrary metric spaces.
//
// A VP-tree indexes points under a caller-supplied distance function and
// needs no coordinate structure: only non-negativity, symmetry and the
// triangle inequality are assumed. This makes it a good fit for spaces
// like hashes compared by Hamming distance, where k-d trees and grids do
// not apply.
//
// # Quick Start
//
//	points := []uint64{0b0000, 0b0001, 0b0011, 0b1111}
//
//	tree, _ := vptree.New(points, metric.Hamming)
//
//	// Two nearest neighbors of 0b0000, ascending by distance.
//	results, _ := tree.KNNSearch(0b0000, 2)
//
//	// Everything within Hamming distance 1.
//	matches, _ := tree.RadiusSearch(0b0000, 1)
//
// # Mutation
//
// The tree supports incremental mutation without rebuilding:
//
//	tree.Insert(0b0111)  // routes by existing thresholds, appends a leaf
//	tree.Remove(0b0011)  // successor substitution + local threshold repair
//
// Incremental mutation trades invariant strength for speed: thresholds are
// medians only for the point set known at build time. Queries remain exact
// regardless.
//
// # Concurrency
//
// The tree is not internally synchronized. Concurrent read-only queries
// (including BatchKNNSearch) are safe; any mutation concurrent with other
// access must be serialized by the caller.
package vptree

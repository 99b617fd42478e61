// Package metric provides ready-made distance functions for vptree.
package metric

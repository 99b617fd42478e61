package vptree

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vptree/internal/queue"
)

// SearchResult represents a single search hit.
type SearchResult[T comparable, D Number] struct {
	// Point is the stored point.
	Point T

	// Distance is the distance between the query and Point.
	Distance D
}

// KNNSearch returns the up to k nearest neighbors of query, sorted
// ascending by distance. k = 0 or an empty tree yields an empty result.
// The order of equidistant results is unspecified.
func (t *Tree[T, D]) KNNSearch(query T, k int) ([]SearchResult[T, D], error) {
	start := time.Now()
	results, err := t.knnSearch(query, k)
	t.opts.metricsCollector.RecordSearch(k, time.Since(start), err)
	t.opts.logger.LogSearch(k, len(results), err)
	return results, err
}

func (t *Tree[T, D]) knnSearch(query T, k int) ([]SearchResult[T, D], error) {
	if k < 0 {
		return nil, ErrInvalidK
	}
	if k == 0 || t.root == nil {
		return nil, nil
	}

	// Bounded best-k set: a max-heap whose top is tau, the worst kept
	// distance. Until the heap is full tau is effectively infinite.
	best := queue.NewMax[T, D](k + 1)

	stack := []*node[T, D]{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d, err := t.distance(query, n.point)
		if err != nil {
			return nil, err
		}

		full := best.Len() == k
		var tau D
		if full {
			top, _ := best.TopItem()
			tau = top.Distance
		}

		if !full || d < tau {
			best.PushItem(queue.Item[T, D]{Point: n.point, Distance: d})
			if best.Len() > k {
				best.PopItem()
			}
			if full = best.Len() == k; full {
				top, _ := best.TopItem()
				tau = top.Distance
			}
		}

		// Triangle-inequality pruning, written in addition form so
		// unsigned distance types cannot wrap. While the set is not yet
		// full both branches must be explored.
		if n.inside != nil && (!full || d <= n.threshold+tau) {
			stack = append(stack, n.inside)
		}
		if n.outside != nil && (!full || d+tau >= n.threshold) {
			stack = append(stack, n.outside)
		}
	}

	return drainAscending(best), nil
}

// RadiusSearch returns every stored point whose distance to query is at
// most radius, together with that distance. Result order is unspecified.
func (t *Tree[T, D]) RadiusSearch(query T, radius D) ([]SearchResult[T, D], error) {
	start := time.Now()
	results, err := t.radiusSearch(query, radius)
	t.opts.metricsCollector.RecordSearch(0, time.Since(start), err)
	t.opts.logger.LogSearch(0, len(results), err)
	return results, err
}

func (t *Tree[T, D]) radiusSearch(query T, radius D) ([]SearchResult[T, D], error) {
	if radius < 0 {
		return nil, ErrInvalidRadius
	}
	if t.root == nil {
		return nil, nil
	}

	var results []SearchResult[T, D]

	stack := []*node[T, D]{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d, err := t.distance(query, n.point)
		if err != nil {
			return nil, err
		}
		if d <= radius {
			results = append(results, SearchResult[T, D]{Point: n.point, Distance: d})
		}

		if n.inside != nil && d <= n.threshold+radius {
			stack = append(stack, n.inside)
		}
		if n.outside != nil && d+radius >= n.threshold {
			stack = append(stack, n.outside)
		}
	}

	return results, nil
}

// BruteSearch performs an exhaustive linear scan for the k nearest
// neighbors, visiting every stored point. Same contract as KNNSearch;
// useful as a verification baseline and for distance functions whose
// metric properties are in doubt.
func (t *Tree[T, D]) BruteSearch(query T, k int) ([]SearchResult[T, D], error) {
	start := time.Now()
	results, err := t.bruteSearch(query, k)
	t.opts.metricsCollector.RecordSearch(k, time.Since(start), err)
	t.opts.logger.LogSearch(k, len(results), err)
	return results, err
}

func (t *Tree[T, D]) bruteSearch(query T, k int) ([]SearchResult[T, D], error) {
	if k < 0 {
		return nil, ErrInvalidK
	}
	if k == 0 || t.root == nil {
		return nil, nil
	}

	best := queue.NewMax[T, D](k + 1)

	stack := []*node[T, D]{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d, err := t.distance(query, n.point)
		if err != nil {
			return nil, err
		}
		if best.Len() < k {
			best.PushItem(queue.Item[T, D]{Point: n.point, Distance: d})
		} else if top, _ := best.TopItem(); d < top.Distance {
			best.PushItem(queue.Item[T, D]{Point: n.point, Distance: d})
			best.PopItem()
		}

		if n.inside != nil {
			stack = append(stack, n.inside)
		}
		if n.outside != nil {
			stack = append(stack, n.outside)
		}
	}

	return drainAscending(best), nil
}

// BatchKNNSearch runs KNNSearch for each query concurrently, bounded by
// GOMAXPROCS. Queries are read-only, so batches may run concurrently with
// each other but not with mutation. results[i] corresponds to queries[i].
func (t *Tree[T, D]) BatchKNNSearch(ctx context.Context, queries []T, k int) ([][]SearchResult[T, D], error) {
	if k < 0 {
		return nil, ErrInvalidK
	}

	results := make([][]SearchResult[T, D], len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, query := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := t.knnSearch(query, k)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// drainAscending empties a max-heap into a slice sorted ascending by
// distance.
func drainAscending[T comparable, D Number](best *queue.PriorityQueue[T, D]) []SearchResult[T, D] {
	if best.Len() == 0 {
		return nil
	}
	results := make([]SearchResult[T, D], best.Len())
	for i := best.Len() - 1; i >= 0; i-- {
		item, _ := best.PopItem()
		results[i] = SearchResult[T, D]{Point: item.Point, Distance: item.Distance}
	}
	return results
}

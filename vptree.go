package vptree

import (
	"iter"
	"math/rand/v2"
	"slices"
	"time"
)

// Number constrains the distance type to ordered numeric types.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// DistanceFunc computes the distance between two points.
//
// For pruning to be sound the function must be non-negative, symmetric and
// satisfy the triangle inequality. The tree does not validate these
// properties; a returned error aborts the running operation and is
// propagated to the caller unchanged.
type DistanceFunc[T any, D Number] func(a, b T) (D, error)

// Tree is a vantage-point tree over points of type T with distances of
// type D. The zero value is not usable; construct with New.
//
// The tree is not internally synchronized. Read-only queries may run
// concurrently; mutation requires exclusive access.
type Tree[T comparable, D Number] struct {
	root         *node[T, D]
	distanceFunc DistanceFunc[T, D]
	opts         options
}

// New builds a tree containing exactly the given points. Duplicates are
// permitted and preserved as distinct entries. An empty slice yields a
// valid, empty tree.
//
// Construction uses an explicit work stack, so input size is not limited
// by call-stack depth even for degenerate (chain-shaped) trees.
func New[T comparable, D Number](points []T, distanceFunc DistanceFunc[T, D], optFns ...Option) (*Tree[T, D], error) {
	if distanceFunc == nil {
		return nil, ErrNilDistanceFunc
	}

	t := &Tree[T, D]{
		distanceFunc: distanceFunc,
		opts:         applyOptions(optFns),
	}

	start := time.Now()
	err := t.build(points)
	t.opts.metricsCollector.RecordBuild(len(points), time.Since(start), err)
	t.opts.logger.LogBuild(len(points), t.opts.pivotStrategy, err)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// buildFrame is one pending subtree construction: the parent link to attach
// the result to, plus the working set it is built from.
type buildFrame[T comparable, D Number] struct {
	link  **node[T, D]
	items []T
}

func (t *Tree[T, D]) build(points []T) error {
	if len(points) == 0 {
		return nil
	}

	items := make([]T, len(points))
	copy(items, points)

	stack := []buildFrame[T, D]{{link: &t.root, items: items}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		vantage := t.takePivot(&frame.items)
		n := &node[T, D]{point: vantage}
		*frame.link = n

		if len(frame.items) == 0 {
			continue
		}

		distances := make([]D, len(frame.items))
		for i, p := range frame.items {
			d, err := t.distance(vantage, p)
			if err != nil {
				return err
			}
			distances[i] = d
		}

		n.threshold = median(distances)

		// When all distances are equal the median equals that distance and
		// every point lands inside; an absent outside child is correct.
		var inside, outside []T
		for i, p := range frame.items {
			if distances[i] <= n.threshold {
				inside = append(inside, p)
			} else {
				outside = append(outside, p)
			}
		}

		if len(inside) > 0 {
			stack = append(stack, buildFrame[T, D]{link: &n.inside, items: inside})
		}
		if len(outside) > 0 {
			stack = append(stack, buildFrame[T, D]{link: &n.outside, items: outside})
		}
	}

	return nil
}

// takePivot removes and returns the vantage point for the next subtree
// according to the configured strategy.
func (t *Tree[T, D]) takePivot(items *[]T) T {
	s := *items

	if t.opts.pivotStrategy == PivotStrategyFirst {
		p := s[0]
		*items = s[1:]
		return p
	}

	var idx int
	if t.opts.rand != nil {
		idx = t.opts.rand.IntN(len(s))
	} else {
		idx = rand.IntN(len(s))
	}
	p := s[idx]
	s[idx] = s[len(s)-1]
	*items = s[:len(s)-1]
	return p
}

// median returns the median of the given distances, averaging the two
// middle values for even-sized input. Integer averaging truncates, which
// partitions identically to the exact midpoint for integer distances.
func median[D Number](distances []D) D {
	s := slices.Clone(distances)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// distance invokes the configured distance function and validates its result.
func (t *Tree[T, D]) distance(a, b T) (D, error) {
	d, err := t.distanceFunc(a, b)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, &ErrNegativeDistance{Distance: float64(d)}
	}
	return d, nil
}

// Insert adds a point to the tree. It always succeeds for a valid distance
// function and increases Len by exactly one.
//
// Insertion routes by existing thresholds and appends a leaf; it never
// recomputes thresholds or rebalances. Thresholds therefore stay medians
// only for the point set known at build time.
func (t *Tree[T, D]) Insert(point T) error {
	start := time.Now()
	err := t.insert(point)
	t.opts.metricsCollector.RecordInsert(time.Since(start), err)
	t.opts.logger.LogInsert(point, err)
	return err
}

func (t *Tree[T, D]) insert(point T) error {
	if t.root == nil {
		t.root = &node[T, D]{point: point}
		return nil
	}

	n := t.root
	for {
		d, err := t.distance(point, n.point)
		if err != nil {
			return err
		}
		if d < n.threshold {
			if n.inside == nil {
				n.inside = &node[T, D]{point: point}
				return nil
			}
			n = n.inside
		} else {
			if n.outside == nil {
				n.outside = &node[T, D]{point: point}
				return nil
			}
			n = n.outside
		}
	}
}

// Remove deletes one occurrence of point from the tree. Removing a point
// that is not present leaves the tree unchanged and is not an error.
func (t *Tree[T, D]) Remove(point T) error {
	start := time.Now()
	removed, err := t.remove(point)
	t.opts.metricsCollector.RecordRemove(removed, time.Since(start), err)
	t.opts.logger.LogRemove(point, removed, err)
	return err
}

// Len returns the exact number of points currently stored.
func (t *Tree[T, D]) Len() int {
	count := 0
	stack := []*node[T, D]{}
	if t.root != nil {
		stack = append(stack, t.root)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		if n.inside != nil {
			stack = append(stack, n.inside)
		}
		if n.outside != nil {
			stack = append(stack, n.outside)
		}
	}
	return count
}

// All returns an iterator over every stored point in unspecified order.
func (t *Tree[T, D]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		stack := []*node[T, D]{}
		if t.root != nil {
			stack = append(stack, t.root)
		}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.point) {
				return
			}
			if n.inside != nil {
				stack = append(stack, n.inside)
			}
			if n.outside != nil {
				stack = append(stack, n.outside)
			}
		}
	}
}

// TreeStats describes the shape of the tree.
type TreeStats struct {
	// Size is the number of stored points.
	Size int

	// Height is the number of nodes on the longest root-to-leaf path.
	// Zero for an empty tree.
	Height int

	// Leaves is the number of nodes without children.
	Leaves int
}

// statsFrame pairs a node with its depth during the Stats traversal.
type statsFrame[T comparable, D Number] struct {
	n     *node[T, D]
	depth int
}

// Stats computes size and shape statistics in a single traversal.
func (t *Tree[T, D]) Stats() TreeStats {
	var stats TreeStats

	stack := []statsFrame[T, D]{}
	if t.root != nil {
		stack = append(stack, statsFrame[T, D]{n: t.root, depth: 1})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.Size++
		if f.depth > stats.Height {
			stats.Height = f.depth
		}
		if f.n.inside == nil && f.n.outside == nil {
			stats.Leaves++
		}
		if f.n.inside != nil {
			stack = append(stack, statsFrame[T, D]{n: f.n.inside, depth: f.depth + 1})
		}
		if f.n.outside != nil {
			stack = append(stack, statsFrame[T, D]{n: f.n.outside, depth: f.depth + 1})
		}
	}
	return stats
}

package vptree

// node is a single vantage point with the threshold that separated its
// inside partition (distance <= threshold at build time) from its outside
// partition (distance > threshold). Each node exclusively owns its children.
type node[T comparable, D Number] struct {
	point     T
	threshold D
	inside    *node[T, D]
	outside   *node[T, D]
}

// substitution records a pending successor replacement: n.point becomes
// replacement once the whole removal chain has been located.
type substitution[T comparable, D Number] struct {
	n           *node[T, D]
	replacement T
}

// remove implements Remove. It reports whether a point was taken out.
//
// The removal is transactional: the target and the full chain of
// replacement points are located first, and the tree is rewritten only
// once the whole chain is known. A failed lookup anywhere leaves the tree
// untouched.
func (t *Tree[T, D]) remove(point T) (bool, error) {
	if t.root == nil {
		return false, nil
	}

	// path collects every routing ancestor and substituted node, root side
	// first, for the threshold repair pass at the end.
	var path []*node[T, D]

	var substitutions []substitution[T, D]

	link := &t.root
	victim := point

	for {
		targetLink, ancestors, err := t.findTarget(link, victim)
		if err != nil {
			return false, err
		}
		if targetLink == nil {
			// Either the point is absent, or a replacement became
			// unreachable under repaired thresholds. Apply nothing.
			return false, nil
		}

		path = append(path, ancestors...)
		target := *targetLink

		if target.inside == nil {
			// Unlink the node; its outside subtree takes its place.
			*targetLink = target.outside
			for _, s := range substitutions {
				s.n.point = s.replacement
			}
			t.repairThresholds(path)
			return true, nil
		}

		// Substitute with the nearest point of the inside subtree and
		// continue by removing that point from the subtree.
		replacement, err := t.nearestIn(target.inside, target.point)
		if err != nil {
			return false, err
		}
		substitutions = append(substitutions, substitution[T, D]{n: target, replacement: replacement})
		path = append(path, target)
		link = &target.inside
		victim = replacement
	}
}

// crumb is a pending visit during findTarget: the link to a candidate node
// and its depth along the current routing path.
type crumb[T comparable, D Number] struct {
	link  **node[T, D]
	depth int
}

// findTarget locates a node whose point equals target within the subtree at
// *start, descending by distance routing: strictly closer than the
// threshold goes inside, strictly farther goes outside, mirroring Insert.
// The raw point value never takes part in the comparison.
//
// A distance exactly equal to the threshold is ambiguous: bulk construction
// placed such points inside while insertion placed them outside, so both
// branches are explored, outside first.
//
// Returns the link holding the found node and its ancestor chain, or a nil
// link when no node matches.
func (t *Tree[T, D]) findTarget(start **node[T, D], target T) (**node[T, D], []*node[T, D], error) {
	if *start == nil {
		return nil, nil, nil
	}

	var path []*node[T, D]
	stack := []crumb[T, D]{{link: start, depth: 0}}

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		path = path[:c.depth]

		n := *c.link
		if n.point == target {
			return c.link, path, nil
		}

		d, err := t.distance(target, n.point)
		if err != nil {
			return nil, nil, err
		}

		path = append(path, n)

		switch {
		case d < n.threshold:
			if n.inside != nil {
				stack = append(stack, crumb[T, D]{link: &n.inside, depth: c.depth + 1})
			}
		case d > n.threshold:
			if n.outside != nil {
				stack = append(stack, crumb[T, D]{link: &n.outside, depth: c.depth + 1})
			}
		default:
			// Push inside first so the outside branch is explored first.
			if n.inside != nil {
				stack = append(stack, crumb[T, D]{link: &n.inside, depth: c.depth + 1})
			}
			if n.outside != nil {
				stack = append(stack, crumb[T, D]{link: &n.outside, depth: c.depth + 1})
			}
		}
	}

	return nil, nil, nil
}

// nearestIn returns the point in the subtree rooted at start closest to
// query. Ties are broken by fixed visit order (the first strictly smaller
// distance wins), so the result is deterministic for a given tree shape.
func (t *Tree[T, D]) nearestIn(start *node[T, D], query T) (T, error) {
	var (
		best     T
		bestDist D
		found    bool
	)

	stack := []*node[T, D]{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d, err := t.distance(query, n.point)
		if err != nil {
			var zero T
			return zero, err
		}
		if !found || d < bestDist {
			best, bestDist, found = n.point, d, true
		}

		// Pruning bounds are written in addition form so unsigned distance
		// types cannot wrap.
		if n.inside != nil && d <= n.threshold+bestDist {
			stack = append(stack, n.inside)
		}
		if n.outside != nil && d+bestDist >= n.threshold {
			stack = append(stack, n.outside)
		}
	}

	return best, nil
}

// repairThresholds recomputes thresholds bottom-up along a removal path:
// the maximum of both children's thresholds, the single child's threshold,
// or zero for a leaf. This is a cheap local repair, not a re-median; it
// intentionally does not restore the build-time partition invariant.
func (t *Tree[T, D]) repairThresholds(path []*node[T, D]) {
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		switch {
		case n.inside != nil && n.outside != nil:
			n.threshold = max(n.inside.threshold, n.outside.threshold)
		case n.inside != nil:
			n.threshold = n.inside.threshold
		case n.outside != nil:
			n.threshold = n.outside.threshold
		default:
			n.threshold = 0
		}
	}
}

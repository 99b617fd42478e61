package vptree

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vptree/metric"
)

// distinctPoints generates n distinct pseudo-random points below 1<<bits.
func distinctPoints(rng *rand.Rand, n, bits int) []uint64 {
	seen := make(map[uint64]struct{}, n)
	points := make([]uint64, 0, n)
	for len(points) < n {
		p := rng.Uint64N(1 << bits)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}
	return points
}

func TestKNNSearch(t *testing.T) {
	t.Run("ZeroK", func(t *testing.T) {
		tree := newHamming(t, []uint64{1, 2, 3})

		results, err := tree.KNNSearch(0, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("NegativeK", func(t *testing.T) {
		tree := newHamming(t, []uint64{1, 2, 3})

		_, err := tree.KNNSearch(0, -1)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("EmptyTree", func(t *testing.T) {
		tree := newHamming(t, nil)

		results, err := tree.KNNSearch(0, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("KLargerThanTree", func(t *testing.T) {
		tree := newHamming(t, []uint64{1, 2, 3})

		results, err := tree.KNNSearch(0, 10)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("SelfDistance", func(t *testing.T) {
		tree := newHamming(t, []uint64{0b0101, 0b1111, 0b0000})

		results, err := tree.KNNSearch(0b0101, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, uint64(0b0101), results[0].Point)
		assert.Equal(t, 0, results[0].Distance)
	})

	t.Run("ConcreteScenario", func(t *testing.T) {
		tree := newHamming(t, []uint64{0b0000, 0b0001, 0b0011, 0b1111})

		results, err := tree.KNNSearch(0b0000, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, uint64(0b0000), results[0].Point)
		assert.Equal(t, 0, results[0].Distance)
		assert.Equal(t, uint64(0b0001), results[1].Point)
		assert.Equal(t, 1, results[1].Distance)
	})

	t.Run("MatchesBruteForce", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(42, 1))
		points := distinctPoints(rng, 300, 16)

		tree := newHamming(t, points, WithRand(rng))

		for _, k := range []int{1, 5, 17, 300} {
			for q := 0; q < 10; q++ {
				query := rng.Uint64N(1 << 16)

				got, err := tree.KNNSearch(query, k)
				require.NoError(t, err)
				want, err := tree.BruteSearch(query, k)
				require.NoError(t, err)

				require.Len(t, got, len(want))
				for i := range got {
					// Ties may order differently; the distances must agree.
					assert.Equal(t, want[i].Distance, got[i].Distance, "k=%d query=%d rank=%d", k, query, i)
				}
			}
		}
	})

	t.Run("AscendingOrder", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(9, 9))
		points := distinctPoints(rng, 100, 12)

		tree := newHamming(t, points)

		results, err := tree.KNNSearch(0, 25)
		require.NoError(t, err)
		require.Len(t, results, 25)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
		}
	})
}

func TestRadiusSearch(t *testing.T) {
	t.Run("NegativeRadius", func(t *testing.T) {
		tree := newHamming(t, []uint64{1, 2, 3})

		_, err := tree.RadiusSearch(0, -1)
		assert.ErrorIs(t, err, ErrInvalidRadius)
	})

	t.Run("EmptyTree", func(t *testing.T) {
		tree := newHamming(t, nil)

		results, err := tree.RadiusSearch(0, 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("ConcreteScenario", func(t *testing.T) {
		tree := newHamming(t, []uint64{0b0000, 0b0001, 0b0011, 0b1111})

		results, err := tree.RadiusSearch(0b0000, 1)
		require.NoError(t, err)

		var points []uint64
		for _, r := range results {
			points = append(points, r.Point)
		}
		assert.ElementsMatch(t, []uint64{0b0000, 0b0001}, points)
	})

	t.Run("MatchesBruteForce", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(3, 77))
		points := distinctPoints(rng, 200, 12)

		tree := newHamming(t, points, WithRand(rng))

		// Boundary radii: zero, between observed distances, and the
		// maximum possible distance for the bit width.
		for _, radius := range []int{0, 1, 3, 6, 12} {
			query := rng.Uint64N(1 << 12)

			var want []uint64
			for _, p := range points {
				d, err := metric.Hamming(query, p)
				require.NoError(t, err)
				if d <= radius {
					want = append(want, p)
				}
			}

			results, err := tree.RadiusSearch(query, radius)
			require.NoError(t, err)

			var got []uint64
			for _, r := range results {
				d, err := metric.Hamming(query, r.Point)
				require.NoError(t, err)
				assert.Equal(t, d, r.Distance)
				got = append(got, r.Point)
			}
			assert.ElementsMatch(t, want, got, "radius=%d query=%d", radius, query)
		}
	})

	t.Run("MaxRadiusReturnsEverything", func(t *testing.T) {
		points := []uint64{0b0000, 0b0001, 0b0011, 0b1111}
		tree := newHamming(t, points)

		results, err := tree.RadiusSearch(0b0000, 64)
		require.NoError(t, err)
		assert.Len(t, results, len(points))
	})
}

func TestBruteSearch(t *testing.T) {
	t.Run("NegativeK", func(t *testing.T) {
		tree := newHamming(t, []uint64{1})

		_, err := tree.BruteSearch(0, -1)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("SortedAscending", func(t *testing.T) {
		tree := newHamming(t, []uint64{0b1111, 0b0001, 0b0011, 0b0000})

		results, err := tree.BruteSearch(0b0000, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, 0, results[0].Distance)
		assert.Equal(t, 1, results[1].Distance)
		assert.Equal(t, 2, results[2].Distance)
	})
}

func TestBatchKNNSearch(t *testing.T) {
	t.Run("MatchesIndividualSearches", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(11, 4))
		points := distinctPoints(rng, 150, 14)

		tree := newHamming(t, points, WithRand(rng))

		queries := make([]uint64, 20)
		for i := range queries {
			queries[i] = rng.Uint64N(1 << 14)
		}

		batch, err := tree.BatchKNNSearch(context.Background(), queries, 5)
		require.NoError(t, err)
		require.Len(t, batch, len(queries))

		for i, query := range queries {
			want, err := tree.KNNSearch(query, 5)
			require.NoError(t, err)
			require.Len(t, batch[i], len(want))
			for j := range want {
				assert.Equal(t, want[j].Distance, batch[i][j].Distance)
			}
		}
	})

	t.Run("EmptyQueries", func(t *testing.T) {
		tree := newHamming(t, []uint64{1, 2, 3})

		batch, err := tree.BatchKNNSearch(context.Background(), nil, 3)
		require.NoError(t, err)
		assert.Empty(t, batch)
	})

	t.Run("NegativeK", func(t *testing.T) {
		tree := newHamming(t, []uint64{1})

		_, err := tree.BatchKNNSearch(context.Background(), []uint64{0}, -2)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		tree := newHamming(t, []uint64{1, 2, 3})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := tree.BatchKNNSearch(ctx, []uint64{0, 1, 2}, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

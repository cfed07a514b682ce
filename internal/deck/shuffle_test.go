package deck

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/snonux/flipgrid/internal/vocab"
)

func makePairs(n int) []vocab.WordPair {
	pairs := make([]vocab.WordPair, n)
	for i := range pairs {
		pairs[i] = vocab.WordPair{A: fmt.Sprintf("it%d", i), B: fmt.Sprintf("hu%d", i)}
	}
	return pairs
}

func TestShuffle_IsPermutation(t *testing.T) {
	for _, n := range []int{0, 1, 2, 25, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			pairs := makePairs(n)
			original := make([]vocab.WordPair, n)
			copy(original, pairs)

			out := Shuffle(pairs, rand.New(rand.NewSource(int64(n))))

			assert.Len(t, out, n)
			assert.ElementsMatch(t, original, out)
			assert.Equal(t, original, pairs, "input order must be preserved")
		})
	}
}

func TestShuffle_DoesNotAliasInput(t *testing.T) {
	pairs := makePairs(3)
	out := Shuffle(pairs, rand.New(rand.NewSource(1)))
	out[0].A = "changed"

	for _, p := range pairs {
		assert.NotEqual(t, "changed", p.A)
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	pairs := makePairs(30)
	a := Shuffle(pairs, rand.New(rand.NewSource(42)))
	b := Shuffle(pairs, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

func TestShuffle_ReachesEveryPermutation(t *testing.T) {
	pairs := makePairs(3)
	rng := rand.New(rand.NewSource(7))
	seen := make(map[string]int)

	for i := 0; i < 6000; i++ {
		out := Shuffle(pairs, rng)
		seen[out[0].A+out[1].A+out[2].A]++
	}

	assert.Len(t, seen, 6)
	for perm, count := range seen {
		assert.InDelta(t, 1000, count, 200, "permutation %s is skewed", perm)
	}
}

func TestShuffle_NilRand(t *testing.T) {
	out := Shuffle(makePairs(10), nil)
	assert.Len(t, out, 10)
}

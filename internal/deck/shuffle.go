package deck

import (
	"math/rand"
	"time"

	"codeberg.org/snonux/flipgrid/internal/vocab"
)

// NewRand returns a time-seeded random source
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle returns a uniformly permuted copy of pairs (Fisher-Yates).
// The caller's slice is never reordered. A nil rng uses a fresh time-seeded source.
func Shuffle(pairs []vocab.WordPair, rng *rand.Rand) []vocab.WordPair {
	if rng == nil {
		rng = NewRand()
	}

	out := make([]vocab.WordPair, len(pairs))
	copy(out, pairs)

	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

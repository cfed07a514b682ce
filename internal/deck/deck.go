package deck

import "codeberg.org/snonux/flipgrid/internal/vocab"

const (
	// MinWordsForGrid is the smallest vocabulary accepted as an active deck
	MinWordsForGrid = 25

	// GridRows and GridCols bound the displayed grid
	GridRows = 5
	GridCols = 5

	// MaxCards is the most cards a board ever shows
	MaxCards = GridRows * GridCols
)

// Deck is the full loaded word list plus its detected target column
type Deck struct {
	Pairs        []vocab.WordPair
	TargetColumn int
}

// Empty returns a deck with no pairs and an undetermined target column
func Empty() Deck {
	return Deck{TargetColumn: vocab.TargetUndetermined}
}

// FromResult builds a deck from a parse result
func FromResult(r vocab.ParseResult) Deck {
	return Deck{Pairs: r.Pairs, TargetColumn: r.TargetColumn}
}

// Len returns the number of pairs
func (d Deck) Len() int {
	return len(d.Pairs)
}

// Playable reports whether the deck is large enough to fill a grid
func (d Deck) Playable() bool {
	return len(d.Pairs) >= MinWordsForGrid
}

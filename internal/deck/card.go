package deck

import "codeberg.org/snonux/flipgrid/internal/vocab"

// Card is one displayed flip-card. Cards are regenerated on every render.
type Card struct {
	ID       string
	Front    string
	Back     string
	Flipped  bool
	Selected bool
}

// Orient assigns the faces of a pair: the studied language goes on the back.
// With column 1 or an undetermined target the file order is kept.
func Orient(pair vocab.WordPair, targetColumn int) (front, back string) {
	if targetColumn == 0 {
		return pair.B, pair.A
	}
	return pair.A, pair.B
}

// VisibleText returns the face currently shown: back if flipped, else front
func VisibleText(c Card) string {
	if c.Flipped {
		return c.Back
	}
	return c.Front
}

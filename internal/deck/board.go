package deck

import (
	"errors"
	"math/rand"

	"codeberg.org/snonux/flipgrid/internal"
)

// Placeholder is shown instead of a grid when there is nothing to display
const Placeholder = "No words available. Please select a vocabulary."

// ErrUnknownCard is returned when clicking a card that is not on the board
var ErrUnknownCard = errors.New("card is not on the board")

// Board is the rendered grid with its flip and selection state
type Board struct {
	cards    []Card
	selected int
	rng      *rand.Rand
}

// NewBoard creates an empty board. A nil rng uses a time-seeded source.
func NewBoard(rng *rand.Rand) *Board {
	if rng == nil {
		rng = NewRand()
	}
	return &Board{selected: -1, rng: rng}
}

// Render replaces the grid with up to MaxCards shuffled cards from d.
// The selection is always cleared.
func (b *Board) Render(d Deck) {
	b.cards = nil
	b.selected = -1

	if d.Len() == 0 {
		return
	}

	shuffled := Shuffle(d.Pairs, b.rng)
	n := len(shuffled)
	if n > MaxCards {
		n = MaxCards
	}

	b.cards = make([]Card, 0, n)
	for i, pair := range shuffled[:n] {
		front, back := Orient(pair, d.TargetColumn)
		b.cards = append(b.cards, Card{
			ID:    internal.GenerateCardID(i, front, back),
			Front: front,
			Back:  back,
		})
	}
}

// Clear removes all cards
func (b *Board) Clear() {
	b.Render(Empty())
}

// Empty reports whether the board shows the placeholder instead of cards
func (b *Board) Empty() bool {
	return len(b.cards) == 0
}

// Len returns the number of cards on the board
func (b *Board) Len() int {
	return len(b.cards)
}

// Cards returns a copy of the cards in row-major order
func (b *Board) Cards() []Card {
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}

// Rows returns the cards split into grid rows of at most GridCols
func (b *Board) Rows() [][]Card {
	cards := b.Cards()
	var rows [][]Card
	for start := 0; start < len(cards); start += GridCols {
		end := start + GridCols
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, cards[start:end])
	}
	return rows
}

// Card returns the card at index in row-major order
func (b *Board) Card(index int) (Card, bool) {
	if index < 0 || index >= len(b.cards) {
		return Card{}, false
	}
	return b.cards[index], true
}

// Click selects the card with id, clearing the previous selection, and
// toggles its flip state. The previously selected card keeps its flip state.
func (b *Board) Click(id string) (Card, error) {
	for i := range b.cards {
		if b.cards[i].ID == id {
			return b.ClickAt(i)
		}
	}
	return Card{}, ErrUnknownCard
}

// ClickAt is Click addressed by row-major index
func (b *Board) ClickAt(index int) (Card, error) {
	if index < 0 || index >= len(b.cards) {
		return Card{}, ErrUnknownCard
	}

	if b.selected >= 0 {
		b.cards[b.selected].Selected = false
	}
	b.selected = index

	c := &b.cards[index]
	c.Selected = true
	c.Flipped = !c.Flipped
	return *c, nil
}

// Selected returns the selected card, if any
func (b *Board) Selected() (Card, bool) {
	if b.selected < 0 {
		return Card{}, false
	}
	return b.cards[b.selected], true
}

// SelectedIndex returns the row-major index of the selected card or -1
func (b *Board) SelectedIndex() int {
	return b.selected
}

// SelectedText returns the visible face of the selected card
func (b *Board) SelectedText() (string, bool) {
	c, ok := b.Selected()
	if !ok {
		return "", false
	}
	return VisibleText(c), true
}

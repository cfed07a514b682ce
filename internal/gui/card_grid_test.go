package gui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/flipgrid/internal/deck"
)

func TestCardGridShowsPlaceholder(t *testing.T) {
	test.NewTempApp(t)

	g := NewCardGrid(nil)
	if g.Len() != 0 {
		t.Errorf("Expected empty grid, got %d cards", g.Len())
	}
	if g.placeholder.Text != deck.Placeholder {
		t.Errorf("Expected placeholder text, got %q", g.placeholder.Text)
	}
}

func TestCardGridSetCards(t *testing.T) {
	test.NewTempApp(t)

	var tapped []int
	g := NewCardGrid(func(i int) { tapped = append(tapped, i) })

	cards := []deck.Card{
		{ID: "a", Front: "kutya", Back: "cane"},
		{ID: "b", Front: "macska", Back: "gatto", Flipped: true},
		{ID: "c", Front: "ló", Back: "cavallo"},
	}
	g.SetCards(cards, 1)

	if g.Len() != 3 {
		t.Fatalf("Expected 3 cards, got %d", g.Len())
	}
	if g.buttons[0].Text != "kutya" {
		t.Errorf("Expected front text, got %q", g.buttons[0].Text)
	}
	if g.buttons[1].Text != "gatto" {
		t.Errorf("Expected back text of flipped card, got %q", g.buttons[1].Text)
	}
	if g.buttons[1].Importance != widget.HighImportance {
		t.Errorf("Expected selected card to be highlighted")
	}

	test.Tap(g.buttons[2])
	if len(tapped) != 1 || tapped[0] != 2 {
		t.Errorf("Expected tap on index 2, got %v", tapped)
	}

	g.SetCards(nil, -1)
	if g.Len() != 0 {
		t.Errorf("Expected placeholder after clearing, got %d cards", g.Len())
	}
}

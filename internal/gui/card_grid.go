package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/flipgrid/internal/deck"
)

// CardGrid shows the flip-cards as a grid of buttons, or a placeholder
// text when there are none
type CardGrid struct {
	widget.BaseWidget

	container   *fyne.Container
	grid        *fyne.Container
	placeholder *widget.Label
	buttons     []*widget.Button

	onTapped func(index int)
}

// NewCardGrid creates an empty grid. onTapped receives the row-major
// index of the tapped card.
func NewCardGrid(onTapped func(index int)) *CardGrid {
	g := &CardGrid{onTapped: onTapped}

	g.grid = container.NewGridWithColumns(deck.GridCols)

	g.placeholder = widget.NewLabel(deck.Placeholder)
	g.placeholder.Alignment = fyne.TextAlignCenter
	g.placeholder.Wrapping = fyne.TextWrapWord

	g.container = container.NewStack(g.grid, container.NewCenter(g.placeholder))
	g.grid.Hide()

	g.ExtendBaseWidget(g)
	return g
}

// CreateRenderer implements fyne.Widget
func (g *CardGrid) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.container)
}

// SetCards shows cards. selected is the index of the selected card or -1.
func (g *CardGrid) SetCards(cards []deck.Card, selected int) {
	if len(cards) == 0 {
		g.ShowPlaceholder(deck.Placeholder)
		return
	}

	if len(g.buttons) != len(cards) {
		g.buttons = make([]*widget.Button, len(cards))
		objects := make([]fyne.CanvasObject, len(cards))
		for i := range cards {
			index := i
			g.buttons[i] = widget.NewButton("", func() {
				if g.onTapped != nil {
					g.onTapped(index)
				}
			})
			objects[i] = g.buttons[i]
		}
		g.grid.Objects = objects
	}

	for i, c := range cards {
		b := g.buttons[i]
		b.SetText(deck.VisibleText(c))
		switch {
		case i == selected:
			b.Importance = widget.HighImportance
		case c.Flipped:
			b.Importance = widget.SuccessImportance
		default:
			b.Importance = widget.MediumImportance
		}
		b.Refresh()
	}

	g.placeholder.Hide()
	g.grid.Show()
	g.grid.Refresh()
}

// ShowPlaceholder hides the cards and shows text instead
func (g *CardGrid) ShowPlaceholder(text string) {
	g.placeholder.SetText(text)
	g.grid.Hide()
	g.placeholder.Show()
}

// Len returns the number of cards shown
func (g *CardGrid) Len() int {
	if !g.grid.Visible() {
		return 0
	}
	return len(g.buttons)
}

// Package tui is the terminal surface: a bubbletea program showing the
// vocabulary grid with keyboard controls.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/flipgrid/internal/deck"
	"codeberg.org/snonux/flipgrid/internal/session"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

// loadedMsg is sent when a vocabulary load finished
type loadedMsg struct {
	key string
	err error
}

// Model is the bubbletea model of the grid
type Model struct {
	ctx      context.Context
	ctrl     *session.Controller
	notifier *Notifier
	entries  []vocab.Entry

	vocabIndex int
	cursor     int
	loading    bool
	showHelp   bool
	status     string
	initialKey string
}

// New creates a model. The controller must report to notifier.
func New(ctx context.Context, ctrl *session.Controller, notifier *Notifier) *Model {
	return &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		notifier: notifier,
		entries:  ctrl.Catalog().Entries(),
	}
}

// WithVocabulary makes Init load the catalog entry with key
func (m *Model) WithVocabulary(key string) *Model {
	m.initialKey = key
	return m
}

// Run starts the program and blocks until the user quits
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.notifier.Attach(p)
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	if m.initialKey == "" {
		return nil
	}
	for i, e := range m.entries {
		if e.Key == m.initialKey {
			return m.selectVocabulary(i)
		}
	}
	m.status = fmt.Sprintf("Unknown vocabulary: %s", m.initialKey)
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.drain()
		return m, cmd
	case loadedMsg:
		m.loading = false
		m.cursor = 0
		m.drain()
	case notifyMsg:
		m.drain()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	n := len(m.ctrl.Cards())

	switch key := msg.String(); key {
	case "ctrl+c", "q":
		return tea.Quit
	case "h", "?":
		m.showHelp = !m.showHelp
	case "up":
		if m.cursor-deck.GridCols >= 0 {
			m.cursor -= deck.GridCols
		}
	case "down":
		if m.cursor+deck.GridCols < n {
			m.cursor += deck.GridCols
		}
	case "left":
		if m.cursor%deck.GridCols > 0 {
			m.cursor--
		}
	case "right":
		if m.cursor%deck.GridCols < deck.GridCols-1 && m.cursor+1 < n {
			m.cursor++
		}
	case "enter", " ":
		if n > 0 {
			_, _ = m.ctrl.ClickAt(m.cursor)
		}
	case "s":
		_ = m.ctrl.Speak(m.ctx)
	case "r":
		if m.ctrl.Reshuffle() == nil {
			m.cursor = 0
		}
	case "n":
		return m.selectVocabulary(m.vocabIndex + 1)
	case "p":
		return m.selectVocabulary(m.vocabIndex - 1)
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			if i := int(key[0] - '0'); i < len(m.entries) {
				return m.selectVocabulary(i)
			}
		}
	}
	return nil
}

// selectVocabulary switches to entry i, wrapping around, and loads it in
// the background
func (m *Model) selectVocabulary(i int) tea.Cmd {
	if len(m.entries) == 0 {
		return nil
	}
	i = (i%len(m.entries) + len(m.entries)) % len(m.entries)
	m.vocabIndex = i
	entry := m.entries[i]
	m.loading = !entry.IsPlaceholder()

	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		err := ctrl.LoadKey(ctx, entry.Key)
		return loadedMsg{key: entry.Key, err: err}
	}
}

func (m *Model) drain() {
	alerts, _ := m.notifier.drain()
	if len(alerts) > 0 {
		m.status = alerts[len(alerts)-1]
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	name := "-"
	if len(m.entries) > 0 {
		name = m.entries[m.vocabIndex].Name
	}
	b.WriteString(TitleStyle.Render("flipgrid: " + name))
	b.WriteString("\n\n")

	if m.ctrl.Empty() {
		b.WriteString(PlaceholderStyle.Render(m.ctrl.Placeholder()))
	} else {
		b.WriteString(m.renderGrid())
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(StatusStyle.Render("Loading vocabulary..."))
	case m.status != "":
		b.WriteString(ErrorStyle.Render(m.status))
	default:
		b.WriteString(StatusStyle.Render(m.ctrl.Status()))
	}
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(HelpStyle.Render(helpText))
	} else {
		b.WriteString(HelpStyle.Render("h: help  q: quit"))
	}
	b.WriteString("\n")

	return b.String()
}

const helpText = `arrows: move   enter/space: flip card   s: speak selected card
r: reshuffle   n/p: next/previous vocabulary   0-9: pick vocabulary
h: toggle help   q: quit`

func (m *Model) renderGrid() string {
	selected := m.ctrl.SelectedIndex()
	rows := m.ctrl.Rows()

	lines := make([]string, 0, len(rows))
	i := 0
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, renderCard(c, i == m.cursor, i == selected))
			i++
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCard(c deck.Card, cursor, selected bool) string {
	style := CardStyle
	if c.Flipped {
		style = FlippedStyle
	}
	switch {
	case cursor:
		style = style.BorderForeground(CursorBorder)
	case selected:
		style = style.BorderForeground(SelectedBorder)
	}
	return style.Render(truncate(deck.VisibleText(c), cardWidth))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

package tui

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"codeberg.org/snonux/flipgrid/internal/deck"
	"codeberg.org/snonux/flipgrid/internal/loader"
	"codeberg.org/snonux/flipgrid/internal/session"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

// sizedLoader returns a vocabulary with as many pairs as the source names
type sizedLoader struct{}

func (sizedLoader) Load(ctx context.Context, source string) (*loader.Result, error) {
	var n int
	if _, err := fmt.Sscanf(source, "mem://%d", &n); err != nil {
		return nil, &loader.TransportError{Source: source, Err: err}
	}
	if n < deck.MinWordsForGrid {
		return nil, &loader.FormatError{Loaded: n}
	}
	pairs := make([]vocab.WordPair, n)
	for i := range pairs {
		pairs[i] = vocab.WordPair{A: fmt.Sprintf("parola%d", i), B: fmt.Sprintf("szo%d", i)}
	}
	return &loader.Result{Source: source, Parsed: vocab.ParseResult{Pairs: pairs, TargetColumn: 0}}, nil
}

type recordingSpeaker struct {
	spoken []string
}

func (s *recordingSpeaker) Supported() error { return nil }

func (s *recordingSpeaker) Speak(ctx context.Context, text string) error {
	s.spoken = append(s.spoken, text)
	return nil
}

func newTestModel(t *testing.T) (*Model, *recordingSpeaker) {
	t.Helper()

	catalog, err := vocab.NewCatalog([]vocab.Entry{
		{Key: "thirty", Name: "Thirty words", URL: "mem://30"},
		{Key: "ten", Name: "Ten words", URL: "mem://10"},
	})
	require.NoError(t, err)

	speaker := &recordingSpeaker{}
	notifier := NewNotifier()
	ctrl := session.New(session.Options{
		Loader:   sizedLoader{},
		Speaker:  speaker,
		Notifier: notifier,
		Catalog:  catalog,
		Rand:     rand.New(rand.NewSource(1)),
		Logger:   zaptest.NewLogger(t),
	})
	return New(context.Background(), ctrl, notifier), speaker
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs any resulting command through Update
func press(t *testing.T, m *Model, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd != nil {
		m.Update(cmd())
	}
}

func TestStartsWithPlaceholder(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), deck.Placeholder)
}

func TestInitLoadsInitialVocabulary(t *testing.T) {
	m, _ := newTestModel(t)
	m.WithVocabulary("thirty")

	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	m.Update(cmd())

	assert.False(t, m.loading)
	assert.Len(t, m.ctrl.Cards(), deck.MaxCards)
	assert.Contains(t, m.View(), "Thirty words")
}

func TestSelectAndSpeak(t *testing.T) {
	m, speaker := newTestModel(t)

	press(t, m, runes("1"))
	require.Len(t, m.ctrl.Cards(), deck.MaxCards)

	press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, deck.GridCols+1, m.cursor)

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	card, ok := m.ctrl.Selected()
	require.True(t, ok)
	assert.True(t, card.Flipped)
	assert.Equal(t, deck.GridCols+1, m.ctrl.SelectedIndex())

	press(t, m, runes("s"))
	m.ctrl.Wait()
	assert.Equal(t, []string{card.Back}, speaker.spoken)
}

func TestCursorStaysOnGrid(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, runes("1"))

	press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 10; i++ {
		press(t, m, tea.KeyMsg{Type: tea.KeyRight})
		press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, deck.MaxCards-1, m.cursor)
}

func TestSpeakWithoutSelection(t *testing.T) {
	m, speaker := newTestModel(t)
	press(t, m, runes("1"))

	press(t, m, runes("s"))
	assert.Equal(t, session.NoSelectionMessage, m.status)
	assert.Contains(t, m.View(), session.NoSelectionMessage)
	assert.Empty(t, speaker.spoken)
}

func TestReshuffleWithoutVocabulary(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, runes("r"))
	assert.Equal(t, session.NoDeckMessage, m.status)
	assert.Contains(t, m.View(), deck.Placeholder)
}

func TestShortVocabularyShowsError(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, runes("1"))
	require.False(t, m.ctrl.Empty())

	press(t, m, runes("n"))
	assert.Equal(t, 2, m.vocabIndex)
	assert.True(t, m.ctrl.Empty())
	assert.Equal(t, session.LoadErrorPrefix+"Vocabulary must contain at least 25 word pairs. Loaded 10.", m.status)
}

func TestVocabularySelectionWraps(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, runes("p"))
	assert.Equal(t, 2, m.vocabIndex)
	press(t, m, runes("n"))
	assert.Equal(t, 0, m.vocabIndex)
	assert.True(t, m.ctrl.Empty())
	assert.Empty(t, m.status)
}

func TestHelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t)

	press(t, m, runes("h"))
	assert.Contains(t, m.View(), "r: reshuffle")
	press(t, m, runes("h"))
	assert.NotContains(t, m.View(), "r: reshuffle")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

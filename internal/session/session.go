// Package session owns the application state shared by every surface: the
// active deck, the rendered board and the load generation.
//
// Surfaces call the controller and render from its accessors. User-facing
// messages are produced here and delivered through a Notifier.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/deck"
	"codeberg.org/snonux/flipgrid/internal/loader"
	"codeberg.org/snonux/flipgrid/internal/logging"
	"codeberg.org/snonux/flipgrid/internal/speech"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

// User-facing messages
const (
	LoadErrorPrefix    = "Error loading vocabulary: "
	NoDeckMessage      = "Please select and load a valid vocabulary first."
	NoSelectionMessage = "Please click on a card first to select a word to speak."
	UnsupportedMessage = "Sorry, text-to-speech is not supported on this system."
	SpeakErrorPrefix   = "Error speaking: "
)

var (
	// ErrNoSelection is returned by Speak when no card is selected
	ErrNoSelection = errors.New("no card selected")

	// ErrNoDeck is returned by Reshuffle when no playable deck is loaded
	ErrNoDeck = errors.New("no vocabulary loaded")

	// ErrStaleLoad is returned by Load when a newer load started meanwhile
	ErrStaleLoad = errors.New("superseded by a newer load")
)

// Notifier shows messages to the user
type Notifier interface {
	Alert(message string)
	SetLoading(loading bool)
}

// Loader fetches a vocabulary
type Loader interface {
	Load(ctx context.Context, source string) (*loader.Result, error)
}

// Speaker reads text aloud
type Speaker interface {
	Supported() error
	Speak(ctx context.Context, text string) error
}

// Options configures a Controller. Loader is required.
type Options struct {
	Loader   Loader
	Speaker  Speaker
	Notifier Notifier
	Catalog  *vocab.Catalog
	Rand     *rand.Rand
	Logger   *zap.Logger

	// OnChange is called after every board change, outside the lock
	OnChange func()
}

// Controller is the single owner of the session state
type Controller struct {
	loader   Loader
	speaker  Speaker
	notifier Notifier
	catalog  *vocab.Catalog
	logger   *zap.Logger
	onChange func()

	mu         sync.Mutex
	deck       deck.Deck
	board      *deck.Board
	source     string
	generation uint64

	speaking sync.WaitGroup
}

// New creates a controller with an empty deck
func New(opts Options) *Controller {
	c := &Controller{
		loader:   opts.Loader,
		speaker:  opts.Speaker,
		notifier: opts.Notifier,
		catalog:  opts.Catalog,
		logger:   logging.OrNop(opts.Logger).Named("session"),
		onChange: opts.OnChange,
		deck:     deck.Empty(),
		board:    deck.NewBoard(opts.Rand),
	}
	if c.catalog == nil {
		c.catalog = vocab.DefaultCatalog()
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	return c
}

// Catalog returns the vocabulary catalog
func (c *Controller) Catalog() *vocab.Catalog {
	return c.catalog
}

// LoadKey loads the catalog entry with key. Unknown keys and the
// placeholder clear the board.
func (c *Controller) LoadKey(ctx context.Context, key string) error {
	entry, ok := c.catalog.Lookup(key)
	if !ok {
		return c.Load(ctx, "")
	}
	return c.Load(ctx, entry.URL)
}

// Load fetches source and makes it the active deck. It blocks; surfaces
// run it in a goroutine. An empty source clears the board silently.
// Failures clear the deck and alert the user.
func (c *Controller) Load(ctx context.Context, source string) error {
	gen := c.begin()

	if source == "" {
		c.apply(gen, "", nil, loader.ErrNoSource)
		return nil
	}

	c.notifier.SetLoading(true)
	res, err := c.loader.Load(ctx, source)
	if c.current(gen) {
		c.notifier.SetLoading(false)
	}

	return c.apply(gen, source, res, err)
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

func (c *Controller) apply(gen uint64, source string, res *loader.Result, loadErr error) error {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Info("Discarding stale load",
			zap.String("source", source),
			zap.Uint64("generation", gen))
		return ErrStaleLoad
	}

	if loadErr != nil {
		c.deck = deck.Empty()
		c.source = ""
		c.board.Clear()
		c.mu.Unlock()

		c.changed()
		if errors.Is(loadErr, loader.ErrNoSource) {
			return nil
		}
		c.logger.Warn("Vocabulary load failed", zap.String("source", source), zap.Error(loadErr))
		c.notifier.Alert(LoadErrorPrefix + loadErr.Error())
		return loadErr
	}

	c.deck = res.Deck()
	c.source = source
	c.board.Render(c.deck)
	c.mu.Unlock()

	c.logger.Info("Vocabulary active",
		zap.String("source", source),
		zap.String("request_id", res.RequestID),
		zap.Int("pairs", res.Parsed.Len()),
		zap.Int("target_column", res.Parsed.TargetColumn))
	c.changed()
	return nil
}

// Reshuffle renders a new random grid from the active deck
func (c *Controller) Reshuffle() error {
	c.mu.Lock()
	if !c.deck.Playable() {
		c.mu.Unlock()
		c.notifier.Alert(NoDeckMessage)
		return ErrNoDeck
	}
	c.board.Render(c.deck)
	c.mu.Unlock()

	c.changed()
	return nil
}

// Click flips and selects the card with id
func (c *Controller) Click(id string) (deck.Card, error) {
	c.mu.Lock()
	card, err := c.board.Click(id)
	c.mu.Unlock()
	if err == nil {
		c.changed()
	}
	return card, err
}

// ClickAt flips and selects the card at the row-major index
func (c *Controller) ClickAt(index int) (deck.Card, error) {
	c.mu.Lock()
	card, err := c.board.ClickAt(index)
	c.mu.Unlock()
	if err == nil {
		c.changed()
	}
	return card, err
}

// Speak reads the visible face of the selected card. Synthesis and playback
// run in the background; errors there are reported through the Notifier.
func (c *Controller) Speak(ctx context.Context) error {
	c.mu.Lock()
	text, ok := c.board.SelectedText()
	c.mu.Unlock()

	if !ok {
		c.notifier.Alert(NoSelectionMessage)
		return ErrNoSelection
	}

	if c.speaker == nil {
		c.notifier.Alert(UnsupportedMessage)
		return speech.ErrUnsupported
	}
	if err := c.speaker.Supported(); err != nil {
		c.logger.Warn("Speech unsupported", zap.Error(err))
		c.notifier.Alert(UnsupportedMessage)
		return err
	}

	c.speaking.Add(1)
	go func() {
		defer c.speaking.Done()
		if err := c.speaker.Speak(ctx, text); err != nil {
			c.logger.Warn("Speech failed", zap.String("text", text), zap.Error(err))
			c.notifier.Alert(SpeakErrorPrefix + err.Error())
		}
	}()
	return nil
}

// Wait blocks until all background speech requests have finished
func (c *Controller) Wait() {
	c.speaking.Wait()
}

// Deck returns the active deck
func (c *Controller) Deck() deck.Deck {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck
}

// Source returns the source of the active deck, empty when none is loaded
func (c *Controller) Source() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Rows returns the current grid
func (c *Controller) Rows() [][]deck.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Rows()
}

// Cards returns the current grid in row-major order
func (c *Controller) Cards() []deck.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Cards()
}

// Empty reports whether the placeholder is shown instead of a grid
func (c *Controller) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Empty()
}

// Selected returns the selected card
func (c *Controller) Selected() (deck.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Selected()
}

// SelectedIndex returns the row-major index of the selected card or -1
func (c *Controller) SelectedIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.SelectedIndex()
}

// Placeholder returns the text shown instead of an empty grid
func (c *Controller) Placeholder() string {
	return deck.Placeholder
}

// Status summarizes the active deck for status bars
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board.Empty() {
		return deck.Placeholder
	}
	return fmt.Sprintf("%d words loaded, showing %d", c.deck.Len(), c.board.Len())
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

type nopNotifier struct{}

func (nopNotifier) Alert(string)    {}
func (nopNotifier) SetLoading(bool) {}

// Package gui is the desktop surface: a Fyne window with the vocabulary
// selector, the 5x5 flip-card grid and the reshuffle and speak controls.
package gui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal"
	"codeberg.org/snonux/flipgrid/internal/anki"
	"codeberg.org/snonux/flipgrid/internal/logging"
	"codeberg.org/snonux/flipgrid/internal/session"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	vocabSelect  *widget.Select
	cardGrid     *CardGrid
	statusLabel  *widget.Label
	loadingLabel *widget.Label

	reshuffleBtn *ttwidget.Button
	speakBtn     *ttwidget.Button
	exportBtn    *ttwidget.Button
	helpBtn      *ttwidget.Button

	ctrl    *session.Controller
	catalog *vocab.Catalog
	config  *Config
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds GUI application configuration
type Config struct {
	// Session is used to build the controller. Notifier and OnChange are
	// provided by the window.
	Session session.Options

	// InitialVocabulary is the catalog key selected on startup
	InitialVocabulary string

	Logger *zap.Logger

	// App is the Fyne application to run in (default: a new desktop app)
	App fyne.App
}

// New creates a new GUI application
func New(config *Config) *Application {
	if config == nil {
		config = &Config{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	fyneApp := config.App
	if fyneApp == nil {
		fyneApp = app.NewWithID("org.codeberg.snonux.flipgrid")
	}

	a := &Application{
		app:    fyneApp,
		config: config,
		logger: logging.OrNop(config.Logger).Named("gui"),
		ctx:    ctx,
		cancel: cancel,
	}

	opts := config.Session
	opts.Notifier = &notifier{a: a}
	opts.OnChange = func() { fyne.Do(a.refreshGrid) }
	a.ctrl = session.New(opts)
	a.catalog = a.ctrl.Catalog()

	a.setupUI()
	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("flipgrid v%s - Vocabulary Flashcards", internal.Version))
	a.window.Resize(fyne.NewSize(900, 600))

	a.vocabSelect = widget.NewSelect(a.catalog.Names(), a.onVocabularySelected)
	a.vocabSelect.PlaceHolder = "Select a vocabulary..."

	a.cardGrid = NewCardGrid(a.onCardTapped)

	// Tooltips are set after the tooltip layer exists
	a.reshuffleBtn = ttwidget.NewButtonWithIcon("Reshuffle", theme.ViewRefreshIcon(), a.onReshuffle)
	a.speakBtn = ttwidget.NewButtonWithIcon("Speak", theme.MediaPlayIcon(), a.onSpeak)
	a.speakBtn.Importance = widget.HighImportance
	a.exportBtn = ttwidget.NewButtonWithIcon("", theme.UploadIcon(), a.onExportToAnki)
	a.helpBtn = ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	toolbar := container.NewBorder(
		nil, nil,
		widget.NewLabel("Vocabulary:"),
		container.NewHBox(
			a.reshuffleBtn,
			a.speakBtn,
			widget.NewSeparator(),
			a.exportBtn,
			a.helpBtn,
		),
		a.vocabSelect,
	)

	a.statusLabel = widget.NewLabel(a.ctrl.Status())
	a.loadingLabel = widget.NewLabel("Loading...")
	a.loadingLabel.TextStyle = fyne.TextStyle{Italic: true}
	a.loadingLabel.Hide()

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		container.NewHBox(a.statusLabel, a.loadingLabel),
		nil, nil,
		container.NewPadded(a.cardGrid),
	)

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.cancel()
		a.ctrl.Wait()
	})

	a.setupKeyboardShortcuts()
}

// Run starts the GUI application
func (a *Application) Run() {
	if key := a.config.InitialVocabulary; key != "" {
		if entry, ok := a.catalog.Lookup(key); ok {
			// Triggers onVocabularySelected
			a.vocabSelect.SetSelected(entry.Name)
		} else {
			a.logger.Warn("Unknown initial vocabulary", zap.String("key", key))
		}
	}
	a.window.ShowAndRun()
}

func (a *Application) onVocabularySelected(name string) {
	entry, ok := a.catalog.ByName(name)
	if !ok {
		return
	}

	// Loads run in the background; the grid refreshes via OnChange
	go func() {
		if err := a.ctrl.LoadKey(a.ctx, entry.Key); err != nil {
			a.logger.Debug("Load finished with error", zap.String("key", entry.Key), zap.Error(err))
		}
	}()
}

func (a *Application) onCardTapped(index int) {
	if _, err := a.ctrl.ClickAt(index); err != nil {
		a.logger.Warn("Card click failed", zap.Int("index", index), zap.Error(err))
	}
}

func (a *Application) onReshuffle() {
	_ = a.ctrl.Reshuffle()
}

func (a *Application) onSpeak() {
	_ = a.ctrl.Speak(a.ctx)
}

// onExportToAnki writes the active vocabulary to an .apkg or .csv file
func (a *Application) onExportToAnki() {
	d := a.ctrl.Deck()
	if !d.Playable() {
		dialog.ShowInformation("Export to Anki", session.NoDeckMessage, a.window)
		return
	}

	deckName := "flipgrid"
	if entry, ok := a.catalog.ByName(a.vocabSelect.Selected); ok {
		deckName = entry.Name
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		gen := anki.NewGenerator(nil)
		gen.AddDeck(d)
		if err := gen.Export(path, deckName); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export: %w", err), a.window)
			return
		}
		total, _ := gen.Stats()
		a.updateStatus(fmt.Sprintf("Exported %d cards to %s", total, filepath.Base(path)))
	}, a.window)
	save.SetFileName(internal.SanitizeFilename(strings.ToLower(deckName)) + ".apkg")
	save.Show()
}

// onShowHotkeys displays a dialog with all available keyboard shortcuts
func (a *Application) onShowHotkeys() {
	hotkeys := `## Cards
**click** Flip and select a card  
**s** Speak the selected card  
**r** Reshuffle the grid  

## Vocabulary
**x** Export to Anki  

## Help
**h** Show hotkeys  
**c** Close dialog  
**q** Quit application  `

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(400, 320))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)

	dialogOpen := true
	original := a.window.Canvas().OnTypedRune()
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if dialogOpen && (r == 'c' || r == 'C') {
			d.Hide()
			return
		}
		if original != nil {
			original(r)
		}
	})

	d.SetOnClosed(func() {
		dialogOpen = false
		a.setupKeyboardShortcuts()
	})
	d.Show()
}

// setupKeyboardShortcuts binds the single-key shortcuts
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 's', 'S':
			a.onSpeak()
		case 'r', 'R':
			a.onReshuffle()
		case 'x', 'X':
			a.onExportToAnki()
		case 'h', 'H':
			a.onShowHotkeys()
		case 'q', 'Q':
			a.window.Close()
		}
	})
}

func (a *Application) setupTooltips() {
	a.reshuffleBtn.SetToolTip("Reshuffle (r)")
	a.speakBtn.SetToolTip("Speak selected card (s)")
	a.exportBtn.SetToolTip("Export to Anki (x)")
	a.helpBtn.SetToolTip("Show hotkeys (h)")
}

// refreshGrid redraws the cards from the controller. Must run on the UI
// goroutine.
func (a *Application) refreshGrid() {
	if a.ctrl.Empty() {
		a.cardGrid.ShowPlaceholder(a.ctrl.Placeholder())
	} else {
		a.cardGrid.SetCards(a.ctrl.Cards(), a.ctrl.SelectedIndex())
	}
	a.updateStatus(a.ctrl.Status())
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

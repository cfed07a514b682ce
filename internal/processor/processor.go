package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal"
	"codeberg.org/snonux/flipgrid/internal/anki"
	"codeberg.org/snonux/flipgrid/internal/archive"
	"codeberg.org/snonux/flipgrid/internal/audio"
	"codeberg.org/snonux/flipgrid/internal/cli"
	"codeberg.org/snonux/flipgrid/internal/deck"
	"codeberg.org/snonux/flipgrid/internal/gui"
	"codeberg.org/snonux/flipgrid/internal/loader"
	"codeberg.org/snonux/flipgrid/internal/logging"
	"codeberg.org/snonux/flipgrid/internal/session"
	"codeberg.org/snonux/flipgrid/internal/speech"
	"codeberg.org/snonux/flipgrid/internal/tui"
	"codeberg.org/snonux/flipgrid/internal/vocab"
	"codeberg.org/snonux/flipgrid/internal/web"
)

const shutdownTimeout = 5 * time.Second

// Processor wires the configured components together
type Processor struct {
	flags       *cli.Flags
	logger      *zap.Logger
	catalog     *vocab.Catalog
	loader      *loader.Loader
	audioConfig *audio.Config
	addr        string
	out         io.Writer

	// Built lazily; tests inject fakes
	provider audio.Provider
	player   audio.Player
}

// NewProcessor builds the components from v
func NewProcessor(flags *cli.Flags, v *viper.Viper, logger *zap.Logger) (*Processor, error) {
	logger = logging.OrNop(logger)

	catalog, err := cli.Catalog(v)
	if err != nil {
		return nil, err
	}

	loaderOpts, err := cli.LoaderOptions(v, logger)
	if err != nil {
		return nil, err
	}

	audioConfig := cli.AudioConfig(v, logger)
	if flags.NoCache {
		audioConfig.EnableCache = false
	}

	return &Processor{
		flags:       flags,
		logger:      logger,
		catalog:     catalog,
		loader:      loader.New(loaderOpts),
		audioConfig: audioConfig,
		addr:        v.GetString("serve.addr"),
		out:         os.Stdout,
	}, nil
}

// Run executes the mode selected by the flags. args holds the optional
// vocabulary: a catalog key, URL or file path.
func (p *Processor) Run(ctx context.Context, args []string) error {
	vocabulary := ""
	if len(args) > 0 {
		vocabulary = args[0]
	}

	switch {
	case p.flags.ArchiveCache:
		return p.ArchiveCache()
	case p.flags.List:
		return p.ListVocabularies()
	case p.flags.Say != "":
		return p.Say(ctx, p.flags.Say)
	case p.flags.Print != "":
		return p.PrintGrid(ctx, p.flags.Print)
	case p.flags.Export != "":
		if vocabulary == "" {
			return errors.New("--export needs a vocabulary argument")
		}
		return p.Export(ctx, vocabulary, p.flags.Export)
	case p.flags.Serve:
		return p.Serve(ctx, p.addr)
	case p.flags.TUI:
		return p.RunTUI(ctx, vocabulary)
	default:
		return p.RunGUIMode(vocabulary)
	}
}

// ListVocabularies prints the catalog
func (p *Processor) ListVocabularies() error {
	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tSOURCE")
	for _, e := range p.catalog.Entries() {
		if e.IsPlaceholder() {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Name, e.URL)
	}
	return w.Flush()
}

// ArchiveCache moves the audio cache out of the way
func (p *Processor) ArchiveCache() error {
	path, err := archive.Cache(p.audioConfig.CacheDir, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Audio cache archived to: %s\n", path)
	return nil
}

// PrintGrid loads a vocabulary and prints one shuffled grid
func (p *Processor) PrintGrid(ctx context.Context, vocabulary string) error {
	res, err := p.load(ctx, vocabulary)
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if p.flags.Seed != 0 {
		rng = rand.New(rand.NewSource(p.flags.Seed))
	}

	d := res.Deck()
	board := deck.NewBoard(rng)
	board.Render(d)

	fmt.Fprintf(p.out, "%s: %d words, showing %d\n\n", vocabulary, d.Len(), board.Len())

	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	for _, row := range board.Rows() {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.Front + " = " + c.Back
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

// Say speaks text through the configured provider
func (p *Processor) Say(ctx context.Context, text string) error {
	speaker := p.newSpeaker()
	defer speaker.Close()

	if err := speaker.Supported(); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Speaking: %s\n", text)
	return speaker.Speak(ctx, text)
}

// Export writes a vocabulary to an Anki .apkg or .csv file
func (p *Processor) Export(ctx context.Context, vocabulary, outputPath string) error {
	res, err := p.load(ctx, vocabulary)
	if err != nil {
		return err
	}

	deckName := p.flags.DeckName
	if deckName == "" {
		deckName = vocabulary
		if e, ok := p.catalog.Lookup(vocabulary); ok {
			deckName = e.Name
		}
	}

	gen := anki.NewGenerator(nil)
	gen.AddDeck(res.Deck())

	if p.flags.ExportAudio {
		mediaDir, cleanup, err := p.mediaDir(outputPath)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := p.attachAudio(ctx, gen.Cards(), mediaDir); err != nil {
			return err
		}
	}

	if err := gen.Export(outputPath, deckName); err != nil {
		return fmt.Errorf("failed to export %s: %w", vocabulary, err)
	}

	total, withAudio := gen.Stats()
	fmt.Fprintf(p.out, "Exported %d cards (%d with audio) to %s\n", total, withAudio, outputPath)
	return nil
}

// mediaDir is where exported audio goes: a scratch directory for packages,
// which embed their media, or a directory next to a CSV file
func (p *Processor) mediaDir(outputPath string) (string, func(), error) {
	if strings.EqualFold(filepath.Ext(outputPath), ".apkg") {
		dir, err := os.MkdirTemp("", "flipgrid_media_*")
		if err != nil {
			return "", nil, fmt.Errorf("failed to create media directory: %w", err)
		}
		return dir, func() { os.RemoveAll(dir) }, nil
	}

	dir := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_media"
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return dir, func() {}, nil
}

// attachAudio synthesizes the back of every card. Failures are logged and
// leave the card without audio.
func (p *Processor) attachAudio(ctx context.Context, cards []anki.Card, dir string) error {
	provider, err := p.audioProvider()
	if err != nil {
		return fmt.Errorf("audio export unavailable: %w", err)
	}

	ext := p.audioConfig.Extension()
	for i := range cards {
		file := filepath.Join(dir, fmt.Sprintf("%04d_%s%s", i, internal.SanitizeFilename(cards[i].Back), ext))
		if err := provider.GenerateAudio(ctx, cards[i].Back, file); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("Audio generation failed", zap.String("text", cards[i].Back), zap.Error(err))
			continue
		}
		cards[i].AudioFile = file
	}
	return nil
}

// RunTUI runs the terminal UI
func (p *Processor) RunTUI(ctx context.Context, vocabulary string) error {
	speaker := p.newSpeaker()
	defer speaker.Close()

	notifier := tui.NewNotifier()
	ctrl := session.New(session.Options{
		Loader:   p.loader,
		Speaker:  speaker,
		Notifier: notifier,
		Catalog:  p.catalog,
		Logger:   p.logger,
	})

	err := tui.Run(ctx, tui.New(ctx, ctrl, notifier).WithVocabulary(vocabulary))
	ctrl.Wait()
	return err
}

// Serve runs the JSON API until ctx is done
func (p *Processor) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = p.flags.Addr
	}
	server := web.NewServer(p.catalog, p.loader, p.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode(vocabulary string) error {
	speaker := p.newSpeaker()
	defer speaker.Close()

	app := gui.New(&gui.Config{
		Session: session.Options{
			Loader:  p.loader,
			Speaker: speaker,
			Catalog: p.catalog,
			Logger:  p.logger,
		},
		InitialVocabulary: vocabulary,
		Logger:            p.logger,
	})
	app.Run()

	return nil
}

// load resolves a catalog key and loads the vocabulary
func (p *Processor) load(ctx context.Context, vocabulary string) (*loader.Result, error) {
	source := p.catalog.Resolve(vocabulary)
	if source == "" {
		return nil, fmt.Errorf("no vocabulary selected: %s", deck.Placeholder)
	}
	res, err := p.loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", vocabulary, err)
	}
	return res, nil
}

func (p *Processor) audioProvider() (audio.Provider, error) {
	if p.provider != nil {
		return p.provider, nil
	}
	provider, err := audio.NewProvider(p.audioConfig)
	if err != nil {
		return nil, err
	}
	p.provider = provider
	return provider, nil
}

// newSpeaker never fails; a missing provider or player makes speech
// unsupported, which the surfaces report on use
func (p *Processor) newSpeaker() *speech.Speaker {
	provider, err := p.audioProvider()
	if err != nil {
		p.logger.Warn("Speech provider unavailable",
			zap.String("provider", p.audioConfig.Provider), zap.Error(err))
	}

	player := p.player
	if player == nil {
		player = audio.NewPlayer(p.logger)
	}

	return speech.New(provider, player, p.audioConfig.Extension(), p.logger)
}

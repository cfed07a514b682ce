// Package anki exports the active vocabulary as Anki import files: a plain
// CSV or a self-contained .apkg package.
package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/flipgrid/internal/deck"
)

// Card represents a single Anki flashcard
type Card struct {
	Front     string // Prompt side, the known language
	Back      string // Answer side, the studied language
	AudioFile string // Optional pronunciation of Back
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
	FrontLabel     string // Header of the front column
	BackLabel      string // Header of the back column
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
		FrontLabel:     "Front",
		BackLabel:      "Back",
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddDeck adds every pair of d, oriented like the grid shows them
func (g *Generator) AddDeck(d deck.Deck) {
	for _, pair := range d.Pairs {
		front, back := deck.Orient(pair, d.TargetColumn)
		g.AddCard(Card{Front: front, Back: back})
	}
}

// Cards returns the cards for modification
func (g *Generator) Cards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		if err := writer.Write([]string{g.options.FrontLabel, g.options.BackLabel, "Audio"}); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{card.Front, card.Back, formatAudioField(card.AudioFile)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateAPKG creates a .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	apkgGen.SetLabels(g.options.FrontLabel, g.options.BackLabel)

	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	return apkgGen.GenerateAPKG(outputPath)
}

// Export writes the cards to path, choosing the format by extension:
// ".apkg" builds a package, anything else a CSV file.
func (g *Generator) Export(path, deckName string) error {
	if strings.EqualFold(filepath.Ext(path), ".apkg") {
		return g.GenerateAPKG(path, deckName)
	}
	g.options.OutputPath = path
	return g.GenerateCSV()
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
	}
	return
}

// formatAudioField formats the audio file reference for Anki
func formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}
	// Anki audio format: [sound:filename.mp3]
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}

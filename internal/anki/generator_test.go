package anki

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/flipgrid/internal/deck"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

func TestGenerateCSV(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.csv")

	gen := NewGenerator(&GeneratorOptions{
		OutputPath:     outputPath,
		IncludeHeaders: true,
		FrontLabel:     "Hungarian",
		BackLabel:      "Italian",
	})
	gen.AddCard(Card{Front: "kutya", Back: "cane", AudioFile: "/tmp/audio/cane.wav"})
	gen.AddCard(Card{Front: "macska", Back: "gatto, felino"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}

	file, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records (header + 2 cards), got %d", len(records))
	}
	if records[0][0] != "Hungarian" || records[0][1] != "Italian" || records[0][2] != "Audio" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	if records[1][2] != "[sound:cane.wav]" {
		t.Errorf("Expected audio reference, got %q", records[1][2])
	}
	if records[2][1] != "gatto, felino" {
		t.Errorf("Expected comma to survive quoting, got %q", records[2][1])
	}
	if records[2][2] != "" {
		t.Errorf("Expected empty audio field, got %q", records[2][2])
	}
}

func TestGenerateCSVWithoutHeaders(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.csv")

	gen := NewGenerator(&GeneratorOptions{OutputPath: outputPath})
	gen.AddCard(Card{Front: "a", Back: "b"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if string(data) != "a,b,\n" {
		t.Errorf("Unexpected CSV content: %q", data)
	}
}

func TestAddDeckOrientation(t *testing.T) {
	pairs := []vocab.WordPair{{A: "cane", B: "kutya"}, {A: "gatto", B: "macska"}}

	gen := NewGenerator(nil)
	gen.AddDeck(deck.Deck{Pairs: pairs, TargetColumn: 0})

	cards := gen.Cards()
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if cards[0].Front != "kutya" || cards[0].Back != "cane" {
		t.Errorf("Expected the studied column on the back, got %+v", cards[0])
	}

	gen = NewGenerator(nil)
	gen.AddDeck(deck.Deck{Pairs: pairs, TargetColumn: 1})
	if cards := gen.Cards(); cards[1].Front != "gatto" || cards[1].Back != "macska" {
		t.Errorf("Expected pair order kept for column 1, got %+v", cards[1])
	}
}

func TestExportChoosesFormat(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(nil)
	gen.AddCard(Card{Front: "kutya", Back: "cane"})

	csvPath := filepath.Join(dir, "deck.csv")
	if err := gen.Export(csvPath, "Test"); err != nil {
		t.Fatalf("CSV export failed: %v", err)
	}
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("Expected CSV file: %v", err)
	}

	apkgPath := filepath.Join(dir, "deck.APKG")
	if err := gen.Export(apkgPath, "Test"); err != nil {
		t.Fatalf("APKG export failed: %v", err)
	}
	if _, err := os.Stat(apkgPath); err != nil {
		t.Errorf("Expected APKG file: %v", err)
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Front: "a", Back: "b", AudioFile: "a.wav"})
	gen.AddCard(Card{Front: "c", Back: "d"})

	total, withAudio := gen.Stats()
	if total != 2 || withAudio != 1 {
		t.Errorf("Expected 2 total and 1 with audio, got %d and %d", total, withAudio)
	}
}

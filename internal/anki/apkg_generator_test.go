package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// unpack extracts an .apkg into a fresh directory
func unpack(t *testing.T, path string) string {
	t.Helper()

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open package: %v", err)
	}
	defer reader.Close()

	dir := t.TempDir()
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read %s: %v", f.Name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.Name), data, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", f.Name, err)
		}
	}
	return dir
}

func TestGenerateAPKG(t *testing.T) {
	dir := t.TempDir()
	audioFile := filepath.Join(dir, "cane.wav")
	if err := os.WriteFile(audioFile, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	gen := NewAPKGGenerator("Italian")
	gen.SetLabels("Hungarian", "Italian")
	gen.AddCard(Card{Front: "kutya", Back: "cane", AudioFile: audioFile})
	gen.AddCard(Card{Front: "macska", Back: "gatto"})
	gen.AddCard(Card{Front: "ló", Back: "cavallo", AudioFile: filepath.Join(dir, "missing.wav")})

	outputPath := filepath.Join(dir, "deck.apkg")
	if err := gen.GenerateAPKG(outputPath); err != nil {
		t.Fatalf("GenerateAPKG failed: %v", err)
	}

	extracted := unpack(t, outputPath)

	mediaData, err := os.ReadFile(filepath.Join(extracted, "media"))
	if err != nil {
		t.Fatalf("Expected media mapping: %v", err)
	}
	var media map[string]string
	if err := json.Unmarshal(mediaData, &media); err != nil {
		t.Fatalf("Invalid media mapping: %v", err)
	}
	if len(media) != 1 || media["0"] != "0000_cane.wav" {
		t.Errorf("Unexpected media mapping: %v", media)
	}
	if _, err := os.Stat(filepath.Join(extracted, "0")); err != nil {
		t.Errorf("Expected media file 0 in package: %v", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(extracted, "collection.anki2"))
	if err != nil {
		t.Fatalf("Failed to open collection: %v", err)
	}
	defer db.Close()

	var notes, cards int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&notes); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cards); err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if notes != 3 {
		t.Errorf("Expected 3 notes, got %d", notes)
	}
	if cards != 6 {
		t.Errorf("Expected forward and reverse card per note, got %d", cards)
	}

	var flds string
	if err := db.QueryRow("SELECT flds FROM notes WHERE sfld = ?", "kutya").Scan(&flds); err != nil {
		t.Fatalf("Failed to read note: %v", err)
	}
	fields := strings.Split(flds, "\x1f")
	if len(fields) != 3 || fields[1] != "cane" || fields[2] != "[sound:0000_cane.wav]" {
		t.Errorf("Unexpected note fields: %q", fields)
	}

	if err := db.QueryRow("SELECT flds FROM notes WHERE sfld = ?", "ló").Scan(&flds); err != nil {
		t.Fatalf("Failed to read note: %v", err)
	}
	if !strings.HasSuffix(flds, "\x1f") {
		t.Errorf("Expected empty audio field for missing file, got %q", flds)
	}

	var models string
	if err := db.QueryRow("SELECT models FROM col").Scan(&models); err != nil {
		t.Fatalf("Failed to read models: %v", err)
	}
	if !strings.Contains(models, `"name":"Hungarian"`) || !strings.Contains(models, `"name":"Reverse"`) {
		t.Errorf("Expected labelled fields and reverse template, got %s", models)
	}
}

func TestSetLabelsIgnoresDuplicates(t *testing.T) {
	gen := NewAPKGGenerator("x")
	gen.SetLabels("Word", "Word")

	if gen.frontLabel != "Word" || gen.backLabel != "Back" {
		t.Errorf("Expected distinct field names, got %q and %q", gen.frontLabel, gen.backLabel)
	}
}

func TestGenerateAPKGEntries(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "uno.wav")
	if err := os.WriteFile(shared, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	gen := NewAPKGGenerator("Numeri")
	gen.AddCard(Card{Front: "egy", Back: "uno", AudioFile: shared})
	gen.AddCard(Card{Front: "egyes", Back: "uno", AudioFile: shared})

	outputPath := filepath.Join(dir, "numeri.apkg")
	if err := gen.GenerateAPKG(outputPath); err != nil {
		t.Fatalf("GenerateAPKG failed: %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open package: %v", err)
	}
	defer reader.Close()

	var names []string
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	want := []string{"collection.anki2", "media", "0", "1"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Expected entries %v, got %v", want, names)
	}

	extracted := unpack(t, outputPath)
	mediaData, err := os.ReadFile(filepath.Join(extracted, "media"))
	if err != nil {
		t.Fatalf("Expected media mapping: %v", err)
	}
	var media map[string]string
	if err := json.Unmarshal(mediaData, &media); err != nil {
		t.Fatalf("Invalid media mapping: %v", err)
	}
	if media["0"] != "0000_uno.wav" || media["1"] != "0001_uno.wav" {
		t.Errorf("Expected one media entry per card, got %v", media)
	}
}

func TestGenerateAPKGUnwritableOutput(t *testing.T) {
	gen := NewAPKGGenerator("x")
	gen.AddCard(Card{Front: "a", Back: "b"})

	err := gen.GenerateAPKG(filepath.Join(t.TempDir(), "missing", "deck.apkg"))
	if err == nil {
		t.Error("Expected an error for a missing output directory")
	}
}

package gui

import (
	"context"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"go.uber.org/zap/zaptest"

	"codeberg.org/snonux/flipgrid/internal/deck"
	"codeberg.org/snonux/flipgrid/internal/loader"
	"codeberg.org/snonux/flipgrid/internal/session"
	"codeberg.org/snonux/flipgrid/internal/speech"
	"codeberg.org/snonux/flipgrid/internal/testutil"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

func newTestApplication(t *testing.T) (*Application, *testutil.MockProvider) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "parole.csv")
	testutil.CreateTestFile(t, path, []byte(testutil.ItalianHungarianCSV(30)))

	catalog, err := vocab.NewCatalog([]vocab.Entry{{Key: "parole", Name: "Parole", URL: path}})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	provider := &testutil.MockProvider{}
	speaker := speech.New(provider, &testutil.MockPlayer{}, ".wav", nil)
	t.Cleanup(func() { speaker.Close() })

	a := New(&Config{
		App: test.NewTempApp(t),
		Session: session.Options{
			Loader:  loader.New(nil),
			Speaker: speaker,
			Catalog: catalog,
		},
		Logger: zaptest.NewLogger(t),
	})
	t.Cleanup(a.cancel)
	return a, provider
}

func TestSpeakShortcut(t *testing.T) {
	a, provider := newTestApplication(t)

	if err := a.ctrl.LoadKey(context.Background(), "parole"); err != nil {
		t.Fatalf("LoadKey failed: %v", err)
	}
	if _, err := a.ctrl.ClickAt(0); err != nil {
		t.Fatalf("ClickAt failed: %v", err)
	}
	want, ok := a.ctrl.Selected()
	if !ok {
		t.Fatal("Expected a selected card")
	}

	test.TypeOnCanvas(a.window.Canvas(), "s")
	a.ctrl.Wait()

	texts := provider.Texts()
	if len(texts) != 1 || texts[0] != deck.VisibleText(want) {
		t.Errorf("Expected %q to be spoken, got %v", deck.VisibleText(want), texts)
	}
}

func TestSpeakShortcutWithoutSelection(t *testing.T) {
	a, provider := newTestApplication(t)

	test.TypeOnCanvas(a.window.Canvas(), "s")
	a.ctrl.Wait()

	if texts := provider.Texts(); len(texts) != 0 {
		t.Errorf("Expected nothing spoken without a selected card, got %v", texts)
	}
}

func TestReshuffleShortcutKeepsDeck(t *testing.T) {
	a, _ := newTestApplication(t)

	if err := a.ctrl.LoadKey(context.Background(), "parole"); err != nil {
		t.Fatalf("LoadKey failed: %v", err)
	}
	a.ctrl.ClickAt(3)

	test.TypeOnCanvas(a.window.Canvas(), "r")

	if a.ctrl.Deck().Len() != 30 {
		t.Errorf("Expected the deck to stay loaded, got %d pairs", a.ctrl.Deck().Len())
	}
	if a.ctrl.SelectedIndex() != -1 {
		t.Errorf("Expected reshuffle to clear the selection, got %d", a.ctrl.SelectedIndex())
	}
	if a.cardGrid.Len() != deck.MaxCards {
		t.Errorf("Expected %d cards on the grid, got %d", deck.MaxCards, a.cardGrid.Len())
	}
}

package web

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"codeberg.org/snonux/flipgrid/internal/deck"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

// VocabularyResponse is one catalog entry
type VocabularyResponse struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// CardResponse is one displayed card, face down
type CardResponse struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GridResponse is a freshly shuffled grid of a vocabulary
type GridResponse struct {
	Key          string           `json:"key"`
	Name         string           `json:"name"`
	TargetColumn int              `json:"target_column"`
	Words        int              `json:"words"`
	Rows         [][]CardResponse `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListVocabularies returns the catalog in display order
func (s *Server) handleListVocabularies(w http.ResponseWriter, r *http.Request) {
	entries := s.catalog.Entries()
	out := make([]VocabularyResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, VocabularyResponse{
			Key:         e.Key,
			Name:        e.Name,
			URL:         e.URL,
			Placeholder: e.IsPlaceholder(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGrid loads a vocabulary and renders a new grid from it.
// The optional seed query parameter makes the shuffle reproducible.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	entry, ok := s.catalog.Lookup(key)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unknown vocabulary: %s", key), http.StatusNotFound)
		return
	}
	if entry.IsPlaceholder() {
		s.respondError(w, r, fmt.Errorf("%s", deck.Placeholder), http.StatusNotFound)
		return
	}

	rng, err := s.randFor(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, err := s.loader.Load(r.Context(), entry.URL)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	d := res.Deck()
	board := deck.NewBoard(rng)
	s.randMu.Lock()
	board.Render(d)
	s.randMu.Unlock()

	writeJSON(w, http.StatusOK, gridResponse(entry, d, board))
}

// randFor returns a seeded source for ?seed=N, else the shared one
func (s *Server) randFor(r *http.Request) (*rand.Rand, error) {
	raw := r.URL.Query().Get("seed")
	if raw == "" {
		return s.rng, nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q", raw)
	}
	return rand.New(rand.NewSource(seed)), nil
}

func gridResponse(entry vocab.Entry, d deck.Deck, board *deck.Board) GridResponse {
	resp := GridResponse{
		Key:          entry.Key,
		Name:         entry.Name,
		TargetColumn: d.TargetColumn,
		Words:        d.Len(),
	}
	for _, row := range board.Rows() {
		cards := make([]CardResponse, len(row))
		for i, c := range row {
			cards[i] = CardResponse{ID: c.ID, Front: c.Front, Back: c.Back}
		}
		resp.Rows = append(resp.Rows, cards)
	}
	return resp
}

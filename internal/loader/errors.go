package loader

import (
	"errors"
	"fmt"

	"codeberg.org/snonux/flipgrid/internal/deck"
)

// ErrNoSource is returned when Load is called with an empty source
var ErrNoSource = errors.New("no vocabulary source selected")

// TransportError reports a failed fetch: a network error, a non-2xx
// response, an unreadable file or an oversized body.
type TransportError struct {
	Source     string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Status != "" {
		return "Network response was not ok: " + e.Status
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "network request failed"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FormatError reports a vocabulary with too few usable pairs
type FormatError struct {
	Loaded int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("Vocabulary must contain at least %d word pairs. Loaded %d.",
		deck.MinWordsForGrid, e.Loaded)
}

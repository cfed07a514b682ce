// Package speech reads words aloud through an audio provider and player.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal"
	"codeberg.org/snonux/flipgrid/internal/audio"
	"codeberg.org/snonux/flipgrid/internal/logging"
)

// ErrUnsupported is returned when no provider or no player can be used
var ErrUnsupported = errors.New("text-to-speech is not supported on this system")

// Speaker synthesizes text into a scratch directory and starts playback.
// Playback is fire-and-forget: overlapping requests each start their own
// player process.
type Speaker struct {
	provider audio.Provider
	player   audio.Player
	ext      string
	logger   *zap.Logger

	mu  sync.Mutex
	dir string
	seq int
}

// New creates a speaker. ext is the audio file extension, e.g. ".wav".
// Either provider or player may be nil, which makes the speaker unsupported.
func New(provider audio.Provider, player audio.Player, ext string, logger *zap.Logger) *Speaker {
	if ext == "" {
		ext = ".wav"
	}
	return &Speaker{
		provider: provider,
		player:   player,
		ext:      ext,
		logger:   logging.OrNop(logger).Named("speech"),
	}
}

// Supported reports ErrUnsupported, wrapping the cause, when speech cannot work
func (s *Speaker) Supported() error {
	if s == nil || s.provider == nil || s.player == nil {
		return ErrUnsupported
	}
	if err := s.provider.IsAvailable(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsupported, s.provider.Name(), err)
	}
	if err := s.player.Available(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return nil
}

// Speak synthesizes text and starts playing it
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if err := s.Supported(); err != nil {
		return err
	}

	file, err := s.nextFile(text)
	if err != nil {
		return err
	}

	s.logger.Debug("Speaking", zap.String("text", text), zap.String("provider", s.provider.Name()))
	if err := s.provider.GenerateAudio(ctx, text, file); err != nil {
		return fmt.Errorf("speech synthesis failed: %w", err)
	}

	if err := s.player.Play(file); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// Close waits for running playbacks, which still read their files, and
// then removes the scratch directory
func (s *Speaker) Close() error {
	if s.player != nil {
		s.player.Wait()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}

func (s *Speaker) nextFile(text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dir == "" {
		dir, err := os.MkdirTemp("", "flipgrid-speech-")
		if err != nil {
			return "", fmt.Errorf("failed to create scratch directory: %w", err)
		}
		s.dir = dir
	}

	s.seq++
	name := fmt.Sprintf("%04d_%s%s", s.seq, internal.SanitizeFilename(text), s.ext)
	return filepath.Join(s.dir, name), nil
}

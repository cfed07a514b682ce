package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ESpeakProvider implements Provider interface for espeak-ng
type ESpeakProvider struct {
	espeak *ESpeak
}

// NewESpeakProvider creates a new espeak-ng provider. Without an explicit
// voice the best installed voice for the configured language is picked.
func NewESpeakProvider(config *ESpeakConfig) (*ESpeakProvider, error) {
	espeak, err := New(config)
	if err != nil {
		return nil, err
	}

	if espeak.config.Voice == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if voices, err := ListESpeakVoices(ctx, espeak.config.Language); err == nil {
			if v, ok := SelectVoice(voices, espeak.config.Language); ok {
				espeak.SetVoice(v.Arg(espeak.config.Language))
			}
		}
	}

	return &ESpeakProvider{espeak: espeak}, nil
}

// GenerateAudio generates audio using espeak-ng
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpeechText(text); err != nil {
		return err
	}
	text = PrepareSpeechText(text)

	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".wav":
		return p.espeak.GenerateAudio(ctx, text, outputFile)
	case ".mp3":
		return p.espeak.GenerateMP3(ctx, text, outputFile)
	default:
		return fmt.Errorf("unsupported output format: %s", filepath.Ext(outputFile))
	}
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// Voice returns the voice argument passed to espeak-ng
func (p *ESpeakProvider) Voice() string {
	return p.espeak.voice()
}

// CacheKey identifies the settings that change the produced audio
func (p *ESpeakProvider) CacheKey() string {
	c := p.espeak.config
	return fmt.Sprintf("%s|%d|%d|%d|%d", p.espeak.voice(), c.Speed, c.Pitch, c.Amplitude, c.WordGap)
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}

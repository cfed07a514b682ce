package audio

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/logging"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string  // Provider name: "openai", "gemini" or "espeak"
	Fallback     string  // Optional provider used when the primary one fails
	Language     string  // BCP 47 language tag spoken by every provider, e.g. "it-IT"
	Rate         float64 // Speaking rate, 1.0 is normal speed
	Voice        string  // Provider specific voice name, empty selects one automatically
	OutputFormat string  // Output format: "wav" or "mp3"

	CacheDir    string
	EnableCache bool

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIInstruction string // Voice instructions for gpt-4o-mini-tts model
	OpenAIBaseURL     string

	// Gemini-specific settings
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	Logger *zap.Logger
}

// DefaultProviderConfig returns the default configuration: Italian at 0.9x
// through the local espeak-ng engine.
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "espeak",
		Language:          "it-IT",
		Rate:              0.9,
		OutputFormat:      "wav",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIInstruction: "You are speaking Italian (italiano). Pronounce the text with authentic Italian phonetics. Speak slowly and clearly for language learners.",
		GeminiModel:       "gemini-2.5-flash-preview-tts",
	}
}

// Extension returns the output file extension including the dot
func (c *Config) Extension() string {
	if strings.EqualFold(c.OutputFormat, "mp3") {
		return ".mp3"
	}
	return ".wav"
}

// NewProvider creates the configured provider, wrapped with a fallback and
// a disk cache when those are configured.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}
	logger := logging.OrNop(config.Logger).Named("audio")

	provider, err := newBaseProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}

	if config.Fallback != "" && config.Fallback != config.Provider {
		fallback, err := newBaseProvider(config.Fallback, config)
		if err != nil {
			logger.Warn("Fallback provider unavailable",
				zap.String("fallback", config.Fallback), zap.Error(err))
		} else {
			provider = NewProviderWithFallback(provider, fallback, logger)
		}
	}

	if config.EnableCache && config.CacheDir != "" {
		provider, err = NewCachingProvider(provider, config.CacheDir, logger)
		if err != nil {
			return nil, err
		}
	}

	return provider, nil
}

func newBaseProvider(name string, config *Config) (Provider, error) {
	switch name {
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "gemini":
		p, err := NewGeminiProvider(context.Background(), config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "espeak", "espeak-ng":
		p, err := NewESpeakProvider(ESpeakConfigFor(config))
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, logger *zap.Logger) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logging.OrNop(logger),
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		p.logger.Warn("Primary provider failed, falling back",
			zap.String("primary", p.primary.Name()),
			zap.String("fallback", p.fallback.Name()),
			zap.Error(err))

		return p.fallback.GenerateAudio(ctx, text, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// CacheKey combines the settings of both providers
func (p *ProviderWithFallback) CacheKey() string {
	return cacheKeyOf(p.primary) + "|" + cacheKeyOf(p.fallback)
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

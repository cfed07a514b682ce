package audio

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name          string
	key           string
	generateErr   error
	availableErr  error
	generateCalls int
}

func (m *mockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.generateCalls++
	if m.generateErr != nil {
		return m.generateErr
	}
	return writeAudio(outputFile, strings.NewReader("audio:"+text), m.name)
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) CacheKey() string {
	return m.key
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "espeak" {
		t.Errorf("Expected provider 'espeak', got '%s'", config.Provider)
	}
	if config.Language != "it-IT" {
		t.Errorf("Expected language 'it-IT', got '%s'", config.Language)
	}
	if config.Rate != 0.9 {
		t.Errorf("Expected rate 0.9, got %f", config.Rate)
	}
	if config.Extension() != ".wav" {
		t.Errorf("Expected extension '.wav', got '%s'", config.Extension())
	}

	config.OutputFormat = "MP3"
	if config.Extension() != ".mp3" {
		t.Errorf("Expected extension '.mp3', got '%s'", config.Extension())
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{
			name:    "openai provider without key",
			config:  &Config{Provider: "openai"},
			wantErr: "OpenAI API key is required",
		},
		{
			name:    "gemini provider without key",
			config:  &Config{Provider: "gemini"},
			wantErr: "Gemini API key is required",
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "unknown"},
			wantErr: "unknown audio provider: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if err == nil {
				t.Fatalf("NewProvider() expected error, got provider %v", provider)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("NewProvider() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewProviderOpenAIWithCache(t *testing.T) {
	cacheDir := t.TempDir()
	provider, err := NewProvider(&Config{
		Provider:    "openai",
		OpenAIKey:   "test-key",
		OpenAIModel: "tts-1",
		CacheDir:    cacheDir,
		EnableCache: true,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if _, ok := provider.(*CachingProvider); !ok {
		t.Errorf("Expected *CachingProvider, got %T", provider)
	}
	if provider.Name() != "openai" {
		t.Errorf("Expected name 'openai', got '%s'", provider.Name())
	}
}

func TestNewProviderWithUnavailableFallback(t *testing.T) {
	provider, err := NewProvider(&Config{
		Provider:  "openai",
		Fallback:  "gemini",
		OpenAIKey: "test-key",
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if _, ok := provider.(*OpenAIProvider); !ok {
		t.Errorf("Expected plain *OpenAIProvider when fallback cannot be built, got %T", provider)
	}
}

func TestProviderWithFallback(t *testing.T) {
	tests := []struct {
		name          string
		primaryErr    error
		fallbackErr   error
		wantErr       bool
		wantFallbacks int
	}{
		{name: "primary succeeds"},
		{name: "primary fails, fallback succeeds", primaryErr: errors.New("primary failed"), wantFallbacks: 1},
		{name: "both fail", primaryErr: errors.New("primary failed"), fallbackErr: errors.New("fallback failed"), wantErr: true, wantFallbacks: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &mockProvider{name: "primary", generateErr: tt.primaryErr}
			fallback := &mockProvider{name: "fallback", generateErr: tt.fallbackErr}
			provider := NewProviderWithFallback(primary, fallback, nil)

			err := provider.GenerateAudio(context.Background(), "ciao", t.TempDir()+"/out.wav")
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateAudio() error = %v, wantErr %v", err, tt.wantErr)
			}
			if primary.generateCalls != 1 {
				t.Errorf("Expected 1 primary call, got %d", primary.generateCalls)
			}
			if fallback.generateCalls != tt.wantFallbacks {
				t.Errorf("Expected %d fallback calls, got %d", tt.wantFallbacks, fallback.generateCalls)
			}
		})
	}
}

func TestProviderWithFallbackNameAndAvailability(t *testing.T) {
	primary := &mockProvider{name: "openai", key: "a", availableErr: errors.New("no key")}
	fallback := &mockProvider{name: "espeak-ng", key: "b"}
	provider := NewProviderWithFallback(primary, fallback, nil)

	if got := provider.Name(); got != "openai (fallback: espeak-ng)" {
		t.Errorf("Name() = %s", got)
	}
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() = %v, want nil", err)
	}
	if got := cacheKeyOf(provider); got != "a|b" {
		t.Errorf("CacheKey() = %s, want a|b", got)
	}

	fallback.availableErr = errors.New("not installed")
	if err := provider.IsAvailable(); err == nil {
		t.Error("IsAvailable() expected error when both providers are unavailable")
	}
}

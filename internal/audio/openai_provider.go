package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/logging"
)

const defaultOpenAIVoice = "alloy"

// OpenAIProvider implements Provider interface for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
	voice  string
	logger *zap.Logger
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	voice := config.Voice
	if voice == "" {
		voice = defaultOpenAIVoice
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		voice:  voice,
		logger: logging.OrNop(config.Logger).Named("openai"),
	}, nil
}

// GenerateAudio generates audio using OpenAI TTS
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpeechText(text); err != nil {
		return err
	}

	input := PrepareSpeechText(text)
	speed := p.speed()

	req := openai.CreateSpeechRequest{
		Model: openai.SpeechModel(p.config.OpenAIModel),
		Input: input,
		Voice: openai.SpeechVoice(p.voice),
		Speed: speed,
	}

	if p.supportsInstructions() && p.config.OpenAIInstruction != "" {
		req.Instructions = p.config.OpenAIInstruction
	}

	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".wav":
		req.ResponseFormat = openai.SpeechResponseFormatWav
	case ".opus":
		req.ResponseFormat = openai.SpeechResponseFormatOpus
	case ".aac":
		req.ResponseFormat = openai.SpeechResponseFormatAac
	case ".flac":
		req.ResponseFormat = openai.SpeechResponseFormatFlac
	default:
		req.ResponseFormat = openai.SpeechResponseFormatMp3
	}

	p.logger.Debug("Requesting speech",
		zap.String("model", p.config.OpenAIModel),
		zap.String("voice", p.voice),
		zap.Float64("speed", speed),
		zap.String("input", input))

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "does not have access to model") && p.supportsInstructions() {
			return fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try tts-1-hd instead", err, p.config.OpenAIModel)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	return writeAudio(outputFile, response, "OpenAI")
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// CacheKey identifies the settings that change the produced audio
func (p *OpenAIProvider) CacheKey() string {
	key := fmt.Sprintf("%s|%s|%.2f", p.config.OpenAIModel, p.voice, p.speed())
	if p.supportsInstructions() {
		key += "|" + p.config.OpenAIInstruction
	}
	return key
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	// A test request would use credits, so a key is all we check
	return nil
}

func (p *OpenAIProvider) supportsInstructions() bool {
	return p.config.OpenAIModel == "gpt-4o-mini-tts" || p.config.OpenAIModel == "gpt-4o-mini-audio-preview"
}

// speed clamps the configured rate to the API range 0.25-4.0
func (p *OpenAIProvider) speed() float64 {
	switch {
	case p.config.Rate <= 0:
		return 1.0
	case p.config.Rate < 0.25:
		return 0.25
	case p.config.Rate > 4.0:
		return 4.0
	default:
		return p.config.Rate
	}
}

// writeAudio copies an audio stream to outputFile, creating its directory
func writeAudio(outputFile string, r io.Reader, source string) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, r)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	if written == 0 {
		return fmt.Errorf("no audio data received from %s", source)
	}
	return nil
}

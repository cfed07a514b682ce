package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"codeberg.org/snonux/flipgrid/internal/logging"
)

const (
	defaultGeminiVoice = "Kore"
	geminiSampleRate   = 24000
)

// GeminiProvider implements Provider using the Gemini speech generation models.
// The API returns raw 16-bit mono PCM which is wrapped into a WAV container.
type GeminiProvider struct {
	client *genai.Client
	config *Config
	voice  string
	logger *zap.Logger
}

// NewGeminiProvider creates a Gemini TTS provider
func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.GeminiBaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: config.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	voice := config.Voice
	if voice == "" {
		voice = defaultGeminiVoice
	}

	return &GeminiProvider{
		client: client,
		config: config,
		voice:  voice,
		logger: logging.OrNop(config.Logger).Named("gemini"),
	}, nil
}

// GenerateAudio synthesizes text and writes it as WAV (or MP3 via ffmpeg)
func (p *GeminiProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateSpeechText(text); err != nil {
		return err
	}

	prompt := p.prompt(PrepareSpeechText(text))
	p.logger.Debug("Requesting speech",
		zap.String("model", p.config.GeminiModel),
		zap.String("voice", p.voice),
		zap.String("language", p.config.Language))

	resp, err := p.client.Models.GenerateContent(ctx, p.config.GeminiModel,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				LanguageCode: p.config.Language,
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: p.voice},
				},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("gemini generate: %w", err)
	}

	pcm, rate, err := extractPCM(resp)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeWAV(&buf, pcm, rate); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(outputFile), ".mp3") {
		tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
		if err := writeAudio(tempWAV, &buf, "Gemini"); err != nil {
			return err
		}
		defer os.Remove(tempWAV)
		return ConvertWAVToMP3(tempWAV, outputFile)
	}

	return writeAudio(outputFile, &buf, "Gemini")
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// CacheKey identifies the settings that change the produced audio
func (p *GeminiProvider) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%.2f", p.config.GeminiModel, p.voice, p.config.Language, p.config.Rate)
}

// IsAvailable checks that an API key is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}

// prompt steers the pace through the text since the API has no rate setting
func (p *GeminiProvider) prompt(text string) string {
	switch {
	case p.config.Rate > 0 && p.config.Rate < 1:
		return "Say slowly and clearly: " + text
	case p.config.Rate > 1:
		return "Say quickly: " + text
	default:
		return text
	}
}

// extractPCM returns the first inline audio blob and its sample rate
func extractPCM(resp *genai.GenerateContentResponse) ([]byte, int, error) {
	if resp == nil {
		return nil, 0, fmt.Errorf("empty gemini response")
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return part.InlineData.Data, sampleRateOf(part.InlineData.MIMEType), nil
		}
	}
	return nil, 0, fmt.Errorf("no audio data received from Gemini")
}

// sampleRateOf parses "audio/L16;codec=pcm;rate=24000"
func sampleRateOf(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && strings.EqualFold(k, "rate") {
			if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return geminiSampleRate
}

// writeWAV writes a canonical 44-byte RIFF header followed by 16-bit mono PCM
func writeWAV(w io.Writer, pcm []byte, sampleRate int) error {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	header := []any{
		[]byte("RIFF"),
		uint32(36 + len(pcm)),
		[]byte("WAVE"),
		[]byte("fmt "),
		uint32(16),
		uint16(1), // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitsPerSample),
		[]byte("data"),
		uint32(len(pcm)),
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("failed to write WAV header: %w", err)
		}
	}

	_, err := w.Write(pcm)
	return err
}

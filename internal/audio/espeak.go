package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// espeakBaseSpeed is espeak-ng's default rate in words per minute
const espeakBaseSpeed = 175

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Language  string // Language tag used for voice discovery, e.g. "it-IT"
	Voice     string // Voice argument (e.g., "it", "it+f2", "mb-it3"); empty auto-detects
	Speed     int    // Speech speed in words per minute (default: 175)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultConfig returns the default configuration for the Italian voice at 0.9x
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Language:  "it-IT",
		Speed:     SpeedForRate(0.9),
		Pitch:     50,
		Amplitude: 100,
	}
}

// ESpeakConfigFor derives the espeak-ng settings from the shared config
func ESpeakConfigFor(config *Config) *ESpeakConfig {
	c := DefaultConfig()
	if config.Language != "" {
		c.Language = config.Language
	}
	if config.Rate > 0 {
		c.Speed = SpeedForRate(config.Rate)
	}
	c.Voice = config.Voice
	return c
}

// SpeedForRate converts a relative rate (1.0 = normal) into words per minute
func SpeedForRate(rate float64) int {
	return clampSpeed(int(math.Round(espeakBaseSpeed * rate)))
}

func clampSpeed(speed int) int {
	if speed < 80 {
		return 80
	} else if speed > 450 {
		return 450
	}
	return speed
}

// ESpeak provides an interface to the espeak-ng text-to-speech engine
type ESpeak struct {
	config *ESpeakConfig
}

// New creates a new ESpeak instance with the given configuration
func New(config *ESpeakConfig) (*ESpeak, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	if config == nil {
		config = DefaultConfig()
	}

	return &ESpeak{config: config}, nil
}

// GenerateAudio generates a WAV file for the given text
func (e *ESpeak) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", e.args(text, outputFile)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// GenerateMP3 generates an MP3 file via a temporary WAV and ffmpeg
func (e *ESpeak) GenerateMP3(ctx context.Context, text string, outputFile string) error {
	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"

	if err := e.GenerateAudio(ctx, text, tempWAV); err != nil {
		return err
	}

	if err := ConvertWAVToMP3(tempWAV, outputFile); err != nil {
		os.Remove(tempWAV)
		return err
	}

	return os.Remove(tempWAV)
}

func (e *ESpeak) args(text, outputFile string) []string {
	args := []string{
		"-v", e.voice(),
		"-s", fmt.Sprintf("%d", e.config.Speed),
		"-p", fmt.Sprintf("%d", e.config.Pitch),
		"-a", fmt.Sprintf("%d", e.config.Amplitude),
	}

	if e.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", e.config.WordGap))
	}

	return append(args, "-w", outputFile, text)
}

func (e *ESpeak) voice() string {
	if e.config.Voice != "" {
		return e.config.Voice
	}
	return BaseLanguage(e.config.Language)
}

// SetVoice updates the voice argument
func (e *ESpeak) SetVoice(voice string) {
	e.config.Voice = voice
}

// SetSpeed updates the speech speed
func (e *ESpeak) SetSpeed(speed int) {
	e.config.Speed = clampSpeed(speed)
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	cmd := exec.Command("espeak-ng", "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ListESpeakVoices returns the installed voices usable for language:
// regular voices for it, mbrola voices and voice variants.
func ListESpeakVoices(ctx context.Context, language string) ([]Voice, error) {
	var voices []Voice
	for _, filter := range []string{BaseLanguage(language), "mb", "variant"} {
		out, err := exec.CommandContext(ctx, "espeak-ng", "--voices="+filter).Output()
		if err != nil {
			return nil, fmt.Errorf("espeak-ng voice listing failed: %w", err)
		}
		voices = append(voices, ParseESpeakVoices(string(out))...)
	}
	return voices, nil
}

// ConvertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func ConvertWAVToMP3(wavFile, mp3File string) error {
	if err := exec.Command("ffmpeg", "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.Command("ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

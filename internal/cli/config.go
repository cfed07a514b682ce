package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/audio"
	"codeberg.org/snonux/flipgrid/internal/loader"
	"codeberg.org/snonux/flipgrid/internal/logging"
	"codeberg.org/snonux/flipgrid/internal/vocab"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	flags := NewFlags()
	audioDefaults := audio.DefaultProviderConfig()
	loaderDefaults := loader.DefaultOptions()

	v.SetDefault("vocab.parser", flags.Parser)
	v.SetDefault("vocab.marker", flags.Marker)
	v.SetDefault("loader.timeout", loaderDefaults.Timeout)
	v.SetDefault("loader.max_bytes", loaderDefaults.MaxBytes)
	v.SetDefault("speech.provider", audioDefaults.Provider)
	v.SetDefault("speech.language", audioDefaults.Language)
	v.SetDefault("speech.rate", audioDefaults.Rate)
	v.SetDefault("speech.format", audioDefaults.OutputFormat)
	v.SetDefault("speech.cache", true)
	v.SetDefault("speech.cache_dir", defaultCacheDir())
	v.SetDefault("audio.openai_model", audioDefaults.OpenAIModel)
	v.SetDefault("audio.openai_instruction", audioDefaults.OpenAIInstruction)
	v.SetDefault("audio.gemini_model", audioDefaults.GeminiModel)
	v.SetDefault("serve.addr", flags.Addr)
	v.SetDefault("log.level", flags.LogLevel)
	v.SetDefault("log.format", flags.LogFormat)
}

// defaultCacheDir follows the XDG cache directory
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "flipgrid", "audio")
	}
	return filepath.Join(dir, "flipgrid", "audio")
}

// Logger builds the application logger from log.level and log.format
func Logger(v *viper.Viper) (*zap.Logger, error) {
	return logging.New(v.GetString("log.level"), v.GetString("log.format"))
}

// LoaderOptions builds the vocabulary loader options
func LoaderOptions(v *viper.Viper, logger *zap.Logger) (*loader.Options, error) {
	parser, err := vocab.NewParser(v.GetString("vocab.parser"), v.GetString("vocab.marker"))
	if err != nil {
		return nil, err
	}

	opts := loader.DefaultOptions()
	opts.Parser = parser
	opts.Logger = logger
	if v.IsSet("loader.timeout") {
		opts.Timeout = v.GetDuration("loader.timeout")
	}
	if v.IsSet("loader.max_bytes") {
		opts.MaxBytes = v.GetInt64("loader.max_bytes")
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("invalid loader.timeout: %s", opts.Timeout)
	}
	return opts, nil
}

// AudioConfig builds the speech provider configuration
func AudioConfig(v *viper.Viper, logger *zap.Logger) *audio.Config {
	cfg := audio.DefaultProviderConfig()
	cfg.Logger = logger

	setString := func(dst *string, key string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	setString(&cfg.Provider, "speech.provider")
	setString(&cfg.Fallback, "speech.fallback")
	setString(&cfg.Language, "speech.language")
	setString(&cfg.Voice, "speech.voice")
	setString(&cfg.OutputFormat, "speech.format")
	setString(&cfg.CacheDir, "speech.cache_dir")
	setString(&cfg.OpenAIModel, "audio.openai_model")
	setString(&cfg.OpenAIInstruction, "audio.openai_instruction")
	setString(&cfg.OpenAIBaseURL, "audio.openai_base_url")
	setString(&cfg.GeminiModel, "audio.gemini_model")
	setString(&cfg.GeminiBaseURL, "audio.gemini_base_url")

	if rate := v.GetFloat64("speech.rate"); rate > 0 {
		cfg.Rate = rate
	}
	cfg.EnableCache = v.GetBool("speech.cache") && cfg.CacheDir != ""
	cfg.OpenAIKey = openAIKey(v)
	cfg.GeminiKey = geminiKey(v)

	return cfg
}

// Catalog returns the configured vocabularies, or the built-in ones when
// the vocabularies key is not set
func Catalog(v *viper.Viper) (*vocab.Catalog, error) {
	if !v.IsSet("vocabularies") {
		return vocab.DefaultCatalog(), nil
	}

	var entries []vocab.Entry
	if err := v.UnmarshalKey("vocabularies", &entries); err != nil {
		return nil, fmt.Errorf("invalid vocabularies: %w", err)
	}
	return vocab.NewCatalog(entries)
}

func openAIKey(v *viper.Viper) string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return v.GetString("audio.openai_key")
}

func geminiKey(v *viper.Viper) string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return v.GetString("audio.gemini_key")
}

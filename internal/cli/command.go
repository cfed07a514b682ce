package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/flipgrid/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flipgrid [vocabulary]",
		Short: "Vocabulary flip-card trainer with speech",
		Long: `flipgrid shows a shuffled 5x5 grid of flip-cards from a two-column
vocabulary and reads the selected word aloud.

A vocabulary is a catalog key (see --list), an http(s) URL or a local
CSV file. The column whose header contains "italian" is the studied
language and is shown on the back of the cards.

Examples:
  flipgrid                                  # Launch the desktop GUI (default)
  flipgrid italian-common-nouns --tui       # Terminal UI
  flipgrid --print italian-numerals         # Print one shuffled grid
  flipgrid --say "buongiorno"               # Speak a word
  flipgrid italian-irr-verbs --export verbs.apkg
  flipgrid --serve --addr :8080             # JSON API
  flipgrid --archive-cache                  # Start over with a fresh audio cache`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.flipgrid.yaml)")

	// Modes
	cmd.Flags().BoolVarP(&flags.List, "list", "l", false, "List the vocabulary catalog")
	cmd.Flags().StringVarP(&flags.Print, "print", "p", "", "Print a shuffled grid of the given vocabulary")
	cmd.Flags().StringVar(&flags.Say, "say", "", "Speak the given text and exit")
	cmd.Flags().StringVar(&flags.Export, "export", "", "Export the vocabulary to an Anki file (.apkg or .csv)")
	cmd.Flags().BoolVar(&flags.ExportAudio, "export-audio", false, "Attach a pronunciation of every studied word to the export")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", "", "Deck name for APKG export (default: vocabulary name)")
	cmd.Flags().BoolVar(&flags.TUI, "tui", false, "Run the terminal UI instead of the GUI")
	cmd.Flags().BoolVar(&flags.Serve, "serve", false, "Serve the JSON API")
	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address for --serve")
	cmd.Flags().Int64Var(&flags.Seed, "seed", 0, "Shuffle seed for --print (0 = random)")
	cmd.Flags().BoolVar(&flags.ArchiveCache, "archive-cache", false, "Move the audio cache to a timestamped archive directory")

	// Vocabulary
	cmd.Flags().StringVar(&flags.Parser, "parser", flags.Parser, "CSV parser: simple or quoted")
	cmd.Flags().StringVar(&flags.Marker, "marker", flags.Marker, "Header text identifying the studied language column")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Vocabulary download timeout")

	// Speech
	cmd.Flags().StringVar(&flags.Provider, "audio-provider", flags.Provider, "Speech provider: espeak, openai or gemini")
	cmd.Flags().StringVar(&flags.Fallback, "audio-fallback", "", "Speech provider used when the first one fails")
	cmd.Flags().StringVar(&flags.Language, "language", flags.Language, "Spoken language tag")
	cmd.Flags().Float64Var(&flags.Rate, "rate", flags.Rate, "Speaking rate (1.0 = normal)")
	cmd.Flags().StringVar(&flags.Voice, "voice", "", "Voice name (default: best voice for the language)")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", flags.Format, "Audio format (wav or mp3)")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Disable the audio cache")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini TTS model")

	// Logging
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	bindFlagsTo(viper.GetViper(), cmd)
}

// flagKeys maps flags to their configuration keys
var flagKeys = map[string]string{
	"parser":             "vocab.parser",
	"marker":             "vocab.marker",
	"timeout":            "loader.timeout",
	"audio-provider":     "speech.provider",
	"audio-fallback":     "speech.fallback",
	"language":           "speech.language",
	"rate":               "speech.rate",
	"voice":              "speech.voice",
	"format":             "speech.format",
	"openai-model":       "audio.openai_model",
	"openai-instruction": "audio.openai_instruction",
	"gemini-model":       "audio.gemini_model",
	"addr":               "serve.addr",
	"log-level":          "log.level",
	"log-format":         "log.format",
}

func bindFlagsTo(v *viper.Viper, cmd *cobra.Command) {
	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".flipgrid" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".flipgrid")
	}

	setDefaults(viper.GetViper())

	// Environment variables, e.g. FLIPGRID_SPEECH_PROVIDER
	viper.SetEnvPrefix("FLIPGRID")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	return openAIKey(viper.GetViper())
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	return geminiKey(viper.GetViper())
}

package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	List         bool
	Print        string
	Say          string
	Export       string
	ExportAudio  bool
	DeckName     string
	TUI          bool
	Serve        bool
	Seed         int64
	ArchiveCache bool

	// Vocabulary flags
	Parser  string
	Marker  string
	Timeout time.Duration

	// Speech flags
	Provider string
	Fallback string
	Language string
	Rate     float64
	Voice    string
	Format   string
	NoCache  bool

	// OpenAI and Gemini flags
	OpenAIModel       string
	OpenAIInstruction string
	GeminiModel       string

	// Server flags
	Addr string

	// Logging flags
	LogLevel  string
	LogFormat string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Parser:      "simple",
		Marker:      "italian",
		Timeout:     15 * time.Second,
		Provider:    "espeak",
		Language:    "it-IT",
		Rate:        0.9,
		Format:      "wav",
		OpenAIModel: "gpt-4o-mini-tts",
		GeminiModel: "gemini-2.5-flash-preview-tts",
		Addr:        "127.0.0.1:8080",
		LogLevel:    "warn",
		LogFormat:   "console",
	}
}

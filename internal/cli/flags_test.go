package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Parser", flags.Parser, "simple"},
		{"Marker", flags.Marker, "italian"},
		{"Timeout", flags.Timeout, 15 * time.Second},
		{"Provider", flags.Provider, "espeak"},
		{"Language", flags.Language, "it-IT"},
		{"Rate", flags.Rate, 0.9},
		{"Format", flags.Format, "wav"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini-tts"},
		{"Addr", flags.Addr, "127.0.0.1:8080"},
		{"LogLevel", flags.LogLevel, "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Modes are off by default
	boolTests := []struct {
		name  string
		value bool
	}{
		{"List", flags.List},
		{"TUI", flags.TUI},
		{"Serve", flags.Serve},
		{"NoCache", flags.NoCache},
		{"ArchiveCache", flags.ArchiveCache},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	if flags.Print != "" || flags.Say != "" || flags.Export != "" {
		t.Errorf("Expected empty mode arguments, got %q %q %q", flags.Print, flags.Say, flags.Export)
	}
}

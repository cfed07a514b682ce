package audio

import (
	"strings"
	"testing"
)

func TestValidateSpeechText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "italian word", text: "cane"},
		{name: "accented phrase", text: "perché no"},
		{name: "apostrophe", text: "l'acqua"},
		{name: "digits", text: "2024"},
		{name: "empty", text: "", wantErr: true},
		{name: "whitespace", text: "   ", wantErr: true},
		{name: "punctuation only", text: "?!", wantErr: true},
		{name: "too long", text: strings.Repeat("a", MaxSpeechLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpeechText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpeechText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
		})
	}
}

func TestPrepareSpeechText(t *testing.T) {
	tests := map[string]string{
		"  cane ":       "cane",
		"perché?":       "perché",
		"(la) casa.":    "la) casa",
		"l'acqua":       "l'acqua",
		"buon giorno!!": "buon giorno",
	}

	for in, want := range tests {
		if got := PrepareSpeechText(in); got != want {
			t.Errorf("PrepareSpeechText(%q) = %q, want %q", in, got, want)
		}
	}
}

package audio

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSpeechLength is the longest input accepted by the remote TTS APIs
const MaxSpeechLength = 4096

// ValidateSpeechText checks that text is something a TTS engine can speak
func ValidateSpeechText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if utf8.RuneCountInString(text) > MaxSpeechLength {
		return fmt.Errorf("text exceeds %d characters", MaxSpeechLength)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return nil
		}
	}
	return fmt.Errorf("text must contain at least one letter or digit")
}

// PrepareSpeechText strips punctuation around the text that engines would
// otherwise read aloud. Inner apostrophes ("l'acqua") are kept.
func PrepareSpeechText(text string) string {
	return strings.TrimFunc(strings.TrimSpace(text), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

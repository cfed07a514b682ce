package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// GenerateCardID creates a stable ID for a card from its grid position and faces
// Format: position_md5(front+back)[:8]
func GenerateCardID(position int, front, back string) string {
	hash := md5.Sum([]byte(front + "\x1f" + back))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%02d_%s", position, hashStr)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is a letter or digit in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

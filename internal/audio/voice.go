package audio

import (
	"path"
	"sort"
	"strconv"
	"strings"
)

// VoiceKind orders voices by expected quality
type VoiceKind int

const (
	VoiceBase VoiceKind = iota
	VoiceVariant
	VoiceMbrola
)

func (k VoiceKind) String() string {
	switch k {
	case VoiceMbrola:
		return "mbrola"
	case VoiceVariant:
		return "variant"
	default:
		return "base"
	}
}

// Voice is one entry of the espeak-ng voice listing
type Voice struct {
	Priority int
	Language string
	Name     string
	File     string
}

// Kind classifies the voice by its file location
func (v Voice) Kind() VoiceKind {
	switch {
	case strings.HasPrefix(v.File, "mb/"):
		return VoiceMbrola
	case strings.HasPrefix(v.File, "!v/") || v.Language == "variant":
		return VoiceVariant
	default:
		return VoiceBase
	}
}

// Arg returns the -v argument selecting this voice for language
func (v Voice) Arg(language string) string {
	switch v.Kind() {
	case VoiceMbrola:
		return path.Base(v.File)
	case VoiceVariant:
		return BaseLanguage(language) + "+" + path.Base(v.File)
	default:
		return v.Language
	}
}

// BaseLanguage reduces a tag like "it-IT" to the primary subtag "it"
func BaseLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		return tag[:i]
	}
	return tag
}

// ParseESpeakVoices parses the table printed by "espeak-ng --voices":
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  it              --/M      Italian            roa/it
func ParseESpeakVoices(output string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		pty, err := strconv.Atoi(fields[0])
		if err != nil {
			// Header line
			continue
		}
		voices = append(voices, Voice{
			Priority: pty,
			Language: strings.ToLower(fields[1]),
			Name:     fields[3],
			File:     fields[4],
		})
	}
	return voices
}

// SelectVoice picks the best voice for language: an mbrola voice for the
// language, else a variant of the base voice, else the base voice itself.
// Variants are only offered when a base voice for the language exists.
func SelectVoice(voices []Voice, language string) (Voice, bool) {
	want := strings.ToLower(strings.ReplaceAll(language, "_", "-"))
	base := BaseLanguage(language)

	matches := func(v Voice) bool {
		return v.Language == base || v.Language == want
	}

	hasBase := false
	var candidates []Voice
	for _, v := range voices {
		switch v.Kind() {
		case VoiceVariant:
			candidates = append(candidates, v)
		default:
			if matches(v) {
				candidates = append(candidates, v)
				if v.Kind() == VoiceBase {
					hasBase = true
				}
			}
		}
	}

	filtered := candidates[:0]
	for _, v := range candidates {
		if v.Kind() == VoiceVariant && !hasBase {
			continue
		}
		filtered = append(filtered, v)
	}
	if len(filtered) == 0 {
		return Voice{}, false
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.Kind() != b.Kind() {
			return a.Kind() > b.Kind()
		}
		// Exact region match beats the bare language
		if (a.Language == want) != (b.Language == want) {
			return a.Language == want
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Name < b.Name
	})
	return filtered[0], true
}

package vocab

import (
	"fmt"
	"strings"
)

// PlaceholderKey is the catalog key of the "nothing selected" entry
const PlaceholderKey = "default"

const sourceBase = "https://raw.githubusercontent.com/rgusarev/igen_irtem/refs/heads/main/"

// Entry is one selectable vocabulary source
type Entry struct {
	Key  string `json:"key" mapstructure:"key"`
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
}

// IsPlaceholder reports whether selecting the entry means "no vocabulary"
func (e Entry) IsPlaceholder() bool {
	return e.URL == ""
}

// Catalog is the ordered, immutable list of vocabulary sources
type Catalog struct {
	entries []Entry
	byKey   map[string]int
}

// DefaultCatalog returns the built-in vocabularies
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog([]Entry{
		{Key: PlaceholderKey, Name: "Select a vocabulary...", URL: ""},
		{Key: "hungarian-common-words", Name: "Hungarian common words", URL: sourceBase + "hungarian-common-words.csv"},
		{Key: "italian-common-nouns", Name: "Italian common nouns", URL: sourceBase + "italian_common_nouns.csv"},
		{Key: "italian-numerals", Name: "Italian numerals", URL: sourceBase + "italian_numerals.csv"},
		{Key: "italian-irr-verbs", Name: "Italian irregular verbs", URL: sourceBase + "italian_irregular_verbs_conj.csv"},
		{Key: "italian-introductory", Name: "Italian introductory words", URL: sourceBase + "italian_introductory_words.csv"},
	})
	return c
}

// NewCatalog validates entries and builds a catalog.
// A placeholder entry is prepended when none is present.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]int)}

	hasPlaceholder := false
	for _, e := range entries {
		if e.IsPlaceholder() {
			hasPlaceholder = true
			break
		}
	}
	if !hasPlaceholder {
		entries = append([]Entry{{Key: PlaceholderKey, Name: "Select a vocabulary..."}}, entries...)
	}

	for _, e := range entries {
		e.Key = strings.TrimSpace(e.Key)
		if e.Key == "" {
			return nil, fmt.Errorf("vocabulary entry %q has no key", e.Name)
		}
		if _, dup := c.byKey[e.Key]; dup {
			return nil, fmt.Errorf("duplicate vocabulary key: %s", e.Key)
		}
		if e.Name == "" {
			e.Name = e.Key
		}
		c.byKey[e.Key] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	return c, nil
}

// Entries returns a copy of the catalog in display order
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the entry registered under key
func (c *Catalog) Lookup(key string) (Entry, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// ByName returns the entry with the given display name
func (c *Catalog) ByName(name string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the display names in order, for selection widgets
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Resolve maps a catalog key to its source URL.
// Anything that is not a key is returned unchanged as a URL or file path.
func (c *Catalog) Resolve(keyOrSource string) string {
	if e, ok := c.Lookup(keyOrSource); ok {
		return e.URL
	}
	return keyOrSource
}

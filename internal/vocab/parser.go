package vocab

import (
	"fmt"
	"strings"
)

// Parser turns raw vocabulary text into word pairs
type Parser interface {
	// Parse never fails; rows that are not exactly two non-empty cells are dropped
	Parse(text string) ParseResult

	// Name returns the strategy name
	Name() string
}

// NewParser returns the parser strategy registered under name.
// An empty marker falls back to DefaultMarker.
func NewParser(name, marker string) (Parser, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	marker = strings.ToLower(marker)

	switch name {
	case "", "simple":
		return &SimpleParser{Marker: marker}, nil
	case "quoted":
		return &QuotedParser{Marker: marker}, nil
	default:
		return nil, fmt.Errorf("unknown parser: %s", name)
	}
}

// SimpleParser splits every line on plain commas with no quoting rules
type SimpleParser struct {
	Marker string
}

// Parse implements Parser
func (p *SimpleParser) Parse(text string) ParseResult {
	return parseLines(text, p.Marker, splitPlain)
}

// Name implements Parser
func (p *SimpleParser) Name() string {
	return "simple"
}

// QuotedParser accepts "double quoted" cells so a word may contain commas
type QuotedParser struct {
	Marker string
}

// Parse implements Parser
func (p *QuotedParser) Parse(text string) ParseResult {
	return parseLines(text, p.Marker, splitQuoted)
}

// Name implements Parser
func (p *QuotedParser) Name() string {
	return "quoted"
}

// Parse uses the default simple strategy and marker
func Parse(text string) ParseResult {
	return parseLines(text, DefaultMarker, splitPlain)
}

// parseLines holds the rules shared by every strategy: header detection,
// row acceptance and the headerless fallback
func parseLines(text, marker string, split func(string) []string) ParseResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return ParseResult{TargetColumn: TargetUndetermined}
	}
	if marker == "" {
		marker = DefaultMarker
	}

	lines := strings.Split(text, "\n")
	result := ParseResult{
		TargetColumn: detectTarget(split(lines[0]), marker),
	}

	for _, line := range lines[1:] {
		if pair, ok := toPair(split(line)); ok {
			result.Pairs = append(result.Pairs, pair)
		}
	}

	// A file without header row: the first line is data too
	if len(result.Pairs) == 0 {
		if _, ok := toPair(split(lines[0])); ok {
			for _, line := range lines {
				if pair, ok := toPair(split(line)); ok {
					result.Pairs = append(result.Pairs, pair)
				}
			}
		}
	}

	return result
}

// detectTarget returns the index of the only header cell containing marker
func detectTarget(cells []string, marker string) int {
	if len(cells) != 2 {
		return TargetUndetermined
	}

	first := strings.Contains(strings.ToLower(cells[0]), marker)
	second := strings.Contains(strings.ToLower(cells[1]), marker)

	switch {
	case first && !second:
		return 0
	case second && !first:
		return 1
	default:
		return TargetUndetermined
	}
}

func toPair(cells []string) (WordPair, bool) {
	if len(cells) != 2 || cells[0] == "" || cells[1] == "" {
		return WordPair{}, false
	}
	return WordPair{A: cells[0], B: cells[1]}, true
}

func splitPlain(line string) []string {
	cells := strings.Split(line, ",")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// splitQuoted splits like splitPlain, except that a cell opening with a
// double quote runs to the matching quote and may contain commas. "" inside
// quotes is a literal quote; text after the closing quote stays in the cell.
func splitQuoted(line string) []string {
	var cells []string
	var cell strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes && c == '"':
			if i+1 < len(line) && line[i+1] == '"' {
				cell.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
		case inQuotes:
			cell.WriteByte(c)
		case c == '"' && strings.TrimSpace(cell.String()) == "":
			cell.Reset()
			inQuotes = true
		case c == ',':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(c)
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

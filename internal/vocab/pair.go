package vocab

// TargetUndetermined marks a vocabulary whose header names no studied language
const TargetUndetermined = -1

// DefaultMarker is the header substring identifying the studied language column
const DefaultMarker = "italian"

// WordPair is one row of a vocabulary: two non-empty strings in file order
type WordPair struct {
	A string
	B string
}

// ParseResult holds the accepted rows and the detected target column (0, 1 or -1)
type ParseResult struct {
	Pairs        []WordPair
	TargetColumn int
}

// Len returns the number of accepted pairs
func (r ParseResult) Len() int {
	return len(r.Pairs)
}

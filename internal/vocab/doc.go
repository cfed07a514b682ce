// Package vocab parses two-column vocabulary lists and holds the catalog of
// known vocabulary sources. Parsing never fails: malformed rows are dropped
// and the column holding the studied language is detected from the header.
package vocab

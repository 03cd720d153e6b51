// Package query turns raw user input into its canonical retrieval form:
// lowercased and trimmed for cache keying, expanded with domain synonyms for
// embedding, tagged with an explicit chapter reference, and classified by
// intent. Everything here is pure string work with no I/O.
package query

// Package corpus reads document corpora from compressed delimited files.
// Each row holds a document identifier and its raw text.
package corpus

// Document is one row of the corpus: an identifier and the raw text.
type Document struct {
	ID   string
	Text string
}

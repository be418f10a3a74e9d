package tokenize

import (
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"
)

// PunctStripFilterName is the registered name for this filter in Bleve.
const PunctStripFilterName = "punct_strip"

// PunctStripFilter removes punctuation and symbol runes from each token.
// Tokens left empty are dropped from the stream. The unicode tokenizer
// already discards standalone punctuation; this filter handles punctuation
// embedded in word segments, such as apostrophes.
type PunctStripFilter struct{}

// NewPunctStripFilter creates a new PunctStripFilter instance.
func NewPunctStripFilter() *PunctStripFilter {
	return &PunctStripFilter{}
}

// NewPunctStripFilterConstructor is the Bleve registry constructor function.
func NewPunctStripFilterConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.TokenFilter, error) {
	return NewPunctStripFilter(), nil
}

func init() {
	registry.RegisterTokenFilter(PunctStripFilterName, NewPunctStripFilterConstructor)
}

// Filter strips punctuation from every token in the stream.
func (f *PunctStripFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	result := make(analysis.TokenStream, 0, len(input))

	for _, token := range input {
		stripped := stripPunct(token.Term)
		if len(stripped) == 0 {
			continue
		}
		token.Term = stripped
		result = append(result, token)
	}

	return result
}

func stripPunct(term []byte) []byte {
	if !containsPunct(term) {
		return term
	}

	out := make([]byte, 0, len(term))
	for i := 0; i < len(term); {
		r, size := utf8.DecodeRune(term[i:])
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			out = append(out, term[i:i+size]...)
		}
		i += size
	}
	return out
}

func containsPunct(term []byte) bool {
	for i := 0; i < len(term); {
		r, size := utf8.DecodeRune(term[i:])
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
		i += size
	}
	return false
}

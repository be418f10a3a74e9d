// Package tokenize segments raw text into tokens by delegating to the Bleve
// analysis chain: unicode word segmentation, optional lowercasing and
// punctuation stripping, stop-word removal, and shingle expansion for word
// n-grams.
package tokenize

import (
	"errors"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/shingle"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// Errors returned when building an analyzer.
var (
	// ErrBadNGramRange indicates NGramMin/NGramMax do not form a valid range.
	ErrBadNGramRange = errors.New("ngram range is invalid")
)

// Token is a unit of text produced by segmentation, carrying its source
// position. For n-grams the span covers the constituent words.
type Token struct {
	Term     string
	Start    int // byte offset of the token's first rune
	End      int // byte offset just past the token's last rune
	Position int // 1-based token position within the text
}

// Options mirrors the segmentation parameters: case normalization,
// punctuation stripping, n-gram orders, the n-gram joining delimiter, and
// the stop-word set.
type Options struct {
	Lowercase  bool
	StripPunct bool

	// NGramMin and NGramMax bound the n-gram order. Both 0 or 1 means
	// plain unigrams. NGramMin <= 1 with NGramMax > 1 emits unigrams in
	// addition to the higher-order shingles.
	NGramMin int
	NGramMax int

	// Delimiter joins the words of an n-gram. Empty means a single space.
	Delimiter string

	// StopWords are removed after case normalization.
	StopWords []string
}

// Analyzer tokenizes text with a fixed option set. Safe for concurrent use.
type Analyzer struct {
	analyzer *analysis.DefaultAnalyzer
}

// New builds an Analyzer for the given options.
func New(opts Options) (*Analyzer, error) {
	max := opts.NGramMax
	min := opts.NGramMin
	if max == 0 {
		max = 1
	}
	if min == 0 {
		min = 1
	}
	if min > max || min < 1 {
		return nil, ErrBadNGramRange
	}

	var filters []analysis.TokenFilter

	if opts.Lowercase {
		filters = append(filters, lowercase.NewLowerCaseFilter())
	}
	if opts.StripPunct {
		filters = append(filters, NewPunctStripFilter())
	}
	if len(opts.StopWords) > 0 {
		tokenMap := analysis.NewTokenMap()
		for _, word := range opts.StopWords {
			tokenMap.AddToken(word)
		}
		filters = append(filters, stop.NewStopTokensFilter(tokenMap))
	}
	if max > 1 {
		sep := opts.Delimiter
		if sep == "" {
			sep = " "
		}
		shingleMin := min
		outputOriginal := false
		if shingleMin <= 1 {
			// The shingle filter only produces orders >= 2; unigrams come
			// from passing the original tokens through.
			shingleMin = 2
			outputOriginal = true
		}
		filters = append(filters, shingle.NewShingleFilter(shingleMin, max, outputOriginal, sep, "_"))
	}

	return &Analyzer{
		analyzer: &analysis.DefaultAnalyzer{
			Tokenizer:    unicode.NewUnicodeTokenizer(),
			TokenFilters: filters,
		},
	}, nil
}

// Tokenize runs the analysis chain over text.
func (a *Analyzer) Tokenize(text string) []Token {
	stream := a.analyzer.Analyze([]byte(text))

	tokens := make([]Token, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, Token{
			Term:     string(tok.Term),
			Start:    tok.Start,
			End:      tok.End,
			Position: tok.Position,
		})
	}
	return tokens
}

// Terms tokenizes text and returns just the term strings.
func (a *Analyzer) Terms(text string) []string {
	stream := a.analyzer.Analyze([]byte(text))

	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms
}

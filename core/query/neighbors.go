// Package query answers nearest-neighbor similarity queries against a
// trained embedding: inner products of the target vector against every
// vocabulary vector, ranked descending with stable tie-breaking.
package query

import (
	"errors"
	"fmt"
	"math"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/viterin/vek"

	"github.com/adalundhe/lexembed/core/embed"
)

// DefaultCacheSize bounds the query-result cache when the caller passes 0.
const DefaultCacheSize = 256

// ErrBadLimit indicates a non-positive result limit.
var ErrBadLimit = errors.New("result limit must be positive")

// Match is one ranked neighbor.
type Match struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

type cacheKey struct {
	word string
	n    int
}

// Engine ranks words by similarity to a query word. Vectors are normalized
// to unit length at construction, so the inner product is maximal for the
// word itself. Safe for concurrent use.
type Engine struct {
	emb        *embed.Embedding
	normalized []float64 // row-major unit vectors, Size x Dim
	cache      *lru.Cache[cacheKey, []Match]
}

// New builds an Engine over emb with a result cache of cacheSize entries.
func New(emb *embed.Embedding, cacheSize int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, []Match](cacheSize)
	if err != nil {
		return nil, err
	}

	dim := emb.Dim()
	normalized := make([]float64, emb.Size()*dim)
	for id := 0; id < emb.Size(); id++ {
		row := normalized[id*dim : (id+1)*dim]
		copy(row, emb.VectorByID(id))
		norm := math.Sqrt(vek.Dot(row, row))
		if norm > 0 {
			vek.DivNumber_Inplace(row, norm)
		}
	}

	return &Engine{emb: emb, normalized: normalized, cache: cache}, nil
}

// Neighbors returns the n words most similar to word, including the word
// itself, sorted by descending inner product. Equal scores keep vocabulary
// order. Querying a word outside the trained vocabulary fails with
// embed.ErrUnknownWord.
func (e *Engine) Neighbors(word string, n int) ([]Match, error) {
	if n <= 0 {
		return nil, ErrBadLimit
	}

	key := cacheKey{word: word, n: n}
	if cached, ok := e.cache.Get(key); ok {
		return copyMatches(cached), nil
	}

	id, ok := e.emb.Vocab().ID(word)
	if !ok {
		return nil, fmt.Errorf("%q: %w", word, embed.ErrUnknownWord)
	}

	dim := e.emb.Dim()
	target := e.normalized[id*dim : (id+1)*dim]

	matches := make([]Match, e.emb.Size())
	for i := 0; i < e.emb.Size(); i++ {
		row := e.normalized[i*dim : (i+1)*dim]
		matches[i] = Match{
			Word:  e.emb.Vocab().Word(i),
			Score: vek.Dot(target, row),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if n < len(matches) {
		matches = matches[:n]
	}

	e.cache.Add(key, copyMatches(matches))
	return matches, nil
}

func copyMatches(matches []Match) []Match {
	out := make([]Match, len(matches))
	copy(out, matches)
	return out
}

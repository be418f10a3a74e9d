// Package embed builds dense word vectors by truncated singular value
// decomposition of the sparse PMI matrix. The factorization itself is
// delegated to gonum; this package only assembles the inputs and exposes
// the resulting vectors.
package embed

import (
	"errors"
	"fmt"
	"math"

	"github.com/adalundhe/lexembed/core/vocab"
)

// Errors returned by embedding lookups and construction.
var (
	// ErrUnknownWord indicates a query for a word with no vector.
	ErrUnknownWord = errors.New("word not in trained vocabulary")

	// ErrBadDimensions indicates a vector payload whose size does not
	// match the vocabulary and dimensionality.
	ErrBadDimensions = errors.New("vector payload does not match vocabulary and dimensions")
)

// Embedding holds one dense vector per vocabulary word. Immutable once
// built; retraining produces a new Embedding.
type Embedding struct {
	vocab   *vocab.Vocabulary
	dim     int
	vectors []float64 // row-major, Size x dim

	// singular values of the full factorization, descending; retained so
	// truncation fidelity can be reported. Nil for loaded embeddings.
	singularValues []float64
}

// New assembles an Embedding from a vocabulary and row-major vectors.
func New(v *vocab.Vocabulary, dim int, vectors []float64) (*Embedding, error) {
	if dim <= 0 || len(vectors) != v.Size()*dim {
		return nil, fmt.Errorf("%w: %d values for %d words x %d dims",
			ErrBadDimensions, len(vectors), v.Size(), dim)
	}
	return &Embedding{vocab: v, dim: dim, vectors: vectors}, nil
}

// Dim returns the dimensionality of the vectors.
func (e *Embedding) Dim() int {
	return e.dim
}

// Size returns the number of words with vectors.
func (e *Embedding) Size() int {
	return e.vocab.Size()
}

// Words returns the vocabulary words in ID order.
func (e *Embedding) Words() []string {
	return e.vocab.Words()
}

// Vocab returns the underlying vocabulary.
func (e *Embedding) Vocab() *vocab.Vocabulary {
	return e.vocab
}

// Vector returns the vector for word, or ErrUnknownWord.
// The returned slice aliases internal storage and must not be mutated.
func (e *Embedding) Vector(word string) ([]float64, error) {
	id, ok := e.vocab.ID(word)
	if !ok {
		return nil, fmt.Errorf("%q: %w", word, ErrUnknownWord)
	}
	return e.VectorByID(id), nil
}

// VectorByID returns the vector for a vocabulary ID.
// The returned slice aliases internal storage and must not be mutated.
func (e *Embedding) VectorByID(id int) []float64 {
	return e.vectors[id*e.dim : (id+1)*e.dim]
}

// TruncationError reports the Frobenius-norm error of keeping only the
// top k singular values, per Eckart-Young: sqrt(sum of the squared
// discarded singular values). Non-increasing in k. Returns NaN for
// embeddings loaded without their factorization history.
func (e *Embedding) TruncationError(k int) float64 {
	if e.singularValues == nil {
		return math.NaN()
	}
	if k < 0 {
		k = 0
	}

	var sum float64
	for i := k; i < len(e.singularValues); i++ {
		sum += e.singularValues[i] * e.singularValues[i]
	}
	return math.Sqrt(sum)
}

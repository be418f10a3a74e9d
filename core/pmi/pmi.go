// Package pmi scores co-occurrence counts with pointwise mutual
// information. Probabilities are estimated by frequency over the observed
// pair pool; pairs never observed together are absent from the result
// rather than scored at negative infinity.
package pmi

import (
	"errors"
	"math"
	"sort"

	"github.com/adalundhe/lexembed/core/cooccur"
	"github.com/adalundhe/lexembed/core/vocab"
)

// ErrEmptyMatrix indicates a count matrix with no observed pairs.
var ErrEmptyMatrix = errors.New("co-occurrence matrix has no observed pairs")

// Options controls scoring.
type Options struct {
	// Positive clamps scores at zero (PPMI). Entries that clamp to zero
	// are dropped from the sparse result.
	Positive bool
}

// PairStat is one scored (word, context-word) pair.
type PairStat struct {
	Word    string
	Context string
	PMI     float64
}

// Table holds PMI scores for every observed pair, in both sparse-matrix
// form (for factorization) and per-pair lookup form.
type Table struct {
	vocab  *vocab.Vocabulary
	matrix *cooccur.SparseMatrix
}

// Score computes PMI for every observed pair in counts.
//
// With T the total of all counts, r_i the row sums and c_j the column sums:
//
//	PMI(i, j) = log( n_ij * T / (r_i * c_j) )
//
// which equals log(P(i,j) / (P(i) P(j))) under frequency estimation.
func Score(counts *cooccur.SparseMatrix, v *vocab.Vocabulary, opts Options) (*Table, error) {
	rows, cols := counts.Dims()

	rowSums := make([]float64, rows)
	colSums := make([]float64, cols)
	var total float64
	counts.Each(func(row, col int, val float64) {
		rowSums[row] += val
		colSums[col] += val
		total += val
	})

	if total == 0 {
		return nil, ErrEmptyMatrix
	}

	scored := cooccur.NewSparseMatrix(rows, cols)
	counts.Each(func(row, col int, val float64) {
		if val <= 0 {
			return
		}
		score := math.Log(val * total / (rowSums[row] * colSums[col]))
		if opts.Positive && score <= 0 {
			return
		}
		scored.Set(row, col, score)
	})

	return &Table{vocab: v, matrix: scored}, nil
}

// Get returns the PMI for (word, context), reporting false for pairs that
// were never observed together (or clamped away under Positive).
func (t *Table) Get(word, context string) (float64, bool) {
	wID, ok := t.vocab.ID(word)
	if !ok {
		return 0, false
	}
	cID, ok := t.vocab.ID(context)
	if !ok {
		return 0, false
	}

	row := t.matrix.Rows[wID]
	idx := sort.SearchInts(row.Indices, cID)
	if idx < len(row.Indices) && row.Indices[idx] == cID {
		return row.Values[idx], true
	}
	return 0, false
}

// Pairs lists every scored pair in row-major order.
func (t *Table) Pairs() []PairStat {
	pairs := make([]PairStat, 0, t.matrix.NumEntries())
	t.matrix.Each(func(row, col int, val float64) {
		pairs = append(pairs, PairStat{
			Word:    t.vocab.Word(row),
			Context: t.vocab.Word(col),
			PMI:     val,
		})
	})
	return pairs
}

// Matrix returns the PMI-valued sparse matrix for factorization.
func (t *Table) Matrix() *cooccur.SparseMatrix {
	return t.matrix
}

// Vocab returns the vocabulary the table is indexed by.
func (t *Table) Vocab() *vocab.Vocabulary {
	return t.vocab
}

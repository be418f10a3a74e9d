package embed

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/adalundhe/lexembed/core/cooccur"
	"github.com/adalundhe/lexembed/core/vocab"
)

// Errors returned by training.
var (
	// ErrNoDimensions indicates a non-positive requested dimensionality.
	ErrNoDimensions = errors.New("requested dimensionality must be positive")

	// ErrFactorization indicates the SVD routine failed to converge.
	ErrFactorization = errors.New("svd factorization failed")
)

// Options configures embedding construction.
type Options struct {
	// Dims is the requested dimensionality. The effective rank is
	// min(Dims, rank of the input matrix).
	Dims int

	// Power is the exponent applied to the singular values when scaling
	// the left singular vectors: row_i = U_i * S^Power. 0.5 is the usual
	// symmetric split; 1.0 reproduces U*S. Zero value means 0.5.
	Power float64
}

// Train factorizes the PMI matrix and returns one dense vector per word.
// The result is deterministic for a fixed input.
func Train(scores *cooccur.SparseMatrix, v *vocab.Vocabulary, opts Options) (*Embedding, error) {
	if opts.Dims <= 0 {
		return nil, ErrNoDimensions
	}
	power := opts.Power
	if power == 0 {
		power = 0.5
	}

	rows, cols := scores.Dims()
	if rows == 0 || cols == 0 || rows != v.Size() {
		return nil, fmt.Errorf("score matrix is %dx%d for %d words", rows, cols, v.Size())
	}

	dense := mat.NewDense(rows, cols, nil)
	scores.Each(func(row, col int, val float64) {
		dense.Set(row, col, val)
	})

	var svd mat.SVD
	if !svd.Factorize(dense, mat.SVDThin) {
		return nil, ErrFactorization
	}

	values := svd.Values(nil)
	dim := opts.Dims
	if dim > len(values) {
		dim = len(values)
	}

	var u mat.Dense
	svd.UTo(&u)

	vectors := make([]float64, rows*dim)
	for i := 0; i < rows; i++ {
		for d := 0; d < dim; d++ {
			scale := math.Pow(values[d], power)
			vectors[i*dim+d] = u.At(i, d) * scale
		}
	}

	return &Embedding{
		vocab:          v,
		dim:            dim,
		vectors:        vectors,
		singularValues: values,
	}, nil
}

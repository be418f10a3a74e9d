package cooccur

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	pipeerrors "github.com/adalundhe/lexembed/core/errors"
	"github.com/adalundhe/lexembed/core/vocab"
)

// TokenizedDocument is one document after segmentation.
type TokenizedDocument struct {
	ID     string
	Tokens []string
}

// Stats summarizes a counting run.
type Stats struct {
	DocsAdded   int64
	DocsDropped int64
	Windows     int64
	Errors      []error
}

// Counter tallies windowed co-occurrences of vocabulary words into a shared
// sparse matrix. One counter serves one training run.
type Counter struct {
	vocab      *vocab.Vocabulary
	windowSize int

	// Matrix holds the running tally. Entry (i, j) counts word j appearing
	// in a window together with word i. Counts are symmetric.
	Matrix *SparseMatrix

	rowLocks []sync.Mutex

	docsAdded   atomic.Int64
	docsDropped atomic.Int64
	windowsSeen atomic.Int64

	errMu  sync.Mutex
	errors []error
}

// maxRecordedErrors bounds the per-run error list so a pathological corpus
// cannot exhaust memory with dropped-document diagnostics.
const maxRecordedErrors = 100

// NewCounter creates a counter over the vocabulary with the given window
// size.
func NewCounter(v *vocab.Vocabulary, windowSize int) *Counter {
	n := v.Size()
	return &Counter{
		vocab:      v,
		windowSize: windowSize,
		Matrix:     NewSparseMatrix(n, n),
		rowLocks:   make([]sync.Mutex, n),
	}
}

// WindowSize returns the configured window size.
func (c *Counter) WindowSize() int {
	return c.windowSize
}

// AddDocument tallies one document's windows. Safe to call concurrently.
// Pairs accumulate in a document-local tally that is merged into the shared
// matrix only after the whole document has been counted, so a document that
// fails part-way contributes nothing.
func (c *Counter) AddDocument(docID string, tokens []string) {
	ids := c.vocab.IDs(tokens)
	windows, pairs := countPairs(ids, c.windowSize)

	c.merge(pairs)
	c.windowsSeen.Add(windows)
	c.docsAdded.Add(1)
}

type pairKey struct {
	row, col int
}

// countPairs slides every complete window over ids and tallies each ordered
// pair of distinct positions. A sequence of length L yields max(0, L-size+1)
// windows. Out-of-vocabulary positions (id < 0) are skipped.
func countPairs(ids []int, size int) (int64, map[pairKey]float64) {
	pairs := make(map[pairKey]float64)
	if size <= 0 || len(ids) < size {
		return 0, pairs
	}

	var windows int64
	for off := 0; off+size <= len(ids); off++ {
		windows++
		w := ids[off : off+size]
		for i := 0; i < len(w); i++ {
			if w[i] < 0 {
				continue
			}
			for j := i + 1; j < len(w); j++ {
				if w[j] < 0 {
					continue
				}
				pairs[pairKey{w[i], w[j]}]++
				pairs[pairKey{w[j], w[i]}]++
			}
		}
	}
	return windows, pairs
}

// merge folds one document's tally into the shared matrix.
func (c *Counter) merge(pairs map[pairKey]float64) {
	for k, n := range pairs {
		c.rowLocks[k.row].Lock()
		c.Matrix.Add(k.row, k.col, n)
		c.rowLocks[k.row].Unlock()
	}
}

// AddAll drains the document channel with a pool of workers. Documents are
// independent, so no ordering holds across them. A document whose counting
// panics is dropped and recorded; the run continues.
func (c *Counter) AddAll(ctx context.Context, docs <-chan TokenizedDocument, workers int) Stats {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case doc, ok := <-docs:
					if !ok {
						return
					}
					c.addSafely(doc)
				}
			}
		}()
	}
	wg.Wait()

	return c.Stats()
}

// addSafely isolates one document so a panic drops only that document.
func (c *Counter) addSafely(doc TokenizedDocument) {
	defer func() {
		if r := recover(); r != nil {
			c.docsDropped.Add(1)
			c.recordError(pipeerrors.Recoverable(doc.ID, fmt.Errorf("counting panicked: %v", r)))
		}
	}()
	c.AddDocument(doc.ID, doc.Tokens)
}

// DropDocument records a document excluded upstream (for example, a row
// that failed to parse) so run statistics stay complete.
func (c *Counter) DropDocument(err error) {
	c.docsDropped.Add(1)
	c.recordError(err)
}

func (c *Counter) recordError(err error) {
	c.errMu.Lock()
	if len(c.errors) < maxRecordedErrors {
		c.errors = append(c.errors, err)
	}
	c.errMu.Unlock()
}

// Stats returns a snapshot of the run counters.
func (c *Counter) Stats() Stats {
	c.errMu.Lock()
	errs := make([]error, len(c.errors))
	copy(errs, c.errors)
	c.errMu.Unlock()

	return Stats{
		DocsAdded:   c.docsAdded.Load(),
		DocsDropped: c.docsDropped.Load(),
		Windows:     c.windowsSeen.Load(),
		Errors:      errs,
	}
}

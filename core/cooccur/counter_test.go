package cooccur

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "github.com/adalundhe/lexembed/core/errors"
	"github.com/adalundhe/lexembed/core/vocab"
)

func testVocab(words ...string) *vocab.Vocabulary {
	return vocab.FromWords(words)
}

func TestAddDocumentPairCounts(t *testing.T) {
	v := testVocab("a", "b", "c")
	c := NewCounter(v, 2)

	// Windows over [a b c]: [a b], [b c].
	c.AddDocument("d1", []string{"a", "b", "c"})

	aID, _ := v.ID("a")
	bID, _ := v.ID("b")
	cID, _ := v.ID("c")

	assert.Equal(t, 1.0, c.Matrix.Get(aID, bID))
	assert.Equal(t, 1.0, c.Matrix.Get(bID, aID))
	assert.Equal(t, 1.0, c.Matrix.Get(bID, cID))
	assert.Equal(t, 1.0, c.Matrix.Get(cID, bID))
	// a and c never share a window of size 2.
	assert.Equal(t, 0.0, c.Matrix.Get(aID, cID))

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.DocsAdded)
	assert.Equal(t, int64(2), stats.Windows)
}

func TestCountsAreSymmetric(t *testing.T) {
	v := testVocab("w", "x", "y", "z")
	c := NewCounter(v, 3)

	c.AddDocument("d1", []string{"w", "x", "y", "z", "w", "x"})
	c.AddDocument("d2", []string{"z", "z", "y"})

	n := v.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.Equal(t, c.Matrix.Get(i, j), c.Matrix.Get(j, i),
				"entry (%d,%d) not symmetric", i, j)
		}
	}
}

func TestRepeatedWordWithinWindow(t *testing.T) {
	v := testVocab("a")
	c := NewCounter(v, 2)

	// Window [a a]: one position pair, counted in both directions.
	c.AddDocument("d1", []string{"a", "a"})

	id, _ := v.ID("a")
	assert.Equal(t, 2.0, c.Matrix.Get(id, id))
}

func TestOOVTokensSkipped(t *testing.T) {
	v := testVocab("a", "b")
	c := NewCounter(v, 2)

	c.AddDocument("d1", []string{"a", "UNKNOWN", "b"})

	aID, _ := v.ID("a")
	bID, _ := v.ID("b")
	// Windows [a UNKNOWN], [UNKNOWN b]: no in-vocabulary pair completes.
	assert.Equal(t, 0.0, c.Matrix.Get(aID, bID))
	assert.Equal(t, int64(2), c.Stats().Windows)
}

func TestAddAllParallelMatchesSerial(t *testing.T) {
	words := make([]string, 20)
	for i := range words {
		words[i] = fmt.Sprintf("w%02d", i)
	}
	v := testVocab(words...)

	docs := make([]TokenizedDocument, 50)
	for i := range docs {
		tokens := make([]string, 12)
		for j := range tokens {
			tokens[j] = words[(i*7+j*3)%len(words)]
		}
		docs[i] = TokenizedDocument{ID: fmt.Sprintf("d%d", i), Tokens: tokens}
	}

	serial := NewCounter(v, 4)
	for _, doc := range docs {
		serial.AddDocument(doc.ID, doc.Tokens)
	}

	parallel := NewCounter(v, 4)
	ch := make(chan TokenizedDocument)
	go func() {
		for _, doc := range docs {
			ch <- doc
		}
		close(ch)
	}()
	stats := parallel.AddAll(context.Background(), ch, 8)

	assert.Equal(t, int64(len(docs)), stats.DocsAdded)
	assert.Equal(t, int64(0), stats.DocsDropped)

	n := v.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			require.Equal(t, serial.Matrix.Get(i, j), parallel.Matrix.Get(i, j),
				"entry (%d,%d) differs between serial and parallel runs", i, j)
		}
	}
}

func TestWindowTallyMatchesWindows(t *testing.T) {
	v := testVocab("a", "b", "c", "d")
	tokens := []string{"a", "b", "c", "d", "a"}
	c := NewCounter(v, 3)

	c.AddDocument("d1", tokens)

	assert.Equal(t, int64(len(Windows("d1", tokens, 3))), c.Stats().Windows)
}

func TestPanickedDocumentLeavesNoCounts(t *testing.T) {
	// A nil vocabulary makes counting panic before any pair is tallied.
	c := &Counter{
		windowSize: 2,
		Matrix:     NewSparseMatrix(2, 2),
		rowLocks:   make([]sync.Mutex, 2),
	}

	c.addSafely(TokenizedDocument{ID: "d1", Tokens: []string{"a", "b"}})

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.DocsDropped)
	assert.Equal(t, int64(0), stats.DocsAdded)
	assert.Equal(t, 0, c.Matrix.NumEntries())
	require.Len(t, stats.Errors, 1)
	assert.True(t, pipeerrors.IsRecoverable(stats.Errors[0]))
	assert.Equal(t, "d1", pipeerrors.DocID(stats.Errors[0]))
}

func TestAddAllContextCancel(t *testing.T) {
	v := testVocab("a")
	c := NewCounter(v, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan TokenizedDocument)
	stats := c.AddAll(ctx, ch, 2)
	assert.Equal(t, int64(0), stats.DocsAdded)
}

func TestDropDocumentRecorded(t *testing.T) {
	v := testVocab("a")
	c := NewCounter(v, 1)

	rowErr := pipeerrors.Recoverable("line 3", errors.New("bad row"))
	c.DropDocument(rowErr)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.DocsDropped)
	require.Len(t, stats.Errors, 1)
	assert.True(t, pipeerrors.IsRecoverable(stats.Errors[0]))
}

func TestErrorListBounded(t *testing.T) {
	v := testVocab("a")
	c := NewCounter(v, 1)

	for i := 0; i < maxRecordedErrors+50; i++ {
		c.DropDocument(errors.New("row error"))
	}

	stats := c.Stats()
	assert.Equal(t, int64(maxRecordedErrors+50), stats.DocsDropped)
	assert.Len(t, stats.Errors, maxRecordedErrors)
}

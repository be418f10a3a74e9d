package pmi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/lexembed/core/cooccur"
	"github.com/adalundhe/lexembed/core/vocab"
)

func countsFromDocs(t *testing.T, v *vocab.Vocabulary, window int, docs ...[]string) *cooccur.SparseMatrix {
	t.Helper()
	c := cooccur.NewCounter(v, window)
	for i, doc := range docs {
		c.AddDocument(string(rune('a'+i)), doc)
	}
	return c.Matrix
}

func TestScoreHandComputed(t *testing.T) {
	v := vocab.FromWords([]string{"a", "b"})
	counts := countsFromDocs(t, v, 2, []string{"a", "b"})

	table, err := Score(counts, v, Options{})
	require.NoError(t, err)

	// Counts: (a,b)=1, (b,a)=1, total=2, row and column sums all 1.
	// PMI = log(1 * 2 / (1 * 1)) = log 2.
	got, ok := table.Get("a", "b")
	require.True(t, ok)
	assert.InDelta(t, math.Log(2), got, 1e-12)
}

func TestScoreSymmetric(t *testing.T) {
	v := vocab.FromWords([]string{"w", "x", "y", "z"})
	counts := countsFromDocs(t, v, 3,
		[]string{"w", "x", "y", "z", "w"},
		[]string{"z", "y", "x", "x", "w", "y"},
	)

	table, err := Score(counts, v, Options{})
	require.NoError(t, err)

	words := v.Words()
	for _, a := range words {
		for _, b := range words {
			ab, okAB := table.Get(a, b)
			ba, okBA := table.Get(b, a)
			require.Equal(t, okAB, okBA, "presence of (%s,%s) not symmetric", a, b)
			if okAB {
				assert.InDelta(t, ab, ba, 1e-12, "PMI(%s,%s) != PMI(%s,%s)", a, b, b, a)
			}
		}
	}
}

func TestUnobservedPairsAbsent(t *testing.T) {
	v := vocab.FromWords([]string{"a", "b", "c"})
	// Window 2 over [a b] then [b c]: a and c never co-occur.
	counts := countsFromDocs(t, v, 2, []string{"a", "b"}, []string{"b", "c"})

	table, err := Score(counts, v, Options{})
	require.NoError(t, err)

	_, ok := table.Get("a", "c")
	assert.False(t, ok, "unobserved pair must be absent, not -Inf")

	for _, pair := range table.Pairs() {
		assert.False(t, math.IsInf(pair.PMI, -1), "no -Inf scores allowed")
	}
}

func TestUnknownWordAbsent(t *testing.T) {
	v := vocab.FromWords([]string{"a", "b"})
	counts := countsFromDocs(t, v, 2, []string{"a", "b"})

	table, err := Score(counts, v, Options{})
	require.NoError(t, err)

	_, ok := table.Get("a", "zzz")
	assert.False(t, ok)
}

func TestPositiveClampsNegatives(t *testing.T) {
	v := vocab.FromWords([]string{"p", "q", "r"})
	// Enough mixing to produce at least one negative raw PMI.
	counts := countsFromDocs(t, v, 3,
		[]string{"p", "q", "r", "p", "q", "r", "p", "p", "q"},
	)

	raw, err := Score(counts, v, Options{})
	require.NoError(t, err)
	positive, err := Score(counts, v, Options{Positive: true})
	require.NoError(t, err)

	var sawNegative bool
	for _, pair := range raw.Pairs() {
		if pair.PMI < 0 {
			sawNegative = true
		}
	}
	require.True(t, sawNegative, "test corpus should produce a negative PMI")

	for _, pair := range positive.Pairs() {
		assert.Greater(t, pair.PMI, 0.0)
	}
}

func TestScoreEmptyMatrix(t *testing.T) {
	v := vocab.FromWords([]string{"a"})
	_, err := Score(cooccur.NewSparseMatrix(1, 1), v, Options{})
	assert.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestPairsListsWords(t *testing.T) {
	v := vocab.FromWords([]string{"a", "b"})
	counts := countsFromDocs(t, v, 2, []string{"a", "b"})

	table, err := Score(counts, v, Options{})
	require.NoError(t, err)

	pairs := table.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "a", pairs[0].Word)
	assert.Equal(t, "b", pairs[0].Context)
}

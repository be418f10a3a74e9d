// Package vocab builds and queries the training vocabulary: token counting
// over the corpus, frequency pruning, and a sorted word list that maps
// between words and dense integer IDs.
package vocab

import (
	"sort"
)

// Counts tallies how many times each token occurs in the corpus.
type Counts map[string]int

// NewCounts creates an empty tally.
func NewCounts() Counts {
	return Counts{}
}

// Add tallies one document's tokens.
func (c Counts) Add(tokens []string) {
	for _, tok := range tokens {
		c[tok]++
	}
}

// Merge folds other into c.
func (c Counts) Merge(other Counts) {
	for tok, n := range other {
		c[tok] += n
	}
}

// BuildOptions controls vocabulary pruning.
type BuildOptions struct {
	// MaxSize keeps only the most frequent words. 0 means unlimited.
	// Frequency ties are broken alphabetically for determinism.
	MaxSize int

	// MinCount drops words occurring fewer times. 0 or 1 keeps all.
	MinCount int
}

// Vocabulary is a sorted list of words. Each word's index in the sorted
// order is its ID; IDs are dense in [0, Size).
type Vocabulary struct {
	words []string
}

// Build constructs a pruned vocabulary from token counts.
func Build(counts Counts, opts BuildOptions) *Vocabulary {
	words := make([]string, 0, len(counts))
	for word, n := range counts {
		if opts.MinCount > 1 && n < opts.MinCount {
			continue
		}
		words = append(words, word)
	}

	if opts.MaxSize > 0 && len(words) > opts.MaxSize {
		sort.Slice(words, func(i, j int) bool {
			ci, cj := counts[words[i]], counts[words[j]]
			if ci != cj {
				return ci > cj
			}
			return words[i] < words[j]
		})
		words = words[:opts.MaxSize]
	}

	sort.Strings(words)
	return &Vocabulary{words: words}
}

// FromWords constructs a vocabulary from an explicit word list.
// Duplicates are removed.
func FromWords(words []string) *Vocabulary {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)

	deduped := sorted[:0]
	for i, w := range sorted {
		if i > 0 && w == sorted[i-1] {
			continue
		}
		deduped = append(deduped, w)
	}
	return &Vocabulary{words: deduped}
}

// Size returns the number of words.
func (v *Vocabulary) Size() int {
	return len(v.words)
}

// ID returns the dense ID for word, or false if word is out of vocabulary.
func (v *Vocabulary) ID(word string) (int, bool) {
	idx := sort.SearchStrings(v.words, word)
	if idx < len(v.words) && v.words[idx] == word {
		return idx, true
	}
	return 0, false
}

// IDs maps each token to its ID, using -1 for out-of-vocabulary tokens.
func (v *Vocabulary) IDs(tokens []string) []int {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		if id, ok := v.ID(tok); ok {
			ids[i] = id
		} else {
			ids[i] = -1
		}
	}
	return ids
}

// Word returns the word for an ID. IDs outside [0, Size) yield "".
func (v *Vocabulary) Word(id int) string {
	if id < 0 || id >= len(v.words) {
		return ""
	}
	return v.words[id]
}

// Words returns the sorted word list. The returned slice must not be
// mutated.
func (v *Vocabulary) Words() []string {
	return v.words
}

package cooccur

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowsCountProperty(t *testing.T) {
	// L tokens with window W yield max(0, L-W+1) complete windows.
	for length := 0; length <= 8; length++ {
		for size := 1; size <= 8; size++ {
			tokens := make([]string, length)
			for i := range tokens {
				tokens[i] = fmt.Sprintf("t%d", i)
			}

			want := length - size + 1
			if want < 0 {
				want = 0
			}
			got := Windows("doc", tokens, size)
			assert.Len(t, got, want, "L=%d W=%d", length, size)
		}
	}
}

func TestWindowsContents(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}
	windows := Windows("doc-1", tokens, 3)

	require.Len(t, windows, 2)
	assert.Equal(t, []string{"a", "b", "c"}, windows[0].Tokens)
	assert.Equal(t, []string{"b", "c", "d"}, windows[1].Tokens)
	assert.Equal(t, 0, windows[0].Offset)
	assert.Equal(t, 1, windows[1].Offset)
	assert.Equal(t, "doc-1", windows[0].DocID)
	assert.Equal(t, "doc-1@1", windows[1].Key())
}

func TestWindowsHaveUniqueIDs(t *testing.T) {
	windows := Windows("doc", []string{"a", "b", "c"}, 2)

	require.Len(t, windows, 2)
	assert.NotEmpty(t, windows[0].ID)
	assert.NotEqual(t, windows[0].ID, windows[1].ID)
	assert.False(t, strings.Contains(windows[0].ID, " "))
}

func TestWindowsShortInput(t *testing.T) {
	assert.Empty(t, Windows("doc", []string{"a", "b"}, 3))
	assert.Empty(t, Windows("doc", nil, 1))
	assert.Empty(t, Windows("doc", []string{"a"}, 0))
}

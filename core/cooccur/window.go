package cooccur

import (
	"fmt"

	"github.com/google/uuid"
)

// Window is a contiguous run of exactly Size tokens from one document.
type Window struct {
	// ID is a unique identifier for this window.
	ID string

	// DocID and Offset locate the window within its source document:
	// the window covers token positions [Offset, Offset+len(Tokens)).
	DocID  string
	Offset int

	Tokens []string
}

// Key returns the deterministic document-relative name of the window,
// useful for logging and tests where the random ID is inconvenient.
func (w Window) Key() string {
	return fmt.Sprintf("%s@%d", w.DocID, w.Offset)
}

// Windows produces every complete window of the given size over tokens.
// A sequence of length L yields max(0, L-size+1) windows; partial windows
// at the boundary are dropped. The token slices alias the input.
func Windows(docID string, tokens []string, size int) []Window {
	if size <= 0 || len(tokens) < size {
		return nil
	}

	windows := make([]Window, 0, len(tokens)-size+1)
	for off := 0; off+size <= len(tokens); off++ {
		windows = append(windows, Window{
			ID:     uuid.NewString(),
			DocID:  docID,
			Offset: off,
			Tokens: tokens[off : off+size],
		})
	}
	return windows
}

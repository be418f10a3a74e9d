// Package errors implements a two-tier failure taxonomy for the embedding
// pipeline: recoverable per-document failures that are tallied and dropped,
// and fatal failures that abort the run.
package errors

import (
	"errors"
	"fmt"
)

// Tier classifies how the pipeline responds to a failure.
type Tier int

const (
	// TierRecoverable indicates a failure scoped to a single document or
	// row. The pipeline drops that document's contribution and keeps going.
	// Examples: malformed corpus rows, a document that fails tokenization.
	TierRecoverable Tier = iota

	// TierFatal indicates a failure that invalidates the whole run.
	// Examples: unreadable corpus file, SVD factorization failure.
	TierFatal
)

var tierNames = map[Tier]string{
	TierRecoverable: "recoverable",
	TierFatal:       "fatal",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// PipelineError wraps an underlying error with its tier and, for
// document-scoped failures, the identifier of the offending document.
type PipelineError struct {
	Tier  Tier
	DocID string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.DocID != "" {
		return fmt.Sprintf("%s failure (document %s): %v", e.Tier, e.DocID, e.Err)
	}
	return fmt.Sprintf("%s failure: %v", e.Tier, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Recoverable wraps err as a per-document failure.
func Recoverable(docID string, err error) *PipelineError {
	return &PipelineError{Tier: TierRecoverable, DocID: docID, Err: err}
}

// Fatal wraps err as a run-aborting failure.
func Fatal(err error) *PipelineError {
	return &PipelineError{Tier: TierFatal, Err: err}
}

// IsRecoverable reports whether err (or anything it wraps) is a
// document-scoped failure the pipeline may tolerate.
func IsRecoverable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Tier == TierRecoverable
	}
	return false
}

// DocID extracts the document identifier from err, if it carries one.
func DocID(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.DocID
	}
	return ""
}

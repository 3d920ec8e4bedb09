// Package failure defines the error kinds surfaced by the extraction
// pipeline and the fixed strings shown in their place.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// Extraction means the upload was unreadable or produced no text.
	Extraction Kind = iota + 1
	// Generation means the model service call failed.
	Generation
	// NoCandidates means the model service answered with nothing.
	NoCandidates
	// Parse means the model output held no decodable JSON object.
	Parse
)

func (k Kind) String() string {
	switch k {
	case Extraction:
		return "extraction"
	case Generation:
		return "generation"
	case NoCandidates:
		return "no_candidates"
	case Parse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New returns a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, failure.Sentinel(failure.Parse)).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel returns a comparable error of the given kind for errors.Is.
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}

// KindOf reports the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Display strings used in place of missing values or failed operations.
const (
	NA            = "N/A"
	NotAvailable  = "Not available in the document."
	QueryError    = "Error processing query."
	NoText        = "No text extracted from PDF."
	ExtractFailed = "Failed to extract data."
)

// Message maps a failure to the text the dashboard shows for it.
func Message(err error) string {
	kind, ok := KindOf(err)
	if !ok {
		return QueryError
	}
	switch kind {
	case Extraction:
		return NoText
	case Parse:
		return ExtractFailed
	case NoCandidates:
		return NotAvailable
	default:
		return QueryError
	}
}

package textpatch

import "fmt"

// MatchPolicy selects how many occurrences of a pattern are replaced in one
// application.
type MatchPolicy string

const (
	// MatchAll replaces every non-overlapping occurrence. This is the default
	// and matches the behaviour of the migration scripts this package grew
	// out of.
	MatchAll MatchPolicy = "all"
	// MatchFirst replaces only the first occurrence.
	MatchFirst MatchPolicy = "first"
)

// Patch is an immutable description of one substitution: a pattern locating a
// fragment inside a larger document and the text that replaces it.
//
// Pattern uses Go regexp syntax and is compiled in dotall mode, so "." spans
// line breaks and nothing anchors to line boundaries by default. The target
// fragment is typically a multi-line region embedded in pretty-printed source
// whose exact whitespace is not guaranteed, so patterns should use \s+ or \s*
// between tokens (see Tolerant).
type Patch struct {
	Pattern     string
	Replacement string
	// MatchPolicy defaults to MatchAll when empty.
	MatchPolicy MatchPolicy
	// Expand treats Replacement as a template with $1-style references to
	// capture groups instead of literal text.
	Expand bool
}

// Result describes the outcome of patching a single file.
type Result struct {
	Path    string
	Count   int
	Changed bool
}

// Error codes distinguish the failure classes callers care about. Zero
// matches is deliberately not among them unless the caller opted into
// RequireMatch: re-running an already-applied patch is a normal outcome.
const (
	CodePatternInvalid = "PATTERN_INVALID"
	CodeReadFailed     = "READ_FAILED"
	CodeWriteFailed    = "WRITE_FAILED"
	CodeNoMatch        = "NO_MATCH"
)

// Error represents a structured failure while applying a patch. It satisfies
// the error interface so it can be returned directly from Apply helpers.
type Error struct {
	Message string
	Code    string
	Path    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return "patch error"
}

// FormatError renders Error values into a human readable message suitable for
// surfacing to end users.
func FormatError(err *Error) string {
	if err == nil {
		return "Unknown error occurred."
	}
	message := err.Message
	if message == "" {
		message = "Unknown error occurred."
	}
	switch err.Code {
	case CodeReadFailed, CodeWriteFailed:
		return fmt.Sprintf("could not read/write file: %s", message)
	}
	return message
}

package textpatch

import (
	"fmt"
	"regexp"
	"strings"
)

// Apply runs each patch against the document in order and returns the patched
// text together with the total number of replacements performed.
//
// The operation is pure: it never touches storage and never mutates its
// input. When the total count is zero the returned document is byte-identical
// to the input. Zero matches is a valid outcome, not an error; the only
// failure mode is a malformed pattern.
func Apply(document string, patches ...Patch) (string, int, error) {
	current := document
	total := 0
	for _, p := range patches {
		re, err := compile(p)
		if err != nil {
			return document, 0, err
		}
		next, count := substitute(current, re, p)
		current = next
		total += count
	}
	if total == 0 {
		return document, 0, nil
	}
	return current, total, nil
}

// compile builds the regular expression for a patch. The (?s) prefix makes
// "." span line breaks: the fragments being matched are multi-line regions
// embedded in a larger document, not sequences of individually anchored lines.
func compile(p Patch) (*regexp.Regexp, error) {
	if p.Pattern == "" {
		return nil, &Error{Message: "empty pattern", Code: CodePatternInvalid}
	}
	re, err := regexp.Compile("(?s)" + p.Pattern)
	if err != nil {
		return nil, &Error{
			Message: fmt.Sprintf("invalid pattern %q: %v", p.Pattern, err),
			Code:    CodePatternInvalid,
		}
	}
	return re, nil
}

func substitute(document string, re *regexp.Regexp, p Patch) (string, int) {
	limit := -1
	if p.MatchPolicy == MatchFirst {
		limit = 1
	}
	matches := re.FindAllStringSubmatchIndex(document, limit)
	if len(matches) == 0 {
		return document, 0
	}

	var builder strings.Builder
	builder.Grow(len(document))
	last := 0
	for _, loc := range matches {
		builder.WriteString(document[last:loc[0]])
		if p.Expand {
			builder.Write(re.ExpandString(nil, p.Replacement, document, loc))
		} else {
			builder.WriteString(p.Replacement)
		}
		last = loc[1]
	}
	builder.WriteString(document[last:])
	return builder.String(), len(matches)
}

// Tolerant converts a literal source fragment into a pattern that matches the
// same tokens regardless of how the fragment is spaced or line-wrapped. Every
// regexp metacharacter in the fragment is quoted and each interior run of
// whitespace becomes \s+, so callers can paste a fragment straight from the
// target file without writing regexp syntax.
func Tolerant(fragment string) string {
	fields := strings.Fields(fragment)
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = regexp.QuoteMeta(field)
	}
	return strings.Join(quoted, `\s+`)
}

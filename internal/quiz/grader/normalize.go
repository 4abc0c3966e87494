package grader

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	punctuationRe   = regexp.MustCompile(`[.,!?;:]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Normalize reduces an answer to a canonical comparison form: lowercase,
// parentheticals removed, punctuation stripped, whitespace collapsed.
// "Paris (the capital)" and "paris" compare equal.
func Normalize(answer string) string {
	normalized := strings.ToLower(answer)
	normalized = parentheticalRe.ReplaceAllString(normalized, "")
	normalized = punctuationRe.ReplaceAllString(normalized, "")
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

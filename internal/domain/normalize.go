package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswer prepares a response for grading:
//   - Unicode NFC normalization (composed form, so "ë" typed as e+diaeresis
//     matches the precomposed letter)
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses internal whitespace runs into a single space
//
// Diacritics, hyphens, and apostrophes are preserved: they are meaningful
// in orthography exercises.
func NormalizeAnswer(text string) string {
	text = norm.NFC.String(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
		} else {
			prevSpace = false
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// AnswersMatch grades a response against the expected answer using
// normalized comparison.
func AnswersMatch(expected, response string) bool {
	return NormalizeAnswer(expected) == NormalizeAnswer(response)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n", ""},
		{"trims and lowers", "  Shtëpi  ", "shtëpi"},
		{"compresses inner spaces", "një   fjali  e gjatë", "një fjali e gjatë"},
		{"newlines become single space", "dy\nrreshta", "dy rreshta"},
		{"preserves hyphen and apostrophe", "T'i Bie-Bashkë", "t'i bie-bashkë"},
		{"nfc composes diacritics", "Shtëpi", "shtëpi"}, // e + combining diaeresis
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAnswer(tt.in))
		})
	}
}

func TestAnswersMatch(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		response string
		want     bool
	}{
		{"exact", "shtëpi", "shtëpi", true},
		{"case insensitive", "Shtëpi", "SHTËPI", true},
		{"surrounding whitespace", "shtëpi", "  shtëpi\n", true},
		{"nfc vs decomposed", "shtëpi", "shtëpi", true},
		{"different word", "shtëpi", "shkollë", false},
		{"missing diacritic is wrong", "shtëpi", "shtepi", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnswersMatch(tt.expected, tt.response))
		})
	}
}

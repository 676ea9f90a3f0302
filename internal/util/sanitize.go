package util

import (
	"strings"
	"unicode"

	"workforce-api/pkg/apierror"
)

const usernameSymbols = "@.+-_"

// SanitizeUsername trims name, strips invisible characters and rejects
// anything outside letters, digits and @.+-_.
func SanitizeUsername(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.Validation("username cannot be empty", "")
	}

	if strings.Contains(trimmed, "\x00") {
		return "", apierror.Validation("username contains null bytes", "")
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))

	for _, char := range trimmed {
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}

		if !unicode.IsLetter(char) && !unicode.IsDigit(char) && !strings.ContainsRune(usernameSymbols, char) {
			return "", apierror.Validation("username may only contain letters, digits and @.+-_", trimmed)
		}

		builder.WriteRune(char)
	}

	cleaned := builder.String()
	if cleaned == "" {
		return "", apierror.Validation("username is invalid after sanitization", trimmed)
	}

	return cleaned, nil
}

// isInvisibleUnicode reports zero-width, formatting and other invisible
// characters that would let two usernames look identical.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u2060', // Word Joiner
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}

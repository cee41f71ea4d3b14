package passquiz

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest accepted player name, in characters
const MaxNameLength = 40

var nameReplacer = strings.NewReplacer("<", "", ">", "", "'", "", `"`, "", "&", "")

// SanitizeName strips HTML-significant characters and surrounding whitespace
func SanitizeName(name string) string {
	return strings.TrimSpace(nameReplacer.Replace(name))
}

// NormalizeName sanitizes a submitted name and rejects it when empty or too long
func NormalizeName(name string) (string, error) {
	clean := SanitizeName(name)
	if clean == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if n := utf8.RuneCountInString(clean); n > MaxNameLength {
		return "", fmt.Errorf("%w: name has %d characters, limit is %d", ErrInvalidName, n, MaxNameLength)
	}
	return clean, nil
}

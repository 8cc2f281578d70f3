package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs
	MaxPathLength = 500
	// MaxIDLength is the maximum length for entity ids in logs
	MaxIDLength = 128
	// MaxTitleLength is the maximum length for titles and names in logs and reminders
	MaxTitleLength = 300
	// MaxErrorMessageLength is the maximum length for error messages in logs
	MaxErrorMessageLength = 1000
	// MaxGeneralStringLength is the maximum length for general strings in logs
	MaxGeneralStringLength = 2000
)

// SanitizeString strips control characters and invalid UTF-8 and truncates
// to maxLength bytes without splitting a rune. maxLength <= 0 means
// MaxGeneralStringLength.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsPrint(r) && r != ' ' && r != '\t' {
			continue
		}
		if b.Len()+utf8.RuneLen(r) > maxLength {
			b.WriteString("...")
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizePath sanitizes a URL path for safe logging
func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeID sanitizes a client-supplied id for safe logging
func SanitizeID(id string) string {
	return SanitizeString(id, MaxIDLength)
}

// SanitizeError sanitizes an error message for safe logging
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}

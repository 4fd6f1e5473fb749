package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs.
	MaxPathLength = 500
	// MaxPromptLength is the maximum length for prompt previews in logs.
	MaxPromptLength = 2000
)

// SanitizePath sanitizes a URL path for safe logging: strips control
// characters, repairs invalid UTF-8 and truncates to MaxPathLength.
func SanitizePath(path string) string {
	return sanitize(path, MaxPathLength)
}

// SanitizePrompt sanitizes free-text prompt content for safe logging.
func SanitizePrompt(prompt string) string {
	return sanitize(prompt, MaxPromptLength)
}

func sanitize(s string, maxLength int) string {
	if s == "" {
		return ""
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}

	return s
}

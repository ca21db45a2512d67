package util

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"helpdesk-console/pkg/apierror"
)

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename normalizes an uploaded attachment name before it is
// forwarded to the backend: path separators and shell-hostile characters
// become underscores, control and invisible runes are dropped. The name
// never decides where anything is written, but it does end up in
// Content-Disposition headers and on other users' screens.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.New("INVALID_FILENAME", "file name cannot be empty", "", http.StatusBadRequest)
	}

	if strings.Contains(trimmed, "\x00") {
		return "", apierror.New("INVALID_FILENAME", "file name contains null bytes", "", http.StatusBadRequest)
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || isInvisibleRune(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := unsafeFilenameChars.ReplaceAllString(builder.String(), "_")
	cleaned = strings.Trim(cleaned, ". ")

	if cleaned == "" {
		return "", apierror.New("INVALID_FILENAME", "file name has no usable characters", "", http.StatusBadRequest)
	}

	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}

	return cleaned, nil
}

func isInvisibleRune(char rune) bool {
	switch char {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u200E', // Left-to-Right Mark
		'\u200F', // Right-to-Left Mark
		'\u2060', // Word Joiner
		'\u2061', // Function Application
		'\u2062', // Invisible Times
		'\u2063', // Invisible Separator
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}
	return false
}

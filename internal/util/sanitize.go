package util

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"go-admin-console/pkg/apierror"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename strips control and invisible characters from a client
// supplied filename and replaces path-significant characters. Hidden names
// and "."/".." are rejected outright.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.New("INVALID_FILENAME", "filename cannot be empty", "", http.StatusBadRequest)
	}

	if strings.Contains(trimmed, "\x00") {
		return "", apierror.New("INVALID_FILENAME", "filename contains null bytes", trimmed, http.StatusBadRequest)
	}

	b := strings.Builder{}
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(b.String(), "_"))
	if cleaned == "" {
		return "", apierror.New("INVALID_FILENAME", "filename is invalid after sanitization", trimmed, http.StatusBadRequest)
	}

	// Truncate by runes so multi-byte characters are not split.
	runes := []rune(cleaned)
	if len(runes) > 255 {
		cleaned = string(runes[:255])
	}

	if strings.HasPrefix(cleaned, ".") {
		return "", apierror.New("INVALID_FILENAME", "hidden filenames are not allowed", cleaned, http.StatusBadRequest)
	}

	return cleaned, nil
}

package auth

import "strings"

// Whitelist decides whether a request path bypasses authentication. Two
// independent rules: prefix match and exact match; either one is enough.
// Comparison is literal and case-sensitive, with no normalization of
// trailing slashes.
type Whitelist struct {
	Prefixes []string
	Exact    []string
}

func NewWhitelist(prefixes []string, exact []string) *Whitelist {
	return &Whitelist{Prefixes: prefixes, Exact: exact}
}

func (w *Whitelist) Matches(path string) bool {
	if w == nil {
		return false
	}

	for _, prefix := range w.Prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}

	for _, exact := range w.Exact {
		if path == exact {
			return true
		}
	}

	return false
}

package repository

import "strings"

// orderClause renders the common sort convention shared by list queries:
// a caller-supplied direction of ASC or DESC (case-insensitive) orders by
// (sort, created_at) in that direction; anything else falls back to
// sort DESC, created_at DESC. Output is one of three fixed strings, never
// caller input.
func orderClause(direction string) string {
	switch strings.ToUpper(strings.TrimSpace(direction)) {
	case "ASC":
		return "ORDER BY sort ASC, created_at ASC"
	case "DESC":
		return "ORDER BY sort DESC, created_at DESC"
	default:
		return "ORDER BY sort DESC, created_at DESC"
	}
}

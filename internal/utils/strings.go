package utils

import (
	"strings"
)

// NormalizeLocation turns a free-text city name into the canonical key used
// for lane-rate rows: trimmed, lower-cased, single spaces.
func NormalizeLocation(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsFold reports whether substr is within s, ignoring case and
// surrounding/duplicate whitespace. An empty substr always matches.
func ContainsFold(s, substr string) bool {
	needle := NormalizeLocation(substr)
	if needle == "" {
		return true
	}
	return strings.Contains(NormalizeLocation(s), needle)
}

// LikePattern builds an ILIKE pattern for a substring match, escaping the
// wildcard characters of the input.
func LikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(NormalizeLocation(s)) + "%"
}

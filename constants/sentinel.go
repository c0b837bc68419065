package constants

import "strings"

// notFoundSentinels are string tokens models emit to mean "field not found",
// distinct from the field being structurally absent.
var notFoundSentinels = map[string]struct{}{
	"":              {},
	"n/a":           {},
	"na":            {},
	"none":          {},
	"null":          {},
	"not found":     {},
	"not specified": {},
}

// IsNotFoundSentinel reports whether s is a recognized "not found" stand-in
// (case-insensitive, whitespace-trimmed).
func IsNotFoundSentinel(s string) bool {
	_, ok := notFoundSentinels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

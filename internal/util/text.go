package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Fold lower-cases input and collapses runs of whitespace so headers and
// free-text answers compare loosely.
func Fold(input string) string {
	s := strings.ReplaceAll(input, "\u00A0", " ")
	s = strings.ToLower(s)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func ContainsAny(input string, probes ...string) bool {
	for _, p := range probes {
		if strings.Contains(input, p) {
			return true
		}
	}
	return false
}

func StringPtr(v string) *string { return &v }

func Int64Ptr(v int64) *int64 { return &v }

package validation

import (
	"strings"
	"unicode"
)

// ComputeInitial returns "X." from the first letter of name, or of fallback
// when name is empty. It returns "" when neither has a letter.
func ComputeInitial(name, fallback string) string {
	src := strings.TrimSpace(name)
	if src == "" {
		src = strings.TrimSpace(fallback)
	}
	for _, r := range src {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r)) + "."
		}
	}
	return ""
}

// localPartSegments splits a local part on '.', '-' and '_' after dropping
// any plus tag
func localPartSegments(local string) []string {
	if i := strings.Index(local, "+"); i >= 0 {
		local = local[:i]
	}
	return strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
}

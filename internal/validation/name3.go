package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// name3Noise is applied in order; the first match is stripped
var name3Noise = []*regexp.Regexp{
	regexp.MustCompile(`[+.\-][0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`),
	regexp.MustCompile(`[+\-][0-9a-f]{16,}$`),
	regexp.MustCompile(`[._+\-][0-9]{2,}$`),
	regexp.MustCompile(`([._+\-]?(19|20)[0-9]{2}([._\-]?q[1-4])?|[._+\-]q[1-4])$`),
}

// ComputeName3 derives the functional label of a non-personal address from
// its original local part. Tracking noise such as UUIDs, hashes, counters
// or dates is stripped and marked with a trailing '~'. It returns "" for
// personal addresses.
func ComputeName3(localPart string, isPersonal bool) string {
	original := strings.ToLower(strings.TrimSpace(localPart))
	if isPersonal || original == "" {
		return ""
	}

	for _, re := range name3Noise {
		loc := re.FindStringIndex(original)
		if loc == nil {
			continue
		}
		rest := strings.TrimRight(original[:loc[0]], "._+-")
		if utf8.RuneCountInString(rest) <= 1 {
			return original
		}
		return rest + "~"
	}
	return original
}

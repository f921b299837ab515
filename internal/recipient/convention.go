package recipient

import (
	"strings"
	"unicode"

	"github.com/mikey/email-reconciler/internal/core"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// detectionOrder lists conventions from most to least specific
var detectionOrder = []core.NamingConvention{
	core.ConventionFirstDotLast,
	core.ConventionLastDotFirst,
	core.ConventionInitialDotLast,
	core.ConventionFirstLast,
	core.ConventionInitialLast,
	core.ConventionFirst,
	core.ConventionLast,
}

var germanFold = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "Ä", "Ae", "Ö", "Oe", "Ü", "Ue", "ß", "ss",
)

// NormalizeName lowercases s and strips diacritics, so "Müller" and
// "muller" compare equal.
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ReplaceAll(s, "ß", "ss"))
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// NameVariants returns the distinct folded spellings of s: the plain
// diacritic fold and the German transliteration ("mueller").
func NameVariants(s string) []string {
	plain := NormalizeName(s)
	german := NormalizeName(germanFold.Replace(s))
	if german == plain {
		return []string{plain}
	}
	return []string{plain, german}
}

// NameTokens splits a name into folded comparison tokens. Hyphens separate
// tokens, apostrophes are dropped.
func NameTokens(s string) []string {
	s = NormalizeName(s)
	s = strings.NewReplacer("-", " ", "'", "", "’", "", ".", " ").Replace(s)
	return strings.Fields(s)
}

func compact(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RenderLocalPart builds the local part a convention would give a person.
// It returns "" when the convention needs a name part that is missing.
func RenderLocalPart(convention core.NamingConvention, given, surname string) string {
	return render(convention, compact(NormalizeName(given)), compact(NormalizeName(surname)))
}

func render(convention core.NamingConvention, first, last string) string {
	initial := ""
	if first != "" {
		initial = string([]rune(first)[:1])
	}
	fullFirst := len([]rune(first)) >= 2

	switch convention {
	case core.ConventionFirstDotLast:
		if fullFirst && last != "" {
			return first + "." + last
		}
	case core.ConventionLastDotFirst:
		if fullFirst && last != "" {
			return last + "." + first
		}
	case core.ConventionInitialDotLast:
		if initial != "" && last != "" {
			return initial + "." + last
		}
	case core.ConventionInitialLast:
		if initial != "" && last != "" {
			return initial + last
		}
	case core.ConventionFirstLast:
		if fullFirst && last != "" {
			return first + last
		}
	case core.ConventionFirst:
		if fullFirst {
			return first
		}
	case core.ConventionLast:
		if last != "" {
			return last
		}
	}
	return ""
}

// DetectConvention reports which naming convention turns given and surname
// into localPart. Plus tags and trailing digits are ignored; '_' and '-'
// count as '.'.
func DetectConvention(localPart, given, surname string) core.NamingConvention {
	lp := strings.ToLower(strings.TrimSpace(localPart))
	if i := strings.Index(lp, "+"); i >= 0 {
		lp = lp[:i]
	}
	lp = trailingDigitsPattern.ReplaceAllString(lp, "")
	lp = strings.NewReplacer("_", ".", "-", ".").Replace(NormalizeName(lp))
	if lp == "" {
		return core.ConventionUnknown
	}

	for _, g := range NameVariants(given) {
		for _, s := range NameVariants(surname) {
			first, last := compact(g), compact(s)
			for _, conv := range detectionOrder {
				if r := render(conv, first, last); r != "" && r == lp {
					return conv
				}
			}
		}
	}
	return core.ConventionUnknown
}

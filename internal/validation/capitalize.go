package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mikey/email-reconciler/internal/recipient"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// macExceptions are words starting with "mac" that are not Gaelic patronymics
var macExceptions = map[string]bool{
	"mace": true, "mack": true, "maceo": true, "macro": true,
	"machado": true, "machin": true, "macias": true, "maciel": true,
	"mackie": true, "macey": true, "mackey": true, "macon": true,
}

// CapitalizeProper normalizes the capitalization of a personal name.
// All-caps input carries no case information and is recased. Initials such
// as "J." are kept as they are. Particles stay lowercase unless first.
func CapitalizeProper(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}

	// casers keep state and are not safe for concurrent use
	title := cases.Title(language.Und)
	lower := cases.Lower(language.Und)

	for i, tok := range tokens {
		switch {
		case isInitial(tok):
		case i > 0 && recipient.IsNameParticle(lower.String(tok)):
			tokens[i] = lower.String(tok)
		default:
			tokens[i] = capitalizeToken(tok, title)
		}
	}
	return strings.Join(tokens, " ")
}

func isInitial(tok string) bool {
	n := utf8.RuneCountInString(tok)
	r, _ := utf8.DecodeRuneInString(tok)
	if !unicode.IsLetter(r) {
		return false
	}
	return n == 1 || (n == 2 && strings.HasSuffix(tok, "."))
}

// capitalizeToken recases every hyphen or apostrophe delimited segment
func capitalizeToken(tok string, title cases.Caser) string {
	var b strings.Builder
	start := 0
	for i, r := range tok {
		if r == '-' || r == '\'' || r == '’' {
			b.WriteString(capitalizeWord(tok[start:i], title))
			b.WriteRune(r)
			start = i + utf8.RuneLen(r)
		}
	}
	b.WriteString(capitalizeWord(tok[start:], title))
	return b.String()
}

func capitalizeWord(w string, title cases.Caser) string {
	if w == "" {
		return ""
	}
	out := []rune(title.String(w))
	low := strings.ToLower(w)

	switch {
	case strings.HasPrefix(low, "mc") && len(out) > 2:
		out[2] = unicode.ToUpper(out[2])
	case strings.HasPrefix(low, "mac") && len(out) > 3 && !macExceptions[low] && countLetters(out[3:]) >= 3:
		out[3] = unicode.ToUpper(out[3])
	}
	return string(out)
}

func countLetters(rs []rune) int {
	n := 0
	for _, r := range rs {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

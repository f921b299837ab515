package recipient

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	orgSeparators = []string{" - ", " – ", " — ", " | ", " / "}

	parenSuffixPattern = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)

	// "john.smith83", "jsmith_2"
	trailingDigitsPattern = regexp.MustCompile(`[._\-]?\d+$`)
)

// splitOrgSuffix separates a person's name from an organization suffix such
// as "Mario Rossi - ACME S.r.l." or "Mario Rossi (ACME)". When the
// organization comes first the parts are swapped.
func splitOrgSuffix(display string) (string, string) {
	name, org := display, ""
	found := false
	for _, sep := range orgSeparators {
		if i := strings.Index(display, sep); i >= 0 {
			name = strings.TrimSpace(display[:i])
			org = strings.TrimSpace(display[i+len(sep):])
			found = true
			break
		}
	}
	if !found {
		if m := parenSuffixPattern.FindStringSubmatch(display); m != nil && strings.TrimSpace(m[1]) != "" {
			name, org = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		} else if i := strings.Index(display, ","); i >= 0 && hasLegalSuffix(display[i+1:]) {
			name, org = strings.TrimSpace(display[:i]), strings.TrimSpace(display[i+1:])
		} else if stripped := stripLegalSuffix(display); stripped != "" {
			// "Mario Rossi GmbH": the whole display names the company
			name, org = stripped, strings.TrimSpace(display)
		}
	}

	if name == "" {
		return org, ""
	}
	if org != "" && looksLikeOrganization(name) && !looksLikeOrganization(org) {
		return org, name
	}
	return name, org
}

// stripLegalSuffix removes trailing legal-entity tokens from display. It
// returns "" when there are none or nothing else is left.
func stripLegalSuffix(display string) string {
	tokens := strings.Fields(display)
	n := len(tokens)
	for n > 0 && legalSuffixes[legalKey(tokens[n-1])] {
		n--
	}
	if n == len(tokens) || n == 0 {
		return ""
	}
	return strings.Join(tokens[:n], " ")
}

// isOrganization decides whether the name part of a display string names a
// company or a function rather than a person.
func isOrganization(namePart, orgPart string) bool {
	if strings.TrimSpace(namePart) == "" {
		return true
	}
	if looksLikeOrganization(namePart) {
		return true
	}
	tokens := strings.Fields(namePart)
	if len(tokens) == 1 && orgPart != "" && utf8.RuneCountInString(tokens[0]) >= 3 && isAllUpper(tokens[0]) {
		return true
	}
	// a name followed directly by a legal suffix is a company when it is a
	// single word or carries an all-caps word
	if orgPart != "" && strings.HasPrefix(orgPart, namePart) && hasLegalSuffix(orgPart[len(namePart):]) {
		if len(tokens) == 1 {
			return true
		}
		for _, tok := range tokens {
			if utf8.RuneCountInString(tok) >= 3 && isAllUpper(tok) {
				return true
			}
		}
	}
	return false
}

func looksLikeOrganization(s string) bool {
	if strings.ContainsAny(s, "&+@") {
		return true
	}
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	if hasLegalSuffix(s) {
		return true
	}
	for _, tok := range strings.Fields(s) {
		if nonPersonalWords[NormalizeName(strings.Trim(tok, `,;:.()"'`))] {
			return true
		}
	}
	return false
}

func hasLegalSuffix(s string) bool {
	for _, tok := range strings.Fields(s) {
		if legalSuffixes[legalKey(tok)] {
			return true
		}
	}
	return false
}

func legalKey(tok string) string {
	tok = strings.ToLower(tok)
	return strings.NewReplacer(".", "", ",", "", "(", "", ")", "").Replace(tok)
}

func titleKey(tok string) string {
	tok = strings.ToLower(strings.Trim(strings.TrimSpace(tok), ",;:"))
	return strings.TrimSuffix(tok, ".")
}

func isTitleToken(tok string) bool {
	_, ok := honorifics[titleKey(tok)]
	return ok
}

// stripTitles removes leading title tokens and returns the first one verbatim
func stripTitles(tokens []string) (string, []string) {
	title := ""
	i := 0
	for i < len(tokens) && isTitleToken(tokens[i]) {
		if title == "" {
			title = strings.Trim(tokens[i], ",;:")
		}
		i++
	}
	return title, tokens[i:]
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.Trim(tok, `,;:"()[]`)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// splitName splits a personal display name into title, given name and
// surname. Supports "Given Surname", "Surname, Given" and the all-caps
// surname-first "ROSSI Mario".
func splitName(namePart string) (title, given, surname string) {
	s := strings.TrimSpace(namePart)
	if s == "" {
		return "", "", ""
	}

	if i := strings.Index(s, ","); i >= 0 {
		leftTitle, left := stripTitles(strings.Fields(s[:i]))
		rightTitle, right := stripTitles(strings.Fields(s[i+1:]))
		title = leftTitle
		if title == "" {
			title = rightTitle
		}
		left, right = cleanTokens(left), cleanTokens(right)
		if len(right) == 0 {
			return title, strings.Join(left, " "), ""
		}
		return title, strings.Join(right, " "), strings.Join(left, " ")
	}

	title, tokens := stripTitles(strings.Fields(s))
	tokens = cleanTokens(tokens)
	switch len(tokens) {
	case 0:
		return title, "", ""
	case 1:
		return title, tokens[0], ""
	}

	if len(tokens) == 2 && isAllUpper(tokens[0]) && !isAllUpper(tokens[1]) && utf8.RuneCountInString(tokens[0]) > 1 {
		return title, tokens[1], tokens[0]
	}

	split := len(tokens) - 1
	for i := 1; i < len(tokens)-1; i++ {
		if nameParticles[strings.ToLower(tokens[i])] {
			split = i
			break
		}
	}
	return title, strings.Join(tokens[:split], " "), strings.Join(tokens[split:], " ")
}

// localPartNames derives capitalized given/surname hints from patterns such
// as firstname.lastname, f.lastname or camelCase JohnSmith. Unrecognized
// patterns yield empty strings.
func localPartNames(local string) (string, string) {
	if i := strings.Index(local, "+"); i >= 0 {
		local = local[:i]
	}
	local = trailingDigitsPattern.ReplaceAllString(local, "")

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for _, p := range parts {
		if !isLetters(p) {
			return "", ""
		}
	}

	switch len(parts) {
	case 1:
		return splitCamel(parts[0])
	case 2, 3:
		first, last := parts[0], parts[len(parts)-1]
		firstLen, lastLen := utf8.RuneCountInString(first), utf8.RuneCountInString(last)
		switch {
		case lastLen < 2:
			return "", ""
		case firstLen == 1:
			return strings.ToUpper(first) + ".", titleCase(last)
		default:
			return titleCase(first), titleCase(last)
		}
	}
	return "", ""
}

func splitCamel(s string) (string, string) {
	r := []rune(s)
	if len(r) < 3 {
		return "", ""
	}
	// "JSmith"
	if unicode.IsUpper(r[0]) && unicode.IsUpper(r[1]) && isLower(string(r[2:])) {
		return string(r[0]) + ".", titleCase(string(r[1:]))
	}

	boundary := -1
	for i := 1; i < len(r); i++ {
		if unicode.IsUpper(r[i]) && unicode.IsLower(r[i-1]) {
			if boundary >= 0 {
				return "", ""
			}
			boundary = i
		}
	}
	if boundary < 0 || len(r)-boundary < 2 {
		return "", ""
	}
	first, last := string(r[:boundary]), string(r[boundary:])
	if boundary == 1 {
		return strings.ToUpper(first) + ".", titleCase(last)
	}
	return titleCase(first), titleCase(last)
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isLower(s string) bool {
	for _, r := range s {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return s != ""
}

func titleCase(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return ""
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

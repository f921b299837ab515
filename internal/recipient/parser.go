// Package recipient turns raw From/To header segments into structured
// identity candidates.
package recipient

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/mimedecode"
)

// Confidence weights. They sum to 1.0; names inferred from the local part
// count for hintFactor of their weight.
const (
	weightEmail   = 0.5
	weightGiven   = 0.15
	weightSurname = 0.15
	weightTitle   = 0.1
	weightDisplay = 0.1
	hintFactor    = 0.5
)

const (
	maxEmailLength     = 254
	maxLocalPartLength = 64
)

var (
	emailPattern = regexp.MustCompile("(?i)^[a-z0-9!#$%&'*+/=?^_`{|}~-]+(\\.[a-z0-9!#$%&'*+/=?^_`{|}~-]+)*@([a-z0-9]([a-z0-9-]*[a-z0-9])?\\.)+[a-z]{2,}$")

	// tabs, dashes, bullets and quoting marks pasted in front of the header
	leadingGarbagePattern = regexp.MustCompile(`^[\s\-\x{2013}\x{2014}_*>\x{2022}\x{00B7}]+`)

	// legacy "addr (Display Name)" form
	commentAddressPattern = regexp.MustCompile(`^(\S+@\S+)\s*\((.*)\)$`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// IsValidEmail reports whether s is a syntactically valid email address
func IsValidEmail(s string) bool {
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at > maxLocalPartLength {
		return false
	}
	return emailPattern.MatchString(s)
}

// IsServiceAddress reports whether the local part of email is a known role
// account. The match is exact, so "infomario@" is not a service address.
func IsServiceAddress(email string) bool {
	local, _ := SplitEmail(strings.ToLower(strings.TrimSpace(email)))
	if local == "" {
		return false
	}
	return serviceLocalParts[local]
}

// IsServiceLocalPart reports whether a bare local part is a known role account
func IsServiceLocalPart(local string) bool {
	return serviceLocalParts[strings.ToLower(strings.TrimSpace(local))]
}

// SplitEmail splits an address into local part and domain
func SplitEmail(email string) (string, string) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email, ""
	}
	return email[:at], email[at+1:]
}

// MapTitleToGenre maps a title token such as "Sig.ra" or "Herr" to a genre
func MapTitleToGenre(title string) core.Genre {
	genre, ok := honorifics[titleKey(title)]
	if !ok {
		return core.GenreNone
	}
	return genre
}

// SplitAddress extracts the normalized address and the decoded display
// name from one header segment. Both are empty when no valid address is
// found.
func SplitAddress(raw string) (email string, display string) {
	addr, display := extractAddress(raw)
	if addr == "" {
		return "", ""
	}
	return strings.ToLower(addr), display
}

// extractAddress keeps the original case of the address so local-part
// camelCase can still be detected.
func extractAddress(raw string) (string, string) {
	s := stripLeadingGarbage(strings.TrimSpace(raw))
	if s == "" {
		return "", ""
	}

	var addr, display string
	if lt := strings.LastIndex(s, "<"); lt >= 0 {
		rest := s[lt+1:]
		if gt := strings.Index(rest, ">"); gt >= 0 {
			addr = rest[:gt]
			display = s[:lt]
			if strings.TrimSpace(display) == "" {
				display = rest[gt+1:]
			}
		} else {
			addr = rest
			display = s[:lt]
		}
	} else if m := commentAddressPattern.FindStringSubmatch(s); m != nil {
		addr, display = m[1], m[2]
	} else {
		addr = s
	}

	addr = cleanAddress(addr)
	if !IsValidEmail(addr) {
		return "", ""
	}

	display = cleanDisplay(mimedecode.FullyDecodeMime(display))
	if display != "" && IsValidEmail(cleanAddress(display)) {
		// "john@old.com <john.new@domain.com>": the display is not a name
		display = ""
	}
	return addr, display
}

func stripLeadingGarbage(s string) string {
	s = leadingGarbagePattern.ReplaceAllString(s, "")
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(s, q) && strings.Count(s, q)%2 == 1 {
			s = strings.TrimSpace(s[1:])
		}
	}
	return s
}

func cleanAddress(a string) string {
	a = strings.TrimSpace(a)
	a = strings.Trim(a, `"'`)
	if len(a) >= 7 && strings.EqualFold(a[:7], "mailto:") {
		a = a[7:]
	}
	return strings.TrimRight(strings.TrimSpace(a), ".,;:")
}

func cleanDisplay(d string) string {
	d = strings.ReplaceAll(d, `\"`, `"`)
	d = multiSpacePattern.ReplaceAllString(d, " ")
	for {
		trimmed := strings.TrimSpace(strings.Trim(strings.TrimSpace(d), `"'`))
		if trimmed == d {
			return d
		}
		d = trimmed
	}
}

// ParseRecipient converts one raw header segment into a ParsedRecipient. It
// never fails: unusable input yields an empty email and zero confidence.
func ParseRecipient(raw string) core.ParsedRecipient {
	result := core.ParsedRecipient{RawInput: raw}

	addr, display := extractAddress(raw)
	if addr == "" {
		return result
	}
	result.Email = strings.ToLower(addr)
	result.LocalPart, result.Domain = SplitEmail(result.Email)
	result.DisplayName = display

	service := serviceLocalParts[result.LocalPart]
	result.IsPersonal = !service

	fromHints := false
	if display != "" {
		namePart, orgPart := splitOrgSuffix(display)
		if isOrganization(namePart, orgPart) {
			result.CompanyName = display
			result.IsPersonal = false
		} else {
			result.CompanyName = orgPart
			result.Title, result.GivenName, result.Surname = splitName(namePart)
		}
	}

	if result.GivenName == "" && result.Surname == "" && result.IsPersonal {
		originalLocal, _ := SplitEmail(addr)
		result.GivenName, result.Surname = localPartNames(originalLocal)
		fromHints = result.GivenName != "" || result.Surname != ""
	}

	result.Confidence = scoreRecipient(result, fromHints)
	return result
}

func scoreRecipient(r core.ParsedRecipient, fromHints bool) float64 {
	if r.Email == "" {
		return 0
	}
	nameWeight := 1.0
	if fromHints {
		nameWeight = hintFactor
	}

	score := weightEmail
	if r.GivenName != "" {
		score += weightGiven * nameWeight
	}
	if r.Surname != "" {
		score += weightSurname * nameWeight
	}
	if r.Title != "" {
		score += weightTitle
	}
	if r.DisplayName != "" {
		score += weightDisplay
	}
	return math.Round(math.Min(math.Max(score, 0), 1)*100) / 100
}

// ParseRecipients splits a header on ',' and ';' outside quotes, angle
// brackets and comments, and parses every segment.
func ParseRecipients(input string) []core.ParsedRecipient {
	segments := SplitRecipientList(input)
	results := make([]core.ParsedRecipient, 0, len(segments))
	for _, seg := range segments {
		results = append(results, ParseRecipient(seg))
	}
	return results
}

// SplitRecipientList exposes the quote-aware splitter to intake adapters
func SplitRecipientList(input string) []string {
	var out []string
	for _, seg := range mergeDanglingSurnames(splitRecipientList(input)) {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func splitRecipientList(input string) []string {
	var (
		segments   []string
		current    strings.Builder
		inQuote    bool
		escaped    bool
		angleDepth int
		parenDepth int
	)
	for _, r := range input {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && inQuote:
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '<':
			angleDepth++
		case r == '>' && angleDepth > 0:
			angleDepth--
		case r == '(':
			parenDepth++
		case r == ')' && parenDepth > 0:
			parenDepth--
		case (r == ',' || r == ';') && angleDepth == 0 && parenDepth == 0:
			segments = append(segments, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	segments = append(segments, current.String())
	return segments
}

// mergeDanglingSurnames rejoins an unquoted "Smith, John <john@x.com>" that
// the separator split into "Smith" and "John <john@x.com>".
func mergeDanglingSurnames(segments []string) []string {
	merged := make([]string, 0, len(segments))
	for i := 0; i < len(segments); i++ {
		seg := strings.TrimSpace(segments[i])
		if seg != "" && !strings.Contains(seg, "@") && i+1 < len(segments) && strings.Contains(segments[i+1], "<") {
			merged = append(merged, seg+", "+strings.TrimSpace(segments[i+1]))
			i++
			continue
		}
		merged = append(merged, segments[i])
	}
	return merged
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

package reconcile

import (
	"strings"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/recipient"
)

// minLocalKeyLength keeps short local parts like "js" from matching across domains
const minLocalKeyLength = 4

var (
	umlautFold = strings.NewReplacer("ae", "a", "oe", "o", "ue", "u")
	localSeps  = strings.NewReplacer(".", "", "_", "", "-", "")
)

type namePair struct {
	given   string
	surname string
}

// nameSources collects the parsed names and any previously validated
// extraction stored on the record
func nameSources(parsed core.ParsedRecipient, msg *core.MsgEmailRecord) []namePair {
	var out []namePair
	if parsed.GivenName != "" || parsed.Surname != "" {
		out = append(out, namePair{parsed.GivenName, parsed.Surname})
	}
	if msg.AI != nil && (msg.AI.Result.Name1 != "" || msg.AI.Result.Name2 != "") {
		out = append(out, namePair{msg.AI.Result.Name1, msg.AI.Result.Name2})
	}
	return out
}

// scoreUser records every structural factor u earns against parsed
func scoreUser(ev *evidence, u core.UserRecord, parsed core.ParsedRecipient, names []namePair, pattern *core.DomainPattern, shared bool) {
	recipientKey := localKey(parsed.LocalPart)
	for _, email := range []string{u.Email, u.Email2} {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if email == parsed.Email {
			ev.add(u.ID, core.FactorEmailExact, strengthEmailExact)
			continue
		}
		local, _ := recipient.SplitEmail(email)
		if recipientKey != "" && localKey(local) == recipientKey {
			ev.add(u.ID, core.FactorEmailLocal, strengthEmailLocal)
		}
	}

	if !shared && inDomain(u, parsed.Domain) {
		ev.add(u.ID, core.FactorDomainMatch, strengthDomainMatch)
	}

	userTokens := tokens(u.Name)
	for _, n := range names {
		if f, s := nameFactor(n, userTokens); s > 0 {
			ev.add(u.ID, f, s)
		}
	}

	if !shared && pattern != nil && conventionMatches(pattern.Convention, parsed.LocalPart, u.Name) {
		ev.add(u.ID, core.FactorConventionMatch, strengthConventionMatch)
	}

	if companyMatches(parsed.CompanyName, userTokens) {
		ev.add(u.ID, core.FactorCompanyMatch, strengthCompanyMatch)
	}
}

// localKey folds a local part for cross-domain comparison. Role accounts
// and short keys never match.
func localKey(local string) string {
	local = strings.ToLower(local)
	if i := strings.Index(local, "+"); i >= 0 {
		local = local[:i]
	}
	if recipient.IsServiceLocalPart(local) {
		return ""
	}
	key := strings.TrimRight(localSeps.Replace(local), "0123456789")
	if len(key) < minLocalKeyLength {
		return ""
	}
	return key
}

func inDomain(u core.UserRecord, domain string) bool {
	if domain == "" {
		return false
	}
	candidates := []string{u.Domain, u.Domain2}
	for _, email := range []string{u.Email, u.Email2} {
		_, d := recipient.SplitEmail(email)
		candidates = append(candidates, d)
	}
	for _, d := range candidates {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if d == domain || strings.HasSuffix(d, "."+domain) || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

// tokens folds a name into comparison tokens; German transliterations
// collapse onto the plain fold on both sides
func tokens(s string) []string {
	ts := recipient.NameTokens(s)
	for i, t := range ts {
		ts[i] = umlautFold.Replace(t)
	}
	return ts
}

// nameFactor compares one name pair with a user's name tokens. Every token
// matching and nothing left over is an exact match; a matching surname is
// a partial one.
func nameFactor(n namePair, userTokens []string) (core.MatchFactor, float64) {
	given, surname := tokens(n.given), tokens(n.surname)
	if len(userTokens) == 0 || len(surname) == 0 {
		return "", 0
	}
	if !allMatch(surname, userTokens, false) {
		return "", 0
	}
	if len(given) > 0 && allMatch(given, userTokens, false) && len(given)+len(surname) == len(userTokens) {
		return core.FactorNameExact, strengthNameExact
	}
	if len(given) == 0 || allMatch(given, userTokens, true) {
		return core.FactorNamePartial, strengthNamePartial
	}
	return "", 0
}

// allMatch reports whether every token of want appears in have. With
// initials set, a one-letter token matches any token it starts.
func allMatch(want, have []string, initials bool) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if w == h || (initials && len(w) == 1 && strings.HasPrefix(h, w)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// conventionMatches reports whether the domain convention turns the user's
// name into the recipient's local part, in either name order
func conventionMatches(conv core.NamingConvention, localPart, name string) bool {
	if conv == "" || conv == core.ConventionUnknown {
		return false
	}
	ts := strings.Fields(name)
	if len(ts) != 2 {
		return false
	}
	return recipient.DetectConvention(localPart, ts[0], ts[1]) == conv ||
		recipient.DetectConvention(localPart, ts[1], ts[0]) == conv
}

// companyMatches requires every significant company token in the user name
func companyMatches(company string, userTokens []string) bool {
	if company == "" || len(userTokens) == 0 {
		return false
	}
	var significant []string
	for _, t := range tokens(company) {
		if len(t) >= 3 && !recipient.IsLegalSuffix(t) {
			significant = append(significant, t)
		}
	}
	return len(significant) > 0 && allMatch(significant, userTokens, false)
}

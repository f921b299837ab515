// Package prompts holds the prompts shared by every LLM adapter and decodes
// their JSON replies.
package prompts

import (
	"fmt"
	"strings"

	"github.com/mikey/email-reconciler/internal/core"
)

// SystemPrompt is sent as the system message where the provider supports one
const SystemPrompt = "You identify the people behind email addresses. Respond only with JSON."

const recipientFormat = `Extract the name of the person behind this email header segment.

Header: %s
Email: %s
Display name: %s
Domain: %s
Local part: %s
%s
Respond with a JSON object containing:
- name1: given name, or "" if unknown
- name2: surname, or "" if unknown
- genre: "Mr.", "Ms." or "" if it cannot be told
- email: the email address
- is_personal: boolean (false for role accounts such as info@ or sales@ and for organizations)
- confidence: number between 0 and 1 (how sure you are about name1 and name2)
- reasoning: string (one short sentence)

Do not invent names that are not supported by the header or the address.
Respond only with the JSON object and nothing else.`

const matchFormat = `Decide which known user, if any, is the person behind this email recipient.

Recipient:
%s
%s
Known users:
%s
Respond with a JSON object containing:
- best_match_id: id of the best matching user, or "" if none fits
- confidence: number between 0 and 1
- reasoning: string (one short sentence)
- alternative_match_ids: array of ids of other plausible users

Respond only with the JSON object and nothing else.`

// RecipientPrompt asks the model to extract a name. raw is the header
// segment as it should appear in the prompt.
func RecipientPrompt(in *core.LLMInput, raw string) string {
	return fmt.Sprintf(recipientFormat,
		raw,
		orNone(in.CleanedEmail),
		orNone(in.CleanedDisplay),
		orNone(in.Domain),
		orNone(in.LocalPart),
		conventionHint(in.DomainConvention))
}

// MatchPrompt asks the model to pick a directory user
func MatchPrompt(mc *core.MatchContext) string {
	var r strings.Builder
	fmt.Fprintf(&r, "- raw: %s\n", mc.Recipient.RawInput)
	fmt.Fprintf(&r, "- email: %s\n", orNone(mc.Recipient.Email))
	fmt.Fprintf(&r, "- display name: %s\n", orNone(mc.Recipient.DisplayName))
	fmt.Fprintf(&r, "- parsed name: %s\n", orNone(strings.TrimSpace(mc.Recipient.GivenName+" "+mc.Recipient.Surname)))
	if mc.Recipient.CompanyName != "" {
		fmt.Fprintf(&r, "- company: %s\n", mc.Recipient.CompanyName)
	}
	if mc.Extraction != nil {
		fmt.Fprintf(&r, "- extracted name: %s\n", orNone(strings.TrimSpace(mc.Extraction.Name1+" "+mc.Extraction.Name2)))
	}

	var users strings.Builder
	if len(mc.Candidates) == 0 {
		users.WriteString("(none)\n")
	}
	for _, u := range mc.Candidates {
		fmt.Fprintf(&users, "- id: %s | name: %s | email: %s", u.ID, orNone(u.Name), orNone(u.Email))
		if u.Email2 != "" {
			fmt.Fprintf(&users, " | email2: %s", u.Email2)
		}
		if u.UserCode != "" {
			fmt.Fprintf(&users, " | code: %s", u.UserCode)
		}
		users.WriteString("\n")
	}

	return fmt.Sprintf(matchFormat, r.String(), conventionHint(mc.DomainPattern), users.String())
}

func conventionHint(p *core.DomainPattern) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	if p.Convention != "" && p.Convention != core.ConventionUnknown {
		fmt.Fprintf(&b, "Addresses at %s usually follow %s (confidence %.2f over %d users).\n",
			p.Domain, p.Convention, p.Confidence, p.SampleSize)
	}
	if p.CompanyName != "" {
		fmt.Fprintf(&b, "The domain belongs to %s.\n", p.CompanyName)
	}
	if p.IsSharedDomain {
		fmt.Fprintf(&b, "%s is a shared mail provider; the domain says nothing about the employer.\n", p.Domain)
	}
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

// Package preprocess builds the minimal normalized view of a header segment
// that is handed to an LLM. It does not extract names itself.
package preprocess

import (
	"strings"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/recipient"
)

// PreprocessForLLM cleans one raw header segment. hint is attached verbatim
// when not nil. Unusable input yields an empty email and display.
func PreprocessForLLM(raw string, hint *core.DomainPattern) core.LLMInput {
	in := core.LLMInput{
		RawInput:         raw,
		DomainConvention: hint,
	}

	email, display := recipient.SplitAddress(strings.ToValidUTF8(raw, ""))
	if email == "" {
		return in
	}

	in.CleanedEmail = email
	in.CleanedDisplay = display
	in.LocalPart, in.Domain = recipient.SplitEmail(email)
	return in
}

// BatchPreprocessForLLM preprocesses every input, attaching the convention
// registered for its domain in conventions, if any.
func BatchPreprocessForLLM(inputs []string, conventions map[string]*core.DomainPattern) []core.LLMInput {
	out := make([]core.LLMInput, 0, len(inputs))
	for _, raw := range inputs {
		in := PreprocessForLLM(raw, nil)
		if in.Domain != "" && conventions != nil {
			in.DomainConvention = lookup(conventions, in.Domain)
		}
		out = append(out, in)
	}
	return out
}

func lookup(conventions map[string]*core.DomainPattern, domain string) *core.DomainPattern {
	if p, ok := conventions[domain]; ok {
		return p
	}
	for k, p := range conventions {
		if strings.EqualFold(k, domain) {
			return p
		}
	}
	return nil
}

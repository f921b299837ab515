package reconcile

import (
	"testing"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceRank(t *testing.T) {
	ev := newEvidence()
	ev.add("b", core.FactorDomainMatch, strengthDomainMatch)
	ev.add("b", core.FactorNameExact, strengthNameExact)
	ev.add("b", core.FactorConventionMatch, strengthConventionMatch)
	ev.add("a", core.FactorDomainMatch, strengthDomainMatch)
	ev.add("a", core.FactorNameExact, strengthNameExact)
	ev.add("a", core.FactorConventionMatch, strengthConventionMatch)
	ev.add("z", core.FactorEmailExact, strengthEmailExact)
	ev.track("empty")

	ranked := ev.rank()
	require.Len(t, ranked, 3)
	assert.Equal(t, "z", ranked[0].UserID)
	assert.Equal(t, "a", ranked[1].UserID)
	assert.Equal(t, "b", ranked[2].UserID)
	assert.Equal(t, 0.95, ranked[0].Score)
	assert.InDelta(t, 1-0.75*0.65*0.85, ranked[1].Score, 1e-4)
	assert.Equal(t, []core.MatchFactor{core.FactorDomainMatch, core.FactorNameExact, core.FactorConventionMatch}, ranked[1].MatchFactors)
}

func TestEvidenceAdd_KeepsStrongest(t *testing.T) {
	ev := newEvidence()
	ev.add("a", core.FactorLLMMatch, 0.1)
	ev.add("a", core.FactorLLMMatch, 0.3)
	ev.add("a", core.FactorLLMMatch, 0.2)
	ev.add("a", core.FactorCompanyMatch, 0)

	ranked := ev.rank()
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.3, ranked[0].Score)
	assert.Equal(t, []core.MatchFactor{core.FactorLLMMatch}, ranked[0].MatchFactors)
}

func TestNameFactor(t *testing.T) {
	user := tokens("Hans Müller")

	f, _ := nameFactor(namePair{"Hans", "Mueller"}, user)
	assert.Equal(t, core.FactorNameExact, f)

	f, _ = nameFactor(namePair{"Müller", "Hans"}, user)
	assert.Equal(t, core.FactorNameExact, f)

	f, _ = nameFactor(namePair{"H.", "Müller"}, user)
	assert.Equal(t, core.FactorNamePartial, f)

	f, _ = nameFactor(namePair{"", "Muller"}, user)
	assert.Equal(t, core.FactorNamePartial, f)

	f, s := nameFactor(namePair{"Peter", "Müller"}, user)
	assert.Equal(t, 0.0, s)
	assert.Empty(t, f)

	_, s = nameFactor(namePair{"Hans", ""}, user)
	assert.Equal(t, 0.0, s)
}

func TestLocalKey(t *testing.T) {
	assert.Equal(t, "johnsmith", localKey("John.Smith+promo"))
	assert.Equal(t, "johnsmith", localKey("john_smith77"))
	assert.Empty(t, localKey("info"))
	assert.Empty(t, localKey("js"))
}

func TestCompanyMatches(t *testing.T) {
	assert.True(t, companyMatches("ACME S.r.l.", tokens("Acme Srl")))
	assert.True(t, companyMatches("ACME GmbH", tokens("ACME Deutschland")))
	assert.False(t, companyMatches("Globex Inc", tokens("Acme Inc")))
	assert.False(t, companyMatches("", tokens("Acme")))
}

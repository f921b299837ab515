package recipient

import (
	"testing"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestDetectConvention(t *testing.T) {
	tests := []struct {
		local, given, surname string
		want                  core.NamingConvention
	}{
		{"john.smith", "John", "Smith", core.ConventionFirstDotLast},
		{"john_smith", "John", "Smith", core.ConventionFirstDotLast},
		{"smith.john", "John", "Smith", core.ConventionLastDotFirst},
		{"j.smith", "John", "Smith", core.ConventionInitialDotLast},
		{"jsmith", "John", "Smith", core.ConventionInitialLast},
		{"johnsmith", "John", "Smith", core.ConventionFirstLast},
		{"john", "John", "Smith", core.ConventionFirst},
		{"smith", "John", "Smith", core.ConventionLast},
		{"john.smith2", "John", "Smith", core.ConventionFirstDotLast},
		{"hans.mueller", "Hans", "Müller", core.ConventionFirstDotLast},
		{"hans.muller", "Hans", "Müller", core.ConventionFirstDotLast},
		{"jose.garcia", "José", "García", core.ConventionFirstDotLast},
		{"mario.vanbasten", "Mario", "van Basten", core.ConventionFirstDotLast},
		{"info", "John", "Smith", core.ConventionUnknown},
		{"", "John", "Smith", core.ConventionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.local, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectConvention(tt.local, tt.given, tt.surname))
		})
	}
}

func TestRenderLocalPart_RoundTrip(t *testing.T) {
	for _, conv := range detectionOrder {
		local := RenderLocalPart(conv, "Anna", "Weber")
		assert.NotEmpty(t, local, string(conv))
		assert.Equal(t, conv, DetectConvention(local, "Anna", "Weber"), string(conv))
	}
}

func TestRenderLocalPart_MissingParts(t *testing.T) {
	assert.Empty(t, RenderLocalPart(core.ConventionFirstDotLast, "", "Weber"))
	assert.Empty(t, RenderLocalPart(core.ConventionFirstDotLast, "A.", "Weber"))
	assert.Equal(t, "a.weber", RenderLocalPart(core.ConventionInitialDotLast, "A.", "Weber"))
	assert.Empty(t, RenderLocalPart(core.ConventionUnknown, "Anna", "Weber"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "muller", NormalizeName("Müller"))
	assert.Equal(t, "francois", NormalizeName(" François "))
	assert.Equal(t, "strasse", NormalizeName("Straße"))
	assert.Equal(t, []string{"muller", "mueller"}, NameVariants("Müller"))
	assert.Equal(t, []string{"rossi"}, NameVariants("Rossi"))
	assert.Equal(t, []string{"jean", "pierre", "obrien"}, NameTokens("Jean-Pierre O'Brien"))
}

package validation

import (
	"strings"
	"testing"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func personal(name1, name2, email string, confidence float64) *core.LLMExtractionResult {
	return &core.LLMExtractionResult{
		Name1:      name1,
		Name2:      name2,
		Email:      email,
		IsPersonal: true,
		Confidence: confidence,
	}
}

func TestValidateExtractionResult_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		candidate *core.LLMExtractionResult
		wantError string
	}{
		{"at sign in name", personal("john@example.com", "Smith", "", 0.9), "contains '@'"},
		{"all digits", personal("12345", "Smith", "", 0.9), "all digits"},
		{"bare url", personal("John", "https://example.com/about", "", 0.9), "is a URL"},
		{"www url", personal("www.example.com", "", "", 0.9), "is a URL"},
		{"bare domain", personal("acme.com", "", "", 0.9), "looks like a host name"},
		{"bare subdomain", personal("Mario", "mail.acme.co.uk", "", 0.9), "looks like a host name"},
		{"service prefix", personal("Info", "", "", 0.9), "service address prefix"},
		{"service prefix italian", personal("Vendite", "", "", 0.9), "service address prefix"},
		{"too long", personal(strings.Repeat("a", 61), "", "", 0.9), "too long"},
		{"bad email", personal("John", "Smith", "john at example", 0.9), "not a valid email format"},
		{"nil", nil, "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateExtractionResult(tt.candidate)
			assert.False(t, res.IsValid)
			assert.Nil(t, res.SanitizedResult)
			require.NotEmpty(t, res.Errors)
			assert.Contains(t, strings.Join(res.Errors, "; "), tt.wantError)
		})
	}
}

func TestValidateExtractionResult_Sanitizes(t *testing.T) {
	res := ValidateExtractionResult(&core.LLMExtractionResult{
		Name1:            "  JOHN ",
		Name2:            "mcdonald",
		Genre:            "male",
		Email:            " John.McDonald@Example.COM ",
		Domain:           "ignored.com",
		IsPersonal:       true,
		Confidence:       0.923,
		ExtractionStatus: core.StatusExtractedLow,
		Name3:            "should be cleared",
	})

	require.True(t, res.IsValid)
	require.NotNil(t, res.SanitizedResult)
	s := res.SanitizedResult
	assert.Equal(t, "John", s.Name1)
	assert.Equal(t, "McDonald", s.Name2)
	assert.Equal(t, "J.", s.Name1Pre)
	assert.Equal(t, "M.", s.Name2Pre)
	assert.Equal(t, "", s.Name3)
	assert.Equal(t, core.GenreMr, s.Genre)
	assert.Equal(t, "john.mcdonald@example.com", s.Email)
	assert.Equal(t, "example.com", s.Domain)
	assert.Equal(t, 0.92, s.Confidence)
	assert.Equal(t, core.StatusExtractedHigh, s.ExtractionStatus)
	assert.Empty(t, res.Warnings)
}

func TestValidateExtractionResult_InitialsFromLocalPart(t *testing.T) {
	res := ValidateExtractionResult(personal("", "", "anna-maria.weber@example.de", 0.6))
	require.True(t, res.IsValid)
	assert.Equal(t, "A.", res.SanitizedResult.Name1Pre)
	assert.Equal(t, "W.", res.SanitizedResult.Name2Pre)
	assert.Equal(t, core.StatusExtractedMedium, res.SanitizedResult.ExtractionStatus)
}

func TestValidateExtractionResult_NonPersonal(t *testing.T) {
	res := ValidateExtractionResult(&core.LLMExtractionResult{
		Email:      "newsletter-2024-q1@shop.com",
		IsPersonal: false,
		Confidence: 0.95,
	})
	require.True(t, res.IsValid)
	s := res.SanitizedResult
	assert.Equal(t, "newsletter~", s.Name3)
	assert.Empty(t, s.Name1Pre)
	assert.Empty(t, s.Name2Pre)
	assert.Equal(t, core.StatusNotApplicable, s.ExtractionStatus)
}

func TestValidateExtractionResult_Warnings(t *testing.T) {
	t.Run("personal flag on service address", func(t *testing.T) {
		res := ValidateExtractionResult(personal("Mario", "Rossi", "info@acme.it", 0.7))
		assert.True(t, res.IsValid)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "service address")
	})

	t.Run("confidence is clamped", func(t *testing.T) {
		res := ValidateExtractionResult(personal("Mario", "Rossi", "", 1.7))
		assert.True(t, res.IsValid)
		assert.Len(t, res.Warnings, 1)
		assert.Equal(t, 1.0, res.SanitizedResult.Confidence)
	})
}

func TestValidator_CustomSettings(t *testing.T) {
	v := NewValidator(Thresholds{High: 0.9, Medium: 0.6}, 10, zap.NewNop())

	res := v.Validate(personal("Bartholomew", "Smith", "", 0.95))
	assert.False(t, res.IsValid)

	res = v.Validate(personal("Bart", "Smith", "", 0.85))
	require.True(t, res.IsValid)
	assert.Equal(t, core.StatusExtractedMedium, res.SanitizedResult.ExtractionStatus)
}

func TestClassifyExtractionStatus(t *testing.T) {
	tests := []struct {
		name   string
		result *core.LLMExtractionResult
		want   core.ExtractionStatus
	}{
		{"high with both names", personal("John", "Smith", "", 0.9), core.StatusExtractedHigh},
		{"high boundary is inclusive", personal("John", "Smith", "", 0.8), core.StatusExtractedHigh},
		{"high without both names downgrades", personal("John", "", "", 0.9), core.StatusExtractedMedium},
		{"medium", personal("John", "Smith", "", 0.5), core.StatusExtractedMedium},
		{"low", personal("John", "Smith", "", 0.49), core.StatusExtractedLow},
		{"not personal ignores confidence", &core.LLMExtractionResult{Confidence: 0.99, Name1: "A", Name2: "B"}, core.StatusNotApplicable},
		{"upstream status is ignored", &core.LLMExtractionResult{IsPersonal: true, Confidence: 0.1, ExtractionStatus: core.StatusExtractedHigh}, core.StatusExtractedLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExtractionStatus(tt.result))
		})
	}
}

func TestNormalizeGenre(t *testing.T) {
	assert.Equal(t, core.GenreMr, NormalizeGenre("Mr."))
	assert.Equal(t, core.GenreMr, NormalizeGenre("MALE"))
	assert.Equal(t, core.GenreMs, NormalizeGenre("Ms."))
	assert.Equal(t, core.GenreMs, NormalizeGenre("Sig.ra"))
	assert.Equal(t, core.GenreMs, NormalizeGenre("female"))
	assert.Equal(t, core.GenreNone, NormalizeGenre("unknown"))
	assert.Equal(t, core.GenreNone, NormalizeGenre(""))
}

package validation

import (
	"strings"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/mikey/email-reconciler/internal/recipient"
)

// Thresholds are the confidence band boundaries. Both are inclusive lower
// bounds.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns the 0.8 / 0.5 bands
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.8, Medium: 0.5}
}

// Classify derives the extraction status from confidence and completeness.
// Any status already on r is ignored.
func (t Thresholds) Classify(r *core.LLMExtractionResult) core.ExtractionStatus {
	if r == nil {
		return core.StatusExtractedLow
	}
	if !r.IsPersonal {
		return core.StatusNotApplicable
	}
	switch {
	case r.Confidence >= t.High:
		if strings.TrimSpace(r.Name1) != "" && strings.TrimSpace(r.Name2) != "" {
			return core.StatusExtractedHigh
		}
		return core.StatusExtractedMedium
	case r.Confidence >= t.Medium:
		return core.StatusExtractedMedium
	default:
		return core.StatusExtractedLow
	}
}

// ClassifyExtractionStatus classifies r with the default thresholds
func ClassifyExtractionStatus(r *core.LLMExtractionResult) core.ExtractionStatus {
	return DefaultThresholds().Classify(r)
}

var genreWords = map[string]core.Genre{
	"m": core.GenreMr, "male": core.GenreMr, "man": core.GenreMr, "masculine": core.GenreMr,
	"f": core.GenreMs, "female": core.GenreMs, "woman": core.GenreMs, "feminine": core.GenreMs,
}

// NormalizeGenre maps free-form genre answers ("Mr", "female", "Sig.ra")
// to Mr., Ms. or none.
func NormalizeGenre(s string) core.Genre {
	key := strings.ToLower(strings.TrimSpace(s))
	if g, ok := genreWords[key]; ok {
		return g
	}
	return recipient.MapTitleToGenre(key)
}

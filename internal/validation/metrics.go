package validation

import (
	"math"
	"strings"

	"github.com/mikey/email-reconciler/internal/core"
)

// ExtractionMetrics aggregates a set of extraction results
type ExtractionMetrics struct {
	Total             int     `json:"total"`
	HighConfidence    int     `json:"high_confidence"`
	MediumConfidence  int     `json:"medium_confidence"`
	LowConfidence     int     `json:"low_confidence"`
	NotApplicable     int     `json:"not_applicable"`
	WithBothNames     int     `json:"with_both_names"`
	WithGenre         int     `json:"with_genre"`
	AverageConfidence float64 `json:"average_confidence"`
}

// Metrics counts results per recomputed status
func (t Thresholds) Metrics(results []core.LLMExtractionResult) ExtractionMetrics {
	m := ExtractionMetrics{Total: len(results)}
	if len(results) == 0 {
		return m
	}

	sum := 0.0
	for i := range results {
		r := &results[i]
		sum += r.Confidence

		switch t.Classify(r) {
		case core.StatusExtractedHigh:
			m.HighConfidence++
		case core.StatusExtractedMedium:
			m.MediumConfidence++
		case core.StatusExtractedLow:
			m.LowConfidence++
		case core.StatusNotApplicable:
			m.NotApplicable++
		}
		if strings.TrimSpace(r.Name1) != "" && strings.TrimSpace(r.Name2) != "" {
			m.WithBothNames++
		}
		if r.Genre != core.GenreNone {
			m.WithGenre++
		}
	}
	m.AverageConfidence = math.Round(sum/float64(len(results))*1000) / 1000
	return m
}

// GetExtractionMetrics aggregates results with the default thresholds
func GetExtractionMetrics(results []core.LLMExtractionResult) ExtractionMetrics {
	return DefaultThresholds().Metrics(results)
}

// BatchResult holds per-candidate verdicts and metrics over the accepted ones
type BatchResult struct {
	Results  []core.ValidationResult
	Metrics  ExtractionMetrics
	Rejected int
}

// BatchValidate validates every candidate in order
func (v *Validator) BatchValidate(candidates []*core.LLMExtractionResult) BatchResult {
	batch := BatchResult{Results: make([]core.ValidationResult, 0, len(candidates))}
	accepted := make([]core.LLMExtractionResult, 0, len(candidates))

	for _, c := range candidates {
		res := v.Validate(c)
		batch.Results = append(batch.Results, res)
		if !res.IsValid {
			batch.Rejected++
			continue
		}
		accepted = append(accepted, *res.SanitizedResult)
	}
	batch.Metrics = v.thresholds.Metrics(accepted)
	return batch
}

// BatchValidateResults validates candidates with the default settings
func BatchValidateResults(candidates []*core.LLMExtractionResult) BatchResult {
	return defaultValidator.BatchValidate(candidates)
}

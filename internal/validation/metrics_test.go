package validation

import (
	"testing"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExtractionMetrics_Empty(t *testing.T) {
	m := GetExtractionMetrics(nil)
	assert.Equal(t, ExtractionMetrics{}, m)
	assert.Equal(t, 0.0, m.AverageConfidence)
}

func TestGetExtractionMetrics(t *testing.T) {
	m := GetExtractionMetrics([]core.LLMExtractionResult{
		{Name1: "John", Name2: "Smith", IsPersonal: true, Confidence: 0.9, Genre: core.GenreMr},
		{Name1: "Anna", IsPersonal: true, Confidence: 0.9},
		{Name1: "Mario", Name2: "Rossi", IsPersonal: true, Confidence: 0.3, ExtractionStatus: core.StatusExtractedHigh},
		{IsPersonal: false, Confidence: 0.6},
	})

	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 1, m.HighConfidence)
	assert.Equal(t, 1, m.MediumConfidence)
	assert.Equal(t, 1, m.LowConfidence)
	assert.Equal(t, 1, m.NotApplicable)
	assert.Equal(t, 2, m.WithBothNames)
	assert.Equal(t, 1, m.WithGenre)
	assert.InDelta(t, 0.675, m.AverageConfidence, 1e-9)
}

func TestBatchValidateResults(t *testing.T) {
	batch := BatchValidateResults([]*core.LLMExtractionResult{
		personal("john", "smith", "john.smith@example.com", 0.9),
		personal("12345", "", "", 0.9),
		{Email: "info@example.com", Confidence: 0.8},
	})

	require.Len(t, batch.Results, 3)
	assert.True(t, batch.Results[0].IsValid)
	assert.False(t, batch.Results[1].IsValid)
	assert.True(t, batch.Results[2].IsValid)
	assert.Equal(t, 1, batch.Rejected)
	assert.Equal(t, 2, batch.Metrics.Total)
	assert.Equal(t, 1, batch.Metrics.HighConfidence)
	assert.Equal(t, 1, batch.Metrics.NotApplicable)
	assert.InDelta(t, 0.85, batch.Metrics.AverageConfidence, 1e-9)
}

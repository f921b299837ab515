package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "hello", tp.TruncateText("hello", 0))
	assert.Equal(t, "hello", tp.TruncateText("hello", 10))
	assert.Equal(t, "hel", tp.TruncateText("hello", 3))

	// "é" is two bytes; cutting inside it drops the whole rune
	got := tp.TruncateText("José", 4)
	assert.Equal(t, "Jos", got)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(nil)

	assert.Equal(t, "John Smith", tp.SanitizeUTF8("John\x00 Smith"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "line1\nline2\tend", tp.SanitizeUTF8("line1\nline2\tend"))
	assert.Equal(t, "Müller", tp.ProcessText("Müller\x07", 100))
}

func TestExtractJSONObject(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"surrounded", "Sure! Here it is: {\"a\":1} hope it helps", `{"a":1}`},
		{"fenced", "```json\n{\"a\": {\"b\": 2}}\n```", `{"a": {"b": 2}}`},
		{"nested braces", `x {"a":{"b":{}}} y`, `{"a":{"b":{}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tp.ExtractJSONObject(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "no json here", "} backwards {"} {
		_, err := tp.ExtractJSONObject(bad)
		assert.ErrorIs(t, err, ErrNoJSONObject)
	}
}

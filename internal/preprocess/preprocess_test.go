package preprocess

import (
	"testing"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessForLLM(t *testing.T) {
	t.Run("cleans email and display", func(t *testing.T) {
		in := PreprocessForLLM(`  "=?UTF-8?Q?Andr=C3=A9?=  Dupont" <Andre.Dupont@Example.FR>`, nil)
		assert.Equal(t, "andre.dupont@example.fr", in.CleanedEmail)
		assert.Equal(t, "André Dupont", in.CleanedDisplay)
		assert.Equal(t, "andre.dupont", in.LocalPart)
		assert.Equal(t, "example.fr", in.Domain)
		assert.Nil(t, in.DomainConvention)
	})

	t.Run("attaches hint verbatim", func(t *testing.T) {
		hint := &core.DomainPattern{Domain: "whatever.com", Convention: core.ConventionInitialLast, Confidence: 0.3}
		in := PreprocessForLLM("jdoe@example.com", hint)
		assert.Same(t, hint, in.DomainConvention)
		assert.Empty(t, in.CleanedDisplay)
	})

	t.Run("degrades on invalid input", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "not an address", "Jane <jane@>", "\xff\xfe"} {
			in := PreprocessForLLM(raw, nil)
			assert.Equal(t, raw, in.RawInput)
			assert.Empty(t, in.CleanedEmail)
			assert.Empty(t, in.CleanedDisplay)
			assert.Empty(t, in.Domain)
		}
	})

	t.Run("display that is an address is dropped", func(t *testing.T) {
		in := PreprocessForLLM("old@example.com <new@example.com>", nil)
		assert.Equal(t, "new@example.com", in.CleanedEmail)
		assert.Empty(t, in.CleanedDisplay)
	})
}

func TestBatchPreprocessForLLM(t *testing.T) {
	acme := &core.DomainPattern{Domain: "acme.com", Convention: core.ConventionFirstDotLast}
	conventions := map[string]*core.DomainPattern{"acme.com": acme}

	out := BatchPreprocessForLLM([]string{
		"Jane Doe <jane.doe@ACME.com>",
		"bob@other.org",
		"garbage",
	}, conventions)

	require.Len(t, out, 3)
	assert.Same(t, acme, out[0].DomainConvention)
	assert.Nil(t, out[1].DomainConvention)
	assert.Empty(t, out[2].CleanedEmail)
	assert.Nil(t, out[2].DomainConvention)

	assert.Empty(t, BatchPreprocessForLLM(nil, nil))
}

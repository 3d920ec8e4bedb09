package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(Parse, "parse structured", errors.New("bad json")))

	assert.True(t, errors.Is(err, Sentinel(Parse)))
	assert.False(t, errors.Is(err, Sentinel(Generation)))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, Parse, kind)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := New(Generation, "generate", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "generation failure: boom")
}

func TestKindOf_Unclassified(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"extraction", New(Extraction, "extract", nil), NoText},
		{"parse", New(Parse, "parse", nil), ExtractFailed},
		{"no candidates", New(NoCandidates, "generate", nil), NotAvailable},
		{"generation", New(Generation, "generate", nil), QueryError},
		{"plain", errors.New("x"), QueryError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Message(tc.err))
		})
	}
}

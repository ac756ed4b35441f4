package codegen

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesURLSafeCodes(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(code)
	require.NoError(t, err, "code must be raw URL-safe base64")
	assert.Len(t, decoded, codeBytes)
}

func TestGenerateDoesNotRepeat(t *testing.T) {
	// Probabilistic check: 10k draws from a 256-bit space colliding would
	// indicate a broken random source, not bad luck.
	seen := make(map[string]struct{}, 10000)
	for range 10000 {
		code, err := Generate()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code generated: %s", code)
		seen[code] = struct{}{}
	}
}

func TestGenerateSpreadsBytes(t *testing.T) {
	// Rough entropy sanity check: across many codes every byte value should
	// appear. A constant or heavily skewed source fails this.
	counts := make(map[byte]int)
	for range 1000 {
		code, err := Generate()
		require.NoError(t, err)
		decoded, err := base64.RawURLEncoding.DecodeString(code)
		require.NoError(t, err)
		for _, b := range decoded {
			counts[b]++
		}
	}
	assert.Greater(t, len(counts), 250, "byte distribution suspiciously narrow")
}

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_Deterministic(t *testing.T) {
	inputs := []string{"NFC-000012345", "12345", "FC12345", "stf-000000042", "", "  A-1\t"}
	for _, in := range inputs {
		first := Canonicalize(in)
		require.NotEmpty(t, first, "canonical set for %q must be non-empty", in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Canonicalize(in))
		}
	}
}

func TestCanonicalize_LegacyFormatsAreEquivalent(t *testing.T) {
	// The same card appears in the directory under all three historical
	// schemes; every pair must be judged equivalent.
	forms := []string{"NFC-000012345", "12345", "FC12345"}
	for _, a := range forms {
		for _, b := range forms {
			assert.True(t, MatchesStored(a, b), "%q should match %q", a, b)
		}
	}
}

func TestCanonicalize_StaffPrefix(t *testing.T) {
	assert.True(t, MatchesStored("STF-000000042", "42"))
	assert.True(t, MatchesStored("42", "stf-000000042"))
}

func TestCanonicalize_CaseAndWhitespace(t *testing.T) {
	assert.True(t, MatchesStored(" nfc-000012345\n", "NFC-000012345"))
	assert.True(t, MatchesStored("fc12345", "FC12345"))
}

func TestCanonicalize_ControlCharactersStripped(t *testing.T) {
	// Keyboard-wedge readers occasionally leak a trailing carriage return or
	// embedded NUL into the scan buffer.
	assert.True(t, MatchesStored("FC12345\r", "12345"))
	assert.True(t, MatchesStored("123\x0045", "12345"))
}

func TestCanonicalize_NoFalseEquivalence(t *testing.T) {
	assert.False(t, MatchesStored("NFC-000012345", "NFC-000012346"))
	assert.False(t, MatchesStored("12345", "123456"))
	assert.False(t, MatchesStored("ZZZ-999", "NFC-000012345"))
}

func TestCanonicalize_NumericExpansion(t *testing.T) {
	set := Canonicalize("12345")
	assert.Contains(t, set, "12345")
	assert.Contains(t, set, "000012345")
	assert.Contains(t, set, "NFC-000012345")
	assert.Contains(t, set, "STF-000012345")
	assert.Contains(t, set, "NFC-12345")
	assert.Contains(t, set, "STF-12345")
	assert.Contains(t, set, "nfc-000012345")
}

func TestCanonicalize_WideNumericNotTruncated(t *testing.T) {
	set := Canonicalize("1234567890")
	assert.Contains(t, set, "1234567890")
	assert.Contains(t, set, "NFC-1234567890")
}

func TestIntersects(t *testing.T) {
	assert.True(t, Intersects([]string{"a", "b", "c"}, []string{"c", "d"}))
	assert.False(t, Intersects([]string{"a", "b"}, []string{"c", "d"}))
	assert.False(t, Intersects(nil, []string{"a"}))
}

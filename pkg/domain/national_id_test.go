package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "recordhub/pkg/domain-errors"
)

// generateNationalID builds a valid national ID from a 9-digit base by
// appending the two computed check digits. Mirrors the real algorithm so
// tests can produce arbitrary valid values.
func generateNationalID(t *testing.T, base string) string {
	t.Helper()
	require.Len(t, base, 9)
	withFirst := base + fmt.Sprintf("%d", checkDigit(base+"00", 9))
	return withFirst + fmt.Sprintf("%d", checkDigit(withFirst+"0", 10))
}

func TestParseNationalID_AcceptsKnownValid(t *testing.T) {
	// 111.444.777-35 is the standard worked example for the mod-11 scheme.
	for _, input := range []string{
		"11144477735",
		"111.444.777-35",
		"111 444 777 35",
	} {
		t.Run(input, func(t *testing.T) {
			id, err := ParseNationalID(input)
			require.NoError(t, err)
			assert.Equal(t, "11144477735", id.String())
			assert.Equal(t, "111.444.777-35", id.Formatted())
		})
	}
}

func TestParseNationalID_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"too short":       "1114447773",
		"too long":        "111444777351",
		"letters only":    "abcdefghijk",
		"repeated digits": "11111111111",
		"bad first check": "11144477745",
		"bad last check":  "11144477736",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseNationalID(input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestParseNationalID_GeneratedValuesRoundTrip(t *testing.T) {
	bases := []string{"123456789", "987654321", "529982247", "000000191"}
	for _, base := range bases {
		full := generateNationalID(t, base)
		id, err := ParseNationalID(full)
		require.NoError(t, err, "generated %s should parse", full)
		assert.Equal(t, full, id.String())
	}
}

// Any single-digit mutation of a valid ID must fail at least one check digit
// or the repeated-digit rule.
func TestParseNationalID_SingleDigitMutationDetected(t *testing.T) {
	valid := generateNationalID(t, "123456789")
	for pos := 0; pos < len(valid); pos++ {
		for d := byte('0'); d <= '9'; d++ {
			if valid[pos] == d {
				continue
			}
			mutated := valid[:pos] + string(d) + valid[pos+1:]
			if _, err := ParseNationalID(mutated); err == nil {
				t.Fatalf("mutation at position %d (%s) was accepted", pos, mutated)
			}
		}
	}
}

func TestNationalID_FormattedPassthrough(t *testing.T) {
	// Formatted only applies the mask to canonical 11-digit values.
	assert.Equal(t, "short", NationalID("short").Formatted())
}

func TestStripNonDigits(t *testing.T) {
	assert.Equal(t, "12345", stripNonDigits(" 1-2.3 4/5 "))
	assert.Equal(t, "", stripNonDigits("no digits here"))
	assert.Equal(t, strings.Repeat("7", 11), stripNonDigits("777.777.777-77"))
}

package domain

import (
	"strings"

	dErrors "recordhub/pkg/domain-errors"
)

// NationalID is an 11-digit national identifier carrying two mod-11 check
// digits, stored in canonical digits-only form.
//
// Invariant: the value is exactly 11 digits and both check digits verify.
// Construct via ParseNationalID; direct casting bypasses validation.
type NationalID string

// ParseNationalID validates and canonicalizes a national ID. Punctuation
// (dots, dashes, spaces) is stripped before validation, so the common
// "ddd.ddd.ddd-dd" display form is accepted.
//
// Errors: CodeInvalidInput when the digit count is wrong, all digits are
// identical, or either check digit fails.
func ParseNationalID(s string) (NationalID, error) {
	digits := stripNonDigits(s)
	if len(digits) != 11 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national id must have 11 digits")
	}
	if allSameDigit(digits) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national id cannot be a repeated digit")
	}
	if checkDigit(digits, 9) != int(digits[9]-'0') {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national id check digit mismatch")
	}
	if checkDigit(digits, 10) != int(digits[10]-'0') {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national id check digit mismatch")
	}
	return NationalID(digits), nil
}

// checkDigit computes the mod-11 check digit over the first n digits, with
// descending weights n+1..2. The (sum*10)%11 form folds the "10 or 11 becomes
// 0" rule for remainder 11 automatically; 10 is mapped explicitly.
func checkDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	r := (sum * 10) % 11
	if r == 10 {
		r = 0
	}
	return r
}

func (n NationalID) String() string {
	return string(n)
}

// Formatted returns the conventional ddd.ddd.ddd-dd display form.
func (n NationalID) Formatted() string {
	s := string(n)
	if len(s) != 11 {
		return s
	}
	return s[0:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:11]
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

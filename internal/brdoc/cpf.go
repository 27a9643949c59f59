// Package brdoc validates and formats Brazilian personal documents and
// phone numbers as typed by users: CPF tax ids and DDD-prefixed phones.
package brdoc

import "strings"

const cpfLength = 11

// CleanDigits drops everything that is not an ASCII digit.
func CleanDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// ValidCPF reports whether s holds a CPF with correct check digits.
// Punctuation is ignored.
func ValidCPF(s string) bool {
	digits := CleanDigits(s)
	if len(digits) != cpfLength {
		return false
	}

	allEqual := true
	for i := 1; i < cpfLength; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	if cpfCheckDigit(digits[:9]) != int(digits[9]-'0') {
		return false
	}
	return cpfCheckDigit(digits[:10]) == int(digits[10]-'0')
}

// cpfCheckDigit weights the prefix from len+1 down to 2.
func cpfCheckDigit(prefix string) int {
	weight := len(prefix) + 1
	sum := 0
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

// FormatCPF applies the XXX.XXX.XXX-XX mask to as many digits as are
// present, so it can be used while the user is still typing.
func FormatCPF(digits string) string {
	if len(digits) > cpfLength {
		digits = digits[:cpfLength]
	}
	switch n := len(digits); {
	case n <= 3:
		return digits
	case n <= 6:
		return digits[:3] + "." + digits[3:]
	case n <= 9:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:]
	default:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
	}
}

package brdoc

import "github.com/go-playground/validator/v10"

const phoneMaxLength = 11

var validate = validator.New()

// ValidPhone accepts landlines (10 digits) and mobiles (11 digits), DDD included.
func ValidPhone(s string) bool {
	n := len(CleanDigits(s))
	return n == 10 || n == 11
}

// FormatPhone applies the (XX) XXXXX-XXXX mask progressively.
func FormatPhone(digits string) string {
	if len(digits) > phoneMaxLength {
		digits = digits[:phoneMaxLength]
	}
	switch n := len(digits); {
	case n == 0:
		return ""
	case n == 1:
		return "(" + digits
	case n == 2:
		return "(" + digits + ") "
	case n <= 7:
		return "(" + digits[:2] + ") " + digits[2:]
	default:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	}
}

// ValidEmail reports whether s is a bare e-mail address.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

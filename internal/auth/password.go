package auth

import (
	"regexp"
)

var (
	reLower   = regexp.MustCompile(`[a-z]`)
	reUpper   = regexp.MustCompile(`[A-Z]`)
	reDigit   = regexp.MustCompile(`\d`)
	reSpecial = regexp.MustCompile(`[^a-zA-Z\d]`)
)

// PasswordStrength оценивает пароль от 0 до 100 шагом 25: длина от 8,
// буквы обоих регистров, цифра, спецсимвол.
func PasswordStrength(pwd string) int {
	strength := 0
	if len(pwd) >= 8 {
		strength += 25
	}
	if reLower.MatchString(pwd) && reUpper.MatchString(pwd) {
		strength += 25
	}
	if reDigit.MatchString(pwd) {
		strength += 25
	}
	if reSpecial.MatchString(pwd) {
		strength += 25
	}
	return strength
}

// StrengthLabel подпись к оценке PasswordStrength.
func StrengthLabel(strength int) string {
	switch {
	case strength <= 25:
		return "Weak"
	case strength <= 50:
		return "Fair"
	case strength <= 75:
		return "Good"
	default:
		return "Strong"
	}
}

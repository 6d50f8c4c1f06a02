package utils

import (
	"regexp"
	"strings"
)

var (
	pkMobileRegex = regexp.MustCompile(`^(\+92|0092|92|0)?3[0-9]{9}$`)
	pkPhoneRegex  = regexp.MustCompile(`^(\+92|0)?[0-9]{10}$`)
	e164Regex     = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
)

func IsValidValueOfConstant(value string, constantValues []string) bool {
	for _, r := range constantValues {
		if r == value {
			return true
		}
	}
	return false
}

// NormalizePhone strips spaces, dashes and parentheses.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "").Replace(phone)
}

// IsValidPakistaniPhone accepts +92/0 prefixed ten digit numbers.
func IsValidPakistaniPhone(phone string) bool {
	return pkPhoneRegex.MatchString(NormalizePhone(phone))
}

// IsValidMobilePhone accepts Pakistani mobile numbers and international E.164 numbers.
func IsValidMobilePhone(phone string) bool {
	p := NormalizePhone(phone)
	return pkMobileRegex.MatchString(p) || pkPhoneRegex.MatchString(p) || e164Regex.MatchString(p)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

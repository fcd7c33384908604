package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// FormatCEP normalizes a postal code into NNNNN-NNN form. Non-digit
// characters are stripped and the result is left-padded with zeros to
// eight digits before splitting.
func FormatCEP(cep string) string {
	digits := nonDigits.ReplaceAllString(cep, "")
	if len(digits) > 8 {
		digits = digits[len(digits)-8:]
	}
	digits = strings.Repeat("0", 8-len(digits)) + digits
	return digits[:5] + "-" + digits[5:]
}

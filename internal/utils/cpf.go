package utils

import (
	"strconv"
)

// ValidateCPF validates a CPF number
// It checks if the CPF has 11 digits and validates the check digits
func ValidateCPF(cpf string) bool {
	cpf = nonDigits.ReplaceAllString(cpf, "")

	if len(cpf) != 11 {
		return false
	}

	// Sequences of a single repeated digit pass the checksum but are invalid
	allSame := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(cpf, 9) && checkDigit(cpf, 10)
}

// checkDigit validates the check digit at the given position, weighting
// the preceding digits per the Receita Federal algorithm
func checkDigit(cpf string, position int) bool {
	sum := 0
	for i := 0; i < position; i++ {
		digit, _ := strconv.Atoi(string(cpf[i]))
		sum += digit * (position + 1 - i)
	}
	remainder := sum % 11
	expected := "0"
	if remainder >= 2 {
		expected = strconv.Itoa(11 - remainder)
	}
	return string(cpf[position]) == expected
}

// FormatCPF renders an 11-digit CPF as NNN.NNN.NNN-NN for display in
// generated documents. Input that is not 11 digits is returned unchanged.
func FormatCPF(cpf string) string {
	digits := nonDigits.ReplaceAllString(cpf, "")
	if len(digits) != 11 {
		return cpf
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}

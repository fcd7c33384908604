package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name  string
		cpf   string
		valid bool
	}{
		{
			name:  "valid CPF without formatting",
			cpf:   "12345678909",
			valid: true,
		},
		{
			name:  "valid CPF with formatting",
			cpf:   "123.456.789-09",
			valid: true,
		},
		{
			name:  "valid CPF - real example",
			cpf:   "52998224725",
			valid: true,
		},
		{
			name:  "invalid CPF - wrong check digit",
			cpf:   "12345678900",
			valid: false,
		},
		{
			name:  "invalid CPF - all same digits",
			cpf:   "11111111111",
			valid: false,
		},
		{
			name:  "invalid CPF - too short",
			cpf:   "123456789",
			valid: false,
		},
		{
			name:  "invalid CPF - empty",
			cpf:   "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateCPF(tt.cpf))
		})
	}
}

func TestFormatCPF(t *testing.T) {
	assert.Equal(t, "123.456.789-09", FormatCPF("12345678909"))
	assert.Equal(t, "123.456.789-09", FormatCPF("123.456.789-09"))

	// Inputs that are not 11 digits come back unchanged
	assert.Equal(t, "12345", FormatCPF("12345"))
	assert.Equal(t, "", FormatCPF(""))
}

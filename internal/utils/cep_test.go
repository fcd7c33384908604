package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCEP(t *testing.T) {
	tests := []struct {
		name     string
		cep      string
		expected string
	}{
		{
			name:     "seven digits padded with leading zero",
			cep:      "1234567",
			expected: "01234-567",
		},
		{
			name:     "already formatted",
			cep:      "01310-100",
			expected: "01310-100",
		},
		{
			name:     "short input padded to eight digits",
			cep:      "123",
			expected: "00000-123",
		},
		{
			name:     "eight plain digits",
			cep:      "20211110",
			expected: "20211-110",
		},
		{
			name:     "letters and punctuation stripped",
			cep:      "CEP 20.211-110",
			expected: "20211-110",
		},
		{
			name:     "empty input",
			cep:      "",
			expected: "00000-000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCEP(tt.cep))
		})
	}
}

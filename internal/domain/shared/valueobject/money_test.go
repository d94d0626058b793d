package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"R$ 76,90", "76.9"},
		{"1234.56", "1234.56"},
		{"", "0"},
		{" - ", "0"},
		{"0,00", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBRL(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := ParseBRL("abc")
	assert.Error(t, err)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "1.234,56", FormatBRL(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "76,90", FormatBRL(decimal.RequireFromString("76.9")))
	assert.Equal(t, "R$ 0,00", FormatBRLWithSymbol(decimal.Zero))
}

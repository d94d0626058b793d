package csvimport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2019, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"05/03/2019", "5/3/2019", "05/03/19", "2019-03-05", " 05/03/2019 "} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		require.NotNil(t, got, in)
		assert.True(t, want.Equal(*got), in)
	}

	got, err := ParseDate("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("31/02/2019")
	assert.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct{ in, want string }{
		{"R$ 1.234,56", "1234.56"},
		{"1234,5", "1234.5"},
		{"1234.56", "1234.56"},
		{"10.000,00", "10000"},
		{"", "0"},
		{"-", "0"},
	}
	for _, tt := range tests {
		got, err := ParseDecimal(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}

	_, err := ParseDecimal("dez reais")
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"SIM", "sim", "S", "x", "1"} {
		v, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.True(t, v, in)
	}
	for _, in := range []string{"", "NÃO", "nao", "N", "0"} {
		v, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.False(t, v, in)
	}
	_, err := ParseBool("talvez")
	assert.Error(t, err)
}

func TestParseInt(t *testing.T) {
	n, err := ParseInt(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = ParseInt("")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = ParseInt("doze")
	assert.Error(t, err)
}

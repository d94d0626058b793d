package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		csv := "RAZÃO SOCIAL,CNPJ\nPadaria Ltda,12.345.678/0001-95"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)
		assert.Equal(t, ',', parser.Delimiter())
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		csv := "\xEF\xBB\xBFcnpj,cidade\n1,Curitiba"
		parser, err := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, err)

		require.NoError(t, parser.ParseHeader())
		assert.Equal(t, "CNPJ", parser.Headers()[0])
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("  \n"))

		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Semicolon delimiter is detected", func(t *testing.T) {
		csv := "RAZÃO SOCIAL;CIDADE;CAPITAL SOCIAL\nAcme;Curitiba;1.000,00"
		parser, err := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, ';', parser.Delimiter())
		assert.Equal(t, []string{"RAZAO SOCIAL", "CIDADE", "CAPITAL SOCIAL"}, parser.Headers())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "1.000,00", row.Get("Capital Social"))
	})

	t.Run("Explicit delimiter wins", func(t *testing.T) {
		csv := "a;b|c\n1;2|3"
		parser, err := NewCSVParser(strings.NewReader(csv), WithDelimiter('|'))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"A;B", "C"}, parser.Headers())
	})

	t.Run("Windows-1252 input is decoded", func(t *testing.T) {
		// "RAZÃO SOCIAL;CIDADE\nJoão ME;São Paulo" in Windows-1252
		csv := "RAZ\xc3O SOCIAL;CIDADE\nJo\xe3o ME;S\xe3o Paulo"
		parser, err := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "João ME", row.Get("RAZÃO SOCIAL"))
		assert.Equal(t, "São Paulo", row.Get("cidade"))
	})
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"RAZÃO SOCIAL", "RAZAO SOCIAL"},
		{"  razão   social ", "RAZAO SOCIAL"},
		{"CEP.", "CEP"},
		{"ATIVIDADES SECUNDÁRIAS", "ATIVIDADES SECUNDARIAS"},
		{"Inscrição Estadual", "INSCRICAO ESTADUAL"},
		{"E-MAIL SÓCIO 1", "E-MAIL SOCIO 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHeader(tt.in), tt.in)
	}
}

func TestParseHeader(t *testing.T) {
	t.Run("HasHeader is accent insensitive", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("REGIME TRIBUTÁRIO,CNPJ\nMEI,1"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.True(t, parser.HasHeader("Regime Tributario"))
		assert.True(t, parser.HasHeader("regime tributário"))
		assert.False(t, parser.HasHeader("NIRE"))
	})

	t.Run("ValidateHeaders lists missing columns", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("CNPJ,CIDADE\n1,2"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"RAZÃO SOCIAL"}, parser.ValidateHeaders([]string{"RAZÃO SOCIAL", "cnpj"}))
	})

	t.Run("Duplicate headers keep the first column", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("EMAIL,NOME,Email\na@x.com,Ana,b@x.com"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", row.Get("email"))
	})
}

func TestReadRow(t *testing.T) {
	csv := "CNPJ,CIDADE,ESTADO\n 111 , Curitiba ,PR\n222,Londrina\n"
	parser, err := NewCSVParser(strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	row, err := parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.LineNumber)
	assert.Equal(t, "111", row.Get("CNPJ"))
	assert.Equal(t, "Curitiba", row.Get("CIDADE"))

	row, err = parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 3, row.LineNumber)
	assert.Equal(t, "", row.Get("ESTADO"))
	assert.Equal(t, "SC", row.GetOrDefault("ESTADO", "SC"))

	_, err = parser.ReadRow()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 2, parser.TotalRows())
}

func TestReadAllRows(t *testing.T) {
	csv := "CNPJ,NOME\n1,A\n,\n2,B\n"
	parser, err := NewCSVParser(strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	rows, err := parser.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[1].Get("NOME"))
	assert.Equal(t, 4, rows[1].LineNumber)
}

func TestQuotedFields(t *testing.T) {
	csv := "NOME,ENDERECO\n\"Silva, Ana\",\"Rua A, 10\nSala 2\""
	parser, err := NewCSVParser(strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	row, err := parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "Silva, Ana", row.Get("NOME"))
	assert.Equal(t, "Rua A, 10\nSala 2", row.Get("ENDERECO"))
}

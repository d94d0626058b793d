package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// ParseBRL parses amounts written the Brazilian way ("1.234,56", "R$ 10,00")
// as well as plain decimals ("1234.56"). Empty input and a lone "-" yield zero.
func ParseBRL(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// FormatBRL renders an amount with pt-BR separators and two decimals,
// without the currency symbol ("1.234,56").
func FormatBRL(d decimal.Decimal) string {
	return brPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatBRLWithSymbol renders an amount as "R$ 1.234,56".
func FormatBRLWithSymbol(d decimal.Decimal) string {
	return "R$ " + FormatBRL(d)
}

package printing

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// templateFuncs are available to every document template
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"brl":   FormatBRL,
		"date":  FormatDate,
		"upper": strings.ToUpper,
		"cnpj":  valueobject.FormatCNPJ,
		"cpf":   valueobject.FormatCPF,
		"yesno": func(b bool) string {
			if b {
				return "Sim"
			}
			return "Não"
		},
		"list":   func(v ...any) []any { return v },
		"inc":    func(i int) int { return i + 1 },
		"orDash": func(s string) string {
			if strings.TrimSpace(s) == "" {
				return "-"
			}
			return s
		},
	}
}

// FormatBRL renders an amount as Brazilian currency, e.g. "R$ 1.234,56"
func FormatBRL(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return "R$ " + ptBR.Sprintf("%.2f", f)
}

// FormatDate renders t as dd/mm/yyyy. Zero times render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

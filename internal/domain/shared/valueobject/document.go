// Package valueobject holds small value types shared across the Brazilian
// business domains: tax documents, phone numbers and money.
package valueobject

import (
	"strings"
	"unicode"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// OnlyDigits strips every non-digit rune from s.
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCNPJ keeps the digits of a CNPJ and truncates to 14 characters.
func NormalizeCNPJ(cnpj string) string {
	d := OnlyDigits(cnpj)
	if len(d) > 14 {
		d = d[:14]
	}
	return d
}

// IsValidCNPJ reports whether cnpj has 14 digits with correct check digits.
func IsValidCNPJ(cnpj string) bool {
	d := OnlyDigits(cnpj)
	if len(d) != 14 || allSame(d) {
		return false
	}
	w1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(d[:12], w1) == int(d[12]-'0') &&
		checkDigit(d[:13], w2) == int(d[13]-'0')
}

// IsValidCPF reports whether cpf has 11 digits with correct check digits.
func IsValidCPF(cpf string) bool {
	d := OnlyDigits(cpf)
	if len(d) != 11 || allSame(d) {
		return false
	}
	w1 := []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	w2 := []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	return checkDigit(d[:9], w1) == int(d[9]-'0') &&
		checkDigit(d[:10], w2) == int(d[10]-'0')
}

// FormatCNPJ renders 14 digits as 00.000.000/0000-00. Other inputs are
// returned unchanged.
func FormatCNPJ(cnpj string) string {
	d := OnlyDigits(cnpj)
	if len(d) != 14 {
		return cnpj
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

// FormatCPF renders 11 digits as 000.000.000-00.
func FormatCPF(cpf string) string {
	d := OnlyDigits(cpf)
	if len(d) != 11 {
		return cpf
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// IsValidPhone accepts Brazilian numbers with 10 to 13 digits, with or
// without the 55 country code.
func IsValidPhone(phone string) bool {
	d := OnlyDigits(phone)
	return len(d) >= 10 && len(d) <= 13
}

// NormalizeWhatsAppNumber returns the digits of phone prefixed with the
// Brazilian country code, as expected by WhatsApp gateways.
func NormalizeWhatsAppNumber(phone string) (string, error) {
	d := OnlyDigits(phone)
	if len(d) < 10 || len(d) > 13 {
		return "", shared.NewDomainError("INVALID_PHONE", "Telefone inválido: "+phone)
	}
	// 10 and 11 digit numbers carry only the area code
	if len(d) <= 11 {
		d = "55" + d
	}
	return d, nil
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func allSame(s string) bool {
	for _, r := range s {
		if r != rune(s[0]) || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

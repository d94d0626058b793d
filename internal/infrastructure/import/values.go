package csvimport

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errInvalidValue = errors.New("invalid value")

// dateLayouts accepted in spreadsheet cells, Brazilian first
var dateLayouts = []string{"02/01/2006", "2/1/2006", "02/01/06", "2006-01-02", time.RFC3339}

// ParseDate parses dd/mm/yyyy or ISO dates. Empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errInvalidValue
}

// ParseDecimal parses amounts written as "R$ 1.234,56", "1234,56" or
// "1234.56". Empty input yields zero.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errInvalidValue
	}
	return d, nil
}

// ParseBool reads SIM/NÃO style flags. Empty input is false.
func ParseBool(s string) (bool, error) {
	switch NormalizeHeader(s) {
	case "", "NAO", "N", "FALSE", "0", "-":
		return false, nil
	case "SIM", "S", "X", "TRUE", "1":
		return true, nil
	}
	return false, errInvalidValue
}

// ParseInt parses an integer cell. Empty input yields zero.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errInvalidValue
	}
	return n, nil
}

// Package dasmei models the monthly DAS-MEI automation: client roster,
// generated guides, delivery schedule and logs, message templates, retry
// queue and provider configuration.
package dasmei

import (
	"fmt"
	"regexp"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

var (
	periodoCompact = regexp.MustCompile(`^(\d{4})(\d{2})$`)
	periodoSlash   = regexp.MustCompile(`^(\d{2})/(\d{4})$`)
	periodoDash    = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
)

// PreviousPeriod returns the YYYYMM of the month before now. The DAS of a
// month is issued in the following one.
func PreviousPeriod(now time.Time) string {
	y, m, _ := now.Date()
	if m == time.January {
		return fmt.Sprintf("%04d12", y-1)
	}
	return fmt.Sprintf("%04d%02d", y, int(m)-1)
}

// NormalizePeriodo accepts YYYYMM, MM/YYYY or YYYY-MM and returns YYYYMM
func NormalizePeriodo(s string) (string, error) {
	var year, month string
	switch {
	case periodoCompact.MatchString(s):
		m := periodoCompact.FindStringSubmatch(s)
		year, month = m[1], m[2]
	case periodoSlash.MatchString(s):
		m := periodoSlash.FindStringSubmatch(s)
		year, month = m[2], m[1]
	case periodoDash.MatchString(s):
		m := periodoDash.FindStringSubmatch(s)
		year, month = m[1], m[2]
	default:
		return "", shared.NewDomainError("INVALID_PERIODO", "Período deve estar no formato AAAAMM: "+s)
	}
	if month < "01" || month > "12" {
		return "", shared.NewDomainError("INVALID_PERIODO", "Mês inválido no período: "+s)
	}
	return year + month, nil
}

// IsValidPeriodo reports whether s is a YYYYMM period
func IsValidPeriodo(s string) bool {
	if !periodoCompact.MatchString(s) {
		return false
	}
	month := s[4:]
	return month >= "01" && month <= "12"
}

// PeriodoStart returns the first instant of the period's month in loc
func PeriodoStart(periodo string, loc *time.Location) (time.Time, error) {
	if !IsValidPeriodo(periodo) {
		return time.Time{}, shared.NewDomainError("INVALID_PERIODO", "Período inválido: "+periodo)
	}
	return time.ParseInLocation("200601", periodo, loc)
}

// FormatPeriodo renders YYYYMM as MM/YYYY
func FormatPeriodo(periodo string) string {
	if !IsValidPeriodo(periodo) {
		return periodo
	}
	return periodo[4:] + "/" + periodo[:4]
}

package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes orderDir to ASC or DESC; anything else is DESC
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, defaultField
// otherwise. Column names never reach ORDER BY unchecked.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY clause
func orderClause(sortField, sortOrder string, allowedFields map[string]bool, defaultField string) string {
	return ValidateSortField(sortField, allowedFields, defaultField) + " " + ValidateSortOrder(sortOrder)
}

// ClienteSortFields contains allowed sort fields for the client list
var ClienteSortFields = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"razao_social":      true,
	"nome_fantasia":     true,
	"cnpj":              true,
	"cidade":            true,
	"regime_tributario": true,
	"status":            true,
	"data_abertura":     true,
	"cliente_desde":     true,
	"dia_vencimento":    true,
	"valor_mensalidade": true,
}

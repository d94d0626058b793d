package dasmei

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GuiaStatus is the outcome of the guide generation
type GuiaStatus string

const (
	GuiaPending GuiaStatus = "pending"
	GuiaSuccess GuiaStatus = "success"
	GuiaFailed  GuiaStatus = "failed"
)

// DasGuia is the DAS of one client for one period. There is at most one per
// (client, period).
type DasGuia struct {
	ID             uuid.UUID
	ClienteMeiID   uuid.UUID
	Periodo        string
	DataVencimento *time.Time
	Valor          decimal.Decimal
	Principal      decimal.Decimal
	Multas         decimal.Decimal
	Juros          decimal.Decimal
	URL            string
	StorageKey     string
	FileName       string
	Situacao       string
	Status         GuiaStatus
	Erro           string
	Provider       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GuideData is what a DAS provider returns for a period
type GuideData struct {
	CNPJ           string
	RazaoSocial    string
	Periodo        string
	URL            string
	DataVencimento *time.Time
	Valor          decimal.Decimal
	Principal      decimal.Decimal
	Multas         decimal.Decimal
	Juros          decimal.Decimal
	Situacao       string
}

// GuideFileName is the canonical PDF name of a guide
func GuideFileName(cnpj, periodo string) string {
	return fmt.Sprintf("DAS_%s_%s.pdf", cnpj, periodo)
}

// NewPendingGuia creates an empty guide for a client and period
func NewPendingGuia(clienteID uuid.UUID, periodo, provider string) *DasGuia {
	now := time.Now()
	return &DasGuia{
		ID:           uuid.New(),
		ClienteMeiID: clienteID,
		Periodo:      periodo,
		Status:       GuiaPending,
		Provider:     provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MarkSuccess stores the provider data on the guide
func (g *DasGuia) MarkSuccess(cnpj string, data *GuideData, provider string) {
	g.DataVencimento = data.DataVencimento
	g.Valor = data.Valor
	g.Principal = data.Principal
	g.Multas = data.Multas
	g.Juros = data.Juros
	g.URL = data.URL
	g.Situacao = data.Situacao
	g.FileName = GuideFileName(cnpj, g.Periodo)
	g.Status = GuiaSuccess
	g.Erro = ""
	g.Provider = provider
	g.UpdatedAt = time.Now()
}

// MarkFailed records a generation error
func (g *DasGuia) MarkFailed(err error) {
	g.Status = GuiaFailed
	g.Erro = err.Error()
	g.UpdatedAt = time.Now()
}

// IsAvailable reports whether the guide can be downloaded
func (g *DasGuia) IsAvailable() bool {
	return g.Status == GuiaSuccess && (g.URL != "" || g.StorageKey != "")
}

// paidSituacoes are the provider situations that mean the guide is settled.
// Anything else ("Devedor", "Não pago", ...) is still owed.
var paidSituacoes = []string{"Pago", "Liquidado", "Quitado"}

// IsPaid reports whether the provider flagged the guide as settled or there
// is nothing to pay.
func (g *DasGuia) IsPaid() bool {
	situacao := strings.TrimSpace(g.Situacao)
	for _, paid := range paidSituacoes {
		if strings.EqualFold(situacao, paid) {
			return true
		}
	}
	return !g.Valor.IsPositive()
}

// DeliveryTemplate picks the message type for the monthly delivery
func (g *DasGuia) DeliveryTemplate() TemplateType {
	if g.IsPaid() {
		return TemplateBoletoPago
	}
	return TemplateBoletoDisponivel
}

// DueWithin reports whether the due date falls in [from, from+days]
func (g *DasGuia) DueWithin(from time.Time, days int) bool {
	if g.DataVencimento == nil {
		return false
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := start.AddDate(0, 0, days+1)
	due := *g.DataVencimento
	return !due.Before(start) && due.Before(end)
}

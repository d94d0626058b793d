package dasmei

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDasGuia_Lifecycle(t *testing.T) {
	venc := date(2025, time.May, 20)
	g := NewPendingGuia(uuid.New(), "202504", "infosimples")
	assert.Equal(t, GuiaPending, g.Status)
	assert.False(t, g.IsAvailable())

	g.MarkFailed(errors.New("timeout"))
	assert.Equal(t, GuiaFailed, g.Status)
	assert.Equal(t, "timeout", g.Erro)

	g.MarkSuccess("11222333000181", &GuideData{
		URL:            "https://example.com/das.pdf",
		DataVencimento: &venc,
		Valor:          decimal.RequireFromString("76.90"),
		Situacao:       "Devedor",
	}, "infosimples")

	assert.Equal(t, GuiaSuccess, g.Status)
	assert.Empty(t, g.Erro)
	assert.Equal(t, "DAS_11222333000181_202504.pdf", g.FileName)
	assert.True(t, g.IsAvailable())
	assert.Equal(t, TemplateBoletoDisponivel, g.DeliveryTemplate())
}

func TestDasGuia_DeliveryTemplate(t *testing.T) {
	tests := []struct {
		name     string
		valor    string
		situacao string
		want     TemplateType
	}{
		{"debt", "76.90", "Devedor", TemplateBoletoDisponivel},
		{"paid", "76.90", "Pago", TemplateBoletoPago},
		{"settled", "76.90", "Quitado", TemplateBoletoPago},
		{"liquidated lower case", "76.90", " liquidado ", TemplateBoletoPago},
		{"not paid", "76.90", "Não pago", TemplateBoletoDisponivel},
		{"not paid without accent", "76.90", "Nao Pago", TemplateBoletoDisponivel},
		{"unknown situation", "76.90", "Em aberto", TemplateBoletoDisponivel},
		{"zero value", "0", "", TemplateBoletoPago},
		{"zero value debt", "0", "Devedor", TemplateBoletoPago},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &DasGuia{Valor: decimal.RequireFromString(tt.valor), Situacao: tt.situacao}
			assert.Equal(t, tt.want, g.DeliveryTemplate())
		})
	}
}

func TestDasGuia_DueWithin(t *testing.T) {
	venc := date(2025, time.May, 20)
	g := &DasGuia{DataVencimento: &venc}

	assert.True(t, g.DueWithin(date(2025, time.May, 15), 5))
	assert.True(t, g.DueWithin(time.Date(2025, time.May, 20, 10, 0, 0, 0, time.UTC), 5))
	assert.False(t, g.DueWithin(date(2025, time.May, 14), 5))
	assert.False(t, g.DueWithin(date(2025, time.May, 21), 5))
	assert.False(t, (&DasGuia{}).DueWithin(date(2025, time.May, 15), 5))
}

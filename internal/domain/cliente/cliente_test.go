package cliente

import (
	"testing"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCliente(t *testing.T) {
	t.Run("normalizes fields and applies defaults", func(t *testing.T) {
		c, err := NewCliente(Cliente{
			RazaoSocial:  " Oficina do Zé ME ",
			CNPJ:         "11.222.333/0001-81",
			EmailEmpresa: "ZE@Oficina.com",
			Estado:       "sp",
		})

		require.NoError(t, err)
		assert.Equal(t, "Oficina do Zé ME", c.RazaoSocial)
		assert.Equal(t, "11222333000181", c.CNPJ)
		assert.Equal(t, "ze@oficina.com", c.EmailEmpresa)
		assert.Equal(t, "SP", c.Estado)
		assert.Equal(t, StatusAtivo, c.Status)
		assert.Equal(t, OrigemManual, c.Origem)
	})

	t.Run("requires razao social", func(t *testing.T) {
		_, err := NewCliente(Cliente{})
		assert.Error(t, err)
	})

	t.Run("rejects short cnpj", func(t *testing.T) {
		_, err := NewCliente(Cliente{RazaoSocial: "X", CNPJ: "123"})
		assert.Error(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewCliente(Cliente{RazaoSocial: "X", Status: "bloqueado"})
		assert.Error(t, err)
	})
}

func TestCliente_Replace(t *testing.T) {
	c, err := NewCliente(Cliente{RazaoSocial: "Empresa", Origem: OrigemImportacao})
	require.NoError(t, err)
	id, created := c.ID, c.CreatedAt

	t.Run("keeps identity and detects no ir change", func(t *testing.T) {
		changed, err := c.Replace(Cliente{RazaoSocial: "Empresa Nova", Cidade: "Campinas"})

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, id, c.ID)
		assert.Equal(t, created, c.CreatedAt)
		assert.Equal(t, "Empresa Nova", c.RazaoSocial)
		assert.Equal(t, StatusAtivo, c.Status)
		assert.Equal(t, OrigemImportacao, c.Origem)
	})

	t.Run("detects ir change", func(t *testing.T) {
		changed, err := c.Replace(Cliente{
			RazaoSocial:     "Empresa Nova",
			IrAnoReferencia: 2024,
			IrStatus:        "entregue",
			IrValorPagar:    decimal.RequireFromString("150.30"),
		})

		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, c.HasIrData())
	})
}

func TestCliente_IrSnapshot(t *testing.T) {
	now := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	c, _ := NewCliente(Cliente{RazaoSocial: "Empresa", IrStatus: "em_processamento"})

	h := c.IrSnapshot(now)
	assert.Equal(t, 2025, h.Ano)
	assert.Equal(t, c.ID, h.ClienteID)
	assert.Equal(t, "em_processamento", h.Status)

	c.IrAnoReferencia = 2023
	assert.Equal(t, 2023, c.IrSnapshot(now).Ano)
}

func TestFromRegistration(t *testing.T) {
	reg, err := registration.NewBusinessRegistration(registration.BusinessRegistration{
		RazaoSocial:   "Nova Empresa LTDA",
		EmailEmpresa:  "contato@nova.com",
		CapitalSocial: decimal.NewFromInt(20000),
		Socios:        []registration.Socio{{Nome: "Ana", CPF: "52998224725"}},
	})
	require.NoError(t, err)

	c, err := FromRegistration(reg)

	require.NoError(t, err)
	assert.Equal(t, "Nova Empresa LTDA", c.RazaoSocial)
	assert.Equal(t, OrigemWebsite, c.Origem)
	assert.Equal(t, StatusAtivo, c.Status)
	assert.Len(t, c.Socios, 1)
	assert.True(t, decimal.NewFromInt(20000).Equal(c.CapitalSocial))
}

func TestIrHistorico_Apply(t *testing.T) {
	h := &IrHistorico{Ano: 2024, Status: "nao_entregue"}
	status := "entregue"
	valor := decimal.RequireFromString("99.90")

	h.Apply(IrHistoricoPatch{Status: &status, ValorRestituir: &valor})

	assert.Equal(t, "entregue", h.Status)
	assert.True(t, valor.Equal(h.ValorRestituir))
}

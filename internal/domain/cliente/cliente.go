package cliente

import (
	"strings"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status of a client relationship
type Status string

const (
	StatusAtivo    Status = "ativo"
	StatusInativo  Status = "inativo"
	StatusSuspenso Status = "suspenso"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusAtivo || s == StatusInativo || s == StatusSuspenso
}

// Origins of a client record
const (
	OrigemWebsite    = "website"
	OrigemImportacao = "importacao"
	OrigemManual     = "manual"
)

// Cliente is a company served by the firm
type Cliente struct {
	shared.BaseEntity

	// Identification
	RazaoSocial        string
	NomeFantasia       string
	CNPJ               string
	InscricaoEstadual  string
	InscricaoMunicipal string
	NIRE               string
	DataAbertura       *time.Time
	ClienteDesde       *time.Time

	// Address
	Endereco    string
	Numero      string
	Complemento string
	Bairro      string
	Cidade      string
	Estado      string
	CEP         string

	// Contacts
	TelefoneEmpresa string
	EmailEmpresa    string
	Contato         string
	Celular         string
	Contato2        string
	Celular2        string

	// Fiscal
	RegimeTributario      string
	AtividadePrincipal    string
	AtividadesSecundarias string
	CapitalSocial         decimal.Decimal
	MetragemOcupada       string
	NotaServico           string
	NotaVenda             string

	// Digital certificate
	CertificadoDigital  string
	SenhaCertificado    string
	ValidadeCertificado *time.Time

	// Contract
	ValorMensalidade decimal.Decimal
	DiaVencimento    int
	Status           Status

	// Income tax of the owner for IrAnoReferencia
	ImpostoRenda     string
	IrAnoReferencia  int
	IrStatus         string
	IrDataEntrega    *time.Time
	IrValorPagar     decimal.Decimal
	IrValorRestituir decimal.Decimal
	IrObservacoes    string

	Socios []registration.Socio

	// Services
	PossuiFuncionarios     bool
	QuantidadeFuncionarios int
	PossuiProLabore        bool

	Documentos  []string
	Origem      string
	IndicadoPor string
	Observacoes string
}

// NewCliente validates and normalizes a client
func NewCliente(c Cliente) (*Cliente, error) {
	if err := c.normalize(); err != nil {
		return nil, err
	}
	c.BaseEntity = shared.NewBaseEntity()
	if c.Status == "" {
		c.Status = StatusAtivo
	}
	if c.Origem == "" {
		c.Origem = OrigemManual
	}
	return &c, nil
}

func (c *Cliente) normalize() error {
	c.RazaoSocial = strings.TrimSpace(c.RazaoSocial)
	if c.RazaoSocial == "" {
		return shared.NewDomainError("INVALID_RAZAO_SOCIAL", "Razão social é obrigatória")
	}
	c.CNPJ = valueobject.NormalizeCNPJ(c.CNPJ)
	if c.CNPJ != "" && len(c.CNPJ) != 14 {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ deve ter 14 dígitos")
	}
	c.EmailEmpresa = strings.ToLower(strings.TrimSpace(c.EmailEmpresa))
	c.Estado = strings.ToUpper(strings.TrimSpace(c.Estado))
	if c.Status != "" && !c.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status inválido: "+string(c.Status))
	}
	if c.DiaVencimento < 0 || c.DiaVencimento > 31 {
		return shared.NewDomainError("INVALID_DIA_VENCIMENTO", "Dia de vencimento deve estar entre 1 e 31")
	}
	return nil
}

// Replace overwrites every editable field with data. It reports whether any
// income tax field changed, which requires the history row to be refreshed.
func (c *Cliente) Replace(data Cliente) (irChanged bool, err error) {
	if err := data.normalize(); err != nil {
		return false, err
	}
	before := c.irFields()

	data.BaseEntity = c.BaseEntity
	if data.Status == "" {
		data.Status = c.Status
	}
	if data.Origem == "" {
		data.Origem = c.Origem
	}
	*c = data
	c.UpdatedAt = time.Now()

	return before != c.irFields(), nil
}

type irFields struct {
	imposto, status, obs string
	ano                  int
	entrega              string
	pagar, restituir     string
}

func (c *Cliente) irFields() irFields {
	f := irFields{
		imposto:   c.ImpostoRenda,
		status:    c.IrStatus,
		obs:       c.IrObservacoes,
		ano:       c.IrAnoReferencia,
		pagar:     c.IrValorPagar.String(),
		restituir: c.IrValorRestituir.String(),
	}
	if c.IrDataEntrega != nil {
		f.entrega = c.IrDataEntrega.Format("2006-01-02")
	}
	return f
}

// HasIrData reports whether any income tax field is filled in
func (c *Cliente) HasIrData() bool {
	return c.irFields() != irFields{pagar: "0", restituir: "0"}
}

// IrSnapshot builds the history row for the reference year, defaulting to
// the year of now.
func (c *Cliente) IrSnapshot(now time.Time) *IrHistorico {
	ano := c.IrAnoReferencia
	if ano == 0 {
		ano = now.Year()
	}
	return &IrHistorico{
		ClienteID:      c.ID,
		Ano:            ano,
		Status:         c.IrStatus,
		DataEntrega:    c.IrDataEntrega,
		ValorPagar:     c.IrValorPagar,
		ValorRestituir: c.IrValorRestituir,
		Observacoes:    c.IrObservacoes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// FromRegistration maps a submitted registration onto a new active client
func FromRegistration(r *registration.BusinessRegistration) (*Cliente, error) {
	socios := make([]registration.Socio, len(r.Socios))
	copy(socios, r.Socios)
	return NewCliente(Cliente{
		RazaoSocial:           r.RazaoSocial,
		NomeFantasia:          r.NomeFantasia,
		Endereco:              r.Endereco,
		TelefoneEmpresa:       r.TelefoneEmpresa,
		EmailEmpresa:          r.EmailEmpresa,
		AtividadePrincipal:    r.AtividadePrincipal,
		AtividadesSecundarias: r.AtividadesSecundarias,
		CapitalSocial:         r.CapitalSocial,
		Socios:                socios,
		Origem:                OrigemWebsite,
		Status:                StatusAtivo,
	})
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/shopspring/decimal"
)

// ClienteModel is the persistence model for the Cliente entity.
type ClienteModel struct {
	BaseModel
	RazaoSocial        string     `gorm:"type:varchar(255);not null;index"`
	NomeFantasia       string     `gorm:"type:varchar(255)"`
	CNPJ               string     `gorm:"type:varchar(20);uniqueIndex:idx_clientes_cnpj,where:cnpj <> ''"`
	InscricaoEstadual  string     `gorm:"type:varchar(50)"`
	InscricaoMunicipal string     `gorm:"type:varchar(50)"`
	NIRE               string     `gorm:"column:nire;type:varchar(50)"`
	DataAbertura       *time.Time `gorm:"index"`
	ClienteDesde       *time.Time `gorm:"index"`

	Endereco    string `gorm:"type:text"`
	Numero      string `gorm:"type:varchar(20)"`
	Complemento string `gorm:"type:varchar(100)"`
	Bairro      string `gorm:"type:varchar(100)"`
	Cidade      string `gorm:"type:varchar(100);index"`
	Estado      string `gorm:"type:varchar(2)"`
	CEP         string `gorm:"column:cep;type:varchar(10)"`

	TelefoneEmpresa string `gorm:"type:varchar(30)"`
	EmailEmpresa    string `gorm:"type:varchar(200)"`
	Contato         string `gorm:"type:varchar(200)"`
	Celular         string `gorm:"type:varchar(30)"`
	Contato2        string `gorm:"column:contato2;type:varchar(200)"`
	Celular2        string `gorm:"column:celular2;type:varchar(30)"`

	RegimeTributario      string          `gorm:"type:varchar(50);index"`
	AtividadePrincipal    string          `gorm:"type:text"`
	AtividadesSecundarias string          `gorm:"type:text"`
	CapitalSocial         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MetragemOcupada       string          `gorm:"type:varchar(50)"`
	NotaServico           string          `gorm:"type:varchar(50)"`
	NotaVenda             string          `gorm:"type:varchar(50)"`

	CertificadoDigital  string `gorm:"type:varchar(50)"`
	SenhaCertificado    string `gorm:"type:varchar(255)"`
	ValidadeCertificado *time.Time

	ValorMensalidade decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiaVencimento    int             `gorm:"not null;default:0"`
	Status           cliente.Status  `gorm:"type:varchar(20);not null;default:'ativo';index"`

	ImpostoRenda     string          `gorm:"type:varchar(10)"`
	IrAnoReferencia  int             `gorm:"not null;default:0"`
	IrStatus         string          `gorm:"type:varchar(30)"`
	IrDataEntrega    *time.Time
	IrValorPagar     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IrValorRestituir decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IrObservacoes    string          `gorm:"type:text"`

	Socios JSON[[]registration.Socio] `gorm:"type:jsonb;default:'[]'"`

	PossuiFuncionarios     bool `gorm:"not null;default:false"`
	QuantidadeFuncionarios int  `gorm:"not null;default:0"`
	PossuiProLabore        bool `gorm:"not null;default:false"`

	Documentos  StringList `gorm:"type:jsonb;default:'[]'"`
	Origem      string     `gorm:"type:varchar(30)"`
	IndicadoPor string     `gorm:"type:varchar(200)"`
	Observacoes string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClienteModel) TableName() string {
	return "clientes"
}

// ToDomain converts the persistence model to a domain Cliente.
func (m *ClienteModel) ToDomain() *cliente.Cliente {
	return &cliente.Cliente{
		BaseEntity:             m.BaseModel.ToDomain(),
		RazaoSocial:            m.RazaoSocial,
		NomeFantasia:           m.NomeFantasia,
		CNPJ:                   m.CNPJ,
		InscricaoEstadual:      m.InscricaoEstadual,
		InscricaoMunicipal:     m.InscricaoMunicipal,
		NIRE:                   m.NIRE,
		DataAbertura:           m.DataAbertura,
		ClienteDesde:           m.ClienteDesde,
		Endereco:               m.Endereco,
		Numero:                 m.Numero,
		Complemento:            m.Complemento,
		Bairro:                 m.Bairro,
		Cidade:                 m.Cidade,
		Estado:                 m.Estado,
		CEP:                    m.CEP,
		TelefoneEmpresa:        m.TelefoneEmpresa,
		EmailEmpresa:           m.EmailEmpresa,
		Contato:                m.Contato,
		Celular:                m.Celular,
		Contato2:               m.Contato2,
		Celular2:               m.Celular2,
		RegimeTributario:       m.RegimeTributario,
		AtividadePrincipal:     m.AtividadePrincipal,
		AtividadesSecundarias:  m.AtividadesSecundarias,
		CapitalSocial:          m.CapitalSocial,
		MetragemOcupada:        m.MetragemOcupada,
		NotaServico:            m.NotaServico,
		NotaVenda:              m.NotaVenda,
		CertificadoDigital:     m.CertificadoDigital,
		SenhaCertificado:       m.SenhaCertificado,
		ValidadeCertificado:    m.ValidadeCertificado,
		ValorMensalidade:       m.ValorMensalidade,
		DiaVencimento:          m.DiaVencimento,
		Status:                 m.Status,
		ImpostoRenda:           m.ImpostoRenda,
		IrAnoReferencia:        m.IrAnoReferencia,
		IrStatus:               m.IrStatus,
		IrDataEntrega:          m.IrDataEntrega,
		IrValorPagar:           m.IrValorPagar,
		IrValorRestituir:       m.IrValorRestituir,
		IrObservacoes:          m.IrObservacoes,
		Socios:                 m.Socios.Data,
		PossuiFuncionarios:     m.PossuiFuncionarios,
		QuantidadeFuncionarios: m.QuantidadeFuncionarios,
		PossuiProLabore:        m.PossuiProLabore,
		Documentos:             stringsOrEmpty(m.Documentos.Data),
		Origem:                 m.Origem,
		IndicadoPor:            m.IndicadoPor,
		Observacoes:            m.Observacoes,
	}
}

// FromDomain populates the persistence model from a domain Cliente.
func (m *ClienteModel) FromDomain(c *cliente.Cliente) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.RazaoSocial = c.RazaoSocial
	m.NomeFantasia = c.NomeFantasia
	m.CNPJ = c.CNPJ
	m.InscricaoEstadual = c.InscricaoEstadual
	m.InscricaoMunicipal = c.InscricaoMunicipal
	m.NIRE = c.NIRE
	m.DataAbertura = c.DataAbertura
	m.ClienteDesde = c.ClienteDesde
	m.Endereco = c.Endereco
	m.Numero = c.Numero
	m.Complemento = c.Complemento
	m.Bairro = c.Bairro
	m.Cidade = c.Cidade
	m.Estado = c.Estado
	m.CEP = c.CEP
	m.TelefoneEmpresa = c.TelefoneEmpresa
	m.EmailEmpresa = c.EmailEmpresa
	m.Contato = c.Contato
	m.Celular = c.Celular
	m.Contato2 = c.Contato2
	m.Celular2 = c.Celular2
	m.RegimeTributario = c.RegimeTributario
	m.AtividadePrincipal = c.AtividadePrincipal
	m.AtividadesSecundarias = c.AtividadesSecundarias
	m.CapitalSocial = c.CapitalSocial
	m.MetragemOcupada = c.MetragemOcupada
	m.NotaServico = c.NotaServico
	m.NotaVenda = c.NotaVenda
	m.CertificadoDigital = c.CertificadoDigital
	m.SenhaCertificado = c.SenhaCertificado
	m.ValidadeCertificado = c.ValidadeCertificado
	m.ValorMensalidade = c.ValorMensalidade
	m.DiaVencimento = c.DiaVencimento
	m.Status = c.Status
	m.ImpostoRenda = c.ImpostoRenda
	m.IrAnoReferencia = c.IrAnoReferencia
	m.IrStatus = c.IrStatus
	m.IrDataEntrega = c.IrDataEntrega
	m.IrValorPagar = c.IrValorPagar
	m.IrValorRestituir = c.IrValorRestituir
	m.IrObservacoes = c.IrObservacoes
	socios := c.Socios
	if socios == nil {
		socios = []registration.Socio{}
	}
	m.Socios = NewJSON(socios)
	m.PossuiFuncionarios = c.PossuiFuncionarios
	m.QuantidadeFuncionarios = c.QuantidadeFuncionarios
	m.PossuiProLabore = c.PossuiProLabore
	m.Documentos = NewJSON(stringsOrEmpty(c.Documentos))
	m.Origem = c.Origem
	m.IndicadoPor = c.IndicadoPor
	m.Observacoes = c.Observacoes
}

// ClienteModelFromDomain creates a new persistence model from a domain Cliente.
func ClienteModelFromDomain(c *cliente.Cliente) *ClienteModel {
	m := &ClienteModel{}
	m.FromDomain(c)
	return m
}

// IrHistoricoModel stores one income tax year of a client.
type IrHistoricoModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	ClienteID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ir_historico_cliente_ano,priority:1"`
	Ano            int             `gorm:"not null;uniqueIndex:idx_ir_historico_cliente_ano,priority:2"`
	Status         string          `gorm:"type:varchar(30)"`
	DataEntrega    *time.Time
	ValorPagar     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ValorRestituir decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Observacoes    string          `gorm:"type:text"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IrHistoricoModel) TableName() string {
	return "ir_historico"
}

// ToDomain converts the persistence model to a domain IrHistorico.
func (m *IrHistoricoModel) ToDomain() *cliente.IrHistorico {
	return &cliente.IrHistorico{
		ID:             m.ID,
		ClienteID:      m.ClienteID,
		Ano:            m.Ano,
		Status:         m.Status,
		DataEntrega:    m.DataEntrega,
		ValorPagar:     m.ValorPagar,
		ValorRestituir: m.ValorRestituir,
		Observacoes:    m.Observacoes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// IrHistoricoModelFromDomain creates a new persistence model from a domain IrHistorico.
func IrHistoricoModelFromDomain(h *cliente.IrHistorico) *IrHistoricoModel {
	return &IrHistoricoModel{
		ID:             h.ID,
		ClienteID:      h.ClienteID,
		Ano:            h.Ano,
		Status:         h.Status,
		DataEntrega:    h.DataEntrega,
		ValorPagar:     h.ValorPagar,
		ValorRestituir: h.ValorRestituir,
		Observacoes:    h.Observacoes,
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.UpdatedAt,
	}
}

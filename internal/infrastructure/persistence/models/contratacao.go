package models

import (
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
)

// ContratacaoModel is the persistence model for the ContratacaoFuncionario aggregate root.
// The form sections are stored as jsonb documents.
type ContratacaoModel struct {
	BaseModel
	Empresa               JSON[contratacao.Empresa]        `gorm:"type:jsonb;not null"`
	Funcionario           JSON[contratacao.Funcionario]    `gorm:"type:jsonb;not null"`
	Cargo                 JSON[contratacao.Cargo]          `gorm:"type:jsonb;not null"`
	Beneficios            JSON[contratacao.Beneficios]     `gorm:"type:jsonb;not null"`
	DadosBancarios        JSON[contratacao.DadosBancarios] `gorm:"type:jsonb;not null"`
	InformacoesAdicionais string                           `gorm:"type:text"`
	StorageFolder         string                           `gorm:"type:varchar(500)"`
	PDFKey                string                           `gorm:"type:varchar(500)"`
	DocumentKeys          StringList                       `gorm:"type:jsonb;default:'[]'"`
	Status                contratacao.Status               `gorm:"type:varchar(20);not null;default:'pending';index"`
}

// TableName returns the table name for GORM
func (ContratacaoModel) TableName() string {
	return "contratacoes_funcionarios"
}

// ToDomain converts the persistence model to a domain ContratacaoFuncionario.
func (m *ContratacaoModel) ToDomain() *contratacao.ContratacaoFuncionario {
	return &contratacao.ContratacaoFuncionario{
		BaseAggregateRoot:     m.BaseModel.ToAggregateRoot(),
		Empresa:               m.Empresa.Data,
		Funcionario:           m.Funcionario.Data,
		Cargo:                 m.Cargo.Data,
		Beneficios:            m.Beneficios.Data,
		DadosBancarios:        m.DadosBancarios.Data,
		InformacoesAdicionais: m.InformacoesAdicionais,
		StorageFolder:         m.StorageFolder,
		PDFKey:                m.PDFKey,
		DocumentKeys:          stringsOrEmpty(m.DocumentKeys.Data),
		Status:                m.Status,
	}
}

// FromDomain populates the persistence model from a domain ContratacaoFuncionario.
func (m *ContratacaoModel) FromDomain(c *contratacao.ContratacaoFuncionario) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Empresa = NewJSON(c.Empresa)
	m.Funcionario = NewJSON(c.Funcionario)
	m.Cargo = NewJSON(c.Cargo)
	m.Beneficios = NewJSON(c.Beneficios)
	m.DadosBancarios = NewJSON(c.DadosBancarios)
	m.InformacoesAdicionais = c.InformacoesAdicionais
	m.StorageFolder = c.StorageFolder
	m.PDFKey = c.PDFKey
	m.DocumentKeys = NewJSON(stringsOrEmpty(c.DocumentKeys))
	m.Status = c.Status
}

// ContratacaoModelFromDomain creates a new persistence model from a domain ContratacaoFuncionario.
func ContratacaoModelFromDomain(c *contratacao.ContratacaoFuncionario) *ContratacaoModel {
	m := &ContratacaoModel{}
	m.FromDomain(c)
	return m
}

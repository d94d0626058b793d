package dasmei

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
)

// Default delivery and due days of the month
const (
	DefaultDiaEnvio      = 10
	DefaultDiaVencimento = 20
)

// ClienteMei is a micro-entrepreneur enrolled in the DAS automation
type ClienteMei struct {
	ID            uuid.UUID
	Nome          string
	CNPJ          string
	Telefone      string
	Email         string
	DiaEnvio      int
	DiaVencimento int
	IsActive      bool
	Observacoes   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewClienteMei validates and creates an active MEI client
func NewClienteMei(nome, cnpj, telefone, email string) (*ClienteMei, error) {
	c := &ClienteMei{
		ID:            uuid.New(),
		DiaEnvio:      DefaultDiaEnvio,
		DiaVencimento: DefaultDiaVencimento,
		IsActive:      true,
	}
	if err := c.SetData(nome, cnpj, telefone, email); err != nil {
		return nil, err
	}
	c.CreatedAt = c.UpdatedAt
	return c, nil
}

// SetData updates the identification and contact fields
func (c *ClienteMei) SetData(nome, cnpj, telefone, email string) error {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return shared.NewDomainError("INVALID_NAME", "Nome é obrigatório")
	}
	cnpj = valueobject.OnlyDigits(cnpj)
	if len(cnpj) != 14 {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ deve ter 14 dígitos")
	}
	if telefone != "" && !valueobject.IsValidPhone(telefone) {
		return shared.NewDomainError("INVALID_PHONE", "Telefone inválido")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "E-mail inválido")
	}
	c.Nome = nome
	c.CNPJ = cnpj
	c.Telefone = valueobject.OnlyDigits(telefone)
	c.Email = email
	c.UpdatedAt = time.Now()
	return nil
}

// SetDays sets the delivery and due days of the month
func (c *ClienteMei) SetDays(diaEnvio, diaVencimento int) error {
	if diaEnvio < 1 || diaEnvio > 31 || diaVencimento < 1 || diaVencimento > 31 {
		return shared.NewDomainError("INVALID_DAY", "Dias devem estar entre 1 e 31")
	}
	c.DiaEnvio = diaEnvio
	c.DiaVencimento = diaVencimento
	c.UpdatedAt = time.Now()
	return nil
}

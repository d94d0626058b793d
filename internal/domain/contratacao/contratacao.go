package contratacao

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status of a hiring request
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusProcessing || s == StatusCompleted
}

// Empresa identifies the hiring company
type Empresa struct {
	RazaoSocial string `json:"razao_social"`
	CNPJ        string `json:"cnpj"`
	Endereco    string `json:"endereco"`
	Telefone    string `json:"telefone"`
	Email       string `json:"email"`
	Responsavel string `json:"responsavel"`
}

// Funcionario holds the new employee's personal data
type Funcionario struct {
	Nome           string `json:"nome"`
	CPF            string `json:"cpf"`
	RG             string `json:"rg"`
	DataNascimento string `json:"data_nascimento"`
	EstadoCivil    string `json:"estado_civil"`
	Escolaridade   string `json:"escolaridade"`
	Endereco       string `json:"endereco"`
	Telefone       string `json:"telefone"`
	Email          string `json:"email"`
	NomeMae        string `json:"nome_mae"`
	NomePai        string `json:"nome_pai"`
	PossuiCarteira bool   `json:"possui_carteira"`
	NumeroPIS      string `json:"numero_pis"`
}

// Cargo describes the position
type Cargo struct {
	Cargo        string          `json:"cargo"`
	Setor        string          `json:"setor"`
	Salario      decimal.Decimal `json:"salario"`
	CargaHoraria string          `json:"carga_horaria"`
	TipoContrato string          `json:"tipo_contrato"`
	DataAdmissao string          `json:"data_admissao"`
}

// Beneficios lists the benefits granted
type Beneficios struct {
	ValeTransporte    bool `json:"vale_transporte"`
	ValeRefeicao      bool `json:"vale_refeicao"`
	ValeAlimentacao   bool `json:"vale_alimentacao"`
	PlanoSaude        bool `json:"plano_saude"`
	PlanoOdontologico bool `json:"plano_odontologico"`
	SeguroVida        bool `json:"seguro_vida"`
}

// Names returns the granted benefits in display form
func (b Beneficios) Names() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	add(b.ValeTransporte, "Vale Transporte")
	add(b.ValeRefeicao, "Vale Refeição")
	add(b.ValeAlimentacao, "Vale Alimentação")
	add(b.PlanoSaude, "Plano de Saúde")
	add(b.PlanoOdontologico, "Plano Odontológico")
	add(b.SeguroVida, "Seguro de Vida")
	return out
}

// DadosBancarios is the employee's salary account
type DadosBancarios struct {
	Banco     string `json:"banco"`
	Agencia   string `json:"agencia"`
	Conta     string `json:"conta"`
	TipoConta string `json:"tipo_conta"`
}

// ContratacaoFuncionario is an employee hiring request sent by a client
type ContratacaoFuncionario struct {
	shared.BaseAggregateRoot
	Empresa               Empresa
	Funcionario           Funcionario
	Cargo                 Cargo
	Beneficios            Beneficios
	DadosBancarios        DadosBancarios
	InformacoesAdicionais string
	StorageFolder         string
	PDFKey                string
	DocumentKeys          []string
	Status                Status
}

// NewContratacao validates a hiring request
func NewContratacao(c ContratacaoFuncionario) (*ContratacaoFuncionario, error) {
	c.Empresa.RazaoSocial = strings.TrimSpace(c.Empresa.RazaoSocial)
	c.Funcionario.Nome = strings.TrimSpace(c.Funcionario.Nome)
	if c.Empresa.RazaoSocial == "" {
		return nil, shared.NewDomainError("INVALID_EMPRESA", "Razão social da empresa é obrigatória")
	}
	c.Empresa.CNPJ = valueobject.NormalizeCNPJ(c.Empresa.CNPJ)
	if len(c.Empresa.CNPJ) != 14 {
		return nil, shared.NewDomainError("INVALID_CNPJ", "CNPJ deve ter 14 dígitos")
	}
	if c.Funcionario.Nome == "" {
		return nil, shared.NewDomainError("INVALID_FUNCIONARIO", "Nome do funcionário é obrigatório")
	}
	c.Funcionario.CPF = valueobject.OnlyDigits(c.Funcionario.CPF)
	if len(c.Funcionario.CPF) != 11 {
		return nil, shared.NewDomainError("INVALID_CPF", "CPF do funcionário deve ter 11 dígitos")
	}
	if strings.TrimSpace(c.Cargo.Cargo) == "" {
		return nil, shared.NewDomainError("INVALID_CARGO", "Cargo é obrigatório")
	}
	if c.Cargo.Salario.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SALARIO", "Salário não pode ser negativo")
	}

	c.BaseAggregateRoot = shared.NewBaseAggregateRoot()
	c.Status = StatusPending
	return &c, nil
}

// UpdateStatus moves the request to another status
func (c *ContratacaoFuncionario) UpdateStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status inválido: "+string(status))
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

// MarkSubmitted records where documents were stored and raises the event
func (c *ContratacaoFuncionario) MarkSubmitted(folder, pdfKey string, documentKeys []string) {
	c.StorageFolder = folder
	c.PDFKey = pdfKey
	c.DocumentKeys = documentKeys
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(&SubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubmitted, AggregateType, c.ID),
		ContratacaoID:   c.ID,
	})
}

// AggregateType of hiring requests
const AggregateType = "ContratacaoFuncionario"

// EventTypeSubmitted is published after a hiring request is stored
const EventTypeSubmitted = "contratacao.submitted"

// SubmittedEvent references the stored request; handlers load it by ID
type SubmittedEvent struct {
	shared.BaseDomainEvent
	ContratacaoID uuid.UUID `json:"contratacao_id"`
}

// Repository persists hiring requests
type Repository interface {
	Create(ctx context.Context, c *ContratacaoFuncionario) error
	Update(ctx context.Context, c *ContratacaoFuncionario) error
	FindByID(ctx context.Context, id uuid.UUID) (*ContratacaoFuncionario, error)
	// FindAll returns requests newest first
	FindAll(ctx context.Context) ([]*ContratacaoFuncionario, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

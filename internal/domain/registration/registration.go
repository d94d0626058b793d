package registration

import (
	"strings"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the processing state of a business registration
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	// StatusConcluida marks a registration that was promoted to a client
	StatusConcluida Status = "concluida"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusConcluida:
		return true
	}
	return false
}

// Socio is a partner of the company being registered
type Socio struct {
	Nome                     string   `json:"nome"`
	Nacionalidade            string   `json:"nacionalidade"`
	CPF                      string   `json:"cpf"`
	SenhaGov                 string   `json:"senha_gov"`
	RG                       string   `json:"rg"`
	DataNascimento           string   `json:"data_nascimento"`
	FiliacaoPai              string   `json:"filiacao_pai"`
	FiliacaoMae              string   `json:"filiacao_mae"`
	Profissao                string   `json:"profissao"`
	EstadoCivil              string   `json:"estado_civil"`
	Endereco                 string   `json:"endereco"`
	Telefone                 string   `json:"telefone"`
	Email                    string   `json:"email"`
	DocumentoComFotoURL      string   `json:"documento_com_foto_url,omitempty"`
	CertidaoCasamentoURL     string   `json:"certidao_casamento_url,omitempty"`
	DocumentosAdicionaisURLs []string `json:"documentos_adicionais_urls,omitempty"`
}

// BusinessRegistration is a company opening request submitted through the
// public form. Partner documents and the generated PDF live in object storage
// under DriveFolder.
type BusinessRegistration struct {
	shared.BaseAggregateRoot
	RazaoSocial           string
	NomeFantasia          string
	Endereco              string
	InscricaoImobiliaria  string
	Metragem              int
	TelefoneEmpresa       string
	EmailEmpresa          string
	CapitalSocial         decimal.Decimal
	AtividadePrincipal    string
	AtividadesSecundarias string
	AtividadesSugeridas   []string
	Socios                []Socio
	DriveFolder           string
	PDFKey                string
	Status                Status
}

// NewBusinessRegistration validates the submitted data and builds a pending
// registration.
func NewBusinessRegistration(r BusinessRegistration) (*BusinessRegistration, error) {
	r.RazaoSocial = strings.TrimSpace(r.RazaoSocial)
	r.EmailEmpresa = strings.ToLower(strings.TrimSpace(r.EmailEmpresa))
	if r.RazaoSocial == "" {
		return nil, shared.NewDomainError("INVALID_RAZAO_SOCIAL", "Razão social é obrigatória")
	}
	if r.EmailEmpresa == "" || !strings.Contains(r.EmailEmpresa, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "E-mail da empresa inválido")
	}
	if err := validateSocios(r.Socios); err != nil {
		return nil, err
	}
	if r.CapitalSocial.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CAPITAL_SOCIAL", "Capital social não pode ser negativo")
	}
	for i := range r.Socios {
		r.Socios[i].CPF = valueobject.OnlyDigits(r.Socios[i].CPF)
	}

	r.BaseAggregateRoot = shared.NewBaseAggregateRoot()
	r.Status = StatusPending
	return &r, nil
}

func validateSocios(socios []Socio) error {
	if len(socios) == 0 {
		return shared.NewDomainError("INVALID_SOCIOS", "Informe ao menos um sócio")
	}
	for _, s := range socios {
		if strings.TrimSpace(s.Nome) == "" || valueobject.OnlyDigits(s.CPF) == "" {
			return shared.NewDomainError("INVALID_SOCIOS", "Todo sócio precisa de nome e CPF")
		}
	}
	return nil
}

// UpdateStatus moves the registration to another status
func (r *BusinessRegistration) UpdateStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status inválido: "+string(status))
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return nil
}

// Patch holds the editable registration fields. Nil fields are left as is.
type Patch struct {
	RazaoSocial        *string
	NomeFantasia       *string
	Endereco           *string
	TelefoneEmpresa    *string
	EmailEmpresa       *string
	CapitalSocial      *decimal.Decimal
	AtividadePrincipal *string
	Socios             []Socio
	Status             *Status
}

// Apply copies the non-nil patch fields onto the registration
func (r *BusinessRegistration) Apply(p Patch) error {
	if p.RazaoSocial != nil {
		if strings.TrimSpace(*p.RazaoSocial) == "" {
			return shared.NewDomainError("INVALID_RAZAO_SOCIAL", "Razão social é obrigatória")
		}
		r.RazaoSocial = strings.TrimSpace(*p.RazaoSocial)
	}
	if p.NomeFantasia != nil {
		r.NomeFantasia = *p.NomeFantasia
	}
	if p.Endereco != nil {
		r.Endereco = *p.Endereco
	}
	if p.TelefoneEmpresa != nil {
		r.TelefoneEmpresa = *p.TelefoneEmpresa
	}
	if p.EmailEmpresa != nil {
		r.EmailEmpresa = strings.ToLower(strings.TrimSpace(*p.EmailEmpresa))
	}
	if p.CapitalSocial != nil {
		r.CapitalSocial = *p.CapitalSocial
	}
	if p.AtividadePrincipal != nil {
		r.AtividadePrincipal = *p.AtividadePrincipal
	}
	if p.Socios != nil {
		if err := validateSocios(p.Socios); err != nil {
			return err
		}
		r.Socios = p.Socios
	}
	if p.Status != nil {
		return r.UpdateStatus(*p.Status)
	}
	r.UpdatedAt = time.Now()
	return nil
}

// MarkSubmitted records the storage locations and raises the submitted event
func (r *BusinessRegistration) MarkSubmitted(folder, pdfKey string) {
	r.DriveFolder = folder
	r.PDFKey = pdfKey
	r.UpdatedAt = time.Now()
	r.AddDomainEvent(NewRegistrationSubmittedEvent(r))
}

// PrimaryPartnerName returns the first partner's name
func (r *BusinessRegistration) PrimaryPartnerName() string {
	if len(r.Socios) == 0 {
		return ""
	}
	return r.Socios[0].Nome
}

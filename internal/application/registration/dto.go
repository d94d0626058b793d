package registration

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/shopspring/decimal"
)

// MaxFileSize is the largest accepted partner document
const MaxFileSize = 10 << 20

// AllowedDocumentTypes lists the MIME types accepted for partner documents
var AllowedDocumentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

// DocumentKind identifies which partner document a file is
type DocumentKind string

const (
	DocumentComFoto   DocumentKind = "documento_com_foto"
	DocumentCertidao  DocumentKind = "certidao_casamento"
	DocumentAdicional DocumentKind = "documento_adicional"
)

// Suffix returns the file name suffix used in storage
func (k DocumentKind) Suffix() string {
	switch k {
	case DocumentComFoto:
		return "DocumentoComFoto"
	case DocumentCertidao:
		return "CertidaoCasamento"
	default:
		return "DocumentoAdicional"
	}
}

// UploadedFile is a file received with a form submission
type UploadedFile struct {
	SocioIndex  int
	Kind        DocumentKind
	FileName    string
	ContentType string
	Content     []byte
}

// Size returns the file size in bytes
func (f UploadedFile) Size() int64 {
	return int64(len(f.Content))
}

// SubmitRequest is the public registration form
type SubmitRequest struct {
	RazaoSocial           string               `json:"razao_social" binding:"required,max=255"`
	NomeFantasia          string               `json:"nome_fantasia" binding:"max=255"`
	Endereco              string               `json:"endereco"`
	InscricaoImobiliaria  string               `json:"inscricao_imobiliaria"`
	Metragem              int                  `json:"metragem" binding:"gte=0"`
	TelefoneEmpresa       string               `json:"telefone_empresa"`
	EmailEmpresa          string               `json:"email_empresa" binding:"required,email"`
	CapitalSocial         decimal.Decimal      `json:"capital_social"`
	AtividadePrincipal    string               `json:"atividade_principal"`
	AtividadesSecundarias string               `json:"atividades_secundarias"`
	AtividadesSugeridas   []string             `json:"atividades_sugeridas"`
	Socios                []registration.Socio `json:"socios" binding:"required,min=1,dive"`
}

// UpdateRequest edits a registration; omitted fields are left unchanged
type UpdateRequest struct {
	RazaoSocial        *string              `json:"razao_social" binding:"omitempty,min=1,max=255"`
	NomeFantasia       *string              `json:"nome_fantasia"`
	Endereco           *string              `json:"endereco"`
	TelefoneEmpresa    *string              `json:"telefone_empresa"`
	EmailEmpresa       *string              `json:"email_empresa" binding:"omitempty,email"`
	CapitalSocial      *decimal.Decimal     `json:"capital_social"`
	AtividadePrincipal *string              `json:"atividade_principal"`
	Socios             []registration.Socio `json:"socios"`
	Status             *string              `json:"status"`
}

// UpdateStatusRequest changes a registration status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed"`
}

// RegistrationResponse is a registration in API responses
type RegistrationResponse struct {
	ID                    uuid.UUID            `json:"id"`
	RazaoSocial           string               `json:"razao_social"`
	NomeFantasia          string               `json:"nome_fantasia"`
	Endereco              string               `json:"endereco"`
	InscricaoImobiliaria  string               `json:"inscricao_imobiliaria"`
	Metragem              int                  `json:"metragem"`
	TelefoneEmpresa       string               `json:"telefone_empresa"`
	EmailEmpresa          string               `json:"email_empresa"`
	CapitalSocial         decimal.Decimal      `json:"capital_social"`
	AtividadePrincipal    string               `json:"atividade_principal"`
	AtividadesSecundarias string               `json:"atividades_secundarias"`
	AtividadesSugeridas   []string             `json:"atividades_sugeridas"`
	Socios                []registration.Socio `json:"socios"`
	DriveFolder           string               `json:"drive_folder,omitempty"`
	PDFKey                string               `json:"pdf_key,omitempty"`
	Status                string               `json:"status"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// ToRegistrationResponse converts a domain registration. Gov passwords are
// not exposed.
func ToRegistrationResponse(r *registration.BusinessRegistration) RegistrationResponse {
	socios := make([]registration.Socio, len(r.Socios))
	for i, s := range r.Socios {
		s.SenhaGov = ""
		socios[i] = s
	}
	return RegistrationResponse{
		ID:                    r.ID,
		RazaoSocial:           r.RazaoSocial,
		NomeFantasia:          r.NomeFantasia,
		Endereco:              r.Endereco,
		InscricaoImobiliaria:  r.InscricaoImobiliaria,
		Metragem:              r.Metragem,
		TelefoneEmpresa:       r.TelefoneEmpresa,
		EmailEmpresa:          r.EmailEmpresa,
		CapitalSocial:         r.CapitalSocial,
		AtividadePrincipal:    r.AtividadePrincipal,
		AtividadesSecundarias: r.AtividadesSecundarias,
		AtividadesSugeridas:   r.AtividadesSugeridas,
		Socios:                socios,
		DriveFolder:           r.DriveFolder,
		PDFKey:                r.PDFKey,
		Status:                string(r.Status),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// TaskResponse is a task in API responses
type TaskResponse struct {
	ID             uuid.UUID  `json:"id"`
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`
	ClienteID      *uuid.UUID `json:"cliente_id,omitempty"`
	TemplateID     *uuid.UUID `json:"template_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Department     string     `json:"department"`
	Status         string     `json:"status"`
	Order          int        `json:"order"`
	AssignedTo     *uuid.UUID `json:"assigned_to,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Observacao     string     `json:"observacao"`
	DataLembrete   *time.Time `json:"data_lembrete,omitempty"`
	CNPJ           string     `json:"cnpj"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToTaskResponse converts a domain task
func ToTaskResponse(t *registration.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		RegistrationID: t.RegistrationID,
		ClienteID:      t.ClienteID,
		TemplateID:     t.TemplateID,
		Title:          t.Title,
		Description:    t.Description,
		Department:     string(t.Department),
		Status:         string(t.Status),
		Order:          t.Order,
		AssignedTo:     t.AssignedTo,
		DueDate:        t.DueDate,
		CompletedAt:    t.CompletedAt,
		Observacao:     t.Observacao,
		DataLembrete:   t.DataLembrete,
		CNPJ:           t.CNPJ,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of tasks
func ToTaskResponses(tasks []*registration.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskResponse(t)
	}
	return out
}

// RegistrationWithTasks groups tasks under their owner. Client-only task
// groups use the id "cliente_{uuid}" and carry no registration fields
// beyond the client's identification.
type RegistrationWithTasks struct {
	ID           string         `json:"id"`
	IsCliente    bool           `json:"is_cliente"`
	RazaoSocial  string         `json:"razao_social"`
	NomeFantasia string         `json:"nome_fantasia"`
	EmailEmpresa string         `json:"email_empresa"`
	Telefone     string         `json:"telefone_empresa"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	Tasks        []TaskResponse `json:"tasks"`
}

// CreateTaskRequest creates an ad-hoc task
type CreateTaskRequest struct {
	RegistrationID *uuid.UUID `json:"registration_id"`
	ClienteID      *uuid.UUID `json:"cliente_id"`
	Title          string     `json:"title" binding:"required,max=255"`
	Description    string     `json:"description"`
	Department     string     `json:"department" binding:"required,oneof=societario fiscal pessoal"`
	Order          int        `json:"order"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date"`
	CNPJ           string     `json:"cnpj"`
}

// UpdateTaskStatusRequest changes a task status
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress completed"`
}

// AssignTaskRequest assigns a task to a user
type AssignTaskRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// UpdateTaskFieldRequest updates one whitelisted field
type UpdateTaskFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// TaskActivityResponse is a task activity in API responses
type TaskActivityResponse struct {
	ID          uuid.UUID  `json:"id"`
	TaskID      uuid.UUID  `json:"task_id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskFileResponse is a task attachment in API responses
type TaskFileResponse struct {
	ID           uuid.UUID  `json:"id"`
	TaskID       uuid.UUID  `json:"task_id"`
	FileName     string     `json:"file_name"`
	OriginalName string     `json:"original_name"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	UploadedBy   *uuid.UUID `json:"uploaded_by,omitempty"`
	DownloadURL  string     `json:"download_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TaskTemplateRequest creates or replaces a template
type TaskTemplateRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	Description   string `json:"description"`
	Department    string `json:"department" binding:"required,oneof=societario fiscal pessoal"`
	Order         int    `json:"order"`
	EstimatedDays int    `json:"estimated_days" binding:"gte=0"`
	IsRequired    bool   `json:"is_required"`
	IsActive      *bool  `json:"is_active"`
}

// TaskTemplateResponse is a template in API responses
type TaskTemplateResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Department    string    `json:"department"`
	Order         int       `json:"order"`
	EstimatedDays int       `json:"estimated_days"`
	IsRequired    bool      `json:"is_required"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToTaskTemplateResponse converts a domain template
func ToTaskTemplateResponse(t *registration.TaskTemplate) TaskTemplateResponse {
	return TaskTemplateResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Department:    string(t.Department),
		Order:         t.Order,
		EstimatedDays: t.EstimatedDays,
		IsRequired:    t.IsRequired,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
	}
}

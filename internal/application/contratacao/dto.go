package contratacao

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
)

// MaxDocuments is the largest number of files accepted per submission
const MaxDocuments = 10

// Document is a file received with the hiring form
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Size returns the file size in bytes
func (d Document) Size() int64 {
	return int64(len(d.Content))
}

// SubmitRequest is the public hiring form
type SubmitRequest struct {
	Empresa               contratacao.Empresa        `json:"empresa"`
	Funcionario           contratacao.Funcionario    `json:"funcionario"`
	Cargo                 contratacao.Cargo          `json:"cargo"`
	Beneficios            contratacao.Beneficios     `json:"beneficios"`
	DadosBancarios        contratacao.DadosBancarios `json:"dados_bancarios"`
	InformacoesAdicionais string                     `json:"informacoes_adicionais"`
}

// UpdateStatusRequest changes a hiring request status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed"`
}

// ContratacaoResponse is a hiring request in API responses
type ContratacaoResponse struct {
	ID                    uuid.UUID                  `json:"id"`
	Empresa               contratacao.Empresa        `json:"empresa"`
	Funcionario           contratacao.Funcionario    `json:"funcionario"`
	Cargo                 contratacao.Cargo          `json:"cargo"`
	Beneficios            contratacao.Beneficios     `json:"beneficios"`
	DadosBancarios        contratacao.DadosBancarios `json:"dados_bancarios"`
	InformacoesAdicionais string                     `json:"informacoes_adicionais"`
	StorageFolder         string                     `json:"storage_folder,omitempty"`
	PDFKey                string                     `json:"pdf_key,omitempty"`
	DocumentKeys          []string                   `json:"document_keys"`
	Status                string                     `json:"status"`
	CreatedAt             time.Time                  `json:"created_at"`
	UpdatedAt             time.Time                  `json:"updated_at"`
}

// ToContratacaoResponse converts a domain hiring request
func ToContratacaoResponse(c *contratacao.ContratacaoFuncionario) ContratacaoResponse {
	keys := c.DocumentKeys
	if keys == nil {
		keys = []string{}
	}
	return ContratacaoResponse{
		ID:                    c.ID,
		Empresa:               c.Empresa,
		Funcionario:           c.Funcionario,
		Cargo:                 c.Cargo,
		Beneficios:            c.Beneficios,
		DadosBancarios:        c.DadosBancarios,
		InformacoesAdicionais: c.InformacoesAdicionais,
		StorageFolder:         c.StorageFolder,
		PDFKey:                c.PDFKey,
		DocumentKeys:          keys,
		Status:                string(c.Status),
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

// WebhookPayload is posted to the automation endpoint for every new hiring
// request
type WebhookPayload struct {
	ID        uuid.UUID     `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Type      string        `json:"type"`
	EmailSent *EmailReceipt `json:"email_sent"`
	Data      WebhookData   `json:"data"`
	Storage   StorageInfo   `json:"object_storage"`
}

// EmailReceipt reports the internal e-mail delivery
type EmailReceipt struct {
	Success    bool      `json:"success"`
	Recipients []string  `json:"recipients"`
	Timestamp  time.Time `json:"timestamp"`
	MessageID  string    `json:"message_id,omitempty"`
}

// WebhookData is the submitted form
type WebhookData struct {
	Empresa               contratacao.Empresa        `json:"empresa"`
	Funcionario           contratacao.Funcionario    `json:"funcionario"`
	Cargo                 contratacao.Cargo          `json:"cargo"`
	Beneficios            contratacao.Beneficios     `json:"beneficios"`
	DadosBancarios        contratacao.DadosBancarios `json:"dados_bancarios"`
	InformacoesAdicionais string                     `json:"informacoes_adicionais"`
}

// StorageInfo locates the stored documents
type StorageInfo struct {
	FolderPath    string         `json:"folder_path"`
	DownloadLinks []DownloadLink `json:"public_download_links"`
}

// DownloadLink is a time-limited link to one stored document
type DownloadLink struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

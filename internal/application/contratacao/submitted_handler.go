package contratacao

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// downloadLinkTTL is how long links sent to the webhook stay valid
const downloadLinkTTL = 168 * time.Hour

// SubmittedHandler e-mails the firm about a new hiring request and forwards
// the request to the automation webhook.
type SubmittedHandler struct {
	repo      contratacao.Repository
	mailer    ports.Mailer
	storage   ports.ObjectStorage
	webhook   ports.WebhookSender
	firmEmail string
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubmittedHandler creates the handler. A nil webhook or an empty
// firmEmail skips that channel.
func NewSubmittedHandler(
	repo contratacao.Repository,
	mailer ports.Mailer,
	storage ports.ObjectStorage,
	webhook ports.WebhookSender,
	firmEmail string,
	logger *zap.Logger,
) *SubmittedHandler {
	return &SubmittedHandler{
		repo:      repo,
		mailer:    mailer,
		storage:   storage,
		webhook:   webhook,
		firmEmail: firmEmail,
		logger:    logger,
		now:       time.Now,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SubmittedHandler) EventTypes() []string {
	return []string{contratacao.EventTypeSubmitted}
}

// Handle sends the e-mail first so the webhook can report its outcome
func (h *SubmittedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	submitted, ok := event.(*contratacao.SubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			contratacao.EventTypeSubmitted, event.EventType())
	}
	c, err := h.repo.FindByID(ctx, submitted.ContratacaoID)
	if err != nil {
		return fmt.Errorf("load contratacao %s: %w", submitted.ContratacaoID, err)
	}

	var firstErr error
	receipt := h.sendEmail(ctx, c)
	if receipt != nil && !receipt.Success {
		firstErr = fmt.Errorf("contratacao e-mail to %s failed", h.firmEmail)
	}

	if h.webhook != nil {
		payload := WebhookPayload{
			ID:        c.ID,
			Timestamp: h.now().UTC(),
			Type:      "contratacao_funcionario",
			EmailSent: receipt,
			Data: WebhookData{
				Empresa:               c.Empresa,
				Funcionario:           c.Funcionario,
				Cargo:                 c.Cargo,
				Beneficios:            c.Beneficios,
				DadosBancarios:        c.DadosBancarios,
				InformacoesAdicionais: c.InformacoesAdicionais,
			},
			Storage: StorageInfo{FolderPath: c.StorageFolder, DownloadLinks: h.downloadLinks(ctx, c)},
		}
		if err := h.webhook.Post(ctx, payload); err != nil {
			h.logger.Error("Failed to post contratacao webhook",
				zap.String("contratacao_id", c.ID.String()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// sendEmail returns nil when no firm address is configured
func (h *SubmittedHandler) sendEmail(ctx context.Context, c *contratacao.ContratacaoFuncionario) *EmailReceipt {
	if h.firmEmail == "" || h.mailer == nil {
		return nil
	}
	msg := ports.EmailMessage{
		To:      []string{h.firmEmail},
		Subject: fmt.Sprintf("Nova Contratação: %s - %s", c.Funcionario.Nome, c.Empresa.RazaoSocial),
		Body:    contratacaoBody(c),
	}
	for _, key := range append([]string{c.PDFKey}, c.DocumentKeys...) {
		att, err := h.attachment(ctx, key)
		if err != nil {
			h.logger.Warn("Contratacao file not attached", zap.String("key", key), zap.Error(err))
			continue
		}
		if att != nil {
			msg.Attachments = append(msg.Attachments, *att)
		}
	}

	receipt := &EmailReceipt{Recipients: msg.To, Timestamp: h.now().UTC()}
	id, err := h.mailer.Send(ctx, msg)
	if err != nil {
		h.logger.Error("Failed to send contratacao e-mail",
			zap.String("contratacao_id", c.ID.String()), zap.Error(err))
		return receipt
	}
	receipt.Success = true
	receipt.MessageID = id
	return receipt
}

func (h *SubmittedHandler) attachment(ctx context.Context, key string) (*ports.Attachment, error) {
	if key == "" || h.storage == nil {
		return nil, nil
	}
	rc, err := h.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return &ports.Attachment{
		FileName:    path.Base(key),
		ContentType: storage.ContentTypeFor(key),
		Content:     content,
	}, nil
}

func (h *SubmittedHandler) downloadLinks(ctx context.Context, c *contratacao.ContratacaoFuncionario) []DownloadLink {
	links := []DownloadLink{}
	if h.storage == nil {
		return links
	}
	add := func(key, kind string) {
		if key == "" {
			return
		}
		url, err := h.storage.DownloadURL(ctx, key, downloadLinkTTL)
		if err != nil {
			h.logger.Warn("Failed to sign download link", zap.String("key", key), zap.Error(err))
			return
		}
		links = append(links, DownloadLink{Name: path.Base(key), Type: kind, URL: url})
	}
	add(c.PDFKey, "pdf")
	for _, key := range c.DocumentKeys {
		add(key, "documento")
	}
	return links
}

func contratacaoBody(c *contratacao.ContratacaoFuncionario) string {
	var b strings.Builder
	b.WriteString("Nova solicitação de contratação de funcionário\n\n")
	b.WriteString("EMPRESA\n")
	fmt.Fprintf(&b, "Razão Social: %s\n", c.Empresa.RazaoSocial)
	fmt.Fprintf(&b, "CNPJ: %s\n", valueobject.FormatCNPJ(c.Empresa.CNPJ))
	if c.Empresa.Responsavel != "" {
		fmt.Fprintf(&b, "Responsável: %s\n", c.Empresa.Responsavel)
	}
	b.WriteString("\nFUNCIONÁRIO\n")
	fmt.Fprintf(&b, "Nome: %s\n", c.Funcionario.Nome)
	fmt.Fprintf(&b, "CPF: %s\n", valueobject.FormatCPF(c.Funcionario.CPF))
	b.WriteString("\nCARGO\n")
	fmt.Fprintf(&b, "Cargo: %s\n", c.Cargo.Cargo)
	if c.Cargo.Setor != "" {
		fmt.Fprintf(&b, "Setor: %s\n", c.Cargo.Setor)
	}
	fmt.Fprintf(&b, "Salário: %s\n", valueobject.FormatBRLWithSymbol(c.Cargo.Salario))
	if c.Cargo.DataAdmissao != "" {
		fmt.Fprintf(&b, "Data de admissão: %s\n", c.Cargo.DataAdmissao)
	}
	if names := c.Beneficios.Names(); len(names) > 0 {
		fmt.Fprintf(&b, "\nBenefícios: %s\n", strings.Join(names, ", "))
	}
	if c.InformacoesAdicionais != "" {
		fmt.Fprintf(&b, "\nInformações adicionais: %s\n", c.InformacoesAdicionais)
	}
	if c.StorageFolder != "" {
		fmt.Fprintf(&b, "\nPasta de documentos: %s\n", c.StorageFolder)
	}
	fmt.Fprintf(&b, "\nID da Solicitação: %s", c.ID)
	return b.String()
}

package registration

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// SubmittedNotificationHandler e-mails the client a confirmation and the
// firm an internal notice with the registration PDF attached.
type SubmittedNotificationHandler struct {
	mailer    ports.Mailer
	storage   ports.ObjectStorage
	firmEmail string
	logger    *zap.Logger
}

// NewSubmittedNotificationHandler creates the handler. An empty firmEmail
// skips the internal notice.
func NewSubmittedNotificationHandler(mailer ports.Mailer, storage ports.ObjectStorage, firmEmail string, logger *zap.Logger) *SubmittedNotificationHandler {
	return &SubmittedNotificationHandler{
		mailer:    mailer,
		storage:   storage,
		firmEmail: firmEmail,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SubmittedNotificationHandler) EventTypes() []string {
	return []string{registration.EventTypeRegistrationSubmitted}
}

// Handle sends both e-mails. The first failure is returned after both
// were attempted.
func (h *SubmittedNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	submitted, ok := event.(*registration.RegistrationSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			registration.EventTypeRegistrationSubmitted, event.EventType())
	}

	var firstErr error
	if submitted.EmailEmpresa != "" {
		_, err := h.mailer.Send(ctx, ports.EmailMessage{
			To:      []string{submitted.EmailEmpresa},
			Subject: "Confirmação de Recebimento - " + submitted.RazaoSocial,
			Body:    clientConfirmationBody(submitted),
		})
		if err != nil {
			h.logger.Error("Failed to send registration confirmation",
				zap.String("registration_id", submitted.AggregateID().String()), zap.Error(err))
			firstErr = err
		}
	}

	if h.firmEmail != "" {
		msg := ports.EmailMessage{
			To:      []string{h.firmEmail},
			Subject: "Nova Solicitação: " + submitted.RazaoSocial,
			Body:    internalNoticeBody(submitted),
		}
		if att, err := h.loadPDF(ctx, submitted.PDFKey); err != nil {
			h.logger.Warn("Registration PDF not attached", zap.String("key", submitted.PDFKey), zap.Error(err))
		} else if att != nil {
			msg.Attachments = []ports.Attachment{*att}
		}
		if _, err := h.mailer.Send(ctx, msg); err != nil {
			h.logger.Error("Failed to send internal registration notice",
				zap.String("registration_id", submitted.AggregateID().String()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (h *SubmittedNotificationHandler) loadPDF(ctx context.Context, key string) (*ports.Attachment, error) {
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
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func clientConfirmationBody(e *registration.RegistrationSubmittedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", e.SocioNome)
	fmt.Fprintf(&b, "Recebemos com sucesso os dados para abertura da empresa %s.\n\n", e.RazaoSocial)
	b.WriteString("Nossa equipe irá analisar os documentos enviados e entrar em contato em até 2 dias úteis ")
	b.WriteString("para dar continuidade ao processo de abertura da empresa.\n\n")
	b.WriteString("Caso tenha alguma dúvida, entre em contato conosco.\n\n")
	b.WriteString("Prosperar Contabilidade\n\n")
	b.WriteString("Este e-mail foi enviado automaticamente. Não responda a este e-mail.")
	return b.String()
}

func internalNoticeBody(e *registration.RegistrationSubmittedEvent) string {
	var b strings.Builder
	b.WriteString("Nova solicitação de abertura de empresa\n\n")
	fmt.Fprintf(&b, "Razão Social: %s\n", e.RazaoSocial)
	if e.NomeFantasia != "" {
		fmt.Fprintf(&b, "Nome Fantasia: %s\n", e.NomeFantasia)
	}
	fmt.Fprintf(&b, "E-mail: %s\n", e.EmailEmpresa)
	fmt.Fprintf(&b, "Sócio responsável: %s\n", e.SocioNome)
	if e.Folder != "" {
		fmt.Fprintf(&b, "Pasta de documentos: %s\n", e.Folder)
	}
	fmt.Fprintf(&b, "\nID da Solicitação: %s", e.AggregateID())
	return b.String()
}

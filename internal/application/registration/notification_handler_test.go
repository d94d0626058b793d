package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func submittedEvent(t *testing.T, pdfKey string) *registration.RegistrationSubmittedEvent {
	t.Helper()
	reg, err := registration.NewBusinessRegistration(registration.BusinessRegistration{
		RazaoSocial:  "Padaria Central Ltda",
		NomeFantasia: "Central",
		EmailEmpresa: "dono@central.com",
		Socios:       []registration.Socio{{Nome: "Paulo Lima", CPF: "52998224725"}},
	})
	require.NoError(t, err)
	reg.MarkSubmitted("registrations/padaria-central-ltda-1234abcd", pdfKey)
	return reg.GetDomainEvents()[0].(*registration.RegistrationSubmittedEvent)
}

func TestSubmittedNotificationHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("sends confirmation and internal notice with pdf", func(t *testing.T) {
		mailer := &testutil.RecordingMailer{}
		store := testutil.NewMemoryStorage()
		pdfKey := "registrations/padaria-central-ltda-1234abcd/Padaria_Central_Ltda_Cadastro.pdf"
		store.Put(pdfKey, []byte("%PDF-1.4"))
		h := NewSubmittedNotificationHandler(mailer, store, "contato@prosperar.com.br", zap.NewNop())

		require.NoError(t, h.Handle(ctx, submittedEvent(t, pdfKey)))

		sent := mailer.Sent()
		require.Len(t, sent, 2)

		assert.Equal(t, []string{"dono@central.com"}, sent[0].To)
		assert.Equal(t, "Confirmação de Recebimento - Padaria Central Ltda", sent[0].Subject)
		assert.Contains(t, sent[0].Body, "Olá Paulo Lima")
		assert.Empty(t, sent[0].Attachments)

		assert.Equal(t, []string{"contato@prosperar.com.br"}, sent[1].To)
		assert.Equal(t, "Nova Solicitação: Padaria Central Ltda", sent[1].Subject)
		assert.Contains(t, sent[1].Body, "Nome Fantasia: Central")
		require.Len(t, sent[1].Attachments, 1)
		assert.Equal(t, "Padaria_Central_Ltda_Cadastro.pdf", sent[1].Attachments[0].FileName)
		assert.Equal(t, []byte("%PDF-1.4"), sent[1].Attachments[0].Content)
	})

	t.Run("missing pdf still sends the notice", func(t *testing.T) {
		mailer := &testutil.RecordingMailer{}
		h := NewSubmittedNotificationHandler(mailer, testutil.NewMemoryStorage(), "contato@prosperar.com.br", zap.NewNop())

		require.NoError(t, h.Handle(ctx, submittedEvent(t, "registrations/missing.pdf")))
		sent := mailer.Sent()
		require.Len(t, sent, 2)
		assert.Empty(t, sent[1].Attachments)
	})

	t.Run("skips internal notice without firm address", func(t *testing.T) {
		mailer := &testutil.RecordingMailer{}
		h := NewSubmittedNotificationHandler(mailer, nil, "", zap.NewNop())

		require.NoError(t, h.Handle(ctx, submittedEvent(t, "")))
		assert.Len(t, mailer.Sent(), 1)
	})

	t.Run("returns mailer errors", func(t *testing.T) {
		mailer := &testutil.RecordingMailer{Err: errors.New("sendgrid: 401")}
		h := NewSubmittedNotificationHandler(mailer, nil, "contato@prosperar.com.br", zap.NewNop())

		err := h.Handle(ctx, submittedEvent(t, ""))
		assert.EqualError(t, err, "sendgrid: 401")
	})

	t.Run("rejects other events", func(t *testing.T) {
		h := NewSubmittedNotificationHandler(&testutil.RecordingMailer{}, nil, "", zap.NewNop())

		err := h.Handle(ctx, testutil.NewTestEvent("other.event"))
		assert.Error(t, err)
	})
}

func TestSubmittedNotificationHandler_EventTypes(t *testing.T) {
	h := NewSubmittedNotificationHandler(nil, nil, "", zap.NewNop())
	assert.Equal(t, []string{registration.EventTypeRegistrationSubmitted}, h.EventTypes())
}

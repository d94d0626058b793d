package dasmei

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Hour, Backoff(time.Hour, 0))
	assert.Equal(t, time.Hour, Backoff(time.Hour, 1))
	assert.Equal(t, 2*time.Hour, Backoff(time.Hour, 2))
	assert.Equal(t, 4*time.Hour, Backoff(time.Hour, 3))
}

func TestRetryItem_Lifecycle(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	item := NewRetryItem(OperacaoGeracaoGuia, uuid.New(), map[string]any{"periodo": "202504"}, errors.New("HTTP 502"), now, time.Hour, 0)

	assert.Equal(t, RetryPending, item.Status)
	assert.Equal(t, DefaultMaxTentativas, item.MaxTentativas)
	assert.Equal(t, now.Add(time.Hour), *item.ProximaTentativa)
	assert.Equal(t, "HTTP 502", item.Erro)
	assert.Equal(t, "202504", item.Periodo())

	for attempt := 1; attempt <= 3; attempt++ {
		require.NoError(t, item.Begin(now))
		assert.Equal(t, RetryProcessing, item.Status)
		assert.Equal(t, attempt, item.Tentativas)

		item.Fail(errors.New("still failing"), now, time.Hour)
		assert.Equal(t, RetryPending, item.Status)
		assert.Equal(t, now.Add(Backoff(time.Hour, attempt)), *item.ProximaTentativa)
	}

	err := item.Begin(now)
	assert.Error(t, err)
	assert.Equal(t, RetryFailed, item.Status)

	item.Requeue(now)
	assert.Equal(t, RetryPending, item.Status)
	assert.Zero(t, item.Tentativas)

	require.NoError(t, item.Begin(now))
	item.Succeed(now)
	assert.Equal(t, RetrySuccess, item.Status)
	assert.Nil(t, item.ProximaTentativa)
}

func TestRetryItem_GuiaID(t *testing.T) {
	id := uuid.New()
	item := &RetryItem{Dados: map[string]any{"guia_id": id.String()}}

	got, ok := item.GuiaID()
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = (&RetryItem{}).GuiaID()
	assert.False(t, ok)
}

func TestRetryItem_Covers(t *testing.T) {
	clienteID := uuid.New()
	guiaID := uuid.New().String()
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	geracao := NewRetryItem(OperacaoGeracaoGuia, clienteID, map[string]any{"periodo": "202504"}, nil, now, time.Hour, 3)
	envio := NewRetryItem(OperacaoEnvioWhatsApp, clienteID, map[string]any{"guia_id": guiaID, "periodo": "202504"}, nil, now, time.Hour, 3)

	tests := []struct {
		name      string
		item      *RetryItem
		operacao  string
		clienteID uuid.UUID
		dados     map[string]any
		want      bool
	}{
		{"same generation", geracao, OperacaoGeracaoGuia, clienteID, map[string]any{"periodo": "202504"}, true},
		{"other period", geracao, OperacaoGeracaoGuia, clienteID, map[string]any{"periodo": "202505"}, false},
		{"other client", geracao, OperacaoGeracaoGuia, uuid.New(), map[string]any{"periodo": "202504"}, false},
		{"other operation", geracao, OperacaoEnvioWhatsApp, clienteID, map[string]any{"periodo": "202504"}, false},
		{"same delivery", envio, OperacaoEnvioWhatsApp, clienteID, map[string]any{"guia_id": guiaID, "periodo": "202504"}, true},
		{"other guide", envio, OperacaoEnvioWhatsApp, clienteID, map[string]any{"guia_id": uuid.New().String(), "periodo": "202504"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Covers(tt.operacao, tt.clienteID, tt.dados))
		})
	}
}

func TestRetryItem_Refresh(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	item := NewRetryItem(OperacaoGeracaoGuia, uuid.New(), nil, errors.New("HTTP 502"), now, time.Hour, 3)
	next := *item.ProximaTentativa

	item.Refresh(errors.New("HTTP 504"), now.Add(time.Minute))
	assert.Equal(t, "HTTP 504", item.Erro)
	assert.Equal(t, next, *item.ProximaTentativa)
	assert.Zero(t, item.Tentativas)
	assert.True(t, item.IsOpen())

	item.Succeed(now)
	assert.False(t, item.IsOpen())
}

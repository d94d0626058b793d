package dasmei

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// Retryable operations
const (
	OperacaoGeracaoGuia   = "geracao_guia"
	OperacaoEnvioWhatsApp = "envio_whatsapp"
)

// RetryStatus is the state of a queued retry
type RetryStatus string

const (
	RetryPending    RetryStatus = "pending"
	RetryProcessing RetryStatus = "processing"
	RetrySuccess    RetryStatus = "success"
	RetryFailed     RetryStatus = "failed"
)

// DefaultMaxTentativas bounds how many times an operation is retried
const DefaultMaxTentativas = 3

// RetryItem is a failed operation waiting to be re-run
type RetryItem struct {
	ID               uuid.UUID
	TipoOperacao     string
	ClienteID        uuid.UUID
	Dados            map[string]any
	Erro             string
	Tentativas       int
	MaxTentativas    int
	ProximaTentativa *time.Time
	Status           RetryStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewRetryItem enqueues an operation for a first retry after baseDelay
func NewRetryItem(operacao string, clienteID uuid.UUID, dados map[string]any, cause error, now time.Time, baseDelay time.Duration, maxTentativas int) *RetryItem {
	if maxTentativas <= 0 {
		maxTentativas = DefaultMaxTentativas
	}
	next := now.Add(baseDelay)
	item := &RetryItem{
		ID:               uuid.New(),
		TipoOperacao:     operacao,
		ClienteID:        clienteID,
		Dados:            dados,
		MaxTentativas:    maxTentativas,
		ProximaTentativa: &next,
		Status:           RetryPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if cause != nil {
		item.Erro = cause.Error()
	}
	return item
}

// Backoff returns the delay before attempt n+1 after n failed attempts:
// base * 2^(n-1).
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		return base
	}
	if attempts > 16 {
		attempts = 16
	}
	return base * time.Duration(1<<(attempts-1))
}

// Exhausted reports whether no attempts remain
func (r *RetryItem) Exhausted() bool {
	return r.Tentativas >= r.MaxTentativas
}

// Begin starts an attempt. An exhausted item is marked failed instead and
// ErrInvalidState is returned.
func (r *RetryItem) Begin(now time.Time) error {
	if r.Exhausted() {
		r.Status = RetryFailed
		r.UpdatedAt = now
		return shared.ErrInvalidState
	}
	r.Status = RetryProcessing
	r.Tentativas++
	r.UpdatedAt = now
	return nil
}

// IsOpen reports whether the item is still queued or running
func (r *RetryItem) IsOpen() bool {
	return r.Status == RetryPending || r.Status == RetryProcessing
}

// Covers reports whether the item already retries the same operation for the
// same client and target. The target is the periodo and, for deliveries,
// the guide; keys absent from dados are not compared.
func (r *RetryItem) Covers(operacao string, clienteID uuid.UUID, dados map[string]any) bool {
	if r.TipoOperacao != operacao || r.ClienteID != clienteID {
		return false
	}
	for _, key := range []string{"periodo", "guia_id"} {
		want, ok := dados[key]
		if !ok {
			continue
		}
		if got, _ := r.Dados[key].(string); got != want {
			return false
		}
	}
	return true
}

// Refresh records a new failure of an item that is already queued without
// touching its schedule or attempt budget
func (r *RetryItem) Refresh(cause error, now time.Time) {
	if cause != nil {
		r.Erro = cause.Error()
	}
	r.UpdatedAt = now
}

// Succeed closes the item
func (r *RetryItem) Succeed(now time.Time) {
	r.Status = RetrySuccess
	r.ProximaTentativa = nil
	r.Erro = ""
	r.UpdatedAt = now
}

// Fail puts the item back in the queue with exponential backoff
func (r *RetryItem) Fail(cause error, now time.Time, baseDelay time.Duration) {
	r.Status = RetryPending
	if cause != nil {
		r.Erro = cause.Error()
	}
	next := now.Add(Backoff(baseDelay, r.Tentativas))
	r.ProximaTentativa = &next
	r.UpdatedAt = now
}

// Requeue makes a finished item eligible again with a fresh attempt budget
func (r *RetryItem) Requeue(now time.Time) {
	r.Status = RetryPending
	r.Tentativas = 0
	r.ProximaTentativa = &now
	r.UpdatedAt = now
}

// Periodo returns the period stored in the item data, if any
func (r *RetryItem) Periodo() string {
	if v, ok := r.Dados["periodo"].(string); ok {
		return v
	}
	return ""
}

// GuiaID returns the guide stored in the item data, if any
func (r *RetryItem) GuiaID() (uuid.UUID, bool) {
	v, ok := r.Dados["guia_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(v)
	return id, err == nil
}

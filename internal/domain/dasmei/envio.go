package dasmei

import (
	"time"

	"github.com/google/uuid"
)

// EnvioTipo is the delivery channel of a message
type EnvioTipo string

const (
	EnvioWhatsApp         EnvioTipo = "whatsapp"
	EnvioEmail            EnvioTipo = "email"
	EnvioLembreteWhatsApp EnvioTipo = "lembrete_whatsapp"
	EnvioLembreteEmail    EnvioTipo = "lembrete_email"
)

// EnvioStatus is the delivery outcome
type EnvioStatus string

const (
	EnvioPending EnvioStatus = "pending"
	EnvioSent    EnvioStatus = "sent"
	EnvioFailed  EnvioStatus = "failed"
)

// EnvioLog records one delivery attempt of a guide
type EnvioLog struct {
	ID         uuid.UUID
	GuiaID     uuid.UUID
	Tipo       EnvioTipo
	Status     EnvioStatus
	Mensagem   string
	Resposta   map[string]any
	MessageID  string
	EnviadoEm  *time.Time
	Tentativas int
	UltimoErro string
	CreatedAt  time.Time
}

// NewEnvioLog creates a pending log entry
func NewEnvioLog(guiaID uuid.UUID, tipo EnvioTipo, mensagem string) *EnvioLog {
	return &EnvioLog{
		ID:        uuid.New(),
		GuiaID:    guiaID,
		Tipo:      tipo,
		Status:    EnvioPending,
		Mensagem:  mensagem,
		CreatedAt: time.Now(),
	}
}

// MarkSent records a successful delivery
func (l *EnvioLog) MarkSent(messageID string, now time.Time) {
	l.Status = EnvioSent
	l.MessageID = messageID
	l.EnviadoEm = &now
	l.Tentativas++
	l.UltimoErro = ""
}

// MarkFailed records a failed delivery
func (l *EnvioLog) MarkFailed(err error) {
	l.Status = EnvioFailed
	l.Tentativas++
	l.UltimoErro = err.Error()
}

// ProgramacaoTipo is the kind of scheduled delivery
type ProgramacaoTipo string

const (
	ProgramacaoEnvioDAS ProgramacaoTipo = "das_envio"
	ProgramacaoLembrete ProgramacaoTipo = "lembrete_vencimento"
)

// ProgramacaoStatus is the state of a scheduled delivery
type ProgramacaoStatus string

const (
	ProgramacaoAgendado   ProgramacaoStatus = "agendado"
	ProgramacaoProcessado ProgramacaoStatus = "processado"
	ProgramacaoCancelado  ProgramacaoStatus = "cancelado"
)

// ProgramacaoEnvio schedules the delivery of a guide on a date
type ProgramacaoEnvio struct {
	ID           uuid.UUID
	GuiaID       uuid.UUID
	DataAgendada time.Time
	Tipo         ProgramacaoTipo
	Status       ProgramacaoStatus
	ProcessadoEm *time.Time
	CreatedAt    time.Time
}

// NewProgramacaoEnvio schedules a delivery
func NewProgramacaoEnvio(guiaID uuid.UUID, date time.Time, tipo ProgramacaoTipo) *ProgramacaoEnvio {
	return &ProgramacaoEnvio{
		ID:           uuid.New(),
		GuiaID:       guiaID,
		DataAgendada: date,
		Tipo:         tipo,
		Status:       ProgramacaoAgendado,
		CreatedAt:    time.Now(),
	}
}

// MarkProcessed closes the schedule entry
func (p *ProgramacaoEnvio) MarkProcessed(now time.Time) {
	p.Status = ProgramacaoProcessado
	p.ProcessadoEm = &now
}

// Cancel drops the schedule entry
func (p *ProgramacaoEnvio) Cancel() {
	p.Status = ProgramacaoCancelado
}

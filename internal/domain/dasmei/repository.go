package dasmei

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClienteMeiRepository persists MEI clients
type ClienteMeiRepository interface {
	Create(ctx context.Context, c *ClienteMei) error
	Update(ctx context.Context, c *ClienteMei) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*ClienteMei, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*ClienteMei, error)
	FindByCNPJs(ctx context.Context, cnpjs []string) ([]*ClienteMei, error)
	// FindAll lists clients by name, optionally filtered by a search term
	FindAll(ctx context.Context, search string, activeOnly bool) ([]*ClienteMei, error)
	CountActive(ctx context.Context) (int64, error)
}

// GuiaFilter narrows guide listings
type GuiaFilter struct {
	Periodo      string
	ClienteMeiID *uuid.UUID
	Status       GuiaStatus
}

// GuiaRepository persists DAS guides
type GuiaRepository interface {
	// Save inserts the guide or updates the existing row of the same
	// (client, period)
	Save(ctx context.Context, g *DasGuia) error
	Update(ctx context.Context, g *DasGuia) error
	FindByID(ctx context.Context, id uuid.UUID) (*DasGuia, error)
	FindByClientePeriodo(ctx context.Context, clienteID uuid.UUID, periodo string) (*DasGuia, error)
	// FindAll returns guides newest period first
	FindAll(ctx context.Context, filter GuiaFilter) ([]*DasGuia, error)
	// FindWithoutDelivery returns successful guides of a period with no sent
	// log of the given channel
	FindWithoutDelivery(ctx context.Context, periodo string, tipo EnvioTipo) ([]*DasGuia, error)
	// FindDueBetween returns successful guides due in [from, to)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*DasGuia, error)
	CountByStatus(ctx context.Context, periodo string, status GuiaStatus) (int64, error)
}

// EnvioLogRepository persists delivery logs
type EnvioLogRepository interface {
	Create(ctx context.Context, l *EnvioLog) error
	FindByGuia(ctx context.Context, guiaID uuid.UUID) ([]*EnvioLog, error)
	// ExistsSent reports whether the guide has a sent log of the channel
	ExistsSent(ctx context.Context, guiaID uuid.UUID, tipo EnvioTipo) (bool, error)
	CountByPeriodo(ctx context.Context, periodo string, tipo EnvioTipo, status EnvioStatus) (int64, error)
}

// ProgramacaoRepository persists scheduled deliveries
type ProgramacaoRepository interface {
	Create(ctx context.Context, p *ProgramacaoEnvio) error
	Update(ctx context.Context, p *ProgramacaoEnvio) error
	// FindDue returns scheduled entries due on or before date
	FindDue(ctx context.Context, date time.Time) ([]*ProgramacaoEnvio, error)
	CancelByGuia(ctx context.Context, guiaID uuid.UUID) error
}

// MessageTemplateRepository persists message templates
type MessageTemplateRepository interface {
	Create(ctx context.Context, t *MessageTemplate) error
	Update(ctx context.Context, t *MessageTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*MessageTemplate, error)
	// FindActiveByTipo returns the most recent active template of the type
	FindActiveByTipo(ctx context.Context, tipo TemplateType) (*MessageTemplate, error)
	FindAll(ctx context.Context) ([]*MessageTemplate, error)
}

// EvolutionInstanceRepository persists WhatsApp gateway instances
type EvolutionInstanceRepository interface {
	Create(ctx context.Context, e *EvolutionInstance) error
	Update(ctx context.Context, e *EvolutionInstance) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*EvolutionInstance, error)
	FindActive(ctx context.Context) (*EvolutionInstance, error)
	FindAll(ctx context.Context) ([]*EvolutionInstance, error)
}

// SystemLogFilter narrows system log listings
type SystemLogFilter struct {
	TipoOperacao string
	Status       string
	Periodo      string
	ClienteID    *uuid.UUID
	Limit        int
}

// SystemLogRepository persists automation audit entries
type SystemLogRepository interface {
	Create(ctx context.Context, l *SystemLog) error
	// FindAll returns entries newest first
	FindAll(ctx context.Context, filter SystemLogFilter) ([]*SystemLog, error)
}

// SettingRepository persists automation settings
type SettingRepository interface {
	FindAll(ctx context.Context) ([]*AutomationSetting, error)
	FindByChave(ctx context.Context, chave string) (*AutomationSetting, error)
	// Upsert inserts the setting or updates the row with the same key
	Upsert(ctx context.Context, s *AutomationSetting) error
}

// FeriadoRepository persists holidays
type FeriadoRepository interface {
	Create(ctx context.Context, f *Feriado) error
	Update(ctx context.Context, f *Feriado) error
	FindByID(ctx context.Context, id uuid.UUID) (*Feriado, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// FindBetween returns holidays in [from, to)
	FindBetween(ctx context.Context, from, to time.Time) ([]*Feriado, error)
	FindAll(ctx context.Context) ([]*Feriado, error)
}

// RetryRepository persists the retry queue
type RetryRepository interface {
	Create(ctx context.Context, r *RetryItem) error
	Update(ctx context.Context, r *RetryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*RetryItem, error)
	// FindDue returns pending items whose next attempt is at or before now
	FindDue(ctx context.Context, now time.Time) ([]*RetryItem, error)
	// FindOpen returns pending or processing items of an operation for a client
	FindOpen(ctx context.Context, operacao string, clienteID uuid.UUID) ([]*RetryItem, error)
	FindAll(ctx context.Context, status RetryStatus) ([]*RetryItem, error)
	CountByStatus(ctx context.Context, status RetryStatus) (int64, error)
}

// ApiConfigRepository persists provider configurations and their change log
type ApiConfigRepository interface {
	Create(ctx context.Context, c *ApiConfiguration) error
	Update(ctx context.Context, c *ApiConfiguration) error
	FindByID(ctx context.Context, id uuid.UUID) (*ApiConfiguration, error)
	FindByProvider(ctx context.Context, apiType ApiType, provider string) (*ApiConfiguration, error)
	FindActive(ctx context.Context, apiType ApiType) (*ApiConfiguration, error)
	FindAll(ctx context.Context) ([]*ApiConfiguration, error)
	// Activate marks id active and every other configuration of the same type
	// inactive in one transaction, writing the change logs
	Activate(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error
	CreateChangeLog(ctx context.Context, l *ApiChangeLog) error
	FindChangeLogs(ctx context.Context, apiID uuid.UUID) ([]*ApiChangeLog, error)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/shopspring/decimal"
)

// ClienteMeiModel is the persistence model for a MEI client.
type ClienteMeiModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Nome          string    `gorm:"type:varchar(255);not null;index"`
	CNPJ          string    `gorm:"column:cnpj;type:varchar(14);not null;uniqueIndex"`
	Telefone      string    `gorm:"type:varchar(20)"`
	Email         string    `gorm:"type:varchar(200)"`
	DiaEnvio      int       `gorm:"not null;default:10"`
	DiaVencimento int       `gorm:"not null;default:20"`
	IsActive      bool      `gorm:"not null;default:true;index"`
	Observacoes   string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ClienteMeiModel) TableName() string {
	return "clientes_mei"
}

// ToDomain converts the persistence model to a domain ClienteMei.
func (m *ClienteMeiModel) ToDomain() *dasmei.ClienteMei {
	return &dasmei.ClienteMei{
		ID:            m.ID,
		Nome:          m.Nome,
		CNPJ:          m.CNPJ,
		Telefone:      m.Telefone,
		Email:         m.Email,
		DiaEnvio:      m.DiaEnvio,
		DiaVencimento: m.DiaVencimento,
		IsActive:      m.IsActive,
		Observacoes:   m.Observacoes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ClienteMeiModelFromDomain creates a new persistence model from a domain ClienteMei.
func ClienteMeiModelFromDomain(c *dasmei.ClienteMei) *ClienteMeiModel {
	return &ClienteMeiModel{
		ID:            c.ID,
		Nome:          c.Nome,
		CNPJ:          c.CNPJ,
		Telefone:      c.Telefone,
		Email:         c.Email,
		DiaEnvio:      c.DiaEnvio,
		DiaVencimento: c.DiaVencimento,
		IsActive:      c.IsActive,
		Observacoes:   c.Observacoes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// DasGuiaModel is the persistence model for a DAS guide. One row per
// (client, period).
type DasGuiaModel struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key"`
	ClienteMeiID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_das_guias_cliente_periodo,priority:1"`
	Periodo        string            `gorm:"type:varchar(6);not null;uniqueIndex:idx_das_guias_cliente_periodo,priority:2;index"`
	DataVencimento *time.Time        `gorm:"index"`
	Valor          decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Principal      decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Multas         decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Juros          decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	URL            string            `gorm:"column:url;type:text"`
	StorageKey     string            `gorm:"type:varchar(500)"`
	FileName       string            `gorm:"type:varchar(255)"`
	Situacao       string            `gorm:"type:varchar(100)"`
	Status         dasmei.GuiaStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Erro           string            `gorm:"type:text"`
	Provider       string            `gorm:"type:varchar(50)"`
	CreatedAt      time.Time         `gorm:"not null"`
	UpdatedAt      time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DasGuiaModel) TableName() string {
	return "das_guias"
}

// ToDomain converts the persistence model to a domain DasGuia.
func (m *DasGuiaModel) ToDomain() *dasmei.DasGuia {
	return &dasmei.DasGuia{
		ID:             m.ID,
		ClienteMeiID:   m.ClienteMeiID,
		Periodo:        m.Periodo,
		DataVencimento: m.DataVencimento,
		Valor:          m.Valor,
		Principal:      m.Principal,
		Multas:         m.Multas,
		Juros:          m.Juros,
		URL:            m.URL,
		StorageKey:     m.StorageKey,
		FileName:       m.FileName,
		Situacao:       m.Situacao,
		Status:         m.Status,
		Erro:           m.Erro,
		Provider:       m.Provider,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// DasGuiaModelFromDomain creates a new persistence model from a domain DasGuia.
func DasGuiaModelFromDomain(g *dasmei.DasGuia) *DasGuiaModel {
	return &DasGuiaModel{
		ID:             g.ID,
		ClienteMeiID:   g.ClienteMeiID,
		Periodo:        g.Periodo,
		DataVencimento: g.DataVencimento,
		Valor:          g.Valor,
		Principal:      g.Principal,
		Multas:         g.Multas,
		Juros:          g.Juros,
		URL:            g.URL,
		StorageKey:     g.StorageKey,
		FileName:       g.FileName,
		Situacao:       g.Situacao,
		Status:         g.Status,
		Erro:           g.Erro,
		Provider:       g.Provider,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// EnvioLogModel records one delivery attempt of a guide.
type EnvioLogModel struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key"`
	GuiaID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Tipo       dasmei.EnvioTipo   `gorm:"type:varchar(30);not null;index"`
	Status     dasmei.EnvioStatus `gorm:"type:varchar(20);not null;index"`
	Mensagem   string             `gorm:"type:text"`
	Resposta   JSONMap            `gorm:"type:jsonb"`
	MessageID  string             `gorm:"type:varchar(255)"`
	EnviadoEm  *time.Time
	Tentativas int       `gorm:"not null;default:1"`
	UltimoErro string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EnvioLogModel) TableName() string {
	return "envio_logs"
}

// ToDomain converts the persistence model to a domain EnvioLog.
func (m *EnvioLogModel) ToDomain() *dasmei.EnvioLog {
	return &dasmei.EnvioLog{
		ID:         m.ID,
		GuiaID:     m.GuiaID,
		Tipo:       m.Tipo,
		Status:     m.Status,
		Mensagem:   m.Mensagem,
		Resposta:   m.Resposta.Data,
		MessageID:  m.MessageID,
		EnviadoEm:  m.EnviadoEm,
		Tentativas: m.Tentativas,
		UltimoErro: m.UltimoErro,
		CreatedAt:  m.CreatedAt,
	}
}

// EnvioLogModelFromDomain creates a new persistence model from a domain EnvioLog.
func EnvioLogModelFromDomain(l *dasmei.EnvioLog) *EnvioLogModel {
	return &EnvioLogModel{
		ID:         l.ID,
		GuiaID:     l.GuiaID,
		Tipo:       l.Tipo,
		Status:     l.Status,
		Mensagem:   l.Mensagem,
		Resposta:   NewJSON(l.Resposta),
		MessageID:  l.MessageID,
		EnviadoEm:  l.EnviadoEm,
		Tentativas: l.Tentativas,
		UltimoErro: l.UltimoErro,
		CreatedAt:  l.CreatedAt,
	}
}

// ProgramacaoEnvioModel is a scheduled delivery.
type ProgramacaoEnvioModel struct {
	ID           uuid.UUID                `gorm:"type:uuid;primary_key"`
	GuiaID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	DataAgendada time.Time                `gorm:"type:date;not null;index"`
	Tipo         dasmei.ProgramacaoTipo   `gorm:"type:varchar(30);not null"`
	Status       dasmei.ProgramacaoStatus `gorm:"type:varchar(20);not null;default:'agendado';index"`
	ProcessadoEm *time.Time
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProgramacaoEnvioModel) TableName() string {
	return "programacao_envios"
}

// ToDomain converts the persistence model to a domain ProgramacaoEnvio.
func (m *ProgramacaoEnvioModel) ToDomain() *dasmei.ProgramacaoEnvio {
	return &dasmei.ProgramacaoEnvio{
		ID:           m.ID,
		GuiaID:       m.GuiaID,
		DataAgendada: m.DataAgendada,
		Tipo:         m.Tipo,
		Status:       m.Status,
		ProcessadoEm: m.ProcessadoEm,
		CreatedAt:    m.CreatedAt,
	}
}

// ProgramacaoEnvioModelFromDomain creates a new persistence model from a domain ProgramacaoEnvio.
func ProgramacaoEnvioModelFromDomain(p *dasmei.ProgramacaoEnvio) *ProgramacaoEnvioModel {
	return &ProgramacaoEnvioModel{
		ID:           p.ID,
		GuiaID:       p.GuiaID,
		DataAgendada: p.DataAgendada,
		Tipo:         p.Tipo,
		Status:       p.Status,
		ProcessadoEm: p.ProcessadoEm,
		CreatedAt:    p.CreatedAt,
	}
}

// MessageTemplateModel is a WhatsApp message template.
type MessageTemplateModel struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key"`
	Nome      string              `gorm:"type:varchar(100);not null"`
	Tipo      dasmei.TemplateType `gorm:"type:varchar(30);not null;index"`
	Conteudo  string              `gorm:"type:text;not null"`
	Ativo     bool                `gorm:"not null;default:true"`
	Variaveis StringList          `gorm:"type:jsonb;default:'[]'"`
	CreatedAt time.Time           `gorm:"not null"`
	UpdatedAt time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MessageTemplateModel) TableName() string {
	return "message_templates"
}

// ToDomain converts the persistence model to a domain MessageTemplate.
func (m *MessageTemplateModel) ToDomain() *dasmei.MessageTemplate {
	return &dasmei.MessageTemplate{
		ID:        m.ID,
		Nome:      m.Nome,
		Tipo:      m.Tipo,
		Conteudo:  m.Conteudo,
		Ativo:     m.Ativo,
		Variaveis: stringsOrEmpty(m.Variaveis.Data),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// MessageTemplateModelFromDomain creates a new persistence model from a domain MessageTemplate.
func MessageTemplateModelFromDomain(t *dasmei.MessageTemplate) *MessageTemplateModel {
	return &MessageTemplateModel{
		ID:        t.ID,
		Nome:      t.Nome,
		Tipo:      t.Tipo,
		Conteudo:  t.Conteudo,
		Ativo:     t.Ativo,
		Variaveis: NewJSON(stringsOrEmpty(t.Variaveis)),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// EvolutionInstanceModel is a WhatsApp gateway instance.
type EvolutionInstanceModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Nome         string    `gorm:"type:varchar(100);not null"`
	InstanceName string    `gorm:"type:varchar(100);not null"`
	ServerURL    string    `gorm:"column:server_url;type:varchar(500);not null"`
	Token        string    `gorm:"type:varchar(500);not null"`
	Ativo        bool      `gorm:"not null;default:false;index"`
	UltimoTeste  *time.Time
	StatusTeste  string    `gorm:"type:varchar(20)"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EvolutionInstanceModel) TableName() string {
	return "evolution_instances"
}

// ToDomain converts the persistence model to a domain EvolutionInstance.
func (m *EvolutionInstanceModel) ToDomain() *dasmei.EvolutionInstance {
	return &dasmei.EvolutionInstance{
		ID:           m.ID,
		Nome:         m.Nome,
		InstanceName: m.InstanceName,
		ServerURL:    m.ServerURL,
		Token:        m.Token,
		Ativo:        m.Ativo,
		UltimoTeste:  m.UltimoTeste,
		StatusTeste:  m.StatusTeste,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// EvolutionInstanceModelFromDomain creates a new persistence model from a domain EvolutionInstance.
func EvolutionInstanceModelFromDomain(e *dasmei.EvolutionInstance) *EvolutionInstanceModel {
	return &EvolutionInstanceModel{
		ID:           e.ID,
		Nome:         e.Nome,
		InstanceName: e.InstanceName,
		ServerURL:    e.ServerURL,
		Token:        e.Token,
		Ativo:        e.Ativo,
		UltimoTeste:  e.UltimoTeste,
		StatusTeste:  e.StatusTeste,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// SystemLogModel is an automation audit entry.
type SystemLogModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	TipoOperacao string     `gorm:"type:varchar(50);not null;index"`
	ClienteID    *uuid.UUID `gorm:"type:uuid;index"`
	Status       string     `gorm:"type:varchar(20);not null;index"`
	Detalhes     JSONMap    `gorm:"type:jsonb"`
	Periodo      string     `gorm:"type:varchar(6);index"`
	Operador     string     `gorm:"type:varchar(100)"`
	Timestamp    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SystemLogModel) TableName() string {
	return "system_logs"
}

// ToDomain converts the persistence model to a domain SystemLog.
func (m *SystemLogModel) ToDomain() *dasmei.SystemLog {
	return &dasmei.SystemLog{
		ID:           m.ID,
		TipoOperacao: m.TipoOperacao,
		ClienteID:    m.ClienteID,
		Status:       m.Status,
		Detalhes:     m.Detalhes.Data,
		Periodo:      m.Periodo,
		Operador:     m.Operador,
		Timestamp:    m.Timestamp,
	}
}

// SystemLogModelFromDomain creates a new persistence model from a domain SystemLog.
func SystemLogModelFromDomain(l *dasmei.SystemLog) *SystemLogModel {
	return &SystemLogModel{
		ID:           l.ID,
		TipoOperacao: l.TipoOperacao,
		ClienteID:    l.ClienteID,
		Status:       l.Status,
		Detalhes:     NewJSON(l.Detalhes),
		Periodo:      l.Periodo,
		Operador:     l.Operador,
		Timestamp:    l.Timestamp,
	}
}

// AutomationSettingModel is a key/value automation setting.
type AutomationSettingModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	Chave     string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Valor     string     `gorm:"type:text;not null"`
	Descricao string     `gorm:"type:text"`
	Tipo      string     `gorm:"type:varchar(20);not null;default:'string'"`
	UpdatedAt time.Time  `gorm:"not null"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AutomationSettingModel) TableName() string {
	return "configuracoes_automacao"
}

// ToDomain converts the persistence model to a domain AutomationSetting.
func (m *AutomationSettingModel) ToDomain() *dasmei.AutomationSetting {
	return &dasmei.AutomationSetting{
		ID:        m.ID,
		Chave:     m.Chave,
		Valor:     m.Valor,
		Descricao: m.Descricao,
		Tipo:      m.Tipo,
		UpdatedAt: m.UpdatedAt,
		UpdatedBy: m.UpdatedBy,
	}
}

// AutomationSettingModelFromDomain creates a new persistence model from a domain AutomationSetting.
func AutomationSettingModelFromDomain(s *dasmei.AutomationSetting) *AutomationSettingModel {
	return &AutomationSettingModel{
		ID:        s.ID,
		Chave:     s.Chave,
		Valor:     s.Valor,
		Descricao: s.Descricao,
		Tipo:      s.Tipo,
		UpdatedAt: s.UpdatedAt,
		UpdatedBy: s.UpdatedBy,
	}
}

// FeriadoModel is a holiday skipped by business-day arithmetic.
type FeriadoModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Data      time.Time `gorm:"type:date;not null;uniqueIndex"`
	Descricao string    `gorm:"type:varchar(255);not null"`
	Nacional  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FeriadoModel) TableName() string {
	return "feriados"
}

// ToDomain converts the persistence model to a domain Feriado.
func (m *FeriadoModel) ToDomain() *dasmei.Feriado {
	return &dasmei.Feriado{
		ID:        m.ID,
		Data:      m.Data,
		Descricao: m.Descricao,
		Nacional:  m.Nacional,
		CreatedAt: m.CreatedAt,
	}
}

// FeriadoModelFromDomain creates a new persistence model from a domain Feriado.
func FeriadoModelFromDomain(f *dasmei.Feriado) *FeriadoModel {
	return &FeriadoModel{
		ID:        f.ID,
		Data:      f.Data,
		Descricao: f.Descricao,
		Nacional:  f.Nacional,
		CreatedAt: f.CreatedAt,
	}
}

// RetryItemModel is a queued retry of a failed operation.
type RetryItemModel struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key"`
	TipoOperacao     string             `gorm:"type:varchar(50);not null"`
	ClienteID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	Dados            JSONMap            `gorm:"type:jsonb"`
	Erro             string             `gorm:"type:text"`
	Tentativas       int                `gorm:"not null;default:0"`
	MaxTentativas    int                `gorm:"not null;default:3"`
	ProximaTentativa *time.Time         `gorm:"index"`
	Status           dasmei.RetryStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt        time.Time          `gorm:"not null"`
	UpdatedAt        time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RetryItemModel) TableName() string {
	return "retry_queue"
}

// ToDomain converts the persistence model to a domain RetryItem.
func (m *RetryItemModel) ToDomain() *dasmei.RetryItem {
	return &dasmei.RetryItem{
		ID:               m.ID,
		TipoOperacao:     m.TipoOperacao,
		ClienteID:        m.ClienteID,
		Dados:            m.Dados.Data,
		Erro:             m.Erro,
		Tentativas:       m.Tentativas,
		MaxTentativas:    m.MaxTentativas,
		ProximaTentativa: m.ProximaTentativa,
		Status:           m.Status,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// RetryItemModelFromDomain creates a new persistence model from a domain RetryItem.
func RetryItemModelFromDomain(r *dasmei.RetryItem) *RetryItemModel {
	return &RetryItemModel{
		ID:               r.ID,
		TipoOperacao:     r.TipoOperacao,
		ClienteID:        r.ClienteID,
		Dados:            NewJSON(r.Dados),
		Erro:             r.Erro,
		Tentativas:       r.Tentativas,
		MaxTentativas:    r.MaxTentativas,
		ProximaTentativa: r.ProximaTentativa,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ApiConfigurationModel stores a provider configuration and its credentials.
type ApiConfigurationModel struct {
	ID            uuid.UUID               `gorm:"type:uuid;primary_key"`
	Name          string                  `gorm:"type:varchar(100);not null"`
	Type          dasmei.ApiType          `gorm:"type:varchar(30);not null;uniqueIndex:idx_api_configurations_type_provider,priority:1"`
	Provider      string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_api_configurations_type_provider,priority:2"`
	IsActive      bool                    `gorm:"not null;default:false;index"`
	Credentials   JSON[map[string]string] `gorm:"type:jsonb"`
	Configuration JSONMap                 `gorm:"type:jsonb"`
	LastUsed      *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ApiConfigurationModel) TableName() string {
	return "api_configurations"
}

// ToDomain converts the persistence model to a domain ApiConfiguration.
func (m *ApiConfigurationModel) ToDomain() *dasmei.ApiConfiguration {
	return &dasmei.ApiConfiguration{
		ID:            m.ID,
		Name:          m.Name,
		Type:          m.Type,
		Provider:      m.Provider,
		IsActive:      m.IsActive,
		Credentials:   m.Credentials.Data,
		Configuration: m.Configuration.Data,
		LastUsed:      m.LastUsed,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ApiConfigurationModelFromDomain creates a new persistence model from a domain ApiConfiguration.
func ApiConfigurationModelFromDomain(c *dasmei.ApiConfiguration) *ApiConfigurationModel {
	return &ApiConfigurationModel{
		ID:            c.ID,
		Name:          c.Name,
		Type:          c.Type,
		Provider:      c.Provider,
		IsActive:      c.IsActive,
		Credentials:   NewJSON(c.Credentials),
		Configuration: NewJSON(c.Configuration),
		LastUsed:      c.LastUsed,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ApiChangeLogModel audits configuration changes.
type ApiChangeLogModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	ApiID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Action    string     `gorm:"type:varchar(30);not null"`
	Changes   JSONMap    `gorm:"type:jsonb"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	Timestamp time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ApiChangeLogModel) TableName() string {
	return "api_change_logs"
}

// ToDomain converts the persistence model to a domain ApiChangeLog.
func (m *ApiChangeLogModel) ToDomain() *dasmei.ApiChangeLog {
	return &dasmei.ApiChangeLog{
		ID:        m.ID,
		ApiID:     m.ApiID,
		Action:    m.Action,
		Changes:   m.Changes.Data,
		UserID:    m.UserID,
		Timestamp: m.Timestamp,
	}
}

// ApiChangeLogModelFromDomain creates a new persistence model from a domain ApiChangeLog.
func ApiChangeLogModelFromDomain(l *dasmei.ApiChangeLog) *ApiChangeLogModel {
	return &ApiChangeLogModel{
		ID:        l.ID,
		ApiID:     l.ApiID,
		Action:    l.Action,
		Changes:   NewJSON(l.Changes),
		UserID:    l.UserID,
		Timestamp: l.Timestamp,
	}
}

package dasmei

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// EvolutionInstance is a WhatsApp gateway instance on an Evolution API server
type EvolutionInstance struct {
	ID           uuid.UUID
	Nome         string
	InstanceName string
	ServerURL    string
	Token        string
	Ativo        bool
	UltimoTeste  *time.Time
	StatusTeste  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewEvolutionInstance validates and creates an active instance
func NewEvolutionInstance(nome, instanceName, serverURL, token string) (*EvolutionInstance, error) {
	if strings.TrimSpace(nome) == "" || strings.TrimSpace(instanceName) == "" {
		return nil, shared.NewDomainError("INVALID_INSTANCE", "Nome e instância são obrigatórios")
	}
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		return nil, shared.NewDomainError("INVALID_SERVER_URL", "URL do servidor deve começar com http:// ou https://")
	}
	if strings.TrimSpace(token) == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token é obrigatório")
	}
	now := time.Now()
	return &EvolutionInstance{
		ID:           uuid.New(),
		Nome:         strings.TrimSpace(nome),
		InstanceName: strings.TrimSpace(instanceName),
		ServerURL:    strings.TrimRight(serverURL, "/"),
		Token:        token,
		Ativo:        true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Test outcomes of an instance connection test
const (
	StatusTesteSuccess = "success"
	StatusTesteFailed  = "failed"
)

// RecordTest stores the result of a connection test
func (e *EvolutionInstance) RecordTest(ok bool, now time.Time) {
	e.UltimoTeste = &now
	if ok {
		e.StatusTeste = StatusTesteSuccess
	} else {
		e.StatusTeste = StatusTesteFailed
	}
	e.UpdatedAt = now
}

// Operator recorded for automatic operations
const OperadorAutomatico = "automatico"

// Log statuses
const (
	LogSuccess = "success"
	LogFailed  = "failed"
	LogPending = "pending"
)

// SystemLog is an audit entry of an automation operation
type SystemLog struct {
	ID           uuid.UUID
	TipoOperacao string
	ClienteID    *uuid.UUID
	Status       string
	Detalhes     map[string]any
	Periodo      string
	Operador     string
	Timestamp    time.Time
}

// NewSystemLog creates a log entry
func NewSystemLog(tipo string, clienteID *uuid.UUID, status string, detalhes map[string]any, periodo, operador string) *SystemLog {
	if operador == "" {
		operador = OperadorAutomatico
	}
	return &SystemLog{
		ID:           uuid.New(),
		TipoOperacao: tipo,
		ClienteID:    clienteID,
		Status:       status,
		Detalhes:     detalhes,
		Periodo:      periodo,
		Operador:     operador,
		Timestamp:    time.Now(),
	}
}

// Setting value types
const (
	SettingString  = "string"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
)

// Well-known setting keys
const (
	SettingDiaGeracao     = "dia_geracao"
	SettingDiaEnvio       = "dia_envio"
	SettingDiasLembrete   = "dias_lembrete"
	SettingAutomacaoAtiva = "automacao_ativa"
	SettingEnviarEmail    = "enviar_email"
)

// AutomationSetting is a key/value tunable of the automation
type AutomationSetting struct {
	ID        uuid.UUID
	Chave     string
	Valor     string
	Descricao string
	Tipo      string
	UpdatedAt time.Time
	UpdatedBy *uuid.UUID
}

// SetValue validates v against the setting type and stores it
func (s *AutomationSetting) SetValue(v string, by *uuid.UUID) error {
	switch s.Tipo {
	case SettingNumber:
		if _, err := strconv.Atoi(v); err != nil {
			return shared.NewDomainError("INVALID_SETTING", "Valor numérico inválido para "+s.Chave)
		}
	case SettingBoolean:
		if _, err := strconv.ParseBool(v); err != nil {
			return shared.NewDomainError("INVALID_SETTING", "Valor booleano inválido para "+s.Chave)
		}
	}
	s.Valor = v
	s.UpdatedBy = by
	s.UpdatedAt = time.Now()
	return nil
}

// Int returns the value as an int, or def when it is not numeric
func (s *AutomationSetting) Int(def int) int {
	if s == nil {
		return def
	}
	n, err := strconv.Atoi(s.Valor)
	if err != nil {
		return def
	}
	return n
}

// Bool returns the value as a bool, or def when it is not boolean
func (s *AutomationSetting) Bool(def bool) bool {
	if s == nil {
		return def
	}
	b, err := strconv.ParseBool(s.Valor)
	if err != nil {
		return def
	}
	return b
}

// Feriado is a holiday excluded from business days
type Feriado struct {
	ID        uuid.UUID
	Data      time.Time
	Descricao string
	Nacional  bool
	CreatedAt time.Time
}

// NewFeriado creates a holiday
func NewFeriado(data time.Time, descricao string, nacional bool) (*Feriado, error) {
	f := &Feriado{ID: uuid.New(), CreatedAt: time.Now()}
	if err := f.Update(data, descricao, nacional); err != nil {
		return nil, err
	}
	return f, nil
}

// Update replaces the date, description and scope of the holiday. The date
// is truncated to midnight.
func (f *Feriado) Update(data time.Time, descricao string, nacional bool) error {
	if data.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Data do feriado é obrigatória")
	}
	if strings.TrimSpace(descricao) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Descrição do feriado é obrigatória")
	}
	f.Data = time.Date(data.Year(), data.Month(), data.Day(), 0, 0, 0, 0, data.Location())
	f.Descricao = strings.TrimSpace(descricao)
	f.Nacional = nacional
	return nil
}

// ApiType groups interchangeable providers
type ApiType string

const (
	ApiTypeDASProvider ApiType = "das_provider"
	ApiTypeWhatsApp    ApiType = "whatsapp"
	ApiTypeEmail       ApiType = "email"
)

// ApiConfiguration is a stored provider configuration; at most one per type
// is active.
type ApiConfiguration struct {
	ID            uuid.UUID
	Name          string
	Type          ApiType
	Provider      string
	IsActive      bool
	Credentials   map[string]string
	Configuration map[string]any
	LastUsed      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Change log actions
const (
	ChangeCreated     = "created"
	ChangeUpdated     = "updated"
	ChangeActivated   = "activated"
	ChangeDeactivated = "deactivated"
)

// ApiChangeLog audits provider configuration changes
type ApiChangeLog struct {
	ID        uuid.UUID
	ApiID     uuid.UUID
	Action    string
	Changes   map[string]any
	UserID    *uuid.UUID
	Timestamp time.Time
}

// NewApiChangeLog creates a change log entry
func NewApiChangeLog(apiID uuid.UUID, action string, changes map[string]any, userID *uuid.UUID) *ApiChangeLog {
	return &ApiChangeLog{
		ID:        uuid.New(),
		ApiID:     apiID,
		Action:    action,
		Changes:   changes,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// Statistics summarizes the automation for a period
type Statistics struct {
	Periodo          string `json:"periodo"`
	ClientesAtivos   int64  `json:"clientes_ativos"`
	GuiasGeradas     int64  `json:"guias_geradas"`
	GuiasFalhas      int64  `json:"guias_falhas"`
	WhatsAppEnviados int64  `json:"whatsapp_enviados"`
	EmailsEnviados   int64  `json:"emails_enviados"`
	EnviosFalhas     int64  `json:"envios_falhas"`
	RetryPendentes   int64  `json:"retry_pendentes"`
}

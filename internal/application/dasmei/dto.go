package dasmei

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/shopspring/decimal"
)

// ClienteMeiRequest creates or updates a MEI client
type ClienteMeiRequest struct {
	Nome          string `json:"nome" binding:"required,min=2,max=200"`
	CNPJ          string `json:"cnpj" binding:"required,cnpj"`
	Telefone      string `json:"telefone" binding:"omitempty,max=20"`
	Email         string `json:"email" binding:"omitempty,email"`
	DiaEnvio      int    `json:"dia_envio" binding:"omitempty,min=1,max=31"`
	DiaVencimento int    `json:"dia_vencimento" binding:"omitempty,min=1,max=31"`
	IsActive      *bool  `json:"is_active"`
	Observacoes   string `json:"observacoes" binding:"omitempty,max=2000"`
}

// ClienteMeiResponse is a MEI client in API responses
type ClienteMeiResponse struct {
	ID            uuid.UUID `json:"id"`
	Nome          string    `json:"nome"`
	CNPJ          string    `json:"cnpj"`
	Telefone      string    `json:"telefone"`
	Email         string    `json:"email"`
	DiaEnvio      int       `json:"dia_envio"`
	DiaVencimento int       `json:"dia_vencimento"`
	IsActive      bool      `json:"is_active"`
	Observacoes   string    `json:"observacoes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToClienteMeiResponse converts a domain MEI client
func ToClienteMeiResponse(c *dasmei.ClienteMei) ClienteMeiResponse {
	return ClienteMeiResponse{
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

// GuiaListFilter narrows guide listings
type GuiaListFilter struct {
	Periodo      string `form:"periodo"`
	ClienteMeiID string `form:"cliente_mei_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=pending success failed"`
}

// GuiaResponse is a DAS guide in API responses
type GuiaResponse struct {
	ID             uuid.UUID       `json:"id"`
	ClienteMeiID   uuid.UUID       `json:"cliente_mei_id"`
	Periodo        string          `json:"periodo"`
	DataVencimento *time.Time      `json:"data_vencimento,omitempty"`
	Valor          decimal.Decimal `json:"valor"`
	Principal      decimal.Decimal `json:"principal"`
	Multas         decimal.Decimal `json:"multas"`
	Juros          decimal.Decimal `json:"juros"`
	URL            string          `json:"url,omitempty"`
	StorageKey     string          `json:"storage_key,omitempty"`
	FileName       string          `json:"file_name,omitempty"`
	Situacao       string          `json:"situacao,omitempty"`
	Status         string          `json:"status"`
	Erro           string          `json:"erro,omitempty"`
	Provider       string          `json:"provider"`
	Disponivel     bool            `json:"disponivel"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToGuiaResponse converts a domain guide
func ToGuiaResponse(g *dasmei.DasGuia) GuiaResponse {
	return GuiaResponse{
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
		Status:         string(g.Status),
		Erro:           g.Erro,
		Provider:       g.Provider,
		Disponivel:     g.IsAvailable(),
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// GenerateRequest triggers guide generation. An empty period means the
// previous month.
type GenerateRequest struct {
	Periodo string `json:"periodo"`
}

// RunRequest triggers a delivery run. An empty date means today.
type RunRequest struct {
	Date    string `json:"date"`
	Periodo string `json:"periodo"`
}

// GenerationError describes a client whose guide could not be generated
type GenerationError struct {
	ClienteMeiID uuid.UUID `json:"cliente_mei_id"`
	Nome         string    `json:"nome"`
	CNPJ         string    `json:"cnpj"`
	Erro         string    `json:"erro"`
}

// GenerationSummary is the outcome of a generation run
type GenerationSummary struct {
	Periodo   string            `json:"periodo"`
	Provider  string            `json:"provider"`
	Total     int               `json:"total"`
	Generated int               `json:"generated"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	Errors    []GenerationError `json:"errors"`
}

// DeliverySummary is the outcome of a delivery run
type DeliverySummary struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	// NotBusinessDay is set when the run was skipped entirely
	NotBusinessDay bool `json:"not_business_day,omitempty"`
}

// RetrySummary is the outcome of a retry queue run
type RetrySummary struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Exhausted int `json:"exhausted"`
}

// EnvioLogResponse is a delivery log in API responses
type EnvioLogResponse struct {
	ID         uuid.UUID  `json:"id"`
	GuiaID     uuid.UUID  `json:"guia_id"`
	Tipo       string     `json:"tipo"`
	Status     string     `json:"status"`
	Mensagem   string     `json:"mensagem"`
	MessageID  string     `json:"message_id,omitempty"`
	EnviadoEm  *time.Time `json:"enviado_em,omitempty"`
	Tentativas int        `json:"tentativas"`
	UltimoErro string     `json:"ultimo_erro,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToEnvioLogResponse converts a domain delivery log
func ToEnvioLogResponse(l *dasmei.EnvioLog) EnvioLogResponse {
	return EnvioLogResponse{
		ID:         l.ID,
		GuiaID:     l.GuiaID,
		Tipo:       string(l.Tipo),
		Status:     string(l.Status),
		Mensagem:   l.Mensagem,
		MessageID:  l.MessageID,
		EnviadoEm:  l.EnviadoEm,
		Tentativas: l.Tentativas,
		UltimoErro: l.UltimoErro,
		CreatedAt:  l.CreatedAt,
	}
}

// StatusRequest asks for guide availability of several CNPJs
type StatusRequest struct {
	CNPJs   []string `json:"cnpjs" binding:"required,min=1,max=500"`
	Periodo string   `json:"periodo"`
}

// CNPJStatus is the guide availability of one CNPJ
type CNPJStatus struct {
	Disponivel bool   `json:"disponivel"`
	Periodo    string `json:"periodo,omitempty"`
	FileName   string `json:"file_name,omitempty"`
}

// TemplateRequest creates or updates a message template
type TemplateRequest struct {
	Nome     string `json:"nome" binding:"required,max=100"`
	Tipo     string `json:"tipo" binding:"required,oneof=boleto_disponivel boleto_pago lembrete_vencimento"`
	Conteudo string `json:"conteudo" binding:"required"`
	Ativo    *bool  `json:"ativo"`
}

// TemplateResponse is a message template in API responses
type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Tipo      string    `json:"tipo"`
	Conteudo  string    `json:"conteudo"`
	Ativo     bool      `json:"ativo"`
	Variaveis []string  `json:"variaveis"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTemplateResponse converts a domain message template
func ToTemplateResponse(t *dasmei.MessageTemplate) TemplateResponse {
	vars := t.Variaveis
	if vars == nil {
		vars = []string{}
	}
	return TemplateResponse{
		ID:        t.ID,
		Nome:      t.Nome,
		Tipo:      string(t.Tipo),
		Conteudo:  t.Conteudo,
		Ativo:     t.Ativo,
		Variaveis: vars,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// InstanceRequest creates or updates an Evolution API instance
type InstanceRequest struct {
	Nome         string `json:"nome" binding:"required,max=100"`
	InstanceName string `json:"instance_name" binding:"required,max=100"`
	ServerURL    string `json:"server_url" binding:"required,url"`
	Token        string `json:"token"`
	Ativo        *bool  `json:"ativo"`
}

// InstanceResponse is an Evolution API instance in API responses. The token
// is never returned.
type InstanceResponse struct {
	ID           uuid.UUID  `json:"id"`
	Nome         string     `json:"nome"`
	InstanceName string     `json:"instance_name"`
	ServerURL    string     `json:"server_url"`
	Ativo        bool       `json:"ativo"`
	UltimoTeste  *time.Time `json:"ultimo_teste,omitempty"`
	StatusTeste  string     `json:"status_teste,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToInstanceResponse converts a domain instance
func ToInstanceResponse(e *dasmei.EvolutionInstance) InstanceResponse {
	return InstanceResponse{
		ID:           e.ID,
		Nome:         e.Nome,
		InstanceName: e.InstanceName,
		ServerURL:    e.ServerURL,
		Ativo:        e.Ativo,
		UltimoTeste:  e.UltimoTeste,
		StatusTeste:  e.StatusTeste,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// SettingRequest updates one automation setting
type SettingRequest struct {
	Valor string `json:"valor" binding:"required"`
}

// SettingResponse is an automation setting in API responses
type SettingResponse struct {
	Chave     string     `json:"chave"`
	Valor     string     `json:"valor"`
	Descricao string     `json:"descricao"`
	Tipo      string     `json:"tipo"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
}

// ToSettingResponse converts a domain setting
func ToSettingResponse(s *dasmei.AutomationSetting) SettingResponse {
	return SettingResponse{
		Chave:     s.Chave,
		Valor:     s.Valor,
		Descricao: s.Descricao,
		Tipo:      s.Tipo,
		UpdatedAt: s.UpdatedAt,
		UpdatedBy: s.UpdatedBy,
	}
}

// FeriadoRequest creates or updates a holiday. Data is dd/mm/yyyy or yyyy-mm-dd.
type FeriadoRequest struct {
	Data      string `json:"data" binding:"required"`
	Descricao string `json:"descricao" binding:"required,max=200"`
	Nacional  bool   `json:"nacional"`
}

// FeriadoResponse is a holiday in API responses
type FeriadoResponse struct {
	ID        uuid.UUID `json:"id"`
	Data      string    `json:"data"`
	Descricao string    `json:"descricao"`
	Nacional  bool      `json:"nacional"`
}

// ToFeriadoResponse converts a domain holiday
func ToFeriadoResponse(f *dasmei.Feriado) FeriadoResponse {
	return FeriadoResponse{
		ID:        f.ID,
		Data:      f.Data.Format("2006-01-02"),
		Descricao: f.Descricao,
		Nacional:  f.Nacional,
	}
}

// LogFilter narrows system log listings
type LogFilter struct {
	TipoOperacao string `form:"tipo_operacao"`
	Status       string `form:"status" binding:"omitempty,oneof=success failed pending"`
	Periodo      string `form:"periodo"`
	ClienteID    string `form:"cliente_id" binding:"omitempty,uuid"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// SystemLogResponse is an audit entry in API responses
type SystemLogResponse struct {
	ID           uuid.UUID      `json:"id"`
	TipoOperacao string         `json:"tipo_operacao"`
	ClienteID    *uuid.UUID     `json:"cliente_id,omitempty"`
	Status       string         `json:"status"`
	Detalhes     map[string]any `json:"detalhes,omitempty"`
	Periodo      string         `json:"periodo,omitempty"`
	Operador     string         `json:"operador"`
	Timestamp    time.Time      `json:"timestamp"`
}

// ToSystemLogResponse converts a domain audit entry
func ToSystemLogResponse(l *dasmei.SystemLog) SystemLogResponse {
	return SystemLogResponse{
		ID:           l.ID,
		TipoOperacao: l.TipoOperacao,
		ClienteID:    l.ClienteID,
		Status:       l.Status,
		Detalhes:     l.Detalhes,
		Periodo:      l.Periodo,
		Operador:     l.Operador,
		Timestamp:    l.Timestamp,
	}
}

// RetryResponse is a retry queue item in API responses
type RetryResponse struct {
	ID               uuid.UUID      `json:"id"`
	TipoOperacao     string         `json:"tipo_operacao"`
	ClienteID        uuid.UUID      `json:"cliente_id"`
	Dados            map[string]any `json:"dados"`
	Erro             string         `json:"erro,omitempty"`
	Tentativas       int            `json:"tentativas"`
	MaxTentativas    int            `json:"max_tentativas"`
	ProximaTentativa *time.Time     `json:"proxima_tentativa,omitempty"`
	Status           string         `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ToRetryResponse converts a domain retry item
func ToRetryResponse(r *dasmei.RetryItem) RetryResponse {
	return RetryResponse{
		ID:               r.ID,
		TipoOperacao:     r.TipoOperacao,
		ClienteID:        r.ClienteID,
		Dados:            r.Dados,
		Erro:             r.Erro,
		Tentativas:       r.Tentativas,
		MaxTentativas:    r.MaxTentativas,
		ProximaTentativa: r.ProximaTentativa,
		Status:           string(r.Status),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ApiConfigRequest creates or updates a provider configuration
type ApiConfigRequest struct {
	Name          string            `json:"name" binding:"required,max=100"`
	Type          string            `json:"type" binding:"required,oneof=das_provider whatsapp email"`
	Provider      string            `json:"provider" binding:"required,max=50"`
	Credentials   map[string]string `json:"credentials"`
	Configuration map[string]any    `json:"configuration"`
}

// ApiConfigResponse is a provider configuration in API responses.
// Credential values are masked.
type ApiConfigResponse struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Provider       string         `json:"provider"`
	IsActive       bool           `json:"is_active"`
	CredentialKeys []string       `json:"credential_keys"`
	Configuration  map[string]any `json:"configuration,omitempty"`
	LastUsed       *time.Time     `json:"last_used,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ToApiConfigResponse converts a domain provider configuration
func ToApiConfigResponse(c *dasmei.ApiConfiguration) ApiConfigResponse {
	keys := make([]string, 0, len(c.Credentials))
	for k := range c.Credentials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return ApiConfigResponse{
		ID:             c.ID,
		Name:           c.Name,
		Type:           string(c.Type),
		Provider:       c.Provider,
		IsActive:       c.IsActive,
		CredentialKeys: keys,
		Configuration:  c.Configuration,
		LastUsed:       c.LastUsed,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ProvidersResponse lists registered providers and stored configurations
type ProvidersResponse struct {
	Registered     []string            `json:"registered"`
	Active         string              `json:"active"`
	Configurations []ApiConfigResponse `json:"configurations"`
}

// ApiChangeLogResponse is a configuration change in API responses
type ApiChangeLogResponse struct {
	ID        uuid.UUID      `json:"id"`
	Action    string         `json:"action"`
	Changes   map[string]any `json:"changes,omitempty"`
	UserID    *uuid.UUID     `json:"user_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

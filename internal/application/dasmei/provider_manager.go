package dasmei

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Known DAS providers
const (
	ProviderInfoSimples    = "infosimples"
	ProviderReceitaFederal = "receita-federal"
	ProviderSerpro         = "serpro"
)

// CredentialBinder is implemented by providers that accept credentials
// stored in an ApiConfiguration instead of the static configuration.
type CredentialBinder interface {
	WithCredentials(credentials map[string]string) ports.DASProvider
}

// ProviderManager keeps the registry of DAS providers and resolves the one
// currently active.
type ProviderManager struct {
	configs   dasmei.ApiConfigRepository
	providers map[string]ports.DASProvider
	fallback  string
	logger    *zap.Logger
	now       func() time.Time
}

// NewProviderManager registers providers. receita-federal and serpro are
// always present; unless a real implementation is passed for them they
// answer with PROVIDER_NOT_IMPLEMENTED. fallback is used when no
// configuration is active.
func NewProviderManager(configs dasmei.ApiConfigRepository, fallback string, logger *zap.Logger, providers ...ports.DASProvider) *ProviderManager {
	m := &ProviderManager{
		configs:   configs,
		providers: make(map[string]ports.DASProvider),
		fallback:  fallback,
		logger:    logger,
		now:       time.Now,
	}
	for _, name := range []string{ProviderReceitaFederal, ProviderSerpro} {
		m.providers[name] = unimplementedProvider{name: name}
	}
	for _, p := range providers {
		m.providers[p.Name()] = p
	}
	if m.fallback == "" {
		m.fallback = ProviderInfoSimples
	}
	return m
}

// Registered returns the registered provider names, sorted
func (m *ProviderManager) Registered() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a registered provider by name
func (m *ProviderManager) Get(name string) (ports.DASProvider, error) {
	p, ok := m.providers[name]
	if !ok {
		return nil, shared.NewDomainError("PROVIDER_NOT_REGISTERED", "Provedor DAS não registrado: "+name)
	}
	return p, nil
}

// Active returns the provider of the active das_provider configuration, or
// the fallback provider when none is active.
func (m *ProviderManager) Active(ctx context.Context) (ports.DASProvider, error) {
	cfg, err := m.configs.FindActive(ctx, dasmei.ApiTypeDASProvider)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return m.Get(m.fallback)
		}
		return nil, err
	}
	p, err := m.Get(cfg.Provider)
	if err != nil {
		return nil, err
	}
	if b, ok := p.(CredentialBinder); ok && len(cfg.Credentials) > 0 {
		p = b.WithCredentials(cfg.Credentials)
	}
	now := m.now()
	cfg.LastUsed = &now
	if err := m.configs.Update(ctx, cfg); err != nil {
		m.logger.Warn("Failed to record provider usage", zap.String("provider", cfg.Provider), zap.Error(err))
	}
	return p, nil
}

// List returns the registry together with the stored configurations
func (m *ProviderManager) List(ctx context.Context) (*ProvidersResponse, error) {
	configs, err := m.configs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := &ProvidersResponse{
		Registered:     m.Registered(),
		Active:         m.fallback,
		Configurations: make([]ApiConfigResponse, len(configs)),
	}
	for i, c := range configs {
		resp.Configurations[i] = ToApiConfigResponse(c)
		if c.Type == dasmei.ApiTypeDASProvider && c.IsActive {
			resp.Active = c.Provider
		}
	}
	return resp, nil
}

// CreateConfig stores a new, inactive provider configuration
func (m *ProviderManager) CreateConfig(ctx context.Context, req ApiConfigRequest, userID *uuid.UUID) (*ApiConfigResponse, error) {
	apiType := dasmei.ApiType(req.Type)
	if apiType == dasmei.ApiTypeDASProvider {
		if _, err := m.Get(req.Provider); err != nil {
			return nil, err
		}
	}
	if _, err := m.configs.FindByProvider(ctx, apiType, req.Provider); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Configuração já existe para o provedor "+req.Provider)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	now := m.now()
	cfg := &dasmei.ApiConfiguration{
		ID:            uuid.New(),
		Name:          req.Name,
		Type:          apiType,
		Provider:      req.Provider,
		Credentials:   req.Credentials,
		Configuration: req.Configuration,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := m.configs.Create(ctx, cfg); err != nil {
		return nil, err
	}
	m.changeLog(ctx, cfg.ID, dasmei.ChangeCreated, map[string]any{"name": cfg.Name, "provider": cfg.Provider}, userID)
	resp := ToApiConfigResponse(cfg)
	return &resp, nil
}

// UpdateConfig replaces name, credentials and configuration. Credentials
// are kept when the request carries none.
func (m *ProviderManager) UpdateConfig(ctx context.Context, id uuid.UUID, req ApiConfigRequest, userID *uuid.UUID) (*ApiConfigResponse, error) {
	cfg, err := m.configs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changes := map[string]any{}
	if req.Name != cfg.Name {
		changes["name"] = req.Name
		cfg.Name = req.Name
	}
	if len(req.Credentials) > 0 {
		changes["credentials"] = "updated"
		cfg.Credentials = req.Credentials
	}
	if req.Configuration != nil {
		changes["configuration"] = req.Configuration
		cfg.Configuration = req.Configuration
	}
	cfg.UpdatedAt = m.now()
	if err := m.configs.Update(ctx, cfg); err != nil {
		return nil, err
	}
	m.changeLog(ctx, cfg.ID, dasmei.ChangeUpdated, changes, userID)
	resp := ToApiConfigResponse(cfg)
	return &resp, nil
}

// Activate makes a configuration the only active one of its type
func (m *ProviderManager) Activate(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error {
	cfg, err := m.configs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if cfg.Type == dasmei.ApiTypeDASProvider {
		if _, err := m.Get(cfg.Provider); err != nil {
			return err
		}
	}
	if err := m.configs.Activate(ctx, id, userID); err != nil {
		return err
	}
	m.logger.Info("Provider activated",
		zap.String("type", string(cfg.Type)),
		zap.String("provider", cfg.Provider))
	return nil
}

// ChangeLogs returns the change history of a configuration
func (m *ProviderManager) ChangeLogs(ctx context.Context, id uuid.UUID) ([]ApiChangeLogResponse, error) {
	logs, err := m.configs.FindChangeLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]ApiChangeLogResponse, len(logs))
	for i, l := range logs {
		out[i] = ApiChangeLogResponse{ID: l.ID, Action: l.Action, Changes: l.Changes, UserID: l.UserID, Timestamp: l.Timestamp}
	}
	return out, nil
}

// TestConnection checks that a registered provider answers
func (m *ProviderManager) TestConnection(ctx context.Context, name string) error {
	p, err := m.Get(name)
	if err != nil {
		return err
	}
	if err := p.TestConnection(ctx); err != nil {
		m.logger.Warn("Provider connection test failed", zap.String("provider", name), zap.Error(err))
		return err
	}
	return nil
}

func (m *ProviderManager) changeLog(ctx context.Context, apiID uuid.UUID, action string, changes map[string]any, userID *uuid.UUID) {
	if err := m.configs.CreateChangeLog(ctx, dasmei.NewApiChangeLog(apiID, action, changes, userID)); err != nil {
		m.logger.Warn("Failed to write provider change log", zap.String("api_id", apiID.String()), zap.Error(err))
	}
}

// ErrProviderNotImplemented is returned by providers that are registered
// but have no client yet
var ErrProviderNotImplemented = shared.NewDomainError("PROVIDER_NOT_IMPLEMENTED", "Provedor DAS ainda não implementado")

type unimplementedProvider struct {
	name string
}

func (p unimplementedProvider) Name() string { return p.name }

func (p unimplementedProvider) GenerateGuide(context.Context, string, string) (*dasmei.GuideData, error) {
	return nil, fmt.Errorf("%s: %w", p.name, ErrProviderNotImplemented)
}

func (p unimplementedProvider) Download(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("%s: %w", p.name, ErrProviderNotImplemented)
}

func (p unimplementedProvider) TestConnection(context.Context) error {
	return fmt.Errorf("%s: %w", p.name, ErrProviderNotImplemented)
}

package dasmei

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/stretchr/testify/mock"
)

// MockClienteMeiRepo is a mock implementation of dasmei.ClienteMeiRepository
type MockClienteMeiRepo struct {
	mock.Mock
}

func (m *MockClienteMeiRepo) Create(ctx context.Context, c *dasmei.ClienteMei) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClienteMeiRepo) Update(ctx context.Context, c *dasmei.ClienteMei) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClienteMeiRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClienteMeiRepo) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.ClienteMei, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.ClienteMei), args.Error(1)
}

func (m *MockClienteMeiRepo) FindByCNPJ(ctx context.Context, cnpj string) (*dasmei.ClienteMei, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.ClienteMei), args.Error(1)
}

func (m *MockClienteMeiRepo) FindByCNPJs(ctx context.Context, cnpjs []string) ([]*dasmei.ClienteMei, error) {
	args := m.Called(ctx, cnpjs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.ClienteMei), args.Error(1)
}

func (m *MockClienteMeiRepo) FindAll(ctx context.Context, search string, activeOnly bool) ([]*dasmei.ClienteMei, error) {
	args := m.Called(ctx, search, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.ClienteMei), args.Error(1)
}

func (m *MockClienteMeiRepo) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockGuiaRepo is a mock implementation of dasmei.GuiaRepository
type MockGuiaRepo struct {
	mock.Mock
}

func (m *MockGuiaRepo) Save(ctx context.Context, g *dasmei.DasGuia) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGuiaRepo) Update(ctx context.Context, g *dasmei.DasGuia) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGuiaRepo) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.DasGuia, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.DasGuia), args.Error(1)
}

func (m *MockGuiaRepo) FindByClientePeriodo(ctx context.Context, clienteID uuid.UUID, periodo string) (*dasmei.DasGuia, error) {
	args := m.Called(ctx, clienteID, periodo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.DasGuia), args.Error(1)
}

func (m *MockGuiaRepo) FindAll(ctx context.Context, filter dasmei.GuiaFilter) ([]*dasmei.DasGuia, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.DasGuia), args.Error(1)
}

func (m *MockGuiaRepo) FindWithoutDelivery(ctx context.Context, periodo string, tipo dasmei.EnvioTipo) ([]*dasmei.DasGuia, error) {
	args := m.Called(ctx, periodo, tipo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.DasGuia), args.Error(1)
}

func (m *MockGuiaRepo) FindDueBetween(ctx context.Context, from time.Time, to time.Time) ([]*dasmei.DasGuia, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.DasGuia), args.Error(1)
}

func (m *MockGuiaRepo) CountByStatus(ctx context.Context, periodo string, status dasmei.GuiaStatus) (int64, error) {
	args := m.Called(ctx, periodo, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnvioLogRepo is a mock implementation of dasmei.EnvioLogRepository
type MockEnvioLogRepo struct {
	mock.Mock
}

func (m *MockEnvioLogRepo) Create(ctx context.Context, l *dasmei.EnvioLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockEnvioLogRepo) FindByGuia(ctx context.Context, guiaID uuid.UUID) ([]*dasmei.EnvioLog, error) {
	args := m.Called(ctx, guiaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.EnvioLog), args.Error(1)
}

func (m *MockEnvioLogRepo) ExistsSent(ctx context.Context, guiaID uuid.UUID, tipo dasmei.EnvioTipo) (bool, error) {
	args := m.Called(ctx, guiaID, tipo)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnvioLogRepo) CountByPeriodo(ctx context.Context, periodo string, tipo dasmei.EnvioTipo, status dasmei.EnvioStatus) (int64, error) {
	args := m.Called(ctx, periodo, tipo, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockProgramacaoRepo is a mock implementation of dasmei.ProgramacaoRepository
type MockProgramacaoRepo struct {
	mock.Mock
}

func (m *MockProgramacaoRepo) Create(ctx context.Context, p *dasmei.ProgramacaoEnvio) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProgramacaoRepo) Update(ctx context.Context, p *dasmei.ProgramacaoEnvio) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProgramacaoRepo) FindDue(ctx context.Context, date time.Time) ([]*dasmei.ProgramacaoEnvio, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.ProgramacaoEnvio), args.Error(1)
}

func (m *MockProgramacaoRepo) CancelByGuia(ctx context.Context, guiaID uuid.UUID) error {
	args := m.Called(ctx, guiaID)
	return args.Error(0)
}

// MockMessageTemplateRepo is a mock implementation of dasmei.MessageTemplateRepository
type MockMessageTemplateRepo struct {
	mock.Mock
}

func (m *MockMessageTemplateRepo) Create(ctx context.Context, t *dasmei.MessageTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockMessageTemplateRepo) Update(ctx context.Context, t *dasmei.MessageTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockMessageTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMessageTemplateRepo) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.MessageTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.MessageTemplate), args.Error(1)
}

func (m *MockMessageTemplateRepo) FindActiveByTipo(ctx context.Context, tipo dasmei.TemplateType) (*dasmei.MessageTemplate, error) {
	args := m.Called(ctx, tipo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.MessageTemplate), args.Error(1)
}

func (m *MockMessageTemplateRepo) FindAll(ctx context.Context) ([]*dasmei.MessageTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.MessageTemplate), args.Error(1)
}

// MockEvolutionInstanceRepo is a mock implementation of dasmei.EvolutionInstanceRepository
type MockEvolutionInstanceRepo struct {
	mock.Mock
}

func (m *MockEvolutionInstanceRepo) Create(ctx context.Context, e *dasmei.EvolutionInstance) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEvolutionInstanceRepo) Update(ctx context.Context, e *dasmei.EvolutionInstance) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEvolutionInstanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEvolutionInstanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.EvolutionInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.EvolutionInstance), args.Error(1)
}

func (m *MockEvolutionInstanceRepo) FindActive(ctx context.Context) (*dasmei.EvolutionInstance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.EvolutionInstance), args.Error(1)
}

func (m *MockEvolutionInstanceRepo) FindAll(ctx context.Context) ([]*dasmei.EvolutionInstance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.EvolutionInstance), args.Error(1)
}

// MockSystemLogRepo is a mock implementation of dasmei.SystemLogRepository
type MockSystemLogRepo struct {
	mock.Mock
}

func (m *MockSystemLogRepo) Create(ctx context.Context, l *dasmei.SystemLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockSystemLogRepo) FindAll(ctx context.Context, filter dasmei.SystemLogFilter) ([]*dasmei.SystemLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.SystemLog), args.Error(1)
}

// MockSettingRepo is a mock implementation of dasmei.SettingRepository
type MockSettingRepo struct {
	mock.Mock
}

func (m *MockSettingRepo) FindAll(ctx context.Context) ([]*dasmei.AutomationSetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.AutomationSetting), args.Error(1)
}

func (m *MockSettingRepo) FindByChave(ctx context.Context, chave string) (*dasmei.AutomationSetting, error) {
	args := m.Called(ctx, chave)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.AutomationSetting), args.Error(1)
}

func (m *MockSettingRepo) Upsert(ctx context.Context, s *dasmei.AutomationSetting) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockFeriadoRepo is a mock implementation of dasmei.FeriadoRepository
type MockFeriadoRepo struct {
	mock.Mock
}

func (m *MockFeriadoRepo) Create(ctx context.Context, f *dasmei.Feriado) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFeriadoRepo) Update(ctx context.Context, f *dasmei.Feriado) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFeriadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.Feriado, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.Feriado), args.Error(1)
}

func (m *MockFeriadoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeriadoRepo) FindBetween(ctx context.Context, from time.Time, to time.Time) ([]*dasmei.Feriado, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.Feriado), args.Error(1)
}

func (m *MockFeriadoRepo) FindAll(ctx context.Context) ([]*dasmei.Feriado, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.Feriado), args.Error(1)
}

// MockRetryRepo is a mock implementation of dasmei.RetryRepository
type MockRetryRepo struct {
	mock.Mock
}

func (m *MockRetryRepo) Create(ctx context.Context, r *dasmei.RetryItem) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRetryRepo) Update(ctx context.Context, r *dasmei.RetryItem) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRetryRepo) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.RetryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.RetryItem), args.Error(1)
}

func (m *MockRetryRepo) FindDue(ctx context.Context, now time.Time) ([]*dasmei.RetryItem, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.RetryItem), args.Error(1)
}

func (m *MockRetryRepo) FindOpen(ctx context.Context, operacao string, clienteID uuid.UUID) ([]*dasmei.RetryItem, error) {
	args := m.Called(ctx, operacao, clienteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.RetryItem), args.Error(1)
}

func (m *MockRetryRepo) FindAll(ctx context.Context, status dasmei.RetryStatus) ([]*dasmei.RetryItem, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.RetryItem), args.Error(1)
}

func (m *MockRetryRepo) CountByStatus(ctx context.Context, status dasmei.RetryStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockApiConfigRepo is a mock implementation of dasmei.ApiConfigRepository
type MockApiConfigRepo struct {
	mock.Mock
}

func (m *MockApiConfigRepo) Create(ctx context.Context, c *dasmei.ApiConfiguration) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockApiConfigRepo) Update(ctx context.Context, c *dasmei.ApiConfiguration) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockApiConfigRepo) FindByID(ctx context.Context, id uuid.UUID) (*dasmei.ApiConfiguration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.ApiConfiguration), args.Error(1)
}

func (m *MockApiConfigRepo) FindByProvider(ctx context.Context, apiType dasmei.ApiType, provider string) (*dasmei.ApiConfiguration, error) {
	args := m.Called(ctx, apiType, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.ApiConfiguration), args.Error(1)
}

func (m *MockApiConfigRepo) FindActive(ctx context.Context, apiType dasmei.ApiType) (*dasmei.ApiConfiguration, error) {
	args := m.Called(ctx, apiType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dasmei.ApiConfiguration), args.Error(1)
}

func (m *MockApiConfigRepo) FindAll(ctx context.Context) ([]*dasmei.ApiConfiguration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.ApiConfiguration), args.Error(1)
}

func (m *MockApiConfigRepo) Activate(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockApiConfigRepo) CreateChangeLog(ctx context.Context, l *dasmei.ApiChangeLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockApiConfigRepo) FindChangeLogs(ctx context.Context, apiID uuid.UUID) ([]*dasmei.ApiChangeLog, error) {
	args := m.Called(ctx, apiID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dasmei.ApiChangeLog), args.Error(1)
}

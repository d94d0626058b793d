package cliente

import (
	"context"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/stretchr/testify/mock"
)

// MockClienteRepository is a mock implementation of cliente.ClienteRepository
type MockClienteRepository struct {
	mock.Mock
}

func (m *MockClienteRepository) Create(ctx context.Context, c *cliente.Cliente) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClienteRepository) Update(ctx context.Context, c *cliente.Cliente) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClienteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClienteRepository) FindByID(ctx context.Context, id uuid.UUID) (*cliente.Cliente, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cliente.Cliente), args.Error(1)
}

func (m *MockClienteRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*cliente.Cliente, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cliente.Cliente), args.Error(1)
}

func (m *MockClienteRepository) FindByCNPJ(ctx context.Context, cnpj string) (*cliente.Cliente, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cliente.Cliente), args.Error(1)
}

func (m *MockClienteRepository) ExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	args := m.Called(ctx, cnpj)
	return args.Bool(0), args.Error(1)
}

func (m *MockClienteRepository) FindAll(ctx context.Context, filter cliente.Filter) ([]*cliente.Cliente, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*cliente.Cliente), args.Get(1).(int64), args.Error(2)
}

// MockIrHistoricoRepository is a mock implementation of cliente.IrHistoricoRepository
type MockIrHistoricoRepository struct {
	mock.Mock
}

func (m *MockIrHistoricoRepository) Upsert(ctx context.Context, h *cliente.IrHistorico) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockIrHistoricoRepository) Update(ctx context.Context, h *cliente.IrHistorico) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockIrHistoricoRepository) FindByClienteAno(ctx context.Context, clienteID uuid.UUID, ano int) (*cliente.IrHistorico, error) {
	args := m.Called(ctx, clienteID, ano)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cliente.IrHistorico), args.Error(1)
}

func (m *MockIrHistoricoRepository) FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]*cliente.IrHistorico, error) {
	args := m.Called(ctx, clienteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cliente.IrHistorico), args.Error(1)
}

// MockRegistrationRepository is a mock implementation of registration.RegistrationRepository
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Create(ctx context.Context, r *registration.BusinessRegistration) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRegistrationRepository) Update(ctx context.Context, r *registration.BusinessRegistration) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRegistrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.BusinessRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.BusinessRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) FindAll(ctx context.Context) ([]*registration.BusinessRegistration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registration.BusinessRegistration), args.Error(1)
}

func (m *MockRegistrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTaskRepository is a mock implementation of registration.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *registration.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) CreateBatch(ctx context.Context, tasks []*registration.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *registration.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*registration.Task, error) {
	return m.list(m.Called(ctx, registrationID))
}

func (m *MockTaskRepository) FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]*registration.Task, error) {
	return m.list(m.Called(ctx, clienteID))
}

func (m *MockTaskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*registration.Task, error) {
	return m.list(m.Called(ctx, userID))
}

func (m *MockTaskRepository) FindClienteOnly(ctx context.Context) ([]*registration.Task, error) {
	return m.list(m.Called(ctx))
}

func (m *MockTaskRepository) list(args mock.Arguments) ([]*registration.Task, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registration.Task), args.Error(1)
}

// MockTemplateRepository is a mock implementation of registration.TaskTemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, t *registration.TaskTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepository) Update(ctx context.Context, t *registration.TaskTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.TaskTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.TaskTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context, activeOnly bool) ([]*registration.TaskTemplate, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registration.TaskTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

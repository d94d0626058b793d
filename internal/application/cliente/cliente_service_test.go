package cliente

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	appreg "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clienteFixture struct {
	repo         *MockClienteRepository
	irRepo       *MockIrHistoricoRepository
	regRepo      *MockRegistrationRepository
	taskRepo     *MockTaskRepository
	templateRepo *MockTemplateRepository
	service      *ClienteService
	now          time.Time
}

func newClienteFixture() *clienteFixture {
	f := &clienteFixture{
		repo:         new(MockClienteRepository),
		irRepo:       new(MockIrHistoricoRepository),
		regRepo:      new(MockRegistrationRepository),
		taskRepo:     new(MockTaskRepository),
		templateRepo: new(MockTemplateRepository),
		now:          time.Date(2025, 4, 2, 14, 0, 0, 0, time.UTC),
	}
	tasks := appreg.NewTaskService(f.taskRepo, f.templateRepo, nil, nil, testutil.NewMemoryStorage(), zap.NewNop())
	f.service = NewClienteService(f.repo, f.irRepo, f.regRepo, tasks, zap.NewNop())
	f.service.now = func() time.Time { return f.now }
	return f
}

func existingCliente(t *testing.T) *cliente.Cliente {
	t.Helper()
	c, err := cliente.NewCliente(cliente.Cliente{RazaoSocial: "Padaria São João Ltda", CNPJ: "12.345.678/0001-95"})
	require.NoError(t, err)
	return c
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected domain error, got %v", err)
	return de.Code
}

func TestClienteService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies pagination defaults and parses date ranges", func(t *testing.T) {
		f := newClienteFixture()
		c := existingCliente(t)
		f.repo.On("FindAll", ctx, mock.MatchedBy(func(filter cliente.Filter) bool {
			return filter.Page == 1 && filter.PageSize == 50 &&
				filter.Cidade == "Curitiba" &&
				filter.DataAberturaInicio != nil && filter.DataAberturaInicio.Year() == 2020 &&
				filter.ClienteDesdeFim == nil
		})).Return([]*cliente.Cliente{c}, int64(1), nil)

		result, err := f.service.List(ctx, ListFilter{Cidade: "Curitiba", DataAberturaInicio: "01/01/2020"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "12345678000195", result.Items[0].CNPJ)
	})

	t.Run("rejects invalid date", func(t *testing.T) {
		f := newClienteFixture()
		_, err := f.service.List(ctx, ListFilter{ClienteDesdeInicio: "ontem"})
		assert.Equal(t, "INVALID_DATE", domainCode(t, err))
		f.repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})
}

func TestClienteService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates client with defaults", func(t *testing.T) {
		f := newClienteFixture()
		f.repo.On("FindByCNPJ", ctx, "12345678000195").Return(nil, shared.ErrNotFound)
		f.repo.On("Create", ctx, mock.AnythingOfType("*cliente.Cliente")).Return(nil)

		resp, err := f.service.Create(ctx, ClienteRequest{
			RazaoSocial:   "Padaria São João Ltda",
			CNPJ:          "12.345.678/0001-95",
			DataAbertura:  "05/03/2019",
			EmailEmpresa:  "Contato@Padaria.com.br ",
			CapitalSocial: decimal.NewFromInt(50000),
		})
		require.NoError(t, err)
		assert.Equal(t, "ativo", resp.Status)
		assert.Equal(t, cliente.OrigemManual, resp.Origem)
		assert.Equal(t, "contato@padaria.com.br", resp.EmailEmpresa)
		require.NotNil(t, resp.DataAbertura)
		assert.Equal(t, time.March, resp.DataAbertura.Month())
		f.irRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("duplicate CNPJ", func(t *testing.T) {
		f := newClienteFixture()
		f.repo.On("FindByCNPJ", ctx, "12345678000195").Return(existingCliente(t), nil)

		_, err := f.service.Create(ctx, ClienteRequest{RazaoSocial: "Outra", CNPJ: "12345678000195"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("IR data is copied to history", func(t *testing.T) {
		f := newClienteFixture()
		f.repo.On("Create", ctx, mock.Anything).Return(nil)
		f.irRepo.On("Upsert", ctx, mock.MatchedBy(func(h *cliente.IrHistorico) bool {
			return h.Ano == 2025 && h.Status == "pendente" && h.ID != uuid.Nil
		})).Return(nil)

		_, err := f.service.Create(ctx, ClienteRequest{RazaoSocial: "Sem CNPJ", IrStatus: "pendente"})
		require.NoError(t, err)
		f.irRepo.AssertExpectations(t)
	})
}

func TestClienteService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("IR change upserts history for the reference year", func(t *testing.T) {
		f := newClienteFixture()
		c := existingCliente(t)
		f.repo.On("FindByID", ctx, c.ID).Return(c, nil)
		f.repo.On("FindByCNPJ", ctx, "12345678000195").Return(c, nil)
		f.repo.On("Update", ctx, c).Return(nil)
		f.irRepo.On("Upsert", ctx, mock.MatchedBy(func(h *cliente.IrHistorico) bool {
			return h.ClienteID == c.ID && h.Ano == 2024 && h.Status == "entregue" &&
				h.ValorRestituir.Equal(decimal.RequireFromString("350.10"))
		})).Return(nil)

		resp, err := f.service.Update(ctx, c.ID, ClienteRequest{
			RazaoSocial:      c.RazaoSocial,
			CNPJ:             c.CNPJ,
			IrAnoReferencia:  2024,
			IrStatus:         "entregue",
			IrValorRestituir: decimal.RequireFromString("350.10"),
		})
		require.NoError(t, err)
		assert.Equal(t, 2024, resp.IrAnoReferencia)
		f.irRepo.AssertExpectations(t)
	})

	t.Run("non IR change leaves history alone", func(t *testing.T) {
		f := newClienteFixture()
		c := existingCliente(t)
		f.repo.On("FindByID", ctx, c.ID).Return(c, nil)
		f.repo.On("Update", ctx, c).Return(nil)

		resp, err := f.service.Update(ctx, c.ID, ClienteRequest{RazaoSocial: "Padaria Nova", Cidade: "Curitiba"})
		require.NoError(t, err)
		assert.Equal(t, "Padaria Nova", resp.RazaoSocial)
		assert.Equal(t, "", resp.CNPJ)
		f.irRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("CNPJ owned by another client", func(t *testing.T) {
		f := newClienteFixture()
		c := existingCliente(t)
		other, err := cliente.NewCliente(cliente.Cliente{RazaoSocial: "Outra", CNPJ: "11222333000181"})
		require.NoError(t, err)
		f.repo.On("FindByID", ctx, c.ID).Return(c, nil)
		f.repo.On("FindByCNPJ", ctx, "11222333000181").Return(other, nil)

		_, err = f.service.Update(ctx, c.ID, ClienteRequest{RazaoSocial: c.RazaoSocial, CNPJ: "11222333000181"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		f := newClienteFixture()
		id := uuid.New()
		f.repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Update(ctx, id, ClienteRequest{RazaoSocial: "X"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestClienteService_UpdateIrHistoryYear(t *testing.T) {
	ctx := context.Background()
	status := "entregue"
	entrega := "30/05/2024"

	t.Run("updates existing year", func(t *testing.T) {
		f := newClienteFixture()
		c := existingCliente(t)
		row := &cliente.IrHistorico{ID: uuid.New(), ClienteID: c.ID, Ano: 2024, Status: "pendente", Observacoes: "aguardando informe"}
		f.repo.On("FindByID", ctx, c.ID).Return(c, nil)
		f.irRepo.On("FindByClienteAno", ctx, c.ID, 2024).Return(row, nil)
		f.irRepo.On("Update", ctx, row).Return(nil)

		resp, err := f.service.UpdateIrHistoryYear(ctx, c.ID, 2024, IrHistoricoRequest{Status: &status, DataEntrega: &entrega})
		require.NoError(t, err)
		assert.Equal(t, "entregue", resp.Status)
		assert.Equal(t, "aguardando informe", resp.Observacoes)
		require.NotNil(t, resp.DataEntrega)
		assert.Equal(t, 30, resp.DataEntrega.Day())
	})

	t.Run("creates missing year", func(t *testing.T) {
		f := newClienteFixture()
		c := existingCliente(t)
		f.repo.On("FindByID", ctx, c.ID).Return(c, nil)
		f.irRepo.On("FindByClienteAno", ctx, c.ID, 2023).Return(nil, shared.ErrNotFound)
		f.irRepo.On("Upsert", ctx, mock.MatchedBy(func(h *cliente.IrHistorico) bool {
			return h.Ano == 2023 && h.ClienteID == c.ID && h.Status == "entregue"
		})).Return(nil)

		resp, err := f.service.UpdateIrHistoryYear(ctx, c.ID, 2023, IrHistoricoRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, 2023, resp.Ano)
	})

	t.Run("invalid year", func(t *testing.T) {
		f := newClienteFixture()
		_, err := f.service.UpdateIrHistoryYear(ctx, uuid.New(), 1999, IrHistoricoRequest{})
		assert.Equal(t, "INVALID_ANO", domainCode(t, err))
	})
}

func TestClienteService_IrHistory(t *testing.T) {
	ctx := context.Background()
	f := newClienteFixture()
	c := existingCliente(t)
	rows := []*cliente.IrHistorico{{ClienteID: c.ID, Ano: 2024}, {ClienteID: c.ID, Ano: 2023}}
	f.repo.On("FindByID", ctx, c.ID).Return(c, nil)
	f.irRepo.On("FindByCliente", ctx, c.ID).Return(rows, nil)

	history, err := f.service.IrHistory(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2024, history[0].Ano)
}

func newRegistration(t *testing.T) *registration.BusinessRegistration {
	t.Helper()
	reg, err := registration.NewBusinessRegistration(registration.BusinessRegistration{
		RazaoSocial:     "Açaí Comércio Ltda",
		EmailEmpresa:    "acai@example.com",
		TelefoneEmpresa: "41999998888",
		CapitalSocial:   decimal.NewFromInt(20000),
		Socios:          []registration.Socio{{Nome: "Maria da Silva", CPF: "529.982.247-25"}},
	})
	require.NoError(t, err)
	return reg
}

func TestClienteService_PromoteFromRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("creates client and concludes registration", func(t *testing.T) {
		f := newClienteFixture()
		reg := newRegistration(t)
		f.regRepo.On("FindByID", ctx, reg.ID).Return(reg, nil)
		f.repo.On("FindByCNPJ", ctx, "12345678000195").Return(nil, shared.ErrNotFound)
		f.repo.On("Create", ctx, mock.MatchedBy(func(c *cliente.Cliente) bool {
			return c.RazaoSocial == "Açaí Comércio Ltda" && c.Origem == cliente.OrigemWebsite &&
				c.CNPJ == "12345678000195" && len(c.Socios) == 1
		})).Return(nil)
		f.regRepo.On("Update", ctx, mock.MatchedBy(func(r *registration.BusinessRegistration) bool {
			return r.Status == registration.StatusConcluida
		})).Return(nil)

		resp, err := f.service.PromoteFromRegistration(ctx, reg.ID, PromoteRequest{
			CNPJ:             "12.345.678/0001-95",
			RegimeTributario: "Simples Nacional",
			DiaVencimento:    10,
		})
		require.NoError(t, err)
		assert.Equal(t, "ativo", resp.Status)
		assert.Equal(t, "Simples Nacional", resp.RegimeTributario)
		assert.Equal(t, "acai@example.com", resp.EmailEmpresa)
		require.NotNil(t, resp.ClienteDesde)
		assert.Equal(t, 2, resp.ClienteDesde.Day())
		f.regRepo.AssertExpectations(t)
	})

	t.Run("already promoted", func(t *testing.T) {
		f := newClienteFixture()
		reg := newRegistration(t)
		require.NoError(t, reg.UpdateStatus(registration.StatusConcluida))
		f.regRepo.On("FindByID", ctx, reg.ID).Return(reg, nil)

		_, err := f.service.PromoteFromRegistration(ctx, reg.ID, PromoteRequest{})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("registration missing", func(t *testing.T) {
		f := newClienteFixture()
		id := uuid.New()
		f.regRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.PromoteFromRegistration(ctx, id, PromoteRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestClienteService_Tasks(t *testing.T) {
	ctx := context.Background()
	f := newClienteFixture()
	c := existingCliente(t)
	tpl, err := registration.NewTaskTemplate("Cadastro fiscal", "", registration.DepartmentFiscal, 1, 2, true)
	require.NoError(t, err)

	f.repo.On("FindByID", ctx, c.ID).Return(c, nil)
	f.templateRepo.On("FindAll", ctx, true).Return([]*registration.TaskTemplate{tpl}, nil)
	f.taskRepo.On("CreateBatch", ctx, mock.Anything).Return(nil)

	created, err := f.service.CreateTasks(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.NotNil(t, created[0].ClienteID)
	assert.Equal(t, c.ID, *created[0].ClienteID)
	assert.Equal(t, "12345678000195", created[0].CNPJ)

	f.taskRepo.On("FindByCliente", ctx, c.ID).Return([]*registration.Task{}, nil)
	list, err := f.service.Tasks(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClienteService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newClienteFixture()
	id := uuid.New()
	f.repo.On("Delete", ctx, id).Return(nil)

	require.NoError(t, f.service.Delete(ctx, id))
	f.repo.AssertExpectations(t)
}

const importCSV = `RAZÃO SOCIAL;CNPJ;DATA ABERTURA;CAPITAL SOCIAL;CEP.;SÓCIO 1;CPF SÓCIO 1;FILIAÇÃO SÓCIO 1;SÓCIO 2;CPF SÓCIO 2;FILIAÇÃO SÓCIO 2
Padaria Ltda;12.345.678/0001-95;05/03/2019;R$ 1.000,00;80000-000;Maria;529.982.247-25;José Silva / Ana Silva;Pedro;111.444.777-35;Rita
Mercado ME;11.222.333/0001-81;;;;;;;;;
;99.888.777/0001-66;;;;;;;;;
Oficina;11.222.333/0001-81;;;;;;;;;
Loja;;31/02/2020;;;;;;;;
`

func TestClienteService_ImportCSV(t *testing.T) {
	ctx := context.Background()
	f := newClienteFixture()

	var created []*cliente.Cliente
	f.repo.On("ExistsByCNPJ", ctx, "12345678000195").Return(false, nil)
	f.repo.On("ExistsByCNPJ", ctx, "11222333000181").Return(true, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*cliente.Cliente")).
		Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*cliente.Cliente)) }).
		Return(nil)

	result, err := f.service.ImportCSV(ctx, strings.NewReader(importCSV))
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalRows)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, "ERR_IMPORT_REQUIRED_FIELD", result.Errors[0].Code)
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Equal(t, "ERR_IMPORT_DUPLICATE_IN_FILE", result.Errors[1].Code)
	assert.Equal(t, 6, result.Errors[2].Row)
	assert.Equal(t, "DATA ABERTURA", result.Errors[2].Column)

	require.Len(t, created, 1)
	c := created[0]
	assert.Equal(t, "Padaria Ltda", c.RazaoSocial)
	assert.Equal(t, cliente.OrigemImportacao, c.Origem)
	assert.Equal(t, "80000-000", c.CEP)
	assert.True(t, c.CapitalSocial.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, c.DataAbertura)
	assert.Equal(t, 2019, c.DataAbertura.Year())
	wantSocios := []registration.Socio{
		{Nome: "Maria", CPF: "52998224725", FiliacaoPai: "José Silva", FiliacaoMae: "Ana Silva"},
		{Nome: "Pedro", CPF: "11144477735", FiliacaoMae: "Rita"},
	}
	if diff := cmp.Diff(wantSocios, c.Socios); diff != "" {
		t.Errorf("imported socios mismatch (-want +got):\n%s", diff)
	}
}

func TestClienteService_ImportCSV_MissingColumn(t *testing.T) {
	f := newClienteFixture()
	_, err := f.service.ImportCSV(context.Background(), strings.NewReader("CNPJ;CIDADE\n1;2\n"))
	assert.Equal(t, "INVALID_FILE", domainCode(t, err))
}

package registration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type registrationFixture struct {
	regRepo      *MockRegistrationRepository
	taskRepo     *MockTaskRepository
	templateRepo *MockTemplateRepository
	activityRepo *MockActivityRepository
	fileRepo     *MockFileRepository
	clienteRepo  *MockClienteRepository
	storage      *testutil.MemoryStorage
	renderer     *testutil.FakeRenderer
	publisher    *testutil.RecordingPublisher
	service      *RegistrationService
}

func newRegistrationFixture() *registrationFixture {
	f := &registrationFixture{
		regRepo:      new(MockRegistrationRepository),
		taskRepo:     new(MockTaskRepository),
		templateRepo: new(MockTemplateRepository),
		activityRepo: new(MockActivityRepository),
		fileRepo:     new(MockFileRepository),
		clienteRepo:  new(MockClienteRepository),
		storage:      testutil.NewMemoryStorage(),
		renderer:     &testutil.FakeRenderer{},
		publisher:    &testutil.RecordingPublisher{},
	}
	tasks := NewTaskService(f.taskRepo, f.templateRepo, f.activityRepo, f.fileRepo, f.storage, zap.NewNop())
	f.service = NewRegistrationService(f.regRepo, f.taskRepo, f.clienteRepo, tasks, f.storage, f.renderer, f.publisher, zap.NewNop())
	return f
}

func validSubmitRequest() SubmitRequest {
	return SubmitRequest{
		RazaoSocial:  "Padaria São João Ltda",
		NomeFantasia: "Pão Quente",
		EmailEmpresa: "Contato@PaoQuente.com.br",
		Socios: []registration.Socio{
			{Nome: "Maria da Silva", CPF: "529.982.247-25", SenhaGov: "segredo"},
			{Nome: "José Souza", CPF: "111.444.777-35"},
		},
	}
}

func activeTemplates(t *testing.T) []*registration.TaskTemplate {
	t.Helper()
	a, err := registration.NewTaskTemplate("Consulta de viabilidade", "", registration.DepartmentSocietario, 1, 2, true)
	require.NoError(t, err)
	b, err := registration.NewTaskTemplate("Cadastro fiscal", "", registration.DepartmentFiscal, 2, 0, false)
	require.NoError(t, err)
	return []*registration.TaskTemplate{a, b}
}

func TestValidateFiles(t *testing.T) {
	t.Run("accepts images and pdf", func(t *testing.T) {
		err := ValidateFiles([]UploadedFile{
			{FileName: "rg.jpg", ContentType: "image/jpeg", Content: []byte("x")},
			{FileName: "rg.png", ContentType: "IMAGE/PNG", Content: []byte("x")},
			{FileName: "certidao.pdf", ContentType: "application/pdf", Content: []byte("x")},
		})
		assert.NoError(t, err)
	})

	t.Run("rejects other types", func(t *testing.T) {
		err := ValidateFiles([]UploadedFile{{FileName: "virus.exe", ContentType: "application/x-msdownload"}})
		require.Error(t, err)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_FILE_TYPE", de.Code)
		assert.Contains(t, de.Message, "virus.exe")
	})

	t.Run("rejects files over the limit", func(t *testing.T) {
		err := ValidateFiles([]UploadedFile{{FileName: "big.pdf", ContentType: "application/pdf", Content: make([]byte, MaxFileSize+1)}})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "FILE_TOO_LARGE", de.Code)
	})
}

func TestRegistrationService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores documents, pdf and tasks", func(t *testing.T) {
		f := newRegistrationFixture()
		var created *registration.BusinessRegistration
		f.regRepo.On("Create", ctx, mock.AnythingOfType("*registration.BusinessRegistration")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*registration.BusinessRegistration) }).
			Return(nil)
		f.regRepo.On("Update", ctx, mock.AnythingOfType("*registration.BusinessRegistration")).Return(nil)
		f.templateRepo.On("FindAll", ctx, true).Return(activeTemplates(t), nil)
		f.taskRepo.On("CreateBatch", ctx, mock.MatchedBy(func(tasks []*registration.Task) bool {
			if len(tasks) != 2 {
				return false
			}
			for _, task := range tasks {
				if task.RegistrationID == nil || *task.RegistrationID != created.ID {
					return false
				}
			}
			return true
		})).Return(nil)

		files := []UploadedFile{
			{SocioIndex: 0, Kind: DocumentComFoto, FileName: "rg.jpeg", ContentType: "image/jpeg", Content: []byte("foto")},
			{SocioIndex: 0, Kind: DocumentAdicional, FileName: "comprovante.pdf", ContentType: "application/pdf", Content: []byte("a1")},
			{SocioIndex: 0, Kind: DocumentAdicional, FileName: "outro.pdf", ContentType: "application/pdf", Content: []byte("a2")},
			{SocioIndex: 1, Kind: DocumentCertidao, FileName: "certidao.png", ContentType: "image/png", Content: []byte("cert")},
		}

		resp, err := f.service.Submit(ctx, validSubmitRequest(), files)
		require.NoError(t, err)

		folder := "registrations/padaria-sao-joao-ltda-" + created.ID.String()[:8]
		assert.Equal(t, folder, resp.DriveFolder)
		assert.Equal(t, folder+"/Padaria_Sao_Joao_Ltda_Cadastro.pdf", resp.PDFKey)
		assert.Equal(t, "contato@paoquente.com.br", resp.EmailEmpresa)
		assert.Equal(t, "pending", resp.Status)

		assert.ElementsMatch(t, []string{
			folder + "/Padaria_Sao_Joao_Ltda_Cadastro.pdf",
			folder + "/societario/Maria_da_Silva_DocumentoComFoto.jpg",
			folder + "/societario/Maria_da_Silva_DocumentoAdicional_1.pdf",
			folder + "/societario/Maria_da_Silva_DocumentoAdicional_2.pdf",
			folder + "/societario/Jose_Souza_CertidaoCasamento.png",
		}, f.storage.Keys())

		maria := resp.Socios[0]
		assert.Equal(t, folder+"/societario/Maria_da_Silva_DocumentoComFoto.jpg", maria.DocumentoComFotoURL)
		assert.Len(t, maria.DocumentosAdicionaisURLs, 2)
		assert.Empty(t, maria.SenhaGov)
		assert.Equal(t, "52998224725", maria.CPF)
		assert.Equal(t, folder+"/societario/Jose_Souza_CertidaoCasamento.png", resp.Socios[1].CertidaoCasamentoURL)

		pdf, ok := f.storage.Content(resp.PDFKey)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

		assert.Equal(t, []string{registration.EventTypeRegistrationSubmitted}, f.publisher.EventTypes())
		event := f.publisher.Events()[0].(*registration.RegistrationSubmittedEvent)
		assert.Equal(t, "Maria da Silva", event.SocioNome)
		assert.Equal(t, resp.PDFKey, event.PDFKey)

		f.regRepo.AssertExpectations(t)
		f.taskRepo.AssertExpectations(t)
	})

	t.Run("storage failures do not fail the submission", func(t *testing.T) {
		f := newRegistrationFixture()
		f.storage.UploadErr = errors.New("bucket unavailable")
		f.regRepo.On("Create", ctx, mock.Anything).Return(nil)
		f.regRepo.On("Update", ctx, mock.Anything).Return(nil)
		f.templateRepo.On("FindAll", ctx, true).Return([]*registration.TaskTemplate{}, nil)

		resp, err := f.service.Submit(ctx, validSubmitRequest(), []UploadedFile{
			{SocioIndex: 0, Kind: DocumentComFoto, FileName: "rg.jpg", ContentType: "image/jpeg", Content: []byte("x")},
		})
		require.NoError(t, err)
		assert.Empty(t, resp.PDFKey)
		assert.Empty(t, resp.Socios[0].DocumentoComFotoURL)
		assert.Len(t, f.publisher.Events(), 1)
		f.taskRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid documents before storing", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.service.Submit(ctx, validSubmitRequest(), []UploadedFile{
			{SocioIndex: 0, Kind: DocumentComFoto, FileName: "rg.gif", ContentType: "image/gif", Content: []byte("x")},
		})
		require.Error(t, err)
		f.regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects documents for unknown partners", func(t *testing.T) {
		f := newRegistrationFixture()

		_, err := f.service.Submit(ctx, validSubmitRequest(), []UploadedFile{
			{SocioIndex: 5, Kind: DocumentComFoto, FileName: "rg.jpg", ContentType: "image/jpeg", Content: []byte("x")},
		})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
		f.regRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("requires at least one partner", func(t *testing.T) {
		f := newRegistrationFixture()
		req := validSubmitRequest()
		req.Socios = nil

		_, err := f.service.Submit(ctx, req, nil)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_SOCIOS", de.Code)
	})

	t.Run("returns repository errors", func(t *testing.T) {
		f := newRegistrationFixture()
		f.regRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := f.service.Submit(ctx, validSubmitRequest(), nil)
		assert.EqualError(t, err, "db down")
		assert.Empty(t, f.publisher.Events())
	})
}

func TestRegistrationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	reg, err := registration.NewBusinessRegistration(registration.BusinessRegistration{
		RazaoSocial:  "Acme",
		EmailEmpresa: "a@acme.com",
		Socios:       []registration.Socio{{Nome: "Ana", CPF: "52998224725"}},
	})
	require.NoError(t, err)

	f.regRepo.On("FindByID", ctx, reg.ID).Return(reg, nil)
	f.regRepo.On("Update", ctx, reg).Return(nil)

	resp, err := f.service.UpdateStatus(ctx, reg.ID, "processing")
	require.NoError(t, err)
	assert.Equal(t, "processing", resp.Status)

	_, err = f.service.UpdateStatus(ctx, reg.ID, "archived")
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_STATUS", de.Code)
	f.regRepo.AssertNumberOfCalls(t, "Update", 1)
}

func TestRegistrationService_Update(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	reg, err := registration.NewBusinessRegistration(registration.BusinessRegistration{
		RazaoSocial:  "Acme",
		EmailEmpresa: "a@acme.com",
		Socios:       []registration.Socio{{Nome: "Ana", CPF: "52998224725"}},
	})
	require.NoError(t, err)
	f.regRepo.On("FindByID", ctx, reg.ID).Return(reg, nil)
	f.regRepo.On("Update", ctx, reg).Return(nil)

	name := "Acme Comércio"
	email := " NOVO@acme.com "
	resp, err := f.service.Update(ctx, reg.ID, UpdateRequest{RazaoSocial: &name, EmailEmpresa: &email})
	require.NoError(t, err)
	assert.Equal(t, "Acme Comércio", resp.RazaoSocial)
	assert.Equal(t, "novo@acme.com", resp.EmailEmpresa)
	assert.Equal(t, "pending", resp.Status)
}

func TestRegistrationService_PDF(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured without renderer", func(t *testing.T) {
		f := newRegistrationFixture()
		f.service.renderer = nil

		_, _, err := f.service.PDF(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotConfigured)
	})

	t.Run("renders the registration", func(t *testing.T) {
		f := newRegistrationFixture()
		reg := &registration.BusinessRegistration{RazaoSocial: "Açaí Comércio"}
		reg.ID = uuid.New()
		f.regRepo.On("FindByID", ctx, reg.ID).Return(reg, nil)

		pdf, name, err := f.service.PDF(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acai_Comercio_Cadastro.pdf", name)
		assert.Contains(t, string(pdf), "Açaí Comércio")
	})

	t.Run("propagates not found", func(t *testing.T) {
		f := newRegistrationFixture()
		id := uuid.New()
		f.regRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, _, err := f.service.PDF(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRegistrationService_ListWithTasks(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()

	reg := &registration.BusinessRegistration{RazaoSocial: "Acme", EmailEmpresa: "a@acme.com", Status: registration.StatusPending}
	reg.ID = uuid.New()
	regTask, err := registration.NewTask("Contrato social", "", registration.DepartmentSocietario)
	require.NoError(t, err)
	regTask.RegistrationID = &reg.ID

	c, err := cliente.NewCliente(cliente.Cliente{RazaoSocial: "Beta ME", EmailEmpresa: "b@beta.com", TelefoneEmpresa: "1133334444"})
	require.NoError(t, err)
	clienteTasks := make([]*registration.Task, 2)
	for i := range clienteTasks {
		task, err := registration.NewTask("Parcelamento", "", registration.DepartmentFiscal)
		require.NoError(t, err)
		task.ClienteID = &c.ID
		clienteTasks[i] = task
	}

	f.regRepo.On("FindAll", ctx).Return([]*registration.BusinessRegistration{reg}, nil)
	f.taskRepo.On("FindByRegistration", ctx, reg.ID).Return([]*registration.Task{regTask}, nil)
	f.taskRepo.On("FindClienteOnly", ctx).Return(clienteTasks, nil)
	f.clienteRepo.On("FindByIDs", ctx, []uuid.UUID{c.ID}).Return([]*cliente.Cliente{c}, nil)

	groups, err := f.service.ListWithTasks(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, reg.ID.String(), groups[0].ID)
	assert.False(t, groups[0].IsCliente)
	assert.Len(t, groups[0].Tasks, 1)

	assert.Equal(t, "cliente_"+c.ID.String(), groups[1].ID)
	assert.True(t, groups[1].IsCliente)
	assert.Equal(t, "Beta ME", groups[1].RazaoSocial)
	assert.Equal(t, "1133334444", groups[1].Telefone)
	assert.Equal(t, "ativo", groups[1].Status)
	assert.Len(t, groups[1].Tasks, 2)
}

func TestRegistrationService_ListWithTasks_NoClienteTasks(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture()
	f.regRepo.On("FindAll", ctx).Return([]*registration.BusinessRegistration{}, nil)
	f.taskRepo.On("FindClienteOnly", ctx).Return([]*registration.Task{}, nil)

	groups, err := f.service.ListWithTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
	f.clienteRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

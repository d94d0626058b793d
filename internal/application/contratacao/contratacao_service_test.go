package contratacao

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of contratacao.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *contratacao.ContratacaoFuncionario) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, c *contratacao.ContratacaoFuncionario) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*contratacao.ContratacaoFuncionario, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contratacao.ContratacaoFuncionario), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context) ([]*contratacao.ContratacaoFuncionario, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*contratacao.ContratacaoFuncionario), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validSubmitRequest() SubmitRequest {
	return SubmitRequest{
		Empresa:     contratacao.Empresa{RazaoSocial: "Mercado Bom Preço", CNPJ: "11.222.333/0001-81", Email: "rh@bompreco.com.br"},
		Funcionario: contratacao.Funcionario{Nome: "Carlos Lima", CPF: "529.982.247-25"},
		Cargo:       contratacao.Cargo{Cargo: "Caixa", Salario: decimal.NewFromInt(1800), DataAdmissao: "01/04/2025"},
		Beneficios:  contratacao.Beneficios{ValeTransporte: true},
	}
}

type serviceFixture struct {
	repo      *MockRepository
	storage   *testutil.MemoryStorage
	renderer  *testutil.FakeRenderer
	publisher *testutil.RecordingPublisher
	service   *ContratacaoService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:      new(MockRepository),
		storage:   testutil.NewMemoryStorage(),
		renderer:  &testutil.FakeRenderer{},
		publisher: &testutil.RecordingPublisher{},
	}
	f.service = NewContratacaoService(f.repo, f.storage, f.renderer, f.publisher, zap.NewNop())
	return f
}

func TestValidateDocuments(t *testing.T) {
	assert.NoError(t, ValidateDocuments([]Document{{FileName: "rg.pdf", ContentType: "application/pdf", Content: []byte("x")}}))

	tooMany := make([]Document, MaxDocuments+1)
	var de *shared.DomainError
	require.True(t, errors.As(ValidateDocuments(tooMany), &de))
	assert.Equal(t, "TOO_MANY_FILES", de.Code)

	require.True(t, errors.As(ValidateDocuments([]Document{{FileName: "a.exe", ContentType: "application/octet-stream"}}), &de))
	assert.Equal(t, "INVALID_FILE_TYPE", de.Code)

	big := Document{FileName: "big.pdf", ContentType: "application/pdf", Content: make([]byte, 10<<20+1)}
	require.True(t, errors.As(ValidateDocuments([]Document{big}), &de))
	assert.Equal(t, "FILE_TOO_LARGE", de.Code)
}

func TestContratacaoService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores documents and pdf then publishes", func(t *testing.T) {
		f := newServiceFixture()
		f.repo.On("Create", ctx, mock.AnythingOfType("*contratacao.ContratacaoFuncionario")).Return(nil)
		f.repo.On("Update", ctx, mock.AnythingOfType("*contratacao.ContratacaoFuncionario")).Return(nil)

		docs := []Document{
			{FileName: "rg.JPG", ContentType: "image/jpeg", Content: []byte("rg")},
			{FileName: "ctps.pdf", ContentType: "application/pdf", Content: []byte("ctps")},
		}
		resp, err := f.service.Submit(ctx, validSubmitRequest(), docs)
		require.NoError(t, err)

		folder := "contratacoes/mercado-bom-preco/carlos-lima-" + resp.ID.String()[:8]
		assert.Equal(t, folder, resp.StorageFolder)
		assert.Equal(t, folder+"/Carlos_Lima_Contratacao.pdf", resp.PDFKey)
		assert.Equal(t, []string{
			folder + "/Carlos_Lima_Documento_1.jpg",
			folder + "/Carlos_Lima_Documento_2.pdf",
		}, resp.DocumentKeys)
		assert.Equal(t, "11222333000181", resp.Empresa.CNPJ)

		pdf, ok := f.storage.Content(resp.PDFKey)
		require.True(t, ok)
		assert.Equal(t, "%PDF-1.4 Carlos Lima", string(pdf))
		assert.Equal(t, []string{contratacao.EventTypeSubmitted}, f.publisher.EventTypes())
	})

	t.Run("storage failure keeps submission", func(t *testing.T) {
		f := newServiceFixture()
		f.storage.UploadErr = errors.New("bucket offline")
		f.repo.On("Create", ctx, mock.Anything).Return(nil)
		f.repo.On("Update", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Submit(ctx, validSubmitRequest(), []Document{{FileName: "rg.png", ContentType: "image/png", Content: []byte("x")}})
		require.NoError(t, err)
		assert.Empty(t, resp.DocumentKeys)
		assert.Empty(t, resp.PDFKey)
	})

	t.Run("invalid employee CPF", func(t *testing.T) {
		f := newServiceFixture()
		req := validSubmitRequest()
		req.Funcionario.CPF = "123"

		_, err := f.service.Submit(ctx, req, nil)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_CPF", de.Code)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestContratacaoService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	req := validSubmitRequest()
	c, err := contratacao.NewContratacao(contratacao.ContratacaoFuncionario{Empresa: req.Empresa, Funcionario: req.Funcionario, Cargo: req.Cargo})
	require.NoError(t, err)
	f.repo.On("FindByID", ctx, c.ID).Return(c, nil)
	f.repo.On("Update", ctx, c).Return(nil)

	resp, err := f.service.UpdateStatus(ctx, c.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	_, err = f.service.UpdateStatus(ctx, c.ID, "arquivado")
	assert.Error(t, err)
}

func TestContratacaoService_PDF(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		f := newServiceFixture()
		f.service.renderer = nil
		_, _, err := f.service.PDF(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotConfigured)
	})

	t.Run("renders", func(t *testing.T) {
		f := newServiceFixture()
		req := validSubmitRequest()
		c, err := contratacao.NewContratacao(contratacao.ContratacaoFuncionario{Empresa: req.Empresa, Funcionario: req.Funcionario, Cargo: req.Cargo})
		require.NoError(t, err)
		f.repo.On("FindByID", ctx, c.ID).Return(c, nil)

		pdf, name, err := f.service.PDF(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Carlos_Lima_Contratacao.pdf", name)
		assert.NotEmpty(t, pdf)
	})
}

func TestContratacaoService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	id := uuid.New()
	f.repo.On("FindAll", ctx).Return([]*contratacao.ContratacaoFuncionario{}, nil)
	f.repo.On("Delete", ctx, id).Return(nil)

	list, err := f.service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, f.service.Delete(ctx, id))
}

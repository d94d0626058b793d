package contratacao

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	appreg "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ContratacaoService handles employee hiring requests sent by clients
type ContratacaoService struct {
	repo      contratacao.Repository
	storage   ports.ObjectStorage
	renderer  ports.DocumentRenderer
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewContratacaoService creates a new ContratacaoService. storage, renderer
// and publisher may be nil.
func NewContratacaoService(
	repo contratacao.Repository,
	storage ports.ObjectStorage,
	renderer ports.DocumentRenderer,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ContratacaoService {
	return &ContratacaoService{
		repo:      repo,
		storage:   storage,
		renderer:  renderer,
		publisher: publisher,
		logger:    logger,
	}
}

// ValidateDocuments checks count, type and size of the uploaded documents
func ValidateDocuments(docs []Document) error {
	if len(docs) > MaxDocuments {
		return shared.NewDomainError("TOO_MANY_FILES", fmt.Sprintf("Envie no máximo %d documentos", MaxDocuments))
	}
	for _, d := range docs {
		if !appreg.AllowedDocumentTypes[strings.ToLower(d.ContentType)] {
			return shared.NewDomainError("INVALID_FILE_TYPE",
				fmt.Sprintf("Tipo de arquivo não permitido: %s (use JPEG, PNG ou PDF)", d.FileName))
		}
		if d.Size() > appreg.MaxFileSize {
			return shared.NewDomainError("FILE_TOO_LARGE",
				fmt.Sprintf("Arquivo %s excede o limite de 10MB", d.FileName))
		}
	}
	return nil
}

// Submit stores a hiring request with its documents and PDF. Storage and
// rendering failures are logged once the request row exists.
func (s *ContratacaoService) Submit(ctx context.Context, req SubmitRequest, docs []Document) (*ContratacaoResponse, error) {
	if err := ValidateDocuments(docs); err != nil {
		return nil, err
	}
	c, err := contratacao.NewContratacao(contratacao.ContratacaoFuncionario{
		Empresa:               req.Empresa,
		Funcionario:           req.Funcionario,
		Cargo:                 req.Cargo,
		Beneficios:            req.Beneficios,
		DadosBancarios:        req.DadosBancarios,
		InformacoesAdicionais: req.InformacoesAdicionais,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("Failed to create contratacao", zap.Error(err))
		return nil, err
	}

	folder := StorageFolder(c)
	keys := s.uploadDocuments(ctx, c, folder, docs)
	pdfKey := s.storePDF(ctx, c, folder)

	c.MarkSubmitted(folder, pdfKey, keys)
	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("Failed to record contratacao documents",
			zap.String("contratacao_id", c.ID.String()), zap.Error(err))
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, c.GetDomainEvents()...); err != nil {
			s.logger.Error("Failed to publish contratacao events", zap.Error(err))
		}
	}
	c.ClearDomainEvents()

	s.logger.Info("Contratacao submitted",
		zap.String("contratacao_id", c.ID.String()),
		zap.String("empresa", c.Empresa.RazaoSocial),
		zap.Int("documents", len(keys)))

	resp := ToContratacaoResponse(c)
	return &resp, nil
}

// StorageFolder is the object storage folder of a hiring request
func StorageFolder(c *contratacao.ContratacaoFuncionario) string {
	return storage.JoinKey("contratacoes", storage.Slug(c.Empresa.RazaoSocial), storage.Slug(c.Funcionario.Nome)+"-"+c.ID.String()[:8])
}

// PDFFileName is the download name of a hiring request PDF
func PDFFileName(c *contratacao.ContratacaoFuncionario) string {
	return storage.ObjectName(c.Funcionario.Nome) + "_Contratacao.pdf"
}

func (s *ContratacaoService) uploadDocuments(ctx context.Context, c *contratacao.ContratacaoFuncionario, folder string, docs []Document) []string {
	if s.storage == nil {
		return nil
	}
	keys := make([]string, 0, len(docs))
	base := storage.ObjectName(c.Funcionario.Nome)
	for i, d := range docs {
		key := storage.JoinKey(folder, fmt.Sprintf("%s_Documento_%d%s", base, i+1, storage.Extension(d.ContentType, d.FileName)))
		if err := s.storage.Upload(ctx, key, bytes.NewReader(d.Content), d.Size(), d.ContentType); err != nil {
			s.logger.Error("Failed to upload contratacao document", zap.String("key", key), zap.Error(err))
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

func (s *ContratacaoService) storePDF(ctx context.Context, c *contratacao.ContratacaoFuncionario, folder string) string {
	if s.renderer == nil || s.storage == nil {
		return ""
	}
	pdf, err := s.renderer.RenderContratacao(ctx, c)
	if err != nil {
		s.logger.Error("Failed to render contratacao PDF",
			zap.String("contratacao_id", c.ID.String()), zap.Error(err))
		return ""
	}
	key := storage.JoinKey(folder, PDFFileName(c))
	if err := s.storage.Upload(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		s.logger.Error("Failed to upload contratacao PDF", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

// List returns all hiring requests, newest first
func (s *ContratacaoService) List(ctx context.Context) ([]ContratacaoResponse, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ContratacaoResponse, len(items))
	for i, c := range items {
		out[i] = ToContratacaoResponse(c)
	}
	return out, nil
}

// Get returns a hiring request
func (s *ContratacaoService) Get(ctx context.Context, id uuid.UUID) (*ContratacaoResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContratacaoResponse(c)
	return &resp, nil
}

// UpdateStatus moves a hiring request to another status
func (s *ContratacaoService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*ContratacaoResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateStatus(contratacao.Status(status)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContratacaoResponse(c)
	return &resp, nil
}

// Delete removes a hiring request. Stored documents are kept.
func (s *ContratacaoService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Contratacao deleted", zap.String("contratacao_id", id.String()))
	return nil
}

// PDF renders the hiring document on demand
func (s *ContratacaoService) PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", shared.ErrNotConfigured
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.RenderContratacao(ctx, c)
	if err != nil {
		return nil, "", fmt.Errorf("render contratacao pdf: %w", err)
	}
	return pdf, PDFFileName(c), nil
}

package registration

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// uploadConcurrency bounds parallel document uploads per submission
const uploadConcurrency = 4

// RegistrationService handles business registration submissions and the
// internal dashboard views over them.
type RegistrationService struct {
	regRepo     registration.RegistrationRepository
	taskRepo    registration.TaskRepository
	clienteRepo cliente.ClienteRepository
	tasks       *TaskService
	storage     ports.ObjectStorage
	renderer    ports.DocumentRenderer
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewRegistrationService creates a new RegistrationService. renderer may be
// nil when PDF rendering is disabled.
func NewRegistrationService(
	regRepo registration.RegistrationRepository,
	taskRepo registration.TaskRepository,
	clienteRepo cliente.ClienteRepository,
	tasks *TaskService,
	storage ports.ObjectStorage,
	renderer ports.DocumentRenderer,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		regRepo:     regRepo,
		taskRepo:    taskRepo,
		clienteRepo: clienteRepo,
		tasks:       tasks,
		storage:     storage,
		renderer:    renderer,
		publisher:   publisher,
		logger:      logger,
	}
}

// ValidateFiles checks type and size of every uploaded document
func ValidateFiles(files []UploadedFile) error {
	for _, f := range files {
		if !AllowedDocumentTypes[strings.ToLower(f.ContentType)] {
			return shared.NewDomainError("INVALID_FILE_TYPE",
				fmt.Sprintf("Tipo de arquivo não permitido: %s (use JPEG, PNG ou PDF)", f.FileName))
		}
		if f.Size() > MaxFileSize {
			return shared.NewDomainError("FILE_TOO_LARGE",
				fmt.Sprintf("Arquivo %s excede o limite de 10MB", f.FileName))
		}
	}
	return nil
}

// Submit stores a public registration together with its documents.
// Storage, PDF and notification failures are logged and do not fail the
// submission once the registration row exists.
func (s *RegistrationService) Submit(ctx context.Context, req SubmitRequest, files []UploadedFile) (*RegistrationResponse, error) {
	if err := ValidateFiles(files); err != nil {
		return nil, err
	}

	reg, err := registration.NewBusinessRegistration(registration.BusinessRegistration{
		RazaoSocial:           req.RazaoSocial,
		NomeFantasia:          req.NomeFantasia,
		Endereco:              req.Endereco,
		InscricaoImobiliaria:  req.InscricaoImobiliaria,
		Metragem:              req.Metragem,
		TelefoneEmpresa:       req.TelefoneEmpresa,
		EmailEmpresa:          req.EmailEmpresa,
		CapitalSocial:         req.CapitalSocial,
		AtividadePrincipal:    req.AtividadePrincipal,
		AtividadesSecundarias: req.AtividadesSecundarias,
		AtividadesSugeridas:   req.AtividadesSugeridas,
		Socios:                req.Socios,
	})
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.SocioIndex < 0 || f.SocioIndex >= len(reg.Socios) {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Documento referencia sócio inexistente: %d", f.SocioIndex))
		}
	}

	if err := s.regRepo.Create(ctx, reg); err != nil {
		s.logger.Error("Failed to create registration", zap.Error(err))
		return nil, err
	}

	folder := storage.JoinKey("registrations", storage.Slug(reg.RazaoSocial)+"-"+reg.ID.String()[:8])
	s.uploadPartnerDocuments(ctx, reg, folder, files)
	pdfKey := s.storeRegistrationPDF(ctx, reg, folder)

	reg.MarkSubmitted(folder, pdfKey)
	if err := s.regRepo.Update(ctx, reg); err != nil {
		s.logger.Error("Failed to record registration documents",
			zap.String("registration_id", reg.ID.String()), zap.Error(err))
	}

	if _, err := s.tasks.CreateTasksForRegistration(ctx, reg.ID); err != nil {
		s.logger.Error("Failed to create registration tasks",
			zap.String("registration_id", reg.ID.String()), zap.Error(err))
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, reg.GetDomainEvents()...); err != nil {
			s.logger.Error("Failed to publish registration events", zap.Error(err))
		}
	}
	reg.ClearDomainEvents()

	s.logger.Info("Business registration submitted",
		zap.String("registration_id", reg.ID.String()),
		zap.String("razao_social", reg.RazaoSocial),
		zap.Int("documents", len(files)))

	resp := ToRegistrationResponse(reg)
	return &resp, nil
}

// uploadPartnerDocuments uploads in parallel and records the keys on the
// partners. Failed uploads are logged.
func (s *RegistrationService) uploadPartnerDocuments(ctx context.Context, reg *registration.BusinessRegistration, folder string, files []UploadedFile) {
	if s.storage == nil || len(files) == 0 {
		return
	}

	var (
		g   errgroup.Group
		mu  sync.Mutex
		seq = make(map[int]int)
	)
	g.SetLimit(uploadConcurrency)

	for _, f := range files {
		socio := &reg.Socios[f.SocioIndex]
		name := storage.ObjectName(socio.Nome) + "_" + f.Kind.Suffix()
		if f.Kind == DocumentAdicional {
			seq[f.SocioIndex]++
			name = fmt.Sprintf("%s_%d", name, seq[f.SocioIndex])
		}
		key := storage.JoinKey(folder, string(registration.DepartmentSocietario), name+storage.Extension(f.ContentType, f.FileName))

		g.Go(func() error {
			if err := s.storage.Upload(ctx, key, bytes.NewReader(f.Content), f.Size(), f.ContentType); err != nil {
				s.logger.Error("Failed to upload partner document", zap.String("key", key), zap.Error(err))
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			switch f.Kind {
			case DocumentComFoto:
				socio.DocumentoComFotoURL = key
			case DocumentCertidao:
				socio.CertidaoCasamentoURL = key
			default:
				socio.DocumentosAdicionaisURLs = append(socio.DocumentosAdicionaisURLs, key)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("Some partner documents were not uploaded",
			zap.String("registration_id", reg.ID.String()), zap.Error(err))
	}
	for i := range reg.Socios {
		sort.Strings(reg.Socios[i].DocumentosAdicionaisURLs)
	}
}

func (s *RegistrationService) storeRegistrationPDF(ctx context.Context, reg *registration.BusinessRegistration, folder string) string {
	if s.renderer == nil || s.storage == nil {
		return ""
	}
	pdf, err := s.renderer.RenderRegistration(ctx, reg)
	if err != nil {
		s.logger.Error("Failed to render registration PDF",
			zap.String("registration_id", reg.ID.String()), zap.Error(err))
		return ""
	}
	key := storage.JoinKey(folder, PDFFileName(reg))
	if err := s.storage.Upload(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		s.logger.Error("Failed to upload registration PDF", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}

// PDFFileName is the download name of a registration PDF
func PDFFileName(reg *registration.BusinessRegistration) string {
	return storage.ObjectName(reg.RazaoSocial) + "_Cadastro.pdf"
}

// Get returns a registration
func (s *RegistrationService) Get(ctx context.Context, id uuid.UUID) (*RegistrationResponse, error) {
	reg, err := s.regRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRegistrationResponse(reg)
	return &resp, nil
}

// List returns all registrations, newest first
func (s *RegistrationService) List(ctx context.Context) ([]RegistrationResponse, error) {
	regs, err := s.regRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RegistrationResponse, len(regs))
	for i, r := range regs {
		out[i] = ToRegistrationResponse(r)
	}
	return out, nil
}

// UpdateStatus moves a registration to another status
func (s *RegistrationService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*RegistrationResponse, error) {
	reg, err := s.regRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reg.UpdateStatus(registration.Status(status)); err != nil {
		return nil, err
	}
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, err
	}
	resp := ToRegistrationResponse(reg)
	return &resp, nil
}

// Update applies an edit to a registration
func (s *RegistrationService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*RegistrationResponse, error) {
	reg, err := s.regRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := registration.Patch{
		RazaoSocial:        req.RazaoSocial,
		NomeFantasia:       req.NomeFantasia,
		Endereco:           req.Endereco,
		TelefoneEmpresa:    req.TelefoneEmpresa,
		EmailEmpresa:       req.EmailEmpresa,
		CapitalSocial:      req.CapitalSocial,
		AtividadePrincipal: req.AtividadePrincipal,
		Socios:             req.Socios,
	}
	if req.Status != nil {
		st := registration.Status(*req.Status)
		patch.Status = &st
	}
	if err := reg.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, err
	}
	resp := ToRegistrationResponse(reg)
	return &resp, nil
}

// Delete removes a registration with its tasks
func (s *RegistrationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.regRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Registration deleted", zap.String("registration_id", id.String()))
	return nil
}

// PDF renders the registration document on demand
func (s *RegistrationService) PDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", shared.ErrNotConfigured
	}
	reg, err := s.regRepo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.RenderRegistration(ctx, reg)
	if err != nil {
		return nil, "", fmt.Errorf("render registration pdf: %w", err)
	}
	return pdf, PDFFileName(reg), nil
}

// ListWithTasks returns registrations with their tasks, followed by one
// virtual group per client owning tasks outside any registration.
func (s *RegistrationService) ListWithTasks(ctx context.Context) ([]RegistrationWithTasks, error) {
	regs, err := s.regRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]RegistrationWithTasks, 0, len(regs))
	for _, r := range regs {
		tasks, err := s.taskRepo.FindByRegistration(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		groups = append(groups, RegistrationWithTasks{
			ID:           r.ID.String(),
			RazaoSocial:  r.RazaoSocial,
			NomeFantasia: r.NomeFantasia,
			EmailEmpresa: r.EmailEmpresa,
			Telefone:     r.TelefoneEmpresa,
			Status:       string(r.Status),
			CreatedAt:    r.CreatedAt,
			Tasks:        ToTaskResponses(tasks),
		})
	}

	clienteTasks, err := s.taskRepo.FindClienteOnly(ctx)
	if err != nil {
		return nil, err
	}
	if len(clienteTasks) == 0 {
		return groups, nil
	}

	byCliente := make(map[uuid.UUID][]*registration.Task)
	var ids []uuid.UUID
	for _, t := range clienteTasks {
		id := *t.ClienteID
		if _, seen := byCliente[id]; !seen {
			ids = append(ids, id)
		}
		byCliente[id] = append(byCliente[id], t)
	}

	clientes, err := s.clienteRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range clientes {
		groups = append(groups, RegistrationWithTasks{
			ID:           "cliente_" + c.ID.String(),
			IsCliente:    true,
			RazaoSocial:  c.RazaoSocial,
			NomeFantasia: c.NomeFantasia,
			EmailEmpresa: c.EmailEmpresa,
			Telefone:     c.TelefoneEmpresa,
			Status:       string(c.Status),
			CreatedAt:    c.CreatedAt,
			Tasks:        ToTaskResponses(byCliente[c.ID]),
		})
	}
	return groups, nil
}

package cliente

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	appreg "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	csvimport "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/import"
	"go.uber.org/zap"
)

// maxImportErrors bounds the row errors returned by ImportCSV
const maxImportErrors = 200

// maxImportSocios is the highest "SÓCIO n" column group read on import
const maxImportSocios = 5

func errInvalidDate(raw string) error {
	return shared.NewDomainError("INVALID_DATE", fmt.Sprintf("Data inválida: %s (use dd/mm/aaaa)", raw))
}

// ClienteService manages clients of the firm
type ClienteService struct {
	repo    cliente.ClienteRepository
	irRepo  cliente.IrHistoricoRepository
	regRepo registration.RegistrationRepository
	tasks   *appreg.TaskService
	logger  *zap.Logger
	now     func() time.Time
}

// NewClienteService creates a new ClienteService
func NewClienteService(
	repo cliente.ClienteRepository,
	irRepo cliente.IrHistoricoRepository,
	regRepo registration.RegistrationRepository,
	tasks *appreg.TaskService,
	logger *zap.Logger,
) *ClienteService {
	return &ClienteService{
		repo:    repo,
		irRepo:  irRepo,
		regRepo: regRepo,
		tasks:   tasks,
		logger:  logger,
		now:     time.Now,
	}
}

// List returns a page of clients matching the filter
func (s *ClienteService) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	f, err := filter.toDomain()
	if err != nil {
		return nil, err
	}
	clientes, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ClienteResponse, len(clientes))
	for i, c := range clientes {
		items[i] = ToClienteResponse(c)
	}
	return &ListResult{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// Get returns a client
func (s *ClienteService) Get(ctx context.Context, id uuid.UUID) (*ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToClienteResponse(c)
	return &resp, nil
}

// Create registers a client. The CNPJ must be unique when present.
func (s *ClienteService) Create(ctx context.Context, req ClienteRequest) (*ClienteResponse, error) {
	data, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	c, err := cliente.NewCliente(data)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCNPJ(ctx, c.CNPJ, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if c.HasIrData() {
		s.snapshotIr(ctx, c)
	}

	s.logger.Info("Cliente created",
		zap.String("cliente_id", c.ID.String()),
		zap.String("origem", c.Origem))
	resp := ToClienteResponse(c)
	return &resp, nil
}

func (s *ClienteService) ensureUniqueCNPJ(ctx context.Context, cnpj string, self uuid.UUID) error {
	if cnpj == "" {
		return nil
	}
	existing, err := s.repo.FindByCNPJ(ctx, cnpj)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return shared.NewDomainError("ALREADY_EXISTS", "Já existe um cliente com este CNPJ")
	}
	return nil
}

// Update replaces the client data. A change in any income tax field
// refreshes the history row of the reference year.
func (s *ClienteService) Update(ctx context.Context, id uuid.UUID, req ClienteRequest) (*ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := req.toDomain()
	if err != nil {
		return nil, err
	}
	irChanged, err := c.Replace(data)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCNPJ(ctx, c.CNPJ, c.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if irChanged && c.HasIrData() {
		s.snapshotIr(ctx, c)
	}
	resp := ToClienteResponse(c)
	return &resp, nil
}

// snapshotIr copies the current income tax fields into the history. Failures
// are logged; the client row is already saved.
func (s *ClienteService) snapshotIr(ctx context.Context, c *cliente.Cliente) {
	h := c.IrSnapshot(s.now())
	h.ID = uuid.New()
	if err := s.irRepo.Upsert(ctx, h); err != nil {
		s.logger.Error("Failed to save IR history",
			zap.String("cliente_id", c.ID.String()),
			zap.Int("ano", h.Ano),
			zap.Error(err))
	}
}

// Delete removes a client
func (s *ClienteService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Cliente deleted", zap.String("cliente_id", id.String()))
	return nil
}

// IrHistory returns the income tax history of a client, newest year first
func (s *ClienteService) IrHistory(ctx context.Context, clienteID uuid.UUID) ([]IrHistoricoResponse, error) {
	if _, err := s.repo.FindByID(ctx, clienteID); err != nil {
		return nil, err
	}
	rows, err := s.irRepo.FindByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	out := make([]IrHistoricoResponse, len(rows))
	for i, h := range rows {
		out[i] = ToIrHistoricoResponse(h)
	}
	return out, nil
}

// UpdateIrHistoryYear edits the history row of one year, creating it when
// the year has no record yet
func (s *ClienteService) UpdateIrHistoryYear(ctx context.Context, clienteID uuid.UUID, ano int, req IrHistoricoRequest) (*IrHistoricoResponse, error) {
	if ano < 2000 || ano > 2100 {
		return nil, shared.NewDomainError("INVALID_ANO", "Ano inválido")
	}
	if _, err := s.repo.FindByID(ctx, clienteID); err != nil {
		return nil, err
	}

	patch := cliente.IrHistoricoPatch{
		Status:         req.Status,
		ValorPagar:     req.ValorPagar,
		ValorRestituir: req.ValorRestituir,
		Observacoes:    req.Observacoes,
	}
	if req.DataEntrega != nil {
		d, err := csvimport.ParseDate(*req.DataEntrega)
		if err != nil {
			return nil, errInvalidDate(*req.DataEntrega)
		}
		patch.DataEntrega = d
	}

	h, err := s.irRepo.FindByClienteAno(ctx, clienteID, ano)
	switch {
	case err == nil:
		h.Apply(patch)
		if err := s.irRepo.Update(ctx, h); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		now := s.now()
		h = &cliente.IrHistorico{ID: uuid.New(), ClienteID: clienteID, Ano: ano, CreatedAt: now}
		h.Apply(patch)
		if err := s.irRepo.Upsert(ctx, h); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	resp := ToIrHistoricoResponse(h)
	return &resp, nil
}

// PromoteFromRegistration turns a submitted registration into an active
// client and marks the registration as concluded
func (s *ClienteService) PromoteFromRegistration(ctx context.Context, registrationID uuid.UUID, req PromoteRequest) (*ClienteResponse, error) {
	reg, err := s.regRepo.FindByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status == registration.StatusConcluida {
		return nil, shared.NewDomainError("INVALID_STATE", "Cadastro já foi promovido a cliente")
	}

	c, err := cliente.FromRegistration(reg)
	if err != nil {
		return nil, err
	}
	data := *c
	data.CNPJ = req.CNPJ
	data.RegimeTributario = req.RegimeTributario
	data.Cidade = req.Cidade
	data.Estado = req.Estado
	data.ValorMensalidade = req.ValorMensalidade
	data.DiaVencimento = req.DiaVencimento
	data.Observacoes = req.Observacoes
	if data.ClienteDesde, err = csvimport.ParseDate(req.ClienteDesde); err != nil {
		return nil, errInvalidDate(req.ClienteDesde)
	}
	if data.ClienteDesde == nil {
		today := s.now().Truncate(24 * time.Hour)
		data.ClienteDesde = &today
	}
	if _, err := c.Replace(data); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCNPJ(ctx, c.CNPJ, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := reg.UpdateStatus(registration.StatusConcluida); err != nil {
		return nil, err
	}
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("mark registration concluded: %w", err)
	}

	s.logger.Info("Registration promoted to cliente",
		zap.String("registration_id", reg.ID.String()),
		zap.String("cliente_id", c.ID.String()))
	resp := ToClienteResponse(c)
	return &resp, nil
}

// CreateTasks instantiates the active task templates for a client
func (s *ClienteService) CreateTasks(ctx context.Context, clienteID uuid.UUID) ([]appreg.TaskResponse, error) {
	c, err := s.repo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	return s.tasks.CreateTasksForCliente(ctx, c.ID, c.CNPJ)
}

// Tasks returns the tasks of a client
func (s *ClienteService) Tasks(ctx context.Context, clienteID uuid.UUID) ([]appreg.TaskResponse, error) {
	if _, err := s.repo.FindByID(ctx, clienteID); err != nil {
		return nil, err
	}
	return s.tasks.TasksByCliente(ctx, clienteID)
}

// ImportCSV creates clients from a spreadsheet export. Rows whose CNPJ
// already exists, in the database or earlier in the file, are skipped.
func (s *ClienteService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}
	if missing := parser.ValidateHeaders([]string{colRazaoSocial}); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "Coluna obrigatória ausente: "+strings.Join(missing, ", "))
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}

	result := &ImportResult{TotalRows: len(rows)}
	errs := csvimport.NewErrorCollection(maxImportErrors)
	seen := make(map[string]int)

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, ok := rowToCliente(row, errs)
		if !ok {
			continue
		}

		if data.CNPJ != "" {
			if _, dup := seen[data.CNPJ]; dup {
				errs.AddDuplicateError(row.LineNumber, colCNPJ, data.CNPJ, false)
				result.Skipped++
				continue
			}
			seen[data.CNPJ] = row.LineNumber
			exists, err := s.repo.ExistsByCNPJ(ctx, data.CNPJ)
			if err != nil {
				return nil, err
			}
			if exists {
				result.Skipped++
				continue
			}
		}

		c, err := cliente.NewCliente(data)
		if err != nil {
			errs.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportRejected, err.Error()))
			continue
		}
		if err := s.repo.Create(ctx, c); err != nil {
			errs.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportRejected, err.Error()))
			continue
		}
		result.Imported++
	}

	result.Errors = errs.Errors()
	result.ErrorCount = errs.TotalCount()
	result.IsTruncated = errs.IsTruncated()
	s.logger.Info("Clientes imported",
		zap.Int("total", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.ErrorCount))
	return result, nil
}

package dasmei

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	csvimport "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/import"
	"go.uber.org/zap"
)

// defaultLogLimit caps system log listings without an explicit limit
const defaultLogLimit = 200

var errCNPJTaken = shared.NewDomainError("ALREADY_EXISTS", "Já existe um cliente MEI com este CNPJ")

// AdminService maintains the DAS-MEI records edited from the dashboard
type AdminService struct {
	repos    Repositories
	whatsapp ports.WhatsAppSenderFactory
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdminService creates a new AdminService
func NewAdminService(repos Repositories, whatsapp ports.WhatsAppSenderFactory, logger *zap.Logger) *AdminService {
	return &AdminService{
		repos:    repos,
		whatsapp: whatsapp,
		logger:   logger,
		now:      time.Now,
	}
}

// ListClientes returns MEI clients ordered by name
func (s *AdminService) ListClientes(ctx context.Context, search string, activeOnly bool) ([]ClienteMeiResponse, error) {
	clientes, err := s.repos.Clientes.FindAll(ctx, search, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]ClienteMeiResponse, len(clientes))
	for i, c := range clientes {
		out[i] = ToClienteMeiResponse(c)
	}
	return out, nil
}

// GetCliente returns a MEI client
func (s *AdminService) GetCliente(ctx context.Context, id uuid.UUID) (*ClienteMeiResponse, error) {
	c, err := s.repos.Clientes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToClienteMeiResponse(c)
	return &resp, nil
}

// CreateCliente registers a MEI client. The CNPJ must be unique.
func (s *AdminService) CreateCliente(ctx context.Context, req ClienteMeiRequest) (*ClienteMeiResponse, error) {
	c, err := dasmei.NewClienteMei(req.Nome, req.CNPJ, req.Telefone, req.Email)
	if err != nil {
		return nil, err
	}
	if err := applyClienteOptions(c, req); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCNPJ(ctx, c.CNPJ, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repos.Clientes.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Cliente MEI created", zap.String("cliente_id", c.ID.String()), zap.String("cnpj", c.CNPJ))
	resp := ToClienteMeiResponse(c)
	return &resp, nil
}

// UpdateCliente replaces the data of a MEI client
func (s *AdminService) UpdateCliente(ctx context.Context, id uuid.UUID, req ClienteMeiRequest) (*ClienteMeiResponse, error) {
	c, err := s.repos.Clientes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.SetData(req.Nome, req.CNPJ, req.Telefone, req.Email); err != nil {
		return nil, err
	}
	if err := applyClienteOptions(c, req); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueCNPJ(ctx, c.CNPJ, c.ID); err != nil {
		return nil, err
	}
	if err := s.repos.Clientes.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := ToClienteMeiResponse(c)
	return &resp, nil
}

func applyClienteOptions(c *dasmei.ClienteMei, req ClienteMeiRequest) error {
	diaEnvio, diaVencimento := c.DiaEnvio, c.DiaVencimento
	if req.DiaEnvio != 0 {
		diaEnvio = req.DiaEnvio
	}
	if req.DiaVencimento != 0 {
		diaVencimento = req.DiaVencimento
	}
	if err := c.SetDays(diaEnvio, diaVencimento); err != nil {
		return err
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.Observacoes = req.Observacoes
	return nil
}

func (s *AdminService) ensureUniqueCNPJ(ctx context.Context, cnpj string, self uuid.UUID) error {
	other, err := s.repos.Clientes.FindByCNPJ(ctx, cnpj)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if other.ID != self {
		return errCNPJTaken
	}
	return nil
}

// DeleteCliente removes a MEI client
func (s *AdminService) DeleteCliente(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Clientes.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Cliente MEI deleted", zap.String("cliente_id", id.String()))
	return nil
}

// ListGuias returns guides matching the filter
func (s *AdminService) ListGuias(ctx context.Context, f GuiaListFilter) ([]GuiaResponse, error) {
	filter := dasmei.GuiaFilter{Status: dasmei.GuiaStatus(f.Status)}
	if f.Periodo != "" {
		periodo, err := dasmei.NormalizePeriodo(f.Periodo)
		if err != nil {
			return nil, err
		}
		filter.Periodo = periodo
	}
	if f.ClienteMeiID != "" {
		id, err := uuid.Parse(f.ClienteMeiID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		filter.ClienteMeiID = &id
	}
	guias, err := s.repos.Guias.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]GuiaResponse, len(guias))
	for i, g := range guias {
		out[i] = ToGuiaResponse(g)
	}
	return out, nil
}

// GetGuia returns a guide
func (s *AdminService) GetGuia(ctx context.Context, id uuid.UUID) (*GuiaResponse, error) {
	g, err := s.repos.Guias.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToGuiaResponse(g)
	return &resp, nil
}

// EnvioLogs returns the delivery history of a guide
func (s *AdminService) EnvioLogs(ctx context.Context, guiaID uuid.UUID) ([]EnvioLogResponse, error) {
	logs, err := s.repos.Envios.FindByGuia(ctx, guiaID)
	if err != nil {
		return nil, err
	}
	out := make([]EnvioLogResponse, len(logs))
	for i, l := range logs {
		out[i] = ToEnvioLogResponse(l)
	}
	return out, nil
}

// ListTemplates returns every message template
func (s *AdminService) ListTemplates(ctx context.Context) ([]TemplateResponse, error) {
	templates, err := s.repos.Templates.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		out[i] = ToTemplateResponse(t)
	}
	return out, nil
}

// CreateTemplate stores a message template
func (s *AdminService) CreateTemplate(ctx context.Context, req TemplateRequest) (*TemplateResponse, error) {
	t, err := dasmei.NewMessageTemplate(req.Nome, dasmei.TemplateType(req.Tipo), req.Conteudo)
	if err != nil {
		return nil, err
	}
	if req.Ativo != nil {
		t.Ativo = *req.Ativo
	}
	if err := s.repos.Templates.Create(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// UpdateTemplate replaces a message template
func (s *AdminService) UpdateTemplate(ctx context.Context, id uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	t, err := s.repos.Templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tipo := dasmei.TemplateType(req.Tipo)
	if !tipo.IsValid() {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_TYPE", "Tipo de template inválido: "+req.Tipo)
	}
	if err := t.SetContent(req.Conteudo); err != nil {
		return nil, err
	}
	t.Nome = req.Nome
	t.Tipo = tipo
	if req.Ativo != nil {
		t.Ativo = *req.Ativo
	}
	if err := s.repos.Templates.Update(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// DeleteTemplate removes a message template
func (s *AdminService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.repos.Templates.Delete(ctx, id)
}

// ListInstances returns the Evolution API instances
func (s *AdminService) ListInstances(ctx context.Context) ([]InstanceResponse, error) {
	instances, err := s.repos.Instances.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]InstanceResponse, len(instances))
	for i, e := range instances {
		out[i] = ToInstanceResponse(e)
	}
	return out, nil
}

// CreateInstance stores an Evolution API instance
func (s *AdminService) CreateInstance(ctx context.Context, req InstanceRequest) (*InstanceResponse, error) {
	e, err := dasmei.NewEvolutionInstance(req.Nome, req.InstanceName, req.ServerURL, req.Token)
	if err != nil {
		return nil, err
	}
	if req.Ativo != nil {
		e.Ativo = *req.Ativo
	}
	if err := s.repos.Instances.Create(ctx, e); err != nil {
		return nil, err
	}
	resp := ToInstanceResponse(e)
	return &resp, nil
}

// UpdateInstance replaces an Evolution API instance. An empty token keeps
// the stored one.
func (s *AdminService) UpdateInstance(ctx context.Context, id uuid.UUID, req InstanceRequest) (*InstanceResponse, error) {
	e, err := s.repos.Instances.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	token := req.Token
	if token == "" {
		token = e.Token
	}
	validated, err := dasmei.NewEvolutionInstance(req.Nome, req.InstanceName, req.ServerURL, token)
	if err != nil {
		return nil, err
	}
	e.Nome = validated.Nome
	e.InstanceName = validated.InstanceName
	e.ServerURL = validated.ServerURL
	e.Token = validated.Token
	if req.Ativo != nil {
		e.Ativo = *req.Ativo
	}
	e.UpdatedAt = s.now()
	if err := s.repos.Instances.Update(ctx, e); err != nil {
		return nil, err
	}
	resp := ToInstanceResponse(e)
	return &resp, nil
}

// DeleteInstance removes an Evolution API instance
func (s *AdminService) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	return s.repos.Instances.Delete(ctx, id)
}

// TestInstance checks the connection of an instance and records the result
// on it. A failed connection is reported in StatusTeste, not as an error.
func (s *AdminService) TestInstance(ctx context.Context, id uuid.UUID) (*InstanceResponse, error) {
	e, err := s.repos.Instances.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	testErr := s.whatsapp.ForInstance(e.ServerURL, e.InstanceName, e.Token).TestConnection(ctx)
	if testErr != nil {
		s.logger.Warn("Evolution instance test failed",
			zap.String("instance", e.InstanceName), zap.Error(testErr))
	}
	e.RecordTest(testErr == nil, s.now())
	if err := s.repos.Instances.Update(ctx, e); err != nil {
		return nil, err
	}
	resp := ToInstanceResponse(e)
	return &resp, nil
}

// ListSettings returns every automation setting
func (s *AdminService) ListSettings(ctx context.Context) ([]SettingResponse, error) {
	settings, err := s.repos.Settings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SettingResponse, len(settings))
	for i, st := range settings {
		out[i] = ToSettingResponse(st)
	}
	return out, nil
}

// UpdateSetting changes the value of an existing setting, checking it
// against the setting type
func (s *AdminService) UpdateSetting(ctx context.Context, chave, valor string, userID *uuid.UUID) (*SettingResponse, error) {
	st, err := s.repos.Settings.FindByChave(ctx, chave)
	if err != nil {
		return nil, err
	}
	if err := st.SetValue(valor, userID); err != nil {
		return nil, err
	}
	if err := s.repos.Settings.Upsert(ctx, st); err != nil {
		return nil, err
	}
	s.logger.Info("Automation setting updated", zap.String("chave", chave), zap.String("valor", valor))
	resp := ToSettingResponse(st)
	return &resp, nil
}

// ListFeriados returns every holiday
func (s *AdminService) ListFeriados(ctx context.Context) ([]FeriadoResponse, error) {
	feriados, err := s.repos.Feriados.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]FeriadoResponse, len(feriados))
	for i, f := range feriados {
		out[i] = ToFeriadoResponse(f)
	}
	return out, nil
}

// CreateFeriado stores a holiday
func (s *AdminService) CreateFeriado(ctx context.Context, req FeriadoRequest) (*FeriadoResponse, error) {
	data, err := csvimport.ParseDate(req.Data)
	if err != nil || data == nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Data inválida: "+req.Data)
	}
	f, err := dasmei.NewFeriado(*data, req.Descricao, req.Nacional)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Feriados.Create(ctx, f); err != nil {
		return nil, err
	}
	resp := ToFeriadoResponse(f)
	return &resp, nil
}

// UpdateFeriado replaces the date, description and scope of a holiday
func (s *AdminService) UpdateFeriado(ctx context.Context, id uuid.UUID, req FeriadoRequest) (*FeriadoResponse, error) {
	data, err := csvimport.ParseDate(req.Data)
	if err != nil || data == nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Data inválida: "+req.Data)
	}
	f, err := s.repos.Feriados.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.Update(*data, req.Descricao, req.Nacional); err != nil {
		return nil, err
	}
	if err := s.repos.Feriados.Update(ctx, f); err != nil {
		return nil, err
	}
	resp := ToFeriadoResponse(f)
	return &resp, nil
}

// DeleteFeriado removes a holiday
func (s *AdminService) DeleteFeriado(ctx context.Context, id uuid.UUID) error {
	return s.repos.Feriados.Delete(ctx, id)
}

// ListLogs returns system log entries, newest first
func (s *AdminService) ListLogs(ctx context.Context, f LogFilter) ([]SystemLogResponse, error) {
	filter := dasmei.SystemLogFilter{
		TipoOperacao: f.TipoOperacao,
		Status:       f.Status,
		Periodo:      f.Periodo,
		Limit:        f.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLogLimit
	}
	if f.ClienteID != "" {
		id, err := uuid.Parse(f.ClienteID)
		if err != nil {
			return nil, shared.ErrInvalidInput
		}
		filter.ClienteID = &id
	}
	logs, err := s.repos.Logs.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]SystemLogResponse, len(logs))
	for i, l := range logs {
		out[i] = ToSystemLogResponse(l)
	}
	return out, nil
}

// ListRetries returns the retry queue, optionally filtered by status
func (s *AdminService) ListRetries(ctx context.Context, status string) ([]RetryResponse, error) {
	items, err := s.repos.Retries.FindAll(ctx, dasmei.RetryStatus(status))
	if err != nil {
		return nil, err
	}
	out := make([]RetryResponse, len(items))
	for i, r := range items {
		out[i] = ToRetryResponse(r)
	}
	return out, nil
}

// Requeue makes a retry item eligible immediately with a fresh attempt
// budget. Items being processed cannot be requeued.
func (s *AdminService) Requeue(ctx context.Context, id uuid.UUID) (*RetryResponse, error) {
	item, err := s.repos.Retries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == dasmei.RetryProcessing {
		return nil, shared.ErrInvalidState
	}
	item.Requeue(s.now())
	if err := s.repos.Retries.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := ToRetryResponse(item)
	return &resp, nil
}

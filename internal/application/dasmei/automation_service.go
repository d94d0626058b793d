package dasmei

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Operation names written to the system log
const (
	opGeracaoGuia      = "geracao_guia"
	opEnvioWhatsApp    = "envio_whatsapp"
	opEnvioEmail       = "envio_email"
	opLembreteWhatsApp = "lembrete_whatsapp"
	opRetryEsgotado    = "retry_esgotado"
)

// Repositories groups the stores used by the DAS-MEI services
type Repositories struct {
	Clientes     dasmei.ClienteMeiRepository
	Guias        dasmei.GuiaRepository
	Envios       dasmei.EnvioLogRepository
	Programacoes dasmei.ProgramacaoRepository
	Templates    dasmei.MessageTemplateRepository
	Instances    dasmei.EvolutionInstanceRepository
	Logs         dasmei.SystemLogRepository
	Settings     dasmei.SettingRepository
	Feriados     dasmei.FeriadoRepository
	Retries      dasmei.RetryRepository
	ApiConfigs   dasmei.ApiConfigRepository
}

// Options tunes the automation
type Options struct {
	Location       *time.Location
	ReminderDays   int
	RetryBaseDelay time.Duration
	MaxRetries     int
	// ArchivePDFs downloads each generated guide into object storage
	ArchivePDFs bool
	// SendEmail is the default of the enviar_email setting
	SendEmail bool
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.ReminderDays <= 0 {
		o.ReminderDays = 5
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = time.Hour
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = dasmei.DefaultMaxTentativas
	}
	return o
}

// AutomationService generates DAS-MEI guides, delivers them and works the
// retry queue.
type AutomationService struct {
	repos     Repositories
	providers *ProviderManager
	whatsapp  ports.WhatsAppSenderFactory
	mailer    ports.Mailer
	storage   ports.ObjectStorage
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewAutomationService creates a new AutomationService. mailer and storage
// may be nil.
func NewAutomationService(
	repos Repositories,
	providers *ProviderManager,
	whatsapp ports.WhatsAppSenderFactory,
	mailer ports.Mailer,
	storage ports.ObjectStorage,
	opts Options,
	logger *zap.Logger,
) *AutomationService {
	return &AutomationService{
		repos:     repos,
		providers: providers,
		whatsapp:  whatsapp,
		mailer:    mailer,
		storage:   storage,
		opts:      opts.withDefaults(),
		logger:    logger,
		now:       time.Now,
	}
}

// Enabled reports the automacao_ativa setting. Scheduled runs are skipped
// while it is false; manual runs are not affected.
func (s *AutomationService) Enabled(ctx context.Context) bool {
	return s.setting(ctx, dasmei.SettingAutomacaoAtiva).Bool(true)
}

// ResolvePeriodo normalizes periodo to AAAAMM. An empty value means the
// month before today.
func (s *AutomationService) ResolvePeriodo(periodo string) (string, error) {
	if periodo == "" {
		return dasmei.PreviousPeriod(s.now().In(s.opts.Location)), nil
	}
	return dasmei.NormalizePeriodo(periodo)
}

// IsBusinessDay reports whether d is neither a weekend nor a registered
// holiday
func (s *AutomationService) IsBusinessDay(ctx context.Context, d time.Time) bool {
	day := dateOnly(d.In(s.opts.Location))
	return s.calendar(ctx, day, day.AddDate(0, 0, 1)).IsBusinessDay(day)
}

func (s *AutomationService) today() time.Time {
	return dateOnly(s.now().In(s.opts.Location))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// setting returns nil when the key is missing or unreadable
func (s *AutomationService) setting(ctx context.Context, chave string) *dasmei.AutomationSetting {
	st, err := s.repos.Settings.FindByChave(ctx, chave)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Failed to read automation setting", zap.String("chave", chave), zap.Error(err))
		}
		return nil
	}
	return st
}

// calendar loads the holidays in [from, to). A lookup failure yields a
// weekends-only calendar.
func (s *AutomationService) calendar(ctx context.Context, from, to time.Time) *dasmei.BusinessCalendar {
	feriados, err := s.repos.Feriados.FindBetween(ctx, from, to)
	if err != nil {
		s.logger.Warn("Failed to load holidays", zap.Error(err))
	}
	return dasmei.NewBusinessCalendar(feriados)
}

func (s *AutomationService) audit(ctx context.Context, tipo string, clienteID *uuid.UUID, status string, detalhes map[string]any, periodo, operador string) {
	entry := dasmei.NewSystemLog(tipo, clienteID, status, detalhes, periodo, operador)
	entry.Timestamp = s.now()
	if err := s.repos.Logs.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to write system log", zap.String("tipo_operacao", tipo), zap.Error(err))
	}
}

// enqueueRetry queues a failed operation unless an open item already covers
// it, in which case only the error of that item is refreshed
func (s *AutomationService) enqueueRetry(ctx context.Context, operacao string, clienteID uuid.UUID, dados map[string]any, cause error) {
	open, err := s.repos.Retries.FindOpen(ctx, operacao, clienteID)
	if err != nil {
		s.logger.Warn("Failed to look up open retries",
			zap.String("operacao", operacao),
			zap.String("cliente_id", clienteID.String()),
			zap.Error(err))
	}
	for _, item := range open {
		if !item.Covers(operacao, clienteID, dados) {
			continue
		}
		item.Refresh(cause, s.now())
		s.saveRetry(ctx, item)
		s.logger.Debug("Retry already queued",
			zap.String("retry_id", item.ID.String()),
			zap.String("operacao", operacao),
			zap.String("cliente_id", clienteID.String()))
		return
	}

	item := dasmei.NewRetryItem(operacao, clienteID, dados, cause, s.now(), s.opts.RetryBaseDelay, s.opts.MaxRetries)
	if err := s.repos.Retries.Create(ctx, item); err != nil {
		s.logger.Error("Failed to enqueue retry",
			zap.String("operacao", operacao),
			zap.String("cliente_id", clienteID.String()),
			zap.Error(err))
		return
	}
	s.logger.Info("Retry enqueued",
		zap.String("operacao", operacao),
		zap.String("cliente_id", clienteID.String()),
		zap.Time("proxima_tentativa", *item.ProximaTentativa))
}

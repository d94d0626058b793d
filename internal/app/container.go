// Package app wires the repositories, adapters and services shared by the
// HTTP server and the command line tool.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	appcliente "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/cliente"
	appcontratacao "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/contratacao"
	appdasmei "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/dasmei"
	appfiles "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/files"
	appidentity "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/identity"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	appregistration "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/auth"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/cache"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/config"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/event"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/integration/evolution"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/integration/infosimples"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/integration/sendgrid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/integration/webhook"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/logger"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/migration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/persistence"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/printing"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/scheduler"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/seed"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/storage"
)

// Services are the application services built from one configuration
type Services struct {
	Auth          *appidentity.AuthService
	Users         *appidentity.UserService
	Registrations *appregistration.RegistrationService
	Tasks         *appregistration.TaskService
	Templates     *appregistration.TemplateService
	Contratacoes  *appcontratacao.ContratacaoService
	Clientes      *appcliente.ClienteService
	DasmeiAdmin   *appdasmei.AdminService
	Automation    *appdasmei.AutomationService
	Providers     *appdasmei.ProviderManager
	Files         *appfiles.Service
}

// Container owns every long-lived dependency. Close releases them in
// reverse order of creation.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *persistence.Database
	JWT         *auth.JWTService
	Revocations auth.RevocationList
	Storage     ports.ObjectStorage
	Bus         *event.Bus
	Locker      cache.Locker
	Registry    *prometheus.Registry
	Metrics     *scheduler.Metrics
	Scheduler   *scheduler.Scheduler
	Services    Services

	repos   appdasmei.Repositories
	closers []func(context.Context) error
}

// Build connects to the database and assembles the services
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}

	gormLog := logger.NewGormLogger(log, logger.GormLogConfigFor(cfg.Log.Level, cfg.App.Env == "development"))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	c.onClose(func(context.Context) error { return db.Close() })

	if cfg.Database.AutoMigrate {
		if err := c.migrate(); err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
	}

	c.JWT = auth.NewJWTService(cfg.JWT)
	c.Revocations = c.newRevocationList()

	locker, err := cache.NewLockerFactory(cfg.Redis, cache.WithLogger(log)).CreateLocker()
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.Locker = locker
	if closer, ok := locker.(interface{ Close() error }); ok {
		c.onClose(func(context.Context) error { return closer.Close() })
	}

	c.Storage, err = storage.New(&cfg.Storage, log)
	if err != nil {
		log.Warn("Object storage unavailable, uploads are disabled", zap.Error(err))
		c.Storage = nil
	}

	c.Registry = prometheus.NewRegistry()
	c.Metrics, err = scheduler.NewMetrics(c.Registry)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	c.Bus = event.NewBus(log)
	c.onClose(c.Bus.Stop)

	if err := c.buildServices(); err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	return c, nil
}

func (c *Container) migrate() error {
	if c.DB.Driver != "postgres" {
		c.Logger.Info("Applying schema with GORM auto-migrate", zap.String("driver", c.DB.Driver))
		return c.DB.AutoMigrate()
	}
	sqlDB, err := c.DB.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	m, err := migration.New(sqlDB, c.Logger)
	if err != nil {
		return err
	}
	return m.Up()
}

// newRevocationList uses redis when configured so logouts hold across
// instances; otherwise revocations live in this process only
func (c *Container) newRevocationList() auth.RevocationList {
	if c.Config.Redis.Host == "" {
		return auth.NewInMemoryRevocationList()
	}
	client, err := cache.NewRedisClient(c.Config.Redis)
	if err != nil {
		c.Logger.Warn("Redis unavailable, token revocation is per instance", zap.Error(err))
		return auth.NewInMemoryRevocationList()
	}
	c.onClose(func(context.Context) error { return client.Close() })
	return auth.NewRedisRevocationList(client)
}

func (c *Container) buildServices() error {
	cfg, log, gdb := c.Config, c.Logger, c.DB.DB

	userRepo := persistence.NewGormUserRepository(gdb)
	regRepo := persistence.NewGormRegistrationRepository(gdb)
	taskRepo := persistence.NewGormTaskRepository(gdb)
	templateRepo := persistence.NewGormTaskTemplateRepository(gdb)
	clienteRepo := persistence.NewGormClienteRepository(gdb)
	contratacaoRepo := persistence.NewGormContratacaoRepository(gdb)
	c.repos = appdasmei.Repositories{
		Clientes:     persistence.NewGormClienteMeiRepository(gdb),
		Guias:        persistence.NewGormGuiaRepository(gdb),
		Envios:       persistence.NewGormEnvioLogRepository(gdb),
		Programacoes: persistence.NewGormProgramacaoRepository(gdb),
		Templates:    persistence.NewGormMessageTemplateRepository(gdb),
		Instances:    persistence.NewGormEvolutionInstanceRepository(gdb),
		Logs:         persistence.NewGormSystemLogRepository(gdb),
		Settings:     persistence.NewGormSettingRepository(gdb),
		Feriados:     persistence.NewGormFeriadoRepository(gdb),
		Retries:      persistence.NewGormRetryRepository(gdb),
		ApiConfigs:   persistence.NewGormApiConfigRepository(gdb),
	}

	renderer, err := c.newRenderer()
	if err != nil {
		return err
	}
	mailer := c.newMailer()
	whatsapp := evolution.NewFactory(evolution.Config{
		ServerURL: cfg.Evolution.ServerURL,
		APIKey:    cfg.Evolution.APIKey,
		Instance:  cfg.Evolution.Instance,
		Timeout:   cfg.Evolution.Timeout,
		Interval:  cfg.Evolution.Interval,
	}, log)

	s := &c.Services
	s.Auth = appidentity.NewAuthService(userRepo, c.JWT, c.Revocations, log)
	s.Users = appidentity.NewUserService(userRepo, c.Revocations, cfg.JWT.Expiration, log)
	s.Tasks = appregistration.NewTaskService(taskRepo, templateRepo,
		persistence.NewGormTaskActivityRepository(gdb),
		persistence.NewGormTaskFileRepository(gdb),
		c.Storage, log)
	s.Templates = appregistration.NewTemplateService(templateRepo, log)
	s.Registrations = appregistration.NewRegistrationService(regRepo, taskRepo, clienteRepo, s.Tasks, c.Storage, renderer, c.Bus, log)
	s.Contratacoes = appcontratacao.NewContratacaoService(contratacaoRepo, c.Storage, renderer, c.Bus, log)
	s.Clientes = appcliente.NewClienteService(clienteRepo, persistence.NewGormIrHistoricoRepository(gdb), regRepo, s.Tasks, log)

	s.Providers = appdasmei.NewProviderManager(c.repos.ApiConfigs, appdasmei.ProviderInfoSimples, log,
		infosimples.New(infosimples.Config{
			BaseURL:  cfg.InfoSimples.BaseURL,
			Token:    cfg.InfoSimples.Token,
			Timeout:  cfg.InfoSimples.Timeout,
			Interval: cfg.InfoSimples.Interval,
		}, log),
	)
	s.DasmeiAdmin = appdasmei.NewAdminService(c.repos, whatsapp, log)
	s.Automation = appdasmei.NewAutomationService(c.repos, s.Providers, whatsapp, mailer, c.Storage, appdasmei.Options{
		Location:       cfg.Scheduler.Location(),
		ReminderDays:   cfg.DASMEI.ReminderWindowDays,
		RetryBaseDelay: cfg.DASMEI.RetryBaseDelay,
		MaxRetries:     cfg.DASMEI.MaxRetryAttempts,
		ArchivePDFs:    cfg.DASMEI.ArchivePDFs,
		SendEmail:      mailer != nil,
	}, log)

	s.Files = appfiles.NewService(c.Storage, appfiles.Config{
		Root:    cfg.Storage.PublicRoot,
		LinkTTL: cfg.Storage.PresignExpiration,
	}, log)

	var hook ports.WebhookSender
	if cfg.Webhook.ContratacaoURL != "" {
		hook = webhook.NewSender(cfg.Webhook.ContratacaoURL, cfg.Webhook.Timeout, log)
	}
	c.Bus.Subscribe(appregistration.NewSubmittedNotificationHandler(mailer, c.Storage, cfg.Notification.FirmEmail, log))
	c.Bus.Subscribe(appcontratacao.NewSubmittedHandler(contratacaoRepo, mailer, c.Storage, hook, cfg.Notification.FirmEmail, log))

	c.Scheduler = scheduler.NewScheduler(scheduler.SchedulerConfig{
		Enabled:           cfg.Scheduler.Enabled,
		MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
		JobTimeout:        cfg.Scheduler.JobTimeout,
		RetryAttempts:     cfg.Scheduler.RetryAttempts,
		RetryDelay:        cfg.Scheduler.RetryDelay,
	}, scheduler.NewDASMEIExecutor(s.Automation, c.Metrics, log), c.Metrics, log)
	return nil
}

// newRenderer returns nil when printing is disabled; PDFs are then skipped
func (c *Container) newRenderer() (ports.DocumentRenderer, error) {
	pc := c.Config.Printing
	if !pc.Enabled {
		return nil, nil
	}
	chrome, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: pc.RenderTimeout,
		RemoteURL:      pc.ChromeURL,
		NoSandbox:      pc.NoSandbox,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PDF renderer: %w", err)
	}
	c.onClose(func(context.Context) error { return chrome.Close() })
	docs, err := printing.NewDocuments(chrome, printing.Company{
		Name:    pc.CompanyName,
		Address: pc.CompanyAddress,
	}, c.Logger)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Container) newMailer() ports.Mailer {
	m := sendgrid.NewMailer(sendgrid.Config{
		APIKey:    c.Config.SendGrid.APIKey,
		FromEmail: c.Config.SendGrid.FromEmail,
		FromName:  c.Config.SendGrid.FromName,
	}, c.Logger)
	if !m.Configured() {
		c.Logger.Info("SendGrid not configured, e-mail is disabled")
		return nil
	}
	return m
}

// Start runs the event bus and the scheduler workers
func (c *Container) Start(ctx context.Context) error {
	if err := c.Bus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}
	if err := c.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	c.onClose(c.Scheduler.Stop)
	return nil
}

// CronTrigger builds the trigger that submits the daily automation jobs
func (c *Container) CronTrigger() (*scheduler.CronTrigger, error) {
	sc := c.Config.Scheduler
	return scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
		Location:      sc.Location(),
		CheckInterval: sc.CheckInterval,
		LockTTL:       sc.LockTTL,
		MaxRetries:    sc.RetryAttempts,
	}, c.Scheduler, c.Locker, c.Services.Automation, c.Metrics, c.Logger)
}

// Seeder builds the seeder for the default templates, settings and holidays
func (c *Container) Seeder() (*seed.Seeder, error) {
	data, err := seed.Load()
	if err != nil {
		return nil, err
	}
	return seed.NewSeeder(data, seed.Stores{
		Tasks:    c.Services.Templates,
		Users:    c.Services.Users,
		Messages: c.repos.Templates,
		Settings: c.repos.Settings,
		Feriados: c.repos.Feriados,
	}, c.Config.Seed.AdminPassword, c.Config.Scheduler.Location(), c.Logger), nil
}

// HealthChecks returns the dependency checks reported by the health endpoint
func (c *Container) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.DB.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if p, ok := c.Locker.(interface{ Ping(context.Context) error }); ok {
		checks["redis"] = p.Ping
	}
	return checks
}

func (c *Container) onClose(fn func(context.Context) error) {
	c.closers = append(c.closers, fn)
}

// Close releases every resource; all errors are returned joined
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/app"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/config"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/logger"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/telemetry"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/handler"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/middleware"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/router"
)

//	@title			Prosperar API
//	@version		1.0
//	@description	Backend da Prosperar Contabilidade: cadastro de empresas, tarefas, clientes, contratação de funcionários e automação da guia DAS-MEI.

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterCfg := telemetryCfg
	meterCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled
	meterProvider, err := telemetry.NewMeterProvider(ctx, meterCfg, time.Minute, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeURL,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting Prosperar backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	container, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to build application", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", container.DB.Driver))

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = true
		dbTracing.DBName = cfg.Database.DBName
		if err := telemetry.RegisterDBTracing(container.DB.DB, dbTracing, log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	if cfg.Seed.Enabled {
		runSeed(ctx, container, log)
	}

	if err := container.Start(ctx); err != nil {
		log.Fatal("Failed to start background workers", zap.Error(err))
	}

	var cron interface{ Stop(context.Context) error }
	if cfg.Scheduler.Enabled {
		trigger, err := container.CronTrigger()
		if err != nil {
			log.Fatal("Invalid automation schedule", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start automation schedule", zap.Error(err))
		}
		cron = trigger
	} else {
		log.Info("DAS-MEI automation schedule disabled; manual runs are still queued")
	}

	container.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := newEngine(cfg, container, meterProvider, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cron != nil {
		if err := cron.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping automation schedule", zap.Error(err))
		}
	}
	if err := container.Close(shutdownCtx); err != nil {
		log.Error("Error releasing resources", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func runSeed(ctx context.Context, container *app.Container, log *zap.Logger) {
	seeder, err := container.Seeder()
	if err != nil {
		log.Fatal("Failed to load seed data", zap.Error(err))
	}
	year := time.Now().In(container.Config.Scheduler.Location()).Year()
	result, err := seeder.Run(ctx, year, year+1)
	if err != nil {
		log.Error("Seeding failed", zap.Error(err))
		return
	}
	log.Info("Seed applied",
		zap.Int("task_templates", result.TaskTemplates),
		zap.Int("message_templates", result.MessageTemplates),
		zap.Int("settings", result.Settings),
		zap.Int("holidays", result.Holidays),
		zap.Bool("admin_created", result.Admin),
	)
}

// newEngine applies the middleware stack in order:
// request ID, recovery, request log, security headers, CORS, body limit,
// rate limit, tracing, metrics and profiling
func newEngine(cfg *config.Config, container *app.Container, meterProvider *telemetry.MeterProvider, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:          cfg.Telemetry.ProfilingEnabled,
		SkipPaths:        []string{"/health", "/metrics"},
		SkipPathPrefixes: []string{"/swagger"},
	}))

	checks := make(map[string]handler.HealthCheck)
	for name, check := range container.HealthChecks() {
		checks[name] = check
	}
	system := handler.NewSystemHandler(telemetry.ServiceVersion, checks)
	engine.GET("/health", system.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(container.Registry, promhttp.HandlerOpts{
		Registry: container.Registry,
	})))
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
	if cfg.Storage.Provider == "local" {
		router.ServeLocalFiles(engine, cfg.Storage.LocalBaseURL, cfg.Storage.LocalPath, cfg.Storage.PublicRoot)
	}

	s := container.Services
	r := router.NewRouter(engine)

	jwtConfig := middleware.DefaultJWTConfig(container.JWT)
	jwtConfig.Revocations = container.Revocations
	jwtConfig.Logger = log
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	r.Register(router.APIGroups(router.Handlers{
		Auth:         handler.NewAuthHandler(s.Auth),
		User:         handler.NewUserHandler(s.Users),
		Registration: handler.NewRegistrationHandler(s.Registrations),
		Task:         handler.NewTaskHandler(s.Tasks),
		TaskTemplate: handler.NewTaskTemplateHandler(s.Templates),
		Contratacao:  handler.NewContratacaoHandler(s.Contratacoes),
		Cliente:      handler.NewClienteHandler(s.Clientes),
		Dasmei:       handler.NewDasmeiHandler(s.DasmeiAdmin, s.Automation, container.Scheduler, cfg.Scheduler.Location()),
		DasmeiAdmin:  handler.NewDasmeiAdminHandler(s.DasmeiAdmin, s.Providers),
		PublicFiles:  handler.NewPublicFilesHandler(s.Files),
	}, middleware.RequireAdmin())...)
	r.Setup()

	return engine
}

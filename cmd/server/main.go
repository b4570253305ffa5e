package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assetapp "github.com/rwbiz/backend/internal/application/asset"
	billingapp "github.com/rwbiz/backend/internal/application/billing"
	capitalapp "github.com/rwbiz/backend/internal/application/capital"
	companyapp "github.com/rwbiz/backend/internal/application/company"
	currencyapp "github.com/rwbiz/backend/internal/application/currency"
	dividendapp "github.com/rwbiz/backend/internal/application/dividend"
	documentapp "github.com/rwbiz/backend/internal/application/document"
	expenseapp "github.com/rwbiz/backend/internal/application/expense"
	identityapp "github.com/rwbiz/backend/internal/application/identity"
	meetingapp "github.com/rwbiz/backend/internal/application/meeting"
	notificationapp "github.com/rwbiz/backend/internal/application/notification"
	payrollapp "github.com/rwbiz/backend/internal/application/payroll"
	personapp "github.com/rwbiz/backend/internal/application/person"
	reportapp "github.com/rwbiz/backend/internal/application/report"
	taxapp "github.com/rwbiz/backend/internal/application/tax"
	"github.com/rwbiz/backend/internal/infrastructure/auth"
	"github.com/rwbiz/backend/internal/infrastructure/cache"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/rwbiz/backend/internal/infrastructure/event"
	"github.com/rwbiz/backend/internal/infrastructure/export"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/rwbiz/backend/internal/infrastructure/persistence"
	"github.com/rwbiz/backend/internal/infrastructure/printing"
	"github.com/rwbiz/backend/internal/infrastructure/scheduler"
	"github.com/rwbiz/backend/internal/infrastructure/storage"
	"github.com/rwbiz/backend/internal/infrastructure/telemetry"
	"github.com/rwbiz/backend/internal/interfaces/http/handler"
	"github.com/rwbiz/backend/internal/interfaces/http/middleware"
	"github.com/rwbiz/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/rwbiz/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Rwanda Business API
//	@version		1.0
//	@description	Multi-tenant backend for Rwandan companies: shareholders, locked capital, dividends, payroll, RRA tax filings, invoicing and the document vault.

//	@contact.name	API Support
//	@contact.url	https://github.com/rwbiz/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@securityDefinitions.apikey	CompanyID
//	@in							header
//	@name						X-Company-ID
//	@description				Company the request acts on. Required on every company-scoped route.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry first so the final logger can tee into the OTLP log pipeline
	tel, err := telemetry.Setup(context.Background(), telemetryConfig(cfg), bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			bootLog.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log, err := logger.New(logCfg, logger.WithTee(tel.Logs.ZapCore(logger.ParseLevel(cfg.Log.Level))))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Rwanda Business API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		// Postgres schemas come from cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	if err := telemetry.RegisterGORM(db.DB, telemetryConfig(cfg), log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Redis backs the cache and the token blacklist when enabled
	var (
		redisClient *redis.Client
		cacheStore  cache.Store
		blacklist   auth.TokenBlacklist
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		cacheStore = cache.NewRedisStore(redisClient, "rwbiz:")
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memStore := cache.NewMemoryStore()
		defer func() {
			_ = memStore.Close()
		}()
		cacheStore = memStore
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, using in-process cache and token blacklist")
	}

	// Document vault storage
	objectStorage, err := storage.New(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	// PDF export is optional. Without Chrome the export endpoints answer 503.
	var (
		invoicePrinter billingapp.Printer
		reportPrinter  reportapp.Printer
	)
	if renderer, err := printing.NewChromedpRenderer(printing.ChromedpConfigFromConfig(cfg.Printing, log)); err != nil {
		log.Warn("PDF export disabled", zap.Error(err))
	} else if printer, err := printing.NewPrinter(printing.NewTemplateEngine(), renderer, log); err != nil {
		_ = renderer.Close()
		log.Warn("PDF export disabled", zap.Error(err))
	} else {
		defer func() {
			if err := printer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		invoicePrinter = printer
		reportPrinter = printer
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	personRepo := persistence.NewGormPersonRepository(db.DB)
	capitalRepo := persistence.NewGormLockedCapitalRepository(db.DB)
	withdrawalRepo := persistence.NewGormWithdrawalRepository(db.DB)
	declarationRepo := persistence.NewGormDeclarationRepository(db.DB)
	distributionRepo := persistence.NewGormDistributionRepository(db.DB)
	documentCategoryRepo := persistence.NewGormDocumentCategoryRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	documentAccessRepo := persistence.NewGormDocumentAccessRepository(db.DB)
	documentActivityRepo := persistence.NewGormDocumentActivityRepository(db.DB)
	meetingRepo := persistence.NewGormMeetingRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRunRepository(db.DB)
	filingRepo := persistence.NewGormTaxFilingRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	rateRepo := persistence.NewGormExchangeRateRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus. Handlers run asynchronously so a slow notification never
	// holds up the request that published the event.
	eventBus := event.NewBus(log, event.Options{Async: true, HandlerTimeout: 30 * time.Second})

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, eventBus, log)
	companyService := companyapp.NewCompanyService(
		companyRepo, membershipRepo, userRepo, personRepo, txScope.Company(), cacheStore, eventBus, log,
	)
	personService := personapp.NewPersonService(personRepo, companyRepo, eventBus, log)
	capitalService := capitalapp.NewCapitalService(
		capitalRepo, withdrawalRepo, personRepo, txScope.Capital(), cfg.Capital, eventBus, log,
	)
	dividendService := dividendapp.NewDividendService(
		declarationRepo, distributionRepo, personRepo, cfg.Tax, eventBus, log,
	)
	documentService := documentapp.NewDocumentService(
		documentCategoryRepo, documentRepo, documentAccessRepo, documentActivityRepo,
		membershipRepo, objectStorage, cfg.Upload, eventBus, log,
	)
	meetingService := meetingapp.NewMeetingService(meetingRepo, personRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, membershipRepo, log)
	invoiceService := billingapp.NewInvoiceService(
		invoiceRepo, receiptRepo, companyRepo, txScope.Billing(), invoicePrinter, eventBus, log,
	)
	payrollService, err := payrollapp.NewPayrollService(payrollRepo, personRepo, cfg.Payroll, eventBus, log)
	if err != nil {
		log.Fatal("Invalid payroll configuration", zap.Error(err))
	}
	taxService := taxapp.NewTaxService(
		filingRepo, companyRepo,
		taxapp.Sources{Invoices: invoiceRepo, Expenses: expenseRepo, Payroll: payrollRepo, Assets: assetRepo},
		cfg.Tax, notificationService, eventBus, log,
	)
	expenseService := expenseapp.NewExpenseService(expenseRepo, documentRepo, eventBus, log)
	assetService := assetapp.NewAssetService(assetRepo, log)
	currencyService := currencyapp.NewCurrencyService(rateRepo, companyRepo, log)
	reportService := reportapp.NewReportService(reportapp.Sources{
		Companies:     companyRepo,
		Persons:       personRepo,
		Documents:     documentRepo,
		Meetings:      meetingRepo,
		Capital:       capitalRepo,
		Declarations:  declarationRepo,
		Distributions: distributionRepo,
		Invoices:      invoiceRepo,
		Payroll:       payrollRepo,
		Filings:       filingRepo,
		Expenses:      expenseRepo,
	}, cacheStore, reportPrinter, export.NewXLSXWriter(), log)

	// Cross-context event handlers
	notificationHandler := notificationapp.NewEventHandler(notificationService, log)
	notificationHandler.OnNotified = tel.Metrics.NotificationsCreated
	dashboardInvalidator := reportapp.NewDashboardInvalidator(reportService)
	eventMetrics := telemetry.NewEventMetrics(tel.Metrics)
	eventBus.Subscribe(notificationHandler)
	eventBus.Subscribe(dashboardInvalidator)
	eventBus.Subscribe(eventMetrics)
	log.Info("Event handlers registered",
		zap.Strings("notification_events", notificationHandler.EventTypes()),
		zap.Strings("metric_events", eventMetrics.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Maintenance scheduler
	if cfg.Scheduler.Enabled {
		jobs, err := scheduler.NewScheduler(scheduler.ConfigFromConfig(cfg.Scheduler), log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		jobs.OnFinish = func(job *scheduler.Job) {
			var jobErr error
			if job.Error != "" {
				jobErr = errors.New(job.Error)
			}
			var took time.Duration
			if job.StartedAt != nil && job.CompletedAt != nil {
				took = job.CompletedAt.Sub(*job.StartedAt)
			}
			tel.Metrics.JobRun(context.Background(), job.Task, took, jobErr)
		}
		scheduler.RegisterMaintenance(jobs, scheduler.MaintenanceServices{
			Capital:      capitalService,
			Invoices:     invoiceService,
			Tax:          taxService,
			ReminderDays: cfg.Scheduler.ReminderDays,
		})
		if err := jobs.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		trigger, err := scheduler.NewCronTrigger(scheduler.TriggerConfigFromConfig(cfg.Scheduler), jobs, log)
		if err != nil {
			log.Fatal("Invalid scheduler trigger", zap.Error(err))
		}
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler trigger", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.Strings("tasks", jobs.Tasks()),
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
		)
	}

	// Health checks for /health
	checks := []handler.HealthCheck{{
		Name:  "database",
		Check: db.Ping,
	}}
	if redisClient != nil {
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	// HTTP handlers
	handlers := router.Handlers{
		System:       handler.NewSystemHandler(cfg.App.Name, version, checks...),
		Auth:         handler.NewAuthHandler(authService),
		Company:      handler.NewCompanyHandler(companyService),
		Person:       handler.NewPersonHandler(personService),
		Capital:      handler.NewCapitalHandler(capitalService),
		Dividend:     handler.NewDividendHandler(dividendService),
		Document:     handler.NewDocumentHandler(documentService),
		Meeting:      handler.NewMeetingHandler(meetingService),
		Notification: handler.NewNotificationHandler(notificationService),
		Billing:      handler.NewBillingHandler(invoiceService),
		Payroll:      handler.NewPayrollHandler(payrollService),
		Tax:          handler.NewTaxHandler(taxService),
		Expense:      handler.NewExpenseHandler(expenseService),
		Asset:        handler.NewAssetHandler(assetService),
		Currency:     handler.NewCurrencyHandler(currencyService),
		Report:       handler.NewReportHandler(reportService),
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		db.Collector(),
	)
	httpMetrics, err := middleware.NewHTTPMetrics(registry)
	if err != nil {
		log.Fatal("Failed to register HTTP metrics", zap.Error(err))
	}

	// Middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Start the server span
	// 5. Metrics - Prometheus request counters
	// 6. CORS - Handle cross-origin requests
	// 7. Security - Add security headers
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	tracing := middleware.DefaultTracingConfig(cfg.Telemetry.ServiceName)
	tracing.Enabled = cfg.Telemetry.Enabled
	engine.Use(middleware.TracingWithConfig(tracing))
	engine.Use(httpMetrics.Handler())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Secure(middleware.SecurityConfig{}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Outside API versioning
	engine.GET("/health", handlers.System.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	guards := router.Guards{
		Authenticate: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Validator: authService,
			Logger:    log,
		}),
		CompanyScope: middleware.CompanyScope(companyService, log),
		Scoped:       []gin.HandlerFunc{middleware.SpanAttributes()},
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		guards.AuthLimit = middleware.AuthRateLimit(
			middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow),
		)
	}
	if tel.Profiler.IsEnabled() {
		guards.Scoped = append(guards.Scoped, middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPI(r, handlers, guards)
	routes := r.Setup()
	log.Info("Routes registered", zap.String("base_path", r.BasePath()), zap.Int("count", len(routes)))
	engine.NoRoute(handlers.System.RouteNotFound)

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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func telemetryConfig(cfg *config.Config) telemetry.Config {
	t := cfg.Telemetry
	return telemetry.Config{
		Enabled:           t.Enabled,
		CollectorEndpoint: t.CollectorEndpoint,
		SamplingRatio:     t.SamplingRatio,
		ServiceName:       t.ServiceName,
		ServiceVersion:    version,
		Insecure:          t.Insecure,
		MetricsEnabled:    t.MetricsEnabled,
		MetricsInterval:   t.MetricsInterval,
		LogsEnabled:       t.LogsEnabled,
		DBTraceEnabled:    t.DBTraceEnabled,
		DBSlowQueryThresh: t.DBSlowQueryThresh,
		ProfilingEnabled:  t.ProfilingEnabled,
		ProfilingServer:   t.ProfilingServer,
	}
}

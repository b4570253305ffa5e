package integration

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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
	"github.com/rwbiz/backend/internal/infrastructure/persistence"
	"github.com/rwbiz/backend/internal/infrastructure/storage"
	"github.com/rwbiz/backend/internal/interfaces/http/handler"
	"github.com/rwbiz/backend/internal/interfaces/http/middleware"
	"github.com/rwbiz/backend/internal/interfaces/http/router"
	"github.com/rwbiz/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// APIServer is the full HTTP stack over a TestDB. PDF export is left
// unconfigured, so export endpoints answer 503.
type APIServer struct {
	DB     *TestDB
	Engine *gin.Engine
	Events *testutil.RecordingEventHandler
	Client *testutil.APIClient
}

// NewAPIServer wires repositories, services and routes the way the server
// binary does, with in-process cache, blacklist and object storage.
func NewAPIServer(t *testing.T, tdb *TestDB) *APIServer {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Storage.Driver = "memory"
	cfg.JWT.Secret = "integration-access-secret-0123456789"
	cfg.JWT.RefreshSecret = "integration-refresh-secret-0123456789"

	log := zap.NewNop()
	db := tdb.DB

	store := cache.NewMemoryStore()
	t.Cleanup(func() {
		_ = store.Close()
	})
	objectStorage, err := storage.New(context.Background(), cfg.Storage, log)
	require.NoError(t, err)

	userRepo := persistence.NewGormUserRepository(db)
	companyRepo := persistence.NewGormCompanyRepository(db)
	membershipRepo := persistence.NewGormMembershipRepository(db)
	personRepo := persistence.NewGormPersonRepository(db)
	capitalRepo := persistence.NewGormLockedCapitalRepository(db)
	withdrawalRepo := persistence.NewGormWithdrawalRepository(db)
	declarationRepo := persistence.NewGormDeclarationRepository(db)
	distributionRepo := persistence.NewGormDistributionRepository(db)
	documentRepo := persistence.NewGormDocumentRepository(db)
	meetingRepo := persistence.NewGormMeetingRepository(db)
	notificationRepo := persistence.NewGormNotificationRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	payrollRepo := persistence.NewGormPayrollRunRepository(db)
	filingRepo := persistence.NewGormTaxFilingRepository(db)
	expenseRepo := persistence.NewGormExpenseRepository(db)
	assetRepo := persistence.NewGormAssetRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	// Synchronous bus so assertions see handler effects immediately
	bus := event.NewBus(log, event.Options{})
	recorder := testutil.NewRecordingEventHandler()
	bus.Subscribe(recorder)

	authService := identityapp.NewAuthService(userRepo, auth.NewJWTService(cfg.JWT), auth.NewInMemoryTokenBlacklist(), bus, log)
	companyService := companyapp.NewCompanyService(companyRepo, membershipRepo, userRepo, personRepo, txScope.Company(), store, bus, log)
	personService := personapp.NewPersonService(personRepo, companyRepo, bus, log)
	capitalService := capitalapp.NewCapitalService(capitalRepo, withdrawalRepo, personRepo, txScope.Capital(), cfg.Capital, bus, log)
	dividendService := dividendapp.NewDividendService(declarationRepo, distributionRepo, personRepo, cfg.Tax, bus, log)
	documentService := documentapp.NewDocumentService(
		persistence.NewGormDocumentCategoryRepository(db), documentRepo,
		persistence.NewGormDocumentAccessRepository(db), persistence.NewGormDocumentActivityRepository(db),
		membershipRepo, objectStorage, cfg.Upload, bus, log,
	)
	notificationService := notificationapp.NewNotificationService(notificationRepo, membershipRepo, log)
	invoiceService := billingapp.NewInvoiceService(
		invoiceRepo, persistence.NewGormReceiptRepository(db), companyRepo, txScope.Billing(), nil, bus, log,
	)
	payrollService, err := payrollapp.NewPayrollService(payrollRepo, personRepo, cfg.Payroll, bus, log)
	require.NoError(t, err)
	taxService := taxapp.NewTaxService(filingRepo, companyRepo,
		taxapp.Sources{Invoices: invoiceRepo, Expenses: expenseRepo, Payroll: payrollRepo, Assets: assetRepo},
		cfg.Tax, notificationService, bus, log,
	)
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
	}, store, nil, export.NewXLSXWriter(), log)
	bus.Subscribe(notificationapp.NewEventHandler(notificationService, log))
	bus.Subscribe(reportapp.NewDashboardInvalidator(reportService))

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Secure(middleware.SecurityConfig{}))
	r := router.NewRouter(engine)
	router.RegisterAPI(r, router.Handlers{
		System:       handler.NewSystemHandler("rwbiz", "integration"),
		Auth:         handler.NewAuthHandler(authService),
		Company:      handler.NewCompanyHandler(companyService),
		Person:       handler.NewPersonHandler(personService),
		Capital:      handler.NewCapitalHandler(capitalService),
		Dividend:     handler.NewDividendHandler(dividendService),
		Document:     handler.NewDocumentHandler(documentService),
		Meeting:      handler.NewMeetingHandler(meetingapp.NewMeetingService(meetingRepo, personRepo, log)),
		Notification: handler.NewNotificationHandler(notificationService),
		Billing:      handler.NewBillingHandler(invoiceService),
		Payroll:      handler.NewPayrollHandler(payrollService),
		Tax:          handler.NewTaxHandler(taxService),
		Expense:      handler.NewExpenseHandler(expenseapp.NewExpenseService(expenseRepo, documentRepo, bus, log)),
		Asset:        handler.NewAssetHandler(assetapp.NewAssetService(assetRepo, log)),
		Currency:     handler.NewCurrencyHandler(currencyapp.NewCurrencyService(persistence.NewGormExchangeRateRepository(db), companyRepo, log)),
		Report:       handler.NewReportHandler(reportService),
	}, router.Guards{
		Authenticate: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{Validator: authService}),
		CompanyScope: middleware.CompanyScope(companyService, log),
	})
	r.Setup()

	return &APIServer{
		DB:     tdb,
		Engine: engine,
		Events: recorder,
		Client: &testutil.APIClient{Handler: engine},
	}
}

// session is the token pair of a signed-in user
type session struct {
	Token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"token"`
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignUp registers an account and logs it in
func (s *APIServer) SignUp(t *testing.T, email, fullName string) session {
	t.Helper()
	const password = "Umuganda#2024"

	resp := s.Client.Post(t, "/api/v1/auth/register", map[string]any{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	})
	require.Equal(t, 201, resp.Code, "register: %+v", resp.Envelope.Error)

	resp = s.Client.Post(t, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, 200, resp.Code, "login: %+v", resp.Envelope.Error)

	var out session
	resp.Decode(t, &out)
	require.NotEmpty(t, out.Token.AccessToken)
	return out
}

// waitTimeout bounds polling on the synchronous bus
const waitTimeout = 2 * time.Second

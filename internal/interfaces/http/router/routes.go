package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rwbiz/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers of every bounded context
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	Company      *handler.CompanyHandler
	Person       *handler.PersonHandler
	Capital      *handler.CapitalHandler
	Dividend     *handler.DividendHandler
	Document     *handler.DocumentHandler
	Meeting      *handler.MeetingHandler
	Notification *handler.NotificationHandler
	Billing      *handler.BillingHandler
	Payroll      *handler.PayrollHandler
	Tax          *handler.TaxHandler
	Expense      *handler.ExpenseHandler
	Asset        *handler.AssetHandler
	Currency     *handler.CurrencyHandler
	Report       *handler.ReportHandler
}

// Guards are the middleware chains placed in front of the route groups.
// Nil entries are skipped.
type Guards struct {
	// AuthLimit throttles the public credential endpoints
	AuthLimit gin.HandlerFunc
	// Authenticate validates the bearer token
	Authenticate gin.HandlerFunc
	// CompanyScope resolves X-Company-ID into the caller's membership
	CompanyScope gin.HandlerFunc
	// Scoped runs after CompanyScope on company routes
	Scoped []gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// RegisterAPI declares every versioned route of the service on r
func RegisterAPI(r *Router, h Handlers, g Guards) {
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	// Credential endpoints are public
	publicAuth := NewDomainGroup("auth", "/auth").Use(chain(g.AuthLimit)...)
	publicAuth.POST("/register", h.Auth.Register)
	publicAuth.POST("/login", h.Auth.Login)
	publicAuth.POST("/refresh", h.Auth.RefreshToken)

	session := NewDomainGroup("session", "/auth").Use(chain(g.Authenticate)...)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/me", h.Auth.UpdateProfile)
	session.PUT("/password", h.Auth.ChangePassword)

	// Companies the caller belongs to, no company scope yet
	account := NewDomainGroup("account", "/companies").Use(chain(g.Authenticate)...)
	account.POST("", h.Company.CreateCompany)
	account.GET("", h.Company.ListMyCompanies)

	scoped := NewDomainGroup("company-scoped", "").
		Use(chain(g.Authenticate, g.CompanyScope)...).
		Use(chain(g.Scoped...)...)

	company := scoped.Group("company", "/company")
	company.GET("", h.Company.GetCompany)
	company.PUT("", h.Company.UpdateCompany)
	company.PATCH("/status", h.Company.SetCompanyStatus)
	company.DELETE("", h.Company.DeleteCompany)
	company.GET("/members", h.Company.ListMembers)
	company.POST("/members", h.Company.AddMember)
	company.PUT("/members/:userId", h.Company.ChangeMemberRole)
	company.DELETE("/members/:userId", h.Company.RemoveMember)

	persons := scoped.Group("persons", "/persons")
	persons.POST("", h.Person.Create)
	persons.GET("", h.Person.List)
	persons.GET("/:id", h.Person.Get)
	persons.PUT("/:id", h.Person.Update)
	persons.PUT("/:id/shares", h.Person.UpdateShares)
	persons.POST("/:id/terminate", h.Person.Terminate)
	persons.DELETE("/:id", h.Person.Delete)
	persons.GET("/:id/dividends", h.Dividend.PersonDistributions)

	capital := scoped.Group("capital", "/capital")
	capital.POST("", h.Capital.Create)
	capital.GET("", h.Capital.List)
	capital.GET("/summary", h.Capital.Summary)
	capital.GET("/withdrawals", h.Capital.ListWithdrawals)
	capital.GET("/withdrawals/:id", h.Capital.GetWithdrawal)
	capital.POST("/withdrawals/:id/review", h.Capital.ReviewWithdrawal)
	capital.GET("/:id", h.Capital.Get)
	capital.PUT("/:id", h.Capital.Update)
	capital.DELETE("/:id", h.Capital.Delete)
	capital.POST("/:id/unlock", h.Capital.Unlock)
	capital.GET("/:id/roi", h.Capital.ROI)
	capital.POST("/:id/withdrawals", h.Capital.RequestWithdrawal)

	dividends := scoped.Group("dividends", "/dividends")
	dividends.POST("", h.Dividend.Create)
	dividends.GET("", h.Dividend.List)
	dividends.POST("/distributions/:id/pay", h.Dividend.MarkDistributionPaid)
	dividends.GET("/:id", h.Dividend.Get)
	dividends.PUT("/:id", h.Dividend.Update)
	dividends.DELETE("/:id", h.Dividend.Delete)
	dividends.POST("/:id/declare", h.Dividend.Declare)
	dividends.GET("/:id/preview", h.Dividend.Preview)
	dividends.POST("/:id/distribute", h.Dividend.Distribute)
	dividends.POST("/:id/cancel", h.Dividend.Cancel)
	dividends.GET("/:id/distributions", h.Dividend.Distributions)

	documents := scoped.Group("documents", "/documents")
	documents.POST("/categories", h.Document.CreateCategory)
	documents.GET("/categories", h.Document.ListCategories)
	documents.PUT("/categories/:id", h.Document.UpdateCategory)
	documents.DELETE("/categories/:id", h.Document.DeleteCategory)
	documents.POST("", h.Document.Upload)
	documents.GET("", h.Document.List)
	documents.GET("/:id", h.Document.Get)
	documents.GET("/:id/download", h.Document.Download)
	documents.PUT("/:id", h.Document.UpdateMetadata)
	documents.POST("/:id/archive", h.Document.Archive)
	documents.POST("/:id/restore", h.Document.Restore)
	documents.DELETE("/:id", h.Document.Delete)
	documents.POST("/:id/access", h.Document.GrantAccess)
	documents.GET("/:id/access", h.Document.ListAccess)
	documents.DELETE("/:id/access/:userId", h.Document.RevokeAccess)
	documents.GET("/:id/activities", h.Document.Activities)

	meetings := scoped.Group("meetings", "/meetings")
	meetings.POST("", h.Meeting.Create)
	meetings.GET("", h.Meeting.List)
	meetings.GET("/upcoming", h.Meeting.Upcoming)
	meetings.GET("/:id", h.Meeting.Get)
	meetings.PUT("/:id", h.Meeting.Update)
	meetings.POST("/:id/complete", h.Meeting.Complete)
	meetings.POST("/:id/cancel", h.Meeting.Cancel)
	meetings.DELETE("/:id", h.Meeting.Delete)

	notifications := scoped.Group("notifications", "/notifications")
	notifications.GET("", h.Notification.List)
	notifications.GET("/unread-count", h.Notification.UnreadCount)
	notifications.POST("/read-all", h.Notification.MarkAllRead)
	notifications.POST("/:id/read", h.Notification.MarkRead)
	notifications.DELETE("/:id", h.Notification.Delete)

	invoices := scoped.Group("invoices", "/invoices")
	invoices.POST("", h.Billing.CreateInvoice)
	invoices.GET("", h.Billing.ListInvoices)
	invoices.GET("/receivables", h.Billing.Receivables)
	invoices.GET("/:id", h.Billing.GetInvoice)
	invoices.PUT("/:id", h.Billing.UpdateInvoice)
	invoices.DELETE("/:id", h.Billing.DeleteInvoice)
	invoices.POST("/:id/issue", h.Billing.IssueInvoice)
	invoices.POST("/:id/cancel", h.Billing.CancelInvoice)
	invoices.GET("/:id/pdf", h.Billing.ExportInvoicePDF)
	invoices.POST("/:id/payments", h.Billing.RecordPayment)

	receipts := scoped.Group("receipts", "/receipts")
	receipts.GET("", h.Billing.ListReceipts)
	receipts.GET("/:id", h.Billing.GetReceipt)

	payroll := scoped.Group("payroll", "/payroll")
	payroll.POST("/calculate", h.Payroll.Calculate)
	payroll.POST("/runs", h.Payroll.CreateRun)
	payroll.GET("/runs", h.Payroll.ListRuns)
	payroll.GET("/runs/:id", h.Payroll.GetRun)
	payroll.DELETE("/runs/:id", h.Payroll.DeleteRun)
	payroll.POST("/runs/:id/recalculate", h.Payroll.RecalculateRun)
	payroll.POST("/runs/:id/approve", h.Payroll.ApproveRun)
	payroll.POST("/runs/:id/pay", h.Payroll.MarkRunPaid)
	payroll.GET("/periods/:year/:month", h.Payroll.GetRunByPeriod)

	tax := scoped.Group("tax", "/tax")
	tax.GET("/calendar", h.Tax.Calendar)
	tax.POST("/filings", h.Tax.Compute)
	tax.GET("/filings", h.Tax.List)
	tax.GET("/filings/:id", h.Tax.Get)
	tax.DELETE("/filings/:id", h.Tax.Delete)
	tax.POST("/filings/:id/recompute", h.Tax.Recompute)
	tax.POST("/filings/:id/file", h.Tax.File)
	tax.POST("/filings/:id/pay", h.Tax.MarkPaid)

	expenses := scoped.Group("expenses", "/expenses")
	expenses.GET("/categories", h.Expense.Categories)
	expenses.GET("/summary", h.Expense.Summary)
	expenses.POST("", h.Expense.Create)
	expenses.GET("", h.Expense.List)
	expenses.GET("/:id", h.Expense.Get)
	expenses.PUT("/:id", h.Expense.Update)
	expenses.DELETE("/:id", h.Expense.Delete)
	expenses.POST("/:id/submit", h.Expense.Submit)
	expenses.POST("/:id/approve", h.Expense.Approve)
	expenses.POST("/:id/reject", h.Expense.Reject)

	assets := scoped.Group("assets", "/assets")
	assets.POST("", h.Asset.Create)
	assets.GET("", h.Asset.List)
	assets.POST("/preview", h.Asset.Preview)
	assets.GET("/depreciation", h.Asset.Depreciation)
	assets.GET("/:id", h.Asset.Get)
	assets.PUT("/:id", h.Asset.Update)
	assets.DELETE("/:id", h.Asset.Delete)
	assets.POST("/:id/dispose", h.Asset.Dispose)
	assets.GET("/:id/schedule", h.Asset.Schedule)

	currency := scoped.Group("currency", "/currency")
	currency.POST("/rates", h.Currency.CreateRate)
	currency.GET("/rates", h.Currency.ListRates)
	currency.GET("/rates/:id", h.Currency.GetRate)
	currency.DELETE("/rates/:id", h.Currency.DeleteRate)
	currency.GET("/convert", h.Currency.Convert)

	reports := scoped.Group("reports", "/reports")
	reports.GET("/dashboard", h.Report.Dashboard)
	reports.GET("/shareholders", h.Report.Shareholders)
	reports.GET("/capital", h.Report.Capital)
	reports.GET("/dividends", h.Report.Dividends)
	reports.GET("/payroll", h.Report.Payroll)
	reports.GET("/tax", h.Report.Tax)
	reports.GET("/:kind/export", h.Report.Export)

	r.Register(system, publicAuth, session, account, scoped)
}

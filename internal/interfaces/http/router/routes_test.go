package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rwbiz/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandlers() Handlers {
	return Handlers{
		System:       handler.NewSystemHandler("rwbiz", "test"),
		Auth:         handler.NewAuthHandler(nil),
		Company:      handler.NewCompanyHandler(nil),
		Person:       handler.NewPersonHandler(nil),
		Capital:      handler.NewCapitalHandler(nil),
		Dividend:     handler.NewDividendHandler(nil),
		Document:     handler.NewDocumentHandler(nil),
		Meeting:      handler.NewMeetingHandler(nil),
		Notification: handler.NewNotificationHandler(nil),
		Billing:      handler.NewBillingHandler(nil),
		Payroll:      handler.NewPayrollHandler(nil),
		Tax:          handler.NewTaxHandler(nil),
		Expense:      handler.NewExpenseHandler(nil),
		Asset:        handler.NewAssetHandler(nil),
		Currency:     handler.NewCurrencyHandler(nil),
		Report:       handler.NewReportHandler(nil),
	}
}

// recordingGuards appends the name of each guard that ran. The last scoped
// guard stops the chain so handlers with nil services are never reached.
func recordingGuards(seen *[]string) Guards {
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			*seen = append(*seen, name)
			c.Next()
		}
	}
	return Guards{
		AuthLimit:    mark("limit"),
		Authenticate: mark("auth"),
		CompanyScope: mark("company"),
		Scoped: []gin.HandlerFunc{
			mark("span"),
			func(c *gin.Context) {
				*seen = append(*seen, "stop")
				c.AbortWithStatus(http.StatusNoContent)
			},
		},
	}
}

func setupAPI(t *testing.T, g Guards) *gin.Engine {
	t.Helper()
	engine := gin.New()
	r := NewRouter(engine)
	require.NotPanics(t, func() {
		RegisterAPI(r, testHandlers(), g)
		r.Setup()
	})
	return engine
}

func TestRegisterAPI_RouteTable(t *testing.T) {
	var seen []string
	engine := setupAPI(t, recordingGuards(&seen))

	registered := make(map[string]bool)
	for _, ri := range engine.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	for _, route := range []string{
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"POST /api/v1/companies",
		"GET /api/v1/company",
		"PUT /api/v1/company/members/:userId",
		"PUT /api/v1/persons/:id/shares",
		"GET /api/v1/persons/:id/dividends",
		"GET /api/v1/capital/withdrawals",
		"GET /api/v1/capital/:id/roi",
		"POST /api/v1/dividends/:id/distribute",
		"POST /api/v1/dividends/distributions/:id/pay",
		"GET /api/v1/documents/:id/download",
		"DELETE /api/v1/documents/:id/access/:userId",
		"GET /api/v1/meetings/upcoming",
		"POST /api/v1/notifications/read-all",
		"GET /api/v1/invoices/:id/pdf",
		"GET /api/v1/payroll/periods/:year/:month",
		"GET /api/v1/tax/calendar",
		"POST /api/v1/expenses/:id/approve",
		"POST /api/v1/assets/preview",
		"GET /api/v1/currency/convert",
		"GET /api/v1/reports/:kind/export",
		"GET /api/v1/system/ping",
	} {
		assert.True(t, registered[route], "route %s should be registered", route)
	}
}

func TestRegisterAPI_GuardOrder(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   []string
	}{
		{"company route passes every guard", "GET", "/api/v1/capital/summary", []string{"auth", "company", "span", "stop"}},
		{"static and param siblings resolve", "GET", "/api/v1/reports/tax/export", []string{"auth", "company", "span", "stop"}},
		{"account route skips company scope", "GET", "/api/v1/companies", []string{"auth"}},
		{"credential route is public", "POST", "/api/v1/auth/login", []string{"limit"}},
		{"session route needs a token", "GET", "/api/v1/auth/me", []string{"auth"}},
		{"system route is unguarded", "GET", "/api/v1/system/ping", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []string
			engine := setupAPI(t, recordingGuards(&seen))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{"))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestRegisterAPI_NilGuardsAreSkipped(t *testing.T) {
	engine := setupAPI(t, Guards{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/system/info", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Without a token the handler itself rejects the caller
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/companies", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

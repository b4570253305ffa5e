package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

// header returns middleware that appends name to a response header
func header(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Add("X-Trace", name)
		c.Next()
	}
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouter_BasePath(t *testing.T) {
	assert.Equal(t, "/api/v1", NewRouter(gin.New()).BasePath())
	assert.Equal(t, "/api/v2", NewRouter(gin.New(), WithAPIVersion("v2")).BasePath())
	assert.Equal(t, "/api/v1", NewRouter(gin.New(), WithAPIVersion("")).BasePath())
}

func TestRouter_SetupMountsGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Register(
		NewDomainGroup("tax", "/tax").GET("/calendar", ok).POST("/filings", ok),
		NewDomainGroup("meetings", "/meetings").DELETE("/:id", ok),
	)

	routes := r.Setup()

	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/api/v1/tax/calendar", Group: "tax"},
		{Method: http.MethodPost, Path: "/api/v1/tax/filings", Group: "tax"},
		{Method: http.MethodDelete, Path: "/api/v1/meetings/:id", Group: "meetings"},
	}, routes)
	assert.Len(t, engine.Routes(), 3)

	assert.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v1/tax/calendar").Code)
	assert.Equal(t, http.StatusOK, serve(engine, "DELETE", "/api/v1/meetings/42").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, "GET", "/tax/calendar").Code)
}

func TestRouter_MiddlewareOnlyCoversVersionedRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(header("api"))
	r.Register(NewDomainGroup("system", "/system").GET("/ping", ok))
	r.Setup()
	engine.GET("/health", ok)

	w := serve(engine, "GET", "/api/v1/system/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"api"}, w.Header().Values("X-Trace"))

	w = serve(engine, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Values("X-Trace"))
}

func TestDomainGroup_NestedMiddlewareOrder(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(header("api"))

	scoped := NewDomainGroup("scoped", "").Use(header("auth"), header("company"))
	persons := scoped.Group("persons", "/persons").Use(header("persons"))
	persons.GET("/:id", header("route"), ok)
	scoped.GET("/company", ok)
	r.Register(scoped)
	r.Setup()

	w := serve(engine, "GET", "/api/v1/persons/7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"api", "auth", "company", "persons", "route"}, w.Header().Values("X-Trace"))

	w = serve(engine, "GET", "/api/v1/company")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"api", "auth", "company"}, w.Header().Values("X-Trace"))
}

func TestDomainGroup_AllMethods(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	g := NewDomainGroup("assets", "/assets").
		GET("", ok).
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id", ok).
		DELETE("/:id", ok).
		Handle(http.MethodOptions, "/:id", ok)
	r.Register(g)
	r.Setup()

	assert.Equal(t, "assets", g.Name())
	assert.Equal(t, "/assets", g.Prefix())

	for _, tc := range []struct{ method, target string }{
		{"GET", "/api/v1/assets"},
		{"POST", "/api/v1/assets"},
		{"PUT", "/api/v1/assets/1"},
		{"PATCH", "/api/v1/assets/1"},
		{"DELETE", "/api/v1/assets/1"},
		{"OPTIONS", "/api/v1/assets/1"},
	} {
		assert.Equal(t, http.StatusOK, serve(engine, tc.method, tc.target).Code, "%s %s", tc.method, tc.target)
	}
}

func TestRouter_RoutesBeforeSetup(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v3"))
	reports := NewDomainGroup("company", "")
	reports.Group("reports", "/reports").GET("/dashboard", ok).GET("/:kind/export", ok)
	r.Register(reports)

	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/api/v3/reports/dashboard", Group: "reports"},
		{Method: http.MethodGet, Path: "/api/v3/reports/:kind/export", Group: "reports"},
	}, r.Routes())
}

func TestJoinPaths(t *testing.T) {
	assert.Equal(t, "/api/v1", joinPaths("/api/v1", ""))
	assert.Equal(t, "/api/v1/persons", joinPaths("/api/v1", "/persons"))
	assert.Equal(t, "/api/v1/persons/", joinPaths("/api/v1", "/persons/"))
	assert.Equal(t, "/api/v1/capital/:id/roi", joinPaths("/api/v1/capital", "/:id/roi"))
}

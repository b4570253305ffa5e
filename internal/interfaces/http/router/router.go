package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Route is one declared endpoint with its full path
type Route struct {
	Method string
	Path   string
	Group  string
}

// Router mounts route groups under /api/<version>. Groups are declared
// first and attached to the engine once, in Setup.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	groups     []*DomainGroup
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" path segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		if version != "" {
			r.apiVersion = version
		}
	}
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BasePath is the versioned prefix, /api/v1 by default
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Use adds middleware in front of every versioned route. Routes mounted
// directly on the engine, like /health, do not pass through it.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register queues groups for Setup
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// Routes lists every declared endpoint in declaration order
func (r *Router) Routes() []Route {
	var out []Route
	for _, g := range r.groups {
		out = g.collect(r.BasePath(), out)
	}
	return out
}

// Setup attaches the queued groups to the engine and returns what was mounted
func (r *Router) Setup() []Route {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, g := range r.groups {
		g.mount(api)
	}
	return r.Routes()
}

// DomainGroup is the route tree of one bounded context. Middleware added
// with Use covers the group's own routes and every nested group.
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	endpoints  []endpoint
	children   []*DomainGroup
}

type endpoint struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (g *DomainGroup) Name() string   { return g.name }
func (g *DomainGroup) Prefix() string { return g.prefix }

func (g *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

// Handle declares an endpoint. handlers run after the group middleware.
func (g *DomainGroup) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	g.endpoints = append(g.endpoints, endpoint{method: method, path: relativePath, handlers: handlers})
	return g
}

func (g *DomainGroup) GET(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodGet, p, h...)
}

func (g *DomainGroup) POST(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPost, p, h...)
}

func (g *DomainGroup) PUT(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPut, p, h...)
}

func (g *DomainGroup) PATCH(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPatch, p, h...)
}

func (g *DomainGroup) DELETE(p string, h ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodDelete, p, h...)
}

// Group nests a child group that inherits this group's prefix and middleware
func (g *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *DomainGroup) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, e := range g.endpoints {
		rg.Handle(e.method, e.path, e.handlers...)
	}
	for _, child := range g.children {
		child.mount(rg)
	}
}

func (g *DomainGroup) collect(base string, out []Route) []Route {
	prefix := joinPaths(base, g.prefix)
	for _, e := range g.endpoints {
		out = append(out, Route{Method: e.method, Path: joinPaths(prefix, e.path), Group: g.name})
	}
	for _, child := range g.children {
		out = child.collect(prefix, out)
	}
	return out
}

// joinPaths mirrors gin's joining, keeping a trailing slash on the relative path
func joinPaths(base, rel string) string {
	if rel == "" {
		return base
	}
	joined := path.Join(base, rel)
	if rel[len(rel)-1] == '/' && joined[len(joined)-1] != '/' {
		return joined + "/"
	}
	return joined
}

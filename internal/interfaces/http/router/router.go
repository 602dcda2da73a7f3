package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Registrar attaches its routes to a gin group
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// API mounts registrars under /api/<version>
type API struct {
	engine     *gin.Engine
	version    string
	registrars []Registrar
}

type Option func(*API)

// WithVersion overrides the default "v1" prefix
func WithVersion(version string) Option {
	return func(a *API) { a.version = version }
}

func NewAPI(engine *gin.Engine, opts ...Option) *API {
	a := &API{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) Add(registrars ...Registrar) *API {
	a.registrars = append(a.registrars, registrars...)
	return a
}

// BasePath is the prefix every registrar is mounted under
func (a *API) BasePath() string {
	return "/api/" + a.version
}

func (a *API) Mount() {
	base := a.engine.Group(a.BasePath())
	for _, r := range a.registrars {
		r.RegisterRoutes(base)
	}
}

// Group is one area of the API. Routes are collected first and attached on
// RegisterRoutes so guards added with Use cover every route in the group.
type Group struct {
	name     string
	prefix   string
	guards   []gin.HandlerFunc
	routes   []route
	children []*Group
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewGroup(name, prefix string) *Group {
	return &Group{name: name, prefix: prefix}
}

func (g *Group) Name() string { return g.name }

func (g *Group) Use(guards ...gin.HandlerFunc) *Group {
	g.guards = append(g.guards, guards...)
	return g
}

func (g *Group) Handle(method, p string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: p, handlers: handlers})
	return g
}

func (g *Group) GET(p string, h ...gin.HandlerFunc) *Group    { return g.Handle(http.MethodGet, p, h...) }
func (g *Group) POST(p string, h ...gin.HandlerFunc) *Group   { return g.Handle(http.MethodPost, p, h...) }
func (g *Group) PUT(p string, h ...gin.HandlerFunc) *Group    { return g.Handle(http.MethodPut, p, h...) }
func (g *Group) DELETE(p string, h ...gin.HandlerFunc) *Group { return g.Handle(http.MethodDelete, p, h...) }

// Sub nests a group below g; it inherits g's guards
func (g *Group) Sub(name, prefix string) *Group {
	child := NewGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *Group) RegisterRoutes(rg *gin.RouterGroup) {
	mounted := rg.Group(g.prefix, g.guards...)
	for _, r := range g.routes {
		mounted.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.children {
		child.RegisterRoutes(mounted)
	}
}

// Paths lists "METHOD /full/path" for every route below base, children included
func (g *Group) Paths(base string) []string {
	prefix := joinPath(base, g.prefix)
	out := make([]string, 0, len(g.routes))
	for _, r := range g.routes {
		out = append(out, r.method+" "+joinPath(prefix, r.path))
	}
	for _, child := range g.children {
		out = append(out, child.Paths(prefix)...)
	}
	return out
}

func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(base, rel)
}

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

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestNewAPI(t *testing.T) {
	a := NewAPI(gin.New())
	assert.Equal(t, "/api/v1", a.BasePath())
	assert.Empty(t, a.registrars)

	assert.Equal(t, "/api/v2", NewAPI(gin.New(), WithVersion("v2")).BasePath())
}

func TestAPIMount(t *testing.T) {
	engine := gin.New()
	g := NewGroup("test", "/test").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	NewAPI(engine).Add(g).Mount()

	rec := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestGroup_Methods(t *testing.T) {
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	engine := gin.New()
	g := NewGroup("test", "/test").
		GET("/a", echo).
		POST("/a", echo).
		PUT("/a/:id", echo).
		Handle(http.MethodPatch, "/a/:id", echo).
		DELETE("/a/:id", echo)
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/test/a"},
		{http.MethodPost, "/api/v1/test/a"},
		{http.MethodPut, "/api/v1/test/a/1"},
		{http.MethodPatch, "/api/v1/test/a/1"},
		{http.MethodDelete, "/api/v1/test/a/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.method, rec.Body.String())
		})
	}
	assert.Equal(t, "test", g.Name())
}

func TestGroup_GuardsReachChildren(t *testing.T) {
	engine := gin.New()
	g := NewGroup("admin", "/admin").Use(func(c *gin.Context) {
		c.Header("X-Group", "admin")
		c.Next()
	})
	g.Sub("orders", "/orders").GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "orders")
	})
	NewAPI(engine).Add(g).Mount()

	rec := serve(engine, http.MethodGet, "/api/v1/admin/orders")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "orders", rec.Body.String())
	assert.Equal(t, "admin", rec.Header().Get("X-Group"))
}

func TestGroup_Paths(t *testing.T) {
	g := NewGroup("admin", "/admin").GET("/stats")
	g.Sub("orders", "/orders").GET("").DELETE("/:id")

	assert.Equal(t, []string{
		"GET /api/v1/admin/stats",
		"GET /api/v1/admin/orders",
		"DELETE /api/v1/admin/orders/:id",
	}, g.Paths("/api/v1"))
}

func TestMount_RegistersStorefrontRoutes(t *testing.T) {
	engine := gin.New()
	Mount(engine, Handlers{}, Guards{})

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /info",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"POST /api/v1/auth/logout",
		"GET /api/v1/products/categories",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"GET /api/v1/products/:id/quote",
		"GET /api/v1/design/shapes",
		"GET /api/v1/design/shapes/:id",
		"POST /api/v1/design/assets",
		"PUT /api/v1/drafts/current",
		"GET /api/v1/drafts/current",
		"DELETE /api/v1/drafts/current",
		"POST /api/v1/orders",
		"GET /api/v1/user/orders",
		"GET /api/v1/user/orders/:id",
		"GET /api/v1/admin/stats",
		"GET /api/v1/admin/analytics/revenue",
		"GET /api/v1/admin/analytics/products",
		"GET /api/v1/admin/products",
		"POST /api/v1/admin/products",
		"PUT /api/v1/admin/products/:id",
		"DELETE /api/v1/admin/products/:id",
		"GET /api/v1/admin/orders",
		"GET /api/v1/admin/orders/:id",
		"PUT /api/v1/admin/orders/:id/status",
		"DELETE /api/v1/admin/orders/:id",
		"POST /api/v1/admin/orders/:id/whatsapp",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
	assert.Len(t, registered, len(expected))

	var declared []string
	for _, g := range Storefront(Handlers{}, Guards{}) {
		declared = append(declared, g.Paths("/api/v1")...)
	}
	assert.ElementsMatch(t, expected[2:], declared)
}

func TestStorefront_GuardsApplied(t *testing.T) {
	deny := func(status int) gin.HandlerFunc {
		return func(c *gin.Context) { c.AbortWithStatus(status) }
	}
	engine := gin.New()
	Mount(engine, Handlers{}, Guards{
		Auth:       deny(http.StatusUnauthorized),
		OrderLimit: deny(http.StatusTooManyRequests),
	})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/design/assets", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/drafts/current", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/orders", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/user/orders", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/admin/orders", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(engine, tt.method, tt.path).Code)
		})
	}

	engine = gin.New()
	Mount(engine, Handlers{}, Guards{OrderLimit: deny(http.StatusTooManyRequests)})
	require.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/orders").Code)
}

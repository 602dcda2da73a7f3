package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers are the storefront's HTTP handlers
type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	Catalog    *handler.CatalogHandler
	Design     *handler.DesignHandler
	Order      *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
}

// Guards are the middleware chains placed in front of protected routes
type Guards struct {
	// Auth requires a valid bearer token
	Auth gin.HandlerFunc
	// Admin runs after Auth and admits the admin role only
	Admin gin.HandlerFunc
	// OrderLimit rate limits checkout submissions
	OrderLimit gin.HandlerFunc
}

func passThrough(c *gin.Context) { c.Next() }

func (g Guards) withDefaults() Guards {
	if g.Auth == nil {
		g.Auth = passThrough
	}
	if g.Admin == nil {
		g.Admin = passThrough
	}
	if g.OrderLimit == nil {
		g.OrderLimit = passThrough
	}
	return g
}

// Storefront builds the API route groups
func Storefront(h Handlers, g Guards) []*Group {
	g = g.withDefaults()

	auth := NewGroup("auth", "/auth").
		POST("/login", h.Auth.Login).
		GET("/me", g.Auth, h.Auth.Me).
		POST("/logout", g.Auth, h.Auth.Logout)

	products := NewGroup("catalog", "/products").
		GET("/categories", h.Catalog.ListCategories).
		GET("", h.Catalog.ListProducts).
		GET("/:id", h.Catalog.GetProduct).
		GET("/:id/quote", h.Catalog.Quote)

	designs := NewGroup("design", "/design").
		GET("/shapes", h.Design.ListShapes).
		GET("/shapes/:id", h.Design.GetShape).
		POST("/assets", g.Auth, h.Design.UploadAsset)

	drafts := NewGroup("drafts", "/drafts").
		Use(g.Auth).
		PUT("/current", h.Design.SaveDraft).
		GET("/current", h.Design.GetDraft).
		DELETE("/current", h.Design.ClearDraft)

	orders := NewGroup("orders", "/orders").
		POST("", g.Auth, g.OrderLimit, h.Order.CreateOrder)

	account := NewGroup("account", "/user").
		Use(g.Auth).
		GET("/orders", h.Order.ListMyOrders).
		GET("/orders/:id", h.Order.GetMyOrder)

	admin := NewGroup("admin", "/admin").
		Use(g.Auth, g.Admin).
		GET("/stats", h.AdminOrder.Stats).
		GET("/analytics/revenue", h.AdminOrder.Revenue).
		GET("/analytics/products", h.AdminOrder.TopProducts).
		GET("/products", h.Catalog.ListAdminProducts).
		POST("/products", h.Catalog.CreateProduct).
		PUT("/products/:id", h.Catalog.UpdateProduct).
		DELETE("/products/:id", h.Catalog.DeleteProduct)
	admin.Sub("orders", "/orders").
		GET("", h.AdminOrder.List).
		GET("/:id", h.AdminOrder.Get).
		PUT("/:id/status", h.AdminOrder.UpdateStatus).
		DELETE("/:id", h.AdminOrder.Delete).
		POST("/:id/whatsapp", h.AdminOrder.WhatsApp)

	return []*Group{auth, products, designs, drafts, orders, account, admin}
}

// Mount registers the storefront API and the unversioned system routes on engine
func Mount(engine *gin.Engine, h Handlers, g Guards, opts ...Option) {
	engine.GET("/health", h.System.Health)
	engine.GET("/info", h.System.Info)

	api := NewAPI(engine, opts...)
	for _, group := range Storefront(h, g) {
		api.Add(group)
	}
	api.Mount()
}

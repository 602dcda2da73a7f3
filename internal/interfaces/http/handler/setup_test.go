package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	appdesign "github.com/storefront/backend/internal/application/design"
	identityapp "github.com/storefront/backend/internal/application/identity"
	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/strategy/pricing"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "correct-horse"

// memoryAssets keeps stored objects in memory
type memoryAssets struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memoryAssets) Store(_ context.Context, folder string, asset appdesign.Asset) (appdesign.StoredAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	key := folder + "/" + uuid.NewString() + "-" + asset.Filename
	s.objects[key] = asset.Data
	return appdesign.StoredAsset{Key: key, URL: "/uploads/" + key}, nil
}

func (s *memoryAssets) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryAssets) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// testServer is the storefront API over an in-memory sqlite database
type testServer struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	jwt      *auth.JWTService
	assets   *memoryAssets
	drafts   *appdesign.DraftService
	product  *catalog.Product
	customer *identity.User
	admin    *identity.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	ctx := context.Background()
	categories := persistence.NewGormCategoryRepository(db)
	products := persistence.NewGormProductRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	users := persistence.NewGormUserRepository(db)

	s := &testServer{
		t:      t,
		db:     db,
		assets: &memoryAssets{},
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                "handler-test-secret",
			AccessTokenExpiration: time.Hour,
			Issuer:                "storefront-test",
		}),
	}

	cat, err := catalog.NewCategory("T-Shirts", "t-shirts")
	require.NoError(t, err)
	require.NoError(t, categories.Save(ctx, cat))
	s.product = seedTee(t, cat.ID)
	require.NoError(t, products.Save(ctx, s.product))

	s.customer, err = identity.NewUser("Alex Doe", "alex@example.com", testPassword, identity.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, s.customer))
	s.admin, err = identity.NewUser("Shop Admin", "admin@example.com", testPassword, identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, s.admin))

	revocations := auth.NewMemoryRevocationList()
	pricingSvc := catalogapp.NewPricingService(products, pricing.NewTieredPricingStrategy())
	s.drafts = appdesign.NewDraftService(cache.NewMemoryDraftStore(time.Hour))
	materializer := apptrade.NewOrderMaterializer(
		products,
		pricingSvc,
		persistence.NewGormTransactionScope(db),
		s.assets,
		trade.NewOrderNumberGenerator(trade.DefaultOrderNumberPrefix),
		apptrade.DefaultMaterializerConfig(),
		nil,
	)
	orderSvc := apptrade.NewOrderService(orders, "447700900123", nil)

	authH := NewAuthHandler(identityapp.NewAuthService(users, s.jwt, revocations, nil))
	catalogH := NewCatalogHandler(
		catalogapp.NewCategoryService(categories),
		catalogapp.NewProductService(products, categories),
		pricingSvc,
	)
	designH := NewDesignHandler(appdesign.NewAssetService(s.assets, 1<<20, nil), s.drafts)
	orderH := NewOrderHandler(materializer, orderSvc, s.drafts)
	adminH := NewAdminOrderHandler(orderSvc)
	systemH := NewSystemHandler("storefront", "test", sqlDB)

	authMW := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:  s.jwt,
		Revocations: revocations,
	})

	middleware.SetupValidator()
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/health", systemH.Health)
	r.GET("/info", systemH.Info)

	api := r.Group("/api/v1")
	api.POST("/auth/login", authH.Login)
	api.GET("/auth/me", authMW, authH.Me)
	api.POST("/auth/logout", authMW, authH.Logout)

	api.GET("/products/categories", catalogH.ListCategories)
	api.GET("/products", catalogH.ListProducts)
	api.GET("/products/:id", catalogH.GetProduct)
	api.GET("/products/:id/quote", catalogH.Quote)

	api.GET("/design/shapes", designH.ListShapes)
	api.GET("/design/shapes/:id", designH.GetShape)
	api.POST("/design/assets", authMW, designH.UploadAsset)
	api.PUT("/drafts/current", authMW, designH.SaveDraft)
	api.GET("/drafts/current", authMW, designH.GetDraft)
	api.DELETE("/drafts/current", authMW, designH.ClearDraft)

	api.POST("/orders", authMW, orderH.CreateOrder)
	api.GET("/user/orders", authMW, orderH.ListMyOrders)
	api.GET("/user/orders/:id", authMW, orderH.GetMyOrder)

	admin := api.Group("/admin", authMW, middleware.RequireAdmin())
	admin.GET("/stats", adminH.Stats)
	admin.GET("/orders", adminH.List)
	admin.GET("/orders/:id", adminH.Get)
	admin.PUT("/orders/:id/status", adminH.UpdateStatus)
	admin.DELETE("/orders/:id", adminH.Delete)
	admin.POST("/orders/:id/whatsapp", adminH.WhatsApp)
	admin.GET("/analytics/revenue", adminH.Revenue)
	admin.GET("/analytics/products", adminH.TopProducts)
	admin.GET("/products", catalogH.ListAdminProducts)
	admin.POST("/products", catalogH.CreateProduct)
	admin.PUT("/products/:id", catalogH.UpdateProduct)
	admin.DELETE("/products/:id", catalogH.DeleteProduct)

	s.router = r
	return s
}

func intPtr(i int) *int { return &i }

// seedTee builds a product with a front view, three sizes, a colour and three tiers
func seedTee(t *testing.T, categoryID uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(categoryID, "Classic Tee", "classic-tee", decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	p.AddView(catalog.DefaultViewName, "/mockups/tee-front.png", design.DefaultPrintArea())
	for _, v := range []struct {
		t   catalog.VariantType
		val string
		mod string
	}{
		{catalog.VariantTypeSize, "S", "0"},
		{catalog.VariantTypeSize, "M", "0"},
		{catalog.VariantTypeSize, "XL", "2"},
		{catalog.VariantTypeColor, "Black", "0"},
	} {
		_, err := p.AddVariant(v.t, v.val, decimal.RequireFromString(v.mod))
		require.NoError(t, err)
	}
	require.NoError(t, p.SetTiers(catalog.PriceTierSet{
		catalog.NewPriceTier(1, intPtr(4), decimal.Zero),
		catalog.NewPriceTier(5, intPtr(9), decimal.NewFromInt(10)),
		catalog.NewPriceTier(10, nil, decimal.NewFromInt(20)),
	}))
	return p
}

func (s *testServer) token(u *identity.User) string {
	s.t.Helper()
	issued, err := s.jwt.GenerateAccessToken(auth.GenerateTokenInput{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
	})
	require.NoError(s.t, err)
	return issued.AccessToken
}

// do sends a request with an optional bearer token
func (s *testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(method, path, token string, payload any) *httptest.ResponseRecorder {
	s.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(raw)
	}
	return s.do(method, path, token, body, "application/json")
}

// envelope decodes the response envelope, unmarshalling data into out when given
func envelope(t *testing.T, rec *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var raw struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(raw.Data, out), string(raw.Data))
	}
	return raw.Response
}

// errorCode returns error.code of a failed response
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := envelope(t, rec, nil)
	require.NotNil(t, resp.Error, rec.Body.String())
	return resp.Error.Code
}

// pngBytes encodes a solid w×h image
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equalf(t, want, rec.Code, "body: %s", rec.Body.String())
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

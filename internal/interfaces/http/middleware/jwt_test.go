package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, role string) (*auth.IssuedToken, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(auth.GenerateTokenInput{UserID: userID, Email: "alex@example.com", Role: role})
	require.NoError(t, err)
	return token, userID
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func serve(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	token, userID := newTestToken(t, svc, auth.RoleCustomer)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, userID.String(), GetJWTUserID(c))
		assert.Equal(t, auth.RoleCustomer, GetJWTRole(c))
		c.Status(http.StatusOK)
	})

	rec := serve(router, http.MethodGet, "/test", token.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService()

	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-for-signing-32", AccessTokenExpiration: time.Minute, Issuer: "test-issuer"})
	foreign, _ := newTestToken(t, other, auth.RoleCustomer)

	expired, err := svc.GenerateAccessTokenWithTTL(auth.GenerateTokenInput{UserID: uuid.New()}, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"bad signature", BearerPrefix + foreign.AccessToken, dto.ErrCodeTokenInvalid},
		{"garbage", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"expired", BearerPrefix + expired.AccessToken, dto.ErrCodeTokenExpired},
	}

	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			info := decodeError(t, rec)
			assert.Equal(t, tt.code, info.Code)
			assert.NotEmpty(t, info.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_Revoked(t *testing.T) {
	svc := newTestJWTService()
	token, _ := newTestToken(t, svc, auth.RoleCustomer)

	revoked := auth.NewMemoryRevocationList()
	require.NoError(t, revoked.Revoke(context.Background(), token.JTI, token.ExpiresAt))

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: svc, Revocations: revoked}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(router, http.MethodGet, "/test", token.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, rec).Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	token, userID := newTestToken(t, svc, auth.RoleCustomer)

	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUserID(c))
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("invalid token stays anonymous", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", "garbage")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", token.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String(), rec.Body.String())
	})
}

func TestRequireAdmin(t *testing.T) {
	svc := newTestJWTService()
	admin, _ := newTestToken(t, svc, auth.RoleAdmin)
	customer, _ := newTestToken(t, svc, auth.RoleCustomer)

	router := gin.New()
	router.GET("/admin", JWTAuthMiddleware(svc), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/unguarded", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/admin", admin.AccessToken).Code)

	rec := serve(router, http.MethodGet, "/admin", customer.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, rec).Code)

	rec = serve(router, http.MethodGet, "/unguarded", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

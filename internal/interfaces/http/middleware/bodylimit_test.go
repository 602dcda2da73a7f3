package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(limits BodyLimits) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), BodyLimit(limits))
	handler := func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.String(http.StatusRequestEntityTooLarge, "truncated")
				return
			}
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusOK, "ok")
	}
	router.POST("/orders", handler)
	router.GET("/orders", handler)
	return router
}

func TestBodyLimit(t *testing.T) {
	limits := BodyLimits{Multipart: 64, Other: 16}

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		chunked     bool
		wantStatus  int
		wantCode    string
	}{
		{"small json", http.MethodPost, "application/json", `{"a":1}`, false, http.StatusOK, ""},
		{"json over its cap", http.MethodPost, "application/json", strings.Repeat("x", 32), false, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge},
		{"multipart gets the larger cap", http.MethodPost, "multipart/form-data; boundary=xyz", strings.Repeat("x", 32), false, http.StatusOK, ""},
		{"multipart over its cap", http.MethodPost, "multipart/form-data; boundary=xyz", strings.Repeat("x", 100), false, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge},
		{"streamed body is cut off", http.MethodPost, "application/json", strings.Repeat("x", 32), true, http.StatusRequestEntityTooLarge, ""},
		{"no body", http.MethodGet, "", "", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "/orders", body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			bodyLimitRouter(limits).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				info := decodeError(t, w)
				assert.Equal(t, tt.wantCode, info.Code)
				assert.NotEmpty(t, info.RequestID)
			}
		})
	}
}

func TestBodyLimit_ZeroDisables(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(strings.Repeat("x", 1000)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	bodyLimitRouter(BodyLimits{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

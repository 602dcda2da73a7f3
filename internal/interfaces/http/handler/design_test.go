package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	appdesign "github.com/storefront/backend/internal/application/design"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignHandler_Shapes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/design/shapes", "", nil, "")
	assertStatus(t, rec, http.StatusOK)
	var shapes []design.Shape
	envelope(t, rec, &shapes)
	assert.Len(t, shapes, len(design.Shapes()))
	assert.Equal(t, "square", shapes[0].ID)

	rec = s.do(http.MethodGet, "/api/v1/design/shapes/heart", "", nil, "")
	assertStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodGet, "/api/v1/design/shapes/blob", "", nil, "")
	assertStatus(t, rec, http.StatusNotFound)
}

// multipartBody writes fields and files into a multipart form
func multipartBody(t *testing.T, fields map[string]string, files map[string][][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, contents := range files {
		for i, data := range contents {
			part, err := w.CreateFormFile(field, field+"-"+string(rune('a'+i))+".png")
			require.NoError(t, err)
			_, err = part.Write(data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestDesignHandler_UploadAsset(t *testing.T) {
	s := newTestServer(t)
	token := s.token(s.customer)

	t.Run("png", func(t *testing.T) {
		body, ct := multipartBody(t, nil, map[string][][]byte{"image": {pngBytes(t, 400, 100)}})
		rec := s.do(http.MethodPost, "/api/v1/design/assets", token, body, ct)
		assertStatus(t, rec, http.StatusCreated)

		var resp appdesign.AssetUploadResponse
		envelope(t, rec, &resp)
		assert.NotEmpty(t, resp.AssetToken)
		assert.Equal(t, 400, resp.Image.Width)
		assert.Equal(t, 100, resp.Image.Height)
		require.NotNil(t, resp.Element.Image)
		assert.Equal(t, resp.AssetToken, resp.Element.Image.AssetToken)
		assert.Equal(t, resp.URL, resp.Element.Image.Src)
		assert.Equal(t, 1, s.assets.count())
	})

	t.Run("not an image", func(t *testing.T) {
		body, ct := multipartBody(t, nil, map[string][][]byte{"image": {[]byte("plain text")}})
		rec := s.do(http.MethodPost, "/api/v1/design/assets", token, body, ct)
		assertStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, dto.ErrCodeUnsupportedImage, errorCode(t, rec))
	})

	t.Run("no file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"name": "x"}, nil)
		rec := s.do(http.MethodPost, "/api/v1/design/assets", token, body, ct)
		assertStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, rec))
	})

	t.Run("anonymous", func(t *testing.T) {
		body, ct := multipartBody(t, nil, map[string][][]byte{"image": {pngBytes(t, 10, 10)}})
		rec := s.do(http.MethodPost, "/api/v1/design/assets", "", body, ct)
		assertStatus(t, rec, http.StatusUnauthorized)
	})
}

func TestDesignHandler_DraftLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.token(s.customer)
	draft := map[string]any{"items": []map[string]any{{
		"productId": s.product.ID.String(),
		"quantity":  2,
		"views":     []map[string]any{{"viewId": "front", "elements": []any{}}},
	}}}

	rec := s.doJSON(http.MethodGet, "/api/v1/drafts/current", token, nil)
	assertStatus(t, rec, http.StatusNotFound)
	assert.Equal(t, dto.ErrCodeDraftNotFound, errorCode(t, rec))

	rec = s.doJSON(http.MethodPut, "/api/v1/drafts/current", token, draft)
	assertStatus(t, rec, http.StatusOK)

	rec = s.doJSON(http.MethodGet, "/api/v1/drafts/current", token, nil)
	assertStatus(t, rec, http.StatusOK)
	var saved design.Draft
	envelope(t, rec, &saved)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 2, saved.Items[0].Quantity)
	assert.False(t, saved.SavedAt.IsZero())

	// another customer has their own slot
	rec = s.doJSON(http.MethodGet, "/api/v1/drafts/current", s.token(s.admin), nil)
	assertStatus(t, rec, http.StatusNotFound)

	rec = s.doJSON(http.MethodDelete, "/api/v1/drafts/current", token, nil)
	assertStatus(t, rec, http.StatusNoContent)
	rec = s.doJSON(http.MethodGet, "/api/v1/drafts/current", token, nil)
	assertStatus(t, rec, http.StatusNotFound)
}

func TestDesignHandler_SaveDraftRejectsBadItems(t *testing.T) {
	s := newTestServer(t)
	token := s.token(s.customer)

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{"no items", map[string]any{"items": []any{}}, dto.ErrCodeValidation},
		{"zero quantity", map[string]any{"items": []map[string]any{{"productId": "p", "quantity": 0}}}, "INVALID_QUANTITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.doJSON(http.MethodPut, "/api/v1/drafts/current", token, tt.body)
			assertStatus(t, rec, http.StatusBadRequest)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

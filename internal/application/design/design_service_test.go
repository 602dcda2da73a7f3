package design

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAssetStore is a mock implementation of AssetStore
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Store(ctx context.Context, folder string, asset Asset) (StoredAsset, error) {
	args := m.Called(ctx, folder, asset)
	return args.Get(0).(StoredAsset), args.Error(1)
}

func (m *MockAssetStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockDraftStore is a mock implementation of design.DraftStore
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Save(ctx context.Context, owner string, draft design.Draft) error {
	args := m.Called(ctx, owner, draft)
	return args.Error(0)
}

func (m *MockDraftStore) Load(ctx context.Context, owner string) (*design.Draft, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*design.Draft), args.Error(1)
}

func (m *MockDraftStore) Clear(ctx context.Context, owner string) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAssetService_Upload(t *testing.T) {
	t.Run("probes, stores and sizes element", func(t *testing.T) {
		store := new(MockAssetStore)
		service := NewAssetService(store, 0, nil)
		ctx := context.Background()
		data := pngBytes(t, 800, 400)

		store.On("Store", ctx, FolderDesigns, mock.MatchedBy(func(a Asset) bool {
			return a.ContentType == "image/png" && a.Filename == "logo.png"
		})).Return(StoredAsset{Key: "designs/abc.png", URL: "/uploads/designs/abc.png"}, nil)

		resp, err := service.Upload(ctx, Asset{Filename: "logo.png", Data: data})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AssetToken)
		assert.Equal(t, "/uploads/designs/abc.png", resp.URL)
		assert.Equal(t, 800, resp.Image.Width)
		assert.Equal(t, design.KindImage, resp.Element.Kind)
		assert.Equal(t, 200.0, resp.Element.Width)
		assert.Equal(t, 100.0, resp.Element.Height)
		assert.Equal(t, design.OriginUpload, resp.Element.Image.Origin)
		assert.Equal(t, resp.AssetToken, resp.Element.Image.AssetToken)
		store.AssertExpectations(t)
	})

	t.Run("rejects non-image", func(t *testing.T) {
		store := new(MockAssetStore)
		service := NewAssetService(store, 0, nil)

		_, err := service.Upload(context.Background(), Asset{Filename: "a.pdf", Data: []byte("%PDF-1.4 hello")})
		assert.ErrorIs(t, err, design.ErrUnsupportedImage)
		store.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized and empty files", func(t *testing.T) {
		service := NewAssetService(new(MockAssetStore), 16, nil)

		_, err := service.Upload(context.Background(), Asset{Data: pngBytes(t, 10, 10)})
		assert.True(t, shared.IsCode(err, shared.CodeValidationFailed))

		_, err = service.Upload(context.Background(), Asset{})
		assert.True(t, shared.IsCode(err, shared.CodeValidationFailed))
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(MockAssetStore)
		service := NewAssetService(store, 0, nil)
		store.On("Store", mock.Anything, FolderDesigns, mock.Anything).Return(StoredAsset{}, errors.New("bucket gone"))

		_, err := service.Upload(context.Background(), Asset{Data: pngBytes(t, 4, 4)})
		assert.Error(t, err)
	})
}

func TestDraftService(t *testing.T) {
	doc := design.NewDocument("p-1", "Tee", []design.View{design.DefaultView()})
	require.NoError(t, doc.AddElement(design.DefaultViewID, design.NewTextElement("t1")))

	t.Run("save validates and stamps", func(t *testing.T) {
		store := new(MockDraftStore)
		service := NewDraftService(store)
		ctx := context.Background()
		store.On("Save", ctx, "user-1", mock.AnythingOfType("design.Draft")).Return(nil)

		draft, err := service.Save(ctx, "user-1", SaveDraftRequest{Items: []*design.Document{doc}})
		require.NoError(t, err)
		assert.False(t, draft.SavedAt.IsZero())
		assert.Len(t, draft.Items, 1)
		store.AssertExpectations(t)
	})

	t.Run("save rejects invalid document", func(t *testing.T) {
		store := new(MockDraftStore)
		service := NewDraftService(store)
		bad := doc.Clone()
		bad.Quantity = 0

		_, err := service.Save(context.Background(), "user-1", SaveDraftRequest{Items: []*design.Document{bad}})
		assert.ErrorIs(t, err, design.ErrInvalidQuantity)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("requires owner", func(t *testing.T) {
		service := NewDraftService(new(MockDraftStore))
		_, err := service.Load(context.Background(), "")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		assert.ErrorIs(t, service.Clear(context.Background(), ""), shared.ErrUnauthorized)
	})

	t.Run("load and clear delegate", func(t *testing.T) {
		store := new(MockDraftStore)
		service := NewDraftService(store)
		ctx := context.Background()
		store.On("Load", ctx, "user-2").Return(nil, design.ErrDraftNotFound)
		store.On("Clear", ctx, "user-2").Return(nil)

		_, err := service.Load(ctx, "user-2")
		assert.ErrorIs(t, err, design.ErrDraftNotFound)
		assert.NoError(t, service.Clear(ctx, "user-2"))
	})
}

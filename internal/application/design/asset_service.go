package design

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultMaxAssetBytes bounds a single design image upload
const DefaultMaxAssetBytes = 10 << 20

// AssetUploadResponse is an upload-origin image element ready to add to a view
type AssetUploadResponse struct {
	AssetToken string           `json:"assetToken"`
	URL        string           `json:"url"`
	Image      design.ImageInfo `json:"image"`
	Element    design.Element   `json:"element"`
}

// AssetService runs the editor's upload pre-flight: the image is probed for
// its size, stored, and turned into an element sized for the canvas.
type AssetService struct {
	store    AssetStore
	maxBytes int
	logger   *zap.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(store AssetStore, maxBytes int, logger *zap.Logger) *AssetService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAssetBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetService{store: store, maxBytes: maxBytes, logger: logger}
}

// Upload probes and stores one design image
func (s *AssetService) Upload(ctx context.Context, asset Asset) (*AssetUploadResponse, error) {
	if len(asset.Data) == 0 {
		return nil, shared.NewValidationError("image file is required")
	}
	if len(asset.Data) > s.maxBytes {
		return nil, shared.NewValidationError(fmt.Sprintf("image exceeds %d bytes", s.maxBytes))
	}

	info, err := design.ProbeImage(bytes.NewReader(asset.Data))
	if err != nil {
		return nil, err
	}
	asset.ContentType = info.ContentType()

	stored, err := s.store.Store(ctx, FolderDesigns, asset)
	if err != nil {
		s.logger.Error("design asset store failed", zap.Error(err))
		return nil, fmt.Errorf("store design asset: %w", err)
	}

	token := uuid.NewString()
	el := design.NewUploadImage(design.NewElementID(), stored.URL, info.Width, info.Height)
	el.Image.AssetToken = token

	s.logger.Debug("design asset stored",
		zap.String("format", info.Format),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
	)
	return &AssetUploadResponse{AssetToken: token, URL: stored.URL, Image: info, Element: el}, nil
}

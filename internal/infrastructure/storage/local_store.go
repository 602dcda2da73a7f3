package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appdesign "github.com/storefront/backend/internal/application/design"
	"go.uber.org/zap"
)

// Ensure LocalAssetStore implements AssetStore
var _ appdesign.AssetStore = (*LocalAssetStore)(nil)

// LocalAssetStore writes uploads to a directory served as static files.
// Use it for development; production runs against S3.
type LocalAssetStore struct {
	root          string
	publicBaseURL string
	logger        *zap.Logger
}

// NewLocalAssetStore creates the root directory if needed
func NewLocalAssetStore(root, publicBaseURL string, logger *zap.Logger) (*LocalAssetStore, error) {
	if root == "" {
		return nil, errors.New("storage local dir is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalAssetStore{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Root returns the directory files are written to
func (s *LocalAssetStore) Root() string {
	return s.root
}

// Store writes the asset to root/folder/<uuid><ext>
func (s *LocalAssetStore) Store(_ context.Context, folder string, asset appdesign.Asset) (appdesign.StoredAsset, error) {
	key, err := objectKey(folder, asset)
	if err != nil {
		return appdesign.StoredAsset{}, err
	}
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return appdesign.StoredAsset{}, fmt.Errorf("failed to create folder: %w", err)
	}
	if err := os.WriteFile(full, asset.Data, 0o644); err != nil {
		return appdesign.StoredAsset{}, fmt.Errorf("failed to write asset: %w", err)
	}
	s.logger.Debug("asset stored", zap.String("key", key), zap.Int("bytes", len(asset.Data)))
	return appdesign.StoredAsset{Key: key, URL: s.publicBaseURL + "/" + key}, nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *LocalAssetStore) Delete(_ context.Context, key string) error {
	if !validKey(key) {
		return errInvalidKey
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}

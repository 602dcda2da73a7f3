package storage

import (
	"context"
	"fmt"

	appdesign "github.com/storefront/backend/internal/application/design"
	infraconfig "github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewAssetStore builds the store selected by storage.driver.
// For S3 the bucket is created when missing.
func NewAssetStore(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (appdesign.AssetStore, error) {
	switch cfg.Driver {
	case infraconfig.StorageDriverS3:
		store, err := NewS3AssetStore(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Asset store ready", zap.String("driver", cfg.Driver), zap.String("bucket", store.Bucket()))
		return store, nil
	case infraconfig.StorageDriverLocal, "":
		store, err := NewLocalAssetStore(cfg.LocalDir, cfg.PublicBaseURL, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Asset store ready", zap.String("driver", infraconfig.StorageDriverLocal), zap.String("dir", cfg.LocalDir))
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

package design

import (
	"context"
)

// Asset is an uploaded file held in memory until it is stored
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StoredAsset locates a file in the asset store
type StoredAsset struct {
	// Key is the storage key used to delete the object
	Key string `json:"key"`
	// URL is the public reference saved on design elements
	URL string `json:"url"`
}

// AssetStore persists customer uploads (design images and previews).
// Implementations live in infrastructure/storage.
type AssetStore interface {
	// Store writes the asset under folder and returns where it landed.
	// The object name is generated by the store.
	Store(ctx context.Context, folder string, asset Asset) (StoredAsset, error)

	// Delete removes a stored object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Folders used in the asset store
const (
	FolderDesigns  = "designs"
	FolderPreviews = "previews"
)

package storage

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	appdesign "github.com/storefront/backend/internal/application/design"
)

var errInvalidKey = errors.New("invalid storage key")

// objectKey builds folder/<uuid><ext>. Client file names never reach the key.
func objectKey(folder string, asset appdesign.Asset) (string, error) {
	folder = strings.Trim(folder, "/")
	if folder == "" || strings.Contains(folder, "..") {
		return "", errInvalidKey
	}
	return folder + "/" + uuid.NewString() + extensionOf(asset), nil
}

// extensionOf prefers the file name's extension and falls back to the content type
func extensionOf(asset appdesign.Asset) string {
	ext := strings.ToLower(path.Ext(asset.Filename))
	if ext != "" && len(ext) <= 5 && isAlnum(ext[1:]) {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentTypeOf(asset)); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// contentTypeOf uses the declared type, sniffing the bytes when it is missing
func contentTypeOf(asset appdesign.Asset) string {
	if asset.ContentType != "" {
		return asset.ContentType
	}
	return http.DetectContentType(asset.Data)
}

// validKey rejects empty keys and keys that escape the store root
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/utils"
)

type StorageMode string

const (
	StorageModeLocal StorageMode = "local"
	StorageModeGCS   StorageMode = "gcs"
)

// Store persists uploaded media (recipe images, avatars) and resolves
// public URLs for stored objects. Keys are slash-separated paths such as
// "recipes/<uuid>.png".
type Store interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewStore builds the store selected by MEDIA_STORAGE_MODE
// ("local", the default, or "gcs").
func NewStore(log *logger.Logger) (Store, error) {
	mode := StorageMode(strings.ToLower(strings.TrimSpace(utils.GetEnv("MEDIA_STORAGE_MODE", string(StorageModeLocal), log))))
	switch mode {
	case StorageModeLocal:
		return NewLocalStore(log)
	case StorageModeGCS:
		return NewGCSStore(log)
	default:
		return nil, fmt.Errorf("unknown MEDIA_STORAGE_MODE %q (expected 'local' or 'gcs')", mode)
	}
}

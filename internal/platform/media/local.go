package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/utils"
)

type localStore struct {
	log     *logger.Logger
	root    string
	baseURL string
}

// NewLocalStore writes media under MEDIA_ROOT on the local filesystem.
// The HTTP layer serves that directory at /media/, so URLs are built as
// PUBLIC_BASE_URL + "/media/" + key.
func NewLocalStore(log *logger.Logger) (Store, error) {
	storeLog := log.With("service", "MediaStore", "mode", "local")

	root := utils.GetEnv("MEDIA_ROOT", "./media", log)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %q: %w", root, err)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/")

	storeLog.Info("Media store initialized", "root", root, "public_base_url", baseURL)
	return &localStore{
		log:     storeLog,
		root:    root,
		baseURL: baseURL,
	}, nil
}

func (s *localStore) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir for %q: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file %q: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete media file %q: %w", key, err)
	}
	return nil
}

func (s *localStore) URL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if s.baseURL != "" {
		return fmt.Sprintf("%s/media/%s", s.baseURL, key)
	}
	return "/media/" + key
}

// pathFor resolves key inside the media root and rejects keys that would
// escape it.
func (s *localStore) pathFor(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("empty media key")
	}
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve media root: %w", err)
	}
	pathAbs, err := filepath.Abs(filepath.Join(rootAbs, filepath.FromSlash(key)))
	if err != nil {
		return "", fmt.Errorf("failed to resolve media path for %q: %w", key, err)
	}
	if pathAbs != rootAbs && !strings.HasPrefix(pathAbs, rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("media key %q escapes media root", key)
	}
	return pathAbs, nil
}

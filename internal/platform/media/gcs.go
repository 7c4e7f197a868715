package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

type gcsStore struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
	cdnDomain     string
	emulatorHost  string
}

// NewGCSStore uploads media to a single GCS bucket named by
// GCS_BUCKET_NAME. When STORAGE_EMULATOR_HOST is set the client talks to
// the emulator without authentication, which is how local compose stacks
// and integration tests run.
func NewGCSStore(log *logger.Logger) (Store, error) {
	storeLog := log.With("service", "MediaStore", "mode", "gcs")

	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET_NAME"))
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	cdnDomain := strings.TrimSpace(os.Getenv("GCS_CDN_DOMAIN"))
	emulatorHost := strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/")

	stClient, err := newStorageClient(context.Background(), emulatorHost)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	storeLog.Info(
		"Media store initialized",
		"bucket", bucket,
		"cdn_domain", cdnDomain,
		"emulator_host", emulatorHost,
	)
	return &gcsStore{
		log:           storeLog,
		storageClient: stClient,
		bucket:        bucket,
		cdnDomain:     cdnDomain,
		emulatorHost:  emulatorHost,
	}, nil
}

func newStorageClient(ctx context.Context, emulatorHost string) (*storage.Client, error) {
	if emulatorHost != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", emulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	return storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
}

func (s *gcsStore) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.storageClient.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %q to GCS: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return s.URL(key), nil
}

func (s *gcsStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	o := s.storageClient.Bucket(s.bucket).Object(key)
	if err := o.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *gcsStore) URL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	if s.emulatorHost != "" {
		return fmt.Sprintf(
			"%s/storage/v1/b/%s/o/%s?alt=media",
			s.emulatorHost,
			url.PathEscape(s.bucket),
			url.PathEscape(key),
		)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

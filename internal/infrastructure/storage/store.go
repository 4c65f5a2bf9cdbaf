// Package storage uploads admin media (project images, certificates,
// avatars, documents) to an object store and returns public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oksasatya/portofolio/config"
)

var ErrNotConfigured = errors.New("object storage not configured")

// ObjectStore is implemented by the GCS and S3 adapters.
type ObjectStore interface {
	// Put writes r under key and returns the object's public URL.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Open builds the store selected by STORAGE_PROVIDER. A provider without a
// bucket yields a store that rejects every call with ErrNotConfigured.
func Open(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageProvider {
	case "", "gcs":
		if cfg.GCSBucket == "" {
			return Disabled{}, nil
		}
		return NewGCS(ctx, cfg.GCSCredentialsJSONPath, cfg.GCSBucket)
	case "s3":
		if cfg.S3Bucket == "" {
			return Disabled{}, nil
		}
		return NewS3(ctx, S3Options{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}

// Disabled is used when no bucket is configured.
type Disabled struct{}

func (Disabled) Put(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Delete(context.Context, string) error { return ErrNotConfigured }

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS creates a Google Cloud Storage store. If credsPath is empty,
// Application Default Credentials are used.
func NewGCS(ctx context.Context, credsPath, bucket string) (*GCS, error) {
	var (
		client *gcs.Client
		err    error
	)
	if credsPath == "" {
		client, err = gcs.NewClient(ctx)
	} else {
		client, err = gcs.NewClient(ctx, option.WithCredentialsFile(credsPath))
	}
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (s *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // uploads are small; send in one request
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return GCSPublicURL(s.bucket, key), nil
}

func (s *GCS) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCS) Close() error { return s.client.Close() }

// GCSPublicURL assumes the bucket grants public read.
func GCSPublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

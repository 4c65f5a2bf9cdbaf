package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/portofolio/config"
)

func TestOpenWithoutBucketIsDisabled(t *testing.T) {
	for _, provider := range []string{"", "gcs", "s3"} {
		st, err := Open(context.Background(), &config.Config{StorageProvider: provider})
		require.NoError(t, err)
		assert.IsType(t, Disabled{}, st)
	}
}

func TestOpenUnknownProvider(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StorageProvider: "ftp"})
	assert.Error(t, err)
}

func TestDisabledRejects(t *testing.T) {
	_, err := Disabled{}.Put(context.Background(), "k", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, Disabled{}.Delete(context.Background(), "k"), ErrNotConfigured)
}

func TestGCSPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/b/projects/u1/a.png", GCSPublicURL("b", "projects/u1/a.png"))
}

func TestS3BaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", S3BaseURL(S3Options{PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "http://minio:9000/media", S3BaseURL(S3Options{Endpoint: "http://minio:9000/", Bucket: "media"}))
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com", S3BaseURL(S3Options{Bucket: "media", Region: "eu-west-1"}))
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/config"
)

func TestPhotoKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "tickets/u-1/1700000000123.png", PhotoKey("u-1", at, "png"))
	assert.Equal(t, "tickets/u-1/1700000000123.jpg", PhotoKey("u-1", at, ""))
}

func TestObjectURLs(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/campus/tickets/u/1.jpg", gcsPublicURL("campus", "tickets/u/1.jpg"))
	assert.Equal(t, "http://minio:9000/campus/tickets/u/1.jpg", minioObjectURL("http://minio:9000/", "campus", "tickets/u/1.jpg"))
}

func TestNewBlobStoreSelection(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	store, err := NewBlobStore(ctx, config.BlobConfig{Backend: "none"}, logger)
	require.NoError(t, err)
	assert.Nil(t, store)

	_, err = NewBlobStore(ctx, config.BlobConfig{Backend: "ftp"}, logger)
	assert.Error(t, err)

	_, err = NewBlobStore(ctx, config.BlobConfig{Backend: "gcs"}, logger)
	assert.ErrorContains(t, err, "GCS_BUCKET")

	_, err = NewBlobStore(ctx, config.BlobConfig{Backend: "minio"}, logger)
	assert.ErrorContains(t, err, "MINIO_ENDPOINT")
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/campusfix/complaint-service/internal/config"
)

// GCSStore writes photos to a Google Cloud Storage bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
	logger *zap.Logger
}

// NewGCSStore connects and checks the bucket is reachable.
func NewGCSStore(ctx context.Context, cfg config.BlobConfig, logger *zap.Logger) (*GCSStore, error) {
	if cfg.GCSBucket == "" {
		return nil, errors.New("GCS_BUCKET is required for the gcs backend")
	}
	var opts []option.ClientOption
	if cfg.GCSCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentials))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect gcs: %w", err)
	}
	if _, err := client.Bucket(cfg.GCSBucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gcs bucket %s: %w", cfg.GCSBucket, err)
	}
	logger.Info("connected to gcs", zap.String("bucket", cfg.GCSBucket))
	return &GCSStore{client: client, bucket: cfg.GCSBucket, logger: logger}, nil
}

// Put uploads data under key.
func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	writer := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", key, err)
	}

	url := gcsPublicURL(s.bucket, key)
	s.logger.Debug("photo uploaded", zap.String("url", url))
	return url, nil
}

// Close releases the client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func gcsPublicURL(bucket, key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}

// Package storage keeps ticket photos in an object store and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusfix/complaint-service/internal/config"
)

// BlobStore uploads an object and returns the URL clients use to fetch it.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// PhotoKey is where a user's ticket photo lives: tickets/{uid}/{unix-millis}.{ext}.
func PhotoKey(userID string, at time.Time, ext string) string {
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("tickets/%s/%d.%s", userID, at.UnixMilli(), ext)
}

// NewBlobStore builds the configured backend. It returns nil, nil for "none".
func NewBlobStore(ctx context.Context, cfg config.BlobConfig, logger *zap.Logger) (BlobStore, error) {
	switch cfg.Backend {
	case "gcs":
		return NewGCSStore(ctx, cfg, logger)
	case "minio":
		return NewMinioStore(ctx, cfg, logger)
	case "", "none":
		logger.Warn("BLOB_BACKEND is none; ticket photos will not be stored")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown BLOB_BACKEND %q", cfg.Backend)
	}
}

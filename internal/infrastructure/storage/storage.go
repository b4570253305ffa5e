// Package storage provides the object storage drivers behind the document vault.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"time"

	docapp "github.com/rwbiz/backend/internal/application/document"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultPresignExpiry = 15 * time.Minute

var errMissingKey = errors.New("storage key is required")

func errObjectNotFound() error {
	return shared.NotFound("File")
}

// attachment builds a Content-Disposition value for a download
func attachment(fileName string) string {
	if fileName == "" {
		return "attachment"
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}

// New creates the storage driver selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (docapp.ObjectStorage, error) {
	switch cfg.Driver {
	case "s3":
		s, err := NewS3ObjectStorage(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		return NewMinioObjectStorage(ctx, cfg, logger)
	case "memory", "":
		logger.Warn("Using in-memory object storage; documents are lost on restart")
		return NewMemoryObjectStorage(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	docapp "github.com/rwbiz/backend/internal/application/document"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ docapp.ObjectStorage = (*MinioObjectStorage)(nil)

// MinioObjectStorage stores documents in a MinIO bucket
type MinioObjectStorage struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewMinioObjectStorage connects to MinIO and creates the bucket when missing
func NewMinioObjectStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*MinioObjectStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// minio wants host:port without a scheme
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		logger.Info("Creating storage bucket", zap.String("bucket", cfg.Bucket))
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	return &MinioObjectStorage{client: client, bucket: cfg.Bucket, presignExpiry: expiry, logger: logger}, nil
}

// Put streams an object into the bucket
func (m *MinioObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if key == "" {
		return errMissingKey
	}
	if _, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// Get opens an object for reading
func (m *MinioObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, docapp.ObjectInfo, error) {
	if key == "" {
		return nil, docapp.ObjectInfo{}, errMissingKey
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, docapp.ObjectInfo{}, fmt.Errorf("get object: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing key
	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, docapp.ObjectInfo{}, errObjectNotFound()
		}
		return nil, docapp.ObjectInfo{}, fmt.Errorf("stat object: %w", err)
	}
	return obj, docapp.ObjectInfo{Size: st.Size, ContentType: st.ContentType}, nil
}

// Delete removes an object
func (m *MinioObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errMissingKey
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// PresignGet generates a presigned download URL
func (m *MinioObjectStorage) PresignGet(ctx context.Context, key, fileName string, expiry time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errMissingKey
	}
	if expiry <= 0 {
		expiry = m.presignExpiry
	}
	params := url.Values{}
	params.Set("response-content-disposition", attachment(fileName))
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, params)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign object: %w", err)
	}
	return u.String(), time.Now().Add(expiry), nil
}

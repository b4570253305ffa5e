package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	docapp "github.com/rwbiz/backend/internal/application/document"
)

var _ docapp.ObjectStorage = (*MemoryObjectStorage)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryObjectStorage keeps objects in process memory. It backs development
// setups and tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes the URLs returned by PresignGet
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryObjectStorage creates an empty in-memory store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost/storage",
		objects: make(map[string]memoryObject),
	}
}

// Put stores a copy of the reader's content
func (s *MemoryObjectStorage) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if key == "" {
		return errMissingKey
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read object: %w", err)
	}
	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	s.mu.Unlock()
	return nil
}

// Get returns a reader over the stored content
func (s *MemoryObjectStorage) Get(_ context.Context, key string) (io.ReadCloser, docapp.ObjectInfo, error) {
	if key == "" {
		return nil, docapp.ObjectInfo{}, errMissingKey
	}
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, docapp.ObjectInfo{}, errObjectNotFound()
	}
	return io.NopCloser(bytes.NewReader(obj.data)), docapp.ObjectInfo{
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
	}, nil
}

// Delete removes an object
func (s *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errMissingKey
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// PresignGet returns a pseudo URL. Nothing serves it; it exists so the
// redirect flow can be exercised without a bucket.
func (s *MemoryObjectStorage) PresignGet(_ context.Context, key, fileName string, expiry time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errMissingKey
	}
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	expiresAt := time.Now().Add(expiry)
	q := url.Values{}
	q.Set("expires", expiresAt.Format(time.RFC3339))
	if fileName != "" {
		q.Set("filename", fileName)
	}
	return s.BaseURL + "/" + key + "?" + q.Encode(), expiresAt, nil
}

// Exists reports whether a key is stored
func (s *MemoryObjectStorage) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

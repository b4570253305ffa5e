package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryObjectStorage_RoundTrip(t *testing.T) {
	s := NewMemoryObjectStorage()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "companies/c/documents/a.txt", strings.NewReader("hello"), 5, "text/plain"))
	assert.True(t, s.Exists("companies/c/documents/a.txt"))

	rc, info, err := s.Get(ctx, "companies/c/documents/a.txt")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "text/plain", info.ContentType)

	require.NoError(t, s.Delete(ctx, "companies/c/documents/a.txt"))
	_, _, err = s.Get(ctx, "companies/c/documents/a.txt")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryObjectStorage_PresignGet(t *testing.T) {
	s := NewMemoryObjectStorage()

	u, expiresAt, err := s.PresignGet(context.Background(), "k/doc.pdf", "doc.pdf", time.Minute)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost/storage/k/doc.pdf?"))
	assert.Contains(t, u, "filename=doc.pdf")
	assert.True(t, expiresAt.After(time.Now()))
}

func TestMemoryObjectStorage_EmptyKey(t *testing.T) {
	s := NewMemoryObjectStorage()
	ctx := context.Background()

	assert.Error(t, s.Put(ctx, "", strings.NewReader(""), 0, ""))
	assert.Error(t, s.Delete(ctx, ""))
	_, _, err := s.PresignGet(ctx, "", "", 0)
	assert.Error(t, err)
}

func TestNew_SelectsDriver(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Driver: "memory"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryObjectStorage{}, s)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}

package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"family-dues-go/internal/config"
	"family-dues-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	store := NewMemory("http://files.local")

	require.NoError(t, store.Put(ctx, "folders/f-1/a.pdf", "application/pdf", strings.NewReader("%PDF"), 4))

	data, contentType, ok := store.Object("folders/f-1/a.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF", string(data))
	assert.Equal(t, "application/pdf", contentType)

	link, err := store.PresignGet(ctx, "folders/f-1/a.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://files.local/folders%2Ff-1%2Fa.pdf?expires="))

	require.NoError(t, store.Delete(ctx, "folders/f-1/a.pdf"))
	_, _, ok = store.Object("folders/f-1/a.pdf")
	assert.False(t, ok)
	require.NoError(t, store.Delete(ctx, "missing"))
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), config.StorageConfig{}, logger.Discard())
	require.Error(t, err)
}

func TestS3PresignIsOffline(t *testing.T) {
	store, err := NewS3(context.Background(), config.StorageConfig{
		Bucket:       "legajos",
		Region:       "us-east-1",
		Endpoint:     "http://localhost:9000",
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
		UsePathStyle: true,
	}, logger.Discard())
	require.NoError(t, err)

	link, err := store.PresignGet(context.Background(), "folders/f-1/a.pdf", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:9000/legajos/folders/f-1/a.pdf?"), link)
	assert.Contains(t, link, "X-Amz-Signature=")
	assert.Contains(t, link, "X-Amz-Expires=300")
}

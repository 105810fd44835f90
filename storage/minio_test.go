package storage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ActivityAdmin/config"
)

func TestMinioStorePutGetJSON(t *testing.T) {
	endpoint := os.Getenv("MINIO_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_TEST_ENDPOINT not set")
	}
	cfg := &config.Config{
		MinioEndpoint:  endpoint,
		MinioAccessKey: os.Getenv("MINIO_TEST_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_TEST_SECRET_KEY"),
		MinioBucket:    "admin-test-" + uuid.NewString()[:8],
		MinioRegion:    "us-east-1",
	}

	ctx := context.Background()
	s, err := NewMinioStore(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(ctx), "second ensure must be a no-op")

	in := map[string]interface{}{"count": float64(2), "values": []interface{}{"a", "b"}}
	n, err := s.PutJSON(ctx, "blocklist/active.json", in)
	require.NoError(t, err)
	assert.Positive(t, n)

	var out map[string]interface{}
	require.NoError(t, s.GetJSON(ctx, "blocklist/active.json", &out))
	assert.Equal(t, in, out)
}

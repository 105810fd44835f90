package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"ActivityAdmin/logger"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DB_DRIVER", "REDIS_ENABLED", "JWT_TTL", "BCRYPT_COST", "MINIO_ENABLED"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.True(t, cfg.RedisEnabled)
	assert.False(t, cfg.MinioEnabled)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("BCRYPT_COST", "4")

	cfg := FromEnv()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("LOG_COMPRESS", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.LogCompress)
}

func TestApplyLogLevel(t *testing.T) {
	prev := logger.Level()
	t.Cleanup(func() { logger.SetLevel(logger.LogLevel(prev.String())) })

	ApplyLogLevel(map[string]string{"LOG_LEVEL": "error"})
	assert.Equal(t, zapcore.ErrorLevel, logger.Level())

	ApplyLogLevel(map[string]string{"OTHER": "x"})
	assert.Equal(t, zapcore.ErrorLevel, logger.Level())
}

func TestWatchEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=info\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan map[string]string, 4)
	require.NoError(t, WatchEnvFile(ctx, path, func(v map[string]string) { got <- v }))

	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o644))

	// a single write can surface as several events, the first one possibly on a truncated file
	deadline := time.After(5 * time.Second)
	for {
		select {
		case v := <-got:
			if v["LOG_LEVEL"] == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("no change notification")
		}
	}
}

package server

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ActivityAdmin/cache"
	"ActivityAdmin/config"
	"ActivityAdmin/core/auth"
	"ActivityAdmin/db"
	"ActivityAdmin/logger"
	"ActivityAdmin/repository"
	"ActivityAdmin/service"
	"ActivityAdmin/storage"
)

// App holds every long-lived dependency. It is built once at startup and passed down.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client       // nil when REDIS_ENABLED=false
	Minio    *storage.MinioStore // nil when MINIO_ENABLED=false
	Tokens   *auth.TokenManager
	Sessions cache.SessionStore
	Audit    *service.AuditService
	Accounts *service.AccountService
	Blocks   *service.BlockListService
}

// NewApp connects to the configured database, Redis and MinIO and wires the services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisEnabled {
		rdb, err = db.ConnectRedis(ctx, cfg)
		if err != nil {
			db.Close(gdb)
			return nil, err
		}
		logger.Info("Successfully connected to Redis", logger.String("addr", cfg.RedisAddr()))
	} else {
		logger.Warn("Redis disabled, token revocation is kept in process memory")
	}

	var store *storage.MinioStore
	if cfg.MinioEnabled {
		store, err = storage.NewMinioStore(ctx, cfg)
		if err != nil {
			if rdb != nil {
				rdb.Close()
			}
			db.Close(gdb)
			return nil, err
		}
	}

	app, err := BuildApp(cfg, gdb, rdb, store)
	if err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// BuildApp wires repositories and services over already opened connections.
// rdb and store may be nil.
func BuildApp(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client, store *storage.MinioStore) (*App, error) {
	app := &App{Config: cfg, DB: gdb, Redis: rdb, Minio: store}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return app, fmt.Errorf("invalid token settings: %w", err)
	}
	app.Tokens = tokens

	var typeCache cache.BlockTypeCache
	if rdb != nil {
		app.Sessions = cache.NewRedisSessionStore(rdb)
		typeCache = cache.NewRedisBlockTypeCache(rdb, cfg.BlockTypeCacheTTL)
	} else {
		app.Sessions = cache.NewMemorySessionStore()
	}

	var exporter service.Exporter
	if store != nil {
		exporter = store
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	app.Audit = service.NewAuditService(repository.NewGormOperationLogRepository(gdb))
	app.Accounts = service.NewAccountService(repository.NewGormUserRepository(gdb), hasher, tokens, app.Sessions, app.Audit)
	app.Blocks = service.NewBlockListService(
		repository.NewGormBlockEntityRepository(gdb),
		repository.NewGormBlockTypeRepository(gdb),
		typeCache, exporter, app.Audit)
	return app, nil
}

// Close releases the connections held by the app.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Warn("failed to close Redis", logger.ErrorField(err))
		}
	}
	if err := db.Close(a.DB); err != nil {
		logger.Warn("failed to close database", logger.ErrorField(err))
	}
}

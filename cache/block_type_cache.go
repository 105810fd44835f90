package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ActivityAdmin/logger"
	"ActivityAdmin/model"
)

const blockTypesKey = "admin:block_types"

// BlockTypeCache caches the block type reference list.
type BlockTypeCache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context) ([]model.BlockType, error)
	Set(ctx context.Context, types []model.BlockType) error
	Invalidate(ctx context.Context) error
}

// RedisBlockTypeCache stores the list as one JSON value.
type RedisBlockTypeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBlockTypeCache 创建黑名单类型缓存
func NewRedisBlockTypeCache(client *redis.Client, ttl time.Duration) *RedisBlockTypeCache {
	return &RedisBlockTypeCache{client: client, ttl: ttl}
}

func (c *RedisBlockTypeCache) Get(ctx context.Context) ([]model.BlockType, error) {
	data, err := c.client.Get(ctx, blockTypesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logger.Debug("黑名单类型缓存未命中")
			return nil, nil
		}
		return nil, err
	}
	var types []model.BlockType
	if err := json.Unmarshal(data, &types); err != nil {
		logger.Warn("黑名单类型缓存数据损坏", logger.ErrorField(err))
		return nil, nil
	}
	return types, nil
}

func (c *RedisBlockTypeCache) Set(ctx context.Context, types []model.BlockType) error {
	data, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, blockTypesKey, data, c.ttl).Err()
}

func (c *RedisBlockTypeCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, blockTypesKey).Err()
}

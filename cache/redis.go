package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"ActivityAdmin/logger"
)

const (
	revokedTokenPrefix = "admin:revoked:token:"
	revokedUserPrefix  = "admin:revoked:user:"
)

// RedisSessionStore keeps revocation marks in Redis so that every server instance sees them.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore 创建 Redis 会话存储
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err(); err != nil {
		logger.Error("撤销token失败", logger.String("tokenId", tokenID), logger.ErrorField(err))
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

func (s *RedisSessionStore) RevokeUser(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	err := s.client.Set(ctx, revokedUserPrefix+userID, at.UnixMilli(), ttl).Err()
	if err != nil {
		logger.Error("撤销用户token失败", logger.String("userId", userID), logger.ErrorField(err))
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) UserRevokedAt(ctx context.Context, userID string) (time.Time, error) {
	val, err := s.client.Get(ctx, revokedUserPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read user revocation: %w", err)
	}
	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed revocation mark for %s: %w", userID, err)
	}
	return time.UnixMilli(ms), nil
}

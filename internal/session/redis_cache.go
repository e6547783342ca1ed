package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/notetalk/internal/model"
)

// keyPrefix はRedisキーの名前空間。
const keyPrefix = "session:"

// RedisCache はRedisを使用したトークンキャッシュ。
// TTLの強制はRedis側のキー有効期限に委ねる。
// SET/GET/DELは単一キー操作のためキー単位のアトミック性はRedisが保証する。
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache はRedisCacheを生成する。
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get は指定ユーザーのトークンを取得する。不在（未設定または期限切れ）の場合はnilを返す。
func (c *RedisCache) Get(ctx context.Context, userID string) (*model.Credential, error) {
	token, err := c.client.Get(ctx, keyPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return &model.Credential{
		OwnerID: userID,
		Token:   token,
	}, nil
}

// Put はトークンをTTL付きで保存する。既存エントリは上書きされる。
func (c *RedisCache) Put(ctx context.Context, cred *model.Credential, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+cred.OwnerID, cred.Token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to put credential: %w", err)
	}
	return nil
}

// Invalidate は指定ユーザーのトークンを削除する。
func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate credential: %w", err)
	}
	return nil
}

// compile-time interface check
var _ Cache = (*RedisCache)(nil)

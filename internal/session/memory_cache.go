package session

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/notetalk/internal/model"
)

// entry はインメモリキャッシュの1エントリ。
type entry struct {
	cred      model.Credential
	expiresAt time.Time
}

// MemoryCache はプロセス内のトークンキャッシュ。
// テストおよびRedisを持たないローカル実行で使用する。
// RedisCacheと同じ契約を満たす: 期限切れのエントリはGetで不在として扱う。
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time // テストで時刻を差し替えるためのフック
}

// NewMemoryCache はMemoryCacheを生成する。
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get は指定ユーザーのトークンを取得する。不在または期限切れの場合はnilを返す。
func (c *MemoryCache) Get(ctx context.Context, userID string) (*model.Credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, userID)
		return nil, nil
	}

	cred := e.cred
	return &cred, nil
}

// Put はトークンをTTL付きで保存する。既存エントリは上書きされる。
func (c *MemoryCache) Put(ctx context.Context, cred *model.Credential, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cred.OwnerID] = entry{
		cred:      *cred,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Invalidate は指定ユーザーのトークンを削除する。
func (c *MemoryCache) Invalidate(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	return nil
}

// compile-time interface check
var _ Cache = (*MemoryCache)(nil)

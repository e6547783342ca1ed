// Package session はBearerトークンのキャッシュを提供する。
// トークンはログイン成功時にTTL付きで保存され、TTL満了か
// バックエンドの401応答（無効化）で消える。対話層が永続化することはない。
package session

import (
	"context"
	"time"

	"github.com/hitoshi/notetalk/internal/model"
)

// DefaultTTL はトークンキャッシュの既定の有効期間。
const DefaultTTL = 1800 * time.Second

// Cache はトークンキャッシュのインターフェース。
// 呼び出し側は「未設定による不在」と「期限切れによる不在」を区別しない。
// Get/Put/Invalidateはキー単位でアトミックであること。
type Cache interface {
	// Get は指定ユーザーのトークンを取得する。不在の場合はnilを返す。
	Get(ctx context.Context, userID string) (*model.Credential, error)

	// Put はトークンをTTL付きで保存する。既存エントリは常に上書きされる
	// （last-login-wins）。
	Put(ctx context.Context, cred *model.Credential, ttl time.Duration) error

	// Invalidate は指定ユーザーのトークンを削除する。
	// バックエンドが401を返した時に呼ばれ、次の操作をLoginへ戻す。
	// エントリが存在しなくてもエラーにはならない。
	Invalidate(ctx context.Context, userID string) error
}

package session

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/notetalk/internal/model"
)

// TestMemoryCache_PutGet は保存したトークンがそのまま取得できることを検証する。
func TestMemoryCache_PutGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	err := c.Put(ctx, &model.Credential{OwnerID: "u1", Token: "tok-1"}, DefaultTTL)
	if err != nil {
		t.Fatalf("Put がエラーを返した: %v", err)
	}

	cred, err := c.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get がエラーを返した: %v", err)
	}
	if cred == nil {
		t.Fatal("保存したトークンが取得できない")
	}
	if cred.Token != "tok-1" {
		t.Errorf("Token = %s, want tok-1", cred.Token)
	}
}

// TestMemoryCache_GetAbsent は未設定のキーが不在になることを検証する。
func TestMemoryCache_GetAbsent(t *testing.T) {
	c := NewMemoryCache()

	cred, err := c.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get がエラーを返した: %v", err)
	}
	if cred != nil {
		t.Errorf("未設定のキーに対して %+v が返った", cred)
	}
}

// TestMemoryCache_TTLExpiry は期限切れのエントリが不在として扱われることを検証する。
func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.Put(ctx, &model.Credential{OwnerID: "u1", Token: "tok-1"}, DefaultTTL); err != nil {
		t.Fatalf("Put がエラーを返した: %v", err)
	}

	// TTL経過後に時計を進める
	c.now = func() time.Time { return now.Add(DefaultTTL + time.Second) }

	cred, err := c.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get がエラーを返した: %v", err)
	}
	if cred != nil {
		t.Errorf("期限切れのトークンが返った: %+v", cred)
	}
}

// TestMemoryCache_LastLoginWins は再ログインで古いトークンが上書きされることを検証する。
func TestMemoryCache_LastLoginWins(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Put(ctx, &model.Credential{OwnerID: "u1", Token: "old"}, DefaultTTL)
	c.Put(ctx, &model.Credential{OwnerID: "u1", Token: "new"}, DefaultTTL)

	cred, _ := c.Get(ctx, "u1")
	if cred == nil || cred.Token != "new" {
		t.Errorf("cred = %+v, want Token=new", cred)
	}
}

// TestMemoryCache_Invalidate は無効化後のGetが不在を返すことを検証する。
func TestMemoryCache_Invalidate(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Put(ctx, &model.Credential{OwnerID: "u1", Token: "tok-1"}, DefaultTTL)

	if err := c.Invalidate(ctx, "u1"); err != nil {
		t.Fatalf("Invalidate がエラーを返した: %v", err)
	}

	cred, _ := c.Get(ctx, "u1")
	if cred != nil {
		t.Errorf("無効化後にトークンが返った: %+v", cred)
	}

	// 存在しないキーの無効化はエラーにならない
	if err := c.Invalidate(ctx, "u1"); err != nil {
		t.Errorf("二重の Invalidate がエラーを返した: %v", err)
	}
}

// TestMemoryCache_KeyIsolation はユーザーXへの操作がユーザーYに影響しないことを検証する。
func TestMemoryCache_KeyIsolation(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Put(ctx, &model.Credential{OwnerID: "x", Token: "tok-x"}, DefaultTTL)
	c.Put(ctx, &model.Credential{OwnerID: "y", Token: "tok-y"}, DefaultTTL)

	// Yの上書きと無効化
	c.Put(ctx, &model.Credential{OwnerID: "y", Token: "tok-y2"}, DefaultTTL)
	c.Invalidate(ctx, "y")

	cred, _ := c.Get(ctx, "x")
	if cred == nil || cred.Token != "tok-x" {
		t.Errorf("Yへの操作がXに影響した: %+v", cred)
	}
}

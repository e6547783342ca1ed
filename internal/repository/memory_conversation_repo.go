package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/notetalk/internal/model"
)

// MemoryConversationRepo はプロセス内の会話リポジトリ。
// テストおよびPostgreSQLを持たないローカル実行で使用する。
type MemoryConversationRepo struct {
	mu    sync.Mutex
	convs map[string]model.Conversation
}

// NewMemoryConversationRepo はMemoryConversationRepoを生成する。
func NewMemoryConversationRepo() *MemoryConversationRepo {
	return &MemoryConversationRepo{
		convs: make(map[string]model.Conversation),
	}
}

// FindByID は指定IDの会話を取得する。見つからない場合はnilを返す。
func (r *MemoryConversationRepo) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[id]
	if !ok {
		return nil, nil
	}
	return &conv, nil
}

// Create は会話を作成する。
func (r *MemoryConversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.convs[conv.ID] = *conv
	return nil
}

// UpdateState は会話の状態を更新する。
func (r *MemoryConversationRepo) UpdateState(ctx context.Context, id string, state model.DialogState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[id]
	if !ok {
		return nil
	}
	conv.State = state
	conv.UpdatedAt = time.Now()
	r.convs[id] = conv
	return nil
}

// MarkRegistered は会話の登録済みフラグを立てる。
func (r *MemoryConversationRepo) MarkRegistered(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[id]
	if !ok {
		return nil
	}
	conv.Registered = true
	conv.UpdatedAt = time.Now()
	r.convs[id] = conv
	return nil
}

// DeleteByID は指定IDの会話を削除する。
func (r *MemoryConversationRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.convs, id)
	return nil
}

// compile-time interface check
var _ ConversationRepository = (*MemoryConversationRepo)(nil)

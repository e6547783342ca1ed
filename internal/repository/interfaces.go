// Package repository は会話状態の永続化インターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/notetalk/internal/model"
)

// ConversationRepository は会話状態の永続化インターフェース。
// 会話ごとに現在のDialogStateと登録済みフラグを保持する。
type ConversationRepository interface {
	// FindByID は指定IDの会話を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Conversation, error)

	// Create は会話を作成する。
	Create(ctx context.Context, conv *model.Conversation) error

	// UpdateState は会話の状態を更新する。
	UpdateState(ctx context.Context, id string, state model.DialogState) error

	// MarkRegistered は会話の登録済みフラグを立てる。
	// 最初の登録成功またはログイン成功時に1度だけ意味を持つ（冪等）。
	MarkRegistered(ctx context.Context, id string) error

	// DeleteByID は指定IDの会話を削除する。
	DeleteByID(ctx context.Context, id string) error
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/notetalk/internal/model"
)

// PostgresConversationRepo はPostgreSQLを使用した会話リポジトリ。
type PostgresConversationRepo struct {
	db *sql.DB
}

// NewPostgresConversationRepo はPostgresConversationRepoを生成する。
func NewPostgresConversationRepo(db *sql.DB) *PostgresConversationRepo {
	return &PostgresConversationRepo{db: db}
}

// FindByID は指定IDの会話を取得する。見つからない場合はnilを返す。
func (r *PostgresConversationRepo) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	conv := &model.Conversation{}
	var state string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, username, state, registered, created_at, updated_at
		 FROM conversations
		 WHERE id = $1`,
		id,
	).Scan(&conv.ID, &conv.UserID, &conv.Username, &state, &conv.Registered,
		&conv.CreatedAt, &conv.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}

	conv.State = model.DialogState(state)
	return conv, nil
}

// Create は会話を作成する。
func (r *PostgresConversationRepo) Create(ctx context.Context, conv *model.Conversation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, username, state, registered, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		conv.ID, conv.UserID, conv.Username, string(conv.State), conv.Registered,
		conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// UpdateState は会話の状態を更新する。
func (r *PostgresConversationRepo) UpdateState(ctx context.Context, id string, state model.DialogState) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET state = $2, updated_at = $3 WHERE id = $1`,
		id, string(state), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation state: %w", err)
	}
	return nil
}

// MarkRegistered は会話の登録済みフラグを立てる。
func (r *PostgresConversationRepo) MarkRegistered(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET registered = TRUE, updated_at = $2 WHERE id = $1`,
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark conversation registered: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの会話を削除する。
func (r *PostgresConversationRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ConversationRepository = (*PostgresConversationRepo)(nil)

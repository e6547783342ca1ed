// Package model はドメインモデルを定義する。
package model

import "time"

// Identity は会話の相手となる利用者を表す。
// 初回コンタクト時に作成され、以後変更されない。
type Identity struct {
	UserID   string // 外部チャット基盤が割り当てる不透明なID
	Username string
}

// Credential はログイン成功時にバックエンドが発行したBearerトークンを表す。
// SessionCacheにのみ保持され、対話層が永続化することはない。
type Credential struct {
	OwnerID  string
	Token    string
	IssuedAt time.Time
	TTL      time.Duration
}

// Draft は作成途中のノートを表す。
// Title → Content → Tags の順に1ステップ1フィールドずつ埋まり、
// 確定またはキャンセルで全体が破棄される。
type Draft struct {
	Title   string
	Content string
	Tags    string
}

// IsEmpty は全フィールドが未設定かどうかを返す。
func (d Draft) IsEmpty() bool {
	return d.Title == "" && d.Content == "" && d.Tags == ""
}

// Note はバックエンドが管理するノートを表す。
// 正本はバックエンド側にあり、対話層は表示のために受け取るのみ。
type Note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags"`
	OwnerID   int       `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Conversation は1つの対話セッションの永続状態を表す。
// Registeredは最初の登録またはログイン成功時にtrueになり、
// 以後のstartイベントをLoginへ直行させる判断に使う。
type Conversation struct {
	ID         string
	UserID     string
	Username   string
	State      DialogState
	Registered bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
